package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"catering-service/internal/inventory"
	"catering-service/internal/order"
	"catering-service/internal/pricing"
)

type ValidationErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

func formatValidationErrors(validationErrors validator.ValidationErrors) map[string]string {
	details := make(map[string]string, len(validationErrors))
	for _, fieldError := range validationErrors {
		details[fieldError.Field()] = fmt.Sprintf("failed on the '%s' rule", fieldError.Tag())
	}
	return details
}

func respondWithValidationError(w http.ResponseWriter, err error) {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		log.Error().Err(err).Msg("Unexpected error type during validation")
		respondWithError(w, http.StatusInternalServerError, "Internal validation error")
		return
	}
	respondWithJSON(w, http.StatusBadRequest, ValidationErrorResponse{
		Error:   "Validation failed",
		Details: formatValidationErrors(validationErrors),
	})
}

func mapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, order.ErrNotFound),
		errors.Is(err, order.ErrClientNotFound),
		errors.Is(err, order.ErrMenuItemNotFound),
		errors.Is(err, inventory.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrMenuItemUnavailable),
		errors.Is(err, order.ErrClientInactive),
		errors.Is(err, order.ErrOrderAlreadyDelivered):
		return http.StatusUnprocessableEntity
	case errors.Is(err, order.ErrNumberTaken),
		errors.Is(err, inventory.ErrNameTaken):
		return http.StatusConflict
	case errors.Is(err, order.ErrNoLines),
		errors.Is(err, order.ErrNonPositivePartySize),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, inventory.ErrNegativeQuantity),
		errors.Is(err, pricing.ErrNonPositiveQuantity),
		errors.Is(err, pricing.ErrNegativeUnitPrice),
		errors.Is(err, pricing.ErrNegativeDiscount),
		errors.Is(err, pricing.ErrDiscountTooLarge):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
