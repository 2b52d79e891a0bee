package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"catering-service/internal/inventory"
)

type CreateSupplyRequest struct {
	Name            string `json:"name" validate:"required"`
	Description     string `json:"description"`
	Unit            string `json:"unit" validate:"required"`
	CurrentQuantity string `json:"current_quantity" validate:"required"`
	MinimumQuantity string `json:"minimum_quantity" validate:"required"`
	UnitCost        string `json:"unit_cost" validate:"required"`
	Supplier        string `json:"supplier"`
	ExpiryDate      string `json:"expiry_date" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateSupplyRequest struct {
	Name            *string `json:"name,omitempty"`
	Description     *string `json:"description,omitempty"`
	Unit            *string `json:"unit,omitempty"`
	CurrentQuantity *string `json:"current_quantity,omitempty"`
	MinimumQuantity *string `json:"minimum_quantity,omitempty"`
	UnitCost        *string `json:"unit_cost,omitempty"`
	Supplier        *string `json:"supplier,omitempty"`
	ExpiryDate      *string `json:"expiry_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateStockRequest struct {
	Quantity string `json:"quantity" validate:"required"`
}

// InventoryHandler exposes the supply store and threshold monitor over HTTP.
type InventoryHandler struct {
	svc      inventory.Service
	validate *validator.Validate
}

func NewInventoryHandler(svc inventory.Service) *InventoryHandler {
	return &InventoryHandler{
		svc:      svc,
		validate: validator.New(),
	}
}

func (h *InventoryHandler) RegisterRoutes(router chi.Router) {
	router.Post("/supplies", h.handleCreateSupply)
	router.Get("/supplies", h.handleListSupplies)
	router.Get("/supplies/{id}", h.handleGetSupplyByID)
	router.Put("/supplies/{id}", h.handleUpdateSupply)
	router.Patch("/supplies/{id}/stock", h.handleUpdateStock)
	router.Delete("/supplies/{id}", h.handleDeactivateSupply)
	router.Post("/supplies/sweep", h.handleSweep)
}

func (h *InventoryHandler) handleCreateSupply(w http.ResponseWriter, r *http.Request) {
	var requestPayload CreateSupplyRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&requestPayload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := h.validate.Struct(requestPayload); err != nil {
		respondWithValidationError(w, err)
		return
	}

	current, err := decimal.NewFromString(requestPayload.CurrentQuantity)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid current quantity")
		return
	}
	minimum, err := decimal.NewFromString(requestPayload.MinimumQuantity)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid minimum quantity")
		return
	}
	unitCost, err := decimal.NewFromString(requestPayload.UnitCost)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid unit cost")
		return
	}

	item := inventory.SupplyItem{
		Name:            requestPayload.Name,
		Description:     requestPayload.Description,
		Unit:            requestPayload.Unit,
		CurrentQuantity: current,
		MinimumQuantity: minimum,
		UnitCost:        unitCost,
		Supplier:        requestPayload.Supplier,
	}
	if requestPayload.ExpiryDate != "" {
		expiry, err := time.Parse("2006-01-02", requestPayload.ExpiryDate)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid expiry date")
			return
		}
		item.ExpiryDate = &expiry
	}

	created, err := h.svc.Create(r.Context(), &item)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create supply item via service")
		respondWithError(w, mapErrorToStatusCode(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

func (h *InventoryHandler) handleListSupplies(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list supply items via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list supply items")
		return
	}

	respondWithJSON(w, http.StatusOK, items)
}

func (h *InventoryHandler) handleGetSupplyByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	item, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, item)
}

func (h *InventoryHandler) handleUpdateSupply(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var requestPayload UpdateSupplyRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&requestPayload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := h.validate.Struct(requestPayload); err != nil {
		respondWithValidationError(w, err)
		return
	}

	input := inventory.UpdateInput{
		Name:        requestPayload.Name,
		Description: requestPayload.Description,
		Unit:        requestPayload.Unit,
		Supplier:    requestPayload.Supplier,
	}

	var parseErr error
	input.CurrentQuantity, parseErr = parseOptionalDecimal(requestPayload.CurrentQuantity)
	if parseErr != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid current quantity")
		return
	}
	input.MinimumQuantity, parseErr = parseOptionalDecimal(requestPayload.MinimumQuantity)
	if parseErr != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid minimum quantity")
		return
	}
	input.UnitCost, parseErr = parseOptionalDecimal(requestPayload.UnitCost)
	if parseErr != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid unit cost")
		return
	}
	if requestPayload.ExpiryDate != nil {
		expiry, err := time.Parse("2006-01-02", *requestPayload.ExpiryDate)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid expiry date")
			return
		}
		input.ExpiryDate = &expiry
	}

	updated, err := h.svc.Update(r.Context(), id, input)
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

func (h *InventoryHandler) handleUpdateStock(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var requestPayload UpdateStockRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&requestPayload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := h.validate.Struct(requestPayload); err != nil {
		respondWithValidationError(w, err)
		return
	}

	quantity, err := decimal.NewFromString(requestPayload.Quantity)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quantity")
		return
	}

	updated, err := h.svc.UpdateStock(r.Context(), id, quantity)
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

func (h *InventoryHandler) handleDeactivateSupply(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := h.svc.Deactivate(r.Context(), id); err != nil {
		respondWithError(w, mapErrorToStatusCode(err), err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *InventoryHandler) handleSweep(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Sweep(r.Context()); err != nil {
		log.Error().Err(err).Msg("Inventory sweep failed")
		respondWithError(w, mapErrorToStatusCode(err), "Sweep failed")
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func parseOptionalDecimal(value *string) (*decimal.Decimal, error) {
	if value == nil {
		return nil, nil
	}
	parsed, err := decimal.NewFromString(*value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
