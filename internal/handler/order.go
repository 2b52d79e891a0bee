package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"catering-service/internal/order"
)

type CreateOrderLineRequest struct {
	MenuItemID     string `json:"menu_item_id" validate:"required,uuid4"`
	Quantity       int    `json:"quantity" validate:"required,gt=0"`
	Customizations string `json:"customizations"`
}

type CreateOrderRequest struct {
	ClientID        string                   `json:"client_id" validate:"required,uuid4"`
	DeliveryDate    string                   `json:"delivery_date" validate:"required,datetime=2006-01-02"`
	DeliveryTime    string                   `json:"delivery_time" validate:"required,datetime=15:04"`
	DeliveryAddress string                   `json:"delivery_address" validate:"required"`
	Notes           string                   `json:"notes"`
	PartySize       int                      `json:"party_size" validate:"required,gt=0"`
	Discount        string                   `json:"discount" validate:"omitempty"`
	Lines           []CreateOrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type ListOrdersResponse struct {
	Orders []order.Order `json:"orders"`
	Total  int           `json:"total"`
	Page   int           `json:"page"`
	Limit  int           `json:"limit"`
}

// OrderHandler exposes the order engine over HTTP.
type OrderHandler struct {
	svc      order.Service
	validate *validator.Validate
}

func NewOrderHandler(svc order.Service) *OrderHandler {
	return &OrderHandler{
		svc:      svc,
		validate: validator.New(),
	}
}

func (h *OrderHandler) RegisterRoutes(router chi.Router) {
	router.Post("/orders", h.handleCreateOrder)
	router.Get("/orders", h.handleListOrders)
	router.Get("/orders/{id}", h.handleGetOrderByID)
	router.Patch("/orders/{id}/status", h.handleUpdateOrderStatus)
	router.Post("/orders/{id}/cancel", h.handleCancelOrder)
}

func (h *OrderHandler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var requestPayload CreateOrderRequest

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

	clientID, err := uuid.FromString(requestPayload.ClientID)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid client id")
		return
	}

	deliveryDate, err := time.Parse("2006-01-02", requestPayload.DeliveryDate)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid delivery date")
		return
	}

	discount := decimal.Zero
	if requestPayload.Discount != "" {
		discount, err = decimal.NewFromString(requestPayload.Discount)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid discount amount")
			return
		}
	}

	lines := make([]order.CreateLineInput, 0, len(requestPayload.Lines))
	for _, lineRequest := range requestPayload.Lines {
		menuItemID, err := uuid.FromString(lineRequest.MenuItemID)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid menu item id")
			return
		}
		lines = append(lines, order.CreateLineInput{
			MenuItemID:     menuItemID,
			Quantity:       lineRequest.Quantity,
			Customizations: lineRequest.Customizations,
		})
	}

	created, err := h.svc.Create(r.Context(), order.CreateInput{
		ClientID:        clientID,
		DeliveryDate:    deliveryDate,
		DeliveryTime:    requestPayload.DeliveryTime,
		DeliveryAddress: requestPayload.DeliveryAddress,
		Notes:           requestPayload.Notes,
		PartySize:       requestPayload.PartySize,
		Discount:        discount,
		Lines:           lines,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to create order via service")
		respondWithError(w, mapErrorToStatusCode(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

func (h *OrderHandler) handleGetOrderByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	o, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	filter := order.Filter{}
	query := r.URL.Query()

	if status := query.Get("status"); status != "" {
		filter.Status = order.Status(status)
		if !filter.Status.Valid() {
			respondWithError(w, http.StatusBadRequest, "Unknown status filter")
			return
		}
	}
	if clientParam := query.Get("client_id"); clientParam != "" {
		clientID, err := uuid.FromString(clientParam)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid client id filter")
			return
		}
		filter.ClientID = clientID
	}
	if from := query.Get("date_from"); from != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid date_from filter")
			return
		}
		filter.DateFrom = &parsed
	}
	if to := query.Get("date_to"); to != "" {
		parsed, err := time.Parse("2006-01-02", to)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid date_to filter")
			return
		}
		filter.DateTo = &parsed
	}

	page := order.Page{Number: 1, Size: 10}
	if pageParam := query.Get("page"); pageParam != "" {
		if parsed, err := strconv.Atoi(pageParam); err == nil && parsed > 0 {
			page.Number = parsed
		}
	}
	if limitParam := query.Get("limit"); limitParam != "" {
		if parsed, err := strconv.Atoi(limitParam); err == nil && parsed > 0 {
			page.Size = parsed
		}
	}

	orders, total, err := h.svc.List(r.Context(), filter, page)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list orders via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list orders")
		return
	}

	respondWithJSON(w, http.StatusOK, ListOrdersResponse{
		Orders: orders,
		Total:  total,
		Page:   page.Number,
		Limit:  page.Size,
	})
}

func (h *OrderHandler) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var requestPayload UpdateOrderStatusRequest

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

	updated, err := h.svc.UpdateStatus(r.Context(), id, order.Status(requestPayload.Status))
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

func (h *OrderHandler) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	cancelled, err := h.svc.Cancel(r.Context(), id)
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, cancelled)
}

func parseIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idParam := chi.URLParam(r, "id")
	id, err := uuid.FromString(idParam)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid id")
		return uuid.Nil, false
	}
	return id, true
}
