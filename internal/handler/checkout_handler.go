package handler

import (
	"errors"
	"net/http"

	"storefront/internal/ingest"
	"storefront/internal/model"
	"storefront/internal/pricing"
	"storefront/internal/service"
	"storefront/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CheckoutHandler handles pricing and order requests.
type CheckoutHandler struct {
	service service.CheckoutService
	logger  zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(service service.CheckoutService, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		logger:  logger.With().Str("handler", "checkout").Logger(),
	}
}

// Quote handles POST /api/pricing/quote requests.
func (h *CheckoutHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req model.QuoteRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeServiceError(w, err, "invalid request body", h.logger)
		return
	}

	order, err := ingest.DecodeOrder(req.Order)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid order payload", h.logger)
		return
	}

	pricingCtx, err := pricing.ParseContext(req.Context)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, err.Error(), h.logger)
		return
	}

	summary, err := h.service.Quote(r.Context(), session.FromContext(r.Context()), service.QuoteInput{
		Order:      order,
		CouponCode: req.CouponCode,
		Context:    pricingCtx,
	})
	if err != nil {
		writeServiceError(w, err, "failed to price order", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// PlaceOrder handles POST /api/orders requests.
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req model.OrderRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeServiceError(w, err, "invalid request body", h.logger)
		return
	}

	order, err := h.service.PlaceOrder(r.Context(), session.FromContext(r.Context()), &req)
	if err != nil {
		// An unknown product is a bad order, not a missing resource.
		if errors.Is(err, model.ErrProductNotFound) {
			writeError(w, http.StatusBadRequest, model.ErrCodeProductNotFound, model.ErrProductNotFound.Message, h.logger)
			return
		}
		writeServiceError(w, err, "failed to create order", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// GetOrder handles GET /api/orders/{id} requests.
func (h *CheckoutHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "invalid order ID format", h.logger)
		return
	}

	order, err := h.service.GetOrder(r.Context(), session.FromContext(r.Context()), orderID)
	if err != nil {
		writeServiceError(w, err, "failed to retrieve order", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}
