package handler

import (
	"net/http"

	"storefront/internal/ingest"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// CatalogHandler handles product page and variant selection requests.
type CatalogHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(service service.CatalogService, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger.With().Str("handler", "catalog").Logger(),
	}
}

// GetProduct handles GET /api/products/{slug}?pid={id} requests.
// The pid query parameter wins over the slug when both are present.
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	id := r.URL.Query().Get("pid")
	if slug == "" && id == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "product slug or pid is required", h.logger)
		return
	}

	page, err := h.service.GetProduct(r.Context(), id, slug)
	if err != nil {
		writeServiceError(w, err, "failed to retrieve product", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// Resolve handles POST /api/products/{id}/resolve requests.
func (h *CatalogHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "product ID is required", h.logger)
		return
	}

	var req model.ResolveRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeServiceError(w, err, "invalid request body", h.logger)
		return
	}

	res, err := h.service.Resolve(r.Context(), id, req.Selected)
	if err != nil {
		writeServiceError(w, err, "failed to resolve selection", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// ResolveCatalog handles POST /api/variants/resolve requests carrying a raw
// catalog backend payload.
func (h *CatalogHandler) ResolveCatalog(w http.ResponseWriter, r *http.Request) {
	var req model.CatalogResolveRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeServiceError(w, err, "invalid request body", h.logger)
		return
	}

	payload, err := ingest.DecodeCatalog(req.Catalog)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid catalog payload", h.logger)
		return
	}

	res, err := h.service.ResolvePayload(r.Context(), payload, req.Selected, req.Target)
	if err != nil {
		writeServiceError(w, err, "failed to resolve selection", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, res)
}
