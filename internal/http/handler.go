package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/archive"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/shop"
)

// ArchiveReader serves previously archived events. It is nil when no
// database is configured.
type ArchiveReader interface {
	Recent(ctx context.Context, limit int) ([]archive.Entry, error)
}

type Handler struct {
	svc     *shop.Service
	archive ArchiveReader
	logger  *zap.Logger
}

func NewHandler(svc *shop.Service, archive ArchiveReader, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, archive: archive, logger: logger}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "storefront"})
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.ListProducts(r.Context()))
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	prod, err := h.svc.ViewProduct(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prod)
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.ViewCart(r.Context()))
}

type addItemRequest struct {
	ProductID string `json:"productId"`
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "missing productId")
		return
	}

	line, err := h.svc.AddToCart(r.Context(), req.ProductID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, line)
}

func (h *Handler) IncrementItem(w http.ResponseWriter, r *http.Request) {
	line, err := h.svc.IncreaseQuantity(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, line)
}

type decrementResponse struct {
	Item    cart.Item `json:"item"`
	Removed bool      `json:"removed"`
}

func (h *Handler) DecrementItem(w http.ResponseWriter, r *http.Request) {
	line, removed, err := h.svc.DecreaseQuantity(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, decrementResponse{Item: line, Removed: removed})
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.svc.Checkout(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

func (h *Handler) EventFeed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Session().Mirror.Snapshot())
}

func (h *Handler) EventFeedText(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(h.svc.Session().Mirror.Text()))
}

func (h *Handler) EventRecords(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Session().Mirror.Records())
}

func (h *Handler) ArchivedEvents(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		writeError(w, http.StatusServiceUnavailable, "event archive is not configured")
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	entries, err := h.archive.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error("load archived events", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load archived events")
		return
	}
	if entries == nil {
		entries = []archive.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shop.ErrProductNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, shop.ErrEmptyCart):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("storefront request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
