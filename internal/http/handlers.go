package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopkit/cartkeeper/internal/cart"
	"github.com/shopkit/cartkeeper/internal/domain"
	"github.com/shopspring/decimal"
)

const maxQuantity = 99

type CartHandler struct {
	manager *cart.Manager
	logger  *slog.Logger
}

func NewCartHandler(manager *cart.Manager, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		manager: manager,
		logger:  logger,
	}
}

type AddItemRequestDTO struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartResponseDTO struct {
	Items   []domain.LineItem `json:"items"`
	Summary domain.Summary    `json:"summary"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func cartResponse(c domain.Cart) CartResponseDTO {
	items := c.Items
	if items == nil {
		items = []domain.LineItem{}
	}
	return CartResponseDTO{
		Items:   items,
		Summary: c.Summarize(),
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cart_id")
	if cartID == "" {
		h.respondError(w, http.StatusBadRequest, "invalid_cart_id", "cart_id is required")
		return
	}

	c, err := h.manager.Load(r.Context(), cartID)
	if err != nil {
		h.logError(r, "load cart failed", "cart_id", cartID, "error", err)
		h.respondError(w, http.StatusInternalServerError, "internal_error", "failed to load cart")
		return
	}

	h.respondJSON(w, http.StatusOK, cartResponse(c))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cart_id")
	if cartID == "" {
		h.respondError(w, http.StatusBadRequest, "invalid_cart_id", "cart_id is required")
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ID == "" {
		h.respondError(w, http.StatusBadRequest, "invalid_item_id", "id is required")
		return
	}
	if req.Price.IsNegative() {
		h.respondError(w, http.StatusBadRequest, "invalid_price", "price must not be negative")
		return
	}

	c, err := h.manager.AddOrIncrement(r.Context(), cartID, domain.NewItemRequest{
		ID:    req.ID,
		Name:  req.Name,
		Price: req.Price,
		Image: req.Image,
	})
	if err != nil {
		h.logError(r, "add item failed", "cart_id", cartID, "item_id", req.ID, "error", err)
		h.respondError(w, http.StatusInternalServerError, "internal_error", "failed to add item")
		return
	}

	h.respondJSON(w, http.StatusCreated, cartResponse(c))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cart_id")
	itemID := chi.URLParam(r, "item_id")
	if cartID == "" || itemID == "" {
		h.respondError(w, http.StatusBadRequest, "invalid_request", "cart_id and item_id are required")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity < 1 || req.Quantity > maxQuantity {
		h.respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	c, err := h.manager.SetQuantity(r.Context(), cartID, itemID, req.Quantity)
	if err != nil {
		h.logError(r, "set quantity failed", "cart_id", cartID, "item_id", itemID, "error", err)
		h.respondError(w, http.StatusInternalServerError, "internal_error", "failed to update quantity")
		return
	}

	h.respondJSON(w, http.StatusOK, cartResponse(c))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cart_id")
	itemID := chi.URLParam(r, "item_id")
	if cartID == "" || itemID == "" {
		h.respondError(w, http.StatusBadRequest, "invalid_request", "cart_id and item_id are required")
		return
	}

	c, err := h.manager.Remove(r.Context(), cartID, itemID)
	if err != nil {
		h.logError(r, "remove item failed", "cart_id", cartID, "item_id", itemID, "error", err)
		h.respondError(w, http.StatusInternalServerError, "internal_error", "failed to remove item")
		return
	}

	h.respondJSON(w, http.StatusOK, cartResponse(c))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cart_id")
	if cartID == "" {
		h.respondError(w, http.StatusBadRequest, "invalid_cart_id", "cart_id is required")
		return
	}

	c, err := h.manager.Clear(r.Context(), cartID)
	if err != nil {
		h.logError(r, "clear cart failed", "cart_id", cartID, "error", err)
		h.respondError(w, http.StatusInternalServerError, "internal_error", "failed to clear cart")
		return
	}

	h.respondJSON(w, http.StatusOK, cartResponse(c))
}

func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cart_id")
	if cartID == "" {
		h.respondError(w, http.StatusBadRequest, "invalid_cart_id", "cart_id is required")
		return
	}

	summary, err := h.manager.Checkout(r.Context(), cartID)
	if errors.Is(err, cart.ErrEmptyCart) {
		h.respondError(w, http.StatusConflict, "cart_empty", "cart is empty, nothing to checkout")
		return
	}
	if err != nil {
		h.logError(r, "checkout failed", "cart_id", cartID, "error", err)
		h.respondError(w, http.StatusInternalServerError, "internal_error", "failed to checkout")
		return
	}

	h.respondJSON(w, http.StatusOK, summary)
}

func (h *CartHandler) logError(r *http.Request, msg string, args ...interface{}) {
	args = append(args, "request_id", RequestIDFromContext(r.Context()))
	h.logger.Error(msg, args...)
}

func (h *CartHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *CartHandler) respondError(w http.ResponseWriter, status int, code, message string) {
	h.respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
