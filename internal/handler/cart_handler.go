package handler

import (
	"net/http"
	"strings"

	"pawcart/internal/model"
	"pawcart/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CartHandler handles the authenticated user's cart.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}

	cart, err := h.service.GetCart(r.Context(), owner)
	h.respond(w, r, cart, err)
}

// AddItem handles POST /api/cart/items. Quantity defaults to 1.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}

	var req model.AddItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if strings.TrimSpace(req.ProductRef) == "" {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeMissingField, "productRef is required", h.logger)
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	cart, err := h.service.AddItem(r.Context(), owner, req.ProductRef, quantity)
	h.respond(w, r, cart, err)
}

// UpdateQuantity handles PATCH /api/cart/items.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}

	var req model.UpdateQuantityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if strings.TrimSpace(req.ProductRef) == "" {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeMissingField, "productRef is required", h.logger)
		return
	}

	cart, err := h.service.UpdateQuantity(r.Context(), owner, req.ProductRef, req.NewQuantity)
	h.respond(w, r, cart, err)
}

// RemoveItem handles DELETE /api/cart/items/{lineItemId}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}

	lineItemID, err := uuid.Parse(r.PathValue("lineItemId"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidParameter, "invalid line item ID format", h.logger)
		return
	}

	cart, err := h.service.RemoveItem(r.Context(), owner, lineItemID)
	h.respond(w, r, cart, err)
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}

	cart, err := h.service.ClearCart(r.Context(), owner)
	h.respond(w, r, cart, err)
}

// ApplyCoupon handles POST /api/cart/coupon.
func (h *CartHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}

	var req model.ApplyCouponRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if strings.TrimSpace(req.CouponCode) == "" {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeMissingField, "couponCode is required", h.logger)
		return
	}

	cart, err := h.service.ApplyCoupon(r.Context(), owner, req.CouponCode)
	h.respond(w, r, cart, err)
}

// RemoveCoupon handles DELETE /api/cart/coupon.
func (h *CartHandler) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}

	cart, err := h.service.RemoveCoupon(r.Context(), owner)
	h.respond(w, r, cart, err)
}

func (h *CartHandler) respond(w http.ResponseWriter, r *http.Request, cart *model.Cart, err error) {
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}
