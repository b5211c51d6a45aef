package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/fjod/go_cart/assistant-service/internal/domain"
	"github.com/fjod/go_cart/assistant-service/internal/store"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CartHandler struct {
	store  store.ShopStore
	logger *zap.Logger
}

func NewCartHandler(st store.ShopStore, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		store:  st,
		logger: logger,
	}
}

type CartResponse struct {
	Items []domain.CartLine `json:"items"`
	Total int64             `json:"total"`
}

type ProductsResponse struct {
	Products []domain.Product `json:"products"`
}

type SetStockRequestDTO struct {
	Stock *int `json:"stock"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	items := h.store.Cart()
	respondJSON(w, h.logger, http.StatusOK, CartResponse{
		Items: items,
		Total: domain.Total(items),
	})
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.productID(w, r)
	if !ok {
		return
	}

	if err := h.store.RemoveFromCart(productID); err != nil {
		if errors.Is(err, store.ErrNotInCart) {
			respondError(w, h.logger, http.StatusNotFound, "not_in_cart", err.Error())
			return
		}
		h.logger.Error("remove from cart failed", zap.Int64("product_id", productID), zap.Error(err))
		respondError(w, h.logger, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.logger, http.StatusOK, ProductsResponse{Products: h.store.Products()})
}

// SetStock overwrites the stock counter of a catalog product
func (h *CartHandler) SetStock(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.productID(w, r)
	if !ok {
		return
	}

	var req SetStockRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorDetails(w, h.logger, http.StatusBadRequest, "invalid_request", "invalid JSON body", err.Error())
		return
	}
	if req.Stock == nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_stock", "stock is required")
		return
	}

	err := h.store.SetStock(productID, *req.Stock)
	switch {
	case err == nil:
		h.logger.Info("stock updated", zap.Int64("product_id", productID), zap.Int("stock", *req.Stock))
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, store.ErrInvalidQuantity):
		respondError(w, h.logger, http.StatusBadRequest, "invalid_stock", err.Error())
	case errors.Is(err, store.ErrProductNotFound):
		respondError(w, h.logger, http.StatusNotFound, "product_not_found", err.Error())
	default:
		h.logger.Error("set stock failed", zap.Int64("product_id", productID), zap.Error(err))
		respondError(w, h.logger, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (h *CartHandler) productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return 0, false
	}
	return productID, true
}
