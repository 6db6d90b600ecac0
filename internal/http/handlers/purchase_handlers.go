package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/inventory-system/internal/inventory"
	repo "github.com/rogerio-castellano/inventory-system/internal/repo"
	"go.uber.org/zap"
)

// PurchaseProductHandler godoc
// @Summary Purchase units of a product
// @Description Decrements stock. Out of stock answers carry the restock date and similar products.
// @Tags purchases
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param purchase body PurchaseRequest true "Quantity to buy"
// @Success 200 {object} PurchaseResponse
// @Failure 400 {object} PurchaseResponse
// @Failure 404 {object} PurchaseResponse
// @Failure 409 {object} PurchaseResponse
// @Failure 429 {string} string "Too many requests"
// @Router /products/{id}/purchase [post]
func PurchaseProductHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req PurchaseRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	receipt, err := inventoryService.PurchaseProduct(r.Context(), id, req.Quantity)

	resp := PurchaseResponse{
		ProductID:       receipt.ProductID,
		Quantity:        receipt.Quantity,
		Outcome:         OutcomePurchased,
		Remaining:       receipt.Remaining,
		Available:       receipt.Available,
		LowStockAlert:   receipt.LowStockAlert,
		RestockDate:     receipt.RestockDate,
		Recommendations: toProductResponses(receipt.Recommendations),
		Messages:        receipt.Messages,
	}
	if resp.Messages == nil {
		resp.Messages = []string{}
	}

	status := http.StatusOK
	switch {
	case err == nil:
	case errors.Is(err, inventory.ErrInvalidQuantity):
		status, resp.Outcome = http.StatusBadRequest, OutcomeInvalidQuantity
	case errors.Is(err, inventory.ErrProductNotFound):
		status, resp.Outcome = http.StatusNotFound, OutcomeNotFound
	case errors.Is(err, inventory.ErrOutOfStock):
		status, resp.Outcome = http.StatusConflict, OutcomeOutOfStock
	case errors.Is(err, inventory.ErrInsufficientStock):
		status, resp.Outcome = http.StatusConflict, OutcomeInsufficientStock
	default:
		logger.Error("purchase failed", zap.String("product_id", id), zap.Int("quantity", req.Quantity), zap.Error(err))
		http.Error(w, "could not complete purchase", http.StatusInternalServerError)
		return
	}

	writeJSON(w, status, resp)
}

// GetRecommendationsHandler godoc
// @Summary In-stock products of the same category
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {array} ProductResponse
// @Failure 404 {string} string "Not found"
// @Router /products/{id}/recommendations [get]
func GetRecommendationsHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	products, err := inventoryService.Recommend(r.Context(), id)
	if err != nil {
		if errors.Is(err, inventory.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		logger.Error("could not load recommendations", zap.String("product_id", id), zap.Error(err))
		http.Error(w, "could not load recommendations", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponses(products))
}

// GetPurchasesHandler godoc
// @Summary Purchase history of a product, newest first
// @Tags purchases
// @Produce json
// @Param id path string true "Product ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Records to skip"
// @Success 200 {object} PurchasesSearchResult
// @Failure 400 {string} string "Invalid paging"
// @Failure 404 {string} string "Not found"
// @Router /products/{id}/purchases [get]
func GetPurchasesHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	limit, err := queryInt(r, "limit")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := productRepo.GetByID(r.Context(), id); err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch product", http.StatusInternalServerError)
		return
	}

	purchases, total, err := purchaseRepo.GetByProductID(r.Context(), id, repo.PurchaseFilter{Limit: limit, Offset: offset})
	if err != nil {
		logger.Error("could not fetch purchases", zap.String("product_id", id), zap.Error(err))
		http.Error(w, "could not fetch purchases", http.StatusInternalServerError)
		return
	}

	data := make([]PurchaseRecordResponse, len(purchases))
	for i, p := range purchases {
		data[i] = PurchaseRecordResponse{
			ID:        p.ID,
			ProductID: p.ProductID,
			Quantity:  p.Quantity,
			Remaining: p.Remaining,
			CreatedAt: p.CreatedAt,
		}
	}

	writeJSON(w, http.StatusOK, PurchasesSearchResult{Data: data, Meta: Meta{TotalCount: total}})
}
