package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	mw "github.com/rogerio-castellano/inventory-system/internal/http/middleware"
	"github.com/rogerio-castellano/inventory-system/internal/inventory"
	"github.com/rogerio-castellano/inventory-system/internal/models"
	repo "github.com/rogerio-castellano/inventory-system/internal/repo"
	"go.uber.org/zap"
)

// CreateProductHandler godoc
// @Summary Add or replace a product
// @Description Registers a product in the catalog. An existing product with the same ID is replaced.
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body ProductRequest true "Product to add"
// @Success 201 {object} ProductResponse
// @Failure 400 {object} []ProductValidationError
// @Router /products [post]
func CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	validationErrors := validateProduct(req)
	if len(validationErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, validationErrors)
		return
	}

	product := models.Product{
		ID:          req.ID,
		Name:        req.Name,
		Stock:       req.Stock,
		Threshold:   req.Threshold,
		RestockDate: req.RestockDate,
		Category:    req.Category,
	}
	if err := inventoryService.AddProduct(r.Context(), product); err != nil {
		if errors.Is(err, inventory.ErrInvalidProduct) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.Error("could not add product", zap.String("product_id", req.ID), zap.Error(err))
		http.Error(w, "could not create product", http.StatusInternalServerError)
		return
	}
	logger.Info("product saved", zap.String("product_id", product.ID), zap.String("staff", mw.GetUsername(r)))

	writeJSON(w, http.StatusCreated, toProductResponse(product))
}

// GetProductsHandler godoc
// @Summary List all products in catalog order
// @Tags products
// @Produce json
// @Success 200 {array} ProductResponse
// @Failure 500 {string} string "Internal error"
// @Router /products [get]
func GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := productRepo.GetAll(r.Context())
	if err != nil {
		logger.Error("could not fetch products", zap.Error(err))
		http.Error(w, "could not fetch products", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponses(products))
}

// GetProductByIDHandler godoc
// @Summary Get product by ID
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} ProductResponse
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /products/{id} [get]
func GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := productRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		logger.Error("could not fetch product", zap.String("product_id", id), zap.Error(err))
		http.Error(w, "could not fetch product", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(product))
}
