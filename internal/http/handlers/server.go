package handlers

import (
	"github.com/rogerio-castellano/inventory-system/internal/auth"
	"github.com/rogerio-castellano/inventory-system/internal/inventory"
	repo "github.com/rogerio-castellano/inventory-system/internal/repo"
	"go.uber.org/zap"
)

var (
	inventoryService *inventory.InventoryService
	productRepo      repo.ProductRepository
	purchaseRepo     repo.PurchaseRepository
	metricsRepo      repo.MetricsRepository
	userRepo         repo.UserRepository
	tokenIssuer      *auth.TokenIssuer

	logger = zap.NewNop()
)

func SetInventoryService(s *inventory.InventoryService) {
	inventoryService = s
}

func SetProductRepo(r repo.ProductRepository) {
	productRepo = r
}

func SetPurchaseRepo(r repo.PurchaseRepository) {
	purchaseRepo = r
}

func SetMetricsRepo(r repo.MetricsRepository) {
	metricsRepo = r
}

func SetUserRepo(r repo.UserRepository) {
	userRepo = r
}

func SetTokenIssuer(i *auth.TokenIssuer) {
	tokenIssuer = i
}

func SetLogger(l *zap.Logger) {
	logger = l
}
