package handlers_integrated_test_suite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/rogerio-castellano/inventory-system/internal/auth"
	"github.com/rogerio-castellano/inventory-system/internal/db"
	handler "github.com/rogerio-castellano/inventory-system/internal/http/handlers"
	mw "github.com/rogerio-castellano/inventory-system/internal/http/middleware"
	"github.com/rogerio-castellano/inventory-system/internal/inventory"
	"github.com/rogerio-castellano/inventory-system/internal/models"
	"github.com/rogerio-castellano/inventory-system/internal/repo"
)

const databaseURLEnv = "INVENTORY_TEST_DATABASE_URL"

var (
	token    string
	userRepo *repo.PostgresUserRepository
	database *sql.DB
)

func setupTestRepos(ctx context.Context, dbURL, password string) error {
	var err error
	database, err = db.Connect(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("could not connect to database: %w", err)
	}
	if err := db.Migrate(ctx, database); err != nil {
		return err
	}

	productRepo := repo.NewPostgresProductRepository(database)
	handler.SetProductRepo(productRepo)

	purchaseRepo := repo.NewPostgresPurchaseRepository(database)
	handler.SetPurchaseRepo(purchaseRepo)

	service := inventory.NewInventoryService(productRepo, nil, nil)
	service.SetPurchaseRepo(purchaseRepo)
	handler.SetInventoryService(service)

	userRepo = repo.NewPostgresUserRepository(database)
	handler.SetUserRepo(userRepo)

	issuer := auth.NewTokenIssuer("integration-secret", time.Hour)
	handler.SetTokenIssuer(issuer)
	mw.SetTokenIssuer(issuer)

	handler.SetMetricsRepo(repo.NewPostgresMetricsRepository(database))

	return createAdminIfNotExists(ctx, password)
}

func createAdminIfNotExists(ctx context.Context, password string) error {
	if _, err := userRepo.GetByUsername(ctx, "admin"); err == nil {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = userRepo.CreateUser(ctx, models.User{Username: "admin", PasswordHash: hash})
	return err
}

func dbURLFromEnv() string {
	return os.Getenv(databaseURLEnv)
}

func clearAll() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := database.ExecContext(ctx, "TRUNCATE TABLE purchases, products RESTART IDENTITY CASCADE")
	if err != nil {
		fmt.Println(fmt.Errorf("failed to truncate tables: %w", err))
	}
}

func generateToken(r http.Handler, username, password string) (string, error) {
	payload := handler.CredentialsRequest{Username: username, Password: password}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp handler.LoginResult
	err := json.NewDecoder(w.Body).Decode(&resp)
	if err != nil {
		return "", fmt.Errorf("token decoding failed: %v", err)
	}
	return resp.Token, nil
}

func createProduct(r http.Handler, p handler.ProductRequest) *httptest.ResponseRecorder {
	body, _ := json.Marshal(p)
	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func purchaseProduct(r http.Handler, productID string, quantity int) *httptest.ResponseRecorder {
	body, _ := json.Marshal(handler.PurchaseRequest{Quantity: quantity})
	req := httptest.NewRequest(http.MethodPost, "/products/"+productID+"/purchase", bytes.NewReader(body))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
