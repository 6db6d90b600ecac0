package handlers_test_suite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rogerio-castellano/inventory-system/internal/auth"
	handler "github.com/rogerio-castellano/inventory-system/internal/http/handlers"
	mw "github.com/rogerio-castellano/inventory-system/internal/http/middleware"
	"github.com/rogerio-castellano/inventory-system/internal/http/router"
	"github.com/rogerio-castellano/inventory-system/internal/inventory"
	"github.com/rogerio-castellano/inventory-system/internal/models"
	"github.com/rogerio-castellano/inventory-system/internal/repo"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var (
	token        string
	productRepo  *repo.InMemoryProductRepository
	purchaseRepo *repo.InMemoryPurchaseRepository
	service      *inventory.InventoryService
)

func init() {
	setupTestRepos("secret")
	r := router.NewRouter()

	var err error
	token, err = generateToken(r, "admin", "secret")
	if err != nil {
		panic(fmt.Sprintf("error generating token: %v", err))
	}
}

func setupTestRepos(password string) {
	productRepo = repo.NewInMemoryProductRepository()
	handler.SetProductRepo(productRepo)

	purchaseRepo = repo.NewInMemoryPurchaseRepository()
	handler.SetPurchaseRepo(purchaseRepo)

	service = inventory.NewInventoryService(productRepo, nil, nil)
	service.SetPurchaseRepo(purchaseRepo)
	handler.SetInventoryService(service)

	userRepo := repo.NewInMemoryUserRepository()
	handler.SetUserRepo(userRepo)

	hash, _ := auth.HashPassword(password)
	userRepo.CreateUser(context.Background(), models.User{
		Username:     "admin",
		PasswordHash: hash,
	})

	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	handler.SetTokenIssuer(issuer)
	mw.SetTokenIssuer(issuer)

	handler.SetMetricsRepo(repo.NewInMemoryMetricsRepository(productRepo, purchaseRepo))
}

// observeHandlerLogs routes handler logs to an observer until the test ends.
func observeHandlerLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.InfoLevel)
	handler.SetLogger(zap.New(core))
	t.Cleanup(func() { handler.SetLogger(zap.NewNop()) })
	return logs
}

func clearAll() {
	productRepo.Clear()
	purchaseRepo.Clear()
}

func seedDemoCatalog() {
	if err := service.Seed(context.Background(), inventory.DemoProducts()); err != nil {
		panic(err)
	}
}

func generateToken(r http.Handler, username, password string) (string, error) {
	payload := handler.CredentialsRequest{Username: username, Password: password}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		return "", fmt.Errorf("login failed with status %d", w.Code)
	}

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

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func multipartCSV(csvContent string, filename string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, _ := writer.CreateFormFile("file", filename)
	part.Write([]byte(csvContent))

	writer.Close()
	return &buf, writer.FormDataContentType()
}
