package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	handler "github.com/rogerio-castellano/inventory-system/internal/http/handlers"
	"github.com/rogerio-castellano/inventory-system/internal/http/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProductHandler_Valid(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()

	w := createProduct(r, handler.ProductRequest{ID: "P100", Name: "Hammer", Stock: 4, Threshold: 5, RestockDate: "2025-08-01", Category: "Tools"})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp handler.ProductResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

	assert.Equal(t, "P100", resp.ID)
	assert.Equal(t, "Hammer", resp.Name)
	assert.Equal(t, 4, resp.Stock)
	assert.True(t, resp.LowStock)
	assert.False(t, resp.OutOfStock)
}

func TestCreateProductHandler_ReplacesExisting(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()

	require.Equal(t, http.StatusCreated, createProduct(r, handler.ProductRequest{ID: "P100", Name: "Hammer", Stock: 4}).Code)
	require.Equal(t, http.StatusCreated, createProduct(r, handler.ProductRequest{ID: "P100", Name: "Mallet", Stock: 9}).Code)

	w := get(r, "/products")
	var resp []handler.ProductResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "Mallet", resp[0].Name)
	assert.Equal(t, 9, resp[0].Stock)
}

func TestCreateProductHandler_Invalid(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()

	tests := []struct {
		name           string
		payload        handler.ProductRequest
		expectedErrors []string
	}{
		{
			name:           "Empty id and name",
			payload:        handler.ProductRequest{},
			expectedErrors: []string{"ID", "Name"},
		},
		{
			name:           "Negative stock",
			payload:        handler.ProductRequest{ID: "P1", Name: "Saw", Stock: -1},
			expectedErrors: []string{"Stock"},
		},
		{
			name:           "Negative threshold",
			payload:        handler.ProductRequest{ID: "P1", Name: "Saw", Threshold: -2},
			expectedErrors: []string{"Threshold"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := createProduct(r, tt.payload)
			require.Equal(t, http.StatusBadRequest, w.Code)

			var resp []handler.ProductValidationError
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

			for _, field := range tt.expectedErrors {
				found := false
				for _, err := range resp {
					if strings.EqualFold(err.Field, field) {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("expected error for field %q, but not found", field)
				}
			}
		})
	}
}

func TestCreateProductHandler_MalformedJSON(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()

	badJSON := `{"id": "P1" "name": "Saw"}` // missing comma
	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBufferString(badJSON))
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 Bad Request, got %d", w.Code)
	}
}

func TestCreateProductHandler_RequiresToken(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"no bearer prefix", token},
		{"garbage token", "Bearer not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(handler.ProductRequest{ID: "P1", Name: "Saw"})
			req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewReader(body))
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", w.Code)
			}
		})
	}

	if w := get(r, "/products/P1"); w.Code != http.StatusNotFound {
		t.Errorf("rejected request must not create the product, got %d", w.Code)
	}
}

func TestGetProductsHandler_InsertionOrder(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()
	seedDemoCatalog()

	w := get(r, "/products")
	require.Equal(t, http.StatusOK, w.Code)

	var resp []handler.ProductResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

	ids := make([]string, len(resp))
	for i, p := range resp {
		ids[i] = p.ID
	}
	assert.Equal(t, []string{"P001", "P002", "P003", "P004"}, ids)
	assert.True(t, resp[1].OutOfStock)
}

func TestGetProductByIDHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()
	seedDemoCatalog()

	tests := []struct {
		name       string
		id         string
		expectCode int
	}{
		{"existing", "P003", http.StatusOK},
		{"unknown", "P999", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, "/products/"+tt.id)
			require.Equal(t, tt.expectCode, w.Code)

			if tt.expectCode == http.StatusOK {
				var resp handler.ProductResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.Equal(t, "Thingamajig", resp.Name)
				assert.Equal(t, "2025-07-05", resp.RestockDate)
			}
		})
	}
}

func TestCreateProductHandler_LogsStaffUser(t *testing.T) {
	t.Cleanup(clearAll)
	logs := observeHandlerLogs(t)
	r := router.NewRouter()

	require.Equal(t, http.StatusCreated, createProduct(r, handler.ProductRequest{ID: "P200", Name: "Level", Stock: 2}).Code)

	entries := logs.FilterMessage("product saved").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "P200", fields["product_id"])
	assert.Equal(t, "admin", fields["staff"])
}
