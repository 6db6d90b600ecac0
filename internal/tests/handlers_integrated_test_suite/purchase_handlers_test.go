package handlers_integrated_test_suite

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	handler "github.com/rogerio-castellano/inventory-system/internal/http/handlers"
	"github.com/rogerio-castellano/inventory-system/internal/http/router"
	"github.com/rogerio-castellano/inventory-system/internal/inventory"
	"github.com/rogerio-castellano/inventory-system/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedDemoCatalog(t *testing.T, r http.Handler) {
	t.Helper()
	for _, p := range inventory.DemoProducts() {
		w := createProduct(r, handler.ProductRequest{
			ID:          p.ID,
			Name:        p.Name,
			Stock:       p.Stock,
			Threshold:   p.Threshold,
			RestockDate: p.RestockDate,
			Category:    p.Category,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}
}

func TestPurchaseFlow(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()
	seedDemoCatalog(t, r)

	t.Run("out of stock suggests alternatives in catalog order", func(t *testing.T) {
		w := purchaseProduct(r, "P002", 1)
		require.Equal(t, http.StatusConflict, w.Code)

		var resp handler.PurchaseResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		require.Len(t, resp.Recommendations, 3)
		assert.Equal(t, "P001", resp.Recommendations[0].ID)
		assert.Equal(t, "2025-07-10", resp.RestockDate)
	})

	t.Run("purchase to threshold raises alert", func(t *testing.T) {
		w := purchaseProduct(r, "P001", 4)
		require.Equal(t, http.StatusOK, w.Code)

		var resp handler.PurchaseResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, 1, resp.Remaining)
		assert.True(t, resp.LowStockAlert)
	})

	t.Run("purchase is recorded", func(t *testing.T) {
		w := get(r, "/products/P001/purchases")
		require.Equal(t, http.StatusOK, w.Code)

		var resp handler.PurchasesSearchResult
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, 1, resp.Meta.TotalCount)
		require.Len(t, resp.Data, 1)
		assert.Equal(t, 4, resp.Data[0].Quantity)
	})

	t.Run("dashboard reflects purchases", func(t *testing.T) {
		w := get(r, "/metrics/dashboard")
		require.Equal(t, http.StatusOK, w.Code)

		var m repo.Metrics
		require.NoError(t, json.NewDecoder(w.Body).Decode(&m))
		assert.Equal(t, 4, m.TotalProducts)
		assert.Equal(t, 1, m.TotalPurchases)
		assert.Equal(t, 1, m.OutOfStockCount)
		assert.Equal(t, 1, m.LowStockCount)
		assert.Equal(t, "P001", m.MostPurchasedProduct.ID)
	})
}

func TestConcurrentPurchasesNeverOversell(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()
	seedDemoCatalog(t, r)

	var wg sync.WaitGroup
	var succeeded atomic.Int32
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if purchaseProduct(r, "P004", 1).Code == http.StatusOK {
				succeeded.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(10), succeeded.Load())

	w := get(r, "/products/P004")
	var p handler.ProductResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&p))
	assert.Equal(t, 0, p.Stock)
}
