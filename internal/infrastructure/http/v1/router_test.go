package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"optipos/internal/domain/catalogs/customer"
	"optipos/internal/domain/catalogs/product"
	"optipos/internal/domain/catalogs/resolver"
	"optipos/internal/domain/catalogs/warehouse"
	"optipos/internal/domain/documents/sale"
	"optipos/internal/domain/numerator"
	"optipos/internal/domain/registers/stock"
	v1 "optipos/internal/infrastructure/http/v1"
	"optipos/internal/infrastructure/storage/jsondoc"
)

type apiFixture struct {
	router *gin.Engine
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	ctx := context.Background()

	store, err := jsondoc.Open(ctx, jsondoc.Config{
		Path: filepath.Join(t.TempDir(), "optipos.json"),
	})
	require.NoError(t, err)

	products := jsondoc.NewProductRepository(store)
	warehouses := jsondoc.NewWarehouseRepository(store)
	customers := jsondoc.NewCustomerRepository(store)
	lensTypes := jsondoc.NewLensTypeRepository(store)
	saleRepo := jsondoc.NewSaleRepository(store)
	stockRepo := jsondoc.NewStockRepository(store)
	txm := jsondoc.NewTxManager(store)

	require.NoError(t, warehouses.Create(ctx, warehouse.New("Main", "")))

	numbers := numerator.NewService(saleRepo, products, numerator.DefaultConfig())
	ledger := stock.NewService(stockRepo, warehouses)
	catalogs := resolver.NewService(products, lensTypes, saleRepo, numbers, ledger)

	router := v1.NewRouter(v1.RouterConfig{
		Products:   product.NewService(products, numbers, txm),
		Warehouses: warehouse.NewService(warehouses, txm),
		Customers:  customer.NewService(customers, txm),
		Sales:      sale.NewService(saleRepo, customers, products, ledger, catalogs, numbers, txm),
		Stock:      ledger,
		Tx:         txm,
	})

	return &apiFixture{router: router}
}

func (f *apiFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func TestProductResponsesCarryDerivedStock(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/products", gin.H{
		"name":      "Aviator",
		"category":  "frame",
		"salePrice": "25.00",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		ID string `json:"id"`
	}
	decode(t, rec, &created)

	rec = f.do(t, http.MethodPost, "/api/v1/stock/movements", gin.H{
		"productId": created.ID,
		"quantity":  7,
		"kind":      "purchase",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/products/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		SKU      string `json:"sku"`
		StockQty int64  `json:"stockQty"`
	}
	decode(t, rec, &got)
	require.Equal(t, "20001", got.SKU)
	require.EqualValues(t, 7, got.StockQty)

	rec = f.do(t, http.MethodGet, "/api/v1/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list struct {
		Items []struct {
			StockQty int64 `json:"stockQty"`
		} `json:"items"`
		Count int `json:"count"`
	}
	decode(t, rec, &list)
	require.Equal(t, 1, list.Count)
	require.EqualValues(t, 7, list.Items[0].StockQty)
}

func TestReplaceStockRunsAsOneUnit(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/products", gin.H{
		"name":     "Wayfarer",
		"category": "frame",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		ID string `json:"id"`
	}
	decode(t, rec, &created)

	rec = f.do(t, http.MethodPost, "/api/v1/stock/replace", gin.H{
		"productId": created.ID,
		"quantity":  4,
		"note":      "stocktake",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var replaced struct {
		Delta     int64 `json:"delta"`
		Available int64 `json:"available"`
	}
	decode(t, rec, &replaced)
	require.EqualValues(t, 4, replaced.Delta)
	require.EqualValues(t, 4, replaced.Available)

	rec = f.do(t, http.MethodGet, "/api/v1/stock/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var avail struct {
		Available int64 `json:"available"`
	}
	decode(t, rec, &avail)
	require.EqualValues(t, 4, avail.Available)

	// An invalid movement kind commits nothing.
	rec = f.do(t, http.MethodPost, "/api/v1/stock/movements", gin.H{
		"productId": created.ID,
		"quantity":  99,
		"kind":      "teleport",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/stock/"+created.ID, nil)
	var after struct {
		Available int64 `json:"available"`
	}
	decode(t, rec, &after)
	require.EqualValues(t, 4, after.Available)
}
