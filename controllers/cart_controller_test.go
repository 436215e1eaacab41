package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"storefront-backend/models"
)

type cartResponse struct {
	Success bool        `json:"success"`
	Cart    models.Cart `json:"cart"`
	Count   int         `json:"count"`
	Total   float64     `json:"total"`
	Message string      `json:"message"`
}

func addWidget(r *gin.Engine, t *testing.T, email string, qty, maxStock int) cartResponse {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/cart/add", email, gin.H{
		"name": "Widget", "price": 25.0, "quantity": qty, "max_stock": maxStock,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp cartResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestCart_RequiresIdentity(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(r, http.MethodGet, "/cart", "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCart_AddAndGet(t *testing.T) {
	r, _ := setupRouter(t)

	resp := addWidget(r, t, "jane@example.com", 2, 10)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, 50.0, resp.Total)

	w := doJSON(r, http.MethodGet, "/cart", "jane@example.com", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var fetched cartResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Len(t, fetched.Cart.Items, 1)
	assert.Equal(t, "Widget", fetched.Cart.Items[0].Name)
}

func TestCart_AddWithMalformedStockValue(t *testing.T) {
	r, _ := setupRouter(t)

	// a junk max_stock is treated as unknown, not a binding failure
	body := []byte(`{"name":"Widget","price":25.0,"quantity":2,"max_stock":"plenty"}`)
	req := httptest.NewRequest(http.MethodPost, "/cart/add", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Email", "jane@example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp cartResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Cart.Items, 1)
	assert.Equal(t, models.DefaultMaxStock, resp.Cart.Items[0].MaxStock)
}

func TestCart_StockLimitSurfacesMessage(t *testing.T) {
	r, _ := setupRouter(t)
	addWidget(r, t, "jane@example.com", 3, 5)

	w := doJSON(r, http.MethodPost, "/cart/add", "jane@example.com", gin.H{
		"name": "Widget", "price": 25.0, "quantity": 4, "max_stock": 5,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Stock limit reached! You have 3 in cart.")
}

func TestCart_UpdateQuantity(t *testing.T) {
	r, _ := setupRouter(t)
	addWidget(r, t, "jane@example.com", 2, 10)

	w := doJSON(r, http.MethodPatch, "/cart/items/0", "jane@example.com", gin.H{"quantity": 7})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp cartResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 7, resp.Count)
}

func TestCart_UpdateQuantityToZeroRemoves(t *testing.T) {
	r, _ := setupRouter(t)
	addWidget(r, t, "jane@example.com", 2, 10)

	w := doJSON(r, http.MethodPatch, "/cart/items/0", "jane@example.com", gin.H{"quantity": 0})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp cartResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Cart.Items)
	assert.Equal(t, 0, resp.Count)
}

func TestCart_UpdateInvalidIndex(t *testing.T) {
	r, _ := setupRouter(t)
	addWidget(r, t, "jane@example.com", 2, 10)

	w := doJSON(r, http.MethodPatch, "/cart/items/notanumber", "jane@example.com", gin.H{"quantity": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPatch, "/cart/items/5", "jane@example.com", gin.H{"quantity": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCart_RemoveItem(t *testing.T) {
	r, _ := setupRouter(t)
	addWidget(r, t, "jane@example.com", 2, 10)

	w := doJSON(r, http.MethodDelete, "/cart/items/0", "jane@example.com", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp cartResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Cart.Items)
}

func TestCart_Clear(t *testing.T) {
	r, _ := setupRouter(t)
	addWidget(r, t, "jane@example.com", 2, 10)

	w := doJSON(r, http.MethodDelete, "/cart/clear", "jane@example.com", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Cart cleared")

	w = doJSON(r, http.MethodGet, "/cart", "jane@example.com", nil)
	var resp cartResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Count)
}

func TestCart_IsolatedBetweenUsers(t *testing.T) {
	r, _ := setupRouter(t)
	addWidget(r, t, "jane@example.com", 2, 10)

	w := doJSON(r, http.MethodGet, "/cart", "bob@example.com", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp cartResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Cart.Items)
}
