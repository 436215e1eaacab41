package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"storefront-backend/controllers"
	"storefront-backend/database"
	"storefront-backend/models"
	"storefront-backend/repository"
	"storefront-backend/routes"
	"storefront-backend/services"
)

// setupRouter wires the real services over in-memory stores, the same
// shape main assembles, minus Kafka and the HTTP middleware stack.
func setupRouter(t *testing.T) (*gin.Engine, *repository.MemoryProductRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	orderRepo := repository.NewMemoryOrderRepository()
	productRepo := repository.NewMemoryProductRepository()
	quoteRepo := repository.NewMemoryQuoteRepository()

	orderService := services.NewOrderService(orderRepo, productRepo, nil, services.NewTimestampIDGenerator(), logger)
	paymentService := services.NewPaymentService(orderRepo, nil, time.Hour, logger)
	t.Cleanup(paymentService.Close)
	cartService := services.NewCartService(database.NewMemoryCartStore(), logger)
	productService := services.NewProductService(productRepo, logger)
	quoteService := services.NewQuoteService(quoteRepo, logger)

	r := gin.New()
	routes.Register(r,
		controllers.NewOrderController(orderService),
		controllers.NewPaymentController(paymentService),
		controllers.NewCartController(cartService),
		controllers.NewProductController(productService),
		controllers.NewQuoteController(quoteService),
	)
	return r, productRepo
}

func doJSON(r *gin.Engine, method, path, email string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if email != "" {
		req.Header.Set("X-User-Email", email)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func orderBody(email string) gin.H {
	return gin.H{
		"items":    []gin.H{{"name": "Widget", "price": 25.0, "quantity": 2}},
		"subtotal": 50.0,
		"tax":      8.0,
		"shipping": 5.0,
		"total":    63.0,
		"customer": gin.H{"name": "Jane Doe", "email": email, "phone": "0712345678"},
	}
}

func TestCreateOrder_ThenGet(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/create-order", "", orderBody("jane@example.com"))
	assert.Equal(t, http.StatusOK, w.Code)

	var created struct {
		Success bool   `json:"success"`
		OrderID string `json:"orderId"`
		Message string `json:"message"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.True(t, created.Success)
	assert.NotEmpty(t, created.OrderID)
	assert.Equal(t, "Order created successfully", created.Message)

	w = doJSON(r, http.MethodGet, "/order/"+created.OrderID, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var fetched struct {
		Success bool         `json:"success"`
		Order   models.Order `json:"order"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(t, created.OrderID, fetched.Order.ID)
	assert.Equal(t, models.OrderStatusPending, fetched.Order.Status)
	assert.Equal(t, models.PaymentStatusUnpaid, fetched.Order.Payment.Status)
}

func TestCreateOrder_InvalidPayload(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/create-order", bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetOrder_NotFoundStatus(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(r, http.MethodGet, "/order/ORD-missing", "", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Order not found")
}

func TestGetMyOrders_RequiresIdentity(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(r, http.MethodGet, "/my-orders", "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Unauthorized. Please log in.")
}

func TestGetMyOrders_ScopedToCaller(t *testing.T) {
	r, _ := setupRouter(t)
	doJSON(r, http.MethodPost, "/create-order", "", orderBody("jane@example.com"))
	doJSON(r, http.MethodPost, "/create-order", "", orderBody("bob@example.com"))

	w := doJSON(r, http.MethodGet, "/my-orders", "jane@example.com", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool           `json:"success"`
		Data    []models.Order `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, "jane@example.com", resp.Data[0].Customer.Email)
}

func TestCancelOrder_Flow(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/create-order", "", orderBody("jane@example.com"))
	var created struct {
		OrderID string `json:"orderId"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// someone else cannot cancel it
	w = doJSON(r, http.MethodPatch, "/my-orders/"+created.OrderID+"/cancel", "mallory@example.com", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// the owner can
	w = doJSON(r, http.MethodPatch, "/my-orders/"+created.OrderID+"/cancel", "jane@example.com", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Order canceled successfully")

	// and only once
	w = doJSON(r, http.MethodPatch, "/my-orders/"+created.OrderID+"/cancel", "jane@example.com", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStkPush_AcksImmediately(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/create-order", "", orderBody("jane@example.com"))
	var created struct {
		OrderID string `json:"orderId"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(r, http.MethodPost, "/stk-push", "", gin.H{"orderId": created.OrderID, "phone": "0712345678"})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success           bool   `json:"success"`
		Message           string `json:"message"`
		CheckoutRequestID string `json:"checkout_request_id"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "STK Push initiated successfully", resp.Message)
	assert.NotEmpty(t, resp.CheckoutRequestID)

	// the ack does not mean paid
	w = doJSON(r, http.MethodGet, "/order/"+created.OrderID, "", nil)
	var fetched struct {
		Order models.Order `json:"order"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(t, models.PaymentStatusUnpaid, fetched.Order.Payment.Status)
}

func TestStkPush_MissingOrderID(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/stk-push", "", gin.H{"phone": "0712345678"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStkPush_UnknownOrder(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/stk-push", "", gin.H{"orderId": "ORD-missing"})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPaymentCallback_AlwaysAcked(t *testing.T) {
	r, _ := setupRouter(t)

	// garbage payload still gets a 200 back to the channel
	req := httptest.NewRequest(http.MethodPost, "/payment-callback", bytes.NewReader([]byte("garbage")))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
}

func TestGetProducts_SearchFilter(t *testing.T) {
	r, productRepo := setupRouter(t)
	assert.NoError(t, productRepo.Upsert(context.Background(), models.Product{ID: "p1", Name: "CCTV Camera", Category: "Security", Price: 120, Stock: 3}))
	assert.NoError(t, productRepo.Upsert(context.Background(), models.Product{ID: "p2", Name: "Patch Cable", Category: "Networking", Price: 4.5, Stock: 100}))

	w := doJSON(r, http.MethodGet, "/products?search=security", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []models.Product `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, "CCTV Camera", resp.Data[0].Name)
}

func TestQuoteIntake(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/quote", "", gin.H{
		"name":    "Jane Doe",
		"email":   "jane@example.com",
		"phone":   "0712345678",
		"service": "CCTV Installation",
		"message": "Quote for a 4-camera setup.",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// listing requires identity
	w = doJSON(r, http.MethodGet, "/quotes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodGet, "/quotes", "admin@example.com", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "CCTV Installation")
}
