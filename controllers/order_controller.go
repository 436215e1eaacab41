package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-backend/middleware"
	"storefront-backend/services"
)

type OrderController struct {
	orderService *services.OrderService
}

func NewOrderController(orderService *services.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

// CreateOrder handles POST /create-order.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid order data"})
		return
	}

	orderID, svcErr := oc.orderService.CreateOrder(c.Request.Context(), &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"success": false, "message": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"orderId": orderID,
		"message": "Order created successfully",
	})
}

// GetOrder handles GET /order/:orderId.
func (oc *OrderController) GetOrder(c *gin.Context) {
	order, svcErr := oc.orderService.GetOrder(c.Request.Context(), c.Param("orderId"))
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"success": false, "message": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

// GetMyOrders handles GET /my-orders for the authenticated customer.
func (oc *OrderController) GetMyOrders(c *gin.Context) {
	email := middleware.GetUserEmail(c)

	orders, svcErr := oc.orderService.ListByCustomer(c.Request.Context(), email)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"success": false, "error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": orders})
}

// CancelOrder handles PATCH /my-orders/:id/cancel.
func (oc *OrderController) CancelOrder(c *gin.Context) {
	email := middleware.GetUserEmail(c)

	if svcErr := oc.orderService.CancelOrder(c.Request.Context(), c.Param("id"), email); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"success": false, "error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order canceled successfully"})
}
