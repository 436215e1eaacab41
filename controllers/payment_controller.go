package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-backend/services"
)

type PaymentController struct {
	paymentService *services.PaymentService
}

func NewPaymentController(paymentService *services.PaymentService) *PaymentController {
	return &PaymentController{paymentService: paymentService}
}

// StkPush handles POST /stk-push: it acks the payment attempt immediately;
// the confirmation lands later through the callback or the simulation.
func (pc *PaymentController) StkPush(c *gin.Context) {
	var req struct {
		OrderID string `json:"orderId" binding:"required"`
		Phone   string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "orderId is required"})
		return
	}

	checkoutID, svcErr := pc.paymentService.InitiatePayment(c.Request.Context(), req.OrderID, req.Phone)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"success": false, "message": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":             true,
		"message":             "STK Push initiated successfully",
		"checkout_request_id": checkoutID,
	})
}

// PaymentCallback handles POST /payment-callback. The payload arrives from
// the payment channel unauthenticated, so receipt is always acknowledged;
// anything unmatchable is dropped internally.
func (pc *PaymentController) PaymentCallback(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}

	pc.paymentService.HandleCallback(c.Request.Context(), payload)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
