package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront-backend/middleware"
	"storefront-backend/models"
	"storefront-backend/services"
)

type CartController struct {
	cartService *services.CartService
}

func NewCartController(cartService *services.CartService) *CartController {
	return &CartController{cartService: cartService}
}

func cartResponse(cart *models.Cart) gin.H {
	return gin.H{
		"success": true,
		"cart":    cart,
		"count":   cart.Count(),
		"total":   cart.Total(),
	}
}

// GetCart handles GET /cart.
func (cc *CartController) GetCart(c *gin.Context) {
	cart, svcErr := cc.cartService.GetCart(c.Request.Context(), middleware.GetUserEmail(c))
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"success": false, "message": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, cartResponse(cart))
}

// AddItem handles POST /cart/add.
func (cc *CartController) AddItem(c *gin.Context) {
	var req services.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid payload"})
		return
	}

	cart, svcErr := cc.cartService.AddItem(c.Request.Context(), middleware.GetUserEmail(c), req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"success": false, "message": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, cartResponse(cart))
}

// UpdateQuantity handles PATCH /cart/items/:index.
func (cc *CartController) UpdateQuantity(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid item index"})
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid payload"})
		return
	}

	cart, svcErr := cc.cartService.UpdateQuantity(c.Request.Context(), middleware.GetUserEmail(c), index, req.Quantity)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"success": false, "message": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, cartResponse(cart))
}

// RemoveItem handles DELETE /cart/items/:index.
func (cc *CartController) RemoveItem(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid item index"})
		return
	}

	cart, svcErr := cc.cartService.RemoveItem(c.Request.Context(), middleware.GetUserEmail(c), index)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"success": false, "message": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, cartResponse(cart))
}

// ClearCart handles DELETE /cart/clear.
func (cc *CartController) ClearCart(c *gin.Context) {
	if svcErr := cc.cartService.ClearCart(c.Request.Context(), middleware.GetUserEmail(c)); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"success": false, "message": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cart cleared"})
}
