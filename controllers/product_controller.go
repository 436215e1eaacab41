package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-backend/services"
)

type ProductController struct {
	productService *services.ProductService
}

func NewProductController(productService *services.ProductService) *ProductController {
	return &ProductController{productService: productService}
}

// GetProducts handles GET /products with an optional search filter.
func (pc *ProductController) GetProducts(c *gin.Context) {
	products, svcErr := pc.productService.SearchProducts(c.Request.Context(), c.Query("search"))
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"success": false, "error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": products})
}
