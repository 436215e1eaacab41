package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-backend/services"
)

type QuoteController struct {
	quoteService *services.QuoteService
}

func NewQuoteController(quoteService *services.QuoteService) *QuoteController {
	return &QuoteController{quoteService: quoteService}
}

// CreateQuote handles POST /quote.
func (qc *QuoteController) CreateQuote(c *gin.Context) {
	var input services.QuoteRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid payload"})
		return
	}

	if _, svcErr := qc.quoteService.CreateQuote(c.Request.Context(), &input); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"success": false, "error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Quote request received"})
}

// ListQuotes handles GET /quotes (identity required).
func (qc *QuoteController) ListQuotes(c *gin.Context) {
	quotes, svcErr := qc.quoteService.ListQuotes(c.Request.Context())
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"success": false, "error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": quotes})
}
