package routes

import (
	"github.com/gin-gonic/gin"

	"storefront-backend/controllers"
	"storefront-backend/middleware"
)

// Register wires every endpoint. Order creation, payment initiation and the
// payment callback stay public (guest checkout); everything acting on a
// customer's own data sits behind the identity middleware.
func Register(
	r *gin.Engine,
	orders *controllers.OrderController,
	payments *controllers.PaymentController,
	carts *controllers.CartController,
	products *controllers.ProductController,
	quotes *controllers.QuoteController,
) {
	r.POST("/create-order", orders.CreateOrder)
	r.GET("/order/:orderId", orders.GetOrder)
	r.POST("/stk-push", payments.StkPush)
	r.POST("/payment-callback", payments.PaymentCallback)
	r.GET("/products", products.GetProducts)
	r.POST("/quote", quotes.CreateQuote)

	my := r.Group("/my-orders")
	my.Use(middleware.AuthMiddleware())
	{
		my.GET("", orders.GetMyOrders)
		my.PATCH("/:id/cancel", orders.CancelOrder)
	}

	cart := r.Group("/cart")
	cart.Use(middleware.AuthMiddleware())
	{
		cart.GET("", carts.GetCart)
		cart.POST("/add", carts.AddItem)
		cart.PATCH("/items/:index", carts.UpdateQuantity)
		cart.DELETE("/items/:index", carts.RemoveItem)
		cart.DELETE("/clear", carts.ClearCart)
	}

	authed := r.Group("")
	authed.Use(middleware.AuthMiddleware())
	authed.GET("/quotes", quotes.ListQuotes)
}
