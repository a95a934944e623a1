package routes

import (
	"github.com/gin-gonic/gin"

	"vastra_back_end/internal/handlers/admin"
	"vastra_back_end/internal/handlers/product"
	"vastra_back_end/internal/handlers/user"
	"vastra_back_end/internal/middleware"
)

func RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")

	// Routes publiques
	api.GET("/products", product.ListProducts)
	api.GET("/products/search", product.SearchProducts)
	api.GET("/products/:id", product.GetProduct)
	api.GET("/products/:id/reviews", product.GetProductReviews)
	api.GET("/shipping/quote", user.ShippingQuote)

	// Authentification
	auth := api.Group("/auth")
	auth.POST("/register", user.Register)
	auth.POST("/login", middleware.LoginRateLimit(), user.Login)

	// Routes protégées (client connecté)
	authed := api.Group("")
	authed.Use(middleware.AuthRequired())
	{
		authed.GET("/me", user.Me)

		// Panier
		authed.GET("/cart", user.GetCart)
		authed.POST("/cart", user.AddToCart)
		authed.PUT("/cart", user.UpdateCartLine)
		authed.DELETE("/cart", user.ClearCart)
		authed.GET("/cart/ws", user.CartWebSocket)

		// Checkout
		authed.GET("/checkout/summary", user.CheckoutSummary)
		authed.POST("/checkout/validate", user.ValidateShippingForm)
		authed.POST("/checkout/place", user.PlaceOrder)
		authed.POST("/checkout/confirm", middleware.CheckoutRateLimit(), user.ConfirmOrder)
		authed.POST("/checkout/cancel", user.CancelCheckout)

		// Commandes
		authed.GET("/orders", user.GetMyOrders)
		authed.GET("/orders/:id", user.GetOrderByID)
		authed.GET("/orders/:id/track", user.TrackOrder)

		// Avis
		authed.POST("/products/:id/reviews", product.CreateReview)
	}

	// Back office
	back := api.Group("/admin")
	back.Use(middleware.AuthRequired(), middleware.RequireAdmin)
	{
		back.POST("/products", admin.CreateProduct)
		back.PUT("/products/:id", admin.UpdateProduct)
		back.DELETE("/products/:id", admin.DeleteProduct)
		back.POST("/products/:id/images", admin.UploadProductImage)

		back.GET("/orders", admin.ListOrders)
		back.PUT("/orders/:id/status", admin.UpdateOrderStatus)
		back.PUT("/orders/:id/payment", admin.UpdatePaymentStatus)

		back.GET("/users", admin.ListUsers)
		back.PUT("/users/:id/role", admin.UpdateUserRole)

		back.GET("/reviews", admin.ListReviews)
		back.DELETE("/reviews/:id", admin.DeleteReview)

		back.GET("/audit", admin.ListAuditLogs)
	}
}
