package api

import (
	"context"
	"net/http"
	"time"

	"shop-service/internal/auth"
	"shop-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// TokenChecker consults the persisted revocation blacklist
type TokenChecker interface {
	IsTokenRevoked(ctx context.Context, token string) (bool, error)
}

// Handler contains HTTP handlers
type Handler struct {
	users    *service.UserService
	catalog  *service.CatalogService
	cart     *service.CartService
	orders   *service.OrderService
	payments *service.PaymentService
	reviews  *service.ReviewService
	catering *service.CateringService

	tokens      *auth.TokenIssuer
	revocations TokenChecker
}

// NewHandler creates a new HTTP handler
func NewHandler(
	users *service.UserService,
	catalog *service.CatalogService,
	cart *service.CartService,
	orders *service.OrderService,
	payments *service.PaymentService,
	reviews *service.ReviewService,
	catering *service.CateringService,
	tokens *auth.TokenIssuer,
	revocations TokenChecker,
) *Handler {
	return &Handler{
		users:       users,
		catalog:     catalog,
		cart:        cart,
		orders:      orders,
		payments:    payments,
		reviews:     reviews,
		catering:    catering,
		tokens:      tokens,
		revocations: revocations,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")

	users := v1.Group("/users")
	{
		users.POST("/register", h.register)
		users.POST("/login", h.login)
		users.POST("/logout", h.authRequired(), h.logout)
		users.GET("/me", h.authRequired(), h.getProfile)
		users.PUT("/me", h.authRequired(), h.updateProfile)
		users.PUT("/password", h.authRequired(), h.changePassword)
	}

	products := v1.Group("/products")
	{
		products.GET("", h.listProducts)
		products.GET("/:id", h.getProduct)
		products.GET("/:id/reviews", h.listProductReviews)
		products.POST("", h.authRequired(), requireAdmin(), h.createProduct)
		products.PUT("/:id", h.authRequired(), requireAdmin(), h.updateProduct)
		products.DELETE("/:id", h.authRequired(), requireAdmin(), h.deleteProduct)
	}

	cartItems := v1.Group("/cart-items", h.authRequired())
	{
		cartItems.GET("", h.listCart)
		cartItems.POST("", h.addCartItem)
		cartItems.POST("/merge", h.mergeCart)
		cartItems.PUT("/:id", h.updateCartItem)
		cartItems.DELETE("/:id", h.removeCartItem)
	}

	orders := v1.Group("/orders", h.authRequired())
	{
		orders.POST("/checkout", h.checkout)
		orders.GET("", h.listMyOrders)
		orders.GET("/admin/all", requireAdmin(), h.listAllOrders)
		orders.PUT("/:id/status", requireAdmin(), h.updateOrderStatus)
	}

	v1.POST("/payments", h.authRequired(), h.createPayment)

	reviews := v1.Group("/reviews", h.authRequired())
	{
		reviews.POST("", h.createReview)
		reviews.PUT("/:id", h.updateReview)
		reviews.DELETE("/:id", h.deleteReview)
		reviews.GET("/:id/comments", h.listReviewComments)
		reviews.POST("/:id/comments", h.createReviewComment)
	}
	v1.PUT("/review-comments/:id", h.authRequired(), h.updateReviewComment)
	v1.DELETE("/review-comments/:id", h.authRequired(), h.deleteReviewComment)

	catering := v1.Group("/catering", h.authRequired())
	{
		catering.POST("", h.createCateringRequest)
		catering.GET("", h.listMyCateringRequests)
	}

	admin := v1.Group("/admin", h.authRequired(), requireAdmin())
	{
		admin.GET("/orders/:id", h.getOrderDetail)
		admin.POST("/payments", h.createPaymentAsAdmin)
		admin.GET("/payments", h.listPayments)
		admin.PUT("/payments/:id", h.updatePayment)
		admin.DELETE("/payments/:id", h.deletePayment)
		admin.GET("/catering", h.listAllCateringRequests)
		admin.PUT("/catering/:id/status", h.updateCateringStatus)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}
