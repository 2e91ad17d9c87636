package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"santamartha/storefront/internal/apiclient"
	"santamartha/storefront/internal/config"
	"santamartha/storefront/internal/guard"
	"santamartha/storefront/internal/middleware"
	"santamartha/storefront/internal/selectors"
	"santamartha/storefront/internal/state"
)

type HandlerSet struct {
	log   zerolog.Logger
	cfg   *config.AppConfig
	store *state.Store
	memo  *selectors.Memoized
	cache *redis.Client // nil unless sessions live in redis
	now   func() time.Time
}

func NewHandlerSet(log zerolog.Logger, store *state.Store, cache *redis.Client, cfg *config.AppConfig) HandlerSet {
	return HandlerSet{
		log:   log,
		cfg:   cfg,
		store: store,
		memo:  selectors.NewMemoized(),
		cache: cache,
		now:   time.Now,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	router.GET("/login", h.LoginView)
	router.POST("/login", h.Login)
	router.POST("/register", h.SignUp)
	router.POST("/logout", h.Logout)
	router.GET("/catalog", h.Catalog)
	router.GET("/products/:id", h.ProductDetail)

	customer := router.Group("/")
	customer.Use(middleware.RequireSession(h.store, guard.RequireSession, h.log))
	{
		customer.GET("/cart", h.CartView)
		customer.POST("/cart/items", h.AddToCart)
		customer.PUT("/cart/items/:id", h.UpdateCartItem)
		customer.DELETE("/cart/items/:id", h.RemoveCartItem)
		customer.DELETE("/cart", h.ClearCart)
		customer.GET("/checkout", h.CheckoutView)
		customer.POST("/checkout", h.Checkout)

		customer.GET("/profile", h.ProfileView)
		customer.PUT("/profile", h.UpdateProfile)
		customer.PUT("/profile/password", h.ChangePassword)

		customer.GET("/orders", h.MyOrders)

		customer.GET("/notifications", h.NotificationsView)
		customer.PUT("/notifications/:id/read", h.MarkNotificationRead)
		customer.POST("/notifications/mark-all-read", h.MarkAllNotificationsRead)
	}

	admin := router.Group("/admin")
	admin.Use(middleware.RequireSession(h.store, guard.RequireAdmin, h.log))
	{
		admin.GET("/dashboard", h.Dashboard)

		admin.GET("/products", h.AdminProducts)
		admin.POST("/products", h.CreateProduct)
		admin.PUT("/products/:id", h.UpdateProduct)
		admin.PATCH("/products/:id/archive", h.ArchiveProduct)
		admin.POST("/categories", h.CreateCategory)

		admin.GET("/stock", h.StockView)
		admin.PUT("/stock/:id", h.UpdateStock)

		admin.GET("/orders", h.AdminOrders)
		admin.GET("/orders/:id", h.AdminOrderDetail)
		admin.PUT("/orders/:id/status", h.UpdateOrderStatus)

		admin.GET("/users", h.AdminUsers)
		admin.POST("/users", h.CreateUser)
		admin.PUT("/users/:id", h.UpdateUser)
		admin.DELETE("/users/:id", h.DeleteUser)

		admin.GET("/notifications", h.NotificationsView)
	}
}

// respondError maps a failed action to a response. Validation failures never
// reached the backend and answer 400; rejections carry the backend status.
func respondError(c *gin.Context, err error) {
	if state.IsValidation(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.HTTPStatus(), gin.H{"error": apiErr.Message})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// actionContext carries the request values into store actions but not the
// request's cancellation: a backend call outlives a visitor who hangs up and
// still settles into shared state. The client timeout bounds it.
func actionContext(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
