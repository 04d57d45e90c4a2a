package handler

import (
	"context"
	"net/http"
	"time"

	"caixa-be/internal/category"
	"caixa-be/internal/metrics"
	"caixa-be/internal/order"
	"caixa-be/internal/ordernumber"
	"caixa-be/internal/product"
	"caixa-be/internal/report"
	"caixa-be/internal/user"
	"caixa-be/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const userIDKey = "userID"

type Handler struct {
	Categories category.Service
	Products   product.Service
	Orders     order.Service
	Numbers    ordernumber.Service
	Reports    report.Service
	Users      user.Service
	Metrics    *metrics.Registry
	// Checks are run by /health, keyed by dependency name.
	Checks   map[string]func(context.Context) error
	Location *time.Location
	// SecureCookies marks the dashboard session cookie Secure.
	SecureCookies bool
}

type RouterConfig struct {
	CORSOrigins []string
}

func NewRouter(h *Handler, cfg RouterConfig) *gin.Engine {
	if h.Location == nil {
		h.Location = time.Local
	}
	if h.Metrics == nil {
		h.Metrics = metrics.Default
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID", "X-Device-ID"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(h.Metrics.Handler()))

	if h.Users != nil {
		r.POST("/auth/register", h.Register)
		r.POST("/auth/login", h.Login)
	}

	api := r.Group("/api")
	api.Use(requireUser())
	{
		if h.Users != nil {
			api.GET("/me", h.Me)
		}

		api.GET("/categories", h.ListCategories)
		api.POST("/categories", h.CreateCategory)
		api.GET("/categories/sales", h.CategorySales)
		api.PUT("/categories/:id", h.RenameCategory)

		api.GET("/products", h.ListProducts)
		api.POST("/products", h.CreateProduct)
		api.POST("/products/import", h.ImportProducts)
		api.GET("/products/:id", h.GetProduct)
		api.PUT("/products/:id", h.UpdateProduct)
		api.POST("/products/:id/image", h.ProductImageUpload)

		api.GET("/orders", h.ListOrders)
		api.POST("/orders", h.Checkout)
		api.GET("/orders/number", h.CurrentOrderNumber)
		api.POST("/orders/number", h.NextOrderNumber)
		api.GET("/orders/:id", h.GetOrder)
		api.PUT("/orders/:id/items", h.EditOrderItems)
		api.POST("/orders/:id/complete", h.CompleteOrder)
		api.POST("/orders/:id/cancel", h.CancelOrder)

		api.GET("/reports/summary", h.ReportSummary)
		api.GET("/reports/daily", h.ReportDaily)
		api.GET("/reports/trend", h.ReportTrend)
		api.POST("/reports/export", h.ReportExport)
	}

	return r
}

// requireUser rejects requests the auth middleware could not attach a user to.
func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := utils.GetUserIDFromContext(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(userIDKey, id)
		c.Next()
	}
}

func currentUser(c *gin.Context) uint {
	return c.GetUint(userIDKey)
}
