package router

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tallow-shop/storefront/internal/cache"
	"github.com/tallow-shop/storefront/internal/config"
	"github.com/tallow-shop/storefront/internal/constants"
	publichandlers "github.com/tallow-shop/storefront/internal/http/handlers/public"
	"github.com/tallow-shop/storefront/internal/http/response"
	"github.com/tallow-shop/storefront/internal/logger"
	"github.com/tallow-shop/storefront/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	h := publichandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = constants.RedisPrefixDefault
	}
	reviewRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:review", redisPrefix),
		WindowSeconds: cfg.Review.RateLimit.WindowSeconds,
		MaxRequests:   cfg.Review.RateLimit.MaxRequests,
		BlockSeconds:  cfg.Review.RateLimit.BlockSeconds,
		Message:       "too many reviews submitted",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	r.GET("/healthz", func(ctx *gin.Context) {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()
		if err := cache.Ping(pingCtx); err != nil {
			logger.Warnw("healthz_redis_unreachable", "error", err)
			response.Error(ctx, response.CodeServiceUnavailable, "redis unreachable")
			return
		}
		response.Success(ctx, gin.H{"status": "ok", "redis": cache.Enabled()})
	})

	apiV1 := r.Group("/api/v1")
	{
		products := apiV1.Group("/products")
		{
			products.GET("", h.ListProducts)
			products.GET("/search", h.SearchProducts)
			products.GET("/:id", h.GetProduct)
			products.GET("/:id/reviews", h.ListProductReviews)
		}

		apiV1.POST("/reviews", RateLimitMiddleware(cache.Client(), reviewRule, KeyByIPAndJSONField("email")), h.SubmitReview)

		cartGroup := apiV1.Group("/cart")
		cartGroup.Use(CartSessionMiddleware(cfg.Cart))
		{
			cartGroup.GET("", h.GetCart)
			cartGroup.POST("/items", h.AddCartItem)
			cartGroup.PATCH("/items/:index", h.ChangeCartItem)
			cartGroup.DELETE("/items/:index", h.DeleteCartItem)
			cartGroup.POST("/checkout", h.CheckoutCart)
		}
	}

	r.NoRoute(func(ctx *gin.Context) {
		response.NotFound(ctx, "route not found")
	})

	return r
}
