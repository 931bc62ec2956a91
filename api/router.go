package api

import (
	"net/http"

	"tambola/observability"

	"github.com/gin-gonic/gin"
)

// RouterOptions carries the optional pieces mounted next to the API
type RouterOptions struct {
	Metrics     *observability.Metrics
	Live        http.Handler
	RateLimiter *RateLimiter
}

// NewRouter builds the gin engine with middleware, API routes, /metrics and /ws
func NewRouter(h *Handler, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger())
	if opts.Metrics != nil {
		router.Use(Instrument(opts.Metrics))
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}
	if opts.Live != nil {
		router.GET("/ws", gin.WrapH(opts.Live))
	}

	limited := router.Group("")
	if opts.RateLimiter != nil {
		limited.Use(opts.RateLimiter.Middleware())
	}
	h.RegisterRoutes(limited)

	return router
}
