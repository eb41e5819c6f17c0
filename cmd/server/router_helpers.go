package main

import (
	"net/http"

	"fxvault.backend/internal/interfaces/http/middleware"
	"fxvault.backend/pkg/metrics"
	"github.com/gin-gonic/gin"
)

const (
	serviceName    = "fxvault-backend"
	serviceVersion = "1.0.0"
)

func applyCORSMiddleware(r *gin.Engine, allowedOrigin string) {
	r.Use(middleware.CORSMiddleware(allowedOrigin))
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": serviceName,
			"version": serviceVersion,
		})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
}
