package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"token-research.backend/internal/interfaces/http/handlers"
)

const (
	serviceName    = "token-research-backend"
	serviceVersion = "0.1.0"
)

type routeDeps struct {
	researchHandler *handlers.ResearchHandler
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
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		v1.GET("/state", d.researchHandler.GetState)
		v1.POST("/reset", d.researchHandler.Reset)

		tokens := v1.Group("/tokens")
		{
			tokens.GET("", d.researchHandler.ListTokens)
			tokens.POST("", d.researchHandler.CreateToken)
			tokens.POST("/:id/checklist/:itemId/toggle", d.researchHandler.ToggleChecklistItem)
			tokens.GET("/:id/notes", d.researchHandler.GetNote)
			tokens.PUT("/:id/notes", d.researchHandler.PutNote)
		}

		nav := v1.Group("/navigation")
		{
			nav.POST("/select/:id", d.researchHandler.Select)
			nav.POST("/back", d.researchHandler.Back)
			nav.POST("/new", d.researchHandler.OpenNew)
			nav.POST("/cancel", d.researchHandler.Cancel)
			nav.PUT("/search", d.researchHandler.SetSearch)
		}
	}
}
