package router

import (
	"docindex/internal/docindex/handler"
	"docindex/internal/docindex/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func RegisterRoutes(e *echo.Echo, h *handler.ArticleHandler, mh *handler.MappingHandler, m *metrics.Metrics) {
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.PUT, echo.POST, echo.DELETE, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, "x-user-id"},
	}))
	if m != nil {
		e.Use(m.Middleware())
		e.GET("/metrics", echo.WrapHandler(m.Handler()))
	}

	e.GET("/health", handler.HealthCheck)

	v1 := e.Group("/api/v1")
	v1.Use(handler.RequestIDMiddleware)

	// Articles and their child comments share the articles index
	v1.POST("/articles", h.PostArticle)
	v1.GET("/articles/:id", h.GetArticle)
	v1.PUT("/articles/:id", h.PutArticle)
	v1.DELETE("/articles/:id", h.DeleteArticle)
	v1.POST("/articles/:id/comments", h.PostComment)
	v1.GET("/articles/:id/comments", h.GetComments)

	// Mapping metadata
	v1.GET("/mappings", mh.GetMappings)
	v1.GET("/mappings/:name", mh.GetMapping)
}
