// README: HTTP route and middleware registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"linguaschool/internal/http/handlers"
	"linguaschool/internal/http/middleware"
)

func registerRoutes(r *gin.Engine, s *Server) {
	r.Use(
		middleware.Logging(s.log),
		middleware.Recovery(s.log),
		middleware.CORS(s.corsOrigins),
	)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api")
	if s.rateLimit > 0 && s.rateBurst > 0 {
		api.Use(middleware.RateLimit(s.rateLimit, s.rateBurst, s.log))
	}

	quoteHandler := handlers.NewQuoteHandler(s.pricing)
	api.POST("/quotes", quoteHandler.Create)
	api.GET("/calendar/:date", quoteHandler.Calendar)

	orderHandler := handlers.NewOrderHandler(s.order)
	api.GET("/orders", orderHandler.List)
	api.POST("/orders", orderHandler.Create)
	api.GET("/orders/:id", orderHandler.Get)
	api.PUT("/orders/:id", orderHandler.Update)
	api.DELETE("/orders/:id", orderHandler.Delete)
	api.GET("/orders/:id/quotes", orderHandler.Quotes)
}
