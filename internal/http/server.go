// README: API gateway; builds the gin engine with middleware and delegates to module services.
package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"linguaschool/internal/modules/order"
	"linguaschool/internal/modules/pricing"
)

type ServerDeps struct {
	Order   *order.Service
	Pricing *pricing.Service
	Log     *zap.Logger

	CORSOrigins []string
	RateLimit   float64
	RateBurst   int
}

type Server struct {
	order   *order.Service
	pricing *pricing.Service
	log     *zap.Logger

	corsOrigins []string
	rateLimit   float64
	rateBurst   int
}

func NewServer(deps ServerDeps) *Server {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		order:       deps.Order,
		pricing:     deps.Pricing,
		log:         log,
		corsOrigins: deps.CORSOrigins,
		rateLimit:   deps.RateLimit,
		rateBurst:   deps.RateBurst,
	}
}

func (s *Server) Routes() *gin.Engine {
	r := gin.New()
	registerRoutes(r, s)
	return r
}
