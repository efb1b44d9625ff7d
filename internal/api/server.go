// Package api serves the meal plan and shopping list over a local JSON API.
package api

import (
	"io"
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/christopherklint97/mealr/internal/shopping"
	"github.com/christopherklint97/mealr/internal/store"
)

// PlanStore is the meal-plan part of the database the API edits.
type PlanStore interface {
	GetWeek(t time.Time) ([]store.Day, error)
	SetMeal(e store.MealPlanEntry) error
}

type Server struct {
	plan      PlanStore
	gen       *shopping.Generator
	cache     *shopping.Cache
	usePantry bool
	logger    *slog.Logger
	now       func() time.Time
}

type Options struct {
	Plan      PlanStore
	Generator *shopping.Generator
	Cache     *shopping.Cache
	// UsePantry is the pantry-offset default when a request omits it.
	UsePantry bool
	Logger    *slog.Logger
}

func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{
		plan:      opts.Plan,
		gen:       opts.Generator,
		cache:     opts.Cache,
		usePantry: opts.UsePantry,
		logger:    logger,
		now:       time.Now,
	}
}

// Router builds the gin engine. allowedOrigins feeds the CORS policy; an
// empty list disables CORS headers.
func (s *Server) Router(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	if len(allowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: allowedOrigins,
			AllowMethods: []string{"GET", "POST", "PUT", "DELETE"},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		plan := v1.Group("/plan")
		plan.GET("/week", s.getWeek)
		plan.PUT("/:date/:slot", s.setMeal)

		shop := v1.Group("/shopping")
		shop.POST("/generate", s.generate)
		shop.POST("/export", s.export)
		shop.GET("/cache", s.getCache)
		shop.DELETE("/cache", s.clearCache)
	}
	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"elapsed", time.Since(start),
		)
	}
}
