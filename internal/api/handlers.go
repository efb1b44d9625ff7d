package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/christopherklint97/mealr/internal/dates"
	"github.com/christopherklint97/mealr/internal/shopping"
	"github.com/christopherklint97/mealr/internal/store"
)

func (s *Server) getWeek(c *gin.Context) {
	now := s.now()
	day := now
	if q := c.Query("week"); q != "" {
		t, err := dates.Parse(q, now)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		day = t
	}

	days, err := s.plan.GetWeek(day)
	if err != nil {
		s.internalError(c, "loading week", err)
		return
	}
	start, end := dates.Week(day)
	c.JSON(http.StatusOK, gin.H{"week_start": start, "week_end": end, "days": days})
}

type setMealRequest struct {
	RecipeID *int64 `json:"recipe_id"`
	Servings int    `json:"servings"`
	Notes    string `json:"notes"`
}

func (s *Server) setMeal(c *gin.Context) {
	var req setMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := s.plan.SetMeal(store.MealPlanEntry{
		Date:     c.Param("date"),
		Slot:     c.Param("slot"),
		RecipeID: req.RecipeID,
		Servings: req.Servings,
		Notes:    req.Notes,
	})
	switch {
	case err == nil:
		c.Status(http.StatusNoContent)
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrInvalidSlot), errors.Is(err, store.ErrInvalidServings), errors.Is(err, store.ErrInvalidDate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		s.internalError(c, "setting meal", err)
	}
}

type generateRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	UsePantry *bool  `json:"use_pantry"`
	Save      bool   `json:"save"`
}

// buildList resolves the request range and generates. It writes the error
// response itself and returns ok=false on failure.
func (s *Server) buildList(c *gin.Context) (shopping.Bundle, generateRequest, bool) {
	var req generateRequest
	// An empty body, chunked or not, means "all defaults".
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return shopping.Bundle{}, req, false
	}

	start, end, err := dates.Range(req.StartDate, req.EndDate, s.now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return shopping.Bundle{}, req, false
	}
	usePantry := s.usePantry
	if req.UsePantry != nil {
		usePantry = *req.UsePantry
	}

	b, err := s.gen.Build(shopping.Request{Start: start, End: end, UsePantry: usePantry})
	if err != nil {
		s.internalError(c, "generating shopping list", err)
		return shopping.Bundle{}, req, false
	}
	return b, req, true
}

func (s *Server) generate(c *gin.Context) {
	b, req, ok := s.buildList(c)
	if !ok {
		return
	}
	if req.Save {
		if err := s.cache.Save(b); err != nil {
			s.internalError(c, "saving shopping list", err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"shopping":   b.List,
		"text":       shopping.Format(b.List),
		"start_date": b.Start,
		"end_date":   b.End,
	})
}

func (s *Server) export(c *gin.Context) {
	b, _, ok := s.buildList(c)
	if !ok {
		return
	}
	c.Header("Content-Disposition", `attachment; filename="shopping_list.txt"`)
	c.String(http.StatusOK, shopping.Format(b.List))
}

func (s *Server) getCache(c *gin.Context) {
	b, err := s.cache.Load()
	if err != nil {
		s.internalError(c, "loading saved list", err)
		return
	}
	if b == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no saved shopping list"})
		return
	}
	c.JSON(http.StatusOK, b)
}

func (s *Server) clearCache(c *gin.Context) {
	if err := s.cache.Clear(); err != nil {
		s.internalError(c, "clearing saved list", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) internalError(c *gin.Context, action string, err error) {
	s.logger.Error(action+" failed", "error", err, "path", c.FullPath())
	c.JSON(http.StatusInternalServerError, gin.H{"error": action + " failed"})
}
