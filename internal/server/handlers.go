package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"MonetizationEngine/internal/domain"
	"MonetizationEngine/internal/engine"
)

type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type errorEnvelope struct {
	Error apiError `json:"error"`
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, errorEnvelope{Error: apiError{Message: message, Code: code}})
}

type slotRequest struct {
	Name        string `json:"name"`
	Style       string `json:"style"`
	MaxPrograms int    `json:"maxPrograms"`
}

type monetizeRequest struct {
	ArticleID       string        `json:"articleId"`
	CategoryID      int           `json:"categoryId"`
	ConcentrationID int           `json:"concentrationId"`
	DegreeLevelCode int           `json:"degreeLevelCode"`
	ArticleType     string        `json:"articleType"`
	Slots           []slotRequest `json:"slots"`
}

// POST /api/monetize
func (s *Server) monetize(c *gin.Context) {
	var req monetizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	var slots []domain.Slot
	for _, sl := range req.Slots {
		slots = append(slots, domain.Slot{
			Name:        sl.Name,
			Style:       domain.SlotStyle(sl.Style),
			MaxPrograms: sl.MaxPrograms,
		})
	}

	result := s.engine.Generate(c.Request.Context(), domain.MonetizationRequest{
		ArticleID:       req.ArticleID,
		CategoryID:      req.CategoryID,
		ConcentrationID: req.ConcentrationID,
		DegreeLevelCode: req.DegreeLevelCode,
		ArticleType:     req.ArticleType,
		Slots:           slots,
	})
	if !result.Success {
		respondError(c, http.StatusUnprocessableEntity, "generation_failed", result.Error)
		return
	}

	c.JSON(http.StatusOK, result)
}

type validateRequest struct {
	Content string              `json:"content"`
	Slots   []domain.SlotResult `json:"slots"`
}

// POST /api/validate
func (s *Server) validate(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	report := s.validator.Validate(req.Slots, req.Content)
	c.JSON(http.StatusOK, gin.H{
		"isValid":  report.IsValid,
		"findings": report.Findings,
		"blocking": report.Blocking(),
		"warnings": report.Warnings(),
	})
}

type topicMatchRequest struct {
	Topic       string `json:"topic"`
	DegreeLevel string `json:"degreeLevel"`
}

// POST /api/topic-match
func (s *Server) topicMatch(c *gin.Context) {
	var req topicMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	match, err := s.engine.MatchTopic(req.Topic, req.DegreeLevel)
	if err != nil {
		if errors.Is(err, engine.ErrNoMatch) {
			c.JSON(http.StatusOK, gin.H{"matched": false})
			return
		}
		respondError(c, http.StatusInternalServerError, "match_failed", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"matched": true, "match": match})
}
