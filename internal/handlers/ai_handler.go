package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/justsurfingit/brightpath/internal/dtos"
	"github.com/justsurfingit/brightpath/internal/errors"
	"github.com/justsurfingit/brightpath/internal/logger"
)

// Generator writes text with a language model. services.LLMService implements it.
type Generator interface {
	GenerateCoverLetter(ctx context.Context, req dtos.CoverLetterRequest) (*dtos.GenerationResponse, error)
	Professionalize(ctx context.Context, req dtos.ProfessionalizeRequest) (*dtos.GenerationResponse, error)
}

// AIHandler serves the generation endpoints. A nil Generator answers 503.
type AIHandler struct {
	Generator Generator
	logger    *zap.SugaredLogger
}

func NewAIHandler(g Generator, l *zap.SugaredLogger) *AIHandler {
	return &AIHandler{Generator: g, logger: logger.OrNop(l)}
}

// CoverLetter is POST /ai/cover-letter
func (h *AIHandler) CoverLetter(c *gin.Context) {
	var req dtos.CoverLetterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Position and company are required")
		return
	}
	if !h.available(c) {
		return
	}
	resp, err := h.Generator.GenerateCoverLetter(c.Request.Context(), req)
	h.respond(c, "cover letter", resp, err)
}

// Professionalize is POST /ai/professionalize-text
func (h *AIHandler) Professionalize(c *gin.Context) {
	var req dtos.ProfessionalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Text to professionalize is required")
		return
	}
	if !h.available(c) {
		return
	}
	resp, err := h.Generator.Professionalize(c.Request.Context(), req)
	h.respond(c, "professionalize", resp, err)
}

func (h *AIHandler) available(c *gin.Context) bool {
	if h.Generator == nil {
		c.JSON(http.StatusServiceUnavailable, dtos.ErrorResponse{Message: "AI generation is not configured"})
		return false
	}
	return true
}

func (h *AIHandler) respond(c *gin.Context, op string, resp *dtos.GenerationResponse, err error) {
	if err != nil {
		if errors.IsValidation(err) {
			badRequest(c, err.Error())
			return
		}
		h.logger.Errorw("Generation failed", "op", op, "error", err)
		c.JSON(http.StatusInternalServerError, dtos.ErrorResponse{Message: "Generation failed"})
		return
	}
	c.JSON(http.StatusOK, resp)
}
