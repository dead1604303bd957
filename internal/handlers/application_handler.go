package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/justsurfingit/brightpath/internal/dtos"
	"github.com/justsurfingit/brightpath/internal/errors"
	"github.com/justsurfingit/brightpath/internal/logger"
	"github.com/justsurfingit/brightpath/internal/models"
)

// ApplicationService is what the handler needs from services.ApplicationService.
type ApplicationService interface {
	List(ctx context.Context, f models.Filters) (models.ListResult, error)
	Get(ctx context.Context, id string) (*models.Application, error)
	Create(ctx context.Context, in models.ApplicationInput) (*models.Application, error)
	Update(ctx context.Context, id string, patch models.ApplicationPatch) (*models.Application, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (models.Stats, error)
}

type ApplicationHandler struct {
	Service ApplicationService
	logger  *zap.SugaredLogger
}

func NewApplicationHandler(s ApplicationService, l *zap.SugaredLogger) *ApplicationHandler {
	return &ApplicationHandler{Service: s, logger: logger.OrNop(l)}
}

// List is GET /applications
func (h *ApplicationHandler) List(c *gin.Context) {
	var q dtos.ListApplicationsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "Invalid query: "+err.Error())
		return
	}
	res, err := h.Service.List(c.Request.Context(), q.Filters())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos.NewListApplicationsResponse(res))
}

// Get is GET /applications/:id
func (h *ApplicationHandler) Get(c *gin.Context) {
	app, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos.NewApplicationResponse(*app))
}

// Create is POST /applications
func (h *ApplicationHandler) Create(c *gin.Context) {
	var req dtos.ApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid JSON format: "+err.Error())
		return
	}
	app, err := h.Service.Create(c.Request.Context(), req.Input())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, dtos.NewApplicationResponse(*app))
}

// Update is PUT /applications/:id
func (h *ApplicationHandler) Update(c *gin.Context) {
	var req dtos.ApplicationUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid JSON format: "+err.Error())
		return
	}
	app, err := h.Service.Update(c.Request.Context(), c.Param("id"), req.Patch())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos.NewApplicationResponse(*app))
}

// Delete is DELETE /applications/:id
func (h *ApplicationHandler) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Stats is GET /applications/stats
func (h *ApplicationHandler) Stats(c *gin.Context) {
	st, err := h.Service.Stats(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *ApplicationHandler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Errorw("Request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.JSON(status, dtos.ErrorResponse{Message: "Internal server error"})
		return
	}
	c.JSON(status, dtos.ErrorResponse{Message: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.IsValidation(err):
		return http.StatusBadRequest
	case errors.IsNotFound(err):
		return http.StatusNotFound
	}
	var se *errors.ServerError
	if errors.As(err, &se) {
		return se.Status
	}
	return http.StatusInternalServerError
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, dtos.ErrorResponse{Message: msg})
}
