package labresult

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

type Service interface {
	AddLabResult(ctx context.Context, req model.CreateLabResultRequest) (*model.LabResult, error)
	GetLabResult(ctx context.Context, id int) (*model.LabResult, error)
	ListLabResults(ctx context.Context) ([]*model.LabResult, error)
	ListByPatient(ctx context.Context, patientID int) ([]*model.LabResult, error)
	UpdateLabResult(ctx context.Context, id int, req model.UpdateLabResultRequest) (*model.LabResult, error)
	DeleteLabResult(ctx context.Context, id int) error
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	results := r.Group("/lab-results")
	{
		results.POST("", h.AddLabResult)
		results.GET("", h.ListLabResults)
		results.GET("/patient/:patientId", h.ListByPatient)
		results.GET("/:id", h.GetLabResult)
		results.PUT("/:id", h.UpdateLabResult)
		results.DELETE("/:id", h.DeleteLabResult)
	}
}

func (h *Handler) AddLabResult(c *gin.Context) {
	var req model.CreateLabResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	result, err := h.service.AddLabResult(c.Request.Context(), req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *Handler) GetLabResult(c *gin.Context) {
	id, ok := httputil.IDParam(c, "id", "lab result")
	if !ok {
		return
	}

	result, err := h.service.GetLabResult(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if result == nil {
		httputil.RespondNotFound(c, "lab result")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) ListLabResults(c *gin.Context) {
	results, err := h.service.ListLabResults(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondList(c, results)
}

func (h *Handler) ListByPatient(c *gin.Context) {
	patientID, ok := httputil.IDParam(c, "patientId", "patient")
	if !ok {
		return
	}

	results, err := h.service.ListByPatient(c.Request.Context(), patientID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondList(c, results)
}

func (h *Handler) UpdateLabResult(c *gin.Context) {
	id, ok := httputil.IDParam(c, "id", "lab result")
	if !ok {
		return
	}

	var req model.UpdateLabResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	result, err := h.service.UpdateLabResult(c.Request.Context(), id, req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if result == nil {
		httputil.RespondNotFound(c, "lab result")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) DeleteLabResult(c *gin.Context) {
	id, ok := httputil.IDParam(c, "id", "lab result")
	if !ok {
		return
	}

	if err := h.service.DeleteLabResult(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
