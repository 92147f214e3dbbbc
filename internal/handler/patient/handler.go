package patient

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

type Service interface {
	CreatePatient(ctx context.Context, req model.CreatePatientRequest) (*model.Patient, error)
	GetPatient(ctx context.Context, id int) (*model.Patient, error)
	ListPatients(ctx context.Context) ([]*model.Patient, error)
	UpdatePatient(ctx context.Context, id int, req model.UpdatePatientRequest) (*model.Patient, error)
	DeletePatient(ctx context.Context, id int) error
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.POST("", h.CreatePatient)
		patients.GET("", h.ListPatients)
		patients.GET("/:id", h.GetPatient)
		patients.PUT("/:id", h.UpdatePatient)
		patients.DELETE("/:id", h.DeletePatient)
	}
}

func (h *Handler) CreatePatient(c *gin.Context) {
	var req model.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	patient, err := h.service.CreatePatient(c.Request.Context(), req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, patient)
}

func (h *Handler) GetPatient(c *gin.Context) {
	id, ok := httputil.IDParam(c, "id", "patient")
	if !ok {
		return
	}

	patient, err := h.service.GetPatient(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if patient == nil {
		httputil.RespondNotFound(c, "patient")
		return
	}

	c.JSON(http.StatusOK, patient)
}

func (h *Handler) ListPatients(c *gin.Context) {
	patients, err := h.service.ListPatients(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondList(c, patients)
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	id, ok := httputil.IDParam(c, "id", "patient")
	if !ok {
		return
	}

	var req model.UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	patient, err := h.service.UpdatePatient(c.Request.Context(), id, req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if patient == nil {
		httputil.RespondNotFound(c, "patient")
		return
	}

	c.JSON(http.StatusOK, patient)
}

// DeletePatient removes the patient together with their clinical and billing history.
func (h *Handler) DeletePatient(c *gin.Context) {
	id, ok := httputil.IDParam(c, "id", "patient")
	if !ok {
		return
	}

	if err := h.service.DeletePatient(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
