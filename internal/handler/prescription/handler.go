package prescription

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

type Service interface {
	CreatePrescription(ctx context.Context, req model.CreatePrescriptionRequest) (*model.Prescription, error)
	GetPrescription(ctx context.Context, id int) (*model.Prescription, error)
	ListPrescriptions(ctx context.Context) ([]*model.Prescription, error)
	ListByPatient(ctx context.Context, patientID int) ([]*model.Prescription, error)
	ListByDoctor(ctx context.Context, doctorID int) ([]*model.Prescription, error)
	UpdatePrescription(ctx context.Context, id int, req model.UpdatePrescriptionRequest) (*model.Prescription, error)
	DeletePrescription(ctx context.Context, id int) error
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	prescriptions := r.Group("/prescriptions")
	{
		prescriptions.POST("", h.CreatePrescription)
		prescriptions.GET("", h.ListPrescriptions)
		prescriptions.GET("/patient/:patientId", h.ListByPatient)
		prescriptions.GET("/doctor/:doctorId", h.ListByDoctor)
		prescriptions.GET("/:id", h.GetPrescription)
		prescriptions.PUT("/:id", h.UpdatePrescription)
		prescriptions.DELETE("/:id", h.DeletePrescription)
	}
}

func (h *Handler) CreatePrescription(c *gin.Context) {
	var req model.CreatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	prescription, err := h.service.CreatePrescription(c.Request.Context(), req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, prescription)
}

func (h *Handler) GetPrescription(c *gin.Context) {
	id, ok := httputil.IDParam(c, "id", "prescription")
	if !ok {
		return
	}

	prescription, err := h.service.GetPrescription(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if prescription == nil {
		httputil.RespondNotFound(c, "prescription")
		return
	}

	c.JSON(http.StatusOK, prescription)
}

func (h *Handler) ListPrescriptions(c *gin.Context) {
	prescriptions, err := h.service.ListPrescriptions(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondList(c, prescriptions)
}

func (h *Handler) ListByPatient(c *gin.Context) {
	patientID, ok := httputil.IDParam(c, "patientId", "patient")
	if !ok {
		return
	}

	prescriptions, err := h.service.ListByPatient(c.Request.Context(), patientID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondList(c, prescriptions)
}

func (h *Handler) ListByDoctor(c *gin.Context) {
	doctorID, ok := httputil.IDParam(c, "doctorId", "doctor")
	if !ok {
		return
	}

	prescriptions, err := h.service.ListByDoctor(c.Request.Context(), doctorID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondList(c, prescriptions)
}

func (h *Handler) UpdatePrescription(c *gin.Context) {
	id, ok := httputil.IDParam(c, "id", "prescription")
	if !ok {
		return
	}

	var req model.UpdatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	prescription, err := h.service.UpdatePrescription(c.Request.Context(), id, req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if prescription == nil {
		httputil.RespondNotFound(c, "prescription")
		return
	}

	c.JSON(http.StatusOK, prescription)
}

func (h *Handler) DeletePrescription(c *gin.Context) {
	id, ok := httputil.IDParam(c, "id", "prescription")
	if !ok {
		return
	}

	if err := h.service.DeletePrescription(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
