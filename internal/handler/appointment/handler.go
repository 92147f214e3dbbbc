package appointment

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

type Service interface {
	CreateAppointment(ctx context.Context, req model.CreateAppointmentRequest) (*model.Appointment, error)
	CheckAvailability(ctx context.Context, doctorID int, t time.Time) (bool, error)
	GetAppointment(ctx context.Context, id int) (*model.Appointment, error)
	ListAppointments(ctx context.Context) ([]*model.Appointment, error)
	ListByPatient(ctx context.Context, patientID int) ([]*model.Appointment, error)
	ListByDoctor(ctx context.Context, doctorID int) ([]*model.Appointment, error)
	UpdateAppointment(ctx context.Context, id int, req model.UpdateAppointmentRequest) (*model.Appointment, error)
	CancelAppointment(ctx context.Context, id int) error
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.CreateAppointment)
		appointments.GET("", h.ListAppointments)
		appointments.GET("/check-availability", h.CheckAvailability)
		appointments.GET("/patient/:patientId", h.ListByPatient)
		appointments.GET("/doctor/:doctorId", h.ListByDoctor)
		appointments.GET("/:id", h.GetAppointment)
		appointments.PUT("/:id", h.UpdateAppointment)
		appointments.DELETE("/:id", h.CancelAppointment)
	}
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	appointment, err := h.service.CreateAppointment(c.Request.Context(), req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, appointment)
}

func (h *Handler) CheckAvailability(c *gin.Context) {
	doctorID, ok := httputil.IDQuery(c, "doctorId", "doctor")
	if !ok {
		return
	}
	at, ok := httputil.TimeQuery(c, "appointmentTime")
	if !ok {
		return
	}

	available, err := h.service.CheckAvailability(c.Request.Context(), doctorID, at)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"available": available})
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, ok := httputil.IDParam(c, "id", "appointment")
	if !ok {
		return
	}

	appointment, err := h.service.GetAppointment(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if appointment == nil {
		httputil.RespondNotFound(c, "appointment")
		return
	}

	c.JSON(http.StatusOK, appointment)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	appointments, err := h.service.ListAppointments(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondList(c, appointments)
}

func (h *Handler) ListByPatient(c *gin.Context) {
	patientID, ok := httputil.IDParam(c, "patientId", "patient")
	if !ok {
		return
	}

	appointments, err := h.service.ListByPatient(c.Request.Context(), patientID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondList(c, appointments)
}

func (h *Handler) ListByDoctor(c *gin.Context) {
	doctorID, ok := httputil.IDParam(c, "doctorId", "doctor")
	if !ok {
		return
	}

	appointments, err := h.service.ListByDoctor(c.Request.Context(), doctorID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondList(c, appointments)
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	id, ok := httputil.IDParam(c, "id", "appointment")
	if !ok {
		return
	}

	var req model.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	appointment, err := h.service.UpdateAppointment(c.Request.Context(), id, req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if appointment == nil {
		httputil.RespondNotFound(c, "appointment")
		return
	}

	c.JSON(http.StatusOK, appointment)
}

// CancelAppointment marks the appointment Cancelled; the row is kept.
func (h *Handler) CancelAppointment(c *gin.Context) {
	id, ok := httputil.IDParam(c, "id", "appointment")
	if !ok {
		return
	}

	if err := h.service.CancelAppointment(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
