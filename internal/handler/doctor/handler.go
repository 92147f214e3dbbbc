package doctor

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

type Service interface {
	CreateDoctor(ctx context.Context, req model.CreateDoctorRequest) (*model.Doctor, error)
	GetDoctor(ctx context.Context, id int) (*model.Doctor, error)
	ListDoctors(ctx context.Context) ([]*model.Doctor, error)
	ListByDepartment(ctx context.Context, departmentID int) ([]*model.Doctor, error)
	UpdateDoctor(ctx context.Context, id int, req model.UpdateDoctorRequest) (*model.Doctor, error)
	DeleteDoctor(ctx context.Context, id int) error
	CheckAvailability(ctx context.Context, id int, t time.Time) (*model.AvailabilityResponse, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	doctors := r.Group("/doctors")
	{
		doctors.POST("", h.CreateDoctor)
		doctors.GET("", h.ListDoctors)
		doctors.GET("/department/:departmentId", h.ListByDepartment)
		doctors.GET("/:id", h.GetDoctor)
		doctors.GET("/:id/availability", h.CheckAvailability)
		doctors.PUT("/:id", h.UpdateDoctor)
		doctors.DELETE("/:id", h.DeleteDoctor)
	}
}

func (h *Handler) CreateDoctor(c *gin.Context) {
	var req model.CreateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	doctor, err := h.service.CreateDoctor(c.Request.Context(), req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, doctor)
}

func (h *Handler) GetDoctor(c *gin.Context) {
	id, ok := httputil.IDParam(c, "id", "doctor")
	if !ok {
		return
	}

	doctor, err := h.service.GetDoctor(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if doctor == nil {
		httputil.RespondNotFound(c, "doctor")
		return
	}

	c.JSON(http.StatusOK, doctor)
}

func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.service.ListDoctors(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondList(c, doctors)
}

func (h *Handler) ListByDepartment(c *gin.Context) {
	departmentID, ok := httputil.IDParam(c, "departmentId", "department")
	if !ok {
		return
	}

	doctors, err := h.service.ListByDepartment(c.Request.Context(), departmentID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondList(c, doctors)
}

func (h *Handler) CheckAvailability(c *gin.Context) {
	id, ok := httputil.IDParam(c, "id", "doctor")
	if !ok {
		return
	}
	at, ok := httputil.TimeQuery(c, "time")
	if !ok {
		return
	}

	availability, err := h.service.CheckAvailability(c.Request.Context(), id, at)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, availability)
}

func (h *Handler) UpdateDoctor(c *gin.Context) {
	id, ok := httputil.IDParam(c, "id", "doctor")
	if !ok {
		return
	}

	var req model.UpdateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	doctor, err := h.service.UpdateDoctor(c.Request.Context(), id, req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if doctor == nil {
		httputil.RespondNotFound(c, "doctor")
		return
	}

	c.JSON(http.StatusOK, doctor)
}

func (h *Handler) DeleteDoctor(c *gin.Context) {
	id, ok := httputil.IDParam(c, "id", "doctor")
	if !ok {
		return
	}

	if err := h.service.DeleteDoctor(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
