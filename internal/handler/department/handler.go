package department

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

type Service interface {
	CreateDepartment(ctx context.Context, req model.CreateDepartmentRequest) (*model.Department, error)
	GetDepartment(ctx context.Context, id int) (*model.Department, error)
	ListDepartments(ctx context.Context) ([]*model.Department, error)
	UpdateDepartment(ctx context.Context, id int, req model.UpdateDepartmentRequest) (*model.Department, error)
	Rooms(ctx context.Context, id int) ([]*model.Room, error)
	DeleteDepartment(ctx context.Context, id int) error
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	departments := r.Group("/departments")
	{
		departments.POST("", h.CreateDepartment)
		departments.GET("", h.ListDepartments)
		departments.GET("/:id", h.GetDepartment)
		departments.GET("/:id/rooms", h.ListRooms)
		departments.PUT("/:id", h.UpdateDepartment)
		departments.DELETE("/:id", h.DeleteDepartment)
	}
}

func (h *Handler) CreateDepartment(c *gin.Context) {
	var req model.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	department, err := h.service.CreateDepartment(c.Request.Context(), req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, department)
}

func (h *Handler) GetDepartment(c *gin.Context) {
	id, ok := httputil.IDParam(c, "id", "department")
	if !ok {
		return
	}

	department, err := h.service.GetDepartment(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if department == nil {
		httputil.RespondNotFound(c, "department")
		return
	}

	c.JSON(http.StatusOK, department)
}

func (h *Handler) ListDepartments(c *gin.Context) {
	departments, err := h.service.ListDepartments(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondList(c, departments)
}

func (h *Handler) ListRooms(c *gin.Context) {
	id, ok := httputil.IDParam(c, "id", "department")
	if !ok {
		return
	}

	rooms, err := h.service.Rooms(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondList(c, rooms)
}

func (h *Handler) UpdateDepartment(c *gin.Context) {
	id, ok := httputil.IDParam(c, "id", "department")
	if !ok {
		return
	}

	var req model.UpdateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	department, err := h.service.UpdateDepartment(c.Request.Context(), id, req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if department == nil {
		httputil.RespondNotFound(c, "department")
		return
	}

	c.JSON(http.StatusOK, department)
}

// DeleteDepartment also removes the department's staff, rooms and their dependents.
func (h *Handler) DeleteDepartment(c *gin.Context) {
	id, ok := httputil.IDParam(c, "id", "department")
	if !ok {
		return
	}

	if err := h.service.DeleteDepartment(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
