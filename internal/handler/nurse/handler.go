package nurse

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

type Service interface {
	CreateNurse(ctx context.Context, req model.CreateNurseRequest) (*model.Nurse, error)
	GetNurse(ctx context.Context, id int) (*model.Nurse, error)
	ListNurses(ctx context.Context) ([]*model.Nurse, error)
	ListByDepartment(ctx context.Context, departmentID int) ([]*model.Nurse, error)
	UpdateNurse(ctx context.Context, id int, req model.UpdateNurseRequest) (*model.Nurse, error)
	DeleteNurse(ctx context.Context, id int) error
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	nurses := r.Group("/nurses")
	{
		nurses.POST("", h.CreateNurse)
		nurses.GET("", h.ListNurses)
		nurses.GET("/department/:departmentId", h.ListByDepartment)
		nurses.GET("/:id", h.GetNurse)
		nurses.PUT("/:id", h.UpdateNurse)
		nurses.DELETE("/:id", h.DeleteNurse)
	}
}

func (h *Handler) CreateNurse(c *gin.Context) {
	var req model.CreateNurseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	nurse, err := h.service.CreateNurse(c.Request.Context(), req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, nurse)
}

func (h *Handler) GetNurse(c *gin.Context) {
	id, ok := httputil.IDParam(c, "id", "nurse")
	if !ok {
		return
	}

	nurse, err := h.service.GetNurse(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if nurse == nil {
		httputil.RespondNotFound(c, "nurse")
		return
	}

	c.JSON(http.StatusOK, nurse)
}

func (h *Handler) ListNurses(c *gin.Context) {
	nurses, err := h.service.ListNurses(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondList(c, nurses)
}

func (h *Handler) ListByDepartment(c *gin.Context) {
	departmentID, ok := httputil.IDParam(c, "departmentId", "department")
	if !ok {
		return
	}

	nurses, err := h.service.ListByDepartment(c.Request.Context(), departmentID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondList(c, nurses)
}

func (h *Handler) UpdateNurse(c *gin.Context) {
	id, ok := httputil.IDParam(c, "id", "nurse")
	if !ok {
		return
	}

	var req model.UpdateNurseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	nurse, err := h.service.UpdateNurse(c.Request.Context(), id, req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if nurse == nil {
		httputil.RespondNotFound(c, "nurse")
		return
	}

	c.JSON(http.StatusOK, nurse)
}

func (h *Handler) DeleteNurse(c *gin.Context) {
	id, ok := httputil.IDParam(c, "id", "nurse")
	if !ok {
		return
	}

	if err := h.service.DeleteNurse(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
