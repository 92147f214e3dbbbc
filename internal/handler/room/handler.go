package room

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

type Service interface {
	CreateRoom(ctx context.Context, req model.CreateRoomRequest) (*model.Room, error)
	GetRoom(ctx context.Context, id int) (*model.Room, error)
	ListRooms(ctx context.Context) ([]*model.Room, error)
	ListByDepartment(ctx context.Context, departmentID int) ([]*model.Room, error)
	UpdateRoom(ctx context.Context, id int, req model.UpdateRoomRequest) (*model.Room, error)
	DeleteRoom(ctx context.Context, id int) error
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	rooms := r.Group("/rooms")
	{
		rooms.POST("", h.CreateRoom)
		rooms.GET("", h.ListRooms)
		rooms.GET("/department/:departmentId", h.ListByDepartment)
		rooms.GET("/:id", h.GetRoom)
		rooms.PUT("/:id", h.UpdateRoom)
		rooms.DELETE("/:id", h.DeleteRoom)
	}
}

func (h *Handler) CreateRoom(c *gin.Context) {
	var req model.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	room, err := h.service.CreateRoom(c.Request.Context(), req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, room)
}

func (h *Handler) GetRoom(c *gin.Context) {
	id, ok := httputil.IDParam(c, "id", "room")
	if !ok {
		return
	}

	room, err := h.service.GetRoom(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if room == nil {
		httputil.RespondNotFound(c, "room")
		return
	}

	c.JSON(http.StatusOK, room)
}

func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := h.service.ListRooms(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondList(c, rooms)
}

func (h *Handler) ListByDepartment(c *gin.Context) {
	departmentID, ok := httputil.IDParam(c, "departmentId", "department")
	if !ok {
		return
	}

	rooms, err := h.service.ListByDepartment(c.Request.Context(), departmentID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondList(c, rooms)
}

func (h *Handler) UpdateRoom(c *gin.Context) {
	id, ok := httputil.IDParam(c, "id", "room")
	if !ok {
		return
	}

	var req model.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	room, err := h.service.UpdateRoom(c.Request.Context(), id, req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if room == nil {
		httputil.RespondNotFound(c, "room")
		return
	}

	c.JSON(http.StatusOK, room)
}

func (h *Handler) DeleteRoom(c *gin.Context) {
	id, ok := httputil.IDParam(c, "id", "room")
	if !ok {
		return
	}

	if err := h.service.DeleteRoom(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
