package user

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

type Service interface {
	GetUser(ctx context.Context, id int) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	SetActive(ctx context.Context, id int, active bool) (*model.User, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.GET("", h.ListUsers)
		users.GET("/:id", h.GetUser)
		users.PUT("/:id/active", h.SetActive)
	}
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondList(c, users)
}

func (h *Handler) GetUser(c *gin.Context) {
	id, ok := httputil.IDParam(c, "id", "user")
	if !ok {
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if user == nil {
		httputil.RespondNotFound(c, "user")
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *Handler) SetActive(c *gin.Context) {
	id, ok := httputil.IDParam(c, "id", "user")
	if !ok {
		return
	}

	var req model.SetUserActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	user, err := h.service.SetActive(c.Request.Context(), id, *req.IsActive)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if user == nil {
		httputil.RespondNotFound(c, "user")
		return
	}

	c.JSON(http.StatusOK, user)
}
