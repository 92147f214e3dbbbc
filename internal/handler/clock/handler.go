package clock

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

// Clock is the part of clock.Simulated the endpoints drive.
type Clock interface {
	Now() time.Time
	Today() time.Time
	TimeOfDay() string
	Advance(d time.Duration) time.Time
}

type Handler struct {
	clock Clock
}

func NewHandler(clock Clock) *Handler {
	return &Handler{clock: clock}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	clock := r.Group("/clock")
	{
		clock.GET("", h.GetClock)
		clock.POST("/advance", h.Advance)
	}
}

func (h *Handler) GetClock(c *gin.Context) {
	c.JSON(http.StatusOK, h.snapshot())
}

func (h *Handler) Advance(c *gin.Context) {
	var req model.AdvanceClockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	d, err := time.ParseDuration(req.Duration)
	if err != nil || d <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, httputil.NewErrorResponse("duration must be a positive Go duration such as 90m or 24h"))
		return
	}

	now := h.clock.Advance(d)
	log.Info().Dur("by", d).Time("now", now).Msg("Simulated clock advanced")

	c.JSON(http.StatusOK, h.snapshot())
}

func (h *Handler) snapshot() model.ClockResponse {
	return model.ClockResponse{
		Now:       h.clock.Now(),
		Today:     h.clock.Today().Format("2006-01-02"),
		TimeOfDay: h.clock.TimeOfDay(),
		Simulated: true,
	}
}
