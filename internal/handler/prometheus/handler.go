package prometheus

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler serves one registry; the process default registry is never exposed.
type Handler struct {
	gatherer prometheus.Gatherer
}

func New(gatherer prometheus.Gatherer) *Handler {
	return &Handler{gatherer: gatherer}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/metrics", h.Metrics())
}

func (h *Handler) Metrics() gin.HandlerFunc {
	handler := promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})
	return gin.WrapH(handler)
}
