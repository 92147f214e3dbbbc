package invoice

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

type Service interface {
	GenerateInvoice(ctx context.Context, req model.CreateInvoiceRequest) (*model.Invoice, error)
	GetInvoice(ctx context.Context, id int) (*model.Invoice, error)
	ListInvoices(ctx context.Context) ([]*model.Invoice, error)
	ListInvoicesByPatient(ctx context.Context, patientID int) ([]*model.Invoice, error)
	UpdateInvoiceStatus(ctx context.Context, id int, status model.InvoiceStatus) (*model.Invoice, error)
	ProcessPayment(ctx context.Context, req model.ProcessPaymentRequest) (*model.Payment, error)
	GetPaymentsByInvoice(ctx context.Context, invoiceID int) ([]model.Payment, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	invoices := r.Group("/invoices")
	{
		invoices.POST("", h.GenerateInvoice)
		invoices.GET("", h.ListInvoices)
		invoices.POST("/payment", h.ProcessPayment)
		invoices.GET("/patient/:patientId", h.ListByPatient)
		invoices.GET("/:id", h.GetInvoice)
		invoices.PUT("/:id", h.UpdateStatus)
		invoices.GET("/:id/payments", h.ListPayments)
	}
}

func (h *Handler) GenerateInvoice(c *gin.Context) {
	var req model.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	invoice, err := h.service.GenerateInvoice(c.Request.Context(), req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, invoice)
}

func (h *Handler) GetInvoice(c *gin.Context) {
	id, ok := httputil.IDParam(c, "id", "invoice")
	if !ok {
		return
	}

	invoice, err := h.service.GetInvoice(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if invoice == nil {
		httputil.RespondNotFound(c, "invoice")
		return
	}

	c.JSON(http.StatusOK, invoice)
}

func (h *Handler) ListInvoices(c *gin.Context) {
	invoices, err := h.service.ListInvoices(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondList(c, invoices)
}

func (h *Handler) ListByPatient(c *gin.Context) {
	patientID, ok := httputil.IDParam(c, "patientId", "patient")
	if !ok {
		return
	}

	invoices, err := h.service.ListInvoicesByPatient(c.Request.Context(), patientID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondList(c, invoices)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := httputil.IDParam(c, "id", "invoice")
	if !ok {
		return
	}

	var req model.UpdateInvoiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	invoice, err := h.service.UpdateInvoiceStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if invoice == nil {
		httputil.RespondNotFound(c, "invoice")
		return
	}

	c.JSON(http.StatusOK, invoice)
}

func (h *Handler) ProcessPayment(c *gin.Context) {
	var req model.ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	payment, err := h.service.ProcessPayment(c.Request.Context(), req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, payment)
}

func (h *Handler) ListPayments(c *gin.Context) {
	id, ok := httputil.IDParam(c, "id", "invoice")
	if !ok {
		return
	}

	payments, err := h.service.GetPaymentsByInvoice(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondList(c, payments)
}
