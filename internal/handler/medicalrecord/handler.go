package medicalrecord

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

type Service interface {
	CreateMedicalRecord(ctx context.Context, req model.CreateMedicalRecordRequest) (*model.MedicalRecord, error)
	GetMedicalRecord(ctx context.Context, id int) (*model.MedicalRecord, error)
	GetByPatient(ctx context.Context, patientID int) (*model.MedicalRecord, error)
	UpdateMedicalRecord(ctx context.Context, id int, req model.UpdateMedicalRecordRequest) (*model.MedicalRecord, error)
	AddClinicalEntry(ctx context.Context, req model.CreateClinicalEntryRequest) (*model.ClinicalEntry, error)
	GetClinicalEntriesByRecord(ctx context.Context, recordID int) ([]model.ClinicalEntry, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	records := r.Group("/medical-records")
	{
		records.POST("", h.CreateMedicalRecord)
		records.POST("/clinical-entry", h.AddClinicalEntry)
		records.GET("/patient/:patientId", h.GetByPatient)
		records.GET("/:id", h.GetMedicalRecord)
		records.PUT("/:id", h.UpdateMedicalRecord)
		records.GET("/:id/clinical-entries", h.ListClinicalEntries)
	}
}

func (h *Handler) CreateMedicalRecord(c *gin.Context) {
	var req model.CreateMedicalRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	record, err := h.service.CreateMedicalRecord(c.Request.Context(), req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

func (h *Handler) GetMedicalRecord(c *gin.Context) {
	id, ok := httputil.IDParam(c, "id", "medical record")
	if !ok {
		return
	}

	record, err := h.service.GetMedicalRecord(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if record == nil {
		httputil.RespondNotFound(c, "medical record")
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *Handler) GetByPatient(c *gin.Context) {
	patientID, ok := httputil.IDParam(c, "patientId", "patient")
	if !ok {
		return
	}

	record, err := h.service.GetByPatient(c.Request.Context(), patientID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if record == nil {
		httputil.RespondNotFound(c, "medical record")
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *Handler) UpdateMedicalRecord(c *gin.Context) {
	id, ok := httputil.IDParam(c, "id", "medical record")
	if !ok {
		return
	}

	var req model.UpdateMedicalRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	record, err := h.service.UpdateMedicalRecord(c.Request.Context(), id, req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if record == nil {
		httputil.RespondNotFound(c, "medical record")
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *Handler) AddClinicalEntry(c *gin.Context) {
	var req model.CreateClinicalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	entry, err := h.service.AddClinicalEntry(c.Request.Context(), req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (h *Handler) ListClinicalEntries(c *gin.Context) {
	id, ok := httputil.IDParam(c, "id", "medical record")
	if !ok {
		return
	}

	entries, err := h.service.GetClinicalEntriesByRecord(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondList(c, entries)
}
