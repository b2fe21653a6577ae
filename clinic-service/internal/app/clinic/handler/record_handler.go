package handler

import (
	"errors"
	"net/http"

	"dentalcare/clinic-service/internal/app/clinic/entity"
	"dentalcare/clinic-service/internal/app/clinic/service"

	"github.com/gin-gonic/gin"
)

// RecordHandler обрабатывает HTTP запросы для медицинских карт
type RecordHandler struct {
	recordService service.RecordServiceInterface
}

// NewRecordHandler создает новый обработчик медкарт
func NewRecordHandler(recordService service.RecordServiceInterface) *RecordHandler {
	return &RecordHandler{recordService: recordService}
}

// Create обрабатывает POST /api/records (врач и админ)
func (h *RecordHandler) Create(c *gin.Context) {
	var req entity.CreatePatientRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "message": err.Error()})
		return
	}

	if err := validate.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "message": err.Error()})
		return
	}

	record, err := h.recordService.Create(c.Request.Context(), c.GetString("username"), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create patient record"})
		return
	}

	c.JSON(http.StatusCreated, record)
}

// GetByPatient обрабатывает GET /api/records/:username
// Пациент видит только свою карту
func (h *RecordHandler) GetByPatient(c *gin.Context) {
	records, err := h.recordService.GetByPatient(
		c.Request.Context(),
		c.Param("username"),
		c.GetString("username"),
		c.GetString("role"),
	)
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get patient records"})
		return
	}

	c.JSON(http.StatusOK, records)
}

// Update обрабатывает PUT /api/records/:id (автор записи и админ)
func (h *RecordHandler) Update(c *gin.Context) {
	var req entity.CreatePatientRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "message": err.Error()})
		return
	}

	if err := validate.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "message": err.Error()})
		return
	}

	record, err := h.recordService.Update(
		c.Request.Context(),
		c.Param("id"),
		c.GetString("username"),
		c.GetString("role"),
		&req,
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Patient record not found"})
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update patient record"})
		}
		return
	}

	c.JSON(http.StatusOK, record)
}

// Delete обрабатывает DELETE /api/records/:id (только админ)
func (h *RecordHandler) Delete(c *gin.Context) {
	if err := h.recordService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Patient record not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete patient record"})
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Patient record deleted"})
}
