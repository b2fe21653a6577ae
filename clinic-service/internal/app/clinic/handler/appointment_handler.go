package handler

import (
	"errors"
	"net/http"
	"strconv"

	"dentalcare/clinic-service/internal/app/clinic/entity"
	"dentalcare/clinic-service/internal/app/clinic/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// AppointmentHandler обрабатывает HTTP запросы для записей на прием
type AppointmentHandler struct {
	appointmentService service.AppointmentServiceInterface
}

// NewAppointmentHandler создает новый обработчик приемов
func NewAppointmentHandler(appointmentService service.AppointmentServiceInterface) *AppointmentHandler {
	return &AppointmentHandler{appointmentService: appointmentService}
}

// Create обрабатывает POST /api/appointments
// Доступно регистратуре и админу
func (h *AppointmentHandler) Create(c *gin.Context) {
	var req entity.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "message": err.Error()})
		return
	}

	if err := validate.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "message": err.Error()})
		return
	}

	appointment, err := h.appointmentService.Create(c.Request.Context(), c.GetString("username"), &req, c.GetString("auth_token"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPatientNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Patient not found"})
		case errors.Is(err, service.ErrDentistNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Dentist not found"})
		case errors.Is(err, service.ErrServiceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create appointment"})
		}
		return
	}

	c.JSON(http.StatusCreated, appointment)
}

// GetByID обрабатывает GET /api/appointments/:id
func (h *AppointmentHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment ID"})
		return
	}

	appointment, err := h.appointmentService.GetByID(c.Request.Context(), id, c.GetString("username"), c.GetString("role"))
	if err != nil {
		respondAppointmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, appointment)
}

// ListMy обрабатывает GET /api/appointments/my
// Врач видит назначенные ему приемы, пациент - свои записи
func (h *AppointmentHandler) ListMy(c *gin.Context) {
	appointments, err := h.appointmentService.ListMy(c.Request.Context(), c.GetString("username"), c.GetString("role"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get appointments"})
		return
	}

	c.JSON(http.StatusOK, appointments)
}

// ListAll обрабатывает GET /api/appointments/all
// Доступно регистратуре и админу
func (h *AppointmentHandler) ListAll(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	appointments, err := h.appointmentService.ListAll(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list appointments"})
		return
	}

	c.JSON(http.StatusOK, appointments)
}

// Update обрабатывает PUT /api/appointments/:id
func (h *AppointmentHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment ID"})
		return
	}

	var req entity.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "message": err.Error()})
		return
	}

	if err := validate.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "message": err.Error()})
		return
	}

	appointment, err := h.appointmentService.Update(c.Request.Context(), id, c.GetString("username"), c.GetString("role"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDentistNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Dentist not found"})
		case errors.Is(err, service.ErrServiceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		default:
			respondAppointmentError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, appointment)
}

// Confirm обрабатывает POST /api/appointments/:id/confirm
// Доступно регистратуре и админу
func (h *AppointmentHandler) Confirm(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment ID"})
		return
	}

	appointment, err := h.appointmentService.Confirm(c.Request.Context(), id, c.GetString("auth_token"))
	if err != nil {
		respondAppointmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, appointment)
}

// Complete обрабатывает POST /api/appointments/:id/complete
// Доступно назначенному врачу и админу
func (h *AppointmentHandler) Complete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment ID"})
		return
	}

	appointment, err := h.appointmentService.Complete(c.Request.Context(), id, c.GetString("username"), c.GetString("role"))
	if err != nil {
		respondAppointmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, appointment)
}

// Cancel обрабатывает DELETE /api/appointments/:id
// Доступно владельцу записи и админу
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment ID"})
		return
	}

	if err := h.appointmentService.Cancel(c.Request.Context(), id, c.GetString("username"), c.GetString("role")); err != nil {
		respondAppointmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Appointment cancelled"})
}

// respondAppointmentError транслирует ошибки сервиса приемов в HTTP статусы
func respondAppointmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAppointmentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
	case errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "Invalid appointment status transition"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
