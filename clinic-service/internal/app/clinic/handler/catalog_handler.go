package handler

import (
	"errors"
	"net/http"

	"dentalcare/clinic-service/internal/app/clinic/entity"
	"dentalcare/clinic-service/internal/app/clinic/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CatalogHandler обрабатывает HTTP запросы для справочников врачей и услуг
type CatalogHandler struct {
	catalogService service.CatalogServiceInterface
}

// NewCatalogHandler создает новый обработчик справочников
func NewCatalogHandler(catalogService service.CatalogServiceInterface) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// CreateDentist обрабатывает POST /api/dentists (только админ)
func (h *CatalogHandler) CreateDentist(c *gin.Context) {
	var req entity.CreateDentistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "message": err.Error()})
		return
	}

	if err := validate.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "message": err.Error()})
		return
	}

	dentist, err := h.catalogService.CreateDentist(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrDentistExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "Dentist already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create dentist"})
		return
	}

	c.JSON(http.StatusCreated, dentist)
}

// GetDentist обрабатывает GET /api/dentists/:id (публичный)
func (h *CatalogHandler) GetDentist(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dentist ID"})
		return
	}

	dentist, err := h.catalogService.GetDentist(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrDentistNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Dentist not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get dentist"})
		return
	}

	c.JSON(http.StatusOK, dentist)
}

// ListDentists обрабатывает GET /api/dentists (публичный)
func (h *CatalogHandler) ListDentists(c *gin.Context) {
	dentists, err := h.catalogService.ListDentists(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list dentists"})
		return
	}

	c.JSON(http.StatusOK, dentists)
}

// UpdateDentist обрабатывает PUT /api/dentists/:id (только админ)
func (h *CatalogHandler) UpdateDentist(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dentist ID"})
		return
	}

	var req entity.UpdateDentistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "message": err.Error()})
		return
	}

	if err := validate.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "message": err.Error()})
		return
	}

	dentist, err := h.catalogService.UpdateDentist(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrDentistNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Dentist not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update dentist"})
		return
	}

	c.JSON(http.StatusOK, dentist)
}

// DeleteDentist обрабатывает DELETE /api/dentists/:id (только админ)
func (h *CatalogHandler) DeleteDentist(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dentist ID"})
		return
	}

	if err := h.catalogService.DeleteDentist(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrDentistNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Dentist not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete dentist"})
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Dentist deleted"})
}

// CreateService обрабатывает POST /api/services (только админ)
func (h *CatalogHandler) CreateService(c *gin.Context) {
	var req entity.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "message": err.Error()})
		return
	}

	if err := validate.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "message": err.Error()})
		return
	}

	svc, err := h.catalogService.CreateService(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrServiceExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "Service already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create service"})
		return
	}

	c.JSON(http.StatusCreated, svc)
}

// GetService обрабатывает GET /api/services/:id (публичный)
func (h *CatalogHandler) GetService(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service ID"})
		return
	}

	svc, err := h.catalogService.GetService(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrServiceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get service"})
		return
	}

	c.JSON(http.StatusOK, svc)
}

// ListServices обрабатывает GET /api/services (публичный, кешируется)
func (h *CatalogHandler) ListServices(c *gin.Context) {
	services, err := h.catalogService.ListServices(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list services"})
		return
	}

	c.JSON(http.StatusOK, services)
}

// UpdateService обрабатывает PUT /api/services/:id (только админ)
func (h *CatalogHandler) UpdateService(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service ID"})
		return
	}

	var req entity.UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "message": err.Error()})
		return
	}

	if err := validate.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "message": err.Error()})
		return
	}

	svc, err := h.catalogService.UpdateService(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrServiceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update service"})
		return
	}

	c.JSON(http.StatusOK, svc)
}

// DeleteService обрабатывает DELETE /api/services/:id (только админ)
func (h *CatalogHandler) DeleteService(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service ID"})
		return
	}

	if err := h.catalogService.DeleteService(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrServiceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete service"})
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Service deleted"})
}
