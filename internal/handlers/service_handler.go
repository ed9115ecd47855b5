package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/NovaClinicas/clinic-scheduler/internal/middleware"
	"github.com/NovaClinicas/clinic-scheduler/internal/models"
)

// ServiceHandler manages the service catalog and each doctor's offering
// links (duration/price overrides). Master-data plumbing for the booking
// engine, no algorithmic content.
type ServiceHandler struct {
	db *gorm.DB
}

func NewServiceHandler(db *gorm.DB) *ServiceHandler {
	return &ServiceHandler{db: db}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name               string  `json:"name" binding:"required"`
	Description        string  `json:"description"`
	DefaultDurationMin int     `json:"default_duration_min" binding:"required,min=1"`
	DefaultPrice       float64 `json:"default_price" binding:"required"`
	Category           string  `json:"category"`
}

type UpdateServiceRequest struct {
	Name               *string  `json:"name,omitempty"`
	Description        *string  `json:"description,omitempty"`
	DefaultDurationMin *int     `json:"default_duration_min,omitempty"`
	DefaultPrice       *float64 `json:"default_price,omitempty"`
	Active             *bool    `json:"active,omitempty"`
}

type UpsertDoctorServiceRequest struct {
	ServiceID         uint     `json:"service_id" binding:"required"`
	CustomDurationMin *int     `json:"custom_duration_min,omitempty"`
	CustomPrice       *float64 `json:"custom_price,omitempty"`
	Active            *bool    `json:"active,omitempty"`
}

// --------- Catalog ---------

func (h *ServiceHandler) List(c *gin.Context) {
	category := strings.ToLower(strings.TrimSpace(c.Query("category")))
	activeStr := strings.TrimSpace(c.Query("active"))
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.Model(&models.Service{})

	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}

	if activeStr == "true" {
		q = q.Where("active = ?", true)
	} else if activeStr == "false" {
		q = q.Where("active = ?", false)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_services"})
		return
	}

	c.JSON(http.StatusOK, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	service := models.Service{
		Name:               req.Name,
		Description:        req.Description,
		DefaultDurationMin: req.DefaultDurationMin,
		DefaultPrice:       req.DefaultPrice,
		Active:             true,
		Category:           strings.ToLower(req.Category),
	}

	if err := h.db.Create(&service).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_service"})
		return
	}

	c.JSON(http.StatusCreated, service)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var service models.Service
	if err := h.db.First(&service, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "service_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_service"})
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if req.Name != nil {
		service.Name = *req.Name
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.DefaultDurationMin != nil {
		service.DefaultDurationMin = *req.DefaultDurationMin
	}
	if req.DefaultPrice != nil {
		service.DefaultPrice = *req.DefaultPrice
	}
	if req.Active != nil {
		service.Active = *req.Active
	}

	if err := h.db.Save(&service).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_service"})
		return
	}

	c.JSON(http.StatusOK, service)
}

// --------- Doctor offerings ---------

func (h *ServiceHandler) ListMyOfferings(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextUserID).(uint)

	var links []models.DoctorService
	if err := h.db.
		Where("doctor_id = ?", doctorID).
		Order("service_id ASC").
		Find(&links).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_offerings"})
		return
	}

	c.JSON(http.StatusOK, links)
}

func (h *ServiceHandler) UpsertMyOffering(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextUserID).(uint)

	var req UpsertDoctorServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	var service models.Service
	if err := h.db.First(&service, req.ServiceID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "service_not_found"})
		return
	}

	var link models.DoctorService
	err := h.db.
		Where("doctor_id = ? AND service_id = ?", doctorID, req.ServiceID).
		First(&link).Error

	if err == gorm.ErrRecordNotFound {
		link = models.DoctorService{
			DoctorID:  doctorID,
			ServiceID: req.ServiceID,
			Active:    true,
		}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_offering"})
		return
	}

	link.CustomDurationMin = req.CustomDurationMin
	link.CustomPrice = req.CustomPrice
	if req.Active != nil {
		link.Active = *req.Active
	}

	if err := h.db.Save(&link).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_save_offering"})
		return
	}

	c.JSON(http.StatusOK, link)
}
