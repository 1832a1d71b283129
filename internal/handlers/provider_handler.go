package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clinicdesk/booking-api/internal/httperr"
	"github.com/clinicdesk/booking-api/internal/middleware"
	"github.com/clinicdesk/booking-api/internal/models"
	"github.com/clinicdesk/booking-api/internal/timezone"
)

type ProviderHandler struct {
	db *gorm.DB
}

func NewProviderHandler(db *gorm.DB) *ProviderHandler {
	return &ProviderHandler{db: db}
}

type CreateProviderRequest struct {
	Name      string `json:"name" binding:"required"`
	Specialty string `json:"specialty"`
	Timezone  string `json:"timezone"`
}

type UpdateProviderRequest struct {
	Name      *string `json:"name"`
	Specialty *string `json:"specialty"`
	Timezone  *string `json:"timezone"`
	Active    *bool   `json:"active"`
}

func (h *ProviderHandler) List(c *gin.Context) {
	clinicIDVal, _ := c.Get(middleware.ContextClinicID)
	clinicID := clinicIDVal.(uint)

	var providers []models.Provider
	if err := h.db.
		Where("clinic_id = ?", clinicID).
		Order("name ASC").
		Find(&providers).Error; err != nil {

		httperr.Internal(c, "failed_to_list_providers", "Failed to list providers.")
		return
	}

	c.JSON(http.StatusOK, providers)
}

func (h *ProviderHandler) Create(c *gin.Context) {
	clinicIDVal, _ := c.Get(middleware.ContextClinicID)
	clinicID := clinicIDVal.(uint)

	var req CreateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if req.Timezone != "" && !timezone.IsValid(req.Timezone) {
		httperr.BadRequest(c, "invalid_timezone", "Unknown timezone name.")
		return
	}

	provider := models.Provider{
		ClinicID:  clinicID,
		Name:      req.Name,
		Specialty: req.Specialty,
		Timezone:  req.Timezone,
		Active:    true,
	}

	if err := h.db.Create(&provider).Error; err != nil {
		httperr.Internal(c, "failed_to_create_provider", "Failed to create provider.")
		return
	}

	c.JSON(http.StatusCreated, provider)
}

func (h *ProviderHandler) Update(c *gin.Context) {
	clinicIDVal, _ := c.Get(middleware.ContextClinicID)
	clinicID := clinicIDVal.(uint)
	id := c.Param("id")

	var provider models.Provider
	if err := h.db.
		Where("id = ? AND clinic_id = ?", id, clinicID).
		First(&provider).Error; err != nil {

		httperr.NotFound(c, "provider_not_found", "Provider not found.")
		return
	}

	var req UpdateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if req.Name != nil {
		provider.Name = *req.Name
	}
	if req.Specialty != nil {
		provider.Specialty = *req.Specialty
	}
	if req.Timezone != nil {
		if *req.Timezone != "" && !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Unknown timezone name.")
			return
		}
		provider.Timezone = *req.Timezone
	}
	if req.Active != nil {
		provider.Active = *req.Active
	}

	if err := h.db.Save(&provider).Error; err != nil {
		httperr.Internal(c, "failed_to_update_provider", "Failed to update provider.")
		return
	}

	c.JSON(http.StatusOK, provider)
}
