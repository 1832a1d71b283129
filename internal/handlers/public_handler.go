package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clinicdesk/booking-api/internal/httperr"
	"github.com/clinicdesk/booking-api/internal/models"
	ucBooking "github.com/clinicdesk/booking-api/internal/usecase/booking"
	ucSchedule "github.com/clinicdesk/booking-api/internal/usecase/schedule"
)

// ======================================================
// HANDLER
// ======================================================

// PublicHandler serves the patient-facing endpoints. No auth: the
// booking form on the website talks straight to these.
type PublicHandler struct {
	db        *gorm.DB
	listUC    *ucSchedule.ListSlots
	bookingUC *ucBooking.CreateBooking
}

func NewPublicHandler(
	db *gorm.DB,
	listUC *ucSchedule.ListSlots,
	bookingUC *ucBooking.CreateBooking,
) *PublicHandler {
	return &PublicHandler{
		db:        db,
		listUC:    listUC,
		bookingUC: bookingUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type PublicBookingRequest struct {
	SlotID *uint `json:"slot_id"`

	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"date_of_birth"`

	PreferredDate string `json:"preferred_date"`
	PreferredTime string `json:"preferred_time"`

	ReasonForVisit     string `json:"reason_for_visit"`
	PreviousTreatment  string `json:"previous_treatment"`
	CurrentMedications string `json:"current_medications"`
	InsuranceProvider  string `json:"insurance_provider"`
	EmergencyContact   string `json:"emergency_contact"`
	EmergencyPhone     string `json:"emergency_phone"`

	ConsentAccepted bool `json:"consent_accepted"`
}

// ======================================================
// PROVIDERS
// ======================================================

func (h *PublicHandler) ListProviders(c *gin.Context) {
	var providers []models.Provider
	if err := h.db.
		Where("active = ?", true).
		Order("name ASC").
		Find(&providers).Error; err != nil {

		httperr.Internal(c, "failed_to_list_providers", "Failed to list providers.")
		return
	}

	out := make([]gin.H, 0, len(providers))
	for _, p := range providers {
		out = append(out, gin.H{
			"id":        p.ID,
			"name":      p.Name,
			"specialty": p.Specialty,
		})
	}

	c.JSON(http.StatusOK, out)
}

// ======================================================
// AVAILABLE SLOTS
// ======================================================

func (h *PublicHandler) ListAvailableSlots(c *gin.Context) {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		httperr.BadRequest(c, "missing_range", "Both from and to dates are required.")
		return
	}

	var clinic models.Clinic
	if err := h.db.First(&clinic).Error; err != nil {
		httperr.Internal(c, "clinic_not_found", "Clinic not found.")
		return
	}

	from, err := parseDateInClinic(&clinic, fromStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid from date.")
		return
	}
	to, err := parseDateInClinic(&clinic, toStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid to date.")
		return
	}
	to = to.Add(24*time.Hour - time.Second)

	var providerID *uint
	if pidStr := c.Query("provider_id"); pidStr != "" {
		pid, err := strconv.ParseUint(pidStr, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_provider_id", "Invalid provider id.")
			return
		}
		p := uint(pid)
		providerID = &p
	}

	slots, err := h.listUC.Execute(c.Request.Context(), providerID, from, to, true)
	if err != nil {
		httperr.Internal(c, "failed_to_list_slots", "Failed to list available times.")
		return
	}

	c.JSON(http.StatusOK, slots)
}

// ======================================================
// BOOKING
// ======================================================

func (h *PublicHandler) CreateBooking(c *gin.Context) {
	var req PublicBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	b, err := h.bookingUC.Execute(c.Request.Context(), ucBooking.CreateBookingInput{
		SlotID:             req.SlotID,
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Email:              req.Email,
		Phone:              req.Phone,
		DateOfBirth:        req.DateOfBirth,
		PreferredDate:      req.PreferredDate,
		PreferredTime:      req.PreferredTime,
		ReasonForVisit:     req.ReasonForVisit,
		PreviousTreatment:  req.PreviousTreatment,
		CurrentMedications: req.CurrentMedications,
		InsuranceProvider:  req.InsuranceProvider,
		EmergencyContact:   req.EmergencyContact,
		EmergencyPhone:     req.EmergencyPhone,
		ConsentAccepted:    req.ConsentAccepted,
	})
	if err != nil {
		var vErr ucBooking.ValidationError
		if errors.As(err, &vErr) {
			httperr.Validation(c, vErr.Fields)
			return
		}
		switch httperr.BusinessCode(err) {
		case "slot_not_found":
			httperr.NotFound(c, "slot_not_found", "That time is no longer offered.")
		case "slot_unavailable":
			httperr.Conflict(c, "slot_unavailable", "That slot was just taken. Please pick another time.")
		case "too_soon":
			httperr.BadRequest(c, "too_soon", "This time is too close. Please call the clinic directly.")
		default:
			httperr.Internal(c, "failed_to_create_booking", "Failed to create booking.")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"reference":      b.Reference,
		"status":         b.Status,
		"preferred_date": b.PreferredDate,
		"preferred_time": b.PreferredTime,
	})
}

// GetBooking looks a booking up by its public reference. The reference
// is an unguessable UUID, so no further auth is required.
func (h *PublicHandler) GetBooking(c *gin.Context) {
	reference := c.Param("reference")

	var b models.Booking
	if err := h.db.
		Preload("AvailabilitySlot").
		Where("reference = ?", reference).
		First(&b).Error; err != nil {

		httperr.NotFound(c, "booking_not_found", "Booking not found.")
		return
	}

	out := gin.H{
		"reference":      b.Reference,
		"first_name":     b.FirstName,
		"status":         b.Status,
		"preferred_date": b.PreferredDate,
		"preferred_time": b.PreferredTime,
		"created_at":     b.CreatedAt,
	}
	if b.AvailabilitySlot != nil {
		out["slot"] = gin.H{
			"start_time":       b.AvailabilitySlot.StartTime,
			"end_time":         b.AvailabilitySlot.EndTime,
			"appointment_type": b.AvailabilitySlot.AppointmentType,
		}
	}

	c.JSON(http.StatusOK, out)
}
