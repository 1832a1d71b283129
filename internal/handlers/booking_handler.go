package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clinicdesk/booking-api/internal/domain/scheduling"
	"github.com/clinicdesk/booking-api/internal/dto"
	"github.com/clinicdesk/booking-api/internal/httperr"
	"github.com/clinicdesk/booking-api/internal/httpresp"
	"github.com/clinicdesk/booking-api/internal/infra/cache"
	"github.com/clinicdesk/booking-api/internal/models"
	ucBooking "github.com/clinicdesk/booking-api/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	db           *gorm.DB
	cache        *cache.SlotCache
	listUC       *ucBooking.ListBookings
	transitionUC *ucBooking.TransitionBooking
	rescheduleUC *ucBooking.RescheduleBooking
}

func NewBookingHandler(
	db *gorm.DB,
	cache *cache.SlotCache,
	listUC *ucBooking.ListBookings,
	transitionUC *ucBooking.TransitionBooking,
	rescheduleUC *ucBooking.RescheduleBooking,
) *BookingHandler {
	return &BookingHandler{
		db:           db,
		cache:        cache,
		listUC:       listUC,
		transitionUC: transitionUC,
		rescheduleUC: rescheduleUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type UpdateBookingRequest struct {
	ReasonForVisit     *string `json:"reason_for_visit"`
	PreviousTreatment  *string `json:"previous_treatment"`
	CurrentMedications *string `json:"current_medications"`
	InsuranceProvider  *string `json:"insurance_provider"`
	EmergencyContact   *string `json:"emergency_contact"`
	EmergencyPhone     *string `json:"emergency_phone"`
	Phone              *string `json:"phone"`
}

type RescheduleBookingRequest struct {
	SlotID uint `json:"slot_id" binding:"required"`
}

// ======================================================
// LIST
// ======================================================

func (h *BookingHandler) List(c *gin.Context) {
	filter := scheduling.BookingFilter{
		Email:  c.Query("email"),
		Status: c.Query("status"),
		Search: c.Query("search"),
	}

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr != "" || toStr != "" {
		// Date bounds mean clinic days, not UTC days.
		var clinic *models.Clinic
		var stored models.Clinic
		if err := h.db.First(&stored).Error; err == nil {
			clinic = &stored
		}

		if fromStr != "" {
			if from, err := parseDateInClinic(clinic, fromStr); err == nil {
				filter.DateFrom = &from
			}
		}
		if toStr != "" {
			if to, err := parseDateInClinic(clinic, toStr); err == nil {
				// Half-open: everything before the next clinic day.
				end := to.Add(24 * time.Hour)
				filter.DateTo = &end
			}
		}
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	items, total, page, pageSize, err := h.listUC.Execute(
		c.Request.Context(),
		filter,
		page,
		pageSize,
	)
	if err != nil {
		httperr.Internal(c, "failed_to_list_bookings", "Failed to list bookings.")
		return
	}

	out := make([]dto.BookingListDTO, 0, len(items))
	for _, b := range items {
		out = append(out, dto.BookingListDTO{
			ID:            b.ID,
			Reference:     b.Reference,
			PatientName:   b.FirstName + " " + b.LastName,
			Email:         b.Email,
			Phone:         b.Phone,
			Status:        b.Status,
			PreferredDate: b.PreferredDate,
			PreferredTime: b.PreferredTime,
			SlotID:        b.AvailabilitySlotID,
			CreatedAt:     b.CreatedAt,
		})
	}

	httpresp.Paged(c, out, total, page, pageSize)
}

// ======================================================
// GET / UPDATE / DELETE
// ======================================================

func (h *BookingHandler) Get(c *gin.Context) {
	id := c.Param("id")

	var b models.Booking
	if err := h.db.
		Preload("AvailabilitySlot").
		Preload("AvailabilitySlot.Provider").
		First(&b, id).Error; err != nil {

		httperr.NotFound(c, "booking_not_found", "Booking not found.")
		return
	}

	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var b models.Booking
	if err := h.db.First(&b, id).Error; err != nil {
		httperr.NotFound(c, "booking_not_found", "Booking not found.")
		return
	}

	var req UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if req.ReasonForVisit != nil {
		b.ReasonForVisit = *req.ReasonForVisit
	}
	if req.PreviousTreatment != nil {
		b.PreviousTreatment = *req.PreviousTreatment
	}
	if req.CurrentMedications != nil {
		b.CurrentMedications = *req.CurrentMedications
	}
	if req.InsuranceProvider != nil {
		b.InsuranceProvider = *req.InsuranceProvider
	}
	if req.EmergencyContact != nil {
		b.EmergencyContact = *req.EmergencyContact
	}
	if req.EmergencyPhone != nil {
		b.EmergencyPhone = *req.EmergencyPhone
	}
	if req.Phone != nil {
		b.Phone = *req.Phone
	}

	if err := h.db.Save(&b).Error; err != nil {
		httperr.Internal(c, "failed_to_update_booking", "Failed to update booking.")
		return
	}

	c.JSON(http.StatusOK, b)
}

// Delete removes a booking outright. An active slot-bound booking frees
// its slot on the way out.
func (h *BookingHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	var b models.Booking
	if err := h.db.First(&b, id).Error; err != nil {
		httperr.NotFound(c, "booking_not_found", "Booking not found.")
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if b.AvailabilitySlotID != nil && scheduling.IsActive(scheduling.Status(b.Status)) {
			if err := tx.
				Model(&models.AvailabilitySlot{}).
				Where("id = ?", *b.AvailabilitySlotID).
				Update("is_available", true).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&b).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_delete_booking", "Failed to delete booking.")
		return
	}

	h.cache.Invalidate(c.Request.Context())

	c.Status(http.StatusNoContent)
}

// ======================================================
// STATUS TRANSITIONS
// ======================================================

func (h *BookingHandler) Confirm(c *gin.Context) {
	h.transition(c, scheduling.StatusConfirmed)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	h.transition(c, scheduling.StatusCancelled)
}

func (h *BookingHandler) Complete(c *gin.Context) {
	h.transition(c, scheduling.StatusCompleted)
}

func (h *BookingHandler) transition(c *gin.Context, target scheduling.Status) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid booking id.")
		return
	}

	b, err := h.transitionUC.Execute(c.Request.Context(), uint(id), target)
	if err != nil {
		switch httperr.BusinessCode(err) {
		case "booking_not_found":
			httperr.NotFound(c, "booking_not_found", "Booking not found.")
		case "invalid_transition":
			httperr.BadRequest(c, "invalid_transition", "Booking cannot move to this status.")
		default:
			httperr.Internal(c, "failed_to_update_status", "Failed to update booking status.")
		}
		return
	}

	c.JSON(http.StatusOK, b)
}

// ======================================================
// RESCHEDULE
// ======================================================

func (h *BookingHandler) Reschedule(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid booking id.")
		return
	}

	var req RescheduleBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	b, err := h.rescheduleUC.Execute(c.Request.Context(), uint(id), req.SlotID)
	if err != nil {
		switch httperr.BusinessCode(err) {
		case "booking_not_found":
			httperr.NotFound(c, "booking_not_found", "Booking not found.")
		case "slot_not_found":
			httperr.NotFound(c, "slot_not_found", "Slot not found.")
		case "slot_unavailable":
			httperr.Conflict(c, "slot_unavailable", "That slot was just taken. Please pick another time.")
		case "invalid_transition":
			httperr.BadRequest(c, "invalid_transition", "Only pending or confirmed bookings can be rescheduled.")
		default:
			httperr.Internal(c, "failed_to_reschedule", "Failed to reschedule booking.")
		}
		return
	}

	c.JSON(http.StatusOK, b)
}
