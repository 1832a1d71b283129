package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clinicdesk/booking-api/internal/domain/scheduling"
	"github.com/clinicdesk/booking-api/internal/httperr"
	"github.com/clinicdesk/booking-api/internal/models"
	ucSchedule "github.com/clinicdesk/booking-api/internal/usecase/schedule"
)

// Batch expansion over a big range can take a while but not forever.
const expansionTimeout = 60 * time.Second

// ======================================================
// HANDLER
// ======================================================

type SlotHandler struct {
	db       *gorm.DB
	createUC *ucSchedule.CreateSlot
	listUC   *ucSchedule.ListSlots
	deleteUC *ucSchedule.DeleteSlot
	expandUC *ucSchedule.ExpandRecurring
}

func NewSlotHandler(
	db *gorm.DB,
	createUC *ucSchedule.CreateSlot,
	listUC *ucSchedule.ListSlots,
	deleteUC *ucSchedule.DeleteSlot,
	expandUC *ucSchedule.ExpandRecurring,
) *SlotHandler {
	return &SlotHandler{
		db:       db,
		createUC: createUC,
		listUC:   listUC,
		deleteUC: deleteUC,
		expandUC: expandUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateSlotRequest struct {
	ProviderID      uint   `json:"provider_id" binding:"required"`
	Date            string `json:"date" binding:"required"`       // YYYY-MM-DD
	StartTime       string `json:"start_time" binding:"required"` // HH:mm
	EndTime         string `json:"end_time" binding:"required"`   // HH:mm
	AppointmentType string `json:"appointment_type" binding:"required"`
	Note            string `json:"note"`
}

type recurringTemplateRequest struct {
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	Weekdays  []int  `json:"weekdays" binding:"required"`
}

type ExpandRecurringRequest struct {
	ProviderID      uint                       `json:"provider_id" binding:"required"`
	StartDate       string                     `json:"start_date" binding:"required"`
	EndDate         string                     `json:"end_date" binding:"required"`
	Templates       []recurringTemplateRequest `json:"templates" binding:"required"`
	AppointmentType string                     `json:"appointment_type" binding:"required"`
	Note            string                     `json:"note"`
}

// ======================================================
// CREATE
// ======================================================

func (h *SlotHandler) Create(c *gin.Context) {
	var req CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	slot, err := h.createUC.Execute(c.Request.Context(), ucSchedule.CreateSlotInput{
		ProviderID:      req.ProviderID,
		Date:            req.Date,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		AppointmentType: req.AppointmentType,
		Note:            req.Note,
	})
	if err != nil {
		mapSlotError(c, err)
		return
	}

	c.JSON(http.StatusCreated, slot)
}

// ======================================================
// LIST
// ======================================================

func (h *SlotHandler) List(c *gin.Context) {
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
	// Inclusive range: slots starting any time on the last day count.
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

	onlyAvailable := c.Query("available") == "true"

	slots, err := h.listUC.Execute(c.Request.Context(), providerID, from, to, onlyAvailable)
	if err != nil {
		httperr.Internal(c, "failed_to_list_slots", "Failed to list slots.")
		return
	}

	c.JSON(http.StatusOK, slots)
}

// ======================================================
// DELETE
// ======================================================

func (h *SlotHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid slot id.")
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), uint(id)); err != nil {
		mapSlotError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ======================================================
// RECURRING EXPANSION
// ======================================================

func (h *SlotHandler) ExpandRecurring(c *gin.Context) {
	var req ExpandRecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	templates := make([]scheduling.RecurringTemplate, 0, len(req.Templates))
	for _, t := range req.Templates {
		weekdays := make([]time.Weekday, 0, len(t.Weekdays))
		for _, wd := range t.Weekdays {
			weekdays = append(weekdays, time.Weekday(wd))
		}
		templates = append(templates, scheduling.RecurringTemplate{
			StartTime: t.StartTime,
			EndTime:   t.EndTime,
			Weekdays:  weekdays,
		})
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), expansionTimeout)
	defer cancel()

	result, err := h.expandUC.Execute(ctx, ucSchedule.ExpandRecurringInput{
		ProviderID:      req.ProviderID,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Templates:       templates,
		AppointmentType: req.AppointmentType,
		Note:            req.Note,
	})
	if err != nil {
		// Partial progress still matters to the caller.
		if ctx.Err() != nil {
			c.JSON(http.StatusOK, gin.H{
				"created":   result.Created,
				"skipped":   result.Skipped,
				"truncated": true,
			})
			return
		}
		mapSlotError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ======================================================
// ERROR MAPPING
// ======================================================

func mapSlotError(c *gin.Context, err error) {
	switch httperr.BusinessCode(err) {
	case "provider_not_found":
		httperr.NotFound(c, "provider_not_found", "Provider not found.")
	case "slot_not_found":
		httperr.NotFound(c, "slot_not_found", "Slot not found.")
	case "slot_overlap":
		httperr.Conflict(c, "slot_overlap", "Slot overlaps an existing one.")
	case "slot_has_active_booking":
		httperr.Conflict(c, "slot_has_active_booking", "Cancel the booking on this slot first.")
	case "provider_inactive":
		httperr.BadRequest(c, "provider_inactive", "Provider is not accepting appointments.")
	case "invalid_date_or_time", "invalid_time_range", "invalid_time_of_day",
		"invalid_appointment_type", "invalid_date_range", "date_range_too_large",
		"missing_templates", "missing_weekdays", "invalid_weekday":
		httperr.BadRequest(c, httperr.BusinessCode(err), "Invalid scheduling input.")
	default:
		httperr.Internal(c, "scheduling_failed", "Scheduling operation failed.")
	}
}
