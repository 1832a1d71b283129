package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clinicdesk/booking-api/internal/httperr"
	"github.com/clinicdesk/booking-api/internal/models"
)

type NotificationLogsHandler struct {
	db *gorm.DB
}

func NewNotificationLogsHandler(db *gorm.DB) *NotificationLogsHandler {
	return &NotificationLogsHandler{db: db}
}

// List returns notification events newest first, filterable by event
// name, booking and date range.
func (h *NotificationLogsHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	q := h.db.Model(&models.NotificationLog{})

	if event := c.Query("event"); event != "" {
		q = q.Where("event = ?", event)
	}
	if bookingIDStr := c.Query("booking_id"); bookingIDStr != "" {
		bookingID, err := strconv.ParseUint(bookingIDStr, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_booking_id", "Invalid booking id.")
			return
		}
		q = q.Where("booking_id = ?", bookingID)
	}
	if fromStr := c.Query("from"); fromStr != "" {
		if from, err := time.Parse("2006-01-02", fromStr); err == nil {
			q = q.Where("created_at >= ?", from)
		}
	}
	if toStr := c.Query("to"); toStr != "" {
		if to, err := time.Parse("2006-01-02", toStr); err == nil {
			q = q.Where("created_at < ?", to.Add(24*time.Hour))
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "failed_to_list_logs", "Failed to list notification logs.")
		return
	}

	var logs []models.NotificationLog
	if err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&logs).Error; err != nil {

		httperr.Internal(c, "failed_to_list_logs", "Failed to list notification logs.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  logs,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}
