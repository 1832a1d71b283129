package handlers

import (
	"time"

	"github.com/clinicdesk/booking-api/internal/models"
	"github.com/clinicdesk/booking-api/internal/timezone"
)

// resolve the clinic's official timezone
func locationFromClinic(clinic *models.Clinic) *time.Location {
	if clinic != nil && clinic.Timezone != "" {
		return timezone.Location(clinic.Timezone)
	}
	return timezone.Location(timezone.DefaultTimezone)
}

func parseDateInClinic(clinic *models.Clinic, dateStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02",
		dateStr,
		locationFromClinic(clinic),
	)
}
