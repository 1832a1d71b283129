package scheduling

import (
	"time"

	"github.com/clinicdesk/booking-api/internal/httperr"
)

// ===============================
// Appointment Types
// ===============================

type AppointmentType string

const (
	TypeConsultation AppointmentType = "consultation"
	TypeTherapy      AppointmentType = "therapy"
	TypeEvaluation   AppointmentType = "evaluation"
	TypeFollowUp     AppointmentType = "follow_up"
)

func IsValidAppointmentType(t AppointmentType) bool {
	switch t {
	case TypeConsultation, TypeTherapy, TypeEvaluation, TypeFollowUp:
		return true
	}
	return false
}

// ===============================
// Slot Windows
// ===============================

// Overlaps reports whether two half-open windows [aStart,aEnd) and
// [bStart,bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// ValidateSlotWindow checks the basic invariants of a slot before it
// reaches the store.
func ValidateSlotWindow(start, end time.Time, kind AppointmentType) error {
	if !end.After(start) {
		return httperr.ErrBusiness("invalid_time_range")
	}
	if !IsValidAppointmentType(kind) {
		return httperr.ErrBusiness("invalid_appointment_type")
	}
	return nil
}
