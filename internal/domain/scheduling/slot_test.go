package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/clinicdesk/booking-api/internal/httperr"
)

func TestOverlaps(t *testing.T) {
	at := func(h int) time.Time {
		return time.Date(2025, 3, 10, h, 0, 0, 0, time.UTC)
	}

	cases := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     time.Time
		want                           bool
	}{
		{"identical", at(9), at(10), at(9), at(10), true},
		{"partial overlap", at(9), at(11), at(10), at(12), true},
		{"contained", at(9), at(12), at(10), at(11), true},
		{"touching edges", at(9), at(10), at(10), at(11), false},
		{"disjoint", at(9), at(10), at(14), at(15), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd))
			// overlap is symmetric
			assert.Equal(t, tc.want, Overlaps(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd))
		})
	}
}

func TestValidateSlotWindow(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	assert.NoError(t, ValidateSlotWindow(start, end, TypeConsultation))

	err := ValidateSlotWindow(end, start, TypeConsultation)
	assert.True(t, httperr.IsBusiness(err, "invalid_time_range"))

	err = ValidateSlotWindow(start, start, TypeConsultation)
	assert.True(t, httperr.IsBusiness(err, "invalid_time_range"))

	err = ValidateSlotWindow(start, end, AppointmentType("haircut"))
	assert.True(t, httperr.IsBusiness(err, "invalid_appointment_type"))
}

func TestIsValidAppointmentType(t *testing.T) {
	for _, kind := range []AppointmentType{TypeConsultation, TypeTherapy, TypeEvaluation, TypeFollowUp} {
		assert.True(t, IsValidAppointmentType(kind))
	}
	assert.False(t, IsValidAppointmentType(AppointmentType("")))
	assert.False(t, IsValidAppointmentType(AppointmentType("surgery")))
}
