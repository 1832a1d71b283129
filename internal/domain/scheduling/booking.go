package scheduling

import (
	"time"

	"github.com/clinicdesk/booking-api/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Confirm(b *models.Booking, now time.Time) error {
	if err := CanTransition(Status(b.Status), StatusConfirmed); err != nil {
		return err
	}

	b.Status = string(StatusConfirmed)
	b.ConfirmedAt = &now
	return nil
}

func Cancel(b *models.Booking, now time.Time) error {
	if err := CanTransition(Status(b.Status), StatusCancelled); err != nil {
		return err
	}

	b.Status = string(StatusCancelled)
	b.CancelledAt = &now
	return nil
}

func Complete(b *models.Booking, now time.Time) error {
	if err := CanTransition(Status(b.Status), StatusCompleted); err != nil {
		return err
	}

	b.Status = string(StatusCompleted)
	b.CompletedAt = &now
	return nil
}

// Apply routes a target status to the matching domain action.
func Apply(b *models.Booking, target Status, now time.Time) error {
	switch target {
	case StatusConfirmed:
		return Confirm(b, now)
	case StatusCancelled:
		return Cancel(b, now)
	case StatusCompleted:
		return Complete(b, now)
	default:
		return CanTransition(Status(b.Status), target)
	}
}
