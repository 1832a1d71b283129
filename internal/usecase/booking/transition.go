package booking

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/clinicdesk/booking-api/internal/domain/scheduling"
	"github.com/clinicdesk/booking-api/internal/httperr"
	"github.com/clinicdesk/booking-api/internal/infra/cache"
	"github.com/clinicdesk/booking-api/internal/models"
	"github.com/clinicdesk/booking-api/internal/notify"
	"github.com/clinicdesk/booking-api/internal/timezone"
)

type TransitionBooking struct {
	repo   scheduling.Repository
	notify *notify.Dispatcher
	cache  *cache.SlotCache
}

func NewTransitionBooking(
	repo scheduling.Repository,
	notify *notify.Dispatcher,
	cache *cache.SlotCache,
) *TransitionBooking {
	return &TransitionBooking{
		repo:   repo,
		notify: notify,
		cache:  cache,
	}
}

func (uc *TransitionBooking) Execute(
	ctx context.Context,
	bookingID uint,
	target scheduling.Status,
) (*models.Booking, error) {

	clinic, err := uc.repo.GetClinic(ctx)
	if err != nil {
		return nil, err
	}

	b, err := uc.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("booking_not_found")
		}
		return nil, err
	}

	from := scheduling.Status(b.Status)
	now := timezone.NowIn(clinic.Timezone)

	if err := scheduling.Apply(b, target, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBookingStatus(ctx, b, from); err != nil {
		return nil, err
	}

	// Cancellation frees the slot for rebooking. Completion keeps it
	// unavailable: the time was used.
	if target == scheduling.StatusCancelled && b.AvailabilitySlotID != nil {
		if err := uc.repo.ReleaseSlot(ctx, *b.AvailabilitySlotID); err != nil {
			return nil, err
		}
		uc.cache.Invalidate(ctx)
	}

	uc.notify.Dispatch(notify.Event{
		Name:      eventForStatus(target),
		BookingID: &b.ID,
		Recipient: b.Email,
		Payload: map[string]any{
			"reference": b.Reference,
			"status":    b.Status,
		},
	})

	return b, nil
}

func eventForStatus(s scheduling.Status) string {
	switch s {
	case scheduling.StatusConfirmed:
		return notify.EventBookingConfirmed
	case scheduling.StatusCancelled:
		return notify.EventBookingCancelled
	case scheduling.StatusCompleted:
		return notify.EventBookingCompleted
	default:
		return notify.EventBookingUpdated
	}
}
