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

type RescheduleBooking struct {
	repo   scheduling.Repository
	notify *notify.Dispatcher
	cache  *cache.SlotCache
}

func NewRescheduleBooking(
	repo scheduling.Repository,
	notify *notify.Dispatcher,
	cache *cache.SlotCache,
) *RescheduleBooking {
	return &RescheduleBooking{
		repo:   repo,
		notify: notify,
		cache:  cache,
	}
}

// Execute moves an active booking onto another slot. The old slot, if
// any, goes back on sale.
func (uc *RescheduleBooking) Execute(
	ctx context.Context,
	bookingID uint,
	newSlotID uint,
) (*models.Booking, error) {

	b, err := uc.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("booking_not_found")
		}
		return nil, err
	}

	if !scheduling.IsActive(scheduling.Status(b.Status)) {
		return nil, httperr.ErrBusiness("invalid_transition")
	}

	if b.AvailabilitySlotID != nil && *b.AvailabilitySlotID == newSlotID {
		return b, nil
	}

	slot, err := uc.repo.GetSlotByID(ctx, newSlotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("slot_not_found")
		}
		return nil, err
	}

	clinic, err := uc.repo.GetClinic(ctx)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(clinic.Timezone)
	b.AvailabilitySlot = nil
	b.PreferredDate = slot.StartTime.In(loc).Format("2006-01-02")
	b.PreferredTime = slot.StartTime.In(loc).Format("15:04")

	if err := uc.repo.RescheduleBooking(ctx, b, newSlotID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("slot_not_found")
		}
		return nil, err
	}

	uc.cache.Invalidate(ctx)

	uc.notify.Dispatch(notify.Event{
		Name:      notify.EventBookingUpdated,
		BookingID: &b.ID,
		Recipient: b.Email,
		Payload: map[string]any{
			"reference":      b.Reference,
			"preferred_date": b.PreferredDate,
			"preferred_time": b.PreferredTime,
		},
	})

	return b, nil
}
