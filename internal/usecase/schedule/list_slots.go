package schedule

import (
	"context"
	"time"

	"github.com/clinicdesk/booking-api/internal/domain/scheduling"
	"github.com/clinicdesk/booking-api/internal/infra/cache"
	"github.com/clinicdesk/booking-api/internal/models"
)

type ListSlots struct {
	repo  scheduling.Repository
	cache *cache.SlotCache
}

func NewListSlots(
	repo scheduling.Repository,
	cache *cache.SlotCache,
) *ListSlots {
	return &ListSlots{
		repo:  repo,
		cache: cache,
	}
}

// Execute returns slots starting inside [from, to], ordered by start.
// A nil providerID spans all providers (public booking calendar). Only
// the available-only reads go through the cache; staff views always hit
// the store.
func (uc *ListSlots) Execute(
	ctx context.Context,
	providerID *uint,
	from time.Time,
	to time.Time,
	onlyAvailable bool,
) ([]models.AvailabilitySlot, error) {

	if onlyAvailable {
		if slots, ok := uc.cache.Get(ctx, providerID, from, to); ok {
			return slots, nil
		}
	}

	slots, err := uc.repo.ListSlots(ctx, providerID, from, to, onlyAvailable)
	if err != nil {
		return nil, err
	}

	if onlyAvailable {
		uc.cache.Set(ctx, providerID, from, to, slots)
	}

	return slots, nil
}
