package schedule

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/clinicdesk/booking-api/internal/domain/scheduling"
	"github.com/clinicdesk/booking-api/internal/httperr"
	"github.com/clinicdesk/booking-api/internal/infra/cache"
)

type DeleteSlot struct {
	repo  scheduling.Repository
	cache *cache.SlotCache
}

func NewDeleteSlot(
	repo scheduling.Repository,
	cache *cache.SlotCache,
) *DeleteSlot {
	return &DeleteSlot{
		repo:  repo,
		cache: cache,
	}
}

func (uc *DeleteSlot) Execute(
	ctx context.Context,
	id uint,
) error {

	if err := uc.repo.DeleteSlot(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.ErrBusiness("slot_not_found")
		}
		return err
	}

	uc.cache.Invalidate(ctx)
	return nil
}
