package schedule

import (
	"context"
	"time"

	"github.com/clinicdesk/booking-api/internal/domain/scheduling"
	"github.com/clinicdesk/booking-api/internal/httperr"
	"github.com/clinicdesk/booking-api/internal/infra/cache"
	"github.com/clinicdesk/booking-api/internal/models"
	"github.com/clinicdesk/booking-api/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateSlotInput struct {
	ProviderID uint

	Date      string // YYYY-MM-DD, wall clock in the provider's timezone
	StartTime string // HH:mm
	EndTime   string // HH:mm

	AppointmentType string
	Note            string
}

// ======================================================
// USE CASE
// ======================================================

type CreateSlot struct {
	repo  scheduling.Repository
	cache *cache.SlotCache
}

func NewCreateSlot(
	repo scheduling.Repository,
	cache *cache.SlotCache,
) *CreateSlot {
	return &CreateSlot{
		repo:  repo,
		cache: cache,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateSlot) Execute(
	ctx context.Context,
	in CreateSlotInput,
) (*models.AvailabilitySlot, error) {

	provider, err := uc.repo.GetProviderByID(ctx, in.ProviderID)
	if err != nil {
		return nil, httperr.ErrBusiness("provider_not_found")
	}
	if !provider.Active {
		return nil, httperr.ErrBusiness("provider_inactive")
	}

	loc, err := uc.providerLocation(ctx, provider)
	if err != nil {
		return nil, err
	}

	start, err := time.ParseInLocation("2006-01-02 15:04", in.Date+" "+in.StartTime, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}
	end, err := time.ParseInLocation("2006-01-02 15:04", in.Date+" "+in.EndTime, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	kind := scheduling.AppointmentType(in.AppointmentType)
	if err := scheduling.ValidateSlotWindow(start, end, kind); err != nil {
		return nil, err
	}

	slot := &models.AvailabilitySlot{
		ProviderID:      provider.ID,
		StartTime:       start,
		EndTime:         end,
		IsAvailable:     true,
		AppointmentType: string(kind),
		Note:            in.Note,
	}

	if err := uc.repo.CreateSlotIfFree(ctx, slot); err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx)

	return slot, nil
}

// providerLocation resolves the provider's timezone, falling back to the
// clinic's. Instants are still stored as UTC by the database; the
// location only anchors wall-clock input.
func (uc *CreateSlot) providerLocation(
	ctx context.Context,
	provider *models.Provider,
) (*time.Location, error) {

	if provider.Timezone != "" {
		return timezone.Location(provider.Timezone), nil
	}

	clinic, err := uc.repo.GetClinic(ctx)
	if err != nil {
		return nil, err
	}
	return timezone.Location(clinic.Timezone), nil
}
