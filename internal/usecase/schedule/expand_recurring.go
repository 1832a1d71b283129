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

// Large ranges are a staff mistake, not a use case.
const maxExpansionDays = 366

// ======================================================
// INPUT
// ======================================================

type ExpandRecurringInput struct {
	ProviderID uint

	StartDate string // YYYY-MM-DD inclusive
	EndDate   string // YYYY-MM-DD inclusive

	Templates       []scheduling.RecurringTemplate
	AppointmentType string
	Note            string
}

// ======================================================
// USE CASE
// ======================================================

type ExpandRecurring struct {
	repo  scheduling.Repository
	cache *cache.SlotCache
}

func NewExpandRecurring(
	repo scheduling.Repository,
	cache *cache.SlotCache,
) *ExpandRecurring {
	return &ExpandRecurring{
		repo:  repo,
		cache: cache,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute walks every calendar day in range and materializes a slot for
// each template firing on that weekday. Overlaps are skipped and
// counted, never fatal. On cancellation or a storage error the result
// still reports what was created before the cut; those slots stay.
func (uc *ExpandRecurring) Execute(
	ctx context.Context,
	in ExpandRecurringInput,
) (scheduling.ExpansionResult, error) {

	var result scheduling.ExpansionResult

	provider, err := uc.repo.GetProviderByID(ctx, in.ProviderID)
	if err != nil {
		return result, httperr.ErrBusiness("provider_not_found")
	}
	if !provider.Active {
		return result, httperr.ErrBusiness("provider_inactive")
	}

	if len(in.Templates) == 0 {
		return result, httperr.ErrBusiness("missing_templates")
	}
	for _, tpl := range in.Templates {
		if err := tpl.Validate(); err != nil {
			return result, err
		}
	}

	kind := scheduling.AppointmentType(in.AppointmentType)
	if !scheduling.IsValidAppointmentType(kind) {
		return result, httperr.ErrBusiness("invalid_appointment_type")
	}

	loc, err := uc.location(ctx, provider)
	if err != nil {
		return result, err
	}

	first, err := time.ParseInLocation("2006-01-02", in.StartDate, loc)
	if err != nil {
		return result, httperr.ErrBusiness("invalid_date_or_time")
	}
	last, err := time.ParseInLocation("2006-01-02", in.EndDate, loc)
	if err != nil {
		return result, httperr.ErrBusiness("invalid_date_or_time")
	}

	if last.Before(first) {
		return result, httperr.ErrBusiness("invalid_date_range")
	}
	if last.Sub(first) > maxExpansionDays*24*time.Hour {
		return result, httperr.ErrBusiness("date_range_too_large")
	}

	defer uc.cache.Invalidate(ctx)

	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {

		// Batch loops must stay cancellable; flushed slots survive.
		if err := ctx.Err(); err != nil {
			return result, err
		}

		for _, tpl := range in.Templates {
			if !tpl.AppliesTo(day.Weekday()) {
				continue
			}

			start, end := tpl.WindowOn(day, loc)

			slot := &models.AvailabilitySlot{
				ProviderID:      provider.ID,
				StartTime:       start,
				EndTime:         end,
				IsAvailable:     true,
				AppointmentType: string(kind),
				Note:            in.Note,
			}

			err := uc.repo.CreateSlotIfFree(ctx, slot)
			switch {
			case err == nil:
				result.Created++
			case httperr.IsBusiness(err, "slot_overlap"):
				result.Skipped++
			default:
				return result, err
			}
		}
	}

	return result, nil
}

func (uc *ExpandRecurring) location(
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
