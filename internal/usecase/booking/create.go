package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinicdesk/booking-api/internal/domain/scheduling"
	"github.com/clinicdesk/booking-api/internal/httperr"
	"github.com/clinicdesk/booking-api/internal/infra/cache"
	"github.com/clinicdesk/booking-api/internal/infra/lock"
	"github.com/clinicdesk/booking-api/internal/models"
	"github.com/clinicdesk/booking-api/internal/notify"
	"github.com/clinicdesk/booking-api/internal/timezone"
	"github.com/clinicdesk/booking-api/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	SlotID *uint

	FirstName   string
	LastName    string
	Email       string
	Phone       string
	DateOfBirth string // YYYY-MM-DD

	// Used when no slot was picked.
	PreferredDate string // YYYY-MM-DD
	PreferredTime string // HH:mm

	ReasonForVisit     string
	PreviousTreatment  string
	CurrentMedications string
	InsuranceProvider  string
	EmergencyContact   string
	EmergencyPhone     string

	ConsentAccepted bool
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo   scheduling.Repository
	locker lock.Locker
	notify *notify.Dispatcher
	cache  *cache.SlotCache
}

func NewCreateBooking(
	repo scheduling.Repository,
	locker lock.Locker,
	notify *notify.Dispatcher,
	cache *cache.SlotCache,
) *CreateBooking {
	return &CreateBooking{
		repo:   repo,
		locker: locker,
		notify: notify,
		cache:  cache,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Booking, error) {

	if err := uc.validate(in); err != nil {
		return nil, err
	}

	clinic, err := uc.repo.GetClinic(ctx)
	if err != nil {
		return nil, err
	}

	b := &models.Booking{
		Reference:          uuid.NewString(),
		FirstName:          strings.TrimSpace(in.FirstName),
		LastName:           strings.TrimSpace(in.LastName),
		Email:              strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:              strings.TrimSpace(in.Phone),
		DateOfBirth:        in.DateOfBirth,
		PreferredDate:      in.PreferredDate,
		PreferredTime:      in.PreferredTime,
		ReasonForVisit:     in.ReasonForVisit,
		PreviousTreatment:  in.PreviousTreatment,
		CurrentMedications: in.CurrentMedications,
		InsuranceProvider:  in.InsuranceProvider,
		EmergencyContact:   in.EmergencyContact,
		EmergencyPhone:     in.EmergencyPhone,
		ConsentAccepted:    in.ConsentAccepted,
		Status:             string(scheduling.InitialStatus()),
	}

	if in.SlotID == nil {
		// Free-text wish: no exclusivity to enforce, booking starts out
		// pending and staff schedules it later.
		if err := uc.repo.CreateBooking(ctx, b); err != nil {
			return nil, err
		}

		uc.dispatchCreated(b)
		return b, nil
	}

	slot, err := uc.repo.GetSlotByID(ctx, *in.SlotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("slot_not_found")
		}
		return nil, err
	}

	minAdvance := clinic.MinAdvanceMinutes
	if minAdvance <= 0 {
		minAdvance = 120
	}
	now := timezone.NowIn(clinic.Timezone)
	if slot.StartTime.Before(now.Add(time.Duration(minAdvance) * time.Minute)) {
		return nil, httperr.ErrBusiness("too_soon")
	}

	// The requested time is kept redundantly on the booking so it
	// survives a later slot deletion.
	loc := timezone.Location(clinic.Timezone)
	b.PreferredDate = slot.StartTime.In(loc).Format("2006-01-02")
	b.PreferredTime = slot.StartTime.In(loc).Format("15:04")

	// The per-slot lock keeps concurrent claimers off the row; the
	// conditional update inside CreateBookingWithSlot is what actually
	// decides the winner.
	err = uc.locker.WithSlotLock(ctx, slot.ID, func(lockCtx context.Context) error {
		return uc.repo.CreateBookingWithSlot(lockCtx, b, slot.ID)
	})
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return nil, httperr.ErrBusiness("slot_unavailable")
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("slot_not_found")
		}
		return nil, err
	}

	uc.cache.Invalidate(ctx)
	uc.dispatchCreated(b)

	return b, nil
}

func (uc *CreateBooking) dispatchCreated(b *models.Booking) {
	uc.notify.Dispatch(notify.Event{
		Name:      notify.EventBookingCreated,
		BookingID: &b.ID,
		Recipient: b.Email,
		Payload: map[string]any{
			"reference":      b.Reference,
			"preferred_date": b.PreferredDate,
			"preferred_time": b.PreferredTime,
		},
	})
}

// ======================================================
// VALIDATION
// ======================================================

func (uc *CreateBooking) validate(in CreateBookingInput) error {
	fields := map[string]string{}

	if strings.TrimSpace(in.FirstName) == "" {
		fields["first_name"] = "required"
	}
	if strings.TrimSpace(in.LastName) == "" {
		fields["last_name"] = "required"
	}
	if strings.TrimSpace(in.Phone) == "" {
		fields["phone"] = "required"
	}

	if strings.TrimSpace(in.Email) == "" {
		fields["email"] = "required"
	} else if !validators.IsEmailValid(in.Email) {
		fields["email"] = "invalid"
	}

	if in.DateOfBirth == "" {
		fields["date_of_birth"] = "required"
	} else if _, err := time.Parse("2006-01-02", in.DateOfBirth); err != nil {
		fields["date_of_birth"] = "invalid"
	}

	// Persistence only happens post-consent.
	if !in.ConsentAccepted {
		fields["consent_accepted"] = "required"
	}

	if in.SlotID == nil {
		if in.PreferredDate == "" {
			fields["preferred_date"] = "required"
		} else if _, err := time.Parse("2006-01-02", in.PreferredDate); err != nil {
			fields["preferred_date"] = "invalid"
		}
		if in.PreferredTime != "" {
			if _, err := time.Parse("15:04", in.PreferredTime); err != nil {
				fields["preferred_time"] = "invalid"
			}
		}
	}

	if len(fields) > 0 {
		return ValidationError{Fields: fields}
	}
	return nil
}
