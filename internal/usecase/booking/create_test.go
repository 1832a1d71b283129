package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/booking-api/internal/httperr"
	"github.com/clinicdesk/booking-api/internal/infra/lock"
	"github.com/clinicdesk/booking-api/internal/models"
)

func validInput() CreateBookingInput {
	return CreateBookingInput{
		FirstName:       "Maya",
		LastName:        "Chen",
		Email:           "maya.chen@example.com",
		Phone:           "+1 555 010 2000",
		DateOfBirth:     "1990-04-01",
		PreferredDate:   "2025-06-02",
		PreferredTime:   "10:00",
		ReasonForVisit:  "lower back pain",
		ConsentAccepted: true,
	}
}

func newCreateUC(repo *fakeRepo) *CreateBooking {
	return NewCreateBooking(repo, lock.NewNoopLocker(), newTestDispatcher(), nil)
}

func TestCreateBookingWithoutSlot(t *testing.T) {
	repo := newFakeRepo()
	uc := newCreateUC(repo)

	b, err := uc.Execute(context.Background(), validInput())
	require.NoError(t, err)

	assert.NotEmpty(t, b.Reference)
	assert.Equal(t, "pending", b.Status)
	assert.Nil(t, b.AvailabilitySlotID)
	assert.Equal(t, "2025-06-02", b.PreferredDate)
	assert.Equal(t, "maya.chen@example.com", b.Email)
	assert.Len(t, repo.bookings, 1)
}

func TestCreateBookingValidation(t *testing.T) {
	repo := newFakeRepo()
	uc := newCreateUC(repo)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*CreateBookingInput)
		field  string
		code   string
	}{
		{"missing first name", func(in *CreateBookingInput) { in.FirstName = "  " }, "first_name", "required"},
		{"missing last name", func(in *CreateBookingInput) { in.LastName = "" }, "last_name", "required"},
		{"missing phone", func(in *CreateBookingInput) { in.Phone = "" }, "phone", "required"},
		{"missing email", func(in *CreateBookingInput) { in.Email = "" }, "email", "required"},
		{"malformed email", func(in *CreateBookingInput) { in.Email = "not-an-email" }, "email", "invalid"},
		{"missing dob", func(in *CreateBookingInput) { in.DateOfBirth = "" }, "date_of_birth", "required"},
		{"malformed dob", func(in *CreateBookingInput) { in.DateOfBirth = "01/04/1990" }, "date_of_birth", "invalid"},
		{"consent not given", func(in *CreateBookingInput) { in.ConsentAccepted = false }, "consent_accepted", "required"},
		{"no slot and no date", func(in *CreateBookingInput) { in.PreferredDate = "" }, "preferred_date", "required"},
		{"malformed preferred time", func(in *CreateBookingInput) { in.PreferredTime = "10am" }, "preferred_time", "invalid"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)

			_, err := uc.Execute(ctx, in)

			var vErr ValidationError
			require.True(t, errors.As(err, &vErr), "want ValidationError, got %v", err)
			assert.Equal(t, tc.code, vErr.Fields[tc.field])
		})
	}

	assert.Empty(t, repo.bookings, "invalid input must not persist anything")
}

func TestCreateBookingCollectsAllFieldErrors(t *testing.T) {
	repo := newFakeRepo()
	uc := newCreateUC(repo)

	_, err := uc.Execute(context.Background(), CreateBookingInput{})

	var vErr ValidationError
	require.True(t, errors.As(err, &vErr))
	for _, field := range []string{"first_name", "last_name", "phone", "email", "date_of_birth", "consent_accepted", "preferred_date"} {
		assert.Contains(t, vErr.Fields, field)
	}
}

func TestCreateBookingClaimsSlot(t *testing.T) {
	repo := newFakeRepo()
	slot := repo.addSlot(models.AvailabilitySlot{
		ProviderID:      1,
		StartTime:       time.Now().Add(48 * time.Hour),
		EndTime:         time.Now().Add(49 * time.Hour),
		IsAvailable:     true,
		AppointmentType: "consultation",
	})

	uc := newCreateUC(repo)

	in := validInput()
	in.SlotID = &slot.ID
	in.PreferredDate = ""
	in.PreferredTime = ""

	b, err := uc.Execute(context.Background(), in)
	require.NoError(t, err)

	require.NotNil(t, b.AvailabilitySlotID)
	assert.Equal(t, slot.ID, *b.AvailabilitySlotID)
	assert.False(t, repo.slots[slot.ID].IsAvailable)
	// The slot's time is copied onto the booking.
	assert.NotEmpty(t, b.PreferredDate)
	assert.NotEmpty(t, b.PreferredTime)
}

func TestCreateBookingSlotErrors(t *testing.T) {
	repo := newFakeRepo()
	taken := repo.addSlot(models.AvailabilitySlot{
		StartTime:   time.Now().Add(48 * time.Hour),
		EndTime:     time.Now().Add(49 * time.Hour),
		IsAvailable: false,
	})
	soon := repo.addSlot(models.AvailabilitySlot{
		StartTime:   time.Now().Add(30 * time.Minute),
		EndTime:     time.Now().Add(90 * time.Minute),
		IsAvailable: true,
	})

	uc := newCreateUC(repo)
	ctx := context.Background()

	in := validInput()
	missing := uint(999)
	in.SlotID = &missing
	_, err := uc.Execute(ctx, in)
	assert.True(t, httperr.IsBusiness(err, "slot_not_found"))

	in = validInput()
	in.SlotID = &taken.ID
	_, err = uc.Execute(ctx, in)
	assert.True(t, httperr.IsBusiness(err, "slot_unavailable"))

	in = validInput()
	in.SlotID = &soon.ID
	_, err = uc.Execute(ctx, in)
	assert.True(t, httperr.IsBusiness(err, "too_soon"))
}

func TestConcurrentClaimsExactlyOneWinner(t *testing.T) {
	repo := newFakeRepo()
	slot := repo.addSlot(models.AvailabilitySlot{
		StartTime:   time.Now().Add(48 * time.Hour),
		EndTime:     time.Now().Add(49 * time.Hour),
		IsAvailable: true,
	})

	uc := newCreateUC(repo)

	const claimers = 20

	var wg sync.WaitGroup
	errs := make([]error, claimers)

	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := validInput()
			in.SlotID = &slot.ID
			_, errs[i] = uc.Execute(context.Background(), in)
		}(i)
	}
	wg.Wait()

	won, lost := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case httperr.IsBusiness(err, "slot_unavailable"):
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, won, "exactly one claimer must win")
	assert.Equal(t, claimers-1, lost)
	assert.Len(t, repo.bookings, 1)
	assert.False(t, repo.slots[slot.ID].IsAvailable)
}
