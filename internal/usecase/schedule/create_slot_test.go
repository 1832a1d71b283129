package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/booking-api/internal/httperr"
	"github.com/clinicdesk/booking-api/internal/models"
)

func TestCreateSlot(t *testing.T) {
	repo := newFakeRepo()
	repo.addProvider(models.Provider{ID: 1, Name: "Dr. Reyes", Active: true})

	uc := NewCreateSlot(repo, nil)

	slot, err := uc.Execute(context.Background(), CreateSlotInput{
		ProviderID:      1,
		Date:            "2025-03-10",
		StartTime:       "09:00",
		EndTime:         "09:45",
		AppointmentType: "consultation",
		Note:            "new patients only",
	})
	require.NoError(t, err)
	require.NotZero(t, slot.ID)

	loc, _ := time.LoadLocation("America/New_York")
	assert.Equal(t, 9, slot.StartTime.In(loc).Hour())
	assert.Equal(t, 45, slot.EndTime.In(loc).Minute())
	assert.True(t, slot.IsAvailable)
	assert.Equal(t, "new patients only", slot.Note)
}

func TestCreateSlotUsesProviderTimezoneOverride(t *testing.T) {
	repo := newFakeRepo()
	repo.addProvider(models.Provider{ID: 1, Name: "Dr. West", Active: true, Timezone: "America/Los_Angeles"})

	uc := NewCreateSlot(repo, nil)

	slot, err := uc.Execute(context.Background(), CreateSlotInput{
		ProviderID:      1,
		Date:            "2025-03-10",
		StartTime:       "09:00",
		EndTime:         "10:00",
		AppointmentType: "therapy",
	})
	require.NoError(t, err)

	la, _ := time.LoadLocation("America/Los_Angeles")
	assert.Equal(t, 9, slot.StartTime.In(la).Hour())
}

func TestCreateSlotRejectsOverlap(t *testing.T) {
	repo := newFakeRepo()
	repo.addProvider(models.Provider{ID: 1, Name: "Dr. Reyes", Active: true})

	uc := NewCreateSlot(repo, nil)
	ctx := context.Background()

	_, err := uc.Execute(ctx, CreateSlotInput{
		ProviderID:      1,
		Date:            "2025-03-10",
		StartTime:       "09:00",
		EndTime:         "10:00",
		AppointmentType: "consultation",
	})
	require.NoError(t, err)

	_, err = uc.Execute(ctx, CreateSlotInput{
		ProviderID:      1,
		Date:            "2025-03-10",
		StartTime:       "09:30",
		EndTime:         "10:30",
		AppointmentType: "consultation",
	})
	assert.True(t, httperr.IsBusiness(err, "slot_overlap"))

	// Back-to-back is fine.
	_, err = uc.Execute(ctx, CreateSlotInput{
		ProviderID:      1,
		Date:            "2025-03-10",
		StartTime:       "10:00",
		EndTime:         "11:00",
		AppointmentType: "consultation",
	})
	assert.NoError(t, err)
}

func TestCreateSlotInputErrors(t *testing.T) {
	repo := newFakeRepo()
	repo.addProvider(models.Provider{ID: 1, Name: "Dr. Reyes", Active: true})
	repo.addProvider(models.Provider{ID: 2, Name: "Dr. Shaw", Active: false})

	uc := NewCreateSlot(repo, nil)
	ctx := context.Background()

	base := CreateSlotInput{
		ProviderID:      1,
		Date:            "2025-03-10",
		StartTime:       "09:00",
		EndTime:         "10:00",
		AppointmentType: "consultation",
	}

	cases := []struct {
		name   string
		mutate func(*CreateSlotInput)
		code   string
	}{
		{"unknown provider", func(in *CreateSlotInput) { in.ProviderID = 99 }, "provider_not_found"},
		{"inactive provider", func(in *CreateSlotInput) { in.ProviderID = 2 }, "provider_inactive"},
		{"bad date", func(in *CreateSlotInput) { in.Date = "10/03/2025" }, "invalid_date_or_time"},
		{"bad time", func(in *CreateSlotInput) { in.StartTime = "9am" }, "invalid_date_or_time"},
		{"end before start", func(in *CreateSlotInput) { in.StartTime = "11:00" }, "invalid_time_range"},
		{"bad type", func(in *CreateSlotInput) { in.AppointmentType = "walk-in" }, "invalid_appointment_type"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := base
			tc.mutate(&in)
			_, err := uc.Execute(ctx, in)
			assert.True(t, httperr.IsBusiness(err, tc.code), "want %s, got %v", tc.code, err)
		})
	}
}

func TestDeleteSlot(t *testing.T) {
	repo := newFakeRepo()
	repo.addProvider(models.Provider{ID: 1, Name: "Dr. Reyes", Active: true})

	createUC := NewCreateSlot(repo, nil)
	deleteUC := NewDeleteSlot(repo, nil)
	ctx := context.Background()

	slot, err := createUC.Execute(ctx, CreateSlotInput{
		ProviderID:      1,
		Date:            "2025-03-10",
		StartTime:       "09:00",
		EndTime:         "10:00",
		AppointmentType: "consultation",
	})
	require.NoError(t, err)

	require.NoError(t, deleteUC.Execute(ctx, slot.ID))
	assert.Empty(t, repo.slots)

	err = deleteUC.Execute(ctx, slot.ID)
	assert.True(t, httperr.IsBusiness(err, "slot_not_found"))
}

func TestDeleteSlotRefusedWithActiveBooking(t *testing.T) {
	repo := newFakeRepo()
	repo.addProvider(models.Provider{ID: 1, Name: "Dr. Reyes", Active: true})

	createUC := NewCreateSlot(repo, nil)
	deleteUC := NewDeleteSlot(repo, nil)
	ctx := context.Background()

	slot, err := createUC.Execute(ctx, CreateSlotInput{
		ProviderID:      1,
		Date:            "2025-03-10",
		StartTime:       "09:00",
		EndTime:         "10:00",
		AppointmentType: "consultation",
	})
	require.NoError(t, err)

	repo.activeBookingsBySlot[slot.ID] = 1

	err = deleteUC.Execute(ctx, slot.ID)
	assert.True(t, httperr.IsBusiness(err, "slot_has_active_booking"))
	assert.Len(t, repo.slots, 1)
}
