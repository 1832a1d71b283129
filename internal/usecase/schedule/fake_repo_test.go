package schedule

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/clinicdesk/booking-api/internal/domain/scheduling"
	"github.com/clinicdesk/booking-api/internal/httperr"
	"github.com/clinicdesk/booking-api/internal/models"
)

// fakeRepo is an in-memory scheduling.Repository. Overlap and delete
// semantics mirror the gorm implementation closely enough for use case
// tests.
type fakeRepo struct {
	mu sync.Mutex

	clinic    models.Clinic
	providers map[uint]models.Provider
	slots     map[uint]*models.AvailabilitySlot
	nextID    uint

	activeBookingsBySlot map[uint]int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		clinic: models.Clinic{
			ID:       1,
			Name:     "Lakeside Clinic",
			Timezone: "America/New_York",
		},
		providers:            map[uint]models.Provider{},
		slots:                map[uint]*models.AvailabilitySlot{},
		activeBookingsBySlot: map[uint]int64{},
	}
}

func (r *fakeRepo) addProvider(p models.Provider) {
	r.providers[p.ID] = p
}

func (r *fakeRepo) GetClinic(_ context.Context) (*models.Clinic, error) {
	c := r.clinic
	return &c, nil
}

func (r *fakeRepo) GetProviderByID(_ context.Context, id uint) (*models.Provider, error) {
	p, ok := r.providers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r *fakeRepo) CreateSlotIfFree(_ context.Context, slot *models.AvailabilitySlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.slots {
		if s.ProviderID != slot.ProviderID {
			continue
		}
		if scheduling.Overlaps(slot.StartTime, slot.EndTime, s.StartTime, s.EndTime) {
			return httperr.ErrBusiness("slot_overlap")
		}
	}

	r.nextID++
	slot.ID = r.nextID
	cp := *slot
	r.slots[slot.ID] = &cp
	return nil
}

func (r *fakeRepo) GetSlotByID(_ context.Context, id uint) (*models.AvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.slots[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeRepo) ListSlots(
	_ context.Context,
	providerID *uint,
	start, end time.Time,
	onlyAvailable bool,
) ([]models.AvailabilitySlot, error) {

	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.AvailabilitySlot
	for _, s := range r.slots {
		if providerID != nil && s.ProviderID != *providerID {
			continue
		}
		if s.StartTime.Before(start) || s.StartTime.After(end) {
			continue
		}
		if onlyAvailable && !s.IsAvailable {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *fakeRepo) DeleteSlot(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.slots[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	if r.activeBookingsBySlot[id] > 0 {
		return httperr.ErrBusiness("slot_has_active_booking")
	}
	delete(r.slots, id)
	return nil
}

func (r *fakeRepo) ReleaseSlot(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.slots[id]; ok {
		s.IsAvailable = true
	}
	return nil
}

func (r *fakeRepo) CountActiveBookingsForSlot(_ context.Context, slotID uint) (int64, error) {
	return r.activeBookingsBySlot[slotID], nil
}

// Booking methods are unused by the schedule use cases.

func (r *fakeRepo) CreateBooking(context.Context, *models.Booking) error {
	panic("not used")
}

func (r *fakeRepo) CreateBookingWithSlot(context.Context, *models.Booking, uint) error {
	panic("not used")
}

func (r *fakeRepo) RescheduleBooking(context.Context, *models.Booking, uint) error {
	panic("not used")
}

func (r *fakeRepo) GetBookingByID(context.Context, uint) (*models.Booking, error) {
	panic("not used")
}

func (r *fakeRepo) GetBookingByReference(context.Context, string) (*models.Booking, error) {
	panic("not used")
}

func (r *fakeRepo) UpdateBookingStatus(context.Context, *models.Booking, scheduling.Status) error {
	panic("not used")
}

func (r *fakeRepo) UpdateBooking(context.Context, *models.Booking) error {
	panic("not used")
}

func (r *fakeRepo) DeleteBooking(context.Context, uint) error {
	panic("not used")
}

func (r *fakeRepo) ListBookings(context.Context, scheduling.BookingFilter, int, int) ([]models.Booking, int64, error) {
	panic("not used")
}

var _ scheduling.Repository = (*fakeRepo)(nil)
