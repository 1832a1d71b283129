package booking

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/clinicdesk/booking-api/internal/domain/scheduling"
	"github.com/clinicdesk/booking-api/internal/httperr"
	"github.com/clinicdesk/booking-api/internal/models"
	"github.com/clinicdesk/booking-api/internal/notify"
)

// fakeRepo is an in-memory scheduling.Repository whose claim path uses
// the same compare-and-set rule as the gorm implementation: the claim
// succeeds only while the slot is still available.
type fakeRepo struct {
	mu sync.Mutex

	clinic   models.Clinic
	slots    map[uint]*models.AvailabilitySlot
	bookings map[uint]*models.Booking
	nextID   uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		clinic: models.Clinic{
			ID:                1,
			Name:              "Lakeside Clinic",
			Timezone:          "America/New_York",
			MinAdvanceMinutes: 120,
		},
		slots:    map[uint]*models.AvailabilitySlot{},
		bookings: map[uint]*models.Booking{},
	}
}

func (r *fakeRepo) addSlot(s models.AvailabilitySlot) *models.AvailabilitySlot {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	s.ID = r.nextID
	r.slots[s.ID] = &s
	return &s
}

func (r *fakeRepo) addBooking(b models.Booking) *models.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	b.ID = r.nextID
	r.bookings[b.ID] = &b
	return &b
}

func (r *fakeRepo) GetClinic(_ context.Context) (*models.Clinic, error) {
	c := r.clinic
	return &c, nil
}

func (r *fakeRepo) GetProviderByID(context.Context, uint) (*models.Provider, error) {
	panic("not used")
}

func (r *fakeRepo) CreateSlotIfFree(context.Context, *models.AvailabilitySlot) error {
	panic("not used")
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

func (r *fakeRepo) ListSlots(context.Context, *uint, time.Time, time.Time, bool) ([]models.AvailabilitySlot, error) {
	panic("not used")
}

func (r *fakeRepo) DeleteSlot(context.Context, uint) error {
	panic("not used")
}

func (r *fakeRepo) ReleaseSlot(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.slots[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.IsAvailable = true
	return nil
}

func (r *fakeRepo) CountActiveBookingsForSlot(_ context.Context, slotID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, b := range r.bookings {
		if b.AvailabilitySlotID != nil && *b.AvailabilitySlotID == slotID &&
			scheduling.IsActive(scheduling.Status(b.Status)) {
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo) CreateBooking(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	b.ID = r.nextID
	b.CreatedAt = time.Now()
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeRepo) CreateBookingWithSlot(_ context.Context, b *models.Booking, slotID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.slots[slotID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if !s.IsAvailable {
		return httperr.ErrBusiness("slot_unavailable")
	}
	s.IsAvailable = false

	r.nextID++
	b.ID = r.nextID
	b.AvailabilitySlotID = &slotID
	b.CreatedAt = time.Now()
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeRepo) RescheduleBooking(_ context.Context, b *models.Booking, newSlotID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.slots[newSlotID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if !s.IsAvailable {
		return httperr.ErrBusiness("slot_unavailable")
	}
	s.IsAvailable = false

	if b.AvailabilitySlotID != nil {
		if old, ok := r.slots[*b.AvailabilitySlotID]; ok {
			old.IsAvailable = true
		}
	}

	b.AvailabilitySlotID = &newSlotID
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeRepo) GetBookingByID(_ context.Context, id uint) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeRepo) GetBookingByReference(_ context.Context, reference string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range r.bookings {
		if b.Reference == reference {
			cp := *b
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) UpdateBookingStatus(_ context.Context, b *models.Booking, from scheduling.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.bookings[b.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stored.Status != string(from) {
		return httperr.ErrBusiness("invalid_transition")
	}
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeRepo) UpdateBooking(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeRepo) DeleteBooking(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.bookings, id)
	return nil
}

func (r *fakeRepo) ListBookings(
	_ context.Context,
	filter scheduling.BookingFilter,
	limit int,
	offset int,
) ([]models.Booking, int64, error) {

	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []models.Booking
	for _, b := range r.bookings {
		if filter.Email != "" && b.Email != strings.ToLower(filter.Email) {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if filter.DateFrom != nil && b.CreatedAt.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && !b.CreatedAt.Before(*filter.DateTo) {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(b.FirstName), needle) &&
				!strings.Contains(strings.ToLower(b.LastName), needle) &&
				!strings.Contains(strings.ToLower(b.Email), needle) &&
				!strings.Contains(b.Phone, needle) {
				continue
			}
		}
		matched = append(matched, *b)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ID > matched[j].ID
	})

	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

var _ scheduling.Repository = (*fakeRepo)(nil)

// discardSink drops every event. Tests that care about notifications use
// their own sink.
type discardSink struct{}

func (discardSink) Log(string, *uint, string, any) error { return nil }

func newTestDispatcher() *notify.Dispatcher {
	return notify.NewDispatcher(discardSink{})
}
