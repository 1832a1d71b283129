package scheduling

import (
	"context"
	"time"

	"github.com/clinicdesk/booking-api/internal/models"
)

// BookingFilter narrows staff booking listings. Zero values mean "no
// filter on this field". The created_at range is half-open:
// DateFrom inclusive, DateTo exclusive.
type BookingFilter struct {
	Email    string
	Status   string
	DateFrom *time.Time
	DateTo   *time.Time
	Search   string // matched case-insensitively against name/email/phone
}

type Repository interface {
	// -------- Clinic --------
	GetClinic(
		ctx context.Context,
	) (*models.Clinic, error)

	// -------- Provider --------
	GetProviderByID(
		ctx context.Context,
		id uint,
	) (*models.Provider, error)

	// -------- Slots (create / query) --------

	// CreateSlotIfFree inserts the slot unless it overlaps an existing
	// slot of the same provider; overlap yields the slot_overlap
	// business error. Check and insert happen in one transaction.
	CreateSlotIfFree(
		ctx context.Context,
		slot *models.AvailabilitySlot,
	) error

	GetSlotByID(
		ctx context.Context,
		id uint,
	) (*models.AvailabilitySlot, error)

	ListSlots(
		ctx context.Context,
		providerID *uint,
		start time.Time,
		end time.Time,
		onlyAvailable bool,
	) ([]models.AvailabilitySlot, error)

	DeleteSlot(
		ctx context.Context,
		id uint,
	) error

	// ReleaseSlot flips the slot back to available after a cancellation.
	ReleaseSlot(
		ctx context.Context,
		id uint,
	) error

	CountActiveBookingsForSlot(
		ctx context.Context,
		slotID uint,
	) (int64, error)

	// -------- Booking (create / claim) --------

	CreateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	// CreateBookingWithSlot claims the slot and inserts the booking in a
	// single transaction. The claim is a conditional update on
	// is_available, so exactly one of any number of concurrent callers
	// wins; the rest get the slot_unavailable business error.
	CreateBookingWithSlot(
		ctx context.Context,
		b *models.Booking,
		slotID uint,
	) error

	// RescheduleBooking moves an active booking onto a new slot: claims
	// the new slot with the same conditional update as
	// CreateBookingWithSlot, releases the old one, and saves the
	// booking, all in one transaction.
	RescheduleBooking(
		ctx context.Context,
		b *models.Booking,
		newSlotID uint,
	) error

	// -------- Booking (state change / edit) --------

	GetBookingByID(
		ctx context.Context,
		id uint,
	) (*models.Booking, error)

	GetBookingByReference(
		ctx context.Context,
		reference string,
	) (*models.Booking, error)

	// UpdateBookingStatus persists a status change guarded by the
	// expected previous status, so two staff racing on one booking
	// cannot both win.
	UpdateBookingStatus(
		ctx context.Context,
		b *models.Booking,
		from Status,
	) error

	UpdateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	DeleteBooking(
		ctx context.Context,
		id uint,
	) error

	// -------- Booking (query) --------

	ListBookings(
		ctx context.Context,
		filter BookingFilter,
		limit int,
		offset int,
	) ([]models.Booking, int64, error)
}
