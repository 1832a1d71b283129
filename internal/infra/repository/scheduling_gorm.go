package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/clinicdesk/booking-api/internal/domain/scheduling"
	"github.com/clinicdesk/booking-api/internal/httperr"
	"github.com/clinicdesk/booking-api/internal/models"
)

// isUniqueViolation matches Postgres error 23505 (unique constraint).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type SchedulingGormRepository struct {
	db *gorm.DB
}

func NewSchedulingGormRepository(db *gorm.DB) *SchedulingGormRepository {
	return &SchedulingGormRepository{db: db}
}

// --------------------------------------------------
// Clinic
// --------------------------------------------------

func (r *SchedulingGormRepository) GetClinic(
	ctx context.Context,
) (*models.Clinic, error) {

	var clinic models.Clinic
	if err := r.db.WithContext(ctx).First(&clinic).Error; err != nil {
		return nil, err
	}
	return &clinic, nil
}

// --------------------------------------------------
// Provider
// --------------------------------------------------

func (r *SchedulingGormRepository) GetProviderByID(
	ctx context.Context,
	id uint,
) (*models.Provider, error) {

	var provider models.Provider
	if err := r.db.WithContext(ctx).First(&provider, id).Error; err != nil {
		return nil, err
	}
	return &provider, nil
}

// --------------------------------------------------
// Slots
// --------------------------------------------------

// overlappingSlots selects the provider's slots intersecting the
// candidate window, booked ones included, so a release never produces
// two available slots covering the same time. Rows are locked FOR
// UPDATE; Postgres forbids locking an aggregate, so callers pluck ids
// instead of counting.
func overlappingSlots(tx *gorm.DB, slot *models.AvailabilitySlot) *gorm.DB {
	return tx.
		Model(&models.AvailabilitySlot{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(
			"provider_id = ? AND start_time < ? AND end_time > ?",
			slot.ProviderID,
			slot.EndTime,
			slot.StartTime,
		)
}

func (r *SchedulingGormRepository) CreateSlotIfFree(
	ctx context.Context,
	slot *models.AvailabilitySlot,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var conflicting []uint
		if err := overlappingSlots(tx, slot).
			Pluck("id", &conflicting).Error; err != nil {
			return err
		}

		if len(conflicting) > 0 {
			return httperr.ErrBusiness("slot_overlap")
		}

		return tx.Create(slot).Error
	})
}

func (r *SchedulingGormRepository) GetSlotByID(
	ctx context.Context,
	id uint,
) (*models.AvailabilitySlot, error) {

	var slot models.AvailabilitySlot
	if err := r.db.WithContext(ctx).First(&slot, id).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *SchedulingGormRepository) ListSlots(
	ctx context.Context,
	providerID *uint,
	start time.Time,
	end time.Time,
	onlyAvailable bool,
) ([]models.AvailabilitySlot, error) {

	q := r.db.WithContext(ctx).
		Where("start_time >= ? AND start_time <= ?", start, end)

	if providerID != nil {
		q = q.Where("provider_id = ?", *providerID)
	}
	if onlyAvailable {
		q = q.Where("is_available = ?", true)
	}

	var slots []models.AvailabilitySlot
	if err := q.
		Order("start_time ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}

	return slots, nil
}

func (r *SchedulingGormRepository) DeleteSlot(
	ctx context.Context,
	id uint,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var slot models.AvailabilitySlot
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&slot, id).Error; err != nil {
			return err
		}

		// Never strand a patient: a slot bound to an active booking
		// must be cancelled first.
		var active int64
		if err := tx.
			Model(&models.Booking{}).
			Where(
				"availability_slot_id = ? AND status IN ?",
				id,
				[]string{string(domain.StatusPending), string(domain.StatusConfirmed)},
			).
			Count(&active).Error; err != nil {
			return err
		}

		if active > 0 {
			return httperr.ErrBusiness("slot_has_active_booking")
		}

		return tx.Delete(&slot).Error
	})
}

func (r *SchedulingGormRepository) ReleaseSlot(
	ctx context.Context,
	id uint,
) error {

	return r.db.WithContext(ctx).
		Model(&models.AvailabilitySlot{}).
		Where("id = ?", id).
		Update("is_available", true).Error
}

func (r *SchedulingGormRepository) CountActiveBookingsForSlot(
	ctx context.Context,
	slotID uint,
) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where(
			"availability_slot_id = ? AND status IN ?",
			slotID,
			[]string{string(domain.StatusPending), string(domain.StatusConfirmed)},
		).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

// --------------------------------------------------
// Booking (create / claim)
// --------------------------------------------------

func (r *SchedulingGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {

	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		if isUniqueViolation(err) {
			return httperr.ErrBusiness("duplicate_reference")
		}
		return err
	}
	return nil
}

func (r *SchedulingGormRepository) CreateBookingWithSlot(
	ctx context.Context,
	b *models.Booking,
	slotID uint,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		// Conditional claim: only one concurrent caller can flip the
		// flag, everyone else sees zero rows affected.
		res := tx.
			Model(&models.AvailabilitySlot{}).
			Where("id = ? AND is_available = ?", slotID, true).
			Update("is_available", false)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			var exists int64
			if err := tx.
				Model(&models.AvailabilitySlot{}).
				Where("id = ?", slotID).
				Count(&exists).Error; err != nil {
				return err
			}
			if exists == 0 {
				return gorm.ErrRecordNotFound
			}
			return httperr.ErrBusiness("slot_unavailable")
		}

		b.AvailabilitySlotID = &slotID
		if err := tx.Create(b).Error; err != nil {
			if isUniqueViolation(err) {
				return httperr.ErrBusiness("duplicate_reference")
			}
			return err
		}
		return nil
	})
}

func (r *SchedulingGormRepository) RescheduleBooking(
	ctx context.Context,
	b *models.Booking,
	newSlotID uint,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		oldSlotID := b.AvailabilitySlotID

		res := tx.
			Model(&models.AvailabilitySlot{}).
			Where("id = ? AND is_available = ?", newSlotID, true).
			Update("is_available", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var exists int64
			if err := tx.
				Model(&models.AvailabilitySlot{}).
				Where("id = ?", newSlotID).
				Count(&exists).Error; err != nil {
				return err
			}
			if exists == 0 {
				return gorm.ErrRecordNotFound
			}
			return httperr.ErrBusiness("slot_unavailable")
		}

		if oldSlotID != nil && *oldSlotID != newSlotID {
			if err := tx.
				Model(&models.AvailabilitySlot{}).
				Where("id = ?", *oldSlotID).
				Update("is_available", true).Error; err != nil {
				return err
			}
		}

		b.AvailabilitySlotID = &newSlotID
		b.AvailabilitySlot = nil
		return tx.Save(b).Error
	})
}

// --------------------------------------------------
// Booking (state change / edit)
// --------------------------------------------------

func (r *SchedulingGormRepository) GetBookingByID(
	ctx context.Context,
	id uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Preload("AvailabilitySlot").
		First(&b, id).Error; err != nil {
		return nil, err
	}

	return &b, nil
}

func (r *SchedulingGormRepository) GetBookingByReference(
	ctx context.Context,
	reference string,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Preload("AvailabilitySlot").
		Where("reference = ?", reference).
		First(&b).Error; err != nil {
		return nil, err
	}

	return &b, nil
}

func (r *SchedulingGormRepository) UpdateBookingStatus(
	ctx context.Context,
	b *models.Booking,
	from domain.Status,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND status = ?", b.ID, string(from)).
		Updates(map[string]any{
			"status":       b.Status,
			"confirmed_at": b.ConfirmedAt,
			"cancelled_at": b.CancelledAt,
			"completed_at": b.CompletedAt,
		})
	if res.Error != nil {
		return res.Error
	}

	// Zero rows means someone else moved the booking first.
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness("invalid_transition")
	}

	return nil
}

func (r *SchedulingGormRepository) UpdateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *SchedulingGormRepository) DeleteBooking(
	ctx context.Context,
	id uint,
) error {

	res := r.db.WithContext(ctx).Delete(&models.Booking{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// --------------------------------------------------
// Booking (query)
// --------------------------------------------------

func (r *SchedulingGormRepository) ListBookings(
	ctx context.Context,
	filter domain.BookingFilter,
	limit int,
	offset int,
) ([]models.Booking, int64, error) {

	q := r.db.WithContext(ctx).Model(&models.Booking{})

	if filter.Email != "" {
		q = q.Where("LOWER(email) = ?", strings.ToLower(filter.Email))
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.DateFrom != nil {
		q = q.Where("created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		q = q.Where("created_at < ?", *filter.DateTo)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?",
			like, like, like, like,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bookings []models.Booking
	if err := q.
		Preload("AvailabilitySlot").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&bookings).Error; err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

// Compile-time check
var _ domain.Repository = (*SchedulingGormRepository)(nil)
