package booking

import (
	"context"

	"github.com/clinicdesk/booking-api/internal/domain/scheduling"
	"github.com/clinicdesk/booking-api/internal/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type ListBookings struct {
	repo scheduling.Repository
}

func NewListBookings(repo scheduling.Repository) *ListBookings {
	return &ListBookings{repo: repo}
}

// Execute lists bookings newest first. Out-of-range page values clamp
// instead of erroring; the clamped values are returned so the caller
// can echo them.
func (uc *ListBookings) Execute(
	ctx context.Context,
	filter scheduling.BookingFilter,
	page int,
	pageSize int,
) ([]models.Booking, int64, int, int, error) {

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	offset := (page - 1) * pageSize

	items, total, err := uc.repo.ListBookings(ctx, filter, pageSize, offset)
	if err != nil {
		return nil, 0, page, pageSize, err
	}

	return items, total, page, pageSize, nil
}
