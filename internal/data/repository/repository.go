package repository

import (
	"errors"
	"fmt"

	"appointment-booking/internal/data/entity"

	"go.uber.org/zap"
)

// ErrNotFound is returned when a slot or booking id has no matching record.
var ErrNotFound = errors.New("not found")

// Repository owns the process-wide slot and booking collections.
// It is built once at startup and never persisted; a restart resets it.
type Repository struct {
	Slot    SlotRepository
	Booking BookingRepository
}

func NewRepository(seed []entity.Slot, log *zap.Logger) (*Repository, error) {
	slots, err := NewSlotRepository(seed, log)
	if err != nil {
		return nil, fmt.Errorf("init slot registry: %w", err)
	}

	return &Repository{
		Slot:    slots,
		Booking: NewBookingRepository(log),
	}, nil
}

// DefaultSlots is the seed list loaded at process start.
func DefaultSlots() []entity.Slot {
	return []entity.Slot{
		{ID: 1, Date: "2023-12-01", Time: "10:00", Available: true},
		{ID: 2, Date: "2023-12-01", Time: "11:00", Available: true},
		{ID: 3, Date: "2023-12-02", Time: "10:00", Available: true},
	}
}
