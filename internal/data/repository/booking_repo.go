package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"appointment-booking/internal/data/entity"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingRepository interface {
	Create(ctx context.Context, name, email string, slotID int) (*entity.Booking, error)
	FindByID(ctx context.Context, id string) (*entity.Booking, error)
	MarkPaid(ctx context.Context, id, paymentIntentID string) error
	Remove(ctx context.Context, id string) (*entity.Booking, error)
	SetSlot(ctx context.Context, id string, slotID int) (*entity.Booking, error)
	ListAll(ctx context.Context) []*entity.Booking
	Count(ctx context.Context) int
}

type bookingRepository struct {
	mu       sync.RWMutex
	order    []string
	bookings map[string]*entity.Booking
	newID    func() (uuid.UUID, error)
	now      func() time.Time
	log      *zap.Logger
}

func NewBookingRepository(log *zap.Logger) BookingRepository {
	return &bookingRepository{
		bookings: make(map[string]*entity.Booking),
		newID:    uuid.NewV7,
		now:      time.Now,
		log:      log.With(zap.String("repository", "booking")),
	}
}

func (r *bookingRepository) Create(ctx context.Context, name, email string, slotID int) (*entity.Booking, error) {
	id, err := r.newID()
	if err != nil {
		r.log.Error("Failed to generate booking ID", zap.Error(err))
		return nil, fmt.Errorf("generate booking id: %w", err)
	}

	booking := &entity.Booking{
		ID:        id.String(),
		Name:      name,
		Email:     email,
		SlotID:    slotID,
		Paid:      false,
		CreatedAt: r.now(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bookings[booking.ID]; exists {
		return nil, fmt.Errorf("create booking %s: id collision", booking.ID)
	}
	r.bookings[booking.ID] = booking
	r.order = append(r.order, booking.ID)

	created := *booking
	return &created, nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id string) (*entity.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	booking, ok := r.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", id, ErrNotFound)
	}

	found := *booking
	return &found, nil
}

func (r *bookingRepository) MarkPaid(ctx context.Context, id, paymentIntentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	booking, ok := r.bookings[id]
	if !ok {
		return fmt.Errorf("booking %s: %w", id, ErrNotFound)
	}

	booking.Paid = true
	booking.PaymentIntentID = paymentIntentID
	return nil
}

func (r *bookingRepository) Remove(ctx context.Context, id string) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	booking, ok := r.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", id, ErrNotFound)
	}

	delete(r.bookings, id)
	for i, bookingID := range r.order {
		if bookingID == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	r.log.Info("Booking removed", zap.String("booking_id", id))
	return booking, nil
}

func (r *bookingRepository) SetSlot(ctx context.Context, id string, slotID int) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	booking, ok := r.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", id, ErrNotFound)
	}

	booking.SlotID = slotID

	updated := *booking
	return &updated, nil
}

func (r *bookingRepository) ListAll(ctx context.Context) []*entity.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bookings := make([]*entity.Booking, 0, len(r.order))
	for _, id := range r.order {
		booking := *r.bookings[id]
		bookings = append(bookings, &booking)
	}

	return bookings
}

func (r *bookingRepository) Count(ctx context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}
