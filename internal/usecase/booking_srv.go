package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"appointment-booking/internal/data/entity"
	"appointment-booking/internal/data/repository"
	"appointment-booking/internal/dto/request"
	"appointment-booking/internal/dto/response"
	"appointment-booking/pkg/payment"
	"appointment-booking/pkg/utils"

	"go.uber.org/zap"
)

type BookingService interface {
	CreateBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.CreateBookingResponse, error)
	CancelBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	RescheduleBooking(ctx context.Context, bookingID, newSlotID string) (*response.BookingResponse, error)
	PayBooking(ctx context.Context, bookingID string) (*response.PaymentResponse, error)

	// Admin (no access control). A nil page lists every booking.
	ListBookings(ctx context.Context, page *request.PaginatedRequest) (*response.BookingListResponse, error)
}

// bookingService is the only writer of the slot registry and booking ledger.
// Every mutation runs under mu; the payment processor call is the one step
// that runs outside it, guarded per booking by the paying set.
type bookingService struct {
	repo     *repository.Repository
	payments payment.Processor
	amount   int64
	currency string
	timeout  time.Duration

	mu     sync.Mutex
	paying map[string]struct{}

	log *zap.Logger
}

func NewBookingService(repo *repository.Repository, processor payment.Processor, config utils.PaymentConfig, log *zap.Logger) BookingService {
	return &bookingService{
		repo:     repo,
		payments: processor,
		amount:   config.Amount,
		currency: config.Currency,
		timeout:  config.Timeout,
		paying:   make(map[string]struct{}),
		log:      log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.CreateBookingResponse, error) {
	// Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	slotID, err := parseSlotID(req.SlotID.String())
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureSlotAvailable(ctx, slotID); err != nil {
		return nil, err
	}

	booking, err := s.repo.Booking.Create(ctx, req.Name, req.Email, slotID)
	if err != nil {
		s.log.Error("Failed to create booking",
			zap.Error(err),
			zap.Int("slot_id", slotID),
		)
		return nil, fmt.Errorf("create booking: %w", err)
	}

	if err := s.repo.Slot.SetAvailable(ctx, slotID, false); err != nil {
		// Rollback: drop the booking so no record points at a free slot
		if _, rmErr := s.repo.Booking.Remove(ctx, booking.ID); rmErr != nil {
			s.log.Error("Rollback failed: booking left without occupied slot",
				zap.Error(rmErr),
				zap.String("booking_id", booking.ID),
				zap.Int("slot_id", slotID),
			)
		}
		return nil, fmt.Errorf("occupy slot %d: %w", slotID, err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID),
		zap.Int("slot_id", slotID),
	)

	return &response.CreateBookingResponse{BookingID: booking.ID}, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	id := request.Canonical(bookingID)
	if id == "" {
		return nil, fmt.Errorf("%w: booking ID is required", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, busy := s.paying[id]; busy {
		return nil, fmt.Errorf("cancel booking %s: %w", id, ErrPaymentInProgress)
	}

	// Release the slot first, then drop the record
	if err := s.repo.Slot.SetAvailable(ctx, booking.SlotID, true); err != nil {
		s.log.Error("Failed to release slot",
			zap.Error(err),
			zap.String("booking_id", id),
			zap.Int("slot_id", booking.SlotID),
		)
		return nil, fmt.Errorf("release slot %d: %w", booking.SlotID, err)
	}

	removed, err := s.repo.Booking.Remove(ctx, id)
	if err != nil {
		if revertErr := s.repo.Slot.SetAvailable(ctx, booking.SlotID, false); revertErr != nil {
			s.log.Error("Rollback failed: slot released for live booking",
				zap.Error(revertErr),
				zap.String("booking_id", id),
				zap.Int("slot_id", booking.SlotID),
			)
		}
		return nil, fmt.Errorf("remove booking %s: %w", id, err)
	}

	s.log.Info("Booking cancelled",
		zap.String("booking_id", id),
		zap.Int("slot_id", removed.SlotID),
		zap.Bool("paid", removed.Paid),
	)

	resp := response.BookingToResponse(removed)
	return &resp, nil
}

func (s *bookingService) RescheduleBooking(ctx context.Context, bookingID, newSlotID string) (*response.BookingResponse, error) {
	id := request.Canonical(bookingID)
	if id == "" {
		return nil, fmt.Errorf("%w: booking ID is required", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, busy := s.paying[id]; busy {
		return nil, fmt.Errorf("reschedule booking %s: %w", id, ErrPaymentInProgress)
	}

	slotID, err := parseSlotID(newSlotID)
	if err != nil {
		return nil, err
	}

	// The current slot is unavailable too, so rescheduling onto it is rejected here
	if err := s.ensureSlotAvailable(ctx, slotID); err != nil {
		return nil, err
	}

	oldSlotID := booking.SlotID

	updated, err := s.repo.Booking.SetSlot(ctx, id, slotID)
	if err != nil {
		return nil, fmt.Errorf("update booking %s slot: %w", id, err)
	}

	if err := s.repo.Slot.SetAvailable(ctx, oldSlotID, true); err != nil {
		s.revertReschedule(ctx, id, oldSlotID, slotID, false)
		return nil, fmt.Errorf("release slot %d: %w", oldSlotID, err)
	}

	if err := s.repo.Slot.SetAvailable(ctx, slotID, false); err != nil {
		s.revertReschedule(ctx, id, oldSlotID, slotID, true)
		return nil, fmt.Errorf("occupy slot %d: %w", slotID, err)
	}

	s.log.Info("Booking rescheduled",
		zap.String("booking_id", id),
		zap.Int("old_slot_id", oldSlotID),
		zap.Int("new_slot_id", slotID),
	)

	resp := response.BookingToResponse(updated)
	return &resp, nil
}

func (s *bookingService) PayBooking(ctx context.Context, bookingID string) (*response.PaymentResponse, error) {
	id := request.Canonical(bookingID)
	if id == "" {
		return nil, fmt.Errorf("%w: booking ID is required", ErrValidation)
	}

	if err := s.beginPayment(ctx, id); err != nil {
		return nil, err
	}

	receipt, chargeErr := s.charge(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.paying, id)

	if chargeErr != nil {
		s.log.Error("Payment failed",
			zap.Error(chargeErr),
			zap.String("booking_id", id),
			zap.Int64("amount", s.amount),
		)
		return nil, fmt.Errorf("%w: booking %s: %w", ErrPaymentFailed, id, chargeErr)
	}

	if err := s.repo.Booking.MarkPaid(ctx, id, receipt.PaymentIntentID); err != nil {
		s.log.Error("Charge succeeded but booking could not be marked paid",
			zap.Error(err),
			zap.String("booking_id", id),
			zap.String("payment_intent_id", receipt.PaymentIntentID),
		)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("mark booking %s paid: %w", id, ErrBookingNotFound)
		}
		return nil, fmt.Errorf("mark booking %s paid: %w", id, err)
	}

	s.log.Info("Booking paid",
		zap.String("booking_id", id),
		zap.String("payment_intent_id", receipt.PaymentIntentID),
		zap.Int64("amount", receipt.Amount),
		zap.String("currency", receipt.Currency),
	)

	return &response.PaymentResponse{
		Success:         true,
		PaymentIntentID: receipt.PaymentIntentID,
	}, nil
}

// ==================== ADMIN METHODS ====================

func (s *bookingService) ListBookings(ctx context.Context, page *request.PaginatedRequest) (*response.BookingListResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bookings := s.repo.Booking.ListAll(ctx)
	total := len(bookings)

	var meta *response.PaginationMeta
	if page != nil {
		start, end := page.Bounds(total)
		bookings = bookings[start:end]
		meta = response.NewPaginationMeta(page.Page, page.Limit(), total)
	}

	bookingResponses := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		bookingResponses[i] = response.BookingToResponse(booking)
	}

	s.log.Info("Bookings retrieved",
		zap.Int("total", total),
		zap.Int("returned", len(bookingResponses)),
	)

	return &response.BookingListResponse{
		Total:      total,
		Bookings:   bookingResponses,
		Pagination: meta,
	}, nil
}

// ==================== HELPER METHODS ====================

// beginPayment marks id as in flight. A booking in flight cannot be paid,
// cancelled or rescheduled until the charge returns.
func (s *bookingService) beginPayment(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return err
	}

	if booking.Paid {
		return fmt.Errorf("pay booking %s: %w", id, ErrAlreadyPaid)
	}

	if _, busy := s.paying[id]; busy {
		return fmt.Errorf("pay booking %s: %w", id, ErrPaymentInProgress)
	}

	s.paying[id] = struct{}{}
	return nil
}

func (s *bookingService) findBooking(ctx context.Context, id string) (*entity.Booking, error) {
	booking, err := s.repo.Booking.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("booking %s: %w", id, ErrBookingNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find booking %s: %w", id, err)
	}

	return booking, nil
}

func (s *bookingService) charge(ctx context.Context) (*payment.Receipt, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	return s.payments.Charge(ctx, s.amount, s.currency)
}

func (s *bookingService) ensureSlotAvailable(ctx context.Context, slotID int) error {
	slot, err := s.repo.Slot.FindByID(ctx, slotID)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("slot %d: %w", slotID, ErrSlotNotFound)
	}
	if err != nil {
		return fmt.Errorf("find slot %d: %w", slotID, err)
	}

	if !slot.Available {
		return fmt.Errorf("slot %d: %w", slotID, ErrSlotUnavailable)
	}

	return nil
}

// revertReschedule puts the booking back on oldSlotID and restores slot flags.
// oldReleased reports whether oldSlotID had already been freed.
func (s *bookingService) revertReschedule(ctx context.Context, id string, oldSlotID, newSlotID int, oldReleased bool) {
	if _, err := s.repo.Booking.SetSlot(ctx, id, oldSlotID); err != nil {
		s.log.Error("Rollback failed: booking slot not restored",
			zap.Error(err),
			zap.String("booking_id", id),
			zap.Int("old_slot_id", oldSlotID),
			zap.Int("new_slot_id", newSlotID),
		)
	}

	if oldReleased {
		if err := s.repo.Slot.SetAvailable(ctx, oldSlotID, false); err != nil {
			s.log.Error("Rollback failed: old slot left available",
				zap.Error(err),
				zap.String("booking_id", id),
				zap.Int("old_slot_id", oldSlotID),
			)
		}
	}
}

func parseSlotID(raw string) (int, error) {
	canonical := request.Canonical(raw)
	if canonical == "" {
		return 0, fmt.Errorf("%w: slot ID is required", ErrValidation)
	}

	id, err := strconv.Atoi(canonical)
	if err != nil {
		return 0, fmt.Errorf("slot %q: %w", canonical, ErrSlotNotFound)
	}

	return id, nil
}
