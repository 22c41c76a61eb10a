package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"appointment-booking/internal/data/repository"
	"appointment-booking/internal/dto/request"
	"appointment-booking/pkg/payment"
	"appointment-booking/pkg/utils"

	"go.uber.org/zap/zaptest"
)

// blockingProcessor holds every charge until release is closed.
type blockingProcessor struct {
	started chan struct{}
	release chan struct{}
	err     error
}

func newBlockingProcessor() *blockingProcessor {
	return &blockingProcessor{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
}

func (p *blockingProcessor) Charge(ctx context.Context, amount int64, currency string) (*payment.Receipt, error) {
	p.started <- struct{}{}
	select {
	case <-p.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if p.err != nil {
		return nil, p.err
	}
	return &payment.Receipt{PaymentIntentID: "pi_blocked", Amount: amount, Currency: currency, Status: "succeeded"}, nil
}

type fixture struct {
	repo      *repository.Repository
	service   BookingService
	processor *payment.SimulatedProcessor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := zaptest.NewLogger(t)
	repo, err := repository.NewRepository(repository.DefaultSlots(), log)
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}

	processor := payment.NewSimulatedProcessor(0, log)
	return &fixture{
		repo:      repo,
		service:   NewBookingService(repo, processor, testPaymentConfig(), log),
		processor: processor,
	}
}

func testPaymentConfig() utils.PaymentConfig {
	return utils.PaymentConfig{Amount: 5000, Currency: "usd", Timeout: 5 * time.Second}
}

func (f *fixture) book(t *testing.T, slotID string) string {
	t.Helper()

	resp, err := f.service.CreateBooking(context.Background(), &request.CreateBookingRequest{
		Name:   "Jane",
		Email:  "jane@x.com",
		SlotID: request.ID(slotID),
	})
	if err != nil {
		t.Fatalf("CreateBooking(slot %s): %v", slotID, err)
	}
	return resp.BookingID
}

func (f *fixture) slotAvailable(t *testing.T, id int) bool {
	t.Helper()

	slot, err := f.repo.Slot.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("FindByID(%d): %v", id, err)
	}
	return slot.Available
}

// assertOccupancy checks that each slot is unavailable exactly when a booking holds it.
func (f *fixture) assertOccupancy(t *testing.T) {
	t.Helper()

	ctx := context.Background()
	held := map[int]int{}
	for _, b := range f.repo.Booking.ListAll(ctx) {
		held[b.SlotID]++
	}

	for _, slot := range f.repo.Slot.ListAll(ctx) {
		if held[slot.ID] > 1 {
			t.Fatalf("slot %d held by %d bookings", slot.ID, held[slot.ID])
		}
		if slot.Available == (held[slot.ID] == 1) {
			t.Fatalf("slot %d: available=%v but held by %d bookings", slot.ID, slot.Available, held[slot.ID])
		}
	}
}

func TestCreateBookingOccupiesSlot(t *testing.T) {
	f := newFixture(t)

	id := f.book(t, "1")
	if id == "" {
		t.Fatal("expected booking id")
	}

	if f.slotAvailable(t, 1) {
		t.Fatal("slot 1 should be unavailable after booking")
	}

	booking, err := f.repo.Booking.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if booking.Paid || booking.SlotID != 1 || booking.Name != "Jane" {
		t.Fatalf("unexpected booking %+v", booking)
	}
	f.assertOccupancy(t)
}

func TestCreateBookingErrors(t *testing.T) {
	tests := []struct {
		name    string
		req     request.CreateBookingRequest
		wantErr error
	}{
		{"missing name", request.CreateBookingRequest{Email: "a@b.co", SlotID: "1"}, ErrValidation},
		{"blank name", request.CreateBookingRequest{Name: "   ", Email: "a@b.co", SlotID: "1"}, ErrValidation},
		{"missing slot", request.CreateBookingRequest{Name: "A", Email: "a@b.co"}, ErrValidation},
		{"bad email", request.CreateBookingRequest{Name: "A", Email: "not-an-email", SlotID: "1"}, ErrValidation},
		{"unknown slot", request.CreateBookingRequest{Name: "A", Email: "a@b.co", SlotID: "99"}, ErrSlotNotFound},
		{"non numeric slot", request.CreateBookingRequest{Name: "A", Email: "a@b.co", SlotID: "abc"}, ErrSlotNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			req := tt.req
			_, err := f.service.CreateBooking(context.Background(), &req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if got := f.repo.Booking.Count(context.Background()); got != 0 {
				t.Fatalf("failed create must not add a booking, have %d", got)
			}
		})
	}
}

func TestCreateBookingTakenSlot(t *testing.T) {
	f := newFixture(t)
	f.book(t, "1")

	_, err := f.service.CreateBooking(context.Background(), &request.CreateBookingRequest{
		Name: "Bob", Email: "bob@x.com", SlotID: "1",
	})
	if !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("expected ErrSlotUnavailable, got %v", err)
	}
	if got := f.repo.Booking.Count(context.Background()); got != 1 {
		t.Fatalf("expected 1 booking, got %d", got)
	}
}

func TestConcurrentCreateSameSlot(t *testing.T) {
	f := newFixture(t)

	const workers = 20
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.CreateBooking(context.Background(), &request.CreateBookingRequest{
				Name: "Jane", Email: "jane@x.com", SlotID: "2",
			})
			if err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			} else if !errors.Is(err, ErrSlotUnavailable) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if success != 1 {
		t.Fatalf("expected exactly one booking for slot 2, got %d", success)
	}
	f.assertOccupancy(t)
}

func TestPayBooking(t *testing.T) {
	f := newFixture(t)
	id := f.book(t, "1")

	resp, err := f.service.PayBooking(context.Background(), id)
	if err != nil {
		t.Fatalf("PayBooking: %v", err)
	}
	if !resp.Success || resp.PaymentIntentID == "" {
		t.Fatalf("unexpected payment response %+v", resp)
	}

	booking, _ := f.repo.Booking.FindByID(context.Background(), id)
	if !booking.Paid || booking.PaymentIntentID != resp.PaymentIntentID {
		t.Fatalf("booking not marked paid: %+v", booking)
	}

	if _, err := f.service.PayBooking(context.Background(), id); !errors.Is(err, ErrAlreadyPaid) {
		t.Fatalf("second payment: expected ErrAlreadyPaid, got %v", err)
	}
}

func TestPayBookingErrors(t *testing.T) {
	f := newFixture(t)

	if _, err := f.service.PayBooking(context.Background(), ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("empty id: expected ErrValidation, got %v", err)
	}
	if _, err := f.service.PayBooking(context.Background(), "missing"); !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("unknown id: expected ErrBookingNotFound, got %v", err)
	}
}

func TestPayBookingProcessorFailure(t *testing.T) {
	f := newFixture(t)
	id := f.book(t, "1")

	f.processor.SetFailing(true)
	if _, err := f.service.PayBooking(context.Background(), id); !errors.Is(err, ErrPaymentFailed) {
		t.Fatalf("expected ErrPaymentFailed, got %v", err)
	}

	booking, _ := f.repo.Booking.FindByID(context.Background(), id)
	if booking.Paid {
		t.Fatal("failed payment must leave booking unpaid")
	}

	// the booking is not stuck in flight after a failure
	f.processor.SetFailing(false)
	if _, err := f.service.PayBooking(context.Background(), id); err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
}

func TestPaymentInFlightBlocksOtherMutations(t *testing.T) {
	log := zaptest.NewLogger(t)
	repo, err := repository.NewRepository(repository.DefaultSlots(), log)
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}

	processor := newBlockingProcessor()
	service := NewBookingService(repo, processor, testPaymentConfig(), log)

	resp, err := service.CreateBooking(context.Background(), &request.CreateBookingRequest{
		Name: "Jane", Email: "jane@x.com", SlotID: "1",
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	id := resp.BookingID

	done := make(chan error, 1)
	go func() {
		_, err := service.PayBooking(context.Background(), id)
		done <- err
	}()
	<-processor.started

	if _, err := service.PayBooking(context.Background(), id); !errors.Is(err, ErrPaymentInProgress) {
		t.Fatalf("concurrent pay: expected ErrPaymentInProgress, got %v", err)
	}
	if _, err := service.CancelBooking(context.Background(), id); !errors.Is(err, ErrPaymentInProgress) {
		t.Fatalf("cancel during payment: expected ErrPaymentInProgress, got %v", err)
	}
	if _, err := service.RescheduleBooking(context.Background(), id, "2"); !errors.Is(err, ErrPaymentInProgress) {
		t.Fatalf("reschedule during payment: expected ErrPaymentInProgress, got %v", err)
	}

	// other bookings are not blocked by the charge
	if _, err := service.CreateBooking(context.Background(), &request.CreateBookingRequest{
		Name: "Bob", Email: "bob@x.com", SlotID: "3",
	}); err != nil {
		t.Fatalf("create during payment: %v", err)
	}

	close(processor.release)
	if err := <-done; err != nil {
		t.Fatalf("PayBooking: %v", err)
	}

	booking, _ := repo.Booking.FindByID(context.Background(), id)
	if !booking.Paid || booking.PaymentIntentID != "pi_blocked" {
		t.Fatalf("booking not paid after release: %+v", booking)
	}
}

func TestPayBookingTimeout(t *testing.T) {
	log := zaptest.NewLogger(t)
	repo, _ := repository.NewRepository(repository.DefaultSlots(), log)

	config := testPaymentConfig()
	config.Timeout = 20 * time.Millisecond
	service := NewBookingService(repo, newBlockingProcessor(), config, log)

	resp, err := service.CreateBooking(context.Background(), &request.CreateBookingRequest{
		Name: "Jane", Email: "jane@x.com", SlotID: "1",
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	_, err = service.PayBooking(context.Background(), resp.BookingID)
	if !errors.Is(err, ErrPaymentFailed) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected timed out payment failure, got %v", err)
	}
}

func TestCancelBooking(t *testing.T) {
	f := newFixture(t)
	id := f.book(t, "1")

	cancelled, err := f.service.CancelBooking(context.Background(), id)
	if err != nil {
		t.Fatalf("CancelBooking: %v", err)
	}
	if cancelled.ID != id || cancelled.SlotID != 1 {
		t.Fatalf("unexpected cancelled snapshot %+v", cancelled)
	}

	if !f.slotAvailable(t, 1) {
		t.Fatal("slot 1 should be available after cancel")
	}
	if _, err := f.service.CancelBooking(context.Background(), id); !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("second cancel: expected ErrBookingNotFound, got %v", err)
	}
	if _, err := f.service.PayBooking(context.Background(), id); !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("pay after cancel: expected ErrBookingNotFound, got %v", err)
	}

	// the freed slot can be booked again
	f.book(t, "1")
	f.assertOccupancy(t)
}

func TestCancelPaidBooking(t *testing.T) {
	f := newFixture(t)
	id := f.book(t, "2")

	if _, err := f.service.PayBooking(context.Background(), id); err != nil {
		t.Fatalf("PayBooking: %v", err)
	}

	cancelled, err := f.service.CancelBooking(context.Background(), id)
	if err != nil {
		t.Fatalf("CancelBooking: %v", err)
	}
	if !cancelled.Paid {
		t.Fatal("snapshot should keep paid flag")
	}
	if !f.slotAvailable(t, 2) {
		t.Fatal("slot 2 should be released")
	}
}

func TestRescheduleBooking(t *testing.T) {
	f := newFixture(t)
	id := f.book(t, "1")

	if _, err := f.service.PayBooking(context.Background(), id); err != nil {
		t.Fatalf("PayBooking: %v", err)
	}

	updated, err := f.service.RescheduleBooking(context.Background(), id, "3")
	if err != nil {
		t.Fatalf("RescheduleBooking: %v", err)
	}
	if updated.SlotID != 3 || !updated.Paid {
		t.Fatalf("unexpected booking after reschedule %+v", updated)
	}

	if !f.slotAvailable(t, 1) || f.slotAvailable(t, 3) {
		t.Fatal("slot flags not swapped")
	}
	f.assertOccupancy(t)
}

func TestRescheduleBookingErrors(t *testing.T) {
	f := newFixture(t)
	id := f.book(t, "1")
	f.book(t, "2")

	tests := []struct {
		name      string
		bookingID string
		slotID    string
		wantErr   error
	}{
		{"missing booking id", "", "3", ErrValidation},
		{"unknown booking", "missing", "3", ErrBookingNotFound},
		{"missing slot", id, "", ErrValidation},
		{"unknown slot", id, "99", ErrSlotNotFound},
		{"taken slot", id, "2", ErrSlotUnavailable},
		{"same slot", id, "1", ErrSlotUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.RescheduleBooking(context.Background(), tt.bookingID, tt.slotID)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	booking, _ := f.repo.Booking.FindByID(context.Background(), id)
	if booking.SlotID != 1 {
		t.Fatalf("failed reschedules must leave booking on slot 1, got %d", booking.SlotID)
	}
	f.assertOccupancy(t)
}

func TestListBookings(t *testing.T) {
	f := newFixture(t)
	first := f.book(t, "1")
	second := f.book(t, "3")

	list, err := f.service.ListBookings(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListBookings: %v", err)
	}
	if list.Total != 2 || len(list.Bookings) != 2 {
		t.Fatalf("expected 2 bookings, got %+v", list)
	}
	if list.Bookings[0].ID != first || list.Bookings[1].ID != second {
		t.Fatal("bookings not listed in creation order")
	}
}

func TestListBookingsPaged(t *testing.T) {
	f := newFixture(t)
	var ids []string
	for _, slot := range []string{"1", "2", "3"} {
		ids = append(ids, f.book(t, slot))
	}

	list, err := f.service.ListBookings(context.Background(), &request.PaginatedRequest{Page: 2, PerPage: 2})
	if err != nil {
		t.Fatalf("ListBookings: %v", err)
	}
	if list.Total != 3 || len(list.Bookings) != 1 || list.Bookings[0].ID != ids[2] {
		t.Fatalf("unexpected page %+v", list)
	}
	if list.Pagination == nil || list.Pagination.TotalPages != 2 || list.Pagination.Page != 2 {
		t.Fatalf("unexpected pagination %+v", list.Pagination)
	}

	// a page past the end is empty, not an error
	list, err = f.service.ListBookings(context.Background(), &request.PaginatedRequest{Page: 5, PerPage: 2})
	if err != nil {
		t.Fatalf("ListBookings: %v", err)
	}
	if list.Total != 3 || len(list.Bookings) != 0 {
		t.Fatalf("expected empty page, got %+v", list)
	}
}

func TestBookRescheduleCancelRoundTrip(t *testing.T) {
	f := newFixture(t)
	id := f.book(t, "1")

	if _, err := f.service.RescheduleBooking(context.Background(), id, "2"); err != nil {
		t.Fatalf("RescheduleBooking: %v", err)
	}
	if _, err := f.service.CancelBooking(context.Background(), id); err != nil {
		t.Fatalf("CancelBooking: %v", err)
	}

	if !f.slotAvailable(t, 1) || !f.slotAvailable(t, 2) {
		t.Fatal("slots 1 and 2 should both be available")
	}
	if _, err := f.repo.Booking.FindByID(context.Background(), id); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("booking should be gone, got %v", err)
	}
	f.assertOccupancy(t)
}
