package wire

import (
	"appointment-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler) {
	// POST /api/book - Reserve a slot
	r.Post("/api/book", bookingHandler.CreateBooking)

	// POST /api/pay - Charge the consultation fee
	r.Post("/api/pay", bookingHandler.PayBooking)

	// POST /api/cancel - Cancel and release the slot
	r.Post("/api/cancel", bookingHandler.CancelBooking)

	// POST /api/reschedule - Move to another available slot
	r.Post("/api/reschedule", bookingHandler.RescheduleBooking)
}
