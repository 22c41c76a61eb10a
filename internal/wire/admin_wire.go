package wire

import (
	"appointment-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAdmin(r chi.Router, adminHandler *adaptor.AdminHandler) {
	// GET /api/admin/bookings - Every booking, optionally paged with ?page=&per_page=
	// No auth on this route.
	r.Get("/api/admin/bookings", adminHandler.ListBookings)
}
