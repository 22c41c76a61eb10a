package wire

import (
	"appointment-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAppointment(r chi.Router, appointmentHandler *adaptor.AppointmentHandler) {
	// GET /api/appointments - List available slots
	r.Get("/api/appointments", appointmentHandler.ListAvailable)
}
