package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"appointment-booking/internal/usecase"

	"go.uber.org/zap"
)

// maxBodyBytes caps request bodies; every payload here is a few short fields.
const maxBodyBytes = 1 << 16

type Handler struct {
	Appointment *AppointmentHandler
	Booking     *BookingHandler
	Admin       *AdminHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Appointment: NewAppointmentHandler(service.Appointment, log),
		Booking:     NewBookingHandler(service.Booking, log),
		Admin:       NewAdminHandler(service.Booking, log),
	}
}

// decodeJSON reads the request body into dst. An empty body leaves dst zeroed
// so the caller reports missing fields rather than a syntax error.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
