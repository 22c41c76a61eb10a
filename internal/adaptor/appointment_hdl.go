package adaptor

import (
	"net/http"

	"appointment-booking/internal/usecase"
	"appointment-booking/pkg/utils"

	"go.uber.org/zap"
)

type AppointmentHandler struct {
	service usecase.AppointmentService
	log     *zap.Logger
}

func NewAppointmentHandler(service usecase.AppointmentService, log *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{
		service: service,
		log:     log.With(zap.String("handler", "appointment")),
	}
}

// ListAvailable handles GET /api/appointments
func (h *AppointmentHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	slots, err := h.service.ListAvailable(r.Context())
	if err != nil {
		h.log.Error("Failed to fetch appointments", zap.Error(err))
		utils.ResponseInternalError(w, "Failed to fetch appointments")
		return
	}

	utils.ResponseSuccess(w, slots)
}
