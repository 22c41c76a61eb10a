package adaptor

import (
	"errors"
	"net/http"

	"appointment-booking/internal/dto/request"
	"appointment-booking/internal/dto/response"
	"appointment-booking/internal/usecase"
	"appointment-booking/pkg/utils"

	"go.uber.org/zap"
)

const (
	msgInvalidBody         = "Invalid request body"
	msgMissingBookFields   = "Missing required fields: name, email, slotId"
	msgInvalidEmail        = "Invalid email format"
	msgSlotUnavailable     = "Slot not available or does not exist"
	msgNewSlotUnavailable  = "New slot not available or does not exist"
	msgMissingBookingID    = "Missing bookingId"
	msgBookingIDRequired   = "Booking ID is required"
	msgMissingRescheduling = "Missing required fields: bookingId, newSlotId"
	msgBookingNotFound     = "Booking not found"
	msgAlreadyPaid         = "Booking already paid"
	msgPaymentInProgress   = "Payment already in progress"
	msgPaymentFailed       = "Payment failed"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/book
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req request.CreateBookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.ResponseBadRequest(w, msgInvalidBody)
		return
	}

	// Validate request
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		h.log.Warn("Create booking validation failed", zap.Any("errors", validationErrors))
		if len(utils.MissingFields(validationErrors)) > 0 {
			utils.ResponseBadRequest(w, msgMissingBookFields)
			return
		}
		utils.ResponseBadRequest(w, msgInvalidEmail)
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create booking", msgSlotUnavailable)
		return
	}

	utils.ResponseSuccess(w, booking)
}

// PayBooking handles POST /api/pay
func (h *BookingHandler) PayBooking(w http.ResponseWriter, r *http.Request) {
	var req request.PayBookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.ResponseBadRequest(w, msgInvalidBody)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, msgMissingBookingID)
		return
	}

	payment, err := h.service.PayBooking(r.Context(), req.BookingID.String())
	if err != nil {
		h.handleServiceError(w, err, "process payment", "")
		return
	}

	utils.ResponseSuccess(w, payment)
}

// CancelBooking handles POST /api/cancel
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	var req request.CancelBookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.ResponseBadRequest(w, msgInvalidBody)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, msgBookingIDRequired)
		return
	}

	booking, err := h.service.CancelBooking(r.Context(), req.BookingID.String())
	if err != nil {
		h.handleServiceError(w, err, "cancel booking", "")
		return
	}

	utils.ResponseSuccess(w, response.BookingActionResponse{
		Success: true,
		Message: "Booking cancelled successfully",
		Booking: *booking,
	})
}

// RescheduleBooking handles POST /api/reschedule
func (h *BookingHandler) RescheduleBooking(w http.ResponseWriter, r *http.Request) {
	var req request.RescheduleBookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.ResponseBadRequest(w, msgInvalidBody)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, msgMissingRescheduling)
		return
	}

	booking, err := h.service.RescheduleBooking(r.Context(), req.BookingID.String(), req.NewSlotID.String())
	if err != nil {
		h.handleServiceError(w, err, "reschedule booking", msgNewSlotUnavailable)
		return
	}

	utils.ResponseSuccess(w, response.BookingActionResponse{
		Success: true,
		Message: "Booking rescheduled successfully",
		Booking: *booking,
	})
}

// handleServiceError maps workflow errors to status codes. Messages are fixed
// strings; the wrapped error only goes to the log. slotMsg is empty for
// operations that never reference a slot, so a slot error there is a 500.
func (h *BookingHandler) handleServiceError(w http.ResponseWriter, err error, operation, slotMsg string) {
	switch {
	case errors.Is(err, usecase.ErrValidation):
		h.log.Warn(operation+" validation failed",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, "Validation failed")

	case errors.Is(err, usecase.ErrBookingNotFound):
		h.log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, msgBookingNotFound)

	case slotMsg != "" && (errors.Is(err, usecase.ErrSlotNotFound) || errors.Is(err, usecase.ErrSlotUnavailable)):
		h.log.Warn(operation+" failed - slot unavailable",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, slotMsg)

	case errors.Is(err, usecase.ErrAlreadyPaid):
		h.log.Warn(operation+" failed - already paid",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, msgAlreadyPaid)

	case errors.Is(err, usecase.ErrPaymentInProgress):
		h.log.Warn(operation+" failed - payment in progress",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseConflict(w, msgPaymentInProgress)

	case errors.Is(err, usecase.ErrPaymentFailed):
		h.log.Error(operation+" failed - payment processor",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, msgPaymentFailed)

	default:
		h.log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Failed to "+operation)
	}
}
