package usecase

import (
	"appointment-booking/internal/data/repository"
	"appointment-booking/pkg/payment"
	"appointment-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Appointment AppointmentService
	Booking     BookingService
}

func NewService(repo *repository.Repository, processor payment.Processor, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Appointment: NewAppointmentService(repo.Slot, log),
		Booking:     NewBookingService(repo, processor, config.Payment, log),
	}
}
