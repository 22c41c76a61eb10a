package usecase

import (
	"context"

	"appointment-booking/internal/data/repository"
	"appointment-booking/internal/dto/response"

	"go.uber.org/zap"
)

type AppointmentService interface {
	ListAvailable(ctx context.Context) ([]response.SlotResponse, error)
}

type appointmentService struct {
	slots repository.SlotRepository
	log   *zap.Logger
}

func NewAppointmentService(slots repository.SlotRepository, log *zap.Logger) AppointmentService {
	return &appointmentService{
		slots: slots,
		log:   log.With(zap.String("service", "appointment")),
	}
}

func (s *appointmentService) ListAvailable(ctx context.Context) ([]response.SlotResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slots := s.slots.ListAvailable(ctx)

	slotResponses := make([]response.SlotResponse, len(slots))
	for i, slot := range slots {
		slotResponses[i] = response.SlotToResponse(slot)
	}

	s.log.Debug("Available slots retrieved", zap.Int("count", len(slots)))
	return slotResponses, nil
}
