package repository

import (
	"context"
	"fmt"
	"sync"

	"appointment-booking/internal/data/entity"

	"go.uber.org/zap"
)

type SlotRepository interface {
	ListAll(ctx context.Context) []*entity.Slot
	ListAvailable(ctx context.Context) []*entity.Slot
	FindByID(ctx context.Context, id int) (*entity.Slot, error)
	SetAvailable(ctx context.Context, id int, available bool) error
}

type slotRepository struct {
	mu    sync.RWMutex
	order []int
	slots map[int]*entity.Slot
	log   *zap.Logger
}

func NewSlotRepository(seed []entity.Slot, log *zap.Logger) (SlotRepository, error) {
	r := &slotRepository{
		order: make([]int, 0, len(seed)),
		slots: make(map[int]*entity.Slot, len(seed)),
		log:   log.With(zap.String("repository", "slot")),
	}

	for _, s := range seed {
		if _, exists := r.slots[s.ID]; exists {
			return nil, fmt.Errorf("duplicate slot id %d in seed", s.ID)
		}
		slot := s
		r.slots[s.ID] = &slot
		r.order = append(r.order, s.ID)
	}

	r.log.Info("Slot registry seeded", zap.Int("count", len(r.order)))
	return r, nil
}

func (r *slotRepository) ListAll(ctx context.Context) []*entity.Slot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	slots := make([]*entity.Slot, 0, len(r.order))
	for _, id := range r.order {
		slot := *r.slots[id]
		slots = append(slots, &slot)
	}

	return slots
}

func (r *slotRepository) ListAvailable(ctx context.Context) []*entity.Slot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	slots := make([]*entity.Slot, 0, len(r.order))
	for _, id := range r.order {
		if !r.slots[id].Available {
			continue
		}
		slot := *r.slots[id]
		slots = append(slots, &slot)
	}

	return slots
}

func (r *slotRepository) FindByID(ctx context.Context, id int) (*entity.Slot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	slot, ok := r.slots[id]
	if !ok {
		return nil, fmt.Errorf("slot %d: %w", id, ErrNotFound)
	}

	found := *slot
	return &found, nil
}

// SetAvailable is idempotent: writing the current value still succeeds.
func (r *slotRepository) SetAvailable(ctx context.Context, id int, available bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot, ok := r.slots[id]
	if !ok {
		return fmt.Errorf("slot %d: %w", id, ErrNotFound)
	}

	if slot.Available != available {
		slot.Available = available
		r.log.Debug("Slot availability changed",
			zap.Int("slot_id", id),
			zap.Bool("available", available),
		)
	}

	return nil
}
