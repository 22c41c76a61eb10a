package payment

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SimulatedProcessor struct {
	latency time.Duration
	fail    atomic.Bool
	log     *zap.Logger
}

func NewSimulatedProcessor(latency time.Duration, log *zap.Logger) *SimulatedProcessor {
	return &SimulatedProcessor{
		latency: latency,
		log:     log.With(zap.String("processor", "simulated")),
	}
}

// SetFailing makes every following Charge fail until reset.
func (p *SimulatedProcessor) SetFailing(fail bool) {
	p.fail.Store(fail)
}

func (p *SimulatedProcessor) Charge(ctx context.Context, amount int64, currency string) (*Receipt, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: invalid amount %d", ErrPaymentFailed, amount)
	}

	if p.latency > 0 {
		timer := time.NewTimer(p.latency)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", ErrPaymentFailed, ctx.Err())
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPaymentFailed, err)
	}

	if p.fail.Load() {
		p.log.Warn("Simulated charge declined", zap.Int64("amount", amount))
		return nil, fmt.Errorf("%w: %w", ErrPaymentFailed, errors.New("card declined"))
	}

	receipt := &Receipt{
		PaymentIntentID: "pi_sim_" + uuid.NewString(),
		Amount:          amount,
		Currency:        currency,
		Status:          "succeeded",
	}

	p.log.Info("Simulated charge succeeded",
		zap.String("payment_intent_id", receipt.PaymentIntentID),
		zap.Int64("amount", amount),
		zap.String("currency", currency),
	)

	return receipt, nil
}
