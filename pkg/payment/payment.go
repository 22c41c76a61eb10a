// Package payment charges the consultation fee through an external processor.
package payment

import (
	"context"
	"errors"

	"appointment-booking/pkg/utils"

	"go.uber.org/zap"
)

// ErrPaymentFailed wraps every processor-side failure.
var ErrPaymentFailed = errors.New("payment failed")

type Receipt struct {
	PaymentIntentID string
	Amount          int64
	Currency        string
	Status          string
}

// Processor authorizes a charge. Implementations must honour ctx cancellation.
type Processor interface {
	Charge(ctx context.Context, amount int64, currency string) (*Receipt, error)
}

// New returns the Stripe processor when a secret key is configured and the
// simulated processor otherwise.
func New(config utils.PaymentConfig, log *zap.Logger) Processor {
	if config.StripeSecretKey == "" {
		log.Warn("STRIPE_SECRET_KEY not set, using simulated payment processor")
		return NewSimulatedProcessor(config.SimulatedLatency, log)
	}

	return NewStripeProcessor(StripeOptions{
		SecretKey:     config.StripeSecretKey,
		PaymentMethod: config.StripeMethod,
		ReturnURL:     config.StripeReturnURL,
	}, log)
}
