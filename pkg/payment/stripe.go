package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"
)

type StripeOptions struct {
	SecretKey     string
	PaymentMethod string // confirmed server side, e.g. pm_card_visa in test mode
	ReturnURL     string

	// Backend overrides the Stripe API backend; nil uses the default.
	Backend stripe.Backend
}

// StripeProcessor charges through a Stripe PaymentIntent: create, then confirm.
type StripeProcessor struct {
	client        paymentintent.Client
	paymentMethod string
	returnURL     string
	log           *zap.Logger
}

func NewStripeProcessor(opts StripeOptions, log *zap.Logger) *StripeProcessor {
	backend := opts.Backend
	if backend == nil {
		backend = stripe.GetBackend(stripe.APIBackend)
	}

	return &StripeProcessor{
		client:        paymentintent.Client{B: backend, Key: opts.SecretKey},
		paymentMethod: opts.PaymentMethod,
		returnURL:     opts.ReturnURL,
		log:           log.With(zap.String("processor", "stripe")),
	}
}

func (p *StripeProcessor) Charge(ctx context.Context, amount int64, currency string) (*Receipt, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("always"),
		},
	}
	params.Context = ctx
	params.SetIdempotencyKey(uuid.NewString())

	intent, err := p.client.New(params)
	if err != nil {
		p.logStripeError("Failed to create payment intent", err, "")
		return nil, fmt.Errorf("%w: create payment intent: %w", ErrPaymentFailed, err)
	}

	confirmParams := &stripe.PaymentIntentConfirmParams{
		PaymentMethod: stripe.String(p.paymentMethod),
		ReturnURL:     stripe.String(p.returnURL),
	}
	confirmParams.Context = ctx

	confirmed, err := p.client.Confirm(intent.ID, confirmParams)
	if err != nil {
		p.logStripeError("Failed to confirm payment intent", err, intent.ID)
		return nil, fmt.Errorf("%w: confirm payment intent %s: %w", ErrPaymentFailed, intent.ID, err)
	}

	switch confirmed.Status {
	case stripe.PaymentIntentStatusCanceled, stripe.PaymentIntentStatusRequiresPaymentMethod:
		p.log.Warn("Payment intent not completed",
			zap.String("payment_intent_id", confirmed.ID),
			zap.String("status", string(confirmed.Status)),
		)
		return nil, fmt.Errorf("%w: payment intent %s is %s", ErrPaymentFailed, confirmed.ID, confirmed.Status)
	}

	p.log.Info("Payment intent confirmed",
		zap.String("payment_intent_id", confirmed.ID),
		zap.String("status", string(confirmed.Status)),
		zap.Int64("amount", amount),
		zap.String("currency", currency),
	)

	return &Receipt{
		PaymentIntentID: confirmed.ID,
		Amount:          amount,
		Currency:        currency,
		Status:          string(confirmed.Status),
	}, nil
}

func (p *StripeProcessor) logStripeError(msg string, err error, intentID string) {
	fields := []zap.Field{zap.Error(err)}
	if intentID != "" {
		fields = append(fields, zap.String("payment_intent_id", intentID))
	}

	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		fields = append(fields,
			zap.String("stripe_type", string(stripeErr.Type)),
			zap.String("stripe_code", string(stripeErr.Code)),
			zap.Int("http_status", stripeErr.HTTPStatusCode),
		)
	}

	p.log.Error(msg, fields...)
}
