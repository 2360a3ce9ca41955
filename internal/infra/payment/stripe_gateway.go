// Package payment holds the card and mobile-money gateway adapters.
package payment

import (
	"context"
	"log/slog"

	"storefront/config"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	"storefront/internal/errors"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

// stripeGateway implements service.PaymentGateway on the Stripe API.
type stripeGateway struct {
	api    *client.API
	logger *slog.Logger
}

// NewStripeGateway is the constructor for stripeGateway.
func NewStripeGateway(cfg *config.Config, logger *slog.Logger) (service.PaymentGateway, error) {
	if cfg.Stripe == nil || cfg.Stripe.SecretKey == "" {
		return nil, errors.New("stripe secret key is required")
	}

	api := &client.API{}
	api.Init(cfg.Stripe.SecretKey, nil)

	return &stripeGateway{api: api, logger: logger}, nil
}

// classifyStripeError keeps the caller's mistakes apart from gateway trouble.
// A rejected card or a bad token is answered with a payment failure; anything
// without a Stripe error type (timeouts, connection resets) and Stripe's own
// server-side errors count as the upstream being down.
func classifyStripeError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		switch stripeErr.Type {
		case stripe.ErrorTypeCard, stripe.ErrorTypeInvalidRequest:
			return domainerrors.ErrPaymentFailed
		}
	}

	return domainerrors.ErrUpstreamFailure
}

// Charge creates a customer for the checkout email, then charges the tokenized
// card. The idempotency key is forwarded unchanged so a retried attempt cannot
// double-charge.
func (g *stripeGateway) Charge(ctx context.Context, req service.ChargeRequest) (*service.ChargeResult, error) {
	customerParams := &stripe.CustomerParams{
		Params: stripe.Params{Context: ctx},
		Email:  stripe.String(req.Email),
	}
	customer, err := g.api.Customers.New(customerParams)
	if err != nil {
		g.logger.ErrorContext(ctx, "stripe customer creation failed", slog.Any("error", err))

		return nil, classifyStripeError(err)
	}

	chargeParams := &stripe.ChargeParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(req.AmountCents),
		Currency: stripe.String(req.Currency),
		Customer: stripe.String(customer.ID),
	}
	if err := chargeParams.SetSource(req.PaymentToken); err != nil {
		return nil, errors.Wrap(err, "set charge source")
	}
	chargeParams.SetIdempotencyKey(req.IdempotencyKey)

	charge, err := g.api.Charges.New(chargeParams)
	if err != nil {
		g.logger.ErrorContext(ctx, "stripe charge failed", slog.Any("error", err))

		return nil, classifyStripeError(err)
	}

	result := &service.ChargeResult{TransactionID: charge.ID}
	if charge.BillingDetails != nil && charge.BillingDetails.Address != nil {
		addr := charge.BillingDetails.Address
		result.BillingStreet = addr.Line1
		result.BillingCity = addr.City
		result.BillingCountry = addr.Country
		result.BillingZip = addr.PostalCode
	}

	return result, nil
}
