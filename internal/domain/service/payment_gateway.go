package service

import "context"

// ChargeRequest is one card charge. IdempotencyKey makes gateway-side retries
// of the same logical checkout a no-op; a fresh key is generated per attempt
// unless the client supplied one for retry semantics.
type ChargeRequest struct {
	PaymentToken   string // tokenized card from the client
	Email          string
	AmountCents    int64
	Currency       string
	IdempotencyKey string
}

// ChargeResult is the gateway's answer to a successful charge.
type ChargeResult struct {
	TransactionID  string
	BillingStreet  string
	BillingCity    string
	BillingCountry string
	BillingZip     string
}

// PaymentGateway abstracts the card payment provider (customer creation plus
// charge). Implementations must pass the idempotency key through to the
// provider unchanged.
type PaymentGateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// STKPushRequest asks the mobile-money provider to prompt the subscriber's
// phone for payment.
type STKPushRequest struct {
	Phone  string // normalized to 2547XXXXXXXX by the use case
	Amount int
}

// STKPushResult carries the provider's request identifiers; the eventual
// outcome arrives asynchronously on the callback endpoint.
type STKPushResult struct {
	MerchantRequestID string
	CheckoutRequestID string
	ResponseCode      string
	CustomerMessage   string
}

// MobileMoneyGateway abstracts the M-Pesa Daraja API.
type MobileMoneyGateway interface {
	STKPush(ctx context.Context, req STKPushRequest) (*STKPushResult, error)
}
