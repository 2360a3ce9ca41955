package usecase

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/service"
)

// STKPushInput asks for an M-Pesa payment prompt on the subscriber's phone.
// Phone accepts local formats (07..., +254..., 254...); it is normalized
// before the Daraja call.
type STKPushInput struct {
	Phone  string
	Amount int
}

// MpesaCallbackItem is one name/value pair from the Daraja callback metadata.
type MpesaCallbackItem struct {
	Name  string `json:"Name"`
	Value any    `json:"Value"`
}

// MpesaCallbackInput mirrors the body Daraja posts to the callback URL.
type MpesaCallbackInput struct {
	MerchantRequestID string
	CheckoutRequestID string
	ResultCode        int
	ResultDesc        string
	Items             []MpesaCallbackItem
}

// MpesaUsecase covers the Lipa na M-Pesa payment flow.
type MpesaUsecase interface {
	InitiatePayment(ctx context.Context, input STKPushInput) (*service.STKPushResult, error)

	// HandleCallback persists the completed transaction built from the
	// callback metadata. Failed results are logged and dropped.
	HandleCallback(ctx context.Context, input MpesaCallbackInput) error

	// ValidateTransaction looks a persisted transaction up by its merchant
	// request id, the reference handed out at initiation time.
	ValidateTransaction(ctx context.Context, merchantRequestID string) (*entity.MpesaTransaction, error)

	ListTransactions(ctx context.Context) ([]*entity.MpesaTransaction, error)

	// PayBillQR renders the pay-bill payload for the given amount as a PNG QR
	// code.
	PayBillQR(amount int) ([]byte, error)
}
