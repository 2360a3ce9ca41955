package entity

import (
	"time"

	"github.com/google/uuid"
)

// MpesaTransaction is a persisted record of a completed Lipa na M-Pesa STK
// payment, built from the Daraja callback metadata.
type MpesaTransaction struct {
	ID                uuid.UUID
	MerchantRequestID string
	CheckoutRequestID string
	Receipt           string
	Amount            float64
	Phone             string
	TransactionDate   string // Daraja-formatted timestamp, kept verbatim
	CreatedAt         time.Time
}
