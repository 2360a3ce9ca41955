package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mpesaServiceFixtures struct {
	service   *mpesaService
	gateway   *mockMobileMoneyGateway
	mpesaRepo *mockMpesaRepository
	qrService *mockQRCodeService
}

func createTestMpesaService(t *testing.T) mpesaServiceFixtures {
	t.Helper()

	gateway := &mockMobileMoneyGateway{}
	mpesaRepo := &mockMpesaRepository{}
	qrService := &mockQRCodeService{}

	svc := &mpesaService{
		gateway:   gateway,
		mpesaRepo: mpesaRepo,
		qrService: qrService,
		shortCode: "174379",
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	return mpesaServiceFixtures{
		service:   svc,
		gateway:   gateway,
		mpesaRepo: mpesaRepo,
		qrService: qrService,
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"0712345678", "254712345678", false},
		{"+254712345678", "254712345678", false},
		{"254712345678", "254712345678", false},
		{" 0712345678 ", "254712345678", false},
		{"712345678", "", true},
		{"07123", "", true},
		{"07123456xx", "", true},
	}

	for _, tt := range tests {
		got, err := normalizePhone(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)

			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestMpesaService_InitiatePayment_NormalizesPhone(t *testing.T) {
	fx := createTestMpesaService(t)
	ctx := context.Background()

	fx.gateway.On("STKPush", ctx, service.STKPushRequest{Phone: "254712345678", Amount: 100}).
		Return(&service.STKPushResult{MerchantRequestID: "merchant-1"}, nil)

	result, err := fx.service.InitiatePayment(ctx, usecase.STKPushInput{Phone: "0712345678", Amount: 100})

	require.NoError(t, err)
	assert.Equal(t, "merchant-1", result.MerchantRequestID)
}

func TestMpesaService_InitiatePayment_RejectsBadInput(t *testing.T) {
	fx := createTestMpesaService(t)

	_, err := fx.service.InitiatePayment(context.Background(), usecase.STKPushInput{Phone: "0712345678", Amount: 0})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	_, err = fx.service.InitiatePayment(context.Background(), usecase.STKPushInput{Phone: "nope", Amount: 10})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	fx.gateway.AssertNotCalled(t, "STKPush")
}

func TestMpesaService_HandleCallback_PersistsMetadata(t *testing.T) {
	fx := createTestMpesaService(t)
	ctx := context.Background()

	var stored *entity.MpesaTransaction
	fx.mpesaRepo.On("Create", ctx, mock.AnythingOfType("*entity.MpesaTransaction")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*entity.MpesaTransaction)
		}).
		Return(nil)

	err := fx.service.HandleCallback(ctx, usecase.MpesaCallbackInput{
		MerchantRequestID: "merchant-1",
		CheckoutRequestID: "checkout-1",
		ResultCode:        0,
		Items: []usecase.MpesaCallbackItem{
			{Name: "Amount", Value: 150.0},
			{Name: "MpesaReceiptNumber", Value: "QK12XYZ"},
			{Name: "PhoneNumber", Value: 254712345678.0},
			{Name: "TransactionDate", Value: 20240601123000.0},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "merchant-1", stored.MerchantRequestID)
	assert.Equal(t, "QK12XYZ", stored.Receipt)
	assert.InDelta(t, 150.0, stored.Amount, 0.001)
	assert.NotEmpty(t, stored.Phone)
	assert.NotEmpty(t, stored.TransactionDate)
}

func TestMpesaService_HandleCallback_DropsFailedResults(t *testing.T) {
	fx := createTestMpesaService(t)

	err := fx.service.HandleCallback(context.Background(), usecase.MpesaCallbackInput{
		MerchantRequestID: "merchant-1",
		ResultCode:        1032, // cancelled by subscriber
		ResultDesc:        "Request cancelled by user",
	})

	require.NoError(t, err)
	fx.mpesaRepo.AssertNotCalled(t, "Create")
}

func TestMpesaService_HandleCallback_ReplayIsNoop(t *testing.T) {
	fx := createTestMpesaService(t)
	ctx := context.Background()

	fx.mpesaRepo.On("Create", ctx, mock.Anything).Return(repository.ErrDuplicateRecord)

	err := fx.service.HandleCallback(ctx, usecase.MpesaCallbackInput{
		MerchantRequestID: "merchant-1",
		ResultCode:        0,
	})

	require.NoError(t, err)
}

func TestMpesaService_ValidateTransaction(t *testing.T) {
	fx := createTestMpesaService(t)
	ctx := context.Background()

	fx.mpesaRepo.On("FindByMerchantRequestID", ctx, "known").
		Return(&entity.MpesaTransaction{MerchantRequestID: "known"}, nil)
	fx.mpesaRepo.On("FindByMerchantRequestID", ctx, "unknown").
		Return(nil, repository.ErrMpesaTxNotFound)

	tx, err := fx.service.ValidateTransaction(ctx, "known")
	require.NoError(t, err)
	assert.Equal(t, "known", tx.MerchantRequestID)

	_, err = fx.service.ValidateTransaction(ctx, "unknown")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestMpesaService_PayBillQR(t *testing.T) {
	fx := createTestMpesaService(t)

	fx.qrService.On("Generate", "PB|174379|250").Return([]byte{0x89, 'P', 'N', 'G'}, nil)

	png, err := fx.service.PayBillQR(250)

	require.NoError(t, err)
	assert.NotEmpty(t, png)

	_, err = fx.service.PayBillQR(0)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}
