package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/errors"
	"storefront/internal/usecase"

	"go.uber.org/fx"
)

// mpesaService implements the MpesaUsecase interface.
type mpesaService struct {
	gateway   service.MobileMoneyGateway
	mpesaRepo repository.MpesaRepository
	qrService service.QRCodeService
	shortCode string
	logger    *slog.Logger
}

// MpesaServiceParams holds dependencies for mpesaService, injected by Fx.
type MpesaServiceParams struct {
	fx.In

	Gateway   service.MobileMoneyGateway
	MpesaRepo repository.MpesaRepository
	QRService service.QRCodeService
	Config    *config.Config
	Logger    *slog.Logger
}

// NewMpesaService is the constructor for mpesaService.
func NewMpesaService(params MpesaServiceParams) usecase.MpesaUsecase {
	shortCode := ""
	if params.Config.Mpesa != nil {
		shortCode = params.Config.Mpesa.ShortCode
	}

	return &mpesaService{
		gateway:   params.Gateway,
		mpesaRepo: params.MpesaRepo,
		qrService: params.QRService,
		shortCode: shortCode,
		logger:    params.Logger,
	}
}

func (srv *mpesaService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *mpesaService) InitiatePayment(ctx context.Context, input usecase.STKPushInput) (*service.STKPushResult, error) {
	if input.Amount < 1 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("amount must be at least 1")
	}

	phone, err := normalizePhone(input.Phone)
	if err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	result, err := srv.gateway.STKPush(ctx, service.STKPushRequest{
		Phone:  phone,
		Amount: input.Amount,
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("STK push initiated",
		slog.String("merchantRequestID", result.MerchantRequestID),
		slog.String("phone", phone))

	return result, nil
}

func (srv *mpesaService) HandleCallback(ctx context.Context, input usecase.MpesaCallbackInput) error {
	if input.ResultCode != 0 {
		// The subscriber declined or the push timed out; nothing to persist.
		srv.log(ctx).Info("STK push not completed",
			slog.String("merchantRequestID", input.MerchantRequestID),
			slog.Int("resultCode", input.ResultCode),
			slog.String("resultDesc", input.ResultDesc))

		return nil
	}

	tx := &entity.MpesaTransaction{
		MerchantRequestID: input.MerchantRequestID,
		CheckoutRequestID: input.CheckoutRequestID,
	}
	for _, item := range input.Items {
		switch item.Name {
		case "Amount":
			if amount, ok := item.Value.(float64); ok {
				tx.Amount = amount
			}
		case "MpesaReceiptNumber":
			tx.Receipt = fmt.Sprint(item.Value)
		case "PhoneNumber":
			tx.Phone = fmt.Sprint(item.Value)
		case "TransactionDate":
			tx.TransactionDate = fmt.Sprint(item.Value)
		}
	}

	if err := srv.mpesaRepo.Create(ctx, tx); err != nil {
		// Daraja retries callbacks; a replay of one we already stored is fine.
		if errors.Is(err, repository.ErrDuplicateRecord) {
			return nil
		}

		return errors.Wrap(err, "failed to persist mpesa transaction")
	}

	srv.log(ctx).Info("M-Pesa transaction recorded",
		slog.String("merchantRequestID", tx.MerchantRequestID),
		slog.String("receipt", tx.Receipt))

	return nil
}

func (srv *mpesaService) ValidateTransaction(ctx context.Context, merchantRequestID string) (*entity.MpesaTransaction, error) {
	tx, err := srv.mpesaRepo.FindByMerchantRequestID(ctx, merchantRequestID)
	if err != nil {
		if errors.Is(err, repository.ErrMpesaTxNotFound) {
			return nil, domainerrors.ErrNotFound
		}

		return nil, errors.Wrap(err, "failed to validate mpesa transaction")
	}

	return tx, nil
}

func (srv *mpesaService) ListTransactions(ctx context.Context) ([]*entity.MpesaTransaction, error) {
	txs, err := srv.mpesaRepo.FindAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list mpesa transactions")
	}

	return txs, nil
}

func (srv *mpesaService) PayBillQR(amount int) ([]byte, error) {
	if amount < 1 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("amount must be at least 1")
	}

	payload := fmt.Sprintf("PB|%s|%d", srv.shortCode, amount)

	return srv.qrService.Generate(payload)
}

// normalizePhone converts local Kenyan formats (07..., 01..., +254..., 254...)
// to the 254XXXXXXXXX form Daraja expects.
func normalizePhone(raw string) (string, error) {
	phone := strings.TrimSpace(raw)
	phone = strings.TrimPrefix(phone, "+")

	switch {
	case strings.HasPrefix(phone, "254"):
		// already normalized
	case strings.HasPrefix(phone, "0"):
		phone = "254" + phone[1:]
	default:
		return "", errors.New("phone must start with 0, 254 or +254")
	}

	if len(phone) != 12 {
		return "", errors.New("phone must have 12 digits after normalization")
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return "", errors.New("phone must contain digits only")
		}
	}

	return phone, nil
}
