package postgres

import (
	"context"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/errors"
	"storefront/internal/infra/persistence/model"

	"gorm.io/gorm"
)

// mpesaRepository implements repository.MpesaRepository.
type mpesaRepository struct {
	db *gorm.DB
}

// NewMpesaRepository is the constructor for mpesaRepository.
func NewMpesaRepository(db *gorm.DB) repository.MpesaRepository {
	return &mpesaRepository{db: db}
}

func (repo *mpesaRepository) Create(ctx context.Context, tx *entity.MpesaTransaction) error {
	txM := fromMpesaDomain(tx)
	if err := repo.db.WithContext(ctx).Create(txM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateRecord
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create mpesa transaction")
	}

	*tx = *toMpesaDomain(txM)

	return nil
}

func (repo *mpesaRepository) FindByMerchantRequestID(ctx context.Context, merchantRequestID string) (*entity.MpesaTransaction, error) {
	var txM model.MpesaTransactionModel
	err := repo.db.WithContext(ctx).
		Where("merchant_request_id = ?", merchantRequestID).
		First(&txM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrMpesaTxNotFound
		}

		return nil, errors.Wrap(err, "failed to find mpesa transaction")
	}

	return toMpesaDomain(&txM), nil
}

func (repo *mpesaRepository) FindAll(ctx context.Context) ([]*entity.MpesaTransaction, error) {
	var txModels []model.MpesaTransactionModel
	err := repo.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&txModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list mpesa transactions")
	}

	txs := make([]*entity.MpesaTransaction, 0, len(txModels))
	for i := range txModels {
		txs = append(txs, toMpesaDomain(&txModels[i]))
	}

	return txs, nil
}

// --- Mapper Functions ---

func toMpesaDomain(data *model.MpesaTransactionModel) *entity.MpesaTransaction {
	if data == nil {
		return nil
	}

	return &entity.MpesaTransaction{
		ID:                data.ID,
		MerchantRequestID: data.MerchantRequestID,
		CheckoutRequestID: data.CheckoutRequestID,
		Receipt:           data.Receipt,
		Amount:            data.Amount,
		Phone:             data.Phone,
		TransactionDate:   data.TransactionDate,
		CreatedAt:         data.CreatedAt,
	}
}

func fromMpesaDomain(data *entity.MpesaTransaction) *model.MpesaTransactionModel {
	if data == nil {
		return nil
	}

	return &model.MpesaTransactionModel{
		ID:                data.ID,
		MerchantRequestID: data.MerchantRequestID,
		CheckoutRequestID: data.CheckoutRequestID,
		Receipt:           data.Receipt,
		Amount:            data.Amount,
		Phone:             data.Phone,
		TransactionDate:   data.TransactionDate,
	}
}
