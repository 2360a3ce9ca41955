package postgres

import (
	"context"

	"storefront/config"
	"storefront/internal/domain/entity"
	"storefront/internal/domain/query"
	"storefront/internal/domain/repository"
	"storefront/internal/errors"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var orderColumns = map[string]string{
	"user_id":        "user_id",
	"status":         "status",
	"total":          "total",
	"transaction_id": "transaction_id",
	"paid_at":        "paid_at",
	"created_at":     "created_at",
	"updated_at":     "updated_at",
}

// orderRepository implements repository.OrderRepository.
type orderRepository struct {
	*collection[entity.Order, model.OrderModel]
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB, cfg *config.Config) repository.OrderRepository {
	return newOrderRepository(db, cfg)
}

func newOrderRepository(db *gorm.DB, cfg *config.Config) *orderRepository {
	return &orderRepository{
		collection: &collection[entity.Order, model.OrderModel]{
			db: db,
			opts: query.Options{
				SearchField:  "transaction_id",
				DefaultLimit: cfg.API.DefaultPageSize,
				Fields:       fieldSet(orderColumns),
			},
			columns:    orderColumns,
			preloads:   []string{"Items"},
			toDomain:   toOrderDomain,
			fromDomain: fromOrderDomain,
			notFound:   repository.ErrOrderNotFound,
		},
	}
}

func (repo *orderRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	var orderModels []model.OrderModel
	err := repo.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orderModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders for user")
	}

	orders := make([]*entity.Order, 0, len(orderModels))
	for i := range orderModels {
		orders = append(orders, toOrderDomain(&orderModels[i]))
	}

	return orders, nil
}

func (repo *orderRepository) FindByTransactionID(ctx context.Context, txID string) (*entity.Order, error) {
	var orderM model.OrderModel
	err := repo.db.WithContext(ctx).
		Preload("Items").
		Where("transaction_id = ?", txID).
		First(&orderM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order by transaction id")
	}

	return toOrderDomain(&orderM), nil
}

func (repo *orderRepository) HasUserOrderedProduct(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	var count int64
	err := repo.db.WithContext(ctx).
		Model(&model.OrderItemModel{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ? AND order_items.product_id = ?", userID, productID).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "failed to check ordered product")
	}

	return count > 0, nil
}

// --- Mapper Functions ---

func toOrderDomain(data *model.OrderModel) *entity.Order {
	if data == nil {
		return nil
	}

	items := make([]entity.OrderItem, 0, len(data.Items))
	for _, item := range data.Items {
		items = append(items, entity.OrderItem{
			ID:        item.ID,
			OrderID:   item.OrderID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}

	return &entity.Order{
		ID:     data.ID,
		UserID: data.UserID,
		Items:  items,
		ShippingAddress: entity.ShippingAddress{
			Street:  data.ShippingStreet,
			City:    data.ShippingCity,
			Country: data.ShippingCountry,
			Pincode: data.ShippingPincode,
		},
		Subtotal:      data.Subtotal,
		Tax:           data.Tax,
		ShippingFee:   data.ShippingFee,
		Total:         data.Total,
		TransactionID: data.TransactionID,
		Status:        entity.OrderStatus(data.Status),
		PaidAt:        data.PaidAt,
		DeliveredAt:   data.DeliveredAt,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}

func fromOrderDomain(data *entity.Order) *model.OrderModel {
	if data == nil {
		return nil
	}

	items := make([]model.OrderItemModel, 0, len(data.Items))
	for _, item := range data.Items {
		items = append(items, model.OrderItemModel{
			ID:        item.ID,
			OrderID:   item.OrderID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}

	return &model.OrderModel{
		ID:              data.ID,
		UserID:          data.UserID,
		Subtotal:        data.Subtotal,
		Tax:             data.Tax,
		ShippingFee:     data.ShippingFee,
		Total:           data.Total,
		TransactionID:   data.TransactionID,
		Status:          string(data.Status),
		ShippingStreet:  data.ShippingAddress.Street,
		ShippingCity:    data.ShippingAddress.City,
		ShippingCountry: data.ShippingAddress.Country,
		ShippingPincode: data.ShippingAddress.Pincode,
		PaidAt:          data.PaidAt,
		DeliveredAt:     data.DeliveredAt,
		Items:           items,
	}
}
