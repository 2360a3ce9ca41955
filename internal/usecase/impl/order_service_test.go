package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type orderServiceFixtures struct {
	service     *orderService
	orderRepo   *mockOrderRepository
	productRepo *mockProductRepository
	gateway     *mockPaymentGateway
	now         time.Time
}

func createTestOrderService(t *testing.T) orderServiceFixtures {
	t.Helper()

	orderRepo := &mockOrderRepository{}
	productRepo := &mockProductRepository{}
	gateway := &mockPaymentGateway{}
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	svc := &orderService{
		txManager:   &stubTxManager{factory: &stubFactory{orderRepo: orderRepo, productRepo: productRepo}},
		orderRepo:   orderRepo,
		productRepo: productRepo,
		gateway:     gateway,
		currency:    "usd",
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:         func() time.Time { return now },
	}

	return orderServiceFixtures{
		service:     svc,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		gateway:     gateway,
		now:         now,
	}
}

func TestOrderService_PlaceOrder_RecomputesPricesFromCatalog(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()
	productID := uuid.New()
	userID := uuid.New()

	fx.productRepo.On("PriceByID", ctx, productID).Return(&entity.Product{
		ID:    productID,
		Name:  "Mechanical Keyboard",
		Price: 129.99,
	}, nil)

	var charged service.ChargeRequest
	fx.gateway.On("Charge", ctx, mock.AnythingOfType("service.ChargeRequest")).
		Run(func(args mock.Arguments) {
			charged = args.Get(1).(service.ChargeRequest)
		}).
		Return(&service.ChargeResult{
			TransactionID: "ch_1",
			BillingStreet: "1 Main St",
			BillingCity:   "Nairobi",
		}, nil)
	fx.orderRepo.On("FindByTransactionID", ctx, "ch_1").Return(nil, repository.ErrOrderNotFound)
	fx.orderRepo.On("Create", ctx, mock.AnythingOfType("*entity.Order")).Return(nil)

	order, err := fx.service.PlaceOrder(ctx, usecase.PlaceOrderInput{
		UserID:       userID,
		Email:        "jamie@example.com",
		Items:        []usecase.CartItem{{ProductID: productID, Quantity: 2}},
		PaymentToken: "tok_visa",
		Tax:          10,
		ShippingFee:  5,
	})
	require.NoError(t, err)

	// 2 * 129.99 + 10 + 5, charged in cents regardless of what the client
	// claimed the price was.
	assert.InDelta(t, 274.98, order.Total, 0.001)
	assert.Equal(t, int64(27498), charged.AmountCents)
	assert.Equal(t, "Mechanical Keyboard", order.Items[0].Name)
	assert.InDelta(t, 129.99, order.Items[0].UnitPrice, 0.001)
	assert.Equal(t, "ch_1", order.TransactionID)
	assert.Equal(t, entity.OrderStatusProcessing, order.Status)
	assert.Equal(t, "1 Main St", order.ShippingAddress.Street)
	assert.Equal(t, fx.now, order.PaidAt)
}

func TestOrderService_PlaceOrder_ChargeFailureLeavesNoOrder(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()
	productID := uuid.New()

	fx.productRepo.On("PriceByID", ctx, productID).Return(&entity.Product{ID: productID, Price: 10}, nil)
	fx.gateway.On("Charge", ctx, mock.Anything).Return(nil, domainerrors.ErrPaymentFailed)

	_, err := fx.service.PlaceOrder(ctx, usecase.PlaceOrderInput{
		UserID:       uuid.New(),
		Items:        []usecase.CartItem{{ProductID: productID, Quantity: 1}},
		PaymentToken: "tok_declined",
	})

	assert.ErrorIs(t, err, domainerrors.ErrPaymentFailed)
	fx.orderRepo.AssertNotCalled(t, "Create")
}

func TestOrderService_PlaceOrder_RetryIsIdempotent(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()
	productID := uuid.New()
	userID := uuid.New()

	fx.productRepo.On("PriceByID", ctx, productID).Return(&entity.Product{ID: productID, Price: 50}, nil)

	// The gateway deduplicates on the idempotency key, so both attempts
	// return the same transaction.
	var chargeKeys []string
	fx.gateway.On("Charge", ctx, mock.AnythingOfType("service.ChargeRequest")).
		Run(func(args mock.Arguments) {
			chargeKeys = append(chargeKeys, args.Get(1).(service.ChargeRequest).IdempotencyKey)
		}).
		Return(&service.ChargeResult{TransactionID: "ch_same"}, nil)

	existing := &entity.Order{ID: uuid.New(), TransactionID: "ch_same"}
	fx.orderRepo.On("FindByTransactionID", ctx, "ch_same").Return(nil, repository.ErrOrderNotFound).Once()
	fx.orderRepo.On("FindByTransactionID", ctx, "ch_same").Return(existing, nil)
	fx.orderRepo.On("Create", ctx, mock.AnythingOfType("*entity.Order")).Return(nil).Once()

	input := usecase.PlaceOrderInput{
		UserID:         userID,
		Items:          []usecase.CartItem{{ProductID: productID, Quantity: 1}},
		PaymentToken:   "tok_visa",
		IdempotencyKey: "retry-key-1",
	}

	first, err := fx.service.PlaceOrder(ctx, input)
	require.NoError(t, err)
	second, err := fx.service.PlaceOrder(ctx, input)
	require.NoError(t, err)

	// Same key both times, one order row total.
	assert.Equal(t, []string{"retry-key-1", "retry-key-1"}, chargeKeys)
	assert.Equal(t, "ch_same", first.TransactionID)
	assert.Equal(t, existing.ID, second.ID)
	fx.orderRepo.AssertNumberOfCalls(t, "Create", 1)
}

func TestOrderService_PlaceOrder_FreshIdempotencyKeyPerAttempt(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()
	productID := uuid.New()

	fx.productRepo.On("PriceByID", ctx, productID).Return(&entity.Product{ID: productID, Price: 50}, nil)

	var key string
	fx.gateway.On("Charge", ctx, mock.AnythingOfType("service.ChargeRequest")).
		Run(func(args mock.Arguments) {
			key = args.Get(1).(service.ChargeRequest).IdempotencyKey
		}).
		Return(&service.ChargeResult{TransactionID: "ch_2"}, nil)
	fx.orderRepo.On("FindByTransactionID", ctx, "ch_2").Return(nil, repository.ErrOrderNotFound)
	fx.orderRepo.On("Create", ctx, mock.Anything).Return(nil)

	_, err := fx.service.PlaceOrder(ctx, usecase.PlaceOrderInput{
		UserID:       uuid.New(),
		Items:        []usecase.CartItem{{ProductID: productID, Quantity: 1}},
		PaymentToken: "tok_visa",
	})
	require.NoError(t, err)

	_, parseErr := uuid.Parse(key)
	assert.NoError(t, parseErr)
}

func TestOrderService_PlaceOrder_EmptyCart(t *testing.T) {
	fx := createTestOrderService(t)

	_, err := fx.service.PlaceOrder(context.Background(), usecase.PlaceOrderInput{UserID: uuid.New()})

	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	fx.gateway.AssertNotCalled(t, "Charge")
}

func TestOrderService_UpdateStatus_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		from    entity.OrderStatus
		to      entity.OrderStatus
		allowed bool
	}{
		{"processing to shipping", entity.OrderStatusProcessing, entity.OrderStatusShipping, true},
		{"processing to cancelled", entity.OrderStatusProcessing, entity.OrderStatusCancelled, true},
		{"processing to delivered skips shipping", entity.OrderStatusProcessing, entity.OrderStatusDelivered, false},
		{"shipping to delivered", entity.OrderStatusShipping, entity.OrderStatusDelivered, true},
		{"delivered is terminal", entity.OrderStatusDelivered, entity.OrderStatusShipping, false},
		{"cancelled is terminal", entity.OrderStatusCancelled, entity.OrderStatusProcessing, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestOrderService(t)
			ctx := context.Background()
			orderID := uuid.New()

			fx.orderRepo.On("FindByID", ctx, orderID).Return(&entity.Order{ID: orderID, Status: tt.from}, nil)
			if tt.allowed {
				fx.orderRepo.On("Patch", ctx, orderID, mock.Anything).
					Return(&entity.Order{ID: orderID, Status: tt.to}, nil)
			}

			updated, err := fx.service.UpdateStatus(ctx, orderID, tt.to)

			if !tt.allowed {
				assert.ErrorIs(t, err, domainerrors.ErrConflict)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, updated.Status)
		})
	}
}

func TestOrderService_UpdateStatus_StampsDeliveredAt(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()
	orderID := uuid.New()

	fx.orderRepo.On("FindByID", ctx, orderID).Return(&entity.Order{ID: orderID, Status: entity.OrderStatusShipping}, nil)

	var patch map[string]any
	fx.orderRepo.On("Patch", ctx, orderID, mock.Anything).
		Run(func(args mock.Arguments) {
			patch = args.Get(2).(map[string]any)
		}).
		Return(&entity.Order{ID: orderID, Status: entity.OrderStatusDelivered}, nil)

	_, err := fx.service.UpdateStatus(ctx, orderID, entity.OrderStatusDelivered)

	require.NoError(t, err)
	assert.Equal(t, fx.now, patch["delivered_at"])
}

func TestOrderService_GetMyOrders(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()
	userID := uuid.New()
	orders := []*entity.Order{{ID: uuid.New()}, {ID: uuid.New()}}

	fx.orderRepo.On("FindByUser", ctx, userID).Return(orders, nil)

	got, err := fx.service.GetMyOrders(ctx, userID)

	require.NoError(t, err)
	assert.Equal(t, orders, got)
}
