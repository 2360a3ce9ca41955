package impl

import (
	"context"
	"log/slog"
	"math"
	"time"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/errors"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// orderService implements the OrderUsecase interface.
type orderService struct {
	txManager   repository.TransactionManager
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	gateway     service.PaymentGateway
	currency    string
	logger      *slog.Logger
	now         func() time.Time
}

// OrderServiceParams holds dependencies for orderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	OrderRepo   repository.OrderRepository
	ProductRepo repository.ProductRepository
	Gateway     service.PaymentGateway
	Config      *config.Config
	Logger      *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	currency := "usd"
	if params.Config.Stripe != nil && params.Config.Stripe.Currency != "" {
		currency = params.Config.Stripe.Currency
	}

	return &orderService{
		txManager:   params.TxManager,
		orderRepo:   params.OrderRepo,
		productRepo: params.ProductRepo,
		gateway:     params.Gateway,
		currency:    currency,
		logger:      params.Logger,
		now:         time.Now,
	}
}

func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// PlaceOrder recomputes prices from the catalog, charges the card and only
// then persists the order snapshot. The gateway idempotency key plus the
// unique transaction reference make a retried checkout yield one charge and
// at most one order.
func (srv *orderService) PlaceOrder(ctx context.Context, input usecase.PlaceOrderInput) (*entity.Order, error) {
	if len(input.Items) == 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("order has no items")
	}

	items, subtotal, err := srv.buildSnapshot(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	total := subtotal + input.Tax + input.ShippingFee

	idempotencyKey := input.IdempotencyKey
	if idempotencyKey == "" {
		idempotencyKey = uuid.New().String()
	}

	charge, err := srv.gateway.Charge(ctx, service.ChargeRequest{
		PaymentToken:   input.PaymentToken,
		Email:          input.Email,
		AmountCents:    toCents(total),
		Currency:       srv.currency,
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		srv.log(ctx).Warn("Checkout charge failed", slog.Any("userID", input.UserID), slog.Any("error", err))

		// No order row exists at this point; the failure leaves no state.
		return nil, err
	}

	// A retried checkout replays the same idempotency key, so the gateway
	// returns the original transaction id; if that order already exists this
	// persist must be a no-op.
	if existing, err := srv.orderRepo.FindByTransactionID(ctx, charge.TransactionID); err == nil {
		return existing, nil
	} else if !errors.Is(err, repository.ErrOrderNotFound) {
		return nil, errors.Wrap(err, "failed to check existing order")
	}

	order := &entity.Order{
		UserID: input.UserID,
		Items:  items,
		ShippingAddress: entity.ShippingAddress{
			Street:  charge.BillingStreet,
			City:    charge.BillingCity,
			Country: charge.BillingCountry,
			Pincode: charge.BillingZip,
		},
		Subtotal:      subtotal,
		Tax:           input.Tax,
		ShippingFee:   input.ShippingFee,
		Total:         total,
		TransactionID: charge.TransactionID,
		Status:        entity.OrderStatusProcessing,
		PaidAt:        srv.now(),
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return repoFactory.OrderRepo().Create(ctx, order)
	})
	if err != nil {
		// The unique transaction index catches the race where two retries
		// passed the lookup above; surface the winner's row.
		if errors.Is(err, domainerrors.ErrConflict) {
			return srv.orderRepo.FindByTransactionID(ctx, charge.TransactionID)
		}

		return nil, errors.Wrap(err, "failed to persist order")
	}

	srv.log(ctx).Info("Order placed",
		slog.Any("orderID", order.ID),
		slog.Any("userID", input.UserID),
		slog.String("transactionID", charge.TransactionID))

	return order, nil
}

func (srv *orderService) GetMyOrders(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	orders, err := srv.orderRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	return orders, nil
}

func (srv *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status entity.OrderStatus) (*entity.Order, error) {
	if !status.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown order status")
	}

	order, err := srv.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, domainerrors.ErrNotFound
		}

		return nil, errors.Wrap(err, "failed to find order")
	}

	if !order.Status.CanTransitionTo(status) {
		return nil, domainerrors.ErrConflict.WithDetails(
			"cannot move order from " + string(order.Status) + " to " + string(status))
	}

	patch := map[string]any{"status": string(status)}
	if status == entity.OrderStatusDelivered {
		patch["delivered_at"] = srv.now()
	}
	updated, err := srv.orderRepo.Patch(ctx, orderID, patch)
	if err != nil {
		return nil, errors.Wrap(err, "failed to update order status")
	}

	return updated, nil
}

// buildSnapshot re-reads every line item from the catalog; client-supplied
// prices never enter the order.
func (srv *orderService) buildSnapshot(ctx context.Context, cart []usecase.CartItem) ([]entity.OrderItem, float64, error) {
	items := make([]entity.OrderItem, 0, len(cart))
	var subtotal float64

	for _, line := range cart {
		if line.Quantity < 1 {
			return nil, 0, domainerrors.ErrValidationFailed.WithDetails("item quantity must be at least 1")
		}

		product, err := srv.productRepo.PriceByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return nil, 0, domainerrors.ErrNotFound.WithDetails("unknown product " + line.ProductID.String())
			}

			return nil, 0, errors.Wrap(err, "failed to price cart item")
		}

		image := ""
		if len(product.Images) > 0 {
			image = product.Images[0].URL
		}

		items = append(items, entity.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Image:     image,
			UnitPrice: product.Price,
			Quantity:  line.Quantity,
		})
		subtotal += product.Price * float64(line.Quantity)
	}

	return items, subtotal, nil
}

func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
