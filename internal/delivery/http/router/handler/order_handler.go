package handler

import (
	"net/http"

	"storefront/internal/delivery/http/response"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// OrderHandler serves checkout and the order lifecycle. Placement and status
// transitions go through the order service; the admin browse surface reuses
// the shared resource handler.
type OrderHandler struct {
	resource *Resource[entity.Order]
	uc       usecase.OrderUsecase
}

// NewOrderHandler is the constructor for OrderHandler, injected by Fx.
func NewOrderHandler(orders repository.OrderRepository, uc usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{
		resource: NewResource[entity.Order](orders, ResourceOptions[entity.Order]{
			View: toOrderView,
		}),
		uc: uc,
	}
}

type cartItemRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type placeOrderRequest struct {
	// Email receives the gateway receipt; it need not match the account
	// address.
	Email          string            `json:"email" validate:"required,email"`
	Items          []cartItemRequest `json:"items" validate:"required,min=1,dive"`
	PaymentToken   string            `json:"paymentToken" validate:"required"`
	Tax            float64           `json:"tax" validate:"gte=0"`
	ShippingFee    float64           `json:"shippingFee" validate:"gte=0"`
	IdempotencyKey string            `json:"idempotencyKey"`
}

// Place handles POST /orders: charge first, persist the snapshot only after
// the gateway confirms. Retries with the same idempotency key are safe.
func (h *OrderHandler) Place(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}

	var req placeOrderRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("invalid order payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	items := make([]usecase.CartItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, usecase.CartItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	order, err := h.uc.PlaceOrder(c.Request().Context(), usecase.PlaceOrderInput{
		UserID:         principal.UserID,
		Email:          req.Email,
		Items:          items,
		PaymentToken:   req.PaymentToken,
		Tax:            req.Tax,
		ShippingFee:    req.ShippingFee,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toOrderView(order))
}

// Mine handles GET /orders/mine.
func (h *OrderHandler) Mine(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}

	orders, err := h.uc.GetMyOrders(c.Request().Context(), principal.UserID)
	if err != nil {
		return errors.WithStack(err)
	}

	views := make([]any, 0, len(orders))
	for _, order := range orders {
		views = append(views, toOrderView(order))
	}

	return response.Success(c, http.StatusOK, views)
}

// List handles the admin GET /orders browse with the filter grammar.
func (h *OrderHandler) List(c echo.Context) error { return h.resource.GetMany(c) }

// Get handles GET /orders/:id.
func (h *OrderHandler) Get(c echo.Context) error { return h.resource.GetOne(c) }

// Delete handles the admin DELETE /orders/:id.
func (h *OrderHandler) Delete(c echo.Context) error { return h.resource.DeleteOne(c) }

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateStatus handles the admin PATCH /orders/:id. Status is the only
// mutable field of a placed order; the transition rules live in the order
// service.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	orderID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("invalid status payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	order, err := h.uc.UpdateStatus(c.Request().Context(), orderID, entity.OrderStatus(req.Status))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toOrderView(order))
}
