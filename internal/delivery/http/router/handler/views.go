package handler

import (
	"time"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// Response shapes. Entities never serialize directly; these views are the
// only JSON the API emits, which keeps credential state (password hash, reset
// ticket) out of every response.

type userView struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	AvatarKey string    `json:"avatarKey,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserView(user *entity.User) any {
	return userView{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      string(user.Role),
		AvatarKey: user.AvatarKey,
		CreatedAt: user.CreatedAt,
	}
}

type productImageView struct {
	ID  uuid.UUID `json:"id"`
	URL string    `json:"url"`
}

type productView struct {
	ID            uuid.UUID          `json:"id"`
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	Price         float64            `json:"price"`
	Category      string             `json:"category"`
	Stock         int                `json:"stock"`
	AverageRating float64            `json:"averageRating"`
	NumOfReviews  int                `json:"numOfReviews"`
	Images        []productImageView `json:"images"`
	CreatedAt     time.Time          `json:"createdAt"`
}

func toProductView(product *entity.Product) any {
	images := make([]productImageView, 0, len(product.Images))
	for _, image := range product.Images {
		images = append(images, productImageView{ID: image.ID, URL: image.URL})
	}

	return productView{
		ID:            product.ID,
		Name:          product.Name,
		Description:   product.Description,
		Price:         product.Price,
		Category:      product.Category,
		Stock:         product.Stock,
		AverageRating: product.AverageRating,
		NumOfReviews:  product.NumOfReviews,
		Images:        images,
		CreatedAt:     product.CreatedAt,
	}
}

type reviewView struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"productId"`
	UserID    uuid.UUID `json:"userId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

func toReviewView(review *entity.Review) any {
	return reviewView{
		ID:        review.ID,
		ProductID: review.ProductID,
		UserID:    review.UserID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
	}
}

type orderItemView struct {
	ProductID uuid.UUID `json:"productId"`
	Name      string    `json:"name"`
	Image     string    `json:"image,omitempty"`
	UnitPrice float64   `json:"unitPrice"`
	Quantity  int       `json:"quantity"`
}

type shippingAddressView struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	Country string `json:"country"`
	Pincode string `json:"pincode"`
}

type orderView struct {
	ID              uuid.UUID           `json:"id"`
	UserID          uuid.UUID           `json:"userId"`
	Items           []orderItemView     `json:"items"`
	ShippingAddress shippingAddressView `json:"shippingAddress"`
	Subtotal        float64             `json:"subtotal"`
	Tax             float64             `json:"tax"`
	ShippingFee     float64             `json:"shippingFee"`
	Total           float64             `json:"total"`
	TransactionID   string              `json:"transactionId"`
	Status          string              `json:"status"`
	PaidAt          time.Time           `json:"paidAt"`
	DeliveredAt     *time.Time          `json:"deliveredAt,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
}

func toOrderView(order *entity.Order) any {
	items := make([]orderItemView, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemView{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}

	return orderView{
		ID:     order.ID,
		UserID: order.UserID,
		Items:  items,
		ShippingAddress: shippingAddressView{
			Street:  order.ShippingAddress.Street,
			City:    order.ShippingAddress.City,
			Country: order.ShippingAddress.Country,
			Pincode: order.ShippingAddress.Pincode,
		},
		Subtotal:      order.Subtotal,
		Tax:           order.Tax,
		ShippingFee:   order.ShippingFee,
		Total:         order.Total,
		TransactionID: order.TransactionID,
		Status:        string(order.Status),
		PaidAt:        order.PaidAt,
		DeliveredAt:   order.DeliveredAt,
		CreatedAt:     order.CreatedAt,
	}
}

type mpesaTransactionView struct {
	ID                uuid.UUID `json:"id"`
	MerchantRequestID string    `json:"merchantRequestId"`
	CheckoutRequestID string    `json:"checkoutRequestId"`
	Receipt           string    `json:"receipt"`
	Amount            float64   `json:"amount"`
	Phone             string    `json:"phone"`
	TransactionDate   string    `json:"transactionDate"`
	CreatedAt         time.Time `json:"createdAt"`
}

func toMpesaTransactionView(tx *entity.MpesaTransaction) mpesaTransactionView {
	return mpesaTransactionView{
		ID:                tx.ID,
		MerchantRequestID: tx.MerchantRequestID,
		CheckoutRequestID: tx.CheckoutRequestID,
		Receipt:           tx.Receipt,
		Amount:            tx.Amount,
		Phone:             tx.Phone,
		TransactionDate:   tx.TransactionDate,
		CreatedAt:         tx.CreatedAt,
	}
}
