package handler

import (
	"net/http"

	"storefront/internal/delivery/http/response"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ReviewHandler serves product reviews. Listing goes through the shared
// resource handler, nested under the product; create and delete go through
// the review service, which owns the ordered-product gate, the one-review
// rule and the rating recompute.
type ReviewHandler struct {
	resource *Resource[entity.Review]
	uc       usecase.ReviewUsecase
}

// NewReviewHandler is the constructor for ReviewHandler, injected by Fx.
func NewReviewHandler(reviews repository.ReviewRepository, uc usecase.ReviewUsecase) *ReviewHandler {
	return &ReviewHandler{
		resource: NewResource[entity.Review](reviews, ResourceOptions[entity.Review]{
			View:   toReviewView,
			Nested: map[string]string{"id": "product_id"},
		}),
		uc: uc,
	}
}

type createReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// Create handles POST /products/:id/reviews for the authenticated buyer.
func (h *ReviewHandler) Create(c echo.Context) error {
	productID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	principal, err := principalFrom(c)
	if err != nil {
		return err
	}

	var req createReviewRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("invalid review payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	review, err := h.uc.CreateReview(c.Request().Context(), usecase.CreateReviewInput{
		ProductID: productID,
		UserID:    principal.UserID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toReviewView(review))
}

// List handles GET /products/:id/reviews.
func (h *ReviewHandler) List(c echo.Context) error { return h.resource.GetMany(c) }

// Get handles GET /reviews/:id.
func (h *ReviewHandler) Get(c echo.Context) error { return h.resource.GetOne(c) }

// Delete handles DELETE /reviews/:id for the review's owner or an admin.
func (h *ReviewHandler) Delete(c echo.Context) error {
	reviewID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	principal, err := principalFrom(c)
	if err != nil {
		return err
	}

	if err := h.uc.DeleteReview(c.Request().Context(), reviewID, principal.UserID, principal.Role); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}
