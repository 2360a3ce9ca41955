package handler

import (
	"log/slog"
	"net/http"

	"storefront/internal/delivery/http/response"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const maxProductImageBytes = 10 << 20

// ProductHandler serves the catalog surface: generic CRUD through the shared
// resource handler plus the image upload and the cascading delete, which need
// the catalog service.
type ProductHandler struct {
	resource *Resource[entity.Product]
	uc       usecase.CatalogUsecase
	logger   *slog.Logger
}

// NewProductHandler is the constructor for ProductHandler, injected by Fx.
func NewProductHandler(products repository.ProductRepository, uc usecase.CatalogUsecase, logger *slog.Logger) *ProductHandler {
	h := &ProductHandler{uc: uc, logger: logger}
	h.resource = NewResource[entity.Product](products, ResourceOptions[entity.Product]{
		Parse:    h.parseCreate,
		View:     toProductView,
		DeleteFn: uc.DeleteProduct,
	})

	return h
}

type createProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Category    string  `json:"category" validate:"required"`
	Stock       int     `json:"stock" validate:"gte=0"`
}

func (h *ProductHandler) parseCreate(c echo.Context) (*entity.Product, error) {
	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("invalid product payload")
	}
	if err := c.Validate(&req); err != nil {
		return nil, err
	}

	principal, err := principalFrom(c)
	if err != nil {
		return nil, err
	}

	return &entity.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Stock:       req.Stock,
		CreatedBy:   principal.UserID,
	}, nil
}

// Create handles POST /products.
func (h *ProductHandler) Create(c echo.Context) error { return h.resource.CreateOne(c) }

// Get handles GET /products/:id.
func (h *ProductHandler) Get(c echo.Context) error { return h.resource.GetOne(c) }

// List handles GET /products with the query-string filter grammar.
func (h *ProductHandler) List(c echo.Context) error { return h.resource.GetMany(c) }

// Update handles PATCH /products/:id.
func (h *ProductHandler) Update(c echo.Context) error { return h.resource.UpdateOne(c) }

// Delete handles DELETE /products/:id, cascading reviews and stored images.
func (h *ProductHandler) Delete(c echo.Context) error { return h.resource.DeleteOne(c) }

// UploadImage handles the multipart image upload for a product.
func (h *ProductHandler) UploadImage(c echo.Context) error {
	productID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	contentType, data, err := readUpload(c, "image", maxProductImageBytes)
	if err != nil {
		return err
	}

	image, err := h.uc.UploadImage(c.Request().Context(), productID, contentType, data)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, productImageView{ID: image.ID, URL: image.URL})
}
