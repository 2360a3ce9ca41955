// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"storefront/internal/delivery/http/middleware"
	"storefront/internal/delivery/http/router/handler"
	"storefront/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	UserHandler    *handler.UserHandler
	ProductHandler *handler.ProductHandler
	ReviewHandler  *handler.ReviewHandler
	OrderHandler   *handler.OrderHandler
	MpesaHandler   *handler.MpesaHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	auth     *handler.AuthHandler
	users    *handler.UserHandler
	products *handler.ProductHandler
	reviews  *handler.ReviewHandler
	orders   *handler.OrderHandler
	mpesa    *handler.MpesaHandler
	authMw   *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		auth:     params.AuthHandler,
		users:    params.UserHandler,
		products: params.ProductHandler,
		reviews:  params.ReviewHandler,
		orders:   params.OrderHandler,
		mpesa:    params.MpesaHandler,
		authMw:   params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	authenticate := r.authMw.Authenticate
	adminOnly := r.authMw.RequireRole(entity.RoleAdmin)

	// Account and credential lifecycle
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.auth.Register)
		authGroup.POST("/login", r.auth.Login)
		authGroup.GET("/logout", r.auth.Logout)
		authGroup.GET("/me", r.auth.Me, authenticate)
		authGroup.PATCH("/me", r.auth.UpdateMe, authenticate)
		authGroup.PUT("/me/avatar", r.auth.UpdateAvatar, authenticate)
	}

	passwordGroup := e.Group("/password")
	{
		passwordGroup.POST("/forgot", r.auth.ForgotPassword)
		passwordGroup.PATCH("/reset/:token", r.auth.ResetPassword)
	}

	// Catalog: browsing is public, writes are admin-only
	productGroup := e.Group("/products")
	{
		productGroup.GET("", r.products.List)
		productGroup.GET("/:id", r.products.Get)
		productGroup.POST("", r.products.Create, authenticate, adminOnly)
		productGroup.PATCH("/:id", r.products.Update, authenticate, adminOnly)
		productGroup.DELETE("/:id", r.products.Delete, authenticate, adminOnly)
		productGroup.POST("/:id/images", r.products.UploadImage, authenticate, adminOnly)

		productGroup.GET("/:id/reviews", r.reviews.List)
		productGroup.POST("/:id/reviews", r.reviews.Create, authenticate)
	}

	reviewGroup := e.Group("/reviews")
	{
		reviewGroup.GET("/:id", r.reviews.Get)
		reviewGroup.DELETE("/:id", r.reviews.Delete, authenticate)
	}

	// Checkout and order lifecycle
	orderGroup := e.Group("/orders", authenticate)
	{
		orderGroup.POST("", r.orders.Place)
		orderGroup.GET("/mine", r.orders.Mine)
		orderGroup.GET("", r.orders.List, adminOnly)
		orderGroup.GET("/:id", r.orders.Get, adminOnly)
		orderGroup.PATCH("/:id", r.orders.UpdateStatus, adminOnly)
		orderGroup.DELETE("/:id", r.orders.Delete, adminOnly)
	}

	// Admin account management
	userGroup := e.Group("/users", authenticate, adminOnly)
	{
		userGroup.GET("", r.users.List)
		userGroup.GET("/:id", r.users.Get)
		userGroup.PATCH("/:id", r.users.Update)
		userGroup.DELETE("/:id", r.users.Delete)
	}

	// Lipa na M-Pesa; the callback must stay reachable by Daraja
	mpesaGroup := e.Group("/mpesa")
	{
		mpesaGroup.POST("/stkpush", r.mpesa.STKPush, authenticate)
		mpesaGroup.POST("/callback", r.mpesa.Callback)
		mpesaGroup.POST("/validate", r.mpesa.Validate, authenticate)
		mpesaGroup.GET("/transactions", r.mpesa.ListTransactions, authenticate, adminOnly)
		mpesaGroup.GET("/qr", r.mpesa.PayBillQR)
	}
}
