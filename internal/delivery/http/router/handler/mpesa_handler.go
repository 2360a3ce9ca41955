package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/delivery/http/response"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// MpesaHandler serves the Lipa na M-Pesa surface: STK push initiation, the
// Daraja callback sink, transaction validation and the pay-bill QR code.
type MpesaHandler struct {
	uc     usecase.MpesaUsecase
	logger *slog.Logger
}

// NewMpesaHandler is the constructor for MpesaHandler, injected by Fx.
func NewMpesaHandler(uc usecase.MpesaUsecase, logger *slog.Logger) *MpesaHandler {
	return &MpesaHandler{uc: uc, logger: logger}
}

type stkPushRequest struct {
	Phone  string `json:"phone" validate:"required"`
	Amount int    `json:"amount" validate:"required,min=1"`
}

// STKPush handles POST /mpesa/stkpush: it asks Daraja to push a payment
// prompt to the customer's phone.
func (h *MpesaHandler) STKPush(c echo.Context) error {
	var req stkPushRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("invalid payment payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.uc.InitiatePayment(c.Request().Context(), usecase.STKPushInput{
		Phone:  req.Phone,
		Amount: req.Amount,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, echo.Map{
		"merchantRequestId": result.MerchantRequestID,
		"checkoutRequestId": result.CheckoutRequestID,
		"customerMessage":   result.CustomerMessage,
	})
}

// darajaCallbackBody mirrors the envelope Daraja posts to the callback URL.
// Field names are Daraja's, not ours.
type darajaCallbackBody struct {
	Body struct {
		StkCallback struct {
			MerchantRequestID string `json:"MerchantRequestID"`
			CheckoutRequestID string `json:"CheckoutRequestID"`
			ResultCode        int    `json:"ResultCode"`
			ResultDesc        string `json:"ResultDesc"`
			CallbackMetadata  struct {
				Item []usecase.MpesaCallbackItem `json:"Item"`
			} `json:"CallbackMetadata"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

// Callback handles the POST Daraja sends when the customer completes or
// abandons the prompt. It always answers 200; Daraja retries anything else
// and the payload never gets better.
func (h *MpesaHandler) Callback(c echo.Context) error {
	logger := deliverycontext.GetLoggerOrDefault(c.Request().Context(), h.logger)

	var body darajaCallbackBody
	if err := c.Bind(&body); err != nil {
		logger.Warn("unreadable mpesa callback", slog.Any("error", err))

		return response.Message(c, http.StatusOK, "rejected")
	}

	callback := body.Body.StkCallback
	err := h.uc.HandleCallback(c.Request().Context(), usecase.MpesaCallbackInput{
		MerchantRequestID: callback.MerchantRequestID,
		CheckoutRequestID: callback.CheckoutRequestID,
		ResultCode:        callback.ResultCode,
		ResultDesc:        callback.ResultDesc,
		Items:             callback.CallbackMetadata.Item,
	})
	if err != nil {
		logger.Error("failed to record mpesa transaction",
			slog.String("merchantRequestId", callback.MerchantRequestID),
			slog.Any("error", err))
	}

	return response.Message(c, http.StatusOK, "received")
}

type validateTransactionRequest struct {
	MerchantRequestID string `json:"merchantRequestId" validate:"required"`
}

// Validate handles POST /mpesa/validate, the lookup a client polls after
// initiating a push.
func (h *MpesaHandler) Validate(c echo.Context) error {
	var req validateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	tx, err := h.uc.ValidateTransaction(c.Request().Context(), req.MerchantRequestID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toMpesaTransactionView(tx))
}

// ListTransactions handles the admin GET /mpesa/transactions.
func (h *MpesaHandler) ListTransactions(c echo.Context) error {
	txs, err := h.uc.ListTransactions(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	views := make([]mpesaTransactionView, 0, len(txs))
	for _, tx := range txs {
		views = append(views, toMpesaTransactionView(tx))
	}

	return response.Success(c, http.StatusOK, views)
}

// PayBillQR handles GET /mpesa/qr?amount=N and answers with a PNG.
func (h *MpesaHandler) PayBillQR(c echo.Context) error {
	amount, err := strconv.Atoi(c.QueryParam("amount"))
	if err != nil || amount < 1 {
		return domainerrors.ErrValidationFailed.WithDetails("amount must be a positive integer")
	}

	png, err := h.uc.PayBillQR(amount)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}
