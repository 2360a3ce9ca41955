package payment

import (
	"context"
	"encoding/base64"
	"log/slog"
	"sync"
	"time"

	"storefront/config"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	"storefront/internal/errors"

	"github.com/go-resty/resty/v2"
)

// darajaTimestampLayout is the timestamp format the Daraja API expects, and
// the seed of the STK push password.
const darajaTimestampLayout = "20060102150405"

type darajaTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

type stkPushPayload struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int    `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

type stkPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

// mpesaClient implements service.MobileMoneyGateway against the Daraja API.
type mpesaClient struct {
	client *resty.Client
	cfg    *config.MpesaConfig
	logger *slog.Logger
	now    func() time.Time

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewMpesaClient is the constructor for mpesaClient.
func NewMpesaClient(cfg *config.Config, logger *slog.Logger) (service.MobileMoneyGateway, error) {
	if cfg.Mpesa == nil {
		return nil, errors.New("mpesa config is required")
	}

	client := resty.New().
		SetBaseURL(cfg.Mpesa.BaseURL).
		SetTimeout(cfg.Mpesa.Timeout)

	return &mpesaClient{
		client: client,
		cfg:    cfg.Mpesa,
		logger: logger,
		now:    time.Now,
	}, nil
}

// token returns a cached OAuth access token, refreshing it when it is within
// a minute of expiry.
func (c *mpesaClient) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && c.now().Before(c.tokenExpiry.Add(-time.Minute)) {
		return c.accessToken, nil
	}

	var tokenResp darajaTokenResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBasicAuth(c.cfg.ConsumerKey, c.cfg.ConsumerSecret).
		SetQueryParam("grant_type", "client_credentials").
		SetResult(&tokenResp).
		Get("/oauth/v1/generate")
	if err != nil {
		return "", errors.Wrap(err, "request daraja access token")
	}
	if resp.IsError() || tokenResp.AccessToken == "" {
		return "", errors.Errorf("daraja token request returned status %d", resp.StatusCode())
	}

	lifetime := time.Hour
	if seconds, err := time.ParseDuration(tokenResp.ExpiresIn + "s"); err == nil {
		lifetime = seconds
	}
	c.accessToken = tokenResp.AccessToken
	c.tokenExpiry = c.now().Add(lifetime)

	return c.accessToken, nil
}

// STKPush prompts the subscriber's phone to authorize the payment. The
// password is base64(shortcode + passkey + timestamp) with the same timestamp
// echoed in the payload.
func (c *mpesaClient) STKPush(ctx context.Context, req service.STKPushRequest) (*service.STKPushResult, error) {
	accessToken, err := c.token(ctx)
	if err != nil {
		c.logger.ErrorContext(ctx, "daraja auth failed", slog.Any("error", err))

		return nil, domainerrors.ErrUpstreamFailure
	}

	timestamp := c.now().Format(darajaTimestampLayout)
	password := base64.StdEncoding.EncodeToString(
		[]byte(c.cfg.ShortCode + c.cfg.Passkey + timestamp))

	payload := stkPushPayload{
		BusinessShortCode: c.cfg.ShortCode,
		Password:          password,
		Timestamp:         timestamp,
		TransactionType:   "CustomerPayBillOnline",
		Amount:            req.Amount,
		PartyA:            req.Phone,
		PartyB:            c.cfg.ShortCode,
		PhoneNumber:       req.Phone,
		CallBackURL:       c.cfg.CallbackURL,
		AccountReference:  "storefront",
		TransactionDesc:   "storefront order payment",
	}

	var pushResp stkPushResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetBody(payload).
		SetResult(&pushResp).
		Post("/mpesa/stkpush/v1/processrequest")
	if err != nil {
		c.logger.ErrorContext(ctx, "stk push request failed", slog.Any("error", err))

		return nil, domainerrors.ErrUpstreamFailure
	}
	if resp.IsError() {
		c.logger.ErrorContext(ctx, "stk push rejected",
			slog.Int("status", resp.StatusCode()),
			slog.String("body", resp.String()))

		return nil, domainerrors.ErrUpstreamFailure
	}
	if pushResp.ResponseCode != "0" {
		return nil, errors.Wrapf(domainerrors.ErrUpstreamFailure,
			"stk push declined: %s", pushResp.ResponseDescription)
	}

	return &service.STKPushResult{
		MerchantRequestID: pushResp.MerchantRequestID,
		CheckoutRequestID: pushResp.CheckoutRequestID,
		ResponseCode:      pushResp.ResponseCode,
		CustomerMessage:   pushResp.CustomerMessage,
	}, nil
}
