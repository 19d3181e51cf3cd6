package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	sandboxIntentPath = "/payment/sandbox/intent"
	liveIntentPath    = "/payment/intent"
)

// CustomerInfo identifies the paying customer on the hosted payment page.
type CustomerInfo struct {
	Name  string `json:"name" validate:"required,max=100"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone"`
}

// IntentRequest is the JSON body sent to the FenanPay intent endpoint.
// Field names follow the provider contract exactly.
type IntentRequest struct {
	Amount                   float64      `json:"amount" validate:"gt=0"`
	Currency                 string       `json:"currency" validate:"required,len=3"`
	UniqueID                 string       `json:"paymentIntentUniqueId" validate:"required"`
	Methods                  []string     `json:"methods"`
	ReturnURL                string       `json:"returnUrl" validate:"required,url"`
	CallbackURL              string       `json:"callbackUrl" validate:"required,url"`
	ExpireIn                 int          `json:"expireIn" validate:"gt=0"`
	CommissionPaidByCustomer bool         `json:"commissionPaidByCustomer"`
	Items                    any          `json:"items"` // always null, the amount drives the charge
	CustomerInfo             CustomerInfo `json:"customerInfo"`
}

// ProviderError is a rejection reported by FenanPay itself: a non-200
// response, or a 200 whose body carries no redirect content.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("fenanpay rejected intent (%d): %s", e.StatusCode, e.Message)
}

// Client talks to the FenanPay payment-intent API.
type Client struct {
	http     *resty.Client
	validate *validator.Validate
	sandbox  bool
}

// NewClient configures a FenanPay client. The timeout bounds the single
// synchronous attempt; there are no retries because an ambiguous outcome
// retried blindly could open duplicate intents.
func NewClient(baseURL, apiKey string, sandbox bool, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	r := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("apiKey", apiKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetTransport(otelhttp.NewTransport(http.DefaultTransport))
	return &Client{
		http:     r,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		sandbox:  sandbox,
	}
}

// CreateIntent posts the intent request and returns the hosted payment page
// URL. Transport failures surface as wrapped errors, provider rejections as
// *ProviderError.
func (c *Client) CreateIntent(ctx context.Context, req IntentRequest) (string, error) {
	if err := c.validate.Struct(req); err != nil {
		return "", fmt.Errorf("invalid intent request: %w", err)
	}
	path := liveIntentPath
	if c.sandbox {
		path = sandboxIntentPath
	}
	resp, err := c.http.R().SetContext(ctx).SetBody(req).Post(path)
	if err != nil {
		return "", fmt.Errorf("fenanpay request: %w", err)
	}

	// The body is parsed leniently: a malformed body on any status is
	// treated as a rejection with no message, never as a transport error.
	var parsed struct {
		Content string `json:"content"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(resp.Body(), &parsed)

	if resp.StatusCode() == http.StatusOK && strings.TrimSpace(parsed.Content) != "" {
		return parsed.Content, nil
	}
	msg := strings.TrimSpace(parsed.Message)
	if msg == "" {
		msg = fmt.Sprintf("Unknown error (Status %d)", resp.StatusCode())
	}
	return "", &ProviderError{StatusCode: resp.StatusCode(), Message: msg}
}
