package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/noah-isme/fenanpay-bridge/internal/config"
	"github.com/noah-isme/fenanpay-bridge/internal/obs"
	"github.com/noah-isme/fenanpay-bridge/internal/order"
)

// IntentClient abstracts the provider call so tests can substitute the
// FenanPay client.
type IntentClient interface {
	CreateIntent(ctx context.Context, req IntentRequest) (string, error)
}

// Outcome is the result of an intent attempt: either a redirect to the
// hosted payment page, or an absorbed failure carrying a user-facing
// message. Failures never surface as server errors to checkout.
type Outcome struct {
	Redirect    bool
	RedirectURL string
	Message     string
}

func failure(message string) Outcome {
	return Outcome{Message: message}
}

// Service is the intent initiator. It resolves the order, opens a payment
// intent with FenanPay and applies the resulting order mutations.
type Service struct {
	Orders order.Store
	Cart   order.CartClearer
	Client IntentClient
	Cfg    *config.Config
	Log    zerolog.Logger
	Now    func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// CreateIntent runs one payment attempt for the order. Exactly one provider
// call is made; every failure is recorded as an order note and absorbed
// into the returned Outcome, leaving the order status untouched.
func (s *Service) CreateIntent(ctx context.Context, orderID int64) Outcome {
	ctx, span := otel.Tracer("payment.Service").Start(ctx, "PaymentService.CreateIntent")
	defer span.End()
	span.SetAttributes(attribute.Int64("order.id", orderID))

	result := "transport_error"
	defer func() {
		span.SetAttributes(attribute.String("payment.intent.result", result))
		if obs.PaymentIntentTotal != nil {
			obs.PaymentIntentTotal.WithLabelValues(result).Inc()
		}
	}()

	o, err := s.Orders.GetOrder(ctx, orderID)
	if err != nil {
		result = "order_not_found"
		s.Log.Warn().Int64("order_id", orderID).Err(err).Msg("intent for unknown order")
		return failure("Order not found.")
	}

	uniqueID := NewUniqueID(o.ID, s.now())
	req := IntentRequest{
		Amount:      float64(o.TotalCents) / 100,
		Currency:    s.Cfg.FenanCurrency,
		UniqueID:    uniqueID,
		Methods:     []string{}, // empty = all enabled methods
		ReturnURL:   s.Cfg.ReturnURL(o.ID),
		CallbackURL: s.Cfg.WebhookURL(),
		ExpireIn:    int(s.Cfg.FenanIntentExpire.Seconds()),
		CustomerInfo: CustomerInfo{
			Name:  truncate(o.BillingName, 100),
			Email: o.BillingEmail,
			Phone: o.BillingPhone,
		},
	}

	redirect, err := s.Client.CreateIntent(ctx, req)
	if err != nil {
		span.RecordError(err)
		var pe *ProviderError
		if errors.As(err, &pe) {
			result = "rejected"
			note := fmt.Sprintf("FenanPay API Error (%d): %s", pe.StatusCode, pe.Message)
			if nerr := s.Orders.AddNote(ctx, o.ID, note); nerr != nil {
				s.Log.Error().Int64("order_id", o.ID).Err(nerr).Msg("record rejection note")
			}
			s.Log.Warn().Int64("order_id", o.ID).Int("provider_status", pe.StatusCode).Str("message", pe.Message).Msg("intent rejected")
			return failure("Payment error: " + pe.Message)
		}
		if nerr := s.Orders.AddNote(ctx, o.ID, "FenanPay connection error: "+err.Error()); nerr != nil {
			s.Log.Error().Int64("order_id", o.ID).Err(nerr).Msg("record connection note")
		}
		s.Log.Error().Int64("order_id", o.ID).Err(err).Msg("intent transport failure")
		return failure("Connection error: unable to reach the payment provider.")
	}

	// Persist the correlation id before the status moves so the webhook can
	// match the attempt, then hand the customer off.
	if err := s.Orders.SetMeta(ctx, o.ID, order.MetaUniqueID, uniqueID); err != nil {
		s.Log.Error().Int64("order_id", o.ID).Err(err).Msg("persist unique id")
	}
	if err := s.Orders.UpdateStatus(ctx, o.ID, order.StatusPending, "Payment intent created. Redirecting to FenanPay."); err != nil {
		s.Log.Error().Int64("order_id", o.ID).Err(err).Msg("mark order pending")
	}
	if s.Cart != nil {
		if err := s.Cart.Clear(ctx, o.ID); err != nil {
			s.Log.Warn().Int64("order_id", o.ID).Err(err).Msg("clear cart")
		}
	}

	result = "redirect"
	s.Log.Info().Int64("order_id", o.ID).Str("unique_id", uniqueID).Msg("intent created")
	return Outcome{Redirect: true, RedirectURL: redirect}
}

// Status reports the order's current status.
func (s *Service) Status(ctx context.Context, orderID int64) (order.Status, error) {
	o, err := s.Orders.GetOrder(ctx, orderID)
	if err != nil {
		return "", err
	}
	return o.Status, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
