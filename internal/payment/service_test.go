package payment_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/fenanpay-bridge/internal/config"
	"github.com/noah-isme/fenanpay-bridge/internal/order"
	"github.com/noah-isme/fenanpay-bridge/internal/payment"
)

type stubClient struct {
	calls int
	got   payment.IntentRequest
	url   string
	err   error
}

func (c *stubClient) CreateIntent(_ context.Context, req payment.IntentRequest) (string, error) {
	c.calls++
	c.got = req
	return c.url, c.err
}

type recordingCart struct {
	cleared []int64
}

func (c *recordingCart) Clear(_ context.Context, orderID int64) error {
	c.cleared = append(c.cleared, orderID)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		PublicBaseURL:     "https://shop.example.com",
		FenanCurrency:     "ETB",
		FenanIntentExpire: time.Hour,
	}
}

func newService(client payment.IntentClient, store order.Store, cart order.CartClearer) *payment.Service {
	return &payment.Service{
		Orders: store,
		Cart:   cart,
		Client: client,
		Cfg:    testConfig(),
		Log:    zerolog.Nop(),
		Now:    func() time.Time { return time.Unix(1700000000, 0) },
	}
}

func TestCreateIntentSuccess(t *testing.T) {
	store := order.NewMemoryStore()
	store.Seed(order.Order{
		ID:           482,
		Status:       order.StatusPending,
		TotalCents:   12550,
		BillingName:  "Abebe Bikila",
		BillingEmail: "abebe@example.com",
		BillingPhone: "+251911000000",
	})
	cart := &recordingCart{}
	client := &stubClient{url: "https://pay.fenanpay.com/p/abc"}
	svc := newService(client, store, cart)

	out := svc.CreateIntent(context.Background(), 482)

	require.True(t, out.Redirect)
	require.Equal(t, "https://pay.fenanpay.com/p/abc", out.RedirectURL)
	require.Empty(t, out.Message)

	require.Equal(t, 1, client.calls)
	require.Equal(t, 125.50, client.got.Amount)
	require.Equal(t, "ETB", client.got.Currency)
	require.Equal(t, "482_1700000000", client.got.UniqueID)
	require.Equal(t, "https://shop.example.com/checkout/order-received/482", client.got.ReturnURL)
	require.Equal(t, "https://shop.example.com/webhooks/fenanpay", client.got.CallbackURL)
	require.Equal(t, 3600, client.got.ExpireIn)
	require.Nil(t, client.got.Items)
	require.Equal(t, "Abebe Bikila", client.got.CustomerInfo.Name)

	meta, ok := store.Meta(482, order.MetaUniqueID)
	require.True(t, ok)
	require.Equal(t, "482_1700000000", meta)

	o, err := store.GetOrder(context.Background(), 482)
	require.NoError(t, err)
	require.Equal(t, order.StatusPending, o.Status)
	require.Equal(t, []string{"Payment intent created. Redirecting to FenanPay."}, store.Notes(482))
	require.Equal(t, []int64{482}, cart.cleared)
}

func TestCreateIntentTruncatesLongBillingName(t *testing.T) {
	long := ""
	for range 30 {
		long += "abcde"
	}
	store := order.NewMemoryStore()
	store.Seed(order.Order{ID: 7, TotalCents: 100, BillingName: long})
	client := &stubClient{url: "https://pay.fenanpay.com/p/x"}
	svc := newService(client, store, nil)

	svc.CreateIntent(context.Background(), 7)
	require.Len(t, client.got.CustomerInfo.Name, 100)
}

func TestCreateIntentProviderRejectionLeavesStatus(t *testing.T) {
	store := order.NewMemoryStore()
	store.Seed(order.Order{ID: 482, Status: order.StatusPending, TotalCents: 500})
	client := &stubClient{err: &payment.ProviderError{StatusCode: 402, Message: "insufficient funds"}}
	svc := newService(client, store, nil)

	out := svc.CreateIntent(context.Background(), 482)

	require.False(t, out.Redirect)
	require.Equal(t, "Payment error: insufficient funds", out.Message)

	notes := store.Notes(482)
	require.Len(t, notes, 1)
	require.Contains(t, notes[0], "(402)")
	require.Contains(t, notes[0], "insufficient funds")

	o, _ := store.GetOrder(context.Background(), 482)
	require.Equal(t, order.StatusPending, o.Status)
	_, ok := store.Meta(482, order.MetaUniqueID)
	require.False(t, ok)
}

func TestCreateIntentTransportFailure(t *testing.T) {
	store := order.NewMemoryStore()
	store.Seed(order.Order{ID: 9, TotalCents: 500})
	client := &stubClient{err: errors.New("dial tcp: connection refused")}
	svc := newService(client, store, nil)

	out := svc.CreateIntent(context.Background(), 9)

	require.False(t, out.Redirect)
	require.Equal(t, "Connection error: unable to reach the payment provider.", out.Message)

	notes := store.Notes(9)
	require.Len(t, notes, 1)
	require.Contains(t, notes[0], "FenanPay connection error")
	require.Contains(t, notes[0], "connection refused")
}

func TestCreateIntentUnknownOrderSkipsProvider(t *testing.T) {
	client := &stubClient{url: "https://pay.fenanpay.com/p/x"}
	svc := newService(client, order.NewMemoryStore(), nil)

	out := svc.CreateIntent(context.Background(), 404)

	require.False(t, out.Redirect)
	require.Equal(t, "Order not found.", out.Message)
	require.Zero(t, client.calls)
}

func TestCreateIntentUsesConfiguredURLOverrides(t *testing.T) {
	store := order.NewMemoryStore()
	store.Seed(order.Order{ID: 5, TotalCents: 100})
	client := &stubClient{url: "https://pay.fenanpay.com/p/x"}
	svc := newService(client, store, nil)
	svc.Cfg.FenanReturnURL = "https://override.example.com/thanks"
	svc.Cfg.FenanWebhookURL = "https://override.example.com/hooks"

	svc.CreateIntent(context.Background(), 5)

	require.Equal(t, "https://override.example.com/thanks", client.got.ReturnURL)
	require.Equal(t, "https://override.example.com/hooks", client.got.CallbackURL)
}

func TestStatus(t *testing.T) {
	store := order.NewMemoryStore()
	store.Seed(order.Order{ID: 3, Status: order.StatusCompleted})
	svc := newService(&stubClient{}, store, nil)

	status, err := svc.Status(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, order.StatusCompleted, status)

	_, err = svc.Status(context.Background(), 99)
	require.ErrorIs(t, err, order.ErrNotFound)
}
