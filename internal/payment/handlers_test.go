package payment_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/fenanpay-bridge/internal/order"
	"github.com/noah-isme/fenanpay-bridge/internal/payment"
)

func newRouter(svc *payment.Service) http.Handler {
	h := &payment.Handler{Svc: svc}
	r := chi.NewRouter()
	r.Post("/api/v1/payments/intent", h.Intent)
	r.Get("/api/v1/payments/{orderId}/status", h.Status)
	return r
}

func TestIntentEndpointSuccess(t *testing.T) {
	store := order.NewMemoryStore()
	store.Seed(order.Order{ID: 482, TotalCents: 12550})
	svc := newService(&stubClient{url: "https://pay.fenanpay.com/p/abc"}, store, nil)
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/intent", strings.NewReader(`{"orderId":482}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Result   string `json:"result"`
		Redirect string `json:"redirect"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "success", resp.Result)
	require.Equal(t, "https://pay.fenanpay.com/p/abc", resp.Redirect)
}

func TestIntentEndpointFailureIsStill200(t *testing.T) {
	store := order.NewMemoryStore()
	store.Seed(order.Order{ID: 482, TotalCents: 12550})
	svc := newService(&stubClient{err: &payment.ProviderError{StatusCode: 402, Message: "insufficient funds"}}, store, nil)
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/intent", strings.NewReader(`{"orderId":482}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Result  string `json:"result"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "failure", resp.Result)
	require.Equal(t, "Payment error: insufficient funds", resp.Message)
}

func TestIntentEndpointRejectsBadBody(t *testing.T) {
	svc := newService(&stubClient{}, order.NewMemoryStore(), nil)
	router := newRouter(svc)

	for _, body := range []string{`{`, `{"orderId":0}`, `{"orderId":-2}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/intent", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
	}
}

func TestStatusEndpoint(t *testing.T) {
	store := order.NewMemoryStore()
	store.Seed(order.Order{ID: 482, Status: order.StatusCompleted})
	svc := newService(&stubClient{}, store, nil)
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/482/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		OrderID int64  `json:"orderId"`
		Status  string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, int64(482), resp.OrderID)
	require.Equal(t, "completed", resp.Status)
}

func TestStatusEndpointUnknownOrder(t *testing.T) {
	svc := newService(&stubClient{}, order.NewMemoryStore(), nil)
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/999/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	var resp struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "ORDER_NOT_FOUND", resp.Error.Code)
	require.Equal(t, "order not found", resp.Error.Message)
}

func TestStatusEndpointRejectsBadID(t *testing.T) {
	svc := newService(&stubClient{}, order.NewMemoryStore(), nil)
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/abc/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
