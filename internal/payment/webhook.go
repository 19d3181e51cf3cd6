package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/fenanpay-bridge/internal/common"
	"github.com/noah-isme/fenanpay-bridge/internal/obs"
	"github.com/noah-isme/fenanpay-bridge/internal/order"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw webhook body.
const SignatureHeader = "X-FenanPay-Signature"

// Webhook reconciles asynchronous FenanPay notifications onto orders.
// Every check fails closed; only recognised, verified notifications mutate
// an order, and duplicate confirmations are no-ops.
type Webhook struct {
	// Secret enables signature verification when non-empty. An empty
	// secret skips verification entirely.
	Secret string
	Orders order.Store
	Log    zerolog.Logger
}

type notification struct {
	UniqueID string `json:"paymentIntentUniqueId"`
	Status   string `json:"status"`
}

// Handle processes one webhook delivery and always answers with a short
// plain-text body.
func (h Webhook) Handle(w http.ResponseWriter, r *http.Request) {
	log := h.Log.With().Str("delivery_id", uuid.NewString()).Logger()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.count("bad_payload")
		common.Text(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	if h.Secret != "" {
		sig := strings.TrimSpace(r.Header.Get(SignatureHeader))
		if sig == "" {
			h.count("missing_signature")
			log.Warn().Str("remote", common.ClientIP(r)).Msg("webhook without signature")
			common.Text(w, http.StatusBadRequest, "Missing signature")
			return
		}
		if !ValidSignature(h.Secret, body, sig) {
			h.count("bad_signature")
			log.Warn().Str("remote", common.ClientIP(r)).Msg("webhook signature mismatch")
			common.Text(w, http.StatusForbidden, "Invalid signature")
			return
		}
	}

	var n notification
	if err := json.Unmarshal(body, &n); err != nil {
		h.count("bad_payload")
		log.Warn().Err(err).Msg("webhook payload not a JSON object")
		common.Text(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	orderID, err := DecodeUniqueID(n.UniqueID)
	if err != nil {
		// Not an error towards the provider: retrying an unrecognisable id
		// would never succeed.
		h.count("unmatched")
		log.Info().Str("unique_id", n.UniqueID).Msg("webhook unique id not recognised")
		common.Text(w, http.StatusOK, "Order ID not recognized")
		return
	}

	ctx := r.Context()
	o, err := h.Orders.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			h.count("unmatched")
			log.Info().Int64("order_id", orderID).Msg("webhook for unknown order")
			common.Text(w, http.StatusOK, "Order not found")
			return
		}
		h.count("store_error")
		log.Error().Int64("order_id", orderID).Err(err).Msg("order lookup failed")
		common.Text(w, http.StatusInternalServerError, "Order lookup failed")
		return
	}

	result := "ignored"
	switch strings.ToUpper(strings.TrimSpace(n.Status)) {
	case "SUCCESS", "PAID", "COMPLETED":
		if o.Paid() {
			result = "duplicate"
			log.Info().Int64("order_id", o.ID).Str("status", string(o.Status)).Msg("confirmation already applied")
			break
		}
		err = h.Orders.UpdateStatus(ctx, o.ID, order.StatusCompleted, "FenanPay payment confirmed via webhook.")
		result = "completed"
	case "FAILED":
		err = h.Orders.UpdateStatus(ctx, o.ID, order.StatusFailed, "FenanPay payment failed (webhook).")
		result = "failed"
	case "EXPIRED":
		err = h.Orders.UpdateStatus(ctx, o.ID, order.StatusCancelled, "FenanPay payment session expired (webhook).")
		result = "cancelled"
	}
	if err != nil {
		h.count("store_error")
		log.Error().Int64("order_id", o.ID).Err(err).Msg("apply webhook status")
		common.Text(w, http.StatusInternalServerError, "Status update failed")
		return
	}

	h.count(result)
	log.Info().Int64("order_id", o.ID).Str("incoming_status", n.Status).Str("result", result).Msg("webhook processed")
	common.Text(w, http.StatusOK, "ok")
}

func (h Webhook) count(result string) {
	if obs.PaymentWebhookTotal != nil {
		obs.PaymentWebhookTotal.WithLabelValues(result).Inc()
	}
}

// ComputeSignature returns the lowercase hex HMAC-SHA256 of body under
// secret. Exported for the mockwebhook tool and tests.
func ComputeSignature(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// ValidSignature compares the provided signature in constant time.
func ValidSignature(secret string, body []byte, provided string) bool {
	expected := ComputeSignature(secret, body)
	return hmac.Equal([]byte(expected), []byte(provided))
}
