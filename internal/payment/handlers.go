package payment

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/fenanpay-bridge/internal/common"
	"github.com/noah-isme/fenanpay-bridge/internal/order"
)

// Handler exposes HTTP endpoints for opening intents and polling status.
type Handler struct {
	Svc *Service
}

// writeError renders any error through the canonical envelope, preserving
// code and status when it is an AppError.
func writeError(w http.ResponseWriter, err error) {
	var ae *common.AppError
	if !errors.As(err, &ae) {
		ae = common.NewAppError("INTERNAL", err.Error(), http.StatusInternalServerError, err)
	}
	common.JSONError(w, ae.HTTPStatus, ae.Code, ae.Message, ae.Details)
}

type intentReq struct {
	OrderID int64 `json:"orderId"`
}

type intentResp struct {
	Result   string `json:"result"`
	Redirect string `json:"redirect,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Intent runs the payment-intent flow for an order. Intent failures are
// reported inside a 200 body; checkout decides how to present them.
func (h *Handler) Intent(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Svc == nil {
		writeError(w, common.NewAppError("PAYMENT_NOT_CONFIGURED", "payment handler unavailable", http.StatusInternalServerError, nil))
		return
	}
	var req intentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, common.NewAppError("BAD_REQUEST", "invalid body", http.StatusBadRequest, err))
		return
	}
	if req.OrderID <= 0 {
		writeError(w, common.NewAppError("BAD_REQUEST", "orderId is required", http.StatusBadRequest, nil))
		return
	}

	out := h.Svc.CreateIntent(r.Context(), req.OrderID)
	if out.Redirect {
		common.JSON(w, http.StatusOK, intentResp{Result: "success", Redirect: out.RedirectURL})
		return
	}
	common.JSON(w, http.StatusOK, intentResp{Result: "failure", Message: out.Message})
}

// Status reports the current status of an order.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Svc == nil {
		writeError(w, common.NewAppError("PAYMENT_NOT_CONFIGURED", "payment handler unavailable", http.StatusInternalServerError, nil))
		return
	}
	raw := strings.TrimSpace(chi.URLParam(r, "orderId"))
	orderID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || orderID <= 0 {
		writeError(w, common.NewAppError("BAD_REQUEST", "invalid orderId", http.StatusBadRequest, err))
		return
	}
	status, err := h.Svc.Status(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeError(w, common.NewAppError("ORDER_NOT_FOUND", "order not found", http.StatusNotFound, err))
			return
		}
		writeError(w, common.NewAppError("STATUS_ERROR", err.Error(), http.StatusInternalServerError, err))
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"orderId": orderID, "status": string(status)})
}
