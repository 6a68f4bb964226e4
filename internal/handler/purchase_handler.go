package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/hitoshi/pizzaya/internal/model"
)

// PurchaseServiceInterface は購入ハンドラーが必要とするサービスインターフェース。
type PurchaseServiceInterface interface {
	// Get は注文IDから注文を取得する。
	Get(ctx context.Context, orderID string) (*model.Order, error)
	// Purchase は注文を購入する。請求成功時のみ purchased = true に遷移する。
	Purchase(ctx context.Context, orderID, source string) (*model.Order, error)
}

// PurchaseHandler は注文購入のHTTPハンドラー。
type PurchaseHandler struct {
	service  PurchaseServiceInterface
	verifier SessionVerifier
}

// NewPurchaseHandler はPurchaseHandlerを生成する。
func NewPurchaseHandler(service PurchaseServiceInterface, verifier SessionVerifier) *PurchaseHandler {
	return &PurchaseHandler{
		service:  service,
		verifier: verifier,
	}
}

// Purchase は注文の購入を処理する。
// GET /purchase?orderId=...&amount=...&source=...
// amountは正の非ゼロ値の確認にのみ使用し、請求は注文に保存された金額で行う。
func (h *PurchaseHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	orderID := strings.TrimSpace(r.URL.Query().Get("orderId"))
	if !validID(orderID) {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("注文IDは20文字である必要があります"))
		return
	}

	amount, err := strconv.ParseFloat(r.URL.Query().Get("amount"), 64)
	if err != nil || amount <= 0 {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidAmountError())
		return
	}

	existing, err := h.service.Get(r.Context(), orderID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if !requireOwnership(w, r, h.verifier, existing.Email) {
		return
	}

	o, err := h.service.Purchase(r.Context(), orderID, r.URL.Query().Get("source"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toOrderResponse(o))
}
