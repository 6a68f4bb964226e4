package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/hitoshi/pizzaya/internal/model"
	"github.com/hitoshi/pizzaya/internal/order"
)

// OrderServiceInterface はカートハンドラーが必要とするサービスインターフェース。
type OrderServiceInterface interface {
	// Open は新しい注文を作成する。
	Open(ctx context.Context, input order.OpenInput) (*model.Order, error)
	// Get は注文IDから注文を取得する。
	Get(ctx context.Context, orderID string) (*model.Order, error)
	// Update は注文を部分更新する。購入済み注文は拒否される。
	Update(ctx context.Context, orderID string, update model.OrderUpdate) (*model.Order, error)
	// Delete は注文を削除する。
	Delete(ctx context.Context, orderID string) error
}

// CartHandler はショッピングカートのHTTPハンドラー。
// 所有権の検証はすべて注文レコードに保存されたメールアドレスに対して行う。
type CartHandler struct {
	service  OrderServiceInterface
	verifier SessionVerifier
}

// NewCartHandler はCartHandlerを生成する。
func NewCartHandler(service OrderServiceInterface, verifier SessionVerifier) *CartHandler {
	return &CartHandler{
		service:  service,
		verifier: verifier,
	}
}

// openCartRequest は注文作成リクエストのボディ。
type openCartRequest struct {
	Email           string   `json:"email"`
	DeliveryAddress string   `json:"deliveryAddress"`
	LineItems       []string `json:"lineItems"`
	Amount          float64  `json:"amount"`
}

// updateCartRequest は注文更新リクエストのボディ。
type updateCartRequest struct {
	ID              string   `json:"id"`
	DeliveryAddress string   `json:"deliveryAddress"`
	LineItems       []string `json:"lineItems"`
	Amount          float64  `json:"amount"`
}

// orderResponse は注文情報のAPIレスポンス。
type orderResponse struct {
	ID              string   `json:"id"`
	Email           string   `json:"email"`
	DeliveryAddress string   `json:"deliveryAddress"`
	LineItems       []string `json:"lineItems"`
	Amount          float64  `json:"amount"`
	Purchased       bool     `json:"purchased"`
	Version         int      `json:"version"`
}

// Open は注文作成を処理する。
// POST /cart
func (h *CartHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req openCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyResponse(w)
		return
	}

	if !validEmail(req.Email) {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("メールアドレスの形式が不正です"))
		return
	}

	if !requireOwnership(w, r, h.verifier, req.Email) {
		return
	}

	o, err := h.service.Open(r.Context(), order.OpenInput{
		Email:           req.Email,
		DeliveryAddress: req.DeliveryAddress,
		LineItems:       req.LineItems,
		Amount:          req.Amount,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, toOrderResponse(o))
}

// Get は注文を取得する。
// GET /cart?id=...
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if !validID(id) {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("注文IDは20文字である必要があります"))
		return
	}

	o, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if !requireOwnership(w, r, h.verifier, o.Email) {
		return
	}

	writeJSONResponse(w, http.StatusOK, toOrderResponse(o))
}

// Update は注文を部分更新する。
// PUT /cart
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyResponse(w)
		return
	}

	req.ID = strings.TrimSpace(req.ID)
	if !validID(req.ID) {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("注文IDは20文字である必要があります"))
		return
	}

	existing, err := h.service.Get(r.Context(), req.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if !requireOwnership(w, r, h.verifier, existing.Email) {
		return
	}

	o, err := h.service.Update(r.Context(), req.ID, model.OrderUpdate{
		DeliveryAddress: req.DeliveryAddress,
		LineItems:       req.LineItems,
		Amount:          req.Amount,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toOrderResponse(o))
}

// Delete は注文を削除する。
// DELETE /cart?id=...
func (h *CartHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if !validID(id) {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("注文IDは20文字である必要があります"))
		return
	}

	o, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if !requireOwnership(w, r, h.verifier, o.Email) {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toOrderResponse はmodel.OrderからAPIレスポンスに変換する。
func toOrderResponse(o *model.Order) orderResponse {
	items := o.LineItems
	if items == nil {
		items = []string{}
	}
	return orderResponse{
		ID:              o.ID,
		Email:           o.Email,
		DeliveryAddress: o.DeliveryAddress,
		LineItems:       items,
		Amount:          o.Amount,
		Purchased:       o.Purchased,
		Version:         o.Version,
	}
}
