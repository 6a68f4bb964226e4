package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/pizzaya/internal/model"
)

// MenuServiceInterface はメニューハンドラーが必要とするサービスインターフェース。
type MenuServiceInterface interface {
	// List は全商品を名前順で返す。
	List(ctx context.Context) ([]*model.Product, error)
}

// MenuHandler はメニュー取得のHTTPハンドラー。
type MenuHandler struct {
	service  MenuServiceInterface
	verifier SessionVerifier
}

// NewMenuHandler はMenuHandlerを生成する。
func NewMenuHandler(service MenuServiceInterface, verifier SessionVerifier) *MenuHandler {
	return &MenuHandler{
		service:  service,
		verifier: verifier,
	}
}

// productResponse は商品情報のAPIレスポンス。
type productResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int    `json:"priceCents"`
}

// List はメニュー一覧を取得する。ログイン済みユーザーのみ閲覧できる。
// GET /menu?email=...
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if !validEmail(email) {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("メールアドレスの形式が不正です"))
		return
	}

	if !requireOwnership(w, r, h.verifier, email) {
		return
	}

	products, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]productResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, productResponse{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			PriceCents:  p.PriceCents,
		})
	}

	writeJSONResponse(w, http.StatusOK, resp)
}
