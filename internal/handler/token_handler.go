package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/hitoshi/pizzaya/internal/model"
)

// TokenServiceInterface はトークンハンドラーが必要とするサービスインターフェース。
type TokenServiceInterface interface {
	// Issue は資格情報を照合し、新しいトークンを発行する。
	Issue(ctx context.Context, email, password string) (*model.Token, error)
	// Get はトークンIDからトークンを取得する。
	Get(ctx context.Context, tokenID string) (*model.Token, error)
	// Renew はトークンの有効期限を延長する。
	Renew(ctx context.Context, tokenID string) (*model.Token, error)
	// Revoke はトークンを削除する。
	Revoke(ctx context.Context, tokenID string) error
}

// TokenHandler はトークン管理のHTTPハンドラー。
type TokenHandler struct {
	service TokenServiceInterface
}

// NewTokenHandler はTokenHandlerを生成する。
func NewTokenHandler(service TokenServiceInterface) *TokenHandler {
	return &TokenHandler{service: service}
}

// issueTokenRequest はログインリクエストのボディ。
type issueTokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// renewTokenRequest はトークン延長リクエストのボディ。
// extendは明示的にtrueでなければならない。
type renewTokenRequest struct {
	ID     string `json:"id"`
	Extend bool   `json:"extend"`
}

// tokenResponse はトークン情報のAPIレスポンス。
type tokenResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Issue はログインを処理する。
// POST /tokens
func (h *TokenHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var req issueTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyResponse(w)
		return
	}

	if !validEmail(req.Email) || req.Password == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("メールアドレスとパスワードは必須です"))
		return
	}

	token, err := h.service.Issue(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, toTokenResponse(token))
}

// Get はトークン情報を取得する。
// GET /tokens?id=...
func (h *TokenHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if !validID(id) {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("トークンIDは20文字である必要があります"))
		return
	}

	token, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toTokenResponse(token))
}

// Renew はトークンの有効期限を延長する。
// PUT /tokens
func (h *TokenHandler) Renew(w http.ResponseWriter, r *http.Request) {
	var req renewTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyResponse(w)
		return
	}

	req.ID = strings.TrimSpace(req.ID)
	if !validID(req.ID) || !req.Extend {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("idとextend=trueは必須です"))
		return
	}

	token, err := h.service.Renew(r.Context(), req.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toTokenResponse(token))
}

// Revoke はログアウトを処理する。
// DELETE /tokens?id=...
func (h *TokenHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if !validID(id) {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("トークンIDは20文字である必要があります"))
		return
	}

	if err := h.service.Revoke(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toTokenResponse はmodel.TokenからAPIレスポンスに変換する。
func toTokenResponse(t *model.Token) tokenResponse {
	return tokenResponse{
		ID:        t.ID,
		Email:     t.Email,
		ExpiresAt: t.ExpiresAt,
	}
}
