package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/pizzaya/internal/model"
	"github.com/hitoshi/pizzaya/internal/user"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	// Register は新規ユーザーを登録する。
	Register(ctx context.Context, input user.RegisterInput) (*model.User, error)
	// Get はメールアドレスからユーザーを取得する。
	Get(ctx context.Context, email string) (*model.User, error)
	// Update はプロフィールを部分更新する。
	Update(ctx context.Context, email string, input user.UpdateInput) (*model.User, error)
	// Withdraw は退会処理を実行し、トークンと注文をカスケード削除する。
	Withdraw(ctx context.Context, email string) error
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	service  UserServiceInterface
	verifier SessionVerifier
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface, verifier SessionVerifier) *UserHandler {
	return &UserHandler{
		service:  service,
		verifier: verifier,
	}
}

// registerRequest はユーザー登録リクエストのボディ。
type registerRequest struct {
	Email         string `json:"email"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Password      string `json:"password"`
	StreetAddress string `json:"streetAddress"`
}

// updateUserRequest はプロフィール更新リクエストのボディ。
type updateUserRequest struct {
	Email         string `json:"email"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Password      string `json:"password"`
	StreetAddress string `json:"streetAddress"`
}

// userResponse はユーザー情報のAPIレスポンス。
// パスワードダイジェストは決して含めない。
type userResponse struct {
	Email         string `json:"email"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	StreetAddress string `json:"streetAddress"`
}

// Register はユーザー登録を処理する。認証不要の唯一の書き込み操作。
// POST /users
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyResponse(w)
		return
	}

	if !validEmail(req.Email) {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("メールアドレスの形式が不正です"))
		return
	}

	created, err := h.service.Register(r.Context(), user.RegisterInput{
		Email:         req.Email,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Password:      req.Password,
		StreetAddress: req.StreetAddress,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, toUserResponse(created))
}

// Get はプロフィールを取得する。
// GET /users?email=...
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if !validEmail(email) {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("メールアドレスの形式が不正です"))
		return
	}

	if !requireOwnership(w, r, h.verifier, email) {
		return
	}

	u, err := h.service.Get(r.Context(), email)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toUserResponse(u))
}

// Update はプロフィールを部分更新する。
// PUT /users
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
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

	u, err := h.service.Update(r.Context(), req.Email, user.UpdateInput{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Password:      req.Password,
		StreetAddress: req.StreetAddress,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toUserResponse(u))
}

// Withdraw は退会処理を実行する。
// DELETE /users?email=...
func (h *UserHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if !validEmail(email) {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("メールアドレスの形式が不正です"))
		return
	}

	if !requireOwnership(w, r, h.verifier, email) {
		return
	}

	if err := h.service.Withdraw(r.Context(), email); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toUserResponse はmodel.UserからAPIレスポンスに変換する。
func toUserResponse(u *model.User) userResponse {
	return userResponse{
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		StreetAddress: u.StreetAddress,
	}
}
