package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/pizzaya/internal/model"
	"github.com/hitoshi/pizzaya/internal/user"
)

// TestRegister_ValidBody_Returns201 はユーザー登録が201を返すことを検証する。
func TestRegister_ValidBody_Returns201(t *testing.T) {
	var registered user.RegisterInput
	svc := &mockUserService{
		registerFn: func(ctx context.Context, input user.RegisterInput) (*model.User, error) {
			registered = input
			return &model.User{
				Email:         input.Email,
				FirstName:     input.FirstName,
				LastName:      input.LastName,
				StreetAddress: input.StreetAddress,
			}, nil
		},
	}
	h := NewUserHandler(svc, allowAll())

	body := `{"email":"taro@example.com","firstName":"太郎","lastName":"山田","password":"secret123","streetAddress":"東京都渋谷区1-2-3"}`
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Register(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
	}
	if registered.Email != "taro@example.com" {
		t.Errorf("registered email = %q", registered.Email)
	}

	// レスポンスにパスワード関連のフィールドが含まれない
	if strings.Contains(strings.ToLower(w.Body.String()), "password") {
		t.Error("レスポンスにパスワードフィールドが含まれている")
	}
}

// TestRegister_InvalidJSON_Returns400 は不正なJSONで400が返ることを検証する。
func TestRegister_InvalidJSON_Returns400(t *testing.T) {
	h := NewUserHandler(&mockUserService{}, allowAll())

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	h.Register(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

// TestRegister_InvalidEmail_Returns400 は形式不正のメールアドレスで400が返ることを検証する。
func TestRegister_InvalidEmail_Returns400(t *testing.T) {
	h := NewUserHandler(&mockUserService{}, allowAll())

	body := `{"email":"bad","firstName":"太郎","lastName":"山田","password":"secret123","streetAddress":"東京"}`
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Register(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

// TestRegister_DuplicateEmail_Returns400 は重複登録で400が返ることを検証する。
func TestRegister_DuplicateEmail_Returns400(t *testing.T) {
	svc := &mockUserService{
		registerFn: func(ctx context.Context, input user.RegisterInput) (*model.User, error) {
			return nil, model.NewUserAlreadyExistsError(input.Email)
		},
	}
	h := NewUserHandler(svc, allowAll())

	body := `{"email":"taro@example.com","firstName":"太郎","lastName":"山田","password":"secret123","streetAddress":"東京"}`
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Register(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if got := decodeErrorResponse(t, w).Code; got != model.ErrCodeUserAlreadyExists {
		t.Errorf("error code = %q, want %q", got, model.ErrCodeUserAlreadyExists)
	}
}

// TestGetUser_ValidToken_ReturnsProfileWithoutDigest は取得結果にダイジェストが含まれないことを検証する。
func TestGetUser_ValidToken_ReturnsProfileWithoutDigest(t *testing.T) {
	svc := &mockUserService{
		getFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{
				Email:          email,
				FirstName:      "太郎",
				HashedPassword: "deadbeef",
			}, nil
		},
	}
	h := NewUserHandler(svc, allowAll())

	req := httptest.NewRequest(http.MethodGet, "/users?email=taro@example.com", nil)
	req.Header.Set("token", "abcdefghij0123456789")
	w := httptest.NewRecorder()
	h.Get(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if strings.Contains(w.Body.String(), "deadbeef") {
		t.Error("レスポンスにパスワードダイジェストが含まれている")
	}

	var resp userResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("レスポンスがJSONではない: %v", err)
	}
	if resp.FirstName != "太郎" {
		t.Errorf("firstName = %q, want 太郎", resp.FirstName)
	}
}

// TestGetUser_InvalidToken_Returns403 はトークン検証失敗で403が返ることを検証する。
func TestGetUser_InvalidToken_Returns403(t *testing.T) {
	serviceCalled := false
	svc := &mockUserService{
		getFn: func(ctx context.Context, email string) (*model.User, error) {
			serviceCalled = true
			return &model.User{Email: email}, nil
		},
	}
	h := NewUserHandler(svc, denyAll())

	req := httptest.NewRequest(http.MethodGet, "/users?email=taro@example.com", nil)
	w := httptest.NewRecorder()
	h.Get(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
	if serviceCalled {
		t.Error("検証失敗時にサービスが呼ばれてはならない")
	}
}

// TestUpdateUser_PartialBody_Returns200 はプロフィール更新が200を返すことを検証する。
func TestUpdateUser_PartialBody_Returns200(t *testing.T) {
	var updatedEmail string
	var updatedInput user.UpdateInput
	svc := &mockUserService{
		updateFn: func(ctx context.Context, email string, input user.UpdateInput) (*model.User, error) {
			updatedEmail = email
			updatedInput = input
			return &model.User{Email: email, StreetAddress: input.StreetAddress}, nil
		},
	}
	h := NewUserHandler(svc, allowAll())

	body := `{"email":"taro@example.com","streetAddress":"大阪府大阪市4-5-6"}`
	req := httptest.NewRequest(http.MethodPut, "/users", strings.NewReader(body))
	req.Header.Set("token", "abcdefghij0123456789")
	w := httptest.NewRecorder()
	h.Update(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
	if updatedEmail != "taro@example.com" {
		t.Errorf("updated email = %q", updatedEmail)
	}
	if updatedInput.StreetAddress != "大阪府大阪市4-5-6" {
		t.Errorf("street address = %q", updatedInput.StreetAddress)
	}
}

// TestWithdrawUser_ValidToken_Returns204 は退会が204を返すことを検証する。
func TestWithdrawUser_ValidToken_Returns204(t *testing.T) {
	var withdrawn string
	svc := &mockUserService{
		withdrawFn: func(ctx context.Context, email string) error {
			withdrawn = email
			return nil
		},
	}
	h := NewUserHandler(svc, allowAll())

	req := httptest.NewRequest(http.MethodDelete, "/users?email=taro@example.com", nil)
	req.Header.Set("token", "abcdefghij0123456789")
	w := httptest.NewRecorder()
	h.Withdraw(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if withdrawn != "taro@example.com" {
		t.Errorf("withdrawn email = %q", withdrawn)
	}
}

// TestWithdrawUser_MissingEmail_Returns400 はメールアドレス未指定で400が返ることを検証する。
func TestWithdrawUser_MissingEmail_Returns400(t *testing.T) {
	h := NewUserHandler(&mockUserService{}, allowAll())

	req := httptest.NewRequest(http.MethodDelete, "/users", bytes.NewReader(nil))
	w := httptest.NewRecorder()
	h.Withdraw(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
