package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/pizzaya/internal/model"
)

// TestIssueToken_ValidCredentials_Returns201 はログイン成功で201とトークンが返ることを検証する。
func TestIssueToken_ValidCredentials_Returns201(t *testing.T) {
	svc := &mockTokenService{
		issueFn: func(ctx context.Context, email, password string) (*model.Token, error) {
			return &model.Token{
				ID:        "abcdefghij0123456789",
				Email:     email,
				ExpiresAt: time.Now().Add(time.Hour),
			}, nil
		},
	}
	h := NewTokenHandler(svc)

	body := `{"email":"taro@example.com","password":"secret123"}`
	req := httptest.NewRequest(http.MethodPost, "/tokens", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Issue(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var resp tokenResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("レスポンスがJSONではない: %v", err)
	}
	if resp.ID != "abcdefghij0123456789" {
		t.Errorf("token ID = %q", resp.ID)
	}
	if resp.Email != "taro@example.com" {
		t.Errorf("email = %q", resp.Email)
	}
}

// TestIssueToken_WrongPassword_Returns400 はパスワード不一致で400が返ることを検証する。
func TestIssueToken_WrongPassword_Returns400(t *testing.T) {
	svc := &mockTokenService{
		issueFn: func(ctx context.Context, email, password string) (*model.Token, error) {
			return nil, model.NewInvalidCredentialsError()
		},
	}
	h := NewTokenHandler(svc)

	body := `{"email":"taro@example.com","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/tokens", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Issue(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if got := decodeErrorResponse(t, w).Code; got != model.ErrCodeInvalidCredentials {
		t.Errorf("error code = %q, want %q", got, model.ErrCodeInvalidCredentials)
	}
}

// TestIssueToken_MissingFields_Returns400 は必須フィールド欠落で400が返ることを検証する。
func TestIssueToken_MissingFields_Returns400(t *testing.T) {
	h := NewTokenHandler(&mockTokenService{})

	body := `{"email":"taro@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/tokens", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Issue(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

// TestGetToken_ValidID_Returns200 はトークン取得が200を返すことを検証する。
func TestGetToken_ValidID_Returns200(t *testing.T) {
	h := NewTokenHandler(&mockTokenService{})

	req := httptest.NewRequest(http.MethodGet, "/tokens?id=abcdefghij0123456789", nil)
	w := httptest.NewRecorder()
	h.Get(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

// TestGetToken_PaddedID_TrimsBeforeLookup は前後に空白のあるIDがトリムされてから
// サービスに渡されることを検証する。
func TestGetToken_PaddedID_TrimsBeforeLookup(t *testing.T) {
	var lookedUp string
	svc := &mockTokenService{
		getFn: func(ctx context.Context, tokenID string) (*model.Token, error) {
			lookedUp = tokenID
			return &model.Token{ID: tokenID}, nil
		},
	}
	h := NewTokenHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/tokens?id=%20abcdefghij0123456789%20", nil)
	w := httptest.NewRecorder()
	h.Get(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if lookedUp != "abcdefghij0123456789" {
		t.Errorf("looked up ID = %q, want trimmed %q", lookedUp, "abcdefghij0123456789")
	}
}

// TestGetToken_ShortID_Returns400 は20文字未満のIDで400が返ることを検証する。
func TestGetToken_ShortID_Returns400(t *testing.T) {
	h := NewTokenHandler(&mockTokenService{})

	req := httptest.NewRequest(http.MethodGet, "/tokens?id=short", nil)
	w := httptest.NewRecorder()
	h.Get(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

// TestGetToken_Unknown_Returns404 は存在しないトークンで404が返ることを検証する。
func TestGetToken_Unknown_Returns404(t *testing.T) {
	svc := &mockTokenService{
		getFn: func(ctx context.Context, tokenID string) (*model.Token, error) {
			return nil, model.NewTokenNotFoundError()
		},
	}
	h := NewTokenHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/tokens?id=abcdefghij0123456789", nil)
	w := httptest.NewRecorder()
	h.Get(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

// TestRenewToken_ExtendTrue_Returns200 は延長リクエストが200を返すことを検証する。
func TestRenewToken_ExtendTrue_Returns200(t *testing.T) {
	var renewedID string
	svc := &mockTokenService{
		renewFn: func(ctx context.Context, tokenID string) (*model.Token, error) {
			renewedID = tokenID
			return &model.Token{ID: tokenID, ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
	}
	h := NewTokenHandler(svc)

	body := `{"id":"abcdefghij0123456789","extend":true}`
	req := httptest.NewRequest(http.MethodPut, "/tokens", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Renew(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if renewedID != "abcdefghij0123456789" {
		t.Errorf("renewed ID = %q", renewedID)
	}
}

// TestRenewToken_ExtendFalse_Returns400 はextend未指定で400が返ることを検証する。
func TestRenewToken_ExtendFalse_Returns400(t *testing.T) {
	h := NewTokenHandler(&mockTokenService{})

	body := `{"id":"abcdefghij0123456789","extend":false}`
	req := httptest.NewRequest(http.MethodPut, "/tokens", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Renew(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

// TestRenewToken_Expired_Returns403 は期限切れトークンの延長で403が返ることを検証する。
func TestRenewToken_Expired_Returns403(t *testing.T) {
	svc := &mockTokenService{
		renewFn: func(ctx context.Context, tokenID string) (*model.Token, error) {
			return nil, model.NewTokenExpiredError()
		},
	}
	h := NewTokenHandler(svc)

	body := `{"id":"abcdefghij0123456789","extend":true}`
	req := httptest.NewRequest(http.MethodPut, "/tokens", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Renew(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
	if got := decodeErrorResponse(t, w).Code; got != model.ErrCodeTokenExpired {
		t.Errorf("error code = %q, want %q", got, model.ErrCodeTokenExpired)
	}
}

// TestRevokeToken_ValidID_Returns204 はログアウトが204を返すことを検証する。
func TestRevokeToken_ValidID_Returns204(t *testing.T) {
	var revokedID string
	svc := &mockTokenService{
		revokeFn: func(ctx context.Context, tokenID string) error {
			revokedID = tokenID
			return nil
		},
	}
	h := NewTokenHandler(svc)

	req := httptest.NewRequest(http.MethodDelete, "/tokens?id=abcdefghij0123456789", nil)
	w := httptest.NewRecorder()
	h.Revoke(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if revokedID != "abcdefghij0123456789" {
		t.Errorf("revoked ID = %q", revokedID)
	}
}
