// Package handler はHTTP APIのハンドラーとルーティングを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hitoshi/pizzaya/internal/model"
)

// tokenHeaderName は認証トークンを運ぶHTTPヘッダー名。
const tokenHeaderName = "token"

// SessionVerifier は保護されたリソースへのアクセス前に呼び出される
// トークン検証のインターフェース。
type SessionVerifier interface {
	// Verify はトークンが有効で、指定メールアドレスに属することを検証する。
	Verify(ctx context.Context, tokenID, email string) error
}

// apiErrorResponse は統一エラーフォーマットのレスポンス。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// requireOwnership はtokenヘッダーと主張されたメールアドレスの組を検証する。
// 検証失敗時はエラーレスポンスを書き込んでfalseを返す。
// すべての保護されたエンドポイントはこのガードを通す。
func requireOwnership(w http.ResponseWriter, r *http.Request, verifier SessionVerifier, email string) bool {
	token := r.Header.Get(tokenHeaderName)
	if err := verifier.Verify(r.Context(), token, email); err != nil {
		handleServiceError(w, err)
		return false
	}
	return true
}

// validEmail はメールアドレスの形式を検証する。
// "@"を含み、トリム後10文字を超えることを要求する。
func validEmail(email string) bool {
	trimmed := strings.TrimSpace(email)
	return strings.Contains(trimmed, "@") && len(trimmed) > 10
}

// validID は20文字固定のリソースIDを検証する。
func validID(id string) bool {
	return len(strings.TrimSpace(id)) == 20
}

// writeJSONResponse はJSONレスポンスを書き込む。
func writeJSONResponse(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	writeJSONResponse(w, statusCode, apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// writeInvalidBodyResponse はJSONデコード失敗の統一レスポンスを書き込む。
func writeInvalidBodyResponse(w http.ResponseWriter) {
	writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
		Code:     model.ErrCodeInvalidRequest,
		Message:  "リクエストボディの解析に失敗しました。",
		Category: "validation",
		Action:   "正しいJSON形式でリクエストしてください。",
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeAPIErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
// 認証系は403、資格情報不一致と購入済み・重複はバリデーション同様400に畳み込む。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeInvalidRequest,
		model.ErrCodeInvalidAmount,
		model.ErrCodeEmptyLineItems,
		model.ErrCodeNothingToUpdate,
		model.ErrCodeUserAlreadyExists,
		model.ErrCodeAlreadyPurchased,
		model.ErrCodeInvalidCredentials:
		return http.StatusBadRequest
	case model.ErrCodeForbidden, model.ErrCodeTokenExpired:
		return http.StatusForbidden
	case model.ErrCodeUserNotFound,
		model.ErrCodeTokenNotFound,
		model.ErrCodeOrderNotFound:
		return http.StatusNotFound
	case model.ErrCodePaymentFailed:
		return http.StatusPaymentRequired
	case model.ErrCodeOrderConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
