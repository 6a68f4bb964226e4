// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, order, payment, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUserAlreadyExists  = "USER_ALREADY_EXISTS"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeTokenNotFound      = "TOKEN_NOT_FOUND"
	ErrCodeTokenExpired       = "TOKEN_EXPIRED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeOrderNotFound      = "ORDER_NOT_FOUND"
	ErrCodeAlreadyPurchased   = "ALREADY_PURCHASED"
	ErrCodeNothingToUpdate    = "NOTHING_TO_UPDATE"
	ErrCodeOrderConflict      = "ORDER_CONFLICT"
	ErrCodeInvalidAmount      = "INVALID_AMOUNT"
	ErrCodeEmptyLineItems     = "EMPTY_LINE_ITEMS"
	ErrCodePaymentFailed      = "PAYMENT_FAILED"
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
)

// NewUserAlreadyExistsError は登録済みメールアドレスの重複エラーを生成する。
func NewUserAlreadyExistsError(email string) *APIError {
	return &APIError{
		Code:     ErrCodeUserAlreadyExists,
		Message:  fmt.Sprintf("このメールアドレスは既に登録されています: %s", email),
		Category: "validation",
		Action:   "別のメールアドレスを使用するか、ログインしてください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError(email string) *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  fmt.Sprintf("指定されたユーザーが見つかりません: %s", email),
		Category: "auth",
		Action:   "メールアドレスを確認するか、先にユーザー登録を行ってください。",
	}
}

// NewInvalidCredentialsError はパスワード不一致エラーを生成する。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "パスワードが登録されているものと一致しません。",
		Category: "auth",
		Action:   "パスワードを確認して再度お試しください。",
	}
}

// NewTokenNotFoundError はトークンが見つからない場合のエラーを生成する。
func NewTokenNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeTokenNotFound,
		Message:  "指定されたトークンが存在しません。",
		Category: "auth",
		Action:   "トークンIDを確認するか、再度ログインしてください。",
	}
}

// NewTokenExpiredError は期限切れトークンの延長エラーを生成する。
// 期限切れトークンは仕様上、決して延長できない。
func NewTokenExpiredError() *APIError {
	return &APIError{
		Code:     ErrCodeTokenExpired,
		Message:  "トークンは既に期限切れのため、延長できません。",
		Category: "auth",
		Action:   "再度ログインして新しいトークンを取得してください。",
	}
}

// NewForbiddenError はトークン検証失敗エラーを生成する。
// トークンの欠落・無効・期限切れ・メールアドレス不一致のすべてを同じ応答に畳み込む。
func NewForbiddenError() *APIError {
	return &APIError{
		Code:     ErrCodeForbidden,
		Message:  "tokenヘッダーが欠落しているか、トークンが無効です。",
		Category: "auth",
		Action:   "有効なトークンをtokenヘッダーに設定して再度お試しください。",
	}
}

// NewOrderNotFoundError は注文が見つからない場合のエラーを生成する。
func NewOrderNotFoundError(orderID string) *APIError {
	return &APIError{
		Code:     ErrCodeOrderNotFound,
		Message:  fmt.Sprintf("指定された注文が見つかりません: %s", orderID),
		Category: "order",
		Action:   "注文IDを確認してください。",
	}
}

// NewAlreadyPurchasedError は購入済み注文の変更エラーを生成する。
// 購入は一方向の状態遷移であり、購入済み注文の内容は不変となる。
func NewAlreadyPurchasedError(orderID string) *APIError {
	return &APIError{
		Code:     ErrCodeAlreadyPurchased,
		Message:  fmt.Sprintf("この注文は既に購入済みのため変更できません: %s", orderID),
		Category: "order",
		Action:   "新しい注文を作成してください。",
	}
}

// NewNothingToUpdateError は更新対象フィールド不足エラーを生成する。
func NewNothingToUpdateError() *APIError {
	return &APIError{
		Code:     ErrCodeNothingToUpdate,
		Message:  "更新するフィールドが指定されていません。",
		Category: "validation",
		Action:   "金額に加えて、配達先住所または商品リストの少なくとも一方を指定してください。",
	}
}

// NewOrderConflictError は楽観的排他制御の競合エラーを生成する。
func NewOrderConflictError(orderID string) *APIError {
	return &APIError{
		Code:     ErrCodeOrderConflict,
		Message:  fmt.Sprintf("注文が別のリクエストによって同時に変更されました: %s", orderID),
		Category: "order",
		Action:   "注文を再取得してから、もう一度変更を適用してください。",
	}
}

// NewInvalidAmountError は金額バリデーションエラーを生成する。
func NewInvalidAmountError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidAmount,
		Message:  "金額は正の非ゼロ値である必要があります。",
		Category: "validation",
		Action:   "0より大きい金額を指定してください。",
	}
}

// NewEmptyLineItemsError は空の商品リストエラーを生成する。
func NewEmptyLineItemsError() *APIError {
	return &APIError{
		Code:     ErrCodeEmptyLineItems,
		Message:  "商品が1つも選択されていません。",
		Category: "validation",
		Action:   "少なくとも1つの商品を選択してください。",
	}
}

// NewPaymentFailedError は決済コラボレーターの失敗エラーを生成する。
// 決済プロバイダーからのステータスとメッセージをそのまま保持する。
func NewPaymentFailedError(detail string) *APIError {
	return &APIError{
		Code:     ErrCodePaymentFailed,
		Message:  fmt.Sprintf("決済に失敗しました: %s", detail),
		Category: "payment",
		Action:   "支払い方法を確認してから再度お試しください。",
	}
}

// NewInvalidRequestError はリクエスト形式エラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("リクエストが不正です: %s", reason),
		Category: "validation",
		Action:   "必須フィールドと形式を確認して再度リクエストしてください。",
	}
}
