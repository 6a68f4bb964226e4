// Package payment は決済プロバイダー（Stripe）との連携機能を提供する。
// Charges APIを呼び出して注文金額を請求する。
package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// defaultEndpoint はStripe Charges APIのエンドポイント。
const defaultEndpoint = "https://api.stripe.com/v1/charges"

// ChargeRequest は1回の請求の入力。
type ChargeRequest struct {
	AmountCents int    // 請求額（最小通貨単位）
	Currency    string // 通貨コード。例: "jpy", "usd"
	Source      string // 支払いソーストークン
	Description string // 明細に表示される説明
}

// ChargeError は決済プロバイダーが返した失敗を表す。
// プロバイダーのステータスコードとメッセージをそのまま保持する。
type ChargeError struct {
	StatusCode int
	Message    string
}

// Error はerrorインターフェースを実装する。
func (e *ChargeError) Error() string {
	return fmt.Sprintf("charge failed with status %d: %s", e.StatusCode, e.Message)
}

// Client はStripe Charges APIのクライアント。
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	apiKey     string
	endpoint   string // テスト用にエンドポイントを差し替え可能
}

// NewClient はClientの新しいインスタンスを生成する。
func NewClient(httpClient *http.Client, logger *slog.Logger, apiKey string) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		apiKey:     apiKey,
		endpoint:   defaultEndpoint,
	}
}

// SetEndpoint はChargeの送信先エンドポイントを上書きする。
// ローカル開発でスタブ決済サーバーに向ける場合に使う。
func (c *Client) SetEndpoint(endpoint string) {
	if endpoint != "" {
		c.endpoint = endpoint
	}
}

// Charge は指定金額を請求する。
// 冪等キーを毎回生成して付与するため、ネットワーク再送で二重請求は発生しない。
// プロバイダーが2xx以外を返した場合はChargeErrorを返す。
func (c *Client) Charge(ctx context.Context, req ChargeRequest) error {
	if req.AmountCents <= 0 {
		return fmt.Errorf("請求額は正の非ゼロ値である必要があります: %d", req.AmountCents)
	}

	form := url.Values{}
	form.Set("amount", strconv.Itoa(req.AmountCents))
	form.Set("currency", req.Currency)
	form.Set("source", req.Source)
	form.Set("description", req.Description)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Idempotency-Key", uuid.New().String())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("決済APIの呼び出しに失敗しました",
			slog.String("error", err.Error()),
			slog.Int("amount_cents", req.AmountCents),
		)
		return fmt.Errorf("決済APIの呼び出しに失敗しました: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		c.logger.Info("請求が完了しました",
			slog.Int("amount_cents", req.AmountCents),
			slog.String("currency", req.Currency),
		)
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ChargeError{StatusCode: resp.StatusCode, Message: "レスポンスボディの読み取りに失敗しました"}
	}

	message := extractErrorMessage(body)
	c.logger.Error("決済プロバイダーがエラーステータスを返しました",
		slog.Int("http_status", resp.StatusCode),
		slog.String("message", message),
	)

	return &ChargeError{StatusCode: resp.StatusCode, Message: message}
}

// extractErrorMessage はStripeのエラーレスポンスからメッセージを取り出す。
// パースできない場合はボディ全体を返す。
func extractErrorMessage(body []byte) string {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error.Message != "" {
		return payload.Error.Message
	}
	return string(body)
}
