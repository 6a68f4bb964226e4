// Package order はショッピングカート（注文）のライフサイクルを提供する。
// 注文は open → 更新可能 → purchased の一方向の状態遷移をとり、
// 購入済みになった注文の内容は変更できない。
package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/hitoshi/pizzaya/internal/ident"
	"github.com/hitoshi/pizzaya/internal/metrics"
	"github.com/hitoshi/pizzaya/internal/model"
	"github.com/hitoshi/pizzaya/internal/payment"
	"github.com/hitoshi/pizzaya/internal/repository"
)

const (
	// chargeDescription は決済明細に表示される固定の説明文。
	chargeDescription = "ピザデリバリーの注文"
	// defaultChargeSource は支払いソース未指定時のデフォルトトークン。
	defaultChargeSource = "tok_visa"
	// chargeCurrency は請求通貨。
	chargeCurrency = "usd"
)

// ChargeProcessor は決済コラボレーターのインターフェース。
type ChargeProcessor interface {
	Charge(ctx context.Context, req payment.ChargeRequest) error
}

// OpenInput は注文作成の入力。
type OpenInput struct {
	Email           string
	DeliveryAddress string
	LineItems       []string
	Amount          float64
}

// Service は注文管理のビジネスロジックを提供する。
type Service struct {
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	processor ChargeProcessor
	metrics   metrics.MetricsCollector
}

// NewService はServiceを生成する。
func NewService(
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	processor ChargeProcessor,
	collector metrics.MetricsCollector,
) *Service {
	return &Service{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		processor: processor,
		metrics:   collector,
	}
}

// validDeliveryAddress は配達先住所として十分な長さがあるかを返す。
func validDeliveryAddress(address string) bool {
	return len(strings.TrimSpace(address)) > 10
}

// Open は新しい注文を作成する。
// 金額は正の非ゼロ値、商品リストは非空でなければならない。
func (s *Service) Open(ctx context.Context, input OpenInput) (*model.Order, error) {
	if input.Email == "" {
		return nil, model.NewInvalidRequestError("メールアドレスは必須です")
	}
	if !validDeliveryAddress(input.DeliveryAddress) {
		return nil, model.NewInvalidRequestError("配達先住所が短すぎます")
	}
	if input.Amount <= 0 {
		return nil, model.NewInvalidAmountError()
	}
	if len(input.LineItems) == 0 {
		return nil, model.NewEmptyLineItemsError()
	}

	owner, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if owner == nil {
		return nil, model.NewUserNotFoundError(input.Email)
	}

	orderID, err := ident.New(model.OrderIDLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate order ID: %w", err)
	}

	now := time.Now()
	order := &model.Order{
		ID:              orderID,
		Email:           input.Email,
		DeliveryAddress: input.DeliveryAddress,
		LineItems:       input.LineItems,
		Amount:          input.Amount,
		Purchased:       false,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.recordOrderOpened()
	slog.Info("order opened",
		slog.String("order_id", order.ID),
		slog.String("email", order.Email),
		slog.Float64("amount", order.Amount),
	)

	return order, nil
}

// Get は注文IDから注文を取得する。
func (s *Service) Get(ctx context.Context, orderID string) (*model.Order, error) {
	if orderID == "" {
		return nil, model.NewInvalidRequestError("注文IDは必須です")
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	if order == nil {
		return nil, model.NewOrderNotFoundError(orderID)
	}

	return order, nil
}

// Update は注文を部分更新する。金額は常に上書きされる。
// 金額に加えて配達先住所または商品リストの少なくとも一方の指定が必要。
// 購入済み注文はALREADY_PURCHASEDで拒否される。
func (s *Service) Update(ctx context.Context, orderID string, update model.OrderUpdate) (*model.Order, error) {
	if orderID == "" {
		return nil, model.NewInvalidRequestError("注文IDは必須です")
	}
	if update.Amount <= 0 {
		return nil, model.NewInvalidAmountError()
	}
	if update.DeliveryAddress == "" && len(update.LineItems) == 0 {
		return nil, model.NewNothingToUpdateError()
	}
	if update.DeliveryAddress != "" && !validDeliveryAddress(update.DeliveryAddress) {
		return nil, model.NewInvalidRequestError("配達先住所が短すぎます")
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	if order == nil {
		return nil, model.NewOrderNotFoundError(orderID)
	}
	if order.Purchased {
		return nil, model.NewAlreadyPurchasedError(orderID)
	}

	if update.DeliveryAddress != "" {
		order.DeliveryAddress = update.DeliveryAddress
	}
	if len(update.LineItems) > 0 {
		order.LineItems = update.LineItems
	}
	order.Amount = update.Amount
	order.UpdatedAt = time.Now()

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	slog.Info("order updated",
		slog.String("order_id", order.ID),
		slog.Float64("amount", order.Amount),
	)

	return order, nil
}

// Delete は注文を削除する。
func (s *Service) Delete(ctx context.Context, orderID string) error {
	if orderID == "" {
		return model.NewInvalidRequestError("注文IDは必須です")
	}

	if err := s.orderRepo.DeleteByID(ctx, orderID); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	slog.Info("order deleted", slog.String("order_id", orderID))
	return nil
}

// Purchase は注文を購入する。
// 決済コラボレーターへの請求が成功した場合のみ purchased = true に遷移する。
// 購入済み注文は請求前にALREADY_PURCHASEDで拒否され、二重請求を防ぐ。
// 請求失敗時は注文を変更せず、プロバイダーの失敗詳細をPAYMENT_FAILEDで伝播する。
func (s *Service) Purchase(ctx context.Context, orderID, source string) (*model.Order, error) {
	if orderID == "" {
		return nil, model.NewInvalidRequestError("注文IDは必須です")
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	if order == nil {
		return nil, model.NewOrderNotFoundError(orderID)
	}
	if order.Purchased {
		return nil, model.NewAlreadyPurchasedError(orderID)
	}
	if order.Amount <= 0 {
		return nil, model.NewInvalidAmountError()
	}

	if source == "" {
		source = defaultChargeSource
	}

	start := time.Now()
	chargeErr := s.processor.Charge(ctx, payment.ChargeRequest{
		AmountCents: int(math.Round(order.Amount * 100)),
		Currency:    chargeCurrency,
		Source:      source,
		Description: chargeDescription,
	})
	s.recordChargeLatency(time.Since(start))

	if chargeErr != nil {
		s.recordPaymentFailure()

		var providerErr *payment.ChargeError
		if errors.As(chargeErr, &providerErr) {
			slog.Warn("payment declined",
				slog.String("order_id", orderID),
				slog.Int("provider_status", providerErr.StatusCode),
			)
			return nil, model.NewPaymentFailedError(providerErr.Message)
		}
		return nil, fmt.Errorf("failed to charge order: %w", chargeErr)
	}

	order.Purchased = true
	order.UpdatedAt = time.Now()

	if err := s.orderRepo.Update(ctx, order); err != nil {
		// 請求は成功しているため、永続化失敗は運用調査が必要な重大イベント
		slog.Error("charge succeeded but order update failed",
			slog.String("order_id", orderID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to mark order as purchased: %w", err)
	}

	s.recordPurchaseSuccess()
	slog.Info("order purchased",
		slog.String("order_id", order.ID),
		slog.Float64("amount", order.Amount),
	)

	return order, nil
}

func (s *Service) recordOrderOpened() {
	if s.metrics != nil {
		s.metrics.RecordOrderOpened()
	}
}

func (s *Service) recordPurchaseSuccess() {
	if s.metrics != nil {
		s.metrics.RecordPurchaseSuccess()
	}
}

func (s *Service) recordPaymentFailure() {
	if s.metrics != nil {
		s.metrics.RecordPaymentFailure()
	}
}

func (s *Service) recordChargeLatency(d time.Duration) {
	if s.metrics != nil {
		s.metrics.RecordChargeLatency(d)
	}
}
