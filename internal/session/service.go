// Package session はベアラートークンの発行、延長、検証、失効を提供する。
package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/pizzaya/internal/ident"
	"github.com/hitoshi/pizzaya/internal/metrics"
	"github.com/hitoshi/pizzaya/internal/model"
	"github.com/hitoshi/pizzaya/internal/repository"
	"github.com/hitoshi/pizzaya/internal/security"
)

// ServiceConfig はセッションサービスの設定。
type ServiceConfig struct {
	TokenTTL time.Duration // トークン有効期間
}

// Service はトークン管理のビジネスロジックを提供する。
type Service struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	hasher    security.PasswordHasher
	metrics   metrics.MetricsCollector
	config    ServiceConfig
}

// NewService はServiceを生成する。
func NewService(
	userRepo repository.UserRepository,
	tokenRepo repository.TokenRepository,
	hasher security.PasswordHasher,
	collector metrics.MetricsCollector,
	config ServiceConfig,
) *Service {
	return &Service{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		hasher:    hasher,
		metrics:   collector,
		config:    config,
	}
}

// Issue は資格情報を照合し、新しいトークンを発行する。
// メールアドレスに対応するユーザーが存在しない場合はUSER_NOT_FOUND、
// パスワードのダイジェストが一致しない場合はINVALID_CREDENTIALSを返す。
func (s *Service) Issue(ctx context.Context, email, password string) (*model.Token, error) {
	if email == "" || password == "" {
		return nil, model.NewInvalidRequestError("メールアドレスとパスワードは必須です")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		s.recordLoginFailure()
		return nil, model.NewUserNotFoundError(email)
	}

	if !s.hasher.Compare(password, user.HashedPassword) {
		s.recordLoginFailure()
		slog.Info("login failed", slog.String("email", email))
		return nil, model.NewInvalidCredentialsError()
	}

	tokenID, err := ident.New(model.TokenIDLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token ID: %w", err)
	}

	now := time.Now()
	token := &model.Token{
		ID:        tokenID,
		Email:     email,
		ExpiresAt: now.Add(s.config.TokenTTL),
		CreatedAt: now,
	}

	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to save token: %w", err)
	}

	s.recordLoginSuccess()
	slog.Info("token issued",
		slog.String("email", email),
		slog.Time("expires_at", token.ExpiresAt),
	)

	return token, nil
}

// Get はトークンIDからトークンを取得する。
// 期限切れトークンも失効処理が走るまでは取得できる。
func (s *Service) Get(ctx context.Context, tokenID string) (*model.Token, error) {
	if tokenID == "" {
		return nil, model.NewInvalidRequestError("トークンIDは必須です")
	}

	token, err := s.tokenRepo.FindByID(ctx, tokenID)
	if err != nil {
		return nil, fmt.Errorf("failed to find token: %w", err)
	}
	if token == nil {
		return nil, model.NewTokenNotFoundError()
	}

	return token, nil
}

// Renew はトークンの有効期限を現在時刻からTTL分延長する。
// 既に期限切れのトークンは延長できず、TOKEN_EXPIREDを返す。
func (s *Service) Renew(ctx context.Context, tokenID string) (*model.Token, error) {
	if tokenID == "" {
		return nil, model.NewInvalidRequestError("トークンIDは必須です")
	}

	token, err := s.tokenRepo.FindByID(ctx, tokenID)
	if err != nil {
		return nil, fmt.Errorf("failed to find token: %w", err)
	}
	if token == nil {
		return nil, model.NewTokenNotFoundError()
	}
	if token.Expired(time.Now()) {
		return nil, model.NewTokenExpiredError()
	}

	token.ExpiresAt = time.Now().Add(s.config.TokenTTL)
	if err := s.tokenRepo.Update(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to update token: %w", err)
	}

	slog.Info("token renewed",
		slog.String("email", token.Email),
		slog.Time("expires_at", token.ExpiresAt),
	)

	return token, nil
}

// Revoke はトークンを削除する。ログアウトに相当する。
func (s *Service) Revoke(ctx context.Context, tokenID string) error {
	if tokenID == "" {
		return model.NewInvalidRequestError("トークンIDは必須です")
	}

	if err := s.tokenRepo.DeleteByID(ctx, tokenID); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}

	slog.Info("token revoked", slog.String("token_id", tokenID))
	return nil
}

// Verify はトークンが有効で、かつ指定されたメールアドレスに属することを検証する。
// 保護されたリソースへのアクセス前に呼び出される。
// トークンが存在しない、または別ユーザーのものである場合はFORBIDDEN、
// 期限切れの場合はTOKEN_EXPIREDを返す。
func (s *Service) Verify(ctx context.Context, tokenID, email string) error {
	if tokenID == "" || email == "" {
		return model.NewForbiddenError()
	}

	token, err := s.tokenRepo.FindByID(ctx, tokenID)
	if err != nil {
		return fmt.Errorf("failed to find token: %w", err)
	}
	if token == nil || token.Email != email {
		return model.NewForbiddenError()
	}
	if token.Expired(time.Now()) {
		return model.NewTokenExpiredError()
	}

	return nil
}

func (s *Service) recordLoginSuccess() {
	if s.metrics != nil {
		s.metrics.RecordLoginSuccess()
	}
}

func (s *Service) recordLoginFailure() {
	if s.metrics != nil {
		s.metrics.RecordLoginFailure()
	}
}
