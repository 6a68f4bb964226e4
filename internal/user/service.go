// Package user はユーザー登録・取得・更新・退会のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hitoshi/pizzaya/internal/model"
	"github.com/hitoshi/pizzaya/internal/repository"
	"github.com/hitoshi/pizzaya/internal/security"
)

// RegisterInput はユーザー登録の入力。全フィールド必須。
type RegisterInput struct {
	Email         string
	FirstName     string
	LastName      string
	Password      string
	StreetAddress string
}

// UpdateInput はプロフィール更新の入力。
// 空文字列のフィールドは「変更なし」を意味する。少なくとも1つの指定が必要。
type UpdateInput struct {
	FirstName     string
	LastName      string
	Password      string
	StreetAddress string
}

// Service はユーザー管理のサービス層。
type Service struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	orderRepo repository.OrderRepository
	hasher    security.PasswordHasher
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	userRepo repository.UserRepository,
	tokenRepo repository.TokenRepository,
	orderRepo repository.OrderRepository,
	hasher security.PasswordHasher,
) *Service {
	return &Service{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		orderRepo: orderRepo,
		hasher:    hasher,
	}
}

// Register は新規ユーザーを登録する。
// メールアドレスは一意であり、既に登録済みの場合はUSER_ALREADY_EXISTSを返す。
// パスワードはダイジェスト化して保存し、平文は永続化しない。
func (s *Service) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	if err := validateRegisterInput(input); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if existing != nil {
		return nil, model.NewUserAlreadyExistsError(input.Email)
	}

	now := time.Now()
	user := &model.User{
		Email:          input.Email,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		HashedPassword: s.hasher.Hash(input.Password),
		StreetAddress:  input.StreetAddress,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user registered", slog.String("email", user.Email))
	return user, nil
}

// Get はメールアドレスからユーザーを取得する。
func (s *Service) Get(ctx context.Context, email string) (*model.User, error) {
	if email == "" {
		return nil, model.NewInvalidRequestError("メールアドレスは必須です")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(email)
	}

	return user, nil
}

// Update はプロフィールを部分更新する。
// 氏名・パスワード・住所のうち指定されたフィールドのみ上書きする。
func (s *Service) Update(ctx context.Context, email string, input UpdateInput) (*model.User, error) {
	if email == "" {
		return nil, model.NewInvalidRequestError("メールアドレスは必須です")
	}
	if input.FirstName == "" && input.LastName == "" && input.Password == "" && input.StreetAddress == "" {
		return nil, model.NewInvalidRequestError("更新するフィールドを少なくとも1つ指定してください")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(email)
	}

	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}
	if input.Password != "" {
		user.HashedPassword = s.hasher.Hash(input.Password)
	}
	if input.StreetAddress != "" {
		user.StreetAddress = input.StreetAddress
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	slog.Info("user updated", slog.String("email", email))
	return user, nil
}

// Withdraw はユーザーの退会処理を実行する。
// 削除順序: orders → tokens → user。
// アカウント削除後にトークンや注文が孤児として残らないようにする。
func (s *Service) Withdraw(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return model.NewUserNotFoundError(email)
	}

	slog.Info("退会処理を開始します", slog.String("email", email))

	// 1. 注文を削除
	if err := s.orderRepo.DeleteByEmail(ctx, email); err != nil {
		return fmt.Errorf("注文の削除に失敗しました: %w", err)
	}

	// 2. トークンを削除
	if err := s.tokenRepo.DeleteByEmail(ctx, email); err != nil {
		return fmt.Errorf("トークンの削除に失敗しました: %w", err)
	}

	// 3. ユーザーを削除
	if err := s.userRepo.DeleteByEmail(ctx, email); err != nil {
		return fmt.Errorf("ユーザーの削除に失敗しました: %w", err)
	}

	slog.Info("退会処理が完了しました", slog.String("email", email))
	return nil
}

// validateRegisterInput は登録入力の必須フィールドと形式を検証する。
func validateRegisterInput(input RegisterInput) error {
	switch {
	case input.Email == "":
		return model.NewInvalidRequestError("メールアドレスは必須です")
	case !strings.Contains(input.Email, "@"):
		return model.NewInvalidRequestError("メールアドレスの形式が不正です")
	case input.FirstName == "":
		return model.NewInvalidRequestError("名は必須です")
	case input.LastName == "":
		return model.NewInvalidRequestError("姓は必須です")
	case input.Password == "":
		return model.NewInvalidRequestError("パスワードは必須です")
	case input.StreetAddress == "":
		return model.NewInvalidRequestError("住所は必須です")
	}
	return nil
}
