// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/pizzaya/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
// ユーザーはメールアドレスをキーとする。
type UserRepository interface {
	// FindByEmail は指定メールアドレスのユーザーを取得する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成する。同一メールアドレスが既に存在する場合はエラーを返す。
	Create(ctx context.Context, user *model.User) error

	// Update はユーザーのプロフィールを上書き更新する。
	Update(ctx context.Context, user *model.User) error

	// DeleteByEmail は指定メールアドレスのユーザーを削除する。
	DeleteByEmail(ctx context.Context, email string) error
}

// TokenRepository はセッショントークンの永続化インターフェース。
// 期限切れ判定はサービス層の責務とするため、FindByIDは期限切れトークンも返す。
type TokenRepository interface {
	// Create はトークンを作成する。
	Create(ctx context.Context, token *model.Token) error

	// FindByID は指定IDのトークンを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Token, error)

	// Update はトークンの有効期限を上書き更新する。
	Update(ctx context.Context, token *model.Token) error

	// DeleteByID は指定IDのトークンを削除する。
	DeleteByID(ctx context.Context, id string) error

	// DeleteByEmail は指定ユーザーの全トークンを削除する。退会時のカスケード削除で使用する。
	DeleteByEmail(ctx context.Context, email string) error
}

// OrderRepository は注文データの永続化インターフェース。
type OrderRepository interface {
	// FindByID は指定IDの注文を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Order, error)

	// Create は注文を作成する。
	Create(ctx context.Context, order *model.Order) error

	// Update は注文を楽観的排他制御付きで上書き更新する。
	// order.Versionが保存されているバージョンと一致する場合のみ更新し、バージョンを進める。
	// 不一致の場合はORDER_CONFLICTエラーを返す。
	Update(ctx context.Context, order *model.Order) error

	// DeleteByID は指定IDの注文を削除する。
	DeleteByID(ctx context.Context, id string) error

	// DeleteByEmail は指定ユーザーの全注文を削除する。退会時のカスケード削除で使用する。
	DeleteByEmail(ctx context.Context, email string) error
}

// ProductRepository はメニュー商品の読み取りインターフェース。
// 商品はシードマイグレーションで投入され、APIからは読み取りのみ行う。
type ProductRepository interface {
	// List は全商品を名前順で返す。
	List(ctx context.Context) ([]*model.Product, error)
}
