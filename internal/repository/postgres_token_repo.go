package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/pizzaya/internal/model"
)

// PostgresTokenRepo はPostgreSQLを使用したセッショントークンリポジトリ。
type PostgresTokenRepo struct {
	db *sql.DB
}

// NewPostgresTokenRepo はPostgresTokenRepoを生成する。
func NewPostgresTokenRepo(db *sql.DB) *PostgresTokenRepo {
	return &PostgresTokenRepo{db: db}
}

// Create はトークンを作成する。
func (r *PostgresTokenRepo) Create(ctx context.Context, token *model.Token) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tokens (id, email, expires_at, created_at)
		 VALUES ($1, $2, $3, $4)`,
		token.ID, token.Email, token.ExpiresAt, token.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create token: %w", err)
	}
	return nil
}

// FindByID は指定IDのトークンを取得する。見つからない場合はnilを返す。
// 期限切れトークンもそのまま返す。延長拒否と検証失敗を区別するため、
// 期限判定はサービス層で行う。
func (r *PostgresTokenRepo) FindByID(ctx context.Context, id string) (*model.Token, error) {
	token := &model.Token{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, expires_at, created_at FROM tokens WHERE id = $1`,
		id,
	).Scan(&token.ID, &token.Email, &token.ExpiresAt, &token.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find token: %w", err)
	}

	return token, nil
}

// Update はトークンの有効期限を上書き更新する。
func (r *PostgresTokenRepo) Update(ctx context.Context, token *model.Token) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE tokens SET expires_at = $2 WHERE id = $1`,
		token.ID, token.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update token: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewTokenNotFoundError()
	}
	return nil
}

// DeleteByID は指定IDのトークンを削除する。
func (r *PostgresTokenRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM tokens WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewTokenNotFoundError()
	}
	return nil
}

// DeleteByEmail は指定ユーザーの全トークンを削除する。
func (r *PostgresTokenRepo) DeleteByEmail(ctx context.Context, email string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM tokens WHERE email = $1`,
		email,
	)
	if err != nil {
		return fmt.Errorf("failed to delete user tokens: %w", err)
	}
	return nil
}

// compile-time interface check
var _ TokenRepository = (*PostgresTokenRepo)(nil)
