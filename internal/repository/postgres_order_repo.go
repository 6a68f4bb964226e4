package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/pizzaya/internal/model"
)

// PostgresOrderRepo はPostgreSQLを使用した注文リポジトリ。
type PostgresOrderRepo struct {
	db *sql.DB
}

// NewPostgresOrderRepo はPostgresOrderRepoを生成する。
func NewPostgresOrderRepo(db *sql.DB) *PostgresOrderRepo {
	return &PostgresOrderRepo{db: db}
}

// FindByID は指定IDの注文を取得する。見つからない場合はnilを返す。
func (r *PostgresOrderRepo) FindByID(ctx context.Context, id string) (*model.Order, error) {
	order := &model.Order{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, delivery_address, line_items, amount, purchased, version, created_at, updated_at
		 FROM orders WHERE id = $1`,
		id,
	).Scan(
		&order.ID, &order.Email, &order.DeliveryAddress, pq.Array(&order.LineItems),
		&order.Amount, &order.Purchased, &order.Version, &order.CreatedAt, &order.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find order: %w", err)
	}

	return order, nil
}

// Create は注文を作成する。
func (r *PostgresOrderRepo) Create(ctx context.Context, order *model.Order) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO orders (id, email, delivery_address, line_items, amount, purchased, version, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		order.ID, order.Email, order.DeliveryAddress, pq.Array(order.LineItems),
		order.Amount, order.Purchased, order.Version, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// Update は注文を楽観的排他制御付きで上書き更新する。
// 呼び出し元が読み取った時点のVersionと一致する行のみ更新し、バージョンを進める。
// 同時更新により行が一致しない場合、注文が存在すればORDER_CONFLICTを、
// 存在しなければORDER_NOT_FOUNDを返す。
func (r *PostgresOrderRepo) Update(ctx context.Context, order *model.Order) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE orders
		 SET delivery_address = $3, line_items = $4, amount = $5, purchased = $6,
		     version = version + 1, updated_at = $7
		 WHERE id = $1 AND version = $2`,
		order.ID, order.Version, order.DeliveryAddress, pq.Array(order.LineItems),
		order.Amount, order.Purchased, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		existing, err := r.FindByID(ctx, order.ID)
		if err != nil {
			return err
		}
		if existing == nil {
			return model.NewOrderNotFoundError(order.ID)
		}
		return model.NewOrderConflictError(order.ID)
	}
	order.Version++
	return nil
}

// DeleteByID は指定IDの注文を削除する。
func (r *PostgresOrderRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM orders WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewOrderNotFoundError(id)
	}
	return nil
}

// DeleteByEmail は指定ユーザーの全注文を削除する。
func (r *PostgresOrderRepo) DeleteByEmail(ctx context.Context, email string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM orders WHERE email = $1`,
		email,
	)
	if err != nil {
		return fmt.Errorf("failed to delete user orders: %w", err)
	}
	return nil
}

// compile-time interface check
var _ OrderRepository = (*PostgresOrderRepo)(nil)
