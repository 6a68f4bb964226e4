// Package cleanup は期限切れトークンの自動削除ジョブを提供する。
// 有効期限を過ぎたトークンを定期バッチで削除し、tokensテーブルの
// 肥大化を防ぐ。削除は冪等で、対象がなくてもエラーにならない。
package cleanup

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// Executor はSQLのExecContextを抽象化するインターフェース。
// *sql.DB や *sql.Tx を受け付けることができる。
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// ReaperJob は有効期限を過ぎたトークンの自動削除ジョブ。
// 定期実行のバッチジョブとして設計されており、冪等な削除処理を保証する。
type ReaperJob struct {
	db     Executor
	logger *slog.Logger
	// GracePeriod は失効後に削除を猶予する期間（デフォルト: 24時間）。
	// 失効直後のトークンを残すことで、失効エラーの調査を可能にする。
	GracePeriod time.Duration
}

// NewReaperJob は新しいReaperJobを生成する。
// デフォルトの猶予期間は24時間。
func NewReaperJob(db Executor, logger *slog.Logger) *ReaperJob {
	return &ReaperJob{
		db:          db,
		logger:      logger,
		GracePeriod: 24 * time.Hour,
	}
}

// Run は猶予期間を過ぎた失効トークンを削除する。
// expires_atがGracePeriod前より古いトークンをDELETEする。
// 冪等: 削除対象がない場合でもエラーにならない。
func (j *ReaperJob) Run(ctx context.Context) error {
	start := time.Now()

	cutoff := time.Now().Add(-j.GracePeriod)

	query := `DELETE FROM tokens WHERE expires_at < $1`
	result, err := j.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		j.logger.Error("トークン削除ジョブの実行に失敗しました",
			slog.String("error", err.Error()),
			slog.Duration("grace_period", j.GracePeriod),
		)
		return fmt.Errorf("期限切れトークンの削除に失敗: %w", err)
	}

	deletedCount, err := result.RowsAffected()
	if err != nil {
		j.logger.Error("削除件数の取得に失敗しました",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("削除件数の取得に失敗: %w", err)
	}

	duration := time.Since(start)
	j.logger.Info("トークン削除ジョブが完了しました",
		slog.Int64("deleted_count", deletedCount),
		slog.Duration("grace_period", j.GracePeriod),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}

// RunLoop はintervalごとにRunを繰り返し実行する。
// コンテキストのキャンセルで停止する。起動直後に1回実行してから
// ティッカーに移行する。
func (j *ReaperJob) RunLoop(ctx context.Context, interval time.Duration) error {
	if err := j.Run(ctx); err != nil {
		j.logger.Error("初回のトークン削除に失敗しました", slog.String("error", err.Error()))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("トークン削除ループを停止します")
			return ctx.Err()
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				j.logger.Error("トークン削除に失敗しました", slog.String("error", err.Error()))
			}
		}
	}
}
