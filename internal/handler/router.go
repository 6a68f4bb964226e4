package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/pizzaya/internal/metrics"
	"github.com/hitoshi/pizzaya/internal/middleware"
	"github.com/hitoshi/pizzaya/internal/model"
)

// Pinger はヘルスチェックが必要とするデータベース疎通確認のインターフェース。
// *sql.DB がそのまま満たす。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	Metrics           metrics.MetricsCollector
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// 認可ガード
	Verifier SessionVerifier

	// サービス
	UserService     UserServiceInterface
	TokenService    TokenServiceInterface
	OrderService    OrderServiceInterface
	MenuService     MenuServiceInterface
	PurchaseService PurchaseServiceInterface

	// 運用サーフェス
	MetricsHandler http.Handler
	DB             Pinger
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RecoveryMiddleware → CORSMiddleware → LoggingMiddleware → RateLimitMiddleware(General)
//
// 認可はミドルウェアではなく各ハンドラーの所有権ガードで行う。
// リソースは所有者のメールアドレスを知らないと検証できないため、
// ガードはリクエストの解析後にのみ適用できる。
// 未知のパスは404、既知のパスの未対応メソッドは405（chiのデフォルト）。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.Metrics))

	userHandler := NewUserHandler(deps.UserService, deps.Verifier)
	tokenHandler := NewTokenHandler(deps.TokenService)
	cartHandler := NewCartHandler(deps.OrderService, deps.Verifier)
	menuHandler := NewMenuHandler(deps.MenuService, deps.Verifier)
	purchaseHandler := NewPurchaseHandler(deps.PurchaseService, deps.Verifier)

	// --- 運用サーフェス（レート制限の外） ---

	r.Get("/health", newHealthHandler(deps.DB))
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// --- APIルート ---

	r.Group(func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.GeneralMiddleware())
		}

		// ユーザー管理
		r.Route("/users", func(r chi.Router) {
			r.Post("/", userHandler.Register)
			r.Get("/", userHandler.Get)
			r.Put("/", userHandler.Update)
			r.Delete("/", userHandler.Withdraw)
		})

		// トークン管理
		r.Route("/tokens", func(r chi.Router) {
			r.Post("/", tokenHandler.Issue)
			r.Get("/", tokenHandler.Get)
			r.Put("/", tokenHandler.Renew)
			r.Delete("/", tokenHandler.Revoke)
		})

		// メニュー
		r.Get("/menu", menuHandler.List)

		// ショッピングカート
		r.Route("/cart", func(r chi.Router) {
			r.Post("/", cartHandler.Open)
			r.Get("/", cartHandler.Get)
			r.Put("/", cartHandler.Update)
			r.Delete("/", cartHandler.Delete)
		})

		// 購入（専用レート制限を追加）
		if deps.RateLimiter != nil {
			r.With(deps.RateLimiter.PurchaseMiddleware()).Get("/purchase", purchaseHandler.Purchase)
		} else {
			r.Get("/purchase", purchaseHandler.Purchase)
		}
	})

	return r
}

// newHealthHandler はヘルスチェックハンドラーを生成する。
// データベースへの疎通が取れない場合は503を返す。
func newHealthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				writeAPIErrorResponse(w, http.StatusServiceUnavailable, &model.APIError{
					Code:     "UNHEALTHY",
					Message:  "データベースに接続できません。",
					Category: "system",
					Action:   "しばらく待ってから再度お試しください。",
				})
				return
			}
		}
		writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
