// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層から利用する。実装がnilでも呼び出せるよう、利用側はnilチェックを行う。
type MetricsCollector interface {
	RecordLoginSuccess()
	RecordLoginFailure()
	RecordOrderOpened()
	RecordPurchaseSuccess()
	RecordPaymentFailure()
	RecordChargeLatency(duration time.Duration)
	RecordHTTPStatus(statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	loginSuccess  prometheus.Counter
	loginFail     prometheus.Counter
	ordersOpened  prometheus.Counter
	purchases     prometheus.Counter
	paymentFail   prometheus.Counter
	chargeLatency prometheus.Histogram
	httpStatus    *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pizzaya_login_success_total",
			Help: "ログイン成功の合計数",
		}),
		loginFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pizzaya_login_fail_total",
			Help: "ログイン失敗の合計数",
		}),
		ordersOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pizzaya_orders_opened_total",
			Help: "作成された注文の合計数",
		}),
		purchases: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pizzaya_purchases_total",
			Help: "購入完了の合計数",
		}),
		paymentFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pizzaya_payment_fail_total",
			Help: "決済失敗の合計数",
		}),
		chargeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pizzaya_charge_latency_seconds",
			Help:    "決済コラボレーター呼び出しのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pizzaya_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.loginSuccess,
		c.loginFail,
		c.ordersOpened,
		c.purchases,
		c.paymentFail,
		c.chargeLatency,
		c.httpStatus,
	)

	return c
}

// RecordLoginSuccess はログイン成功を記録する。
func (c *Collector) RecordLoginSuccess() {
	c.loginSuccess.Inc()
}

// RecordLoginFailure はログイン失敗を記録する。
func (c *Collector) RecordLoginFailure() {
	c.loginFail.Inc()
}

// RecordOrderOpened は注文作成を記録する。
func (c *Collector) RecordOrderOpened() {
	c.ordersOpened.Inc()
}

// RecordPurchaseSuccess は購入完了を記録する。
func (c *Collector) RecordPurchaseSuccess() {
	c.purchases.Inc()
}

// RecordPaymentFailure は決済失敗を記録する。
func (c *Collector) RecordPaymentFailure() {
	c.paymentFail.Inc()
}

// RecordChargeLatency は決済呼び出しのレイテンシを記録する。
func (c *Collector) RecordChargeLatency(duration time.Duration) {
	c.chargeLatency.Observe(duration.Seconds())
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// compile-time interface check
var _ MetricsCollector = (*Collector)(nil)
