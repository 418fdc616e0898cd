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
// ハンドラーやサービス層から利用する。
type MetricsCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordTaskCreated()
	RecordCommentAdded(attachments int)
	RecordSuggestSuccess()
	RecordSuggestFailure()
	RecordSuggestLatency(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus     *prometheus.CounterVec
	tasksCreated   prometheus.Counter
	commentsAdded  prometheus.Counter
	attachmentsUp  prometheus.Counter
	suggestSuccess prometheus.Counter
	suggestFail    prometheus.Counter
	suggestLatency prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskdeck_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		tasksCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskdeck_tasks_created_total",
			Help: "作成されたタスクの合計数",
		}),
		commentsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskdeck_comments_added_total",
			Help: "追記されたコメントの合計数",
		}),
		attachmentsUp: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskdeck_attachments_uploaded_total",
			Help: "アップロードされた添付ファイルの合計数",
		}),
		suggestSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskdeck_suggest_success_total",
			Help: "タスク提案生成成功の合計数",
		}),
		suggestFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskdeck_suggest_fail_total",
			Help: "タスク提案生成失敗の合計数",
		}),
		suggestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "taskdeck_suggest_latency_seconds",
			Help:    "タスク提案生成のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.tasksCreated,
		c.commentsAdded,
		c.attachmentsUp,
		c.suggestSuccess,
		c.suggestFail,
		c.suggestLatency,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordTaskCreated はタスク作成を記録する。
func (c *Collector) RecordTaskCreated() {
	c.tasksCreated.Inc()
}

// RecordCommentAdded はコメント追記と添付ファイル数を記録する。
func (c *Collector) RecordCommentAdded(attachments int) {
	c.commentsAdded.Inc()
	c.attachmentsUp.Add(float64(attachments))
}

// RecordSuggestSuccess はタスク提案の生成成功を記録する。
func (c *Collector) RecordSuggestSuccess() {
	c.suggestSuccess.Inc()
}

// RecordSuggestFailure はタスク提案の生成失敗を記録する。
func (c *Collector) RecordSuggestFailure() {
	c.suggestFail.Inc()
}

// RecordSuggestLatency はタスク提案生成のレイテンシを記録する。
func (c *Collector) RecordSuggestLatency(duration time.Duration) {
	c.suggestLatency.Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
