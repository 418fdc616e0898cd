package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var _ MetricsCollector = (*Collector)(nil)

// counterValue は指定した名前のカウンタの現在値を取得する。
func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			if len(mf.GetMetric()) != 1 {
				t.Fatalf("expected 1 metric for %s, got %d", name, len(mf.GetMetric()))
			}
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	t.Fatalf("%s metric not found", name)
	return 0
}

// TestNewCollector_ReturnsNonNil はCollectorが正常に生成されることを検証する。
func TestNewCollector_ReturnsNonNil(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	if c == nil {
		t.Fatal("expected non-nil Collector")
	}
}

// TestRecordTaskCreated_IncrementsCounter はタスク作成カウンタが増加することを検証する。
func TestRecordTaskCreated_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordTaskCreated()
	c.RecordTaskCreated()

	if got := counterValue(t, reg, "taskdeck_tasks_created_total"); got != 2 {
		t.Errorf("tasks_created_total = %v, want 2", got)
	}
}

// TestRecordCommentAdded_CountsAttachments はコメントと添付ファイルの両方が
// 記録されることを検証する。
func TestRecordCommentAdded_CountsAttachments(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordCommentAdded(3)
	c.RecordCommentAdded(0)

	if got := counterValue(t, reg, "taskdeck_comments_added_total"); got != 2 {
		t.Errorf("comments_added_total = %v, want 2", got)
	}
	if got := counterValue(t, reg, "taskdeck_attachments_uploaded_total"); got != 3 {
		t.Errorf("attachments_uploaded_total = %v, want 3", got)
	}
}

// TestRecordSuggestOutcomes は提案の成功・失敗カウンタを検証する。
func TestRecordSuggestOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordSuggestSuccess()
	c.RecordSuggestSuccess()
	c.RecordSuggestFailure()

	if got := counterValue(t, reg, "taskdeck_suggest_success_total"); got != 2 {
		t.Errorf("suggest_success_total = %v, want 2", got)
	}
	if got := counterValue(t, reg, "taskdeck_suggest_fail_total"); got != 1 {
		t.Errorf("suggest_fail_total = %v, want 1", got)
	}
}

// TestRecordHTTPStatus_LabelsByCode はステータスコード別にカウントされることを検証する。
func TestRecordHTTPStatus_LabelsByCode(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(404)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	counts := map[string]float64{}
	for _, mf := range families {
		if mf.GetName() != "taskdeck_http_status_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "status_code" {
					counts[l.GetValue()] = m.GetCounter().GetValue()
				}
			}
		}
	}

	if counts["200"] != 2 {
		t.Errorf("status 200 count = %v, want 2", counts["200"])
	}
	if counts["404"] != 1 {
		t.Errorf("status 404 count = %v, want 1", counts["404"])
	}
}

// TestRecordSuggestLatency_ObservesHistogram はレイテンシがヒストグラムに
// 記録されることを検証する。
func TestRecordSuggestLatency_ObservesHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordSuggestLatency(250 * time.Millisecond)
	c.RecordSuggestLatency(2 * time.Second)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range families {
		if mf.GetName() == "taskdeck_suggest_latency_seconds" {
			found = true
			h := mf.GetMetric()[0].GetHistogram()
			if h.GetSampleCount() != 2 {
				t.Errorf("sample count = %d, want 2", h.GetSampleCount())
			}
			if h.GetSampleSum() != 2.25 {
				t.Errorf("sample sum = %v, want 2.25", h.GetSampleSum())
			}
		}
	}
	if !found {
		t.Error("taskdeck_suggest_latency_seconds metric not found")
	}
}
