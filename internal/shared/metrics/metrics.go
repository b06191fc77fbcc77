package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	passStartedTotal      atomic.Uint64
	passCompletedTotal    atomic.Uint64
	passFailedTotal       atomic.Uint64
	passOverlapTotal      atomic.Uint64
	aiDetectorFailedTotal atomic.Uint64
	alertsSuppressedTotal atomic.Uint64

	alertsCreatedCritical atomic.Uint64
	alertsCreatedHigh     atomic.Uint64
	alertsCreatedMedium   atomic.Uint64
	alertsCreatedLow      atomic.Uint64

	passDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000, 120000})
)

// IncPassStarted increments the detection pass started counter.
func IncPassStarted() {
	passStartedTotal.Add(1)
}

// IncPassCompleted increments the detection pass completed counter.
func IncPassCompleted() {
	passCompletedTotal.Add(1)
}

// IncPassFailed increments the detection pass failed counter.
func IncPassFailed() {
	passFailedTotal.Add(1)
}

// IncPassOverlapSkipped counts triggers rejected because a pass was in flight.
func IncPassOverlapSkipped() {
	passOverlapTotal.Add(1)
}

// IncAIDetectorFailed counts AI detector calls that degraded to empty output.
func IncAIDetectorFailed() {
	aiDetectorFailedTotal.Add(1)
}

// IncAlertsSuppressed counts findings suppressed by deduplication.
func IncAlertsSuppressed() {
	alertsSuppressedTotal.Add(1)
}

// IncAlertCreated increments the created counter for the given severity.
func IncAlertCreated(severity string) {
	switch severity {
	case "critical":
		alertsCreatedCritical.Add(1)
	case "high":
		alertsCreatedHigh.Add(1)
	case "medium":
		alertsCreatedMedium.Add(1)
	default:
		alertsCreatedLow.Add(1)
	}
}

// ObservePassDurationMs records a detection pass duration in milliseconds.
func ObservePassDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	passDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "detection_pass_started_total", "Total detection passes started", passStartedTotal.Load())
	writeCounter(&buf, "detection_pass_completed_total", "Total detection passes completed", passCompletedTotal.Load())
	writeCounter(&buf, "detection_pass_failed_total", "Total detection passes failed", passFailedTotal.Load())
	writeCounter(&buf, "detection_pass_overlap_skipped_total", "Total triggers skipped while a pass was running", passOverlapTotal.Load())
	writeCounter(&buf, "detection_ai_failed_total", "Total AI detector calls that returned no result", aiDetectorFailedTotal.Load())
	writeCounter(&buf, "detection_alerts_suppressed_total", "Total findings suppressed by deduplication", alertsSuppressedTotal.Load())
	writeLabeledCounter(&buf, "detection_alerts_created_total", "Total alerts created by severity", map[string]uint64{
		"critical": alertsCreatedCritical.Load(),
		"high":     alertsCreatedHigh.Load(),
		"medium":   alertsCreatedMedium.Load(),
		"low":      alertsCreatedLow.Load(),
	})
	writeHistogram(&buf, "detection_pass_duration_ms", "Detection pass duration in milliseconds", passDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeLabeledCounter(buf *bytes.Buffer, name, help string, values map[string]uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	for _, severity := range []string{"critical", "high", "medium", "low"} {
		fmt.Fprintf(buf, "%s{severity=%q} %d\n", name, severity, values[severity])
	}
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
