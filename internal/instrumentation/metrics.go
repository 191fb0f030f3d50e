package instrumentation

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
const (
	attrStatus = "status"
	attrSource = "source"
	attrTool   = "tool"
)

// Metrics provides methods for recording download pipeline metrics.
// The zero value is a no-op recorder, safe to use when instrumentation is
// disabled.
type Metrics struct {
	downloadsTotal   metric.Int64Counter
	downloadBytes    metric.Int64Counter
	resolutionsTotal metric.Int64Counter
	batchDuration    metric.Float64Histogram
	batchSize        metric.Int64Histogram
	toolInvocations  metric.Int64Counter
	toolDuration     metric.Float64Histogram
}

// NewMetrics creates a new Metrics instance with all instruments
// initialized on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.downloadsTotal, err = meter.Int64Counter(
		"attachment_downloads_total",
		metric.WithDescription("Total number of attachment download attempts"),
		metric.WithUnit("{download}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create attachment_downloads_total counter: %w", err)
	}

	m.downloadBytes, err = meter.Int64Counter(
		"attachment_download_bytes_total",
		metric.WithDescription("Total bytes saved by attachment downloads"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create attachment_download_bytes_total counter: %w", err)
	}

	m.resolutionsTotal, err = meter.Int64Counter(
		"attachment_url_resolutions_total",
		metric.WithDescription("Total number of successful URL resolutions by source"),
		metric.WithUnit("{resolution}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create attachment_url_resolutions_total counter: %w", err)
	}

	m.batchDuration, err = meter.Float64Histogram(
		"download_batch_duration_seconds",
		metric.WithDescription("Duration of attachment download batches in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0, 120.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create download_batch_duration_seconds histogram: %w", err)
	}

	m.batchSize, err = meter.Int64Histogram(
		"download_batch_size",
		metric.WithDescription("Number of attachments per download batch"),
		metric.WithUnit("{attachment}"),
		metric.WithExplicitBucketBoundaries(1, 2, 5, 10, 20, 50),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create download_batch_size histogram: %w", err)
	}

	m.toolInvocations, err = meter.Int64Counter(
		"mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_invocations_total counter: %w", err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		"mcp_tool_duration_seconds",
		metric.WithDescription("Duration of MCP tool invocations in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordDownload records one attachment download attempt with its status.
func (m *Metrics) RecordDownload(ctx context.Context, status string) {
	if m == nil || m.downloadsTotal == nil {
		return
	}
	m.downloadsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrStatus, status)))
}

// RecordDownloadBytes records the size of a saved attachment.
func (m *Metrics) RecordDownloadBytes(ctx context.Context, n int64) {
	if m == nil || m.downloadBytes == nil || n <= 0 {
		return
	}
	m.downloadBytes.Add(ctx, n)
}

// RecordResolution records a successful URL resolution and which strategy
// produced it ("direct" or "element").
func (m *Metrics) RecordResolution(ctx context.Context, source string) {
	if m == nil || m.resolutionsTotal == nil {
		return
	}
	m.resolutionsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrSource, source)))
}

// RecordToolInvocation records one MCP tool invocation with its status and
// duration.
func (m *Metrics) RecordToolInvocation(ctx context.Context, tool, status string, seconds float64) {
	if m == nil {
		return
	}
	if m.toolInvocations != nil {
		m.toolInvocations.Add(ctx, 1, metric.WithAttributes(
			attribute.String(attrTool, tool),
			attribute.String(attrStatus, status),
		))
	}
	if m.toolDuration != nil {
		m.toolDuration.Record(ctx, seconds, metric.WithAttributes(attribute.String(attrTool, tool)))
	}
}

// RecordBatch records the duration and size of a completed batch.
func (m *Metrics) RecordBatch(ctx context.Context, seconds float64, size int) {
	if m == nil {
		return
	}
	if m.batchDuration != nil {
		m.batchDuration.Record(ctx, seconds)
	}
	if m.batchSize != nil {
		m.batchSize.Record(ctx, int64(size))
	}
}
