package download

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mlazzje/dlgmail/internal/attachment"
	"github.com/mlazzje/dlgmail/internal/batch"
	"github.com/mlazzje/dlgmail/internal/instrumentation"
	"github.com/mlazzje/dlgmail/internal/logging"
)

// Orchestrator drives a batch of attachment handles through metadata
// extraction, URL resolution, and the configured sink. Every item settles
// independently; one failure never aborts the rest of the batch.
type Orchestrator struct {
	Sink      Sink
	Resolver  *attachment.Resolver
	Extractor *attachment.Extractor
	Logger    logging.Logger
	Metrics   *instrumentation.Metrics
	Tracer    trace.Tracer
}

// DownloadAll downloads every handle concurrently and reports per-item
// outcomes. An empty handle list is an error so callers can tell "nothing
// found" apart from "everything failed".
func (o *Orchestrator) DownloadAll(ctx context.Context, handles []attachment.Handle) (*batch.BatchResult, error) {
	if o.Sink == nil {
		return nil, fmt.Errorf("no download sink configured")
	}
	if len(handles) == 0 {
		return nil, fmt.Errorf("no attachments available for download")
	}

	if o.Tracer != nil {
		var span trace.Span
		ctx, span = o.Tracer.Start(ctx, "download_batch",
			trace.WithAttributes(attribute.Int("batch.size", len(handles))))
		defer span.End()
	}

	start := time.Now()
	results := batch.Run(ctx, len(handles), func(ctx context.Context, index int) batch.Result {
		return o.processOne(ctx, handles[index], index)
	})
	br := batch.Collect(results)

	o.Metrics.RecordBatch(ctx, time.Since(start).Seconds(), len(handles))
	o.logger().Info("download batch settled",
		"total", br.Total,
		"succeeded", br.Succeeded,
		"failed", br.Failed)

	return br, nil
}

// processOne runs the full pipeline for a single handle. Failures are
// reported through the Result so the batch always drains.
func (o *Orchestrator) processOne(ctx context.Context, h attachment.Handle, index int) batch.Result {
	md := o.extractor().Extract(ctx, h, index)

	res, err := o.resolver().Resolve(ctx, h, index)
	if err != nil {
		o.Metrics.RecordDownload(ctx, instrumentation.StatusError)
		o.logger().Error("attachment failed",
			logging.KeyIndex, index,
			logging.KeyFilename, md.Filename,
			logging.KeyError, err.Error())
		return batch.NewErrorResult(index, md.Filename, err)
	}
	o.Metrics.RecordResolution(ctx, res.Source)

	resp, err := o.Sink.Download(ctx, &Request{
		URL:      res.URL,
		Filename: md.Filename,
		Metadata: md,
	})
	if err == nil && resp.Status != StatusSuccess {
		err = fmt.Errorf("%s", resp.Message)
	}
	if err != nil {
		o.Metrics.RecordDownload(ctx, instrumentation.StatusError)
		err = fmt.Errorf("failed to download %s (index %d): %w", md.Filename, index, err)
		o.logger().Error("attachment failed",
			logging.KeyIndex, index,
			logging.KeyFilename, md.Filename,
			logging.KeyError, err.Error())
		return batch.NewErrorResult(index, md.Filename, err)
	}

	o.Metrics.RecordDownload(ctx, instrumentation.StatusSuccess)
	o.Metrics.RecordDownloadBytes(ctx, resp.Bytes)
	o.logger().Info("attachment downloaded",
		logging.KeyIndex, index,
		logging.KeyFilename, md.Filename,
		logging.KeyStatus, logging.StatusSuccess,
		"detail", resp.Message)

	return batch.NewSuccessResult(index, md.Filename, resp.Message)
}

func (o *Orchestrator) logger() logging.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return logging.DefaultLogger()
}

func (o *Orchestrator) extractor() *attachment.Extractor {
	if o.Extractor != nil {
		return o.Extractor
	}
	return &attachment.Extractor{Logger: o.Logger}
}

func (o *Orchestrator) resolver() *attachment.Resolver {
	if o.Resolver != nil {
		return o.Resolver
	}
	return &attachment.Resolver{Logger: o.Logger}
}
