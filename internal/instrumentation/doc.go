// Package instrumentation provides OpenTelemetry-based metrics and tracing
// for the attachment download pipeline. Metrics are exported via Prometheus
// by default (scraped from the serve command's metrics listener), with OTLP
// and stdout exporters available for other deployments. Tracing is off by
// default.
package instrumentation
