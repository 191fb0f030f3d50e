// Package server holds the MCP server's shared state and its sidecar
// metrics listener. ServerContext carries per-account Gmail clients and the
// download directory; MetricsServer exposes Prometheus metrics and health
// probes on a dedicated port.
package server
