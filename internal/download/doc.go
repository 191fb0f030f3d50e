// Package download turns resolved attachment URLs into saved files. The
// Sink interface is the persistence boundary; HTTPSink is the standard
// implementation, fetching over HTTP with retries and saving into a local
// directory. Orchestrator drives whole batches through metadata extraction,
// URL resolution, and the sink, settling every item independently.
package download
