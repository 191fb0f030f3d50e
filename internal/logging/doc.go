// Package logging provides structured logging helpers built on log/slog:
// consistent attribute constructors, a minimal Logger interface for
// dependency injection, and a suppression-pattern filter handler for
// silencing known-noisy log lines from collaborating libraries.
package logging
