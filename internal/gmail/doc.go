// Package gmail provides the Gmail API source for the attachment pipeline:
// an authenticated client, message and attachment access, handle adapters
// that plug API-reported attachments into the resolution pipeline, and an
// API-backed download sink.
package gmail
