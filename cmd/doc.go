// Package cmd implements the command-line interface for dlgmail.
//
// This package provides the following commands:
//   - download: Download all attachments of the given Gmail messages
//   - auth: Authorize Gmail access and save the OAuth token
//   - serve: Start the MCP server to provide tools for AI assistants
//   - version: Display version information
//
// The download command is the default command when no subcommand is
// specified.
package cmd
