// Package attachment_tools provides the MCP tools for finding, listing and
// downloading Gmail attachments. Downloads run through the same resolution
// and batch pipeline as the CLI, saving into the server's download
// directory.
package attachment_tools
