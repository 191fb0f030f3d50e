// Package common provides helpers shared by the MCP tool packages: account
// argument extraction and an instrumentation wrapper for tool handlers.
package common
