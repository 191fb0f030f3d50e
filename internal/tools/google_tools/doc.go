// Package google_tools provides MCP tools for Google OAuth authentication.
//
// The OAuth flow:
//  1. Call google_get_auth_url to get the authorization URL
//  2. User visits the URL and authorizes read access to Gmail
//  3. User provides the authorization code
//  4. Call google_save_auth_code with the code to save the token
//
// Once authenticated, the attachment tools work with the saved token, which
// is automatically refreshed as needed.
package google_tools
