// Package google handles OAuth2 authentication against Google's APIs.
// Tokens are cached on disk per account, so multiple Gmail accounts can be
// used side by side.
package google
