package google

// DefaultOAuthScopes are the Google OAuth scopes the application requests.
// Attachment downloading only ever reads mail, so the read-only Gmail scope
// is the whole surface.
var DefaultOAuthScopes = []string{
	"https://www.googleapis.com/auth/gmail.readonly",
}
