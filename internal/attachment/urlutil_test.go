package attachment

import "testing"

func TestStripURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{
			name:     "valid attachment URL unchanged",
			input:    "https://mail-attachment.googleusercontent.com/attachment/u/0/?ui=2&ik=abc&view=att",
			expected: "https://mail-attachment.googleusercontent.com/attachment/u/0/?ui=2&ik=abc&view=att",
			ok:       true,
		},
		{
			name:     "plain http URL",
			input:    "http://example.com/file.pdf",
			expected: "http://example.com/file.pdf",
			ok:       true,
		},
		{
			name:     "trailing garbage discarded",
			input:    "https://example.com/a.pdf\">click here",
			expected: "https://example.com/a.pdf",
			ok:       true,
		},
		{
			name:     "URL with port",
			input:    "https://example.com:8443/path",
			expected: "https://example.com:8443/path",
			ok:       true,
		},
		{
			name:  "not a URL",
			input: "just some text",
			ok:    false,
		},
		{
			name:  "unsupported scheme",
			input: "ftp://example.com/file",
			ok:    false,
		},
		{
			name:  "scheme without host",
			input: "https://",
			ok:    false,
		},
		{
			name:  "host without dot",
			input: "https://localhost/file",
			ok:    false,
		},
		{
			name:  "empty string",
			input: "",
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := StripURL(tt.input)
			if ok != tt.ok {
				t.Fatalf("StripURL(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.expected {
				t.Errorf("StripURL(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestRemoveImageParameters(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "size suffix removed",
			input:    "https://lh3.googleusercontent.com/foo=s220",
			expected: "https://lh3.googleusercontent.com/foo",
		},
		{
			name:     "size suffix with modifiers removed",
			input:    "https://lh3.googleusercontent.com/foo=s220-no-k",
			expected: "https://lh3.googleusercontent.com/foo",
		},
		{
			name:     "width height suffix removed",
			input:    "https://lh3.googleusercontent.com/foo=w400-h300",
			expected: "https://lh3.googleusercontent.com/foo",
		},
		{
			name:     "sz query parameter removed",
			input:    "https://example.com/img?sz=64",
			expected: "https://example.com/img",
		},
		{
			name:     "no match returns input unchanged",
			input:    "https://example.com/file.pdf",
			expected: "https://example.com/file.pdf",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "malformed input survives",
			input:    "not a url at all?sz=12",
			expected: "not a url at all",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RemoveImageParameters(tt.input)
			if got != tt.expected {
				t.Errorf("RemoveImageParameters(%q) = %q, want %q", tt.input, got, tt.expected)
			}

			// The operation must be idempotent.
			again := RemoveImageParameters(got)
			if again != got {
				t.Errorf("RemoveImageParameters not idempotent: %q -> %q -> %q", tt.input, got, again)
			}
		})
	}
}

func TestClassifyURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Quality
	}{
		{
			name:     "clean URL",
			input:    "https://mail-attachment.googleusercontent.com/attachment/u/0/file",
			expected: Quality{},
		},
		{
			name:     "thumbnail size suffix",
			input:    "https://lh3.googleusercontent.com/foo=s220",
			expected: Quality{IsThumbnail: true},
		},
		{
			name:     "sz query parameter",
			input:    "https://example.com/img?sz=64",
			expected: Quality{IsThumbnail: true, HasParameters: true},
		},
		{
			name:     "inline disposition",
			input:    "https://mail.google.com/mail/u/0/?view=att&disp=inline",
			expected: Quality{IsProxy: true, HasParameters: true},
		},
		{
			name:     "parameters only",
			input:    "https://example.com/file?x=1",
			expected: Quality{HasParameters: true},
		},
		{
			name:     "empty",
			input:    "",
			expected: Quality{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyURL(tt.input)
			if got != tt.expected {
				t.Errorf("ClassifyURL(%q) = %+v, want %+v", tt.input, got, tt.expected)
			}
		})
	}
}
