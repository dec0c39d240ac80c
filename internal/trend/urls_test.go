package trend

import "testing"

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain https", "https://example.com/report", "https://example.com/report"},
		{"bare domain stops at path", "example.com/report", "https://example.com"},
		{"www domain", "www.example.com", "https://www.example.com"},
		{"markdown", "[Annual report](https://example.com/a.pdf)", "https://example.com/a.pdf"},
		{"markdown bare", "[site](example.org)", "https://example.org"},
		{"html anchor", `<a href="https://example.com/x">read</a>`, "https://example.com/x"},
		{"html single quotes", `<a class='l' href='http://example.com/y'>y</a>`, "http://example.com/y"},
		{"text around url", "see https://example.com/z for details", "https://example.com/z"},
		{"uppercase scheme", "HTTPS://EXAMPLE.COM", "HTTPS://EXAMPLE.COM"},
		{"empty", "", ""},
		{"no url", "not available", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeURL(tt.in); got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
