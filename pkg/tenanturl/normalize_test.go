package tenanturl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"c8ymcp/pkg/tenanturl"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already canonical", "https://a.example.com", "https://a.example.com"},
		{"trailing slash", "https://a.example.com/", "https://a.example.com"},
		{"path and trailing slash", "https://a.example.com/foo/bar/", "https://a.example.com"},
		{"query", "https://a.example.com?x=1", "https://a.example.com?x=1"},
		{"query after path", "https://a.example.com/apps?x=1", "https://a.example.com"},
		{"whitespace", "  https://a.example.com/  ", "https://a.example.com"},
		{"port kept", "http://localhost:8080/mcp", "http://localhost:8080"},
		{"mixed case", "HTTPS://Tenant.Example.COM/", "https://tenant.example.com"},
		{"no scheme", "tenant.example.com/path", "tenant.example.com"},
		{"scheme only", "https://", "https://"},
		{"empty", "", ""},
		{"space before slash", "https://a.example.com /x", "https://a.example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tenanturl.Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"https://a.example.com/foo/bar/",
		"https://",
		"https:/",
		"https:/foo",
		"//host/path",
		"/",
		"a/b/c",
		"  x://y/ ",
		"https://a.example.com /x",
		"HTTP://A.B:1/?q",
		"\thttps://t.example.com\n",
		"://",
		":///",
	}
	for _, in := range inputs {
		once := tenanturl.Normalize(in)
		assert.Equal(t, once, tenanturl.Normalize(once), "input %q", in)
	}
}

func TestEqual(t *testing.T) {
	t.Parallel()

	assert.True(t, tenanturl.Equal("https://t.example.com/", " https://T.example.com/mcp"))
	assert.False(t, tenanturl.Equal("https://t.example.com", "https://u.example.com"))
}
