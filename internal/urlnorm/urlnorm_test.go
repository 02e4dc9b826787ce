package urlnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://Example.com/Path#section", "https://example.com/path"},
		{"https://example.com/?q=A", "https://example.com/?q=a"},
		{"HTTP://EXAMPLE.COM", "http://example.com/"},
		{"https://example.com", "https://example.com/"},
		{"https://example.com?q=1", "https://example.com/?q=1"},
		{"https://example.com:443/", "https://example.com/"},
		{"http://example.com:80/a", "http://example.com/a"},
		{"https://example.com:/", "https://example.com/"},
		{"http://example.com:443/", "http://example.com:443/"},
		{"https://example.com:8443", "https://example.com:8443/"},
		{"https://[::1]:443/x", "https://[::1]/x"},
		{"%zz", "%zz"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), tt.in)
	}
}

func TestValidateRoot(t *testing.T) {
	got, err := ValidateRoot("  https://Example.com/docs#top ")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/docs", got)

	got, err = ValidateRoot("https://Example.com:443")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/", got)

	for _, bad := range []string{
		"",
		"   ",
		"example.com",
		"ftp://example.com",
		"mailto:someone@example.com",
		"https://",
		"http://[::1",
	} {
		_, err := ValidateRoot(bad)
		assert.ErrorIs(t, err, ErrInvalidURL, bad)
	}
}
