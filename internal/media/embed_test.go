package media

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.instagram.com/reel/Cxyz/", "https://www.instagram.com/reel/Cxyz/embed/captioned/"},
		{"https://www.instagram.com/reel/Cxyz", "https://www.instagram.com/reel/Cxyz/embed/captioned/"},
		{"https://www.instagram.com/p/Cabc/?igsh=token", "https://www.instagram.com/p/Cabc/embed/captioned/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, embedURL(tt.in))
	}
}

func TestExtractVideoURL(t *testing.T) {
	t.Run("json escaped", func(t *testing.T) {
		markup := `{"video_url":"https:\/\/cdn.example.com\/v.mp4?token=a&b"}`
		assert.Equal(t, "https://cdn.example.com/v.mp4?token=a&b", extractVideoURL(markup))
	})

	t.Run("video tag", func(t *testing.T) {
		markup := `<html><video class="player" src="https://cdn.example.com/v.mp4"></video></html>`
		assert.Equal(t, "https://cdn.example.com/v.mp4", extractVideoURL(markup))
	})

	t.Run("absent", func(t *testing.T) {
		assert.Empty(t, extractVideoURL("<html>nothing here</html>"))
	})
}

func TestCookieHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.txt")
	content := "# Netscape HTTP Cookie File\n" +
		".instagram.com\tTRUE\t/\tTRUE\t0\tsessionid\tabc123\n" +
		".instagram.com\tTRUE\t/\tTRUE\t0\tcsrftoken\txyz\n" +
		"malformed line\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	header, err := cookieHeader(path)
	require.NoError(t, err)
	assert.Equal(t, "sessionid=abc123; csrftoken=xyz", header)
}

func TestCookieHeaderEmptyPath(t *testing.T) {
	header, err := cookieHeader("")
	require.NoError(t, err)
	assert.Empty(t, header)
}
