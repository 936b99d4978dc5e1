package media

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

var (
	// video_url appears JSON-escaped in both the embed page markup and
	// the post JSON payload.
	videoURLPattern = regexp.MustCompile(`"video_url"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	videoSrcPattern = regexp.MustCompile(`<video[^>]+src="([^"]+)"`)

	usernamePattern = regexp.MustCompile(`"username"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	captionPattern  = regexp.MustCompile(`"caption"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	ogTitlePattern  = regexp.MustCompile(`<meta\s+property="og:title"\s+content="([^"]*)"`)
)

// embedStrategy is the skip-login variant: the post's embed page is
// rendered headlessly, the media URL extracted from its markup, and the
// stream fetched over plain HTTP. The cookie, when configured, is attached
// to the media request.
func (d *Downloader) embedStrategy(ctx context.Context, postURL string, ws *Workspace) (*DownloadResult, error) {
	if d.pages == nil {
		return nil, fmt.Errorf("embed page fetcher not configured")
	}

	html, err := d.pages.FetchHTML(ctx, embedURL(postURL), "video")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch embed page: %w", err)
	}
	return d.downloadFromMarkup(ctx, html, ws)
}

// authenticatedStrategy fetches the post payload directly with the
// configured cookie attached.
func (d *Downloader) authenticatedStrategy(ctx context.Context, postURL string, ws *Workspace) (*DownloadResult, error) {
	cookie, err := cookieHeader(d.cookieFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read cookie file: %w", err)
	}

	resp, err := d.get(ctx, postJSONURL(postURL), cookie)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// Post payloads are small; a runaway body indicates a redirect to media.
	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read post payload: %w", err)
	}
	return d.downloadFromMarkup(ctx, string(body), ws)
}

// downloadFromMarkup extracts the media URL and metadata from page markup
// or a JSON payload, then streams the video to the workspace.
func (d *Downloader) downloadFromMarkup(ctx context.Context, markup string, ws *Workspace) (*DownloadResult, error) {
	mediaURL := extractVideoURL(markup)
	if mediaURL == "" {
		return nil, fmt.Errorf("no video URL found in page")
	}

	cookie, _ := cookieHeader(d.cookieFile)
	resp, err := d.get(ctx, mediaURL, cookie)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if _, err := streamBody(resp.Body, ws.VideoPath()); err != nil {
		return nil, err
	}

	result := &DownloadResult{VideoPath: ws.VideoPath()}
	if title := firstMatch(ogTitlePattern, markup); title != "" {
		result.Title = &title
	}
	if uploader := unescapeJSON(firstMatch(usernamePattern, markup)); uploader != "" {
		result.Uploader = &uploader
		if result.Title == nil {
			title := "Video by " + uploader
			result.Title = &title
		}
	}
	if caption := unescapeJSON(firstMatch(captionPattern, markup)); caption != "" {
		result.Caption = &caption
	}
	return result, nil
}

// embedURL converts a post URL to its embed-page variant.
func embedURL(postURL string) string {
	trimmed := strings.TrimSuffix(postURL, "/")
	if i := strings.Index(trimmed, "?"); i >= 0 {
		trimmed = trimmed[:i]
	}
	return trimmed + "/embed/captioned/"
}

// postJSONURL converts a post URL to the JSON payload endpoint.
func postJSONURL(postURL string) string {
	trimmed := strings.TrimSuffix(postURL, "/")
	if i := strings.Index(trimmed, "?"); i >= 0 {
		trimmed = trimmed[:i]
	}
	return trimmed + "/?__a=1&__d=dis"
}

func extractVideoURL(markup string) string {
	if m := firstMatch(videoURLPattern, markup); m != "" {
		return unescapeJSON(m)
	}
	return firstMatch(videoSrcPattern, markup)
}

func firstMatch(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}

// unescapeJSON decodes a JSON string fragment ("&", "\/", ...).
func unescapeJSON(s string) string {
	if s == "" {
		return ""
	}
	var decoded string
	if err := json.Unmarshal([]byte(`"`+s+`"`), &decoded); err != nil {
		return s
	}
	return decoded
}

// cookieHeader reads a Netscape-format cookie file into a Cookie header
// value. An empty path yields an empty header.
func cookieHeader(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var pairs []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 7 {
			continue
		}
		name, value := fields[5], fields[6]
		pairs = append(pairs, name+"="+value)
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return strings.Join(pairs, "; "), nil
}
