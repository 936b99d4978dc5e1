package media

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"reelscope/internal/youtube"
)

// DownloadResult is the local video file plus its source metadata.
// The file lives inside the run's workspace and is deleted with it.
type DownloadResult struct {
	VideoPath string
	Title     *string
	Uploader  *string
	Caption   *string
}

// videoClient downloads a streaming-host video to a local file.
type videoClient interface {
	DownloadToFile(ctx context.Context, videoURL, outputPath string) (*youtube.VideoInfo, error)
}

// PageFetcher retrieves rendered HTML, used by the embed-page strategy.
type PageFetcher interface {
	FetchHTML(ctx context.Context, url, selector string) (string, error)
}

// Downloader turns a classified source URL into a DownloadResult. All
// strategy failures surface as *DownloadError; nothing else is fatal to
// the pipeline.
type Downloader struct {
	yt         videoClient
	pages      PageFetcher
	httpClient *http.Client
	cookieFile string
	logger     *slog.Logger

	// sleep is swapped out in tests.
	sleep func(time.Duration)
}

// NewDownloader creates a Downloader. pages may be nil, in which case the
// embed-page strategy fails with a descriptive error instead of fetching.
func NewDownloader(yt *youtube.Client, pages PageFetcher, cookieFile string, logger *slog.Logger) *Downloader {
	return &Downloader{
		yt:         yt,
		pages:      pages,
		httpClient: &http.Client{Timeout: 30 * time.Minute},
		cookieFile: cookieFile,
		logger:     logger,
		sleep:      time.Sleep,
	}
}

// Download executes the strategy selected by the classification.
func (d *Downloader) Download(ctx context.Context, class Classification, url string, ws *Workspace) (*DownloadResult, error) {
	var result *DownloadResult
	var err error

	switch class.Kind {
	case SourceDirectFile:
		// A direct URL fetch either succeeds or fails: no retry chain.
		result, err = d.downloadDirect(ctx, url, ws)
	case SourceRestrictedSocial:
		result, err = d.downloadRestricted(ctx, class, url, ws)
	default:
		result, err = d.downloadGeneric(ctx, url, ws)
	}
	if err != nil {
		return nil, err
	}

	// A zero-length video is treated as a failed download.
	if info, statErr := os.Stat(result.VideoPath); statErr != nil || info.Size() == 0 {
		return nil, &DownloadError{Kind: FailureOther, Err: fmt.Errorf("downloaded video is empty: %s", url)}
	}
	return result, nil
}

// downloadGeneric fetches from a streaming host with bounded retries and
// exponential backoff.
func (d *Downloader) downloadGeneric(ctx context.Context, url string, ws *Workspace) (*DownloadResult, error) {
	var lastErr error
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		if attempt > 1 {
			d.sleep(Backoff(attempt - 1))
			d.sleep(interRequestDelay())
		}

		info, err := d.yt.DownloadToFile(ctx, url, ws.VideoPath())
		if err == nil {
			return &DownloadResult{
				VideoPath: ws.VideoPath(),
				Title:     &info.Title,
				Uploader:  &info.Author,
				Caption:   &info.Description,
			}, nil
		}
		lastErr = err
		d.logger.Warn("download attempt failed", "attempt", attempt, "url", url, "error", err)
	}
	return nil, classifyDownloadError(lastErr)
}

// downloadRestricted runs the primary strategy for a restricted social
// host, then exactly one embed-page fallback before surfacing failure.
func (d *Downloader) downloadRestricted(ctx context.Context, class Classification, url string, ws *Workspace) (*DownloadResult, error) {
	// Without a cookie resource the skip-login embed variant is the
	// primary attempt, not the authenticated one.
	primary := d.embedStrategy
	primaryName := "embed"
	if class.CookieAvailable {
		primary = d.authenticatedStrategy
		primaryName = "authenticated"
	}

	result, err := primary(ctx, url, ws)
	if err == nil {
		return result, nil
	}
	d.logger.Warn("primary strategy failed, trying embed fallback",
		"strategy", primaryName, "url", url, "error", err)

	result, fallbackErr := d.embedStrategy(ctx, url, ws)
	if fallbackErr == nil {
		d.logger.Info("embed fallback succeeded", "url", url)
		return result, nil
	}
	d.logger.Error("embed fallback also failed", "url", url, "error", fallbackErr)
	return nil, classifyDownloadError(fallbackErr)
}
