// Package youtube wraps github.com/kkdai/youtube/v2 for downloading a
// muxed (video+audio) stream with its source metadata.
package youtube

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	ytdl "github.com/kkdai/youtube/v2"
)

// Client abstracts YouTube operations.
type Client struct {
	client ytdl.Client
}

// NewClient creates a new YouTube client.
func NewClient() *Client {
	return &Client{client: ytdl.Client{}}
}

// VideoInfo is the source metadata attached to a download.
type VideoInfo struct {
	ID          string
	Title       string
	Author      string
	Duration    time.Duration
	Description string
}

// DownloadToFile fetches the best available combined video format and
// writes it to outputPath. Returns the video metadata.
func (c *Client) DownloadToFile(ctx context.Context, videoURL, outputPath string) (*VideoInfo, error) {
	video, err := c.client.GetVideoContext(ctx, videoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}

	format, err := selectBestMuxedFormat(video)
	if err != nil {
		return nil, err
	}

	stream, _, err := c.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return nil, fmt.Errorf("failed to get stream: %w", err)
	}
	defer stream.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, stream); err != nil {
		return nil, fmt.Errorf("failed to write video: %w", err)
	}

	return &VideoInfo{
		ID:          video.ID,
		Title:       video.Title,
		Author:      video.Author,
		Duration:    video.Duration,
		Description: video.Description,
	}, nil
}

// selectBestMuxedFormat picks the highest-bitrate format that carries both
// video and audio, preferring mp4.
func selectBestMuxedFormat(video *ytdl.Video) (*ytdl.Format, error) {
	muxed := video.Formats.WithAudioChannels()
	if len(muxed) == 0 {
		return nil, fmt.Errorf("no combined audio/video formats available")
	}

	var mp4 []ytdl.Format
	for _, f := range muxed {
		if strings.Contains(f.MimeType, "video/mp4") {
			mp4 = append(mp4, f)
		}
	}
	candidates := mp4
	if len(candidates) == 0 {
		candidates = muxed
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Bitrate > candidates[j].Bitrate
	})
	return &candidates[0], nil
}
