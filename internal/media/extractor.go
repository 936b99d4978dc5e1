package media

import (
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// ExtractionResult holds the derived audio track and sampled frames.
// AudioPath is empty when ffmpeg was unavailable or extraction failed;
// neither case aborts the pipeline.
type ExtractionResult struct {
	AudioPath  string
	FramePaths []string
}

// Extractor derives an audio track and frame samples from a video using
// ffmpeg. Tool availability is an explicit capability decided at
// construction, so the degraded path is testable without ffmpeg installed.
type Extractor struct {
	ffmpegPath string
	available  bool
	logger     *slog.Logger
}

// NewExtractor probes PATH for ffmpeg once and records the result.
func NewExtractor(logger *slog.Logger) *Extractor {
	path, err := exec.LookPath("ffmpeg")
	if err != nil {
		logger.Warn("ffmpeg not found, audio and frame extraction disabled")
		return &Extractor{logger: logger}
	}
	return &Extractor{ffmpegPath: path, available: true, logger: logger}
}

// NewExtractorWithTool creates an Extractor with an explicit tool path and
// availability, for tests and unusual installs.
func NewExtractorWithTool(ffmpegPath string, available bool, logger *slog.Logger) *Extractor {
	return &Extractor{ffmpegPath: ffmpegPath, available: available, logger: logger}
}

// Available reports whether the transcoding tool is present.
func (e *Extractor) Available() bool {
	return e.available
}

// Extract derives audio and frames into the workspace. Failures degrade:
// a missing tool or a tool error yields an empty audio path or an empty
// frame list, never an error.
func (e *Extractor) Extract(videoPath string, ws *Workspace) *ExtractionResult {
	if !e.available {
		e.logger.Warn("ffmpeg not available, skipping audio and frame extraction")
		return &ExtractionResult{}
	}
	return &ExtractionResult{
		AudioPath:  e.extractAudio(videoPath, ws.AudioPath()),
		FramePaths: e.extractFrames(videoPath, ws.FramesDir()),
	}
}

// extractAudio transcodes the audio stream to mp3 at default quality.
// Returns "" on failure.
func (e *Extractor) extractAudio(videoPath, audioPath string) string {
	cmd := exec.Command(e.ffmpegPath,
		"-i", videoPath,
		"-vn",
		"-y",
		audioPath,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		e.logger.Error("audio extraction failed",
			"error", err, "ffmpeg_output", strings.TrimSpace(string(output)))
		return ""
	}
	e.logger.Info("audio extracted", "path", audioPath)
	return audioPath
}

// extractFrames samples one frame per second of source duration into
// sequentially numbered PNGs. Returns the sorted list of produced files;
// a tool error yields an empty list.
func (e *Extractor) extractFrames(videoPath, framesDir string) []string {
	if err := os.MkdirAll(framesDir, 0755); err != nil {
		e.logger.Error("failed to create frames directory", "error", err)
		return nil
	}

	cmd := exec.Command(e.ffmpegPath,
		"-i", videoPath,
		"-vf", "fps=1",
		"-y",
		filepath.Join(framesDir, "frame-%03d.png"),
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		e.logger.Error("frame extraction failed",
			"error", err, "ffmpeg_output", strings.TrimSpace(string(output)))
		return nil
	}

	entries, err := os.ReadDir(framesDir)
	if err != nil {
		e.logger.Error("failed to list frames directory", "error", err)
		return nil
	}

	var frames []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".png") {
			frames = append(frames, filepath.Join(framesDir, entry.Name()))
		}
	}
	sort.Strings(frames)
	e.logger.Info("frames extracted", "count", len(frames))
	return frames
}
