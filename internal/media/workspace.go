package media

import (
	"fmt"
	"os"
	"path/filepath"
)

// Workspace is the scoped working directory for one pipeline run.
// Every derived artifact (video, audio, frames) lives under it and is
// deleted when the run releases it. No artifact outlives its run.
type Workspace struct {
	root string
}

// NewWorkspace creates a fresh temporary directory for a run.
func NewWorkspace() (*Workspace, error) {
	root, err := os.MkdirTemp("", "reelscope-run-")
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}
	return &Workspace{root: root}, nil
}

// Root returns the workspace directory.
func (w *Workspace) Root() string {
	return w.root
}

// VideoPath is the canonical location for the downloaded video.
func (w *Workspace) VideoPath() string {
	return filepath.Join(w.root, "video.mp4")
}

// AudioPath is the canonical location for the extracted audio track.
func (w *Workspace) AudioPath() string {
	return filepath.Join(w.root, "audio.mp3")
}

// FramesDir is the directory that receives sampled frame images.
func (w *Workspace) FramesDir() string {
	return filepath.Join(w.root, "frames")
}

// Release deletes the workspace and everything in it. Safe to call more
// than once.
func (w *Workspace) Release() {
	if w.root == "" {
		return
	}
	os.RemoveAll(w.root)
	w.root = ""
}
