package asr

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ConvertToWav converts an audio file to 16kHz mono WAV, the input format
// expected by the recognizer.
func ConvertToWav(inputPath, outputPath string) error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return fmt.Errorf("ffmpeg not found: %w", err)
	}
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}

	// -ar 16000: sample rate, -ac 1: mono, -f wav: output format
	cmd := exec.Command("ffmpeg",
		"-i", inputPath,
		"-ar", "16000",
		"-ac", "1",
		"-f", "wav",
		"-y",
		outputPath,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg conversion failed: %w\nOutput: %s", err, string(output))
	}
	return nil
}

// ConvertToWavTemp converts an audio file to WAV next to it, returning the
// converted path. The caller cleans up with the rest of its workspace.
func ConvertToWavTemp(inputPath string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	outputPath := filepath.Join(filepath.Dir(inputPath), base+"_16k.wav")
	if err := ConvertToWav(inputPath, outputPath); err != nil {
		return "", err
	}
	return outputPath, nil
}
