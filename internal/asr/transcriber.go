// Package asr provides speech-to-text transcription backed by a
// sherpa-onnx offline recognizer, with a deterministic placeholder when
// the backend is unavailable.
package asr

import (
	"log/slog"
	"os"
)

// PlaceholderTranscript is returned whenever no real transcript can be
// produced: missing audio, missing model, or a backend failure.
const PlaceholderTranscript = "Full transcript would be extracted from audio in a real implementation with ffmpeg available"

// Transcriber converts extracted audio into a transcript. The recognizer
// is initialized once at process start; a failed initialization is
// recorded and never retried.
type Transcriber struct {
	recognizer *Recognizer
	logger     *slog.Logger
}

// NewTranscriber builds a Transcriber from a model directory. An empty
// directory, a missing model, or a recognizer failure yields an
// unavailable Transcriber that always answers with the placeholder.
func NewTranscriber(modelDir string, logger *slog.Logger) *Transcriber {
	t := &Transcriber{logger: logger}
	if modelDir == "" {
		logger.Warn("no ASR model configured, transcription disabled")
		return t
	}

	config, err := NewConfig(modelDir)
	if err != nil {
		logger.Warn("speech recognition unavailable", "error", err)
		return t
	}
	recognizer, err := NewRecognizer(config)
	if err != nil {
		logger.Warn("speech recognition unavailable", "error", err)
		return t
	}

	logger.Info("speech recognizer initialized", "model_dir", modelDir)
	t.recognizer = recognizer
	return t
}

// Available reports whether a real backend is loaded.
func (t *Transcriber) Available() bool {
	return t.recognizer != nil
}

// Transcribe returns the transcript for the given audio file. An empty or
// missing path, an unavailable backend, or any runtime error falls back to
// the placeholder; Transcribe never fails.
func (t *Transcriber) Transcribe(audioPath string) string {
	if audioPath == "" {
		t.logger.Info("no audio available for transcription")
		return PlaceholderTranscript
	}
	if _, err := os.Stat(audioPath); err != nil {
		t.logger.Warn("audio file not found", "path", audioPath)
		return PlaceholderTranscript
	}
	if t.recognizer == nil {
		t.logger.Info("speech backend unavailable, returning placeholder")
		return PlaceholderTranscript
	}

	wavPath, err := ConvertToWavTemp(audioPath)
	if err != nil {
		t.logger.Error("audio conversion failed", "error", err)
		return PlaceholderTranscript
	}

	text, err := t.recognizer.TranscribeFile(wavPath)
	if err != nil {
		t.logger.Error("transcription failed", "error", err)
		return PlaceholderTranscript
	}
	t.logger.Info("transcript extracted", "chars", len(text))
	return text
}

// Close releases the recognizer, if one was loaded.
func (t *Transcriber) Close() error {
	if t.recognizer != nil {
		return t.recognizer.Close()
	}
	return nil
}
