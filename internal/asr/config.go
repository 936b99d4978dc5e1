package asr

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the configuration for the speech recognizer.
type Config struct {
	ModelPath   string // base directory for the model
	EncoderPath string // path to encoder.onnx or encoder.int8.onnx
	DecoderPath string // path to decoder.onnx or decoder.int8.onnx
	JoinerPath  string // path to joiner.onnx or joiner.int8.onnx
	TokensPath  string // path to tokens.txt
	NumThreads  int    // number of threads for inference
	SampleRate  int    // audio sample rate (typically 16000)
}

// NewConfig creates a configuration from a model directory, detecting the
// model files automatically (int8 quantized versions preferred).
func NewConfig(modelDir string) (*Config, error) {
	config := &Config{
		ModelPath:  modelDir,
		NumThreads: 2,
		SampleRate: 16000,
	}

	config.EncoderPath = findModelFile(modelDir, []string{
		"encoder.int8.onnx",
		"encoder-epoch-99-avg-1.int8.onnx",
		"encoder.onnx",
		"encoder-epoch-99-avg-1.onnx",
	})
	if config.EncoderPath == "" {
		return nil, fmt.Errorf("encoder model not found in %s", modelDir)
	}

	config.DecoderPath = findModelFile(modelDir, []string{
		"decoder.onnx",
		"decoder-epoch-99-avg-1.onnx",
	})
	if config.DecoderPath == "" {
		return nil, fmt.Errorf("decoder model not found in %s", modelDir)
	}

	config.JoinerPath = findModelFile(modelDir, []string{
		"joiner.int8.onnx",
		"joiner-epoch-99-avg-1.int8.onnx",
		"joiner.onnx",
		"joiner-epoch-99-avg-1.onnx",
	})
	if config.JoinerPath == "" {
		return nil, fmt.Errorf("joiner model not found in %s", modelDir)
	}

	config.TokensPath = findModelFile(modelDir, []string{"tokens.txt"})
	if config.TokensPath == "" {
		return nil, fmt.Errorf("tokens.txt not found in %s", modelDir)
	}

	return config, nil
}

// Validate checks that all model files exist.
func (c *Config) Validate() error {
	paths := []string{c.EncoderPath, c.DecoderPath, c.JoinerPath, c.TokensPath}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("model file missing: %s", p)
		}
	}
	return nil
}

func findModelFile(dir string, candidates []string) string {
	for _, name := range candidates {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
