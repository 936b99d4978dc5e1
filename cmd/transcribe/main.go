package main

import (
	"flag"
	"fmt"
	"os"

	"reelscope/internal/asr"
	"reelscope/internal/logging"
)

func main() {
	var (
		inputFile = flag.String("i", "", "Input audio file (mp3 or 16kHz mono WAV)")
		modelDir  = flag.String("model", os.Getenv("ASR_MODEL_DIR"), "Model directory path")
		verbose   = flag.Bool("v", false, "Verbose output")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -i audio.mp3\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -i audio.wav -model models/sherpa-onnx-zipformer\n", os.Args[0])
	}

	flag.Parse()

	if *inputFile == "" {
		fmt.Fprintf(os.Stderr, "Error: Input file is required\n\n")
		flag.Usage()
		os.Exit(1)
	}
	if _, err := os.Stat(*inputFile); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: Input file not found: %s\n", *inputFile)
		os.Exit(1)
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}
	logger := logging.NewLogger(level)

	transcriber := asr.NewTranscriber(*modelDir, logger)
	defer transcriber.Close()

	if !transcriber.Available() {
		fmt.Fprintf(os.Stderr, "Warning: speech recognition unavailable, printing placeholder\n")
	}

	fmt.Println(transcriber.Transcribe(*inputFile))
}
