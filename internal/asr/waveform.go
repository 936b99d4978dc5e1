package asr

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// readWavFile reads a PCM WAV file into float32 samples in [-1, 1].
// The file must be mono 16-bit at the expected sample rate.
func readWavFile(wavPath string, expectedRate int) ([]float32, error) {
	f, err := os.Open(wavPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	riffHeader := make([]byte, 12)
	if _, err := io.ReadFull(f, riffHeader); err != nil {
		return nil, fmt.Errorf("failed to read RIFF header: %w", err)
	}
	if string(riffHeader[0:4]) != "RIFF" || string(riffHeader[8:12]) != "WAVE" {
		return nil, fmt.Errorf("not a valid WAV file")
	}

	var numChannels, sampleRate, bitsPerSample int
	var data []byte

	for data == nil {
		chunkHeader := make([]byte, 8)
		if _, err := io.ReadFull(f, chunkHeader); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("failed to read chunk header: %w", err)
		}

		chunkID := string(chunkHeader[0:4])
		chunkSize := int64(binary.LittleEndian.Uint32(chunkHeader[4:8]))

		switch chunkID {
		case "fmt ":
			fmtData := make([]byte, chunkSize)
			if _, err := io.ReadFull(f, fmtData); err != nil {
				return nil, fmt.Errorf("failed to read fmt chunk: %w", err)
			}
			if len(fmtData) >= 16 {
				numChannels = int(binary.LittleEndian.Uint16(fmtData[2:4]))
				sampleRate = int(binary.LittleEndian.Uint32(fmtData[4:8]))
				bitsPerSample = int(binary.LittleEndian.Uint16(fmtData[14:16]))
			}

		case "data":
			data = make([]byte, chunkSize)
			if _, err := io.ReadFull(f, data); err != nil {
				return nil, fmt.Errorf("failed to read data chunk: %w", err)
			}

		default:
			// Skip unknown chunks (LIST, INFO, etc.), respecting the
			// even-byte padding of RIFF chunks.
			if chunkSize%2 != 0 {
				chunkSize++
			}
			if _, err := f.Seek(chunkSize, io.SeekCurrent); err != nil {
				return nil, fmt.Errorf("failed to skip chunk %s: %w", chunkID, err)
			}
		}
	}

	if data == nil {
		return nil, fmt.Errorf("no data chunk found")
	}
	if numChannels != 1 || bitsPerSample != 16 {
		return nil, fmt.Errorf("expected 16-bit mono WAV, got %d channels at %d bits", numChannels, bitsPerSample)
	}
	if sampleRate != expectedRate {
		return nil, fmt.Errorf("expected %d Hz sample rate, got %d", expectedRate, sampleRate)
	}

	samples := make([]float32, len(data)/2)
	for i := range samples {
		samples[i] = float32(int16(binary.LittleEndian.Uint16(data[i*2:]))) / 32768.0
	}
	return samples, nil
}
