// Package translate provides language detection and transcript
// translation for stored analyses.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/abadojack/whatlanggo"
)

const defaultBaseURL = "https://translate.googleapis.com/translate_a/single"

// supportedLanguages is a fixed set: five Indian languages plus five
// international ones.
var supportedLanguages = map[string]string{
	"hi": "Hindi",
	"ta": "Tamil",
	"te": "Telugu",
	"bn": "Bengali",
	"mr": "Marathi",
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"zh": "Chinese",
}

// Translator detects transcript languages and translates them through
// the public Google Translate endpoint. All methods return nil instead
// of an error when the input is unusable.
type Translator struct {
	client  *http.Client
	baseURL string
	logger  *slog.Logger
}

func NewTranslator(logger *slog.Logger) *Translator {
	return &Translator{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: defaultBaseURL,
		logger:  logger,
	}
}

// Detect returns the ISO 639-1 code of the text's language, or nil for
// empty input or when detection is unreliable.
func (t *Translator) Detect(text string) *string {
	if strings.TrimSpace(text) == "" {
		t.logger.Warn("empty text provided for language detection")
		return nil
	}
	info := whatlanggo.Detect(text)
	code := info.Lang.Iso6391()
	if code == "" {
		t.logger.Error("language detection failed")
		return nil
	}
	t.logger.Info("detected language", "code", code)
	return &code
}

// Translate returns text translated into the target language, or nil on
// empty input, unsupported target, or backend failure.
func (t *Translator) Translate(ctx context.Context, text, targetLanguage string) *string {
	if strings.TrimSpace(text) == "" {
		t.logger.Warn("empty text provided for translation")
		return nil
	}
	if _, ok := supportedLanguages[targetLanguage]; !ok {
		t.logger.Error("unsupported target language", "target", targetLanguage)
		return nil
	}

	translated, err := t.request(ctx, text, targetLanguage)
	if err != nil {
		t.logger.Error("translation failed", "target", targetLanguage, "error", err)
		return nil
	}
	t.logger.Info("translated text", "target", targetLanguage)
	return &translated
}

// SupportedLanguages returns a copy of the code to name mapping.
func (t *Translator) SupportedLanguages() map[string]string {
	languages := make(map[string]string, len(supportedLanguages))
	for code, name := range supportedLanguages {
		languages[code] = name
	}
	return languages
}

func (t *Translator) request(ctx context.Context, text, targetLanguage string) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", "auto")
	params.Set("tl", targetLanguage)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate endpoint returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", err
	}
	return parseTranslation(body)
}

// parseTranslation extracts the translated segments from the endpoint's
// nested array response: [[["translated","original",...],...],...].
func parseTranslation(body []byte) (string, error) {
	var outer []json.RawMessage
	if err := json.Unmarshal(body, &outer); err != nil {
		return "", fmt.Errorf("unexpected translate response: %w", err)
	}
	if len(outer) == 0 {
		return "", fmt.Errorf("empty translate response")
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(outer[0], &segments); err != nil {
		return "", fmt.Errorf("unexpected translate response: %w", err)
	}

	var sb strings.Builder
	for _, segment := range segments {
		if len(segment) == 0 {
			continue
		}
		var piece string
		if err := json.Unmarshal(segment[0], &piece); err != nil {
			continue
		}
		sb.WriteString(piece)
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("translate response contained no segments")
	}
	return sb.String(), nil
}
