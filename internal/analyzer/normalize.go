package analyzer

import (
	"encoding/json"

	"reelscope/internal/models"
)

// normalize assembles a Result from a loosely decoded model response.
// Gemini is inconsistent about field casing, so each field is looked up
// under both its camelCase and snake_case names.
func normalize(decoded map[string]json.RawMessage) *Result {
	result := &Result{
		KeyTopics:          []string{},
		MentionedResources: []models.Resource{},
	}

	if s, ok := stringField(decoded, "summary"); ok {
		result.Summary = s
	}
	if s, ok := stringField(decoded, "translation"); ok {
		result.Translation = s
	}
	if raw, ok := field(decoded, "keyTopics", "key_topics"); ok {
		var topics []string
		if err := json.Unmarshal(raw, &topics); err == nil {
			result.KeyTopics = topics
		}
	}
	if raw, ok := field(decoded, "mentionedResources", "mentioned_resources"); ok {
		var resources []models.Resource
		if err := json.Unmarshal(raw, &resources); err == nil {
			result.MentionedResources = resources
		}
	}
	return result
}

func field(decoded map[string]json.RawMessage, names ...string) (json.RawMessage, bool) {
	for _, name := range names {
		if raw, ok := decoded[name]; ok {
			return raw, true
		}
	}
	return nil, false
}

func stringField(decoded map[string]json.RawMessage, names ...string) (string, bool) {
	raw, ok := field(decoded, names...)
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}
