package repair

import (
	"encoding/json"
	"strings"
)

// ExtractJSON extracts a JSON object from raw model text. It tolerates
// markdown code fences (with an optional "json" language tag) and
// leading/trailing prose around the object. Returns nil on any decode failure
// or when the top-level value is not an object.
func ExtractJSON(text string) map[string]any {
	if text == "" {
		return nil
	}

	payload := strings.TrimSpace(text)

	if strings.HasPrefix(payload, "```") {
		payload = strings.TrimSpace(strings.Trim(payload, "`"))
		if len(payload) >= 4 && strings.EqualFold(payload[:4], "json") {
			payload = strings.TrimSpace(payload[4:])
		}
	}

	if !strings.HasPrefix(payload, "{") || !strings.HasSuffix(payload, "}") {
		start := strings.Index(payload, "{")
		end := strings.LastIndex(payload, "}")
		if start >= 0 && end > start {
			payload = payload[start : end+1]
		}
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return nil
	}
	if data == nil {
		return nil
	}
	return data
}
