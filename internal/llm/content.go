package llm

import (
	"encoding/json"
	"fmt"
)

const defaultMaxTokens = 2048

// finishContent turns model text into Response content: schema requests are
// validated JSON, text requests are the text encoded as a JSON string.
func finishContent(schema *Schema, text string) (json.RawMessage, error) {
	if schema == nil {
		raw, err := json.Marshal(text)
		if err != nil {
			return nil, fmt.Errorf("encode text: %w", err)
		}
		return raw, nil
	}
	content := json.RawMessage(text)
	if err := validateResponse(schema, content); err != nil {
		return nil, err
	}
	return content, nil
}

func maxTokens(n int) int {
	if n <= 0 {
		return defaultMaxTokens
	}
	return n
}

// resolveModel maps a short name to a backend model id. Unknown names pass
// through so full model ids work too.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
