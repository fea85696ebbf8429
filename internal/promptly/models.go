package promptly

import (
	"fmt"
	"sort"
	"strconv"
)

// Models maps model names to the numeric ids the prompt API expects.
var Models = map[string]int{
	"claude-sonnet-4":    5,
	"claude-3-7-sonnet":  1,
	"gpt-4o":             2,
	"gpt-4o-mini":        3,
	"llama3-1-70b":       4,
	"titan-text-premier": 6,
}

// DefaultModel is used when no model is configured.
const DefaultModel = "claude-3-7-sonnet"

// ResolveModel accepts either a model name from Models or a bare numeric id.
func ResolveModel(name string) (int, error) {
	if name == "" {
		name = DefaultModel
	}
	if id, ok := Models[name]; ok {
		return id, nil
	}
	if id, err := strconv.Atoi(name); err == nil && id > 0 {
		return id, nil
	}
	return 0, fmt.Errorf("unknown model %q", name)
}

// ModelName returns the name for a numeric id, or the id itself as a string.
func ModelName(id int) string {
	for name, v := range Models {
		if v == id {
			return name
		}
	}
	return strconv.Itoa(id)
}

// ModelNames returns the known model names in stable order.
func ModelNames() []string {
	names := make([]string, 0, len(Models))
	for name := range Models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
