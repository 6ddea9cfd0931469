package llm

import (
	"fmt"
	"time"

	"github.com/mikey/moodiary/internal/core"
)

// DefaultTimeout bounds every provider call
const DefaultTimeout = 30 * time.Second

// Generation holds decoding parameters for one provider call
type Generation struct {
	Model            string
	MaxTokens        int
	Temperature      float32
	TopP             float32
	PresencePenalty  float32
	FrequencyPenalty float32
	Stop             []string
	Seed             *int
}

// Merge applies caller overrides on top of defaults. Unknown keys are returned
// so the caller can log them; values of the wrong type are rejected.
func Merge(defaults Generation, overrides map[string]any) (Generation, []string, error) {
	g := defaults
	var ignored []string

	for key, value := range overrides {
		var err error
		switch key {
		case "model":
			s, ok := value.(string)
			if !ok {
				err = typeError(key, "string", value)
			}
			g.Model = s
		case "max_tokens":
			g.MaxTokens, err = toInt(key, value)
		case "temperature":
			g.Temperature, err = toFloat32(key, value)
		case "top_p":
			g.TopP, err = toFloat32(key, value)
		case "presence_penalty":
			g.PresencePenalty, err = toFloat32(key, value)
		case "frequency_penalty":
			g.FrequencyPenalty, err = toFloat32(key, value)
		case "seed":
			var n int
			n, err = toInt(key, value)
			g.Seed = &n
		case "stop":
			g.Stop, err = toStrings(key, value)
		default:
			ignored = append(ignored, key)
		}
		if err != nil {
			return Generation{}, nil, fmt.Errorf("%w: %v", core.ErrInvalidInput, err)
		}
	}

	return g, ignored, nil
}

func toInt(key string, v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, typeError(key, "integer", v)
		}
		return int(n), nil
	default:
		return 0, typeError(key, "integer", v)
	}
}

func toFloat32(key string, v any) (float32, error) {
	switch n := v.(type) {
	case float32:
		return n, nil
	case float64:
		return float32(n), nil
	case int:
		return float32(n), nil
	case int64:
		return float32(n), nil
	default:
		return 0, typeError(key, "number", v)
	}
}

func toStrings(key string, v any) ([]string, error) {
	switch s := v.(type) {
	case string:
		return []string{s}, nil
	case []string:
		return s, nil
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			str, ok := item.(string)
			if !ok {
				return nil, typeError(key, "string list", v)
			}
			out = append(out, str)
		}
		return out, nil
	default:
		return nil, typeError(key, "string list", v)
	}
}

func typeError(key, want string, got any) error {
	return fmt.Errorf("parameter %q must be a %s, got %T", key, want, got)
}
