package services

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// coerceFloat accepts JSON numbers and numeric strings.
func coerceFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, !math.IsNaN(val) && !math.IsInf(val, 0)
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(val), "%"))
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func coerceInt(v any) (int, bool) {
	f, ok := coerceFloat(v)
	if !ok {
		return 0, false
	}
	return int(math.Round(f)), true
}

func coerceBool(v any) (bool, bool) {
	switch val := v.(type) {
	case bool:
		return val, true
	case float64:
		return val != 0, true
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "yes", "y", "1":
			return true, true
		case "false", "no", "n", "0":
			return false, true
		}
	}
	return false, false
}

func coerceString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val), true
	case nil:
		return "", false
	case float64, bool:
		return strings.TrimSpace(fmt.Sprint(val)), true
	default:
		return "", false
	}
}

// coerceStringSlice accepts a list of scalars or a single string.
func coerceStringSlice(v any) ([]string, bool) {
	switch val := v.(type) {
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := coerceString(item); ok && s != "" {
				out = append(out, s)
			}
		}
		return out, true
	case []string:
		return val, true
	case string:
		if s := strings.TrimSpace(val); s != "" {
			return []string{s}, true
		}
		return []string{}, true
	default:
		return nil, false
	}
}
