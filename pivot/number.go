package pivot

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Float converts a scalar to a finite float64. nil converts to 0; NaN and
// infinities are rejected.
func Float(v any) (float64, bool) {
	f, ok := toFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case nil:
		return 0, true
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	}
	return 0, false
}

func floats(f *Field) ([]float64, error) {
	out := make([]float64, len(f.Values))
	for i, v := range f.Values {
		x, ok := Float(v)
		if !ok {
			return nil, &FieldError{Field: f.Name, Row: i, Value: v, Err: ErrNonNumeric}
		}
		out[i] = x
	}
	return out, nil
}
