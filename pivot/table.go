// Package pivot reshapes query result tables into chart series.
//
// A table is a list of equally long fields. By convention a field named
// "metric" (or "metrics") labels each row, the next field holds X values and
// the one after it Y values. Pivot turns such a table into one series per
// distinct metric, all aligned on the distinct X values.
package pivot

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// LoadingState mirrors the host's query completion flag.
type LoadingState int

const (
	NotStarted LoadingState = iota
	Loading
	Streaming
	Done
	Error
)

var stateNames = []string{"NotStarted", "Loading", "Streaming", "Done", "Error"}

func (s LoadingState) String() string {
	if int(s) < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("LoadingState(%d)", int(s))
	}
	return stateNames[s]
}

func (s LoadingState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *LoadingState) UnmarshalText(b []byte) error {
	for i, name := range stateNames {
		if strings.EqualFold(name, string(b)) {
			*s = LoadingState(i)
			return nil
		}
	}
	return fmt.Errorf("unknown loading state %q", b)
}

// Field is a named column of scalar values.
type Field struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Values      []any  `json:"values"`
}

// Label returns the display name when set, the field name otherwise.
func (f *Field) Label() string {
	if f.DisplayName != "" {
		return f.DisplayName
	}
	return f.Name
}

func (f *Field) Len() int { return len(f.Values) }

// Table is a read-only snapshot of a query result.
type Table struct {
	State  LoadingState `json:"state"`
	Fields []Field      `json:"fields"`
}

// NewTable returns a completed table holding fields.
func NewTable(fields ...Field) *Table {
	return &Table{State: Done, Fields: fields}
}

// Rows returns the row count, taken from the first field.
func (t *Table) Rows() int {
	if t == nil || len(t.Fields) == 0 {
		return 0
	}
	return t.Fields[0].Len()
}

// Field returns the first field called name.
func (t *Table) Field(name string) (*Field, bool) {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i], true
		}
	}
	return nil, false
}

// UnmarshalJSON decodes a table, defaulting the state to Done and
// normalizing every value to a comparable scalar.
func (t *Table) UnmarshalJSON(b []byte) error {
	var raw struct {
		State  *LoadingState `json:"state"`
		Fields []Field       `json:"fields"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	t.State = Done
	if raw.State != nil {
		t.State = *raw.State
	}
	t.Fields = raw.Fields
	for i := range t.Fields {
		for j, v := range t.Fields[i].Values {
			t.Fields[i].Values[j] = Normalize(v)
		}
	}
	return nil
}

// Normalize converts v to a scalar that is safe to use as a map key and to
// encode as JSON. Non-finite floats become their string form.
func Normalize(v any) any {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return strconv.FormatFloat(x, 'g', -1, 64)
		}
		return x
	case float32:
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return strconv.FormatFloat(float64(x), 'g', -1, 32)
		}
		return x
	case []byte:
		return string(x)
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return Normalize(f)
		}
		return x.String()
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case *time.Time:
		if x == nil {
			return nil
		}
		return x.UTC().Format(time.RFC3339Nano)
	case fmt.Stringer:
		return x.String()
	case nil, bool, string, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return v
	default:
		return fmt.Sprint(v)
	}
}
