package pivot

import "fmt"

// Kind selects how a table is plotted.
type Kind string

const (
	Line          Kind = "line"
	Scatter       Kind = "scatter"
	Bar           Kind = "bar"
	Heatmap       Kind = "heatmap"
	DensityMapbox Kind = "densitymapbox"
)

// Kinds lists every supported kind in option order.
var Kinds = []Kind{Line, Bar, Scatter, Heatmap, DensityMapbox}

// Rendering names the renderer family and point mode for a kind.
type Rendering struct {
	Trace string
	Mode  string
}

// Rendering maps the kind to its trace type and mode. Mode is empty for
// kinds that have no line/marker choice.
func (k Kind) Rendering() Rendering {
	switch k {
	case Line:
		return Rendering{Trace: "scattergl", Mode: "lines"}
	case Scatter:
		return Rendering{Trace: "scattergl", Mode: "markers"}
	default:
		return Rendering{Trace: string(k)}
	}
}

// Cartesian reports whether the kind uses the per-metric pivot.
func (k Kind) Cartesian() bool {
	return k == Line || k == Scatter || k == Bar
}

func (k Kind) Valid() bool {
	for _, v := range Kinds {
		if k == v {
			return true
		}
	}
	return false
}

// ParseKind validates s as a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}
