package pivot

import (
	"fmt"
	"math"
)

// RadiusScale selects how a density point's radius follows its value.
type RadiusScale string

const (
	// RadiusConstant gives every point the base radius.
	RadiusConstant RadiusScale = "constant"
	// RadiusLinear scales the base radius by value/max.
	RadiusLinear RadiusScale = "linear"
	// RadiusLog scales the base radius by ln(1+value)/ln(1+max).
	RadiusLog RadiusScale = "log"
)

func (s RadiusScale) Valid() bool {
	switch s {
	case "", RadiusConstant, RadiusLinear, RadiusLog:
		return true
	}
	return false
}

// DefaultRadius is the geo density radius used when none is configured.
const DefaultRadius = 15

// Density is a set of (lat, lon, value) points for a map density plot.
type Density struct {
	Lat    []float64 `json:"lat"`
	Lon    []float64 `json:"lon"`
	Z      []float64 `json:"z,omitempty"`
	Radius []float64 `json:"radius"`
}

func density(cols GeoColumns, opts Options) (*Density, error) {
	lat, err := floats(cols.Lat)
	if err != nil {
		return nil, err
	}
	lon, err := floats(cols.Lon)
	if err != nil {
		return nil, err
	}
	n := min(len(lat), len(lon))
	d := &Density{Lat: lat[:n], Lon: lon[:n]}
	if cols.Value != nil {
		z, err := floats(cols.Value)
		if err != nil {
			return nil, err
		}
		if len(z) < n {
			return nil, fmt.Errorf("%w: field %q has %d values, want %d", ErrInsufficientColumns, cols.Value.Name, len(z), n)
		}
		d.Z = z[:n]
	}
	d.Radius = radii(d.Z, n, opts)
	return d, nil
}

// radii derives one radius per point. Scaling falls back to the base radius
// when there are no values or the maximum is not positive.
func radii(z []float64, n int, opts Options) []float64 {
	base := opts.Radius
	if base <= 0 {
		base = DefaultRadius
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = base
	}
	if z == nil || opts.RadiusScale == "" || opts.RadiusScale == RadiusConstant {
		return out
	}

	peak := math.Inf(-1)
	for _, v := range z {
		if v > peak {
			peak = v
		}
	}
	if !(peak > 0) {
		return out
	}

	for i, v := range z {
		var r float64
		switch opts.RadiusScale {
		case RadiusLinear:
			r = base * v / peak
		case RadiusLog:
			r = base * math.Log1p(v) / math.Log1p(peak)
		}
		if math.IsNaN(r) || math.IsInf(r, 0) || r < 0 {
			r = 0
		}
		out[i] = r
	}
	return out
}
