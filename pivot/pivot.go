package pivot

import (
	"fmt"

	"timeless/utils"
)

// Options tunes a pivot.
type Options struct {
	// Percentage rescales each X position of a metric pivot so the series
	// sum to 100.
	Percentage bool `json:"percentage"`
	// Radius is the base geo density radius.
	Radius float64 `json:"radius"`
	// RadiusScale selects how radius is derived from point values.
	RadiusScale RadiusScale `json:"radiusScale"`
}

// Series is one named line, bar group or marker set.
type Series struct {
	Name string    `json:"name"`
	X    []any     `json:"x"`
	Y    []float64 `json:"y"`
}

// Grid holds raw parallel coordinate/value columns for a heatmap.
type Grid struct {
	X []any `json:"x"`
	Y []any `json:"y"`
	Z []any `json:"z"`
}

// Result is the output of Pivot. At most one of Series, Grid and Density is
// set; all are empty when the table is not complete yet.
type Result struct {
	Kind    Kind     `json:"kind"`
	XName   string   `json:"xName,omitempty"`
	YName   string   `json:"yName,omitempty"`
	Series  []Series `json:"series,omitempty"`
	Grid    *Grid    `json:"grid,omitempty"`
	Density *Density `json:"density,omitempty"`
}

// Empty reports whether r carries nothing to plot.
func (r *Result) Empty() bool {
	return len(r.Series) == 0 && r.Grid == nil && r.Density == nil
}

// Pivot reshapes t for the given plot kind. It never modifies t.
func Pivot(t *Table, kind Kind, opts Options) (*Result, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	res := &Result{Kind: kind}
	if t == nil || t.State != Done {
		return res, nil
	}
	if t.Rows() == 0 {
		return nil, ErrEmptyResult
	}

	if kind == DensityMapbox {
		cols, err := ClassifyGeo(t)
		if err != nil {
			return nil, err
		}
		res.XName, res.YName = cols.Lat.Label(), cols.Lon.Label()
		res.Density, err = density(cols, opts)
		if err != nil {
			return nil, err
		}
		return res, nil
	}

	cols, err := Classify(t)
	if err != nil {
		return nil, err
	}
	res.XName, res.YName = cols.X.Label(), cols.Y.Label()

	switch {
	case cols.Metric == nil:
		ys, err := floats(cols.Y)
		if err != nil {
			return nil, err
		}
		n := min(cols.X.Len(), len(ys))
		res.Series = []Series{{
			Name: cols.Y.Label(),
			X:    normalized(cols.X.Values[:n]),
			Y:    ys[:n],
		}}
	case kind == Heatmap:
		n := min(cols.X.Len(), cols.Y.Len(), cols.Metric.Len())
		res.Grid = &Grid{
			X: normalized(cols.X.Values[:n]),
			Y: normalized(cols.Y.Values[:n]),
			Z: normalized(cols.Metric.Values[:n]),
		}
	default:
		res.Series, err = byMetric(cols, opts.Percentage)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// byMetric builds one series per distinct metric aligned on the distinct X
// values. Missing (metric, x) pairs are zero; repeated pairs keep the last
// row. Ragged fields are cut to the shortest.
func byMetric(cols Columns, percentage bool) ([]Series, error) {
	ys, err := floats(cols.Y)
	if err != nil {
		return nil, err
	}
	n := min(cols.Metric.Len(), cols.X.Len(), len(ys))
	metrics, xs := normalized(cols.Metric.Values[:n]), normalized(cols.X.Values[:n])

	uniqueMetrics := utils.Unique(metrics)
	uniqueX := utils.Unique(xs)
	mpos := utils.PositionsOf(uniqueMetrics)
	xpos := utils.PositionsOf(uniqueX)

	grid := make([][]float64, len(uniqueMetrics))
	for i := range grid {
		grid[i] = make([]float64, len(uniqueX))
	}
	for i := 0; i < n; i++ {
		mid, ok := mpos.Lookup(metrics[i])
		if !ok {
			continue
		}
		xid, ok := xpos.Lookup(xs[i])
		if !ok {
			continue
		}
		grid[mid][xid] = ys[i]
	}

	if percentage {
		normalize(grid, len(uniqueX))
	}

	out := make([]Series, len(uniqueMetrics))
	for i, m := range uniqueMetrics {
		out[i] = Series{
			Name: fmt.Sprint(m),
			X:    uniqueX,
			Y:    grid[i],
		}
	}
	return out, nil
}

// normalized returns a copy of values with every element passed through
// Normalize.
func normalized(values []any) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = Normalize(v)
	}
	return out
}

// normalize rescales every column of grid to percentages of its sum. A zero
// sum leaves the column at zero.
func normalize(grid [][]float64, width int) {
	for xid := 0; xid < width; xid++ {
		var sum float64
		for _, row := range grid {
			sum += row[xid]
		}
		for _, row := range grid {
			if sum == 0 {
				row[xid] = 0
				continue
			}
			row[xid] = 100 * row[xid] / sum
		}
	}
}
