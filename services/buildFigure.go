package services

import "timeless/pivot"

// Figure is a plotly-compatible description of a chart: the traces and the
// layout a renderer needs to draw them.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

type Marker struct {
	Color string `json:"color,omitempty"`
}

type Trace struct {
	Type   string    `json:"type"`
	Mode   string    `json:"mode,omitempty"`
	Name   string    `json:"name,omitempty"`
	X      []any     `json:"x,omitempty"`
	Y      any       `json:"y,omitempty"`
	Z      any       `json:"z,omitempty"`
	Lat    []float64 `json:"lat,omitempty"`
	Lon    []float64 `json:"lon,omitempty"`
	Radius []float64 `json:"radius,omitempty"`
	Marker *Marker   `json:"marker,omitempty"`
}

type Layout struct {
	BarMode    string  `json:"barmode,omitempty"`
	ShowLegend bool    `json:"showlegend"`
	Margin     Margin  `json:"margin"`
	XAxis      Axis    `json:"xaxis"`
	YAxis      Axis    `json:"yaxis"`
	Mapbox     *Mapbox `json:"mapbox,omitempty"`
}

type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

type Axis struct {
	Title *AxisTitle `json:"title,omitempty"`
	Type  string     `json:"type,omitempty"`
}

type AxisTitle struct {
	Text string `json:"text"`
	Font Font   `json:"font"`
}

type Font struct {
	Size int `json:"size"`
}

type Mapbox struct {
	Style  string  `json:"style"`
	Center LatLon  `json:"center"`
	Zoom   float64 `json:"zoom"`
}

type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// BuildFigure turns a pivot result into traces and a layout.
func BuildFigure(res *pivot.Result, opts PanelOptions) Figure {
	return Figure{
		Data:   buildTraces(res, opts),
		Layout: buildLayout(res, opts),
	}
}

func buildTraces(res *pivot.Result, opts PanelOptions) []Trace {
	traces := []Trace{}
	r := res.Kind.Rendering()
	switch {
	case res.Grid != nil:
		traces = append(traces, Trace{
			Type: r.Trace,
			X:    res.Grid.X,
			Y:    res.Grid.Y,
			Z:    res.Grid.Z,
		})
	case res.Density != nil:
		t := Trace{
			Type:   r.Trace,
			Lat:    res.Density.Lat,
			Lon:    res.Density.Lon,
			Radius: res.Density.Radius,
		}
		if res.Density.Z != nil {
			t.Z = res.Density.Z
		}
		traces = append(traces, t)
	default:
		for i, s := range res.Series {
			traces = append(traces, Trace{
				Type:   r.Trace,
				Mode:   r.Mode,
				Name:   s.Name,
				X:      s.X,
				Y:      s.Y,
				Marker: &Marker{Color: opts.Color(i)},
			})
		}
	}
	return traces
}

func buildLayout(res *pivot.Result, opts PanelOptions) Layout {
	l := Layout{
		ShowLegend: opts.ShowLegend,
		Margin: Margin{
			L: opts.MarginLeft,
			R: opts.MarginRight,
			T: opts.MarginTop,
			B: opts.MarginBottom,
		},
		XAxis: Axis{Type: "category"},
	}
	if res.Kind == pivot.Bar {
		l.BarMode = opts.BarType
	}
	if opts.ShowXAxisTitle {
		l.XAxis.Title = &AxisTitle{Text: res.XName, Font: Font{Size: opts.TitleSize}}
	}
	if opts.ShowYAxisTitle {
		l.YAxis.Title = &AxisTitle{Text: res.YName, Font: Font{Size: opts.TitleSize}}
	}
	if res.Kind == pivot.DensityMapbox {
		l.Mapbox = &Mapbox{
			Style:  "open-street-map",
			Center: LatLon{Lat: opts.Lat, Lon: opts.Lon},
			Zoom:   opts.Zoom,
		}
	}
	return l
}
