package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"timeless/pivot"
)

// MaxColors is the number of per-series color slots.
const MaxColors = 8

// DefaultColors is the per-series palette used when none is configured.
var DefaultColors = []string{
	"#73BF69", "#FF9830", "#F2495C", "#5794F2",
	"#FADE2A", "#B877D9", "#8AB8FF", "#FFA6B0",
}

// PanelOptions is the host-exposed configuration of a plot. Everything
// except the pivot switches is passed through into the figure layout.
type PanelOptions struct {
	PlotType       pivot.Kind        `json:"plotType"`
	BarType        string            `json:"barType"`
	Percentage     bool              `json:"percentage"`
	TitleSize      int               `json:"titleSize"`
	ShowXAxisTitle bool              `json:"showXAxisTitle"`
	ShowYAxisTitle bool              `json:"showYAxisTitle"`
	ShowLegend     bool              `json:"showLegend"`
	MarginLeft     int               `json:"marginLeft"`
	MarginRight    int               `json:"marginRight"`
	MarginTop      int               `json:"marginTop"`
	MarginBottom   int               `json:"marginBottom"`
	Lat            float64           `json:"lat"`
	Lon            float64           `json:"lon"`
	Zoom           float64           `json:"zoom"`
	Radius         float64           `json:"radius"`
	RadiusScale    pivot.RadiusScale `json:"radiusScale"`
	FieldColors    []string          `json:"fieldColors"`
}

// DefaultPanelOptions returns the options a new panel starts with.
func DefaultPanelOptions() PanelOptions {
	return PanelOptions{
		PlotType:     pivot.Line,
		BarType:      "stack",
		TitleSize:    16,
		MarginLeft:   60,
		MarginRight:  20,
		MarginTop:    20,
		MarginBottom: 60,
		Lat:          40.7472113,
		Lon:          -73.9055751,
		Zoom:         14,
		Radius:       pivot.DefaultRadius,
		RadiusScale:  pivot.RadiusConstant,
		FieldColors:  append([]string(nil), DefaultColors...),
	}
}

type panelOptions PanelOptions

// UnmarshalJSON decodes options over the current values. Colors may also be
// given as the flat keys fieldColor1 to fieldColor8, which override the
// matching fieldColors slot.
func (o *PanelOptions) UnmarshalJSON(b []byte) error {
	if err := json.Unmarshal(b, (*panelOptions)(o)); err != nil {
		return err
	}
	var flat map[string]json.RawMessage
	if err := json.Unmarshal(b, &flat); err != nil {
		return err
	}
	for i := 1; i <= MaxColors; i++ {
		key := fmt.Sprintf("fieldColor%d", i)
		raw, ok := flat[key]
		if !ok {
			continue
		}
		var color string
		if err := json.Unmarshal(raw, &color); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		for len(o.FieldColors) < i {
			o.FieldColors = append(o.FieldColors, DefaultColors[len(o.FieldColors)])
		}
		o.FieldColors[i-1] = color
	}
	return nil
}

// ParsePanelOptions decodes b over the defaults and validates the result.
// Empty input yields the defaults.
func ParsePanelOptions(b []byte) (PanelOptions, error) {
	opts := DefaultPanelOptions()
	if len(b) > 0 && string(b) != "null" {
		if err := json.Unmarshal(b, &opts); err != nil {
			return PanelOptions{}, fmt.Errorf("decoding panel options: %w", err)
		}
	}
	if err := opts.Validate(); err != nil {
		return PanelOptions{}, err
	}
	return opts, nil
}

// ErrInvalidOptions wraps every validation failure.
var ErrInvalidOptions = errors.New("invalid panel options")

func (o PanelOptions) Validate() error {
	if !o.PlotType.Valid() {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, fmt.Errorf("%w: %q", pivot.ErrUnknownKind, o.PlotType))
	}
	if o.BarType != "stack" && o.BarType != "group" {
		return fmt.Errorf("%w: barType %q must be stack or group", ErrInvalidOptions, o.BarType)
	}
	if o.MarginLeft < 0 || o.MarginRight < 0 || o.MarginTop < 0 || o.MarginBottom < 0 {
		return fmt.Errorf("%w: margins must not be negative", ErrInvalidOptions)
	}
	if o.TitleSize < 0 {
		return fmt.Errorf("%w: titleSize must not be negative", ErrInvalidOptions)
	}
	if !o.RadiusScale.Valid() {
		return fmt.Errorf("%w: unknown radiusScale %q", ErrInvalidOptions, o.RadiusScale)
	}
	if len(o.FieldColors) > MaxColors {
		return fmt.Errorf("%w: at most %d field colors, got %d", ErrInvalidOptions, MaxColors, len(o.FieldColors))
	}
	return nil
}

// PivotOptions extracts the switches that affect the pivot itself.
func (o PanelOptions) PivotOptions() pivot.Options {
	return pivot.Options{
		Percentage:  o.Percentage,
		Radius:      o.Radius,
		RadiusScale: o.RadiusScale,
	}
}

// Color returns the color of the i-th series, empty when unset.
func (o PanelOptions) Color(i int) string {
	if i < 0 || i >= len(o.FieldColors) {
		return ""
	}
	return o.FieldColors[i]
}
