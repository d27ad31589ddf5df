package pivot

// Columns is the classification of a table's fields.
type Columns struct {
	// Metric is nil when the table has no usable metric field.
	Metric *Field
	X      *Field
	Y      *Field
}

func isMetric(name string) bool {
	return name == "metric" || name == "metrics"
}

// Classify resolves the metric, X and Y fields of t. The first field named
// metric or metrics is the metric field; the first two other fields are X and
// Y. Scanning stops at the next other field.
func Classify(t *Table) (Columns, error) {
	var c Columns
	for i := range t.Fields {
		f := &t.Fields[i]
		switch {
		case isMetric(f.Name):
			if c.Metric == nil {
				c.Metric = f
			}
			continue
		case c.X == nil:
			c.X = f
			continue
		case c.Y == nil:
			c.Y = f
			continue
		}
		break
	}
	if c.X == nil || c.Y == nil {
		return Columns{}, ErrInsufficientColumns
	}
	if c.Metric != nil && c.Metric.Len() == 0 {
		c.Metric = nil
	}
	return c, nil
}

// GeoColumns is the classification of a table for geo density plots.
type GeoColumns struct {
	Lat *Field
	Lon *Field
	// Value is nil when no value field is available.
	Value *Field
}

// ClassifyGeo resolves the lat and lon fields by name. The value field is
// the metric field, or else the first field that is neither lat nor lon.
func ClassifyGeo(t *Table) (GeoColumns, error) {
	var c GeoColumns
	var other *Field
	for i := range t.Fields {
		f := &t.Fields[i]
		switch {
		case f.Name == "lat":
			if c.Lat == nil {
				c.Lat = f
			}
		case f.Name == "lon":
			if c.Lon == nil {
				c.Lon = f
			}
		case isMetric(f.Name):
			if c.Value == nil {
				c.Value = f
			}
		case other == nil:
			other = f
		}
	}
	if c.Lat == nil || c.Lon == nil {
		return GeoColumns{}, ErrInsufficientColumns
	}
	if c.Value == nil {
		c.Value = other
	}
	return c, nil
}
