package pivot

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func metricTable() *Table {
	return NewTable(
		Field{Name: "metric", Values: []any{"A", "B", "A"}},
		Field{Name: "x", Values: []any{1.0, 1.0, 2.0}},
		Field{Name: "y", Values: []any{10.0, 20.0, 5.0}},
	)
}

func TestPivotByMetric(t *testing.T) {
	res, err := Pivot(metricTable(), Line, Options{})
	require.NoError(t, err)
	require.Equal(t, []Series{
		{Name: "A", X: []any{1.0, 2.0}, Y: []float64{10, 5}},
		{Name: "B", X: []any{1.0, 2.0}, Y: []float64{20, 0}},
	}, res.Series)
	require.Nil(t, res.Grid)
	require.Equal(t, "x", res.XName)
	require.Equal(t, "y", res.YName)
}

func TestPivotWithoutMetric(t *testing.T) {
	tab := NewTable(
		Field{Name: "time", Values: []any{"b", "a", "b"}},
		Field{Name: "value", DisplayName: "Latency", Values: []any{3, "4.5", nil}},
	)
	res, err := Pivot(tab, Scatter, Options{})
	require.NoError(t, err)
	require.Len(t, res.Series, 1)
	require.Equal(t, Series{
		Name: "Latency",
		X:    []any{"b", "a", "b"},
		Y:    []float64{3, 4.5, 0},
	}, res.Series[0])
}

func TestPivotLastRowWins(t *testing.T) {
	tab := NewTable(
		Field{Name: "metrics", Values: []any{"A", "A", "A"}},
		Field{Name: "x", Values: []any{"mon", "tue", "mon"}},
		Field{Name: "y", Values: []any{1, 2, 7}},
	)
	res, err := Pivot(tab, Bar, Options{})
	require.NoError(t, err)
	require.Equal(t, []float64{7, 2}, res.Series[0].Y)
}

func TestPivotSharedX(t *testing.T) {
	tab := NewTable(
		Field{Name: "metric", Values: []any{"c", "a", "b", "a", "c"}},
		Field{Name: "x", Values: []any{3, 1, 2, 3, 9}},
		Field{Name: "y", Values: []any{1, 1, 1, 1, 1}},
	)
	res, err := Pivot(tab, Line, Options{})
	require.NoError(t, err)
	require.Len(t, res.Series, 3)
	names := []string{}
	for _, s := range res.Series {
		names = append(names, s.Name)
		require.Equal(t, []any{3, 1, 2, 9}, s.X)
		require.Len(t, s.Y, len(s.X))
	}
	require.Equal(t, []string{"c", "a", "b"}, names)
	require.Equal(t, []float64{1, 0, 0, 1}, res.Series[0].Y)
}

func TestPivotPercentage(t *testing.T) {
	tab := NewTable(
		Field{Name: "metric", Values: []any{"A", "B", "A", "B", "A"}},
		Field{Name: "x", Values: []any{1, 1, 2, 2, 3}},
		Field{Name: "y", Values: []any{1, 3, 0, 0, 5}},
	)
	res, err := Pivot(tab, Bar, Options{Percentage: true})
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{25, 0, 100}, res.Series[0].Y, 1e-9)
	require.InDeltaSlice(t, []float64{75, 0, 0}, res.Series[1].Y, 1e-9)

	for _, xid := range []int{0, 2} {
		var sum float64
		for _, s := range res.Series {
			sum += s.Y[xid]
		}
		require.InDelta(t, 100, sum, 1e-9)
	}
}

func TestPivotHeatmap(t *testing.T) {
	res, err := Pivot(metricTable(), Heatmap, Options{})
	require.NoError(t, err)
	require.Empty(t, res.Series)
	require.Equal(t, &Grid{
		X: []any{1.0, 1.0, 2.0},
		Y: []any{10.0, 20.0, 5.0},
		Z: []any{"A", "B", "A"},
	}, res.Grid)
}

func TestPivotHeatmapWithoutMetric(t *testing.T) {
	tab := NewTable(
		Field{Name: "x", Values: []any{1, 2}},
		Field{Name: "y", Values: []any{3, 4}},
	)
	res, err := Pivot(tab, Heatmap, Options{})
	require.NoError(t, err)
	require.Nil(t, res.Grid)
	require.Len(t, res.Series, 1)
}

func TestPivotErrors(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, err := Pivot(NewTable(), Line, Options{})
		require.ErrorIs(t, err, ErrEmptyResult)

		_, err = Pivot(NewTable(Field{Name: "x"}, Field{Name: "y"}), Line, Options{})
		require.ErrorIs(t, err, ErrEmptyResult)
	})
	t.Run("insufficient", func(t *testing.T) {
		tab := NewTable(
			Field{Name: "metric", Values: []any{"A"}},
			Field{Name: "x", Values: []any{1}},
		)
		_, err := Pivot(tab, Bar, Options{})
		require.ErrorIs(t, err, ErrInsufficientColumns)
	})
	t.Run("non numeric", func(t *testing.T) {
		tab := NewTable(
			Field{Name: "x", Values: []any{1, 2}},
			Field{Name: "y", Values: []any{1, "high"}},
		)
		_, err := Pivot(tab, Line, Options{})
		require.ErrorIs(t, err, ErrNonNumeric)
		var fe *FieldError
		require.True(t, errors.As(err, &fe))
		require.Equal(t, "y", fe.Field)
		require.Equal(t, 1, fe.Row)
	})
	t.Run("unknown kind", func(t *testing.T) {
		_, err := Pivot(metricTable(), Kind("pie"), Options{})
		require.ErrorIs(t, err, ErrUnknownKind)
	})
}

func TestPivotNotDone(t *testing.T) {
	tab := &Table{State: Loading}
	res, err := Pivot(tab, Line, Options{})
	require.NoError(t, err)
	require.True(t, res.Empty())
}

func TestPivotIdempotent(t *testing.T) {
	tab := metricTable()
	a, err := Pivot(tab, Bar, Options{Percentage: true})
	require.NoError(t, err)
	b, err := Pivot(tab, Bar, Options{Percentage: true})
	require.NoError(t, err)
	require.Equal(t, a, b)
	require.Equal(t, metricTable(), tab)
}

func TestPivotNaNX(t *testing.T) {
	tab := NewTable(
		Field{Name: "metric", Values: []any{"A", "A"}},
		Field{Name: "x", Values: []any{math.NaN(), 1.0}},
		Field{Name: "y", Values: []any{4, 5}},
	)
	res, err := Pivot(tab, Line, Options{})
	require.NoError(t, err)
	require.Equal(t, []any{"NaN", 1.0}, res.Series[0].X)
	require.Equal(t, []float64{4, 5}, res.Series[0].Y)
	_, err = json.Marshal(res)
	require.NoError(t, err)
}

func TestPivotNonFiniteY(t *testing.T) {
	for _, v := range []any{"NaN", "Inf", "-Infinity", math.Inf(1), math.NaN(), float32(math.Inf(-1))} {
		tab := NewTable(
			Field{Name: "x", Values: []any{1, 2}},
			Field{Name: "y", Values: []any{v, 3}},
		)
		_, err := Pivot(tab, Line, Options{})
		require.ErrorIs(t, err, ErrNonNumeric, "%v", v)

		var fe *FieldError
		require.True(t, errors.As(err, &fe))
		require.Equal(t, 0, fe.Row)
	}
}

func TestPivotUnhashableValues(t *testing.T) {
	tab := NewTable(
		Field{Name: "metric", Values: []any{[]byte("A"), []byte("B"), []byte("A")}},
		Field{Name: "x", Values: []any{[]int{1}, map[string]int{"d": 2}, []int{1}}},
		Field{Name: "y", Values: []any{1, 2, 3}},
	)
	res, err := Pivot(tab, Line, Options{})
	require.NoError(t, err)
	require.Len(t, res.Series, 2)
	require.Equal(t, "A", res.Series[0].Name)
	require.Equal(t, []any{"[1]", "map[d:2]"}, res.Series[0].X)
	require.Equal(t, []float64{3, 0}, res.Series[0].Y)
	require.Equal(t, []float64{0, 2}, res.Series[1].Y)
	require.Equal(t, []byte("A"), tab.Fields[0].Values[0])

	res, err = Pivot(tab, Heatmap, Options{})
	require.NoError(t, err)
	require.Equal(t, []any{"A", "B", "A"}, res.Grid.Z)
}

func TestPivotRaggedFields(t *testing.T) {
	t.Run("single series", func(t *testing.T) {
		tab := NewTable(
			Field{Name: "x", Values: []any{1, 2, 3}},
			Field{Name: "y", Values: []any{4, 5}},
		)
		res, err := Pivot(tab, Line, Options{})
		require.NoError(t, err)
		require.Equal(t, []any{1, 2}, res.Series[0].X)
		require.Equal(t, []float64{4, 5}, res.Series[0].Y)
	})
	t.Run("by metric", func(t *testing.T) {
		tab := NewTable(
			Field{Name: "metric", Values: []any{"A", "A", "B"}},
			Field{Name: "x", Values: []any{1, 2, 3}},
			Field{Name: "y", Values: []any{4, 5}},
		)
		res, err := Pivot(tab, Line, Options{})
		require.NoError(t, err)
		require.Len(t, res.Series, 1)
		require.Equal(t, []any{1, 2}, res.Series[0].X)
	})
	t.Run("heatmap", func(t *testing.T) {
		tab := NewTable(
			Field{Name: "metric", Values: []any{"A", "B"}},
			Field{Name: "x", Values: []any{1, 2, 3}},
			Field{Name: "y", Values: []any{4, 5, 6}},
		)
		res, err := Pivot(tab, Heatmap, Options{})
		require.NoError(t, err)
		require.Len(t, res.Grid.X, 2)
		require.Len(t, res.Grid.Y, 2)
		require.Len(t, res.Grid.Z, 2)
	})
}

func TestTableJSON(t *testing.T) {
	var tab Table
	err := json.Unmarshal([]byte(`{"fields":[{"name":"metric","values":["A"]},{"name":"x","displayName":"Day","values":[1]}]}`), &tab)
	require.NoError(t, err)
	require.Equal(t, Done, tab.State)
	require.Equal(t, "Day", tab.Fields[1].Label())
	require.Equal(t, []any{1.0}, tab.Fields[1].Values)

	err = json.Unmarshal([]byte(`{"state":"loading","fields":[]}`), &tab)
	require.NoError(t, err)
	require.Equal(t, Loading, tab.State)

	b, err := json.Marshal(NewTable())
	require.NoError(t, err)
	require.JSONEq(t, `{"state":"Done","fields":null}`, string(b))
}
