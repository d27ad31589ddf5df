package utils

// Unique returns the distinct elements of values in order of first
// occurrence.
func Unique[T comparable](values []T) []T {
	seen := make(map[T]struct{}, len(values))
	out := make([]T, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Positions maps each distinct element to its index in a deduplicated slice.
type Positions[T comparable] map[T]int

// PositionsOf indexes values, keeping the first index of each element.
func PositionsOf[T comparable](values []T) Positions[T] {
	p := make(Positions[T], len(values))
	for i, v := range values {
		if _, ok := p[v]; !ok {
			p[v] = i
		}
	}
	return p
}

// Lookup returns the index of v and whether v was present.
func (p Positions[T]) Lookup(v T) (int, bool) {
	i, ok := p[v]
	return i, ok
}
