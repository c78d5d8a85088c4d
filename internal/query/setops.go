package query

// Set algebra over ascending, duplicate-free doc-id sequences. Every
// operation preserves that invariant and never mutates its inputs.

// Intersect returns the elements present in both a and b.
func Intersect(a, b []uint32) []uint32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	out := make([]uint32, 0, n)
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch x, y := a[i], b[j]; {
		case x == y:
			out = append(out, x)
			i++
			j++
		case x < y:
			i++
		default:
			j++
		}
	}
	return out
}

// Union returns the elements present in a or b.
func Union(a, b []uint32) []uint32 {
	out := make([]uint32, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch x, y := a[i], b[j]; {
		case x == y:
			out = append(out, x)
			i++
			j++
		case x < y:
			out = append(out, x)
			i++
		default:
			out = append(out, y)
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// Complement returns the universe elements absent from a.
func Complement(universe, a []uint32) []uint32 {
	capHint := 0
	if len(universe) > len(a) {
		capHint = len(universe) - len(a)
	}
	out := make([]uint32, 0, capHint)
	i, j := 0, 0
	for i < len(universe) && j < len(a) {
		switch x, y := universe[i], a[j]; {
		case x == y:
			i++
			j++
		case x < y:
			out = append(out, x)
			i++
		default:
			j++
		}
	}
	out = append(out, universe[i:]...)
	return out
}
