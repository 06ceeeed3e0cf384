package ast

// Equal reports whether a and b have the same structure and content.
// Source locations are ignored.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case Object:
		y, ok := b.(Object)
		return ok && PairsEqual(x, y)
	case Array:
		y, ok := b.(Array)
		return ok && valuesEqual(x, y)
	case Named:
		y, ok := b.(Named)
		return ok && x.Name == y.Name && valuesEqual(x.Values, y.Values)
	case String, Number, Identifier, Date:
		return a == b
	}
	return false
}

// PairsEqual compares two pair sequences element by element, ignoring locations.
func PairsEqual(a, b []Pair) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Identifier != b[i].Identifier || a[i].Sign != b[i].Sign {
			return false
		}
		if !Equal(a[i].Value, b[i].Value) {
			return false
		}
	}
	return true
}

func valuesEqual(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
