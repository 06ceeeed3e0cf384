package ast

import "errors"

// SkipChildren can be returned by a WalkFunc to skip the nested pairs of the
// current pair. It is never returned by Walk.
var SkipChildren = errors.New("skip children")

// WalkFunc is called for every pair reachable from the walked sequence.
// path holds the identifiers of the enclosing pairs, outermost first.
type WalkFunc func(path []string, pair Pair) error

// Walk traverses pairs depth-first in file order. Pairs nested inside objects,
// arrays of objects and named values are visited. It returns the first error
// returned by fn other than SkipChildren.
func Walk(pairs []Pair, fn WalkFunc) error {
	return walkPairs(nil, pairs, fn)
}

func walkPairs(path []string, pairs []Pair, fn WalkFunc) error {
	for _, p := range pairs {
		err := fn(path, p)
		if errors.Is(err, SkipChildren) {
			continue
		}
		if err != nil {
			return err
		}
		if err := walkValue(append(path[:len(path):len(path)], p.Identifier), p.Value, fn); err != nil {
			return err
		}
	}
	return nil
}

func walkValue(path []string, v Value, fn WalkFunc) error {
	switch t := v.(type) {
	case Object:
		return walkPairs(path, t, fn)
	case Array:
		for _, item := range t {
			if err := walkValue(path, item, fn); err != nil {
				return err
			}
		}
	case Named:
		for _, item := range t.Values {
			if err := walkValue(path, item, fn); err != nil {
				return err
			}
		}
	}
	return nil
}
