package canon

import (
	"math"

	"nastrandiff/internal/field"
)

// Delta is one differing field between two matched cards: the 0-based
// field position and both spellings.
type Delta struct {
	Position int
	A        string
	B        string
}

// FieldsEqual reports whether two canonical cards carry the same
// semantic field vector. Real values compare under the registry's
// relative tolerance; if either card degraded to exact comparison, both
// vectors must match text-for-text.
func FieldsEqual(a, b Card, tol float64) bool {
	if a.Exact || b.Exact {
		if len(a.Fields) != len(b.Fields) {
			return false
		}
		for i := range a.Fields {
			if a.Fields[i].Raw != b.Fields[i].Raw {
				return false
			}
		}
		return true
	}

	if len(a.Fields) != len(b.Fields) {
		return false
	}
	for i := range a.Fields {
		if !valueEqual(a.Fields[i], b.Fields[i], tol) {
			return false
		}
	}
	return true
}

// Deltas lists each position where the two vectors differ, with the
// original spelling on both sides. Positions past the shorter vector
// show a blank on the missing side.
func Deltas(a, b Card, tol float64) []Delta {
	exact := a.Exact || b.Exact
	n := len(a.Fields)
	if len(b.Fields) > n {
		n = len(b.Fields)
	}

	var out []Delta
	for i := 0; i < n; i++ {
		av, bv := valueAt(a, i), valueAt(b, i)
		eq := false
		if exact {
			eq = av.Raw == bv.Raw
		} else {
			eq = valueEqual(av, bv, tol)
		}
		if !eq {
			out = append(out, Delta{Position: i, A: display(av), B: display(bv)})
		}
	}
	return out
}

func valueAt(c Card, i int) field.Value {
	if i < len(c.Fields) {
		return c.Fields[i]
	}
	return field.Blank()
}

func display(v field.Value) string {
	if v.Raw != "" {
		return v.Raw
	}
	return v.String()
}

func valueEqual(a, b field.Value, tol float64) bool {
	if a.IsBlank() || b.IsBlank() {
		// Blank is not zero and not equal to anything but blank.
		return a.IsBlank() && b.IsBlank()
	}

	if a.Kind == field.KindInt && b.Kind == field.KindInt {
		return a.Int == b.Int
	}

	af, aNum := a.AsFloat()
	bf, bNum := b.AsFloat()
	if aNum && bNum {
		return relEqual(af, bf, tol)
	}
	if aNum != bNum {
		return false
	}

	return a.Text == b.Text
}

// relEqual compares reals under a relative tolerance, eliminating false
// differences from format-forced precision loss between 8- and
// 16-character encodings.
func relEqual(a, b, tol float64) bool {
	if a == b {
		return true
	}
	scale := math.Max(math.Abs(a), math.Abs(b))
	return math.Abs(a-b) <= tol*scale
}
