// Package circuit declares the narrow interface this module consumes from a
// PLONKish constraint-system engine: columns, selectors, gate polynomials and
// region-scoped cell assignment. The engine itself lives outside this module;
// internal/mock carries an in-memory implementation for tests.
package circuit

import "github.com/consensys/gnark-crypto/ecc/bls12-377/fr"

// Value is a field element that may be unknown. Unknown values stand in for
// witnesses during circuit-shape analysis; arithmetic on them yields unknown
// rather than failing.
type Value struct {
	v     fr.Element
	known bool
}

// Known wraps a concrete field element.
func Known(v fr.Element) Value { return Value{v: v, known: true} }

// Unknown returns the deferred value.
func Unknown() Value { return Value{} }

// IsKnown reports whether the value carries a concrete element.
func (a Value) IsKnown() bool { return a.known }

// Get returns the concrete element; ok is false for unknown values.
func (a Value) Get() (fr.Element, bool) { return a.v, a.known }

// Map applies f to a known value and passes unknown through.
func (a Value) Map(f func(fr.Element) fr.Element) Value {
	if !a.known {
		return Unknown()
	}
	return Known(f(a.v))
}

// Add returns a+b, unknown if either operand is unknown.
func (a Value) Add(b Value) Value {
	if !a.known || !b.known {
		return Unknown()
	}
	var out fr.Element
	out.Add(&a.v, &b.v)
	return Known(out)
}

// Mul returns a·b, unknown if either operand is unknown.
func (a Value) Mul(b Value) Value {
	if !a.known || !b.known {
		return Unknown()
	}
	var out fr.Element
	out.Mul(&a.v, &b.v)
	return Known(out)
}

// Neg returns -a.
func (a Value) Neg() Value {
	return a.Map(func(v fr.Element) fr.Element {
		var out fr.Element
		out.Neg(&v)
		return out
	})
}

// Equal reports whether both values are known and hold the same element.
func (a Value) Equal(b Value) bool {
	return a.known && b.known && a.v.Equal(&b.v)
}
