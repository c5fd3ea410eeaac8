package circuit

import "github.com/consensys/gnark-crypto/ecc/bls12-377/fr"

// Expression is a polynomial over column queries, constants and field
// arithmetic, built at configuration time and evaluated row by row.
type Expression interface {
	// Evaluate folds the expression at one row, reading cells through the
	// supplied lookups.
	Evaluate(advice func(AdviceColumn, Rotation) Value, fixed func(FixedColumn, Rotation) Value) Value
}

type constExpr struct {
	c fr.Element
}

type adviceQuery struct {
	col AdviceColumn
	rot Rotation
}

type fixedQuery struct {
	col FixedColumn
	rot Rotation
}

type sumExpr struct {
	a, b Expression
}

type prodExpr struct {
	a, b Expression
}

type scaledExpr struct {
	a Expression
	c fr.Element
}

type negExpr struct {
	a Expression
}

// Constant lifts a field element into an expression.
func Constant(c fr.Element) Expression { return constExpr{c: c} }

// Advice queries an advice column at the given rotation.
func Advice(col AdviceColumn, at Rotation) Expression { return adviceQuery{col: col, rot: at} }

// Fixed queries a fixed column at the given rotation.
func Fixed(col FixedColumn, at Rotation) Expression { return fixedQuery{col: col, rot: at} }

// Sum adds the terms; an empty sum is the zero constant.
func Sum(terms ...Expression) Expression {
	if len(terms) == 0 {
		return constExpr{}
	}
	acc := terms[0]
	for _, t := range terms[1:] {
		acc = sumExpr{a: acc, b: t}
	}
	return acc
}

// Mul multiplies two expressions.
func Mul(a, b Expression) Expression { return prodExpr{a: a, b: b} }

// Sub subtracts b from a.
func Sub(a, b Expression) Expression { return sumExpr{a: a, b: negExpr{a: b}} }

// Scale multiplies an expression by a constant coefficient.
func Scale(a Expression, c fr.Element) Expression { return scaledExpr{a: a, c: c} }

func (e constExpr) Evaluate(func(AdviceColumn, Rotation) Value, func(FixedColumn, Rotation) Value) Value {
	return Known(e.c)
}

func (e adviceQuery) Evaluate(advice func(AdviceColumn, Rotation) Value, _ func(FixedColumn, Rotation) Value) Value {
	return advice(e.col, e.rot)
}

func (e fixedQuery) Evaluate(_ func(AdviceColumn, Rotation) Value, fixed func(FixedColumn, Rotation) Value) Value {
	return fixed(e.col, e.rot)
}

func (e sumExpr) Evaluate(advice func(AdviceColumn, Rotation) Value, fixed func(FixedColumn, Rotation) Value) Value {
	return e.a.Evaluate(advice, fixed).Add(e.b.Evaluate(advice, fixed))
}

func (e prodExpr) Evaluate(advice func(AdviceColumn, Rotation) Value, fixed func(FixedColumn, Rotation) Value) Value {
	return e.a.Evaluate(advice, fixed).Mul(e.b.Evaluate(advice, fixed))
}

func (e scaledExpr) Evaluate(advice func(AdviceColumn, Rotation) Value, fixed func(FixedColumn, Rotation) Value) Value {
	return e.a.Evaluate(advice, fixed).Mul(Known(e.c))
}

func (e negExpr) Evaluate(advice func(AdviceColumn, Rotation) Value, fixed func(FixedColumn, Rotation) Value) Value {
	return e.a.Evaluate(advice, fixed).Neg()
}
