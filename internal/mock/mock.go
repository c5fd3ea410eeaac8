// Package mock is an in-memory constraint-system engine for tests. It records
// the layout built through the circuit interfaces and replays every registered
// gate and equality constraint against the assigned values, the way a real
// engine would check a witness.
package mock

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"

	"github.com/vocdoni/poseidon-pow5/circuit"
)

type gate struct {
	name  string
	sel   circuit.Selector
	polys []circuit.Expression
}

type cellKey struct {
	advice bool
	col    int
	row    int
}

type constantCheck struct {
	cell  circuit.Cell
	value fr.Element
}

// System implements circuit.ConstraintSystem and circuit.Layouter over an
// in-memory table. Regions are laid out sequentially, each starting on the
// row after the previous region's last.
type System struct {
	nAdvice    int
	nFixed     int
	nSelectors int

	gates     []gate
	equality  map[circuit.Column]bool
	advice    map[cellKey]circuit.Value
	fixed     map[cellKey]circuit.Value
	enabled   map[int]map[int]bool
	copies    [][2]circuit.Cell
	constants []constantCheck

	nextRow int
}

// NewSystem returns an empty engine.
func NewSystem() *System {
	return &System{
		equality: make(map[circuit.Column]bool),
		advice:   make(map[cellKey]circuit.Value),
		fixed:    make(map[cellKey]circuit.Value),
		enabled:  make(map[int]map[int]bool),
	}
}

func (s *System) AdviceColumn() circuit.AdviceColumn {
	s.nAdvice++
	return circuit.AdviceColumn{Index: s.nAdvice - 1}
}

func (s *System) FixedColumn() circuit.FixedColumn {
	s.nFixed++
	return circuit.FixedColumn{Index: s.nFixed - 1}
}

func (s *System) Selector() circuit.Selector {
	s.nSelectors++
	return circuit.Selector{Index: s.nSelectors - 1}
}

func (s *System) EnableEquality(col circuit.Column) {
	s.equality[col] = true
}

func (s *System) CreateGate(name string, sel circuit.Selector, polys []circuit.Expression) {
	s.gates = append(s.gates, gate{name: name, sel: sel, polys: polys})
}

// AssignRegion runs fn on a fresh region placed after all previous regions.
func (s *System) AssignRegion(name string, fn func(circuit.Region) error) error {
	r := &region{sys: s, start: s.nextRow, used: make(map[cellKey]bool)}
	if err := fn(r); err != nil {
		return err
	}
	s.nextRow = r.start + r.rows
	return nil
}

type region struct {
	sys   *System
	start int
	rows  int
	used  map[cellKey]bool
}

func (r *region) grow(offset int) {
	if offset+1 > r.rows {
		r.rows = offset + 1
	}
}

func (r *region) EnableSelector(sel circuit.Selector, offset int) error {
	r.grow(offset)
	rows := r.sys.enabled[sel.Index]
	if rows == nil {
		rows = make(map[int]bool)
		r.sys.enabled[sel.Index] = rows
	}
	rows[r.start+offset] = true
	return nil
}

func (r *region) AssignAdvice(name string, col circuit.AdviceColumn, offset int, v circuit.Value) (circuit.AssignedCell, error) {
	key := cellKey{advice: true, col: col.Index, row: r.start + offset}
	if r.used[key] {
		return circuit.AssignedCell{}, fmt.Errorf("mock: advice column %d offset %d assigned twice in region %q", col.Index, offset, name)
	}
	r.used[key] = true
	r.grow(offset)
	r.sys.advice[key] = v
	return circuit.AssignedCell{Cell: circuit.Cell{Column: col, Row: key.row}, Value: v}, nil
}

func (r *region) AssignFixed(name string, col circuit.FixedColumn, offset int, v circuit.Value) (circuit.AssignedCell, error) {
	key := cellKey{col: col.Index, row: r.start + offset}
	if r.used[key] {
		return circuit.AssignedCell{}, fmt.Errorf("mock: fixed column %d offset %d assigned twice in region %q", col.Index, offset, name)
	}
	r.used[key] = true
	r.grow(offset)
	r.sys.fixed[key] = v
	return circuit.AssignedCell{Cell: circuit.Cell{Column: col, Row: key.row}, Value: v}, nil
}

func (r *region) AssignAdviceFromConstant(name string, col circuit.AdviceColumn, offset int, c fr.Element) (circuit.AssignedCell, error) {
	cell, err := r.AssignAdvice(name, col, offset, circuit.Known(c))
	if err != nil {
		return circuit.AssignedCell{}, err
	}
	r.sys.constants = append(r.sys.constants, constantCheck{cell: cell.Cell, value: c})
	return cell, nil
}

func (r *region) CopyAdvice(name string, from circuit.AssignedCell, col circuit.AdviceColumn, offset int) (circuit.AssignedCell, error) {
	cell, err := r.AssignAdvice(name, col, offset, from.Value)
	if err != nil {
		return circuit.AssignedCell{}, err
	}
	if err := r.ConstrainEqual(from.Cell, cell.Cell); err != nil {
		return circuit.AssignedCell{}, err
	}
	return cell, nil
}

func (r *region) ConstrainEqual(a, b circuit.Cell) error {
	for _, c := range [2]circuit.Cell{a, b} {
		if !r.sys.equality[c.Column] {
			return fmt.Errorf("mock: equality not enabled on column %v", c.Column)
		}
	}
	r.sys.copies = append(r.sys.copies, [2]circuit.Cell{a, b})
	return nil
}

// adviceAt reads an advice cell; unassigned cells read as zero, as a real
// prover's padded table would.
func (s *System) adviceAt(col circuit.AdviceColumn, row int) circuit.Value {
	if v, ok := s.advice[cellKey{advice: true, col: col.Index, row: row}]; ok {
		return v
	}
	return circuit.Known(fr.Element{})
}

func (s *System) fixedAt(col circuit.FixedColumn, row int) circuit.Value {
	if v, ok := s.fixed[cellKey{col: col.Index, row: row}]; ok {
		return v
	}
	return circuit.Known(fr.Element{})
}

func (s *System) cellValue(c circuit.Cell) circuit.Value {
	switch col := c.Column.(type) {
	case circuit.AdviceColumn:
		return s.adviceAt(col, c.Row)
	case circuit.FixedColumn:
		return s.fixedAt(col, c.Row)
	default:
		return circuit.Unknown()
	}
}

// Verify replays every gate on every row its selector is enabled at, then
// checks all copy and constant constraints. Unknown values satisfy any
// constraint, so shape-only synthesis always verifies.
func (s *System) Verify() error {
	for _, g := range s.gates {
		for row := range s.enabled[g.sel.Index] {
			for i, poly := range g.polys {
				v := poly.Evaluate(
					func(col circuit.AdviceColumn, rot circuit.Rotation) circuit.Value {
						return s.adviceAt(col, row+int(rot))
					},
					func(col circuit.FixedColumn, rot circuit.Rotation) circuit.Value {
						return s.fixedAt(col, row+int(rot))
					},
				)
				if e, ok := v.Get(); ok && !e.IsZero() {
					return fmt.Errorf("mock: gate %q constraint %d not satisfied at row %d", g.name, i, row)
				}
			}
		}
	}
	for _, pair := range s.copies {
		a, aok := s.cellValue(pair[0]).Get()
		b, bok := s.cellValue(pair[1]).Get()
		if aok && bok && !a.Equal(&b) {
			return fmt.Errorf("mock: copy constraint violated between %v and %v", pair[0], pair[1])
		}
	}
	for _, c := range s.constants {
		if v, ok := s.cellValue(c.cell).Get(); ok && !v.Equal(&c.value) {
			return fmt.Errorf("mock: cell %v does not match its fixed constant", c.cell)
		}
	}
	return nil
}

// OverrideAdvice replaces an assigned advice value, bypassing region
// bookkeeping. Tests use it to check that tampered witnesses fail Verify.
func (s *System) OverrideAdvice(col circuit.AdviceColumn, row int, v fr.Element) {
	s.advice[cellKey{advice: true, col: col.Index, row: row}] = circuit.Known(v)
}

// SelectorEnabled reports whether sel is active at row.
func (s *System) SelectorEnabled(sel circuit.Selector, row int) bool {
	return s.enabled[sel.Index][row]
}

// Rows returns the number of rows consumed so far.
func (s *System) Rows() int { return s.nextRow }
