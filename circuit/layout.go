package circuit

import "github.com/consensys/gnark-crypto/ecc/bls12-377/fr"

// AdviceColumn identifies a witness column allocated by the engine.
type AdviceColumn struct {
	Index int
}

// FixedColumn identifies a constant column allocated by the engine.
type FixedColumn struct {
	Index int
}

// Column is either an AdviceColumn or a FixedColumn.
type Column interface {
	isColumn()
}

func (AdviceColumn) isColumn() {}
func (FixedColumn) isColumn()  {}

// Selector gates one family of polynomial constraints on the rows where it
// is enabled.
type Selector struct {
	Index int
}

// Rotation addresses a row relative to the one a gate is evaluated at.
type Rotation int

const (
	RotPrev Rotation = -1
	RotCur  Rotation = 0
	RotNext Rotation = 1
)

// Cell is an absolute (column, row) position in the layout.
type Cell struct {
	Column Column
	Row    int
}

// AssignedCell couples a Cell with the value assigned to it.
type AssignedCell struct {
	Cell  Cell
	Value Value
}

// ConstraintSystem is the configuration-time surface of the engine.
type ConstraintSystem interface {
	AdviceColumn() AdviceColumn
	FixedColumn() FixedColumn
	Selector() Selector
	// EnableEquality allows cells of col to participate in copy constraints.
	EnableEquality(col Column)
	// CreateGate registers polynomial identities enforced on every row where
	// sel is enabled.
	CreateGate(name string, sel Selector, polys []Expression)
}

// Region is an exclusively owned block of rows. Offsets are region-relative;
// the engine guarantees no two assignments collide on one (column, offset).
type Region interface {
	EnableSelector(sel Selector, offset int) error
	AssignAdvice(name string, col AdviceColumn, offset int, v Value) (AssignedCell, error)
	AssignFixed(name string, col FixedColumn, offset int, v Value) (AssignedCell, error)
	// AssignAdviceFromConstant assigns a known constant and constrains the
	// cell to always hold it.
	AssignAdviceFromConstant(name string, col AdviceColumn, offset int, c fr.Element) (AssignedCell, error)
	// CopyAdvice assigns from's value at (col, offset) and records an
	// equality constraint between the two cells.
	CopyAdvice(name string, from AssignedCell, col AdviceColumn, offset int) (AssignedCell, error)
	// ConstrainEqual records an equality constraint between two existing
	// cells; both columns must be equality-enabled.
	ConstrainEqual(a, b Cell) error
}

// Layouter hands out regions. fn runs exactly once and the region is released
// on every return path.
type Layouter interface {
	AssignRegion(name string, fn func(Region) error) error
}
