package mock

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/stretchr/testify/require"

	"github.com/vocdoni/poseidon-pow5/circuit"
)

func elem(v uint64) fr.Element {
	var e fr.Element
	e.SetUint64(v)
	return e
}

func TestRegionCollision(t *testing.T) {
	sys := NewSystem()
	col := sys.AdviceColumn()
	err := sys.AssignRegion("collide", func(r circuit.Region) error {
		if _, err := r.AssignAdvice("a", col, 0, circuit.Known(elem(1))); err != nil {
			return err
		}
		_, err := r.AssignAdvice("b", col, 0, circuit.Known(elem(2)))
		return err
	})
	require.Error(t, err)
}

func TestRegionsAreSequential(t *testing.T) {
	sys := NewSystem()
	col := sys.AdviceColumn()
	require.NoError(t, sys.AssignRegion("first", func(r circuit.Region) error {
		_, err := r.AssignAdvice("a", col, 2, circuit.Known(elem(1)))
		return err
	}))
	require.Equal(t, 3, sys.Rows())

	var cell circuit.AssignedCell
	require.NoError(t, sys.AssignRegion("second", func(r circuit.Region) error {
		var err error
		cell, err = r.AssignAdvice("b", col, 0, circuit.Known(elem(2)))
		return err
	}))
	require.Equal(t, 3, cell.Cell.Row, "second region starts after the first")
	require.Equal(t, 4, sys.Rows())
}

func TestEqualityRequiresEnabledColumns(t *testing.T) {
	sys := NewSystem()
	col := sys.AdviceColumn()
	err := sys.AssignRegion("copy", func(r circuit.Region) error {
		a, err := r.AssignAdvice("a", col, 0, circuit.Known(elem(1)))
		if err != nil {
			return err
		}
		_, err = r.CopyAdvice("b", a, col, 1)
		return err
	})
	require.Error(t, err, "equality must be enabled before copying")

	sys.EnableEquality(col)
	err = sys.AssignRegion("copy again", func(r circuit.Region) error {
		a, err := r.AssignAdvice("a", col, 0, circuit.Known(elem(1)))
		if err != nil {
			return err
		}
		_, err = r.CopyAdvice("b", a, col, 1)
		return err
	})
	require.NoError(t, err)
	require.NoError(t, sys.Verify())
}

func TestVerifyGate(t *testing.T) {
	sys := NewSystem()
	col := sys.AdviceColumn()
	rc := sys.FixedColumn()
	sel := sys.Selector()
	// next = cur + rc
	sys.CreateGate("add constant", sel, []circuit.Expression{
		circuit.Sub(
			circuit.Sum(circuit.Advice(col, circuit.RotCur), circuit.Fixed(rc, circuit.RotCur)),
			circuit.Advice(col, circuit.RotNext),
		),
	})

	assign := func(next uint64) *System {
		s := NewSystem()
		s.gates = sys.gates
		require.NoError(t, s.AssignRegion("rows", func(r circuit.Region) error {
			if err := r.EnableSelector(sel, 0); err != nil {
				return err
			}
			if _, err := r.AssignAdvice("cur", col, 0, circuit.Known(elem(3))); err != nil {
				return err
			}
			if _, err := r.AssignFixed("rc", rc, 0, circuit.Known(elem(4))); err != nil {
				return err
			}
			_, err := r.AssignAdvice("next", col, 1, circuit.Known(elem(next)))
			return err
		}))
		return s
	}

	require.NoError(t, assign(7).Verify())
	require.Error(t, assign(8).Verify())
}

func TestVerifySkipsUnknown(t *testing.T) {
	sys := NewSystem()
	col := sys.AdviceColumn()
	sel := sys.Selector()
	sys.CreateGate("must be zero", sel, []circuit.Expression{circuit.Advice(col, circuit.RotCur)})

	require.NoError(t, sys.AssignRegion("rows", func(r circuit.Region) error {
		if err := r.EnableSelector(sel, 0); err != nil {
			return err
		}
		_, err := r.AssignAdvice("cur", col, 0, circuit.Unknown())
		return err
	}))
	require.NoError(t, sys.Verify(), "unknown witnesses satisfy shape-only synthesis")
}

func TestConstantCells(t *testing.T) {
	sys := NewSystem()
	col := sys.AdviceColumn()
	require.NoError(t, sys.AssignRegion("const", func(r circuit.Region) error {
		_, err := r.AssignAdviceFromConstant("c", col, 0, elem(9))
		return err
	}))
	require.NoError(t, sys.Verify())

	sys.OverrideAdvice(col, 0, elem(10))
	require.Error(t, sys.Verify(), "constant cells must keep their fixed value")
}
