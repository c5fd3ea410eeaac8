package pow5

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"

	"github.com/vocdoni/poseidon-pow5/circuit"
)

// StateWord is one word of the permutation state, bound to an assigned cell.
type StateWord struct {
	cell circuit.AssignedCell
}

// NewStateWord binds a word to an existing assigned cell.
func NewStateWord(cell circuit.AssignedCell) StateWord { return StateWord{cell: cell} }

// Cell returns the word's position in the layout.
func (w StateWord) Cell() circuit.Cell { return w.cell.Cell }

// Value returns the word's witnessed value.
func (w StateWord) Value() circuit.Value { return w.cell.Value }

// State is one row's permutation state: exactly width words. It is never
// mutated; every round step returns a new State bound to the next row.
type State []StateWord

// Permute runs the full permutation on initial inside a fresh region and
// returns the state bound to the final row. Round indices are consumed in
// order: half the full rounds, the partial rounds, the remaining full rounds,
// with the constant-free first layer before any of them.
func (c *Chip) Permute(ly circuit.Layouter, initial State) (State, error) {
	cfg := c.cfg
	if len(initial) != cfg.width {
		return nil, fmt.Errorf("pow5: initial state has %d words, want %d", len(initial), cfg.width)
	}
	var final State
	err := ly.AssignRegion("permute state", func(region circuit.Region) error {
		state, err := c.load(region, initial)
		if err != nil {
			return err
		}
		if state, err = c.firstLayer(region, state); err != nil {
			return err
		}
		round := 0
		for r := 0; r < cfg.halfFullRounds; r++ {
			if state, err = c.fullRound(region, state, round, round+1); err != nil {
				return err
			}
			round++
		}
		for r := 0; r < cfg.partialRounds; r++ {
			if state, err = c.partialRound(region, state, round, round+1); err != nil {
				return err
			}
			round++
		}
		for r := 0; r < cfg.halfFullRounds; r++ {
			if state, err = c.fullRound(region, state, round, round+1); err != nil {
				return err
			}
			round++
		}
		final = state
		return nil
	})
	if err != nil {
		return nil, err
	}
	return final, nil
}

// load copies the input cells into row 0 of the region. Pure wiring: no value
// is recomputed, only copy constraints are recorded.
func (c *Chip) load(region circuit.Region, initial State) (State, error) {
	state := make(State, c.cfg.width)
	for i, word := range initial {
		cell, err := region.CopyAdvice(fmt.Sprintf("load state_%d", i), word.cell, c.cfg.state[i], 0)
		if err != nil {
			return nil, err
		}
		state[i] = StateWord{cell: cell}
	}
	return state, nil
}

// firstLayer applies the pre-round external mix at row 0 and assigns row 1.
// It has no round index and consumes no round constants.
func (c *Chip) firstLayer(region circuit.Region, state State) (State, error) {
	cfg := c.cfg
	if err := region.EnableSelector(cfg.sFirst, 0); err != nil {
		return nil, err
	}
	return c.assignRow(region, mixValues(stateValues(state), cfg.matExternal), 1)
}

func (c *Chip) fullRound(region circuit.Region, state State, round, offset int) (State, error) {
	cfg := c.cfg
	if err := region.EnableSelector(cfg.sFull, offset); err != nil {
		return nil, err
	}
	if err := c.loadRoundConstants(region, round, offset); err != nil {
		return nil, err
	}
	sboxed := make([]circuit.Value, cfg.width)
	for j := 0; j < cfg.width; j++ {
		sboxed[j] = pow5Value(state[j].Value().Add(circuit.Known(cfg.roundConstants[round][j])))
	}
	return c.assignRow(region, mixValues(sboxed, cfg.matExternal), offset+1)
}

func (c *Chip) partialRound(region circuit.Region, state State, round, offset int) (State, error) {
	cfg := c.cfg
	if err := region.EnableSelector(cfg.sPartial, offset); err != nil {
		return nil, err
	}
	if err := c.loadRoundConstants(region, round, offset); err != nil {
		return nil, err
	}
	mid := pow5Value(state[0].Value().Add(circuit.Known(cfg.roundConstants[round][0])))
	if _, err := region.AssignAdvice(fmt.Sprintf("round_%d partial_sbox", round), cfg.partialSBox, offset, mid); err != nil {
		return nil, err
	}
	vals := make([]circuit.Value, cfg.width)
	vals[0] = mid
	for j := 1; j < cfg.width; j++ {
		vals[j] = state[j].Value()
	}
	return c.assignRow(region, mixValues(vals, cfg.matInternal), offset+1)
}

func (c *Chip) loadRoundConstants(region circuit.Region, round, offset int) error {
	for i := 0; i < c.cfg.width; i++ {
		name := fmt.Sprintf("round_%d rc_%d", round, i)
		if _, err := region.AssignFixed(name, c.cfg.rc[i], offset, circuit.Known(c.cfg.roundConstants[round][i])); err != nil {
			return err
		}
	}
	return nil
}

func (c *Chip) assignRow(region circuit.Region, vals []circuit.Value, offset int) (State, error) {
	state := make(State, c.cfg.width)
	for i, v := range vals {
		cell, err := region.AssignAdvice(fmt.Sprintf("row_%d state_%d", offset, i), c.cfg.state[i], offset, v)
		if err != nil {
			return nil, err
		}
		state[i] = StateWord{cell: cell}
	}
	return state, nil
}

func stateValues(state State) []circuit.Value {
	vals := make([]circuit.Value, len(state))
	for i, w := range state {
		vals[i] = w.Value()
	}
	return vals
}

// mixValues multiplies the state vector by a mixing matrix, propagating
// unknown values.
func mixValues(vals []circuit.Value, m [][]fr.Element) []circuit.Value {
	out := make([]circuit.Value, len(m))
	for i := range m {
		acc := circuit.Known(fr.Element{})
		for j := range vals {
			acc = acc.Add(vals[j].Mul(circuit.Known(m[i][j])))
		}
		out[i] = acc
	}
	return out
}

// pow5Value mirrors pow5Expr on witness values.
func pow5Value(v circuit.Value) circuit.Value {
	v2 := v.Mul(v)
	return v2.Mul(v2).Mul(v)
}
