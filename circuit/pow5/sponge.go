package pow5

import (
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"

	poseidon "github.com/vocdoni/poseidon-pow5"
	"github.com/vocdoni/poseidon-pow5/circuit"
)

// ErrInvalidAbsorbState reports an absorbing slot that is neither a message
// word nor a padding constant.
var ErrInvalidAbsorbState = errors.New("pow5: absorbing slot is neither message nor padding")

// PaddedWord is one absorbing slot: either a message word witnessed elsewhere
// in the circuit or a padding constant fixed by the hashing domain.
type PaddedWord interface {
	isPaddedWord()
}

// Message is a witnessed word copy-constrained from an existing cell.
type Message struct {
	Word StateWord
}

// Padding is a constant fixed by the hashing domain.
type Padding struct {
	Value fr.Element
}

func (Message) isPaddedWord() {}
func (Padding) isPaddedWord() {}

// Absorbing is a block of exactly rate input slots.
type Absorbing []PaddedWord

// Squeezing is a block of exactly rate output words.
type Squeezing []StateWord

// InitialState assigns the sponge's starting state for a domain: zero in the
// rate words, the domain's capacity element in the last word. Every cell is a
// constant rather than a witness, so the region's shape is identical across
// instances of the same domain.
func (c *Chip) InitialState(ly circuit.Layouter, dom poseidon.Domain) (State, error) {
	cfg := c.cfg
	var state State
	err := ly.AssignRegion(fmt.Sprintf("initial state for domain %s", dom.Name()), func(region circuit.Region) error {
		state = make(State, cfg.width)
		for i := 0; i < cfg.rate; i++ {
			cell, err := region.AssignAdviceFromConstant(fmt.Sprintf("state_%d", i), cfg.state[i], 0, fr.Element{})
			if err != nil {
				return err
			}
			state[i] = StateWord{cell: cell}
		}
		cell, err := region.AssignAdviceFromConstant(fmt.Sprintf("state_%d", cfg.rate), cfg.state[cfg.rate], 0, dom.InitialCapacityElement())
		if err != nil {
			return err
		}
		state[cfg.rate] = StateWord{cell: cell}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

// AddInput absorbs one padded block under the pad-and-add gate: the incoming
// state is copied to row 0, the block occupies row 1 and the summed state
// lands on row 2. Padding constants are written to the fixed padding columns
// and the matching advice cells are copy-constrained to them, so the padding
// value is enforced by the constraint system rather than assumed by the
// witness generator.
func (c *Chip) AddInput(ly circuit.Layouter, initial State, input Absorbing) (State, error) {
	cfg := c.cfg
	if len(initial) != cfg.width {
		return nil, fmt.Errorf("pow5: initial state has %d words, want %d", len(initial), cfg.width)
	}
	if len(input) != cfg.rate {
		return nil, fmt.Errorf("pow5: absorbing block has %d slots, want %d", len(input), cfg.rate)
	}
	var out State
	err := ly.AssignRegion("add input", func(region circuit.Region) error {
		if err := region.EnableSelector(cfg.sPadAndAdd, 1); err != nil {
			return err
		}
		prev := make(State, cfg.width)
		for i, word := range initial {
			cell, err := region.CopyAdvice(fmt.Sprintf("load state_%d", i), word.cell, cfg.state[i], 0)
			if err != nil {
				return err
			}
			prev[i] = StateWord{cell: cell}
		}

		words := make([]circuit.Value, cfg.rate)
		for i := 0; i < cfg.rate; i++ {
			switch w := input[i].(type) {
			case Message:
				cell, err := region.AssignAdvice(fmt.Sprintf("load input_%d", i), cfg.state[i], 1, w.Word.Value())
				if err != nil {
					return err
				}
				if err := region.ConstrainEqual(w.Word.Cell(), cell.Cell); err != nil {
					return err
				}
				words[i] = cell.Value
			case Padding:
				fixed, err := region.AssignFixed(fmt.Sprintf("load pad_%d", i), cfg.padFixed[i], 1, circuit.Known(w.Value))
				if err != nil {
					return err
				}
				cell, err := region.AssignAdvice(fmt.Sprintf("load input_%d", i), cfg.state[i], 1, circuit.Known(w.Value))
				if err != nil {
					return err
				}
				if err := region.ConstrainEqual(fixed.Cell, cell.Cell); err != nil {
					return err
				}
				words[i] = cell.Value
			default:
				return fmt.Errorf("%w (slot %d)", ErrInvalidAbsorbState, i)
			}
		}

		out = make(State, cfg.width)
		for i := 0; i < cfg.rate; i++ {
			cell, err := region.AssignAdvice(fmt.Sprintf("output_%d", i), cfg.state[i], 2, prev[i].Value().Add(words[i]))
			if err != nil {
				return err
			}
			out[i] = StateWord{cell: cell}
		}
		// The capacity word is never altered by the input.
		cell, err := region.AssignAdvice(fmt.Sprintf("output_%d", cfg.rate), cfg.state[cfg.rate], 2, prev[cfg.rate].Value())
		if err != nil {
			return err
		}
		out[cfg.rate] = StateWord{cell: cell}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetOutput projects the rate words of state as a squeezed block. No new
// cells or constraints are created.
func (c *Chip) GetOutput(state State) Squeezing {
	out := make(Squeezing, c.cfg.rate)
	copy(out, state[:c.cfg.rate])
	return out
}

// Hash absorbs message under dom and returns the first squeezed word. The
// message is extended with the domain's padding constants and absorbed rate
// words at a time, one permutation per block, mirroring poseidon.Hash.
func (c *Chip) Hash(ly circuit.Layouter, dom poseidon.Domain, message []StateWord) (StateWord, error) {
	cfg := c.cfg
	pad := dom.Padding(cfg.rate, len(message))
	slots := make([]PaddedWord, 0, len(message)+len(pad))
	for _, w := range message {
		slots = append(slots, Message{Word: w})
	}
	for _, p := range pad {
		slots = append(slots, Padding{Value: p})
	}
	if len(slots) == 0 || len(slots)%cfg.rate != 0 {
		return StateWord{}, fmt.Errorf("pow5: domain %s pads %d words to %d, not a positive multiple of rate %d",
			dom.Name(), len(message), len(slots), cfg.rate)
	}

	state, err := c.InitialState(ly, dom)
	if err != nil {
		return StateWord{}, err
	}
	for off := 0; off < len(slots); off += cfg.rate {
		if state, err = c.AddInput(ly, state, Absorbing(slots[off:off+cfg.rate])); err != nil {
			return StateWord{}, err
		}
		if state, err = c.Permute(ly, state); err != nil {
			return StateWord{}, err
		}
	}
	return c.GetOutput(state)[0], nil
}
