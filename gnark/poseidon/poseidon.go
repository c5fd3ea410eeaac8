// Package poseidon renders the same permutation as the pow5 chip, but as
// gnark R1CS constraints over frontend.API. It shares the Spec and Domain
// parameter objects with the plain implementation.
package poseidon

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/consensys/gnark/frontend"

	primitives "github.com/vocdoni/poseidon-pow5"
)

// Permute applies the permutation to state and returns the new state.
func Permute(api frontend.API, s primitives.Spec, state []frontend.Variable) ([]frontend.Variable, error) {
	if err := primitives.Validate(s); err != nil {
		return nil, err
	}
	if len(state) != s.Width() {
		return nil, fmt.Errorf("poseidon: state has %d words, want %d", len(state), s.Width())
	}
	rc, internal, external := s.Constants()
	half := s.FullRounds() / 2

	st := mix(api, state, external)
	round := 0
	for r := 0; r < half; r++ {
		st = fullRound(api, st, rc[round], external)
		round++
	}
	for r := 0; r < s.PartialRounds(); r++ {
		st = partialRound(api, st, rc[round], internal)
		round++
	}
	for r := 0; r < half; r++ {
		st = fullRound(api, st, rc[round], external)
		round++
	}
	return st, nil
}

// Hash absorbs inputs under dom and returns the first rate word of the final
// state, matching primitives.Hash word for word.
func Hash(api frontend.API, s primitives.Spec, dom primitives.Domain, inputs ...frontend.Variable) (frontend.Variable, error) {
	if err := primitives.Validate(s); err != nil {
		return nil, err
	}
	rate := s.Rate()
	padded := make([]frontend.Variable, 0, len(inputs)+rate)
	padded = append(padded, inputs...)
	for _, p := range dom.Padding(rate, len(inputs)) {
		padded = append(padded, p)
	}
	if len(padded) == 0 || len(padded)%rate != 0 {
		return nil, fmt.Errorf("poseidon: domain %s pads %d words to %d, not a positive multiple of rate %d",
			dom.Name(), len(inputs), len(padded), rate)
	}

	state := make([]frontend.Variable, s.Width())
	for i := 0; i < rate; i++ {
		state[i] = 0
	}
	state[rate] = dom.InitialCapacityElement()
	var err error
	for off := 0; off < len(padded); off += rate {
		for i := 0; i < rate; i++ {
			state[i] = api.Add(state[i], padded[off+i])
		}
		if state, err = Permute(api, s, state); err != nil {
			return nil, err
		}
	}
	return state[0], nil
}

func fullRound(api frontend.API, state []frontend.Variable, rc []fr.Element, m [][]fr.Element) []frontend.Variable {
	out := make([]frontend.Variable, len(state))
	for i := range state {
		out[i] = pow5(api, api.Add(state[i], rc[i]))
	}
	return mix(api, out, m)
}

// partialRound adds a constant and applies the S-box to word 0 only.
func partialRound(api frontend.API, state []frontend.Variable, rc []fr.Element, m [][]fr.Element) []frontend.Variable {
	out := make([]frontend.Variable, len(state))
	copy(out, state)
	out[0] = pow5(api, api.Add(state[0], rc[0]))
	return mix(api, out, m)
}

func mix(api frontend.API, state []frontend.Variable, m [][]fr.Element) []frontend.Variable {
	out := make([]frontend.Variable, len(m))
	for i := range m {
		sum := api.Mul(state[0], m[i][0])
		for j := 1; j < len(state); j++ {
			sum = api.Add(sum, api.Mul(state[j], m[i][j]))
		}
		out[i] = sum
	}
	return out
}

func pow5(api frontend.API, v frontend.Variable) frontend.Variable {
	v2 := api.Mul(v, v)
	return api.Mul(api.Mul(v2, v2), v)
}
