package poseidon

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
)

// Permute applies the permutation to state in place: a pre-mix by the
// external matrix, half the full rounds, all partial rounds, then the second
// half of the full rounds. The state must hold exactly s.Width() elements.
//
// This is the oracle the circuit gadgets are checked against; its formulas
// and the gate polynomials must stay value-for-value identical.
func Permute(s Spec, state []fr.Element) error {
	if len(state) != s.Width() {
		return fmt.Errorf("poseidon: state has %d words, want %d", len(state), s.Width())
	}
	rc, internal, external := s.Constants()
	half := s.FullRounds() / 2

	mix(state, external)
	round := 0
	for r := 0; r < half; r++ {
		fullRound(state, rc[round], external)
		round++
	}
	for r := 0; r < s.PartialRounds(); r++ {
		partialRound(state, rc[round], internal)
		round++
	}
	for r := 0; r < half; r++ {
		fullRound(state, rc[round], external)
		round++
	}
	return nil
}

func fullRound(state []fr.Element, rc []fr.Element, m [][]fr.Element) {
	for i := range state {
		state[i].Add(&state[i], &rc[i])
		pow5(&state[i])
	}
	mix(state, m)
}

// partialRound adds a round constant and applies the S-box to word 0 only;
// the remaining words enter the mix layer untouched.
func partialRound(state []fr.Element, rc []fr.Element, m [][]fr.Element) {
	state[0].Add(&state[0], &rc[0])
	pow5(&state[0])
	mix(state, m)
}

func mix(state []fr.Element, m [][]fr.Element) {
	out := make([]fr.Element, len(state))
	for i := range m {
		var sum fr.Element
		for j := range state {
			var prod fr.Element
			prod.Mul(&m[i][j], &state[j])
			sum.Add(&sum, &prod)
		}
		out[i] = sum
	}
	copy(state, out)
}

// pow5 computes x^5 as ((x·x)·(x·x))·x, matching the gate decomposition.
func pow5(x *fr.Element) {
	var x2, x4 fr.Element
	x2.Mul(x, x)
	x4.Mul(&x2, &x2)
	x.Mul(&x4, x)
}
