package poseidon

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
)

// Hash absorbs msg under the given domain and returns the first rate word of
// the final state. The message is extended with the domain's padding
// constants and absorbed rate words at a time, one permutation per block.
func Hash(s Spec, d Domain, msg []fr.Element) (fr.Element, error) {
	if err := Validate(s); err != nil {
		return fr.Element{}, err
	}
	rate := s.Rate()
	padded := make([]fr.Element, 0, len(msg)+rate)
	padded = append(padded, msg...)
	padded = append(padded, d.Padding(rate, len(msg))...)
	if len(padded) == 0 || len(padded)%rate != 0 {
		return fr.Element{}, fmt.Errorf("poseidon: domain %s pads %d words to %d, not a positive multiple of rate %d",
			d.Name(), len(msg), len(padded), rate)
	}

	state := make([]fr.Element, s.Width())
	state[rate] = d.InitialCapacityElement()
	for off := 0; off < len(padded); off += rate {
		for i := 0; i < rate; i++ {
			state[i].Add(&state[i], &padded[off+i])
		}
		if err := Permute(s, state); err != nil {
			return fr.Element{}, err
		}
	}
	return state[0], nil
}
