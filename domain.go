package poseidon

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
)

// Domain fixes a hashing mode: its name, the initial value of the capacity
// word and the padding rule applied to messages before absorption.
type Domain interface {
	Name() string
	InitialCapacityElement() fr.Element
	// Padding returns the constants appended to a message of msgLen words so
	// that its length becomes a positive multiple of the rate.
	Padding(rate, msgLen int) []fr.Element
}

// ConstantLength is the fixed-length hashing domain: messages of exactly
// Length words, zero-padded to a multiple of the rate.
type ConstantLength struct {
	Length int
}

func (d ConstantLength) Name() string {
	return fmt.Sprintf("ConstantLength(%d)", d.Length)
}

// InitialCapacityElement returns Length·2^64, tagging the capacity with the
// message length so distinct lengths hash into disjoint domains.
func (d ConstantLength) InitialCapacityElement() fr.Element {
	var e fr.Element
	e.SetBigInt(new(big.Int).Lsh(big.NewInt(int64(d.Length)), 64))
	return e
}

func (d ConstantLength) Padding(rate, msgLen int) []fr.Element {
	k := (msgLen + rate - 1) / rate
	if k == 0 {
		k = 1
	}
	return make([]fr.Element, k*rate-msgLen)
}
