// Package poseidon provides a plain (non-circuit) implementation of the
// Poseidon permutation and sponge over the BLS12-377 scalar field, together
// with the Spec and Domain parameter objects consumed by the circuit gadgets
// in this module.
package poseidon

import (
	"encoding/binary"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"golang.org/x/crypto/blake2b"
)

// WidthChoices enumerates the supported state widths. The capacity occupies
// one word; the remaining width-1 words form the rate.
var WidthChoices = [...]int{2, 3, 4, 8, 12, 16, 20, 24}

// Spec supplies the parameters of one Poseidon instance: state shape, round
// schedule and constants. Implementations must be immutable once constructed.
type Spec interface {
	Width() int
	Rate() int
	FullRounds() int
	PartialRounds() int
	// Constants returns the round constants (one width-sized row per round,
	// full rounds first half, partial rounds, full rounds second half), the
	// internal mixing matrix (partial rounds) and the external mixing matrix
	// (pre-mix layer and full rounds).
	Constants() (rc [][]fr.Element, internal, external [][]fr.Element)
}

// ValidWidth reports whether w is one of WidthChoices.
func ValidWidth(w int) bool {
	for _, c := range WidthChoices {
		if w == c {
			return true
		}
	}
	return false
}

// Validate checks the shape and schedule of a parameter set. A failure here
// is a configuration defect: the circuit description itself must be fixed.
func Validate(s Spec) error {
	width := s.Width()
	if !ValidWidth(width) {
		return fmt.Errorf("poseidon: unsupported width %d", width)
	}
	if s.Rate() != width-1 {
		return fmt.Errorf("poseidon: rate must be width-1, got rate %d for width %d", s.Rate(), width)
	}
	if s.FullRounds()%2 != 0 {
		return fmt.Errorf("poseidon: full rounds must be even, got %d", s.FullRounds())
	}
	if s.PartialRounds()%2 != 0 {
		return fmt.Errorf("poseidon: partial rounds must be even, got %d", s.PartialRounds())
	}
	rc, internal, external := s.Constants()
	total := s.FullRounds() + s.PartialRounds()
	if len(rc) != total {
		return fmt.Errorf("poseidon: round constant rows mismatch (%d rows for %d rounds)", len(rc), total)
	}
	for r, row := range rc {
		if len(row) != width {
			return fmt.Errorf("poseidon: round constant row %d has %d entries, want %d", r, len(row), width)
		}
	}
	for name, m := range map[string][][]fr.Element{"internal": internal, "external": external} {
		if len(m) != width {
			return fmt.Errorf("poseidon: %s matrix has %d rows, want %d", name, len(m), width)
		}
		for i, row := range m {
			if len(row) != width {
				return fmt.Errorf("poseidon: %s matrix row %d has %d entries, want %d", name, i, len(row), width)
			}
		}
	}
	return nil
}

// seededSpec derives its constants deterministically from a seed. It serves
// as a reference parameter set for tests and development; production
// deployments should supply an externally generated, vetted Spec.
type seededSpec struct {
	width, rate   int
	fullRounds    int
	partialRounds int

	rc       [][]fr.Element
	internal [][]fr.Element
	external [][]fr.Element
}

// NewSpec builds a Spec for the given width with constants expanded from seed
// via BLAKE2b in counter mode. The width must be one of WidthChoices and both
// round counts must be even.
func NewSpec(width, fullRounds, partialRounds int, seed []byte) (Spec, error) {
	s := &seededSpec{
		width:         width,
		rate:          width - 1,
		fullRounds:    fullRounds,
		partialRounds: partialRounds,
	}
	total := fullRounds + partialRounds
	s.rc = deriveRows(seed, "rc", total, width)
	s.internal = deriveRows(seed, "internal", width, width)
	s.external = deriveRows(seed, "external", width, width)
	if err := Validate(s); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *seededSpec) Width() int         { return s.width }
func (s *seededSpec) Rate() int          { return s.rate }
func (s *seededSpec) FullRounds() int    { return s.fullRounds }
func (s *seededSpec) PartialRounds() int { return s.partialRounds }

func (s *seededSpec) Constants() (rc [][]fr.Element, internal, external [][]fr.Element) {
	return s.rc, s.internal, s.external
}

// deriveRows expands seed into rows×cols field elements. Each element hashes
// (seed, label, counter) and reduces the digest mod the field order.
func deriveRows(seed []byte, label string, rows, cols int) [][]fr.Element {
	out := make([][]fr.Element, rows)
	var ctr [8]byte
	for i := range out {
		out[i] = make([]fr.Element, cols)
		for j := range out[i] {
			h, err := blake2b.New256(nil)
			if err != nil {
				panic(err) // keyless blake2b cannot fail
			}
			h.Write(seed)
			h.Write([]byte(label))
			binary.BigEndian.PutUint64(ctr[:], uint64(i*cols+j))
			h.Write(ctr[:])
			out[i][j].SetBytes(h.Sum(nil))
		}
	}
	return out
}
