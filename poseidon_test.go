package poseidon

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/stretchr/testify/require"
)

func TestNewSpecValidation(t *testing.T) {
	cases := []struct {
		name          string
		width         int
		fullRounds    int
		partialRounds int
		wantErr       bool
	}{
		{name: "valid width 3", width: 3, fullRounds: 8, partialRounds: 56},
		{name: "valid width 8", width: 8, fullRounds: 8, partialRounds: 22},
		{name: "unsupported width", width: 5, fullRounds: 8, partialRounds: 56, wantErr: true},
		{name: "odd full rounds", width: 3, fullRounds: 7, partialRounds: 56, wantErr: true},
		{name: "odd partial rounds", width: 3, fullRounds: 8, partialRounds: 55, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec, err := NewSpec(tc.width, tc.fullRounds, tc.partialRounds, []byte("validation"))
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.width, spec.Width())
			require.Equal(t, tc.width-1, spec.Rate())
		})
	}
}

// stubSpec lets tests hand Validate shapes NewSpec would never produce.
type stubSpec struct {
	width, rate, full, partial int
	rc, internal, external     [][]fr.Element
}

func (s stubSpec) Width() int         { return s.width }
func (s stubSpec) Rate() int          { return s.rate }
func (s stubSpec) FullRounds() int    { return s.full }
func (s stubSpec) PartialRounds() int { return s.partial }
func (s stubSpec) Constants() (rc [][]fr.Element, internal, external [][]fr.Element) {
	return s.rc, s.internal, s.external
}

func TestValidateRejectsBadShapes(t *testing.T) {
	require.Error(t, Validate(stubSpec{width: 3, rate: 3, full: 8, partial: 56}), "rate must be width-1")
	require.Error(t, Validate(stubSpec{width: 3, rate: 2, full: 8, partial: 56}), "missing constants")
}

func TestPermuteDeterministic(t *testing.T) {
	specA, err := NewSpec(3, 8, 56, []byte("seed A"))
	require.NoError(t, err)
	specA2, err := NewSpec(3, 8, 56, []byte("seed A"))
	require.NoError(t, err)
	specB, err := NewSpec(3, 8, 56, []byte("seed B"))
	require.NoError(t, err)

	input := make([]fr.Element, 3)
	for i := range input {
		input[i].SetUint64(uint64(i) + 1)
	}
	a := append([]fr.Element(nil), input...)
	a2 := append([]fr.Element(nil), input...)
	b := append([]fr.Element(nil), input...)
	require.NoError(t, Permute(specA, a))
	require.NoError(t, Permute(specA2, a2))
	require.NoError(t, Permute(specB, b))

	for i := range a {
		require.True(t, a[i].Equal(&a2[i]), "same seed must give identical permutations")
	}
	require.False(t, a[0].Equal(&b[0]), "different seeds should diverge")
	require.False(t, a[0].Equal(&input[0]), "permutation must change the state")
}

func TestPermuteStateLength(t *testing.T) {
	spec, err := NewSpec(3, 8, 56, []byte("len"))
	require.NoError(t, err)
	require.Error(t, Permute(spec, make([]fr.Element, 2)))
}

func TestConstantLengthDomain(t *testing.T) {
	d := ConstantLength{Length: 2}
	require.Equal(t, "ConstantLength(2)", d.Name())

	var want fr.Element
	want.SetBigInt(new(big.Int).Lsh(big.NewInt(2), 64))
	got := d.InitialCapacityElement()
	require.True(t, got.Equal(&want))

	require.Len(t, d.Padding(2, 3), 1)
	require.Len(t, d.Padding(2, 4), 0)
	require.Len(t, d.Padding(2, 0), 2)
	for _, p := range d.Padding(2, 3) {
		require.True(t, p.IsZero())
	}
}

func TestHashMatchesManualSponge(t *testing.T) {
	spec, err := NewSpec(3, 8, 56, []byte("sponge"))
	require.NoError(t, err)
	dom := ConstantLength{Length: 3}

	msg := make([]fr.Element, 3)
	for i := range msg {
		msg[i].SetUint64(uint64(i) + 10)
	}
	got, err := Hash(spec, dom, msg)
	require.NoError(t, err)

	// Three words pad to two rate-2 blocks: [m0 m1] then [m2 0].
	state := make([]fr.Element, 3)
	state[2] = dom.InitialCapacityElement()
	state[0].Add(&state[0], &msg[0])
	state[1].Add(&state[1], &msg[1])
	require.NoError(t, Permute(spec, state))
	state[0].Add(&state[0], &msg[2])
	require.NoError(t, Permute(spec, state))

	require.True(t, got.Equal(&state[0]))
}

func TestHashLengthMatters(t *testing.T) {
	spec, err := NewSpec(3, 8, 56, []byte("sponge"))
	require.NoError(t, err)
	msg := make([]fr.Element, 2)
	msg[0].SetUint64(1)
	msg[1].SetUint64(2)

	h2, err := Hash(spec, ConstantLength{Length: 2}, msg)
	require.NoError(t, err)
	h3, err := Hash(spec, ConstantLength{Length: 3}, append(append([]fr.Element(nil), msg...), fr.Element{}))
	require.NoError(t, err)
	require.False(t, h2.Equal(&h3), "capacity tag must separate message lengths")
}
