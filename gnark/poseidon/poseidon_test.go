package poseidon

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/consensys/gnark/backend"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/test"
	"github.com/stretchr/testify/require"

	primitives "github.com/vocdoni/poseidon-pow5"
)

type permuteCircuit struct {
	spec primitives.Spec

	In       [3]frontend.Variable
	Expected [3]frontend.Variable `gnark:",public"`
}

func (c *permuteCircuit) Define(api frontend.API) error {
	out, err := Permute(api, c.spec, c.In[:])
	if err != nil {
		return err
	}
	for i := range out {
		api.AssertIsEqual(out[i], c.Expected[i])
	}
	return nil
}

func TestPermuteMatchesPlain(t *testing.T) {
	assert := test.NewAssert(t)
	spec, err := primitives.NewSpec(3, 8, 56, []byte("gnark test spec"))
	require.NoError(t, err)

	var in [3]fr.Element
	for i := range in {
		in[i].SetUint64(uint64(i))
	}
	expected := append([]fr.Element(nil), in[:]...)
	require.NoError(t, primitives.Permute(spec, expected))

	witness := permuteCircuit{spec: spec}
	for i := range in {
		witness.In[i] = in[i]
		witness.Expected[i] = expected[i]
	}
	assert.ProverSucceeded(
		&permuteCircuit{spec: spec},
		&witness,
		test.WithCurves(ecc.BLS12_377),
		test.WithBackends(backend.GROTH16),
	)
}

type hashCircuit struct {
	spec primitives.Spec
	dom  primitives.Domain

	In       [3]frontend.Variable
	Expected frontend.Variable `gnark:",public"`
}

func (c *hashCircuit) Define(api frontend.API) error {
	out, err := Hash(api, c.spec, c.dom, c.In[0], c.In[1], c.In[2])
	if err != nil {
		return err
	}
	api.AssertIsEqual(out, c.Expected)
	return nil
}

func TestHashMatchesPlain(t *testing.T) {
	assert := test.NewAssert(t)
	spec, err := primitives.NewSpec(3, 8, 56, []byte("gnark test spec"))
	require.NoError(t, err)
	dom := primitives.ConstantLength{Length: 3}

	msg := make([]fr.Element, 3)
	for i := range msg {
		msg[i].SetUint64(uint64(i) + 1)
	}
	expected, err := primitives.Hash(spec, dom, msg)
	require.NoError(t, err)

	witness := hashCircuit{spec: spec, dom: dom, Expected: expected}
	for i := range msg {
		witness.In[i] = msg[i]
	}
	assert.ProverSucceeded(
		&hashCircuit{spec: spec, dom: dom},
		&witness,
		test.WithCurves(ecc.BLS12_377),
		test.WithBackends(backend.GROTH16),
	)
}

func TestPermuteRejectsBadState(t *testing.T) {
	spec, err := primitives.NewSpec(3, 8, 56, []byte("gnark test spec"))
	require.NoError(t, err)
	_, err = Permute(nil, spec, make([]frontend.Variable, 2))
	require.Error(t, err)
}
