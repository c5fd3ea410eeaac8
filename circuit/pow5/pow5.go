// Package pow5 implements the Poseidon permutation and sponge as a PLONKish
// chip with an x^5 S-box: one row per round, a dedicated advice column for
// the single partial-round S-box output, and a three-row pad-and-add window
// for sponge absorption.
package pow5

import (
	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"

	poseidon "github.com/vocdoni/poseidon-pow5"
	"github.com/vocdoni/poseidon-pow5/circuit"
)

// Config carries the column layout, selectors and derived constants of one
// configured chip. It is immutable after Configure.
type Config struct {
	state       []circuit.AdviceColumn
	partialSBox circuit.AdviceColumn
	rc          []circuit.FixedColumn
	padFixed    []circuit.FixedColumn

	sFirst     circuit.Selector
	sFull      circuit.Selector
	sPartial   circuit.Selector
	sPadAndAdd circuit.Selector

	width          int
	rate           int
	halfFullRounds int
	partialRounds  int
	roundConstants [][]fr.Element
	matExternal    [][]fr.Element
	matInternal    [][]fr.Element
}

// Configure validates the spec, allocates the row layout and registers the
// four gate families. It runs once per circuit shape, before any row is
// assigned. All state and padding columns are equality-enabled so the chip's
// cells can be wired to cells produced elsewhere in the enclosing circuit.
func Configure(cs circuit.ConstraintSystem, spec poseidon.Spec) (*Config, error) {
	if err := poseidon.Validate(spec); err != nil {
		return nil, err
	}
	width, rate := spec.Width(), spec.Rate()
	rc, matInternal, matExternal := spec.Constants()

	cfg := &Config{
		state:          make([]circuit.AdviceColumn, width),
		rc:             make([]circuit.FixedColumn, width),
		padFixed:       make([]circuit.FixedColumn, width),
		width:          width,
		rate:           rate,
		halfFullRounds: spec.FullRounds() / 2,
		partialRounds:  spec.PartialRounds(),
		roundConstants: rc,
		matExternal:    matExternal,
		matInternal:    matInternal,
	}
	for i := 0; i < width; i++ {
		cfg.state[i] = cs.AdviceColumn()
	}
	cfg.partialSBox = cs.AdviceColumn()
	for i := 0; i < width; i++ {
		cfg.rc[i] = cs.FixedColumn()
	}
	for i := 0; i < width; i++ {
		cfg.padFixed[i] = cs.FixedColumn()
	}
	for _, col := range cfg.state {
		cs.EnableEquality(col)
	}
	for _, col := range cfg.padFixed {
		cs.EnableEquality(col)
	}

	cfg.sFirst = cs.Selector()
	cfg.sFull = cs.Selector()
	cfg.sPartial = cs.Selector()
	cfg.sPadAndAdd = cs.Selector()

	cs.CreateGate("first layer", cfg.sFirst, cfg.firstLayerGate())
	cs.CreateGate("full round", cfg.sFull, cfg.fullRoundGate())
	cs.CreateGate("partial round", cfg.sPartial, cfg.partialRoundGate())
	cs.CreateGate("pad-and-add", cfg.sPadAndAdd, cfg.padAndAddGate())
	return cfg, nil
}

// firstLayerGate enforces next_i = Σ_j external[i][j]·cur_j: the pre-round
// mix layer, applied once with no round constants.
func (cfg *Config) firstLayerGate() []circuit.Expression {
	polys := make([]circuit.Expression, cfg.width)
	for i := 0; i < cfg.width; i++ {
		terms := make([]circuit.Expression, cfg.width)
		for j := 0; j < cfg.width; j++ {
			terms[j] = circuit.Scale(circuit.Advice(cfg.state[j], circuit.RotCur), cfg.matExternal[i][j])
		}
		polys[i] = circuit.Sub(circuit.Sum(terms...), circuit.Advice(cfg.state[i], circuit.RotNext))
	}
	return polys
}

// fullRoundGate enforces next_i = Σ_j external[i][j]·(cur_j + rc_j)^5.
func (cfg *Config) fullRoundGate() []circuit.Expression {
	polys := make([]circuit.Expression, cfg.width)
	for i := 0; i < cfg.width; i++ {
		terms := make([]circuit.Expression, cfg.width)
		for j := 0; j < cfg.width; j++ {
			sboxed := pow5Expr(circuit.Sum(
				circuit.Advice(cfg.state[j], circuit.RotCur),
				circuit.Fixed(cfg.rc[j], circuit.RotCur),
			))
			terms[j] = circuit.Scale(sboxed, cfg.matExternal[i][j])
		}
		polys[i] = circuit.Sub(circuit.Sum(terms...), circuit.Advice(cfg.state[i], circuit.RotNext))
	}
	return polys
}

// partialRoundGate enforces mid = (cur_0 + rc_0)^5 witnessed in the partial
// S-box column, then next_i = Σ_j internal[i][j]·v_j with v_0 = mid and
// v_j = cur_j for j ≥ 1. Only word 0 passes through the S-box; partial rounds
// add a round constant to word 0 alone.
func (cfg *Config) partialRoundGate() []circuit.Expression {
	mid := circuit.Advice(cfg.partialSBox, circuit.RotCur)
	polys := make([]circuit.Expression, 0, cfg.width+1)
	polys = append(polys, circuit.Sub(
		pow5Expr(circuit.Sum(
			circuit.Advice(cfg.state[0], circuit.RotCur),
			circuit.Fixed(cfg.rc[0], circuit.RotCur),
		)),
		mid,
	))
	for i := 0; i < cfg.width; i++ {
		terms := make([]circuit.Expression, cfg.width)
		terms[0] = circuit.Scale(mid, cfg.matInternal[i][0])
		for j := 1; j < cfg.width; j++ {
			terms[j] = circuit.Scale(circuit.Advice(cfg.state[j], circuit.RotCur), cfg.matInternal[i][j])
		}
		polys = append(polys, circuit.Sub(circuit.Sum(terms...), circuit.Advice(cfg.state[i], circuit.RotNext)))
	}
	return polys
}

// padAndAddGate spans a prev/cur/next window: next_i = prev_i + cur_i for the
// rate words (cur holds the absorbed input), and the capacity word passes
// through unaltered.
func (cfg *Config) padAndAddGate() []circuit.Expression {
	polys := make([]circuit.Expression, 0, cfg.width)
	for i := 0; i < cfg.rate; i++ {
		polys = append(polys, circuit.Sub(
			circuit.Sum(
				circuit.Advice(cfg.state[i], circuit.RotPrev),
				circuit.Advice(cfg.state[i], circuit.RotCur),
			),
			circuit.Advice(cfg.state[i], circuit.RotNext),
		))
	}
	polys = append(polys, circuit.Sub(
		circuit.Advice(cfg.state[cfg.rate], circuit.RotPrev),
		circuit.Advice(cfg.state[cfg.rate], circuit.RotNext),
	))
	return polys
}

// pow5Expr builds x^5 as ((x·x)·(x·x))·x.
func pow5Expr(x circuit.Expression) circuit.Expression {
	x2 := circuit.Mul(x, x)
	return circuit.Mul(circuit.Mul(x2, x2), x)
}

// Chip executes permutations and sponge steps against a configured layout.
type Chip struct {
	cfg *Config
}

// NewChip wraps a configuration produced by Configure.
func NewChip(cfg *Config) *Chip { return &Chip{cfg: cfg} }

// Config returns the configuration the chip was constructed with.
func (c *Chip) Config() *Config { return c.cfg }

// StateColumns returns the state advice columns, so enclosing circuits can
// witness their own cells and wire them into a permutation.
func (cfg *Config) StateColumns() []circuit.AdviceColumn {
	out := make([]circuit.AdviceColumn, len(cfg.state))
	copy(out, cfg.state)
	return out
}
