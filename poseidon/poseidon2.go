// Package poseidon implements a width-3 Poseidon2-style permutation network over
// the BN254 scalar field with a pluggable linear layer. Round constants and the
// S-box exponent come from the rescue parameter derivation.
package poseidon

import (
	"math/big"
	"slices"
	"sync/atomic"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/aerius-labs/arith-go/bn254"
	"github.com/aerius-labs/arith-go/rescue"
)

// Element is a BN254 scalar field element
type Element = fr.Element

// State is the permutation state.
type State = [bn254.Width]Element

// ErrInvalidParameters is returned by New for unusable configurations.
var ErrInvalidParameters = errors.New("poseidon: invalid parameters")

// constantBytes is the number of SHAKE256 bytes reduced into one round
// constant: one more than an element.
const constantBytes = fr.Bytes + 1

var logger atomic.Pointer[zap.Logger]

func init() {
	logger.Store(zap.NewNop())
}

// SetLogger replaces the package logger. A nil logger disables logging.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l)
}

// LinearLayer is the mixing step applied after every round.
type LinearLayer interface {
	PermuteMut(state *State)
}

// Config fixes the round structure and the round constant seed.
type Config struct {
	FullRounds    int
	PartialRounds int
	Seed          string
}

// DefaultConfig matches the usual BN254 width-3 instance: 8 full and 56
// partial rounds.
func DefaultConfig() Config {
	return Config{
		FullRounds:    8,
		PartialRounds: 56,
		Seed:          "Poseidon2-BN254-t3",
	}
}

// Validate checks the round structure.
func (c Config) Validate() error {
	if c.FullRounds <= 0 || c.FullRounds%2 != 0 {
		return errors.Wrapf(ErrInvalidParameters, "full rounds must be even and positive, got %d", c.FullRounds)
	}
	if c.PartialRounds < 0 {
		return errors.Wrapf(ErrInvalidParameters, "partial rounds must not be negative, got %d", c.PartialRounds)
	}
	if c.Seed == "" {
		return errors.Wrap(ErrInvalidParameters, "empty round constant seed")
	}
	return nil
}

// Permutation is immutable after New and safe for concurrent use.
type Permutation struct {
	cfg   Config
	layer LinearLayer
	alpha uint64
	exp   *big.Int
	rc    []State
}

// New derives alpha and the round constants for cfg. A nil layer selects
// bn254.MdsMatrix.
func New(cfg Config, layer LinearLayer) (*Permutation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if layer == nil {
		layer = bn254.MdsMatrix{}
	}
	alpha, err := rescue.ComputeAlphaBig(fr.Modulus())
	if err != nil {
		return nil, errors.WithMessage(err, "poseidon: s-box exponent")
	}

	rounds := cfg.FullRounds + cfg.PartialRounds
	stream := rescue.DeriveBytes([]byte(cfg.Seed), rounds*bn254.Width*constantBytes)
	reduced := rescue.ReduceChunks(stream, constantBytes, fr.Modulus())
	rc := make([]State, rounds)
	for r := range rc {
		for i := range rc[r] {
			rc[r][i].SetBigInt(reduced[r*bn254.Width+i])
		}
	}

	logger.Load().Debug("built poseidon permutation",
		zap.Int("full_rounds", cfg.FullRounds),
		zap.Int("partial_rounds", cfg.PartialRounds),
		zap.Uint64("alpha", alpha),
		zap.String("seed", cfg.Seed))

	return &Permutation{
		cfg:   cfg,
		layer: layer,
		alpha: alpha,
		exp:   new(big.Int).SetUint64(alpha),
		rc:    rc,
	}, nil
}

// MustNew is New for package-level initialisation.
func MustNew(cfg Config, layer LinearLayer) *Permutation {
	p, err := New(cfg, layer)
	if err != nil {
		panic(err)
	}
	return p
}

// Width returns the permutation width
func (p *Permutation) Width() int {
	return bn254.Width
}

// Alpha returns the S-box exponent.
func (p *Permutation) Alpha() uint64 {
	return p.alpha
}

// RoundConstants returns a copy of the constants added in each round. Only
// element 0 is used in partial rounds.
func (p *Permutation) RoundConstants() []State {
	return slices.Clone(p.rc)
}

// PermuteMut applies the permutation in place: an initial linear layer, half
// of the full rounds, the partial rounds, then the other half.
func (p *Permutation) PermuteMut(state *State) {
	p.layer.PermuteMut(state)

	half := p.cfg.FullRounds / 2
	r := 0
	for ; r < half; r++ {
		p.fullRound(state, &p.rc[r])
	}
	for end := half + p.cfg.PartialRounds; r < end; r++ {
		state[0].Add(&state[0], &p.rc[r][0])
		p.sbox(&state[0])
		p.layer.PermuteMut(state)
	}
	for ; r < len(p.rc); r++ {
		p.fullRound(state, &p.rc[r])
	}
}

// Permute applies the permutation and returns a new state
func (p *Permutation) Permute(state State) State {
	p.PermuteMut(&state)
	return state
}

func (p *Permutation) fullRound(state *State, rc *State) {
	for i := range state {
		state[i].Add(&state[i], &rc[i])
		p.sbox(&state[i])
	}
	p.layer.PermuteMut(state)
}

func (p *Permutation) sbox(x *Element) {
	if p.alpha == 5 {
		var x2, x4 Element
		x2.Square(x)
		x4.Square(&x2)
		x.Mul(x, &x4)
		return
	}
	x.Exp(*x, p.exp)
}
