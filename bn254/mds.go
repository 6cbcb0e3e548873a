// Package bn254 provides the width-3 diffusion layer used as the MDS step of
// Poseidon-style permutations over the BN254 scalar field.
package bn254

import (
	"sync"
	"sync/atomic"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"go.uber.org/zap"
)

// Width is the state size the diffusion layer acts on.
const Width = 3

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

var diagonal = sync.OnceValue(initDiagonal)

func initDiagonal() *[Width]fr.Element {
	var d [Width]fr.Element
	d[0].SetOne()
	d[1].SetOne()
	d[2].SetUint64(2)
	logger.Load().Debug("initialised bn254 diffusion diagonal", zap.Stringers("diag", []*fr.Element{&d[0], &d[1], &d[2]}))
	return &d
}

// Diagonal returns the diagonal [1, 1, 2] of the diffusion matrix. Every call
// returns the same array, which must not be modified.
func Diagonal() *[Width]fr.Element {
	return diagonal()
}

// MdsMatrix is the matrix M = 1 + diag(d - 1) with d = Diagonal(), so that
// (M x)_i = sum(x) + (d_i - 1) x_i. It is a stand-in diffusion layer, not a
// proven MDS matrix.
type MdsMatrix struct{}

// PermuteMut replaces state with M * state.
func (MdsMatrix) PermuteMut(state *[Width]fr.Element) {
	d := Diagonal()
	var one, sum, t fr.Element
	one.SetOne()
	sum.Add(&state[0], &state[1])
	sum.Add(&sum, &state[2])
	for i := range state {
		t.Sub(&d[i], &one)
		state[i].Mul(&state[i], &t)
		state[i].Add(&state[i], &sum)
	}
}

// Permute returns M * state, leaving state untouched.
func (m MdsMatrix) Permute(state [Width]fr.Element) [Width]fr.Element {
	m.PermuteMut(&state)
	return state
}
