// Package rescue derives the parameters of Rescue-family permutations: the
// S-box exponent alpha, its inverse, and round constants expanded from a seed
// with SHAKE256.
package rescue

import (
	"math/big"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/aerius-labs/arith-go/field"
)

// ErrConfiguration marks parameters that cannot be derived soundly. It is
// never transient and must not be retried.
var ErrConfiguration = errors.New("rescue: invalid configuration")

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

// ComputeAlpha returns the smallest a >= 3 with gcd(a, p-1) = 1, so that
// x -> x^a permutes the field. 1 and 2 are skipped: the identity is useless
// and squaring is never a bijection for odd p.
func ComputeAlpha(p uint64) (uint64, error) {
	if p < 2 {
		return 0, errors.Wrapf(ErrConfiguration, "field order %d", p)
	}
	for a := uint64(3); a < p; a++ {
		if gcd(a, p-1) == 1 {
			return a, nil
		}
	}
	return 0, errors.Wrapf(ErrConfiguration, "no valid alpha for field order %d, fields of order 2 or 3 are unsupported", p)
}

// ComputeAlphaBig is ComputeAlpha for orders wider than 64 bits.
func ComputeAlphaBig(p *big.Int) (uint64, error) {
	if p.IsUint64() {
		return ComputeAlpha(p.Uint64())
	}
	one := big.NewInt(1)
	pm1 := new(big.Int).Sub(p, one)
	var a, g big.Int
	// p has more than 64 bits so some a < 2^64 is always coprime to p-1.
	for v := uint64(3); v != 0; v++ {
		a.SetUint64(v)
		if g.GCD(nil, nil, &a, pm1).Cmp(one) == 0 {
			return v, nil
		}
	}
	return 0, errors.Wrapf(ErrConfiguration, "no valid alpha for field order %s", p)
}

// ComputeInverse returns d in (0, p-1) with alpha*d = 1 mod p-1. The inverse is
// taken over big integers since p-1 may use all 64 bits. An error means alpha
// did not come from ComputeAlpha for this p.
func ComputeInverse(alpha, p uint64) (uint64, error) {
	if p < 3 {
		return 0, errors.Wrapf(ErrConfiguration, "field order %d", p)
	}
	m := new(big.Int).SetUint64(p - 1)
	d := new(big.Int).ModInverse(new(big.Int).SetUint64(alpha), m)
	if d == nil {
		return 0, errors.Wrapf(ErrConfiguration, "x^%d is not a permutation of the field of order %d", alpha, p)
	}
	return d.Uint64(), nil
}

func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// Params holds the S-box exponents of a field. Immutable once returned.
type Params struct {
	Order        uint64
	Alpha        uint64
	AlphaInverse uint64
}

type paramsEntry struct {
	once   sync.Once
	params *Params
	err    error
}

// paramsCache maps a field order to its *paramsEntry.
type paramsCache struct {
	entries sync.Map
}

var cache paramsCache

// ParamsFor derives the parameters of F on first use and returns the same
// *Params to every later caller, including concurrent first callers.
func ParamsFor[F field.PrimeField64]() (*Params, error) {
	var f F
	return cache.get(f.Name(), f.Order())
}

// MustParamsFor is ParamsFor for package-level initialisation.
func MustParamsFor[F field.PrimeField64]() *Params {
	p, err := ParamsFor[F]()
	if err != nil {
		panic(err)
	}
	return p
}

func (c *paramsCache) get(name string, order uint64) (*Params, error) {
	v, _ := c.entries.LoadOrStore(order, new(paramsEntry))
	e := v.(*paramsEntry)
	e.once.Do(func() {
		e.params, e.err = deriveParams(order)
		if e.err != nil {
			logger.Load().Error("rescue parameter derivation failed", zap.String("field", name), zap.Error(e.err))
			return
		}
		logger.Load().Debug("derived rescue parameters",
			zap.String("field", name),
			zap.Uint64("order", order),
			zap.Uint64("alpha", e.params.Alpha),
			zap.Uint64("alpha_inv", e.params.AlphaInverse))
	})
	return e.params, e.err
}

func deriveParams(order uint64) (*Params, error) {
	alpha, err := ComputeAlpha(order)
	if err != nil {
		return nil, err
	}
	inv, err := ComputeInverse(alpha, order)
	if err != nil {
		return nil, err
	}
	return &Params{Order: order, Alpha: alpha, AlphaInverse: inv}, nil
}
