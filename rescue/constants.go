package rescue

import (
	"fmt"
	"math/big"
	"math/bits"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/aerius-labs/arith-go/field"
)

// MaxSearchRounds bounds the round search in NumRounds.
const MaxSearchRounds = 25

// Config selects a Rescue-Prime instance.
type Config struct {
	Width         int
	Capacity      int
	SecurityLevel int
}

// Validate checks basic shape of the configuration.
func (c Config) Validate() error {
	if c.Width < 2 {
		return errors.Wrapf(ErrConfiguration, "width must be at least 2, got %d", c.Width)
	}
	if c.Capacity < 1 || c.Capacity >= c.Width {
		return errors.Wrapf(ErrConfiguration, "capacity must be in [1, %d), got %d", c.Width, c.Capacity)
	}
	if c.SecurityLevel < 1 {
		return errors.Wrapf(ErrConfiguration, "security level must be positive, got %d", c.SecurityLevel)
	}
	return nil
}

// Rate is Width - Capacity.
func (c Config) Rate() int {
	return c.Width - c.Capacity
}

// NumRounds returns the Rescue-Prime round count: the smallest l1 whose
// Groebner basis cost C(v+dcon, v)^2 exceeds 2^SecurityLevel, raised to at
// least 5 and multiplied by 1.5 (rounded up).
func NumRounds(c Config, alpha uint64) (int, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	if alpha < 3 {
		return 0, errors.Wrapf(ErrConfiguration, "alpha must be at least 3, got %d", alpha)
	}
	w := uint64(c.Width)
	target := new(big.Int).Lsh(big.NewInt(1), uint(c.SecurityLevel))

	var bin big.Int
	for l1 := uint64(1); l1 < MaxSearchRounds; l1++ {
		v := w*(l1-1) + uint64(c.Rate())
		dcon := (alpha-1)*w*(l1-1)/2 + 2
		bin.Binomial(int64(v+dcon), int64(v))
		bin.Mul(&bin, &bin)
		if bin.Cmp(target) > 0 {
			return (3*int(max(l1, 5)) + 1) / 2, nil
		}
	}
	return 0, errors.Wrapf(ErrConfiguration, "no round count below %d reaches %d-bit security for width %d", MaxSearchRounds, c.SecurityLevel, c.Width)
}

// SeedString is the SHAKE256 seed for the round constants of field order p.
func SeedString(p uint64, c Config) string {
	return fmt.Sprintf("Rescue-XLIX(%d,%d,%d,%d)", p, c.Width, c.Capacity, c.SecurityLevel)
}

// BytesPerConstant is ceil(bits(p)/8) + 1. The extra byte keeps the bias of
// the reduction mod p small.
func BytesPerConstant(p uint64) int {
	return (bits.Len64(p)+7)/8 + 1
}

// RoundConstants derives 2*Width*rounds constants in [0, p). Each constant is
// read little-endian from BytesPerConstant(p) bytes of the SHAKE256 stream and
// reduced mod p.
func RoundConstants(p uint64, c Config, rounds int) ([]uint64, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if p < 2 {
		return nil, errors.Wrapf(ErrConfiguration, "field order %d", p)
	}
	if rounds < 1 {
		return nil, errors.Wrapf(ErrConfiguration, "rounds must be positive, got %d", rounds)
	}

	numConstants := 2 * c.Width * rounds
	chunk := BytesPerConstant(p)
	seed := SeedString(p, c)
	stream := DeriveBytes([]byte(seed), chunk*numConstants)

	reduced := ReduceChunks(stream, chunk, new(big.Int).SetUint64(p))
	out := make([]uint64, numConstants)
	for i := range out {
		out[i] = reduced[i].Uint64()
	}

	logger.Load().Debug("derived rescue round constants",
		zap.String("seed", seed),
		zap.Int("rounds", rounds),
		zap.Int("constants", numConstants))
	return out, nil
}

// ReduceChunks cuts stream into chunk-byte pieces, reads each as a
// little-endian integer and reduces it mod modulus. A trailing partial chunk
// is ignored.
func ReduceChunks(stream []byte, chunk int, modulus *big.Int) []*big.Int {
	if chunk <= 0 {
		return nil
	}
	be := make([]byte, chunk)
	out := make([]*big.Int, len(stream)/chunk)
	for i := range out {
		le := stream[i*chunk : (i+1)*chunk]
		for j := range le {
			be[chunk-1-j] = le[j]
		}
		v := new(big.Int).SetBytes(be)
		out[i] = v.Mod(v, modulus)
	}
	return out
}

// BabyBearRoundConstants is RoundConstants for BabyBear, as field elements.
func BabyBearRoundConstants(c Config, rounds int) ([]field.Element, error) {
	rc, err := RoundConstants(field.BabyBear{}.Order(), c, rounds)
	if err != nil {
		return nil, err
	}
	return field.NewElements(rc), nil
}
