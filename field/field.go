// Package field describes the prime fields and extensions the arithmetization
// core is generic over, backed by gnark-crypto element types.
package field

import (
	"github.com/consensys/gnark-crypto/field/babybear"
	"github.com/consensys/gnark-crypto/field/goldilocks"
	"github.com/consensys/gnark-crypto/field/koalabear"
)

// PrimeField64 is a prime field whose order fits in a uint64.
// Implementations are zero-size descriptors; methods must not depend on the
// receiver value.
type PrimeField64 interface {
	Name() string
	Order() uint64
}

// Extension is an element of a field extension over F, addressed by its
// coefficients in a fixed basis.
type Extension[F any] interface {
	// Dimension is the extension degree. Constant for the type.
	Dimension() int
	// BasisCoefficient returns coefficient i, 0 <= i < Dimension().
	BasisCoefficient(i int) F
}

var (
	babyBearOrder   = babybear.Modulus().Uint64()
	koalaBearOrder  = koalabear.Modulus().Uint64()
	goldilocksOrder = goldilocks.Modulus().Uint64()
)

// BabyBear is 2^31 - 2^27 + 1.
type BabyBear struct{}

func (BabyBear) Name() string  { return "BabyBear" }
func (BabyBear) Order() uint64 { return babyBearOrder }

// KoalaBear is 2^31 - 2^24 + 1.
type KoalaBear struct{}

func (KoalaBear) Name() string  { return "KoalaBear" }
func (KoalaBear) Order() uint64 { return koalaBearOrder }

// Goldilocks is 2^64 - 2^32 + 1.
type Goldilocks struct{}

func (Goldilocks) Name() string  { return "Goldilocks" }
func (Goldilocks) Order() uint64 { return goldilocksOrder }

// Mersenne31 is 2^31 - 1. gnark-crypto ships no arithmetic for it, only the
// order is needed here.
type Mersenne31 struct{}

func (Mersenne31) Name() string  { return "Mersenne31" }
func (Mersenne31) Order() uint64 { return 1<<31 - 1 }

// Element is a BabyBear field element.
type Element = babybear.Element

// NewElement reduces v mod the BabyBear prime.
func NewElement(v uint64) Element {
	var e Element
	e.SetUint64(v)
	return e
}

// NewElements reduces each of vs mod the BabyBear prime.
func NewElements(vs []uint64) []Element {
	out := make([]Element, len(vs))
	for i, v := range vs {
		out[i] = NewElement(v)
	}
	return out
}
