package field

import "github.com/consensys/gnark-crypto/field/babybear"

// Ext2NonResidue is W in BabyBear[X]/(X^2 - W). 11 is a quadratic non-residue
// mod the BabyBear prime.
const Ext2NonResidue = 11

// Ext2 is an element a0 + a1*X of the degree-2 binomial extension of BabyBear.
type Ext2 struct {
	A0, A1 babybear.Element
}

// NewExt2 builds a0 + a1*X.
func NewExt2(a0, a1 babybear.Element) Ext2 {
	return Ext2{A0: a0, A1: a1}
}

// Ext2FromFn builds an element from its basis coefficients.
func Ext2FromFn(f func(i int) babybear.Element) Ext2 {
	return Ext2{A0: f(0), A1: f(1)}
}

// Dimension returns the extension degree, 2.
func (Ext2) Dimension() int { return 2 }

// BasisCoefficient returns a0 for i = 0 and a1 for i = 1.
func (z Ext2) BasisCoefficient(i int) babybear.Element {
	switch i {
	case 0:
		return z.A0
	case 1:
		return z.A1
	}
	panic("field: ext2 coefficient index out of range")
}

// BasisCoefficients returns [a0, a1].
func (z Ext2) BasisCoefficients() [2]babybear.Element {
	return [2]babybear.Element{z.A0, z.A1}
}

// Add returns z + x.
func (z Ext2) Add(x Ext2) Ext2 {
	var r Ext2
	r.A0.Add(&z.A0, &x.A0)
	r.A1.Add(&z.A1, &x.A1)
	return r
}

// Sub returns z - x.
func (z Ext2) Sub(x Ext2) Ext2 {
	var r Ext2
	r.A0.Sub(&z.A0, &x.A0)
	r.A1.Sub(&z.A1, &x.A1)
	return r
}

// Mul computes (a0 + a1 X)(b0 + b1 X) = a0 b0 + W a1 b1 + (a0 b1 + a1 b0) X.
func (z Ext2) Mul(x Ext2) Ext2 {
	var r, t Ext2
	w := NewElement(Ext2NonResidue)

	r.A0.Mul(&z.A0, &x.A0)
	t.A0.Mul(&z.A1, &x.A1)
	t.A0.Mul(&t.A0, &w)
	r.A0.Add(&r.A0, &t.A0)

	r.A1.Mul(&z.A0, &x.A1)
	t.A1.Mul(&z.A1, &x.A0)
	r.A1.Add(&r.A1, &t.A1)
	return r
}

// Equal reports whether z and x are the same element.
func (z Ext2) Equal(x Ext2) bool {
	return z.A0.Equal(&x.A0) && z.A1.Equal(&x.A1)
}
