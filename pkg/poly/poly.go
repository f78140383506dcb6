// Package poly provides polynomial operations for the ML-KEM ring.
package poly

import (
	"sync/atomic"

	"mlkem-ring/pkg/field"
	"mlkem-ring/pkg/ntt"
)

// Poly represents a polynomial in Z_Q[x]/<x^256+1>.
//
// Coefficients are signed and not necessarily reduced; each operation
// states the bound it expects and the bound it leaves.
type Poly [field.N]int16

// MulCache holds the precomputed products MulCacheCompute derives from a
// polynomial in NTT form, for use as the second operand of
// BaseMulMontgomeryCached.
type MulCache [field.N / 2]int16

type backendHolder struct {
	b ntt.Backend
}

var current atomic.Pointer[backendHolder]

func init() {
	current.Store(&backendHolder{ntt.Default()})
}

// SetBackend selects the NTT backend used by every Poly operation.
func SetBackend(b ntt.Backend) {
	current.Store(&backendHolder{b})
}

// Backend returns the backend in use.
func Backend() ntt.Backend {
	return current.Load().b
}

func (p *Poly) coeffs() *[field.N]int16 {
	return (*[field.N]int16)(p)
}

// NTT computes the forward transform in place. Requires |p| <= Q-1; the
// result is in bit-reversed order, bounded by ntt.NTTBound.
func (p *Poly) NTT() {
	Backend().NTT(p.coeffs())
}

// InvNTTToMont computes the inverse transform in place and multiplies by the
// Montgomery factor 2^16. Accepts any input; the result is bounded by
// ntt.InvNTTBound.
func (p *Poly) InvNTTToMont() {
	Backend().InvNTT(p.coeffs())
}

// MulCacheCompute fills c from p, which must be in NTT form.
func (p *Poly) MulCacheCompute(c *MulCache) {
	Backend().MulCacheCompute((*[field.N / 2]int16)(c), p.coeffs())
}

// BaseMulMontgomeryCached sets p to a*b/2^16 in the NTT domain. bCache must
// come from b.MulCacheCompute. Requires |a| <= ntt.BaseMulInputBound; the
// result is bounded by ntt.BaseMulBound.
func (p *Poly) BaseMulMontgomeryCached(a, b *Poly, bCache *MulCache) {
	Backend().BaseMulCached(p.coeffs(), a.coeffs(), b.coeffs(), (*[field.N / 2]int16)(bCache))
}

// ToMont converts polynomial to Montgomery form in place. Accepts any input;
// ensures |p| < Q.
func (p *Poly) ToMont() {
	for i := 0; i < field.N; i++ {
		p[i] = field.ToMont(p[i])
	}
}

// Reduce maps every coefficient to its unsigned canonical representative
// in [0, Q).
func (p *Poly) Reduce() {
	for i := 0; i < field.N; i++ {
		p[i] = field.SignedToUnsigned(field.BarrettReduce(p[i]))
	}
}

// Add computes a + b componentwise without reduction.
func Add(a, b *Poly, result *Poly) {
	for i := 0; i < field.N; i++ {
		result[i] = a[i] + b[i]
	}
}

// Sub computes a - b componentwise without reduction.
func Sub(a, b *Poly, result *Poly) {
	for i := 0; i < field.N; i++ {
		result[i] = a[i] - b[i]
	}
}

// AbsMax returns the largest absolute coefficient.
func (p *Poly) AbsMax() int32 {
	return ntt.AbsMax(p[:])
}

// SchoolbookMul computes a * b using schoolbook multiplication.
// Returns (quotient, remainder) where a * b = quotient * (x^256 + 1) + remainder,
// both with coefficients in [0, Q).
func SchoolbookMul(a, b *Poly) (q, r Poly) {
	// Compute full product (511 coefficients, last is 0)
	var s [512]int64
	for i := 0; i < field.N; i++ {
		for j := 0; j < field.N; j++ {
			s[i+j] += int64(a[i]) * int64(b[j])
		}
	}

	// quotient is coefficients [256:512]
	for i := 0; i < field.N; i++ {
		q[i] = field.Mod(s[256+i])
	}

	// remainder is coefficients [0:256] - coefficients [256:512] (because x^256 = -1)
	for i := 0; i < field.N; i++ {
		r[i] = field.Mod(s[i] - s[256+i])
	}

	return q, r
}

// Equal returns true if two polynomials are equal coefficient by coefficient.
func Equal(a, b *Poly) bool {
	return *a == *b
}

// EqualModQ returns true if a and b represent the same ring element.
func EqualModQ(a, b *Poly) bool {
	for i := 0; i < field.N; i++ {
		if field.Mod(int64(a[i])-int64(b[i])) != 0 {
			return false
		}
	}
	return true
}

// Copy copies src to dst.
func Copy(dst, src *Poly) {
	*dst = *src
}
