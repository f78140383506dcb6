// Package polyvec provides vectors and matrices of ring polynomials and the
// cached matrix-vector product built from them.
package polyvec

import (
	"mlkem-ring/pkg/encoding"
	"mlkem-ring/pkg/field"
	"mlkem-ring/pkg/poly"
)

// Vec is a vector of K polynomials.
type Vec []poly.Poly

// VecMulCache holds one MulCache per vector entry.
type VecMulCache []poly.MulCache

// Matrix is a K x K matrix of polynomials, stored row by row.
type Matrix []Vec

// NewVec returns a zero vector of length k.
func NewVec(k int) Vec {
	return make(Vec, k)
}

// NewMatrix returns a zero k x k matrix.
func NewMatrix(k int) Matrix {
	m := make(Matrix, k)
	for i := range m {
		m[i] = NewVec(k)
	}
	return m
}

func checkLen(v Vec, k int, what string) {
	if len(v) != k {
		panic("polyvec: " + what + ": length mismatch")
	}
}

// NTT transforms every entry in place.
func (v Vec) NTT() {
	for i := range v {
		v[i].NTT()
	}
}

// InvNTTToMont inverse-transforms every entry in place.
func (v Vec) InvNTTToMont() {
	for i := range v {
		v[i].InvNTTToMont()
	}
}

// Reduce maps every coefficient to [0, Q).
func (v Vec) Reduce() {
	for i := range v {
		v[i].Reduce()
	}
}

// ToMont converts every entry to Montgomery form.
func (v Vec) ToMont() {
	for i := range v {
		v[i].ToMont()
	}
}

// Add computes a + b entrywise without reduction.
func Add(a, b, result Vec) {
	checkLen(b, len(a), "Add")
	checkLen(result, len(a), "Add")
	for i := range a {
		poly.Add(&a[i], &b[i], &result[i])
	}
}

// MulCacheCompute fills c from v, which must be in NTT form.
func (v Vec) MulCacheCompute(c VecMulCache) {
	if len(c) != len(v) {
		panic("polyvec: MulCacheCompute: length mismatch")
	}
	for i := range v {
		v[i].MulCacheCompute(&c[i])
	}
}

// BaseMulAccMontgomeryCached sets r to the inner product of a and b in the
// NTT domain, divided by 2^16. bCache must come from b.MulCacheCompute.
//
// Each coefficient is accumulated over all K products in int32 and
// Montgomery-reduced once. Requires |a| <= ntt.BaseMulInputBound and
// len(a) <= 4; under these bounds the sums cannot overflow and the result
// is at most 4095*len(a) + Q/2 in absolute value.
func BaseMulAccMontgomeryCached(r *poly.Poly, a, b Vec, bCache VecMulCache) {
	checkLen(b, len(a), "BaseMulAccMontgomeryCached")
	if len(a) > 4 {
		panic("polyvec: BaseMulAccMontgomeryCached: more than 4 entries")
	}
	if len(bCache) != len(a) {
		panic("polyvec: BaseMulAccMontgomeryCached: cache length mismatch")
	}

	for i := 0; i < field.N/2; i++ {
		var t0, t1 int32
		for k := range a {
			a0, a1 := int32(a[k][2*i]), int32(a[k][2*i+1])
			b0, b1 := int32(b[k][2*i]), int32(b[k][2*i+1])
			t0 += a1*int32(bCache[k][i]) + a0*b0
			t1 += a0*b1 + a1*b0
		}
		r[2*i] = field.MontgomeryReduce(t0)
		r[2*i+1] = field.MontgomeryReduce(t1)
	}
}

// MatVecMul sets out[i] to the inner product of row i of a with v, all in
// the NTT domain. The cache of v is computed once and shared by every row.
// Rows of a must be bounded by ntt.BaseMulInputBound.
func MatVecMul(out Vec, a Matrix, v Vec) {
	checkLen(out, len(a), "MatVecMul")
	cache := make(VecMulCache, len(v))
	v.MulCacheCompute(cache)
	for i := range a {
		BaseMulAccMontgomeryCached(&out[i], a[i], v, cache)
	}
}

// ToBytes packs v, with coefficients in [0, Q), into r.
func (v Vec) ToBytes(r []byte) {
	if len(r) != len(v)*encoding.PolyBytes {
		panic("polyvec: ToBytes: wrong buffer length")
	}
	for i := range v {
		encoding.ToBytes(r[i*encoding.PolyBytes:(i+1)*encoding.PolyBytes], &v[i])
	}
}

// FromBytes unpacks a into v.
func (v Vec) FromBytes(a []byte) {
	if len(a) != len(v)*encoding.PolyBytes {
		panic("polyvec: FromBytes: wrong buffer length")
	}
	for i := range v {
		encoding.FromBytes(&v[i], a[i*encoding.PolyBytes:(i+1)*encoding.PolyBytes])
	}
}

// Compress compresses every entry to d bits per coefficient into r.
func (v Vec) Compress(r []byte, d int) error {
	size, err := encoding.CompressedSize(d)
	if err != nil {
		return err
	}
	if len(r) != len(v)*size {
		panic("polyvec: Compress: wrong buffer length")
	}
	for i := range v {
		if err := encoding.Compress(r[i*size:(i+1)*size], &v[i], d); err != nil {
			return err
		}
	}
	return nil
}

// Decompress is the inverse of Compress up to rounding.
func (v Vec) Decompress(a []byte, d int) error {
	size, err := encoding.CompressedSize(d)
	if err != nil {
		return err
	}
	if len(a) != len(v)*size {
		panic("polyvec: Decompress: wrong buffer length")
	}
	for i := range v {
		if err := encoding.Decompress(&v[i], a[i*size:(i+1)*size], d); err != nil {
			return err
		}
	}
	return nil
}
