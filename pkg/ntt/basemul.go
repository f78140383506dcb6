package ntt

import "mlkem-ring/pkg/field"

// In the NTT domain a polynomial is 128 residues modulo x^2 - zeta_i. The
// residues come in pairs: slots 4i, 4i+1 reduce modulo x^2 - Layer7Zetas[i]
// and slots 4i+2, 4i+3 modulo x^2 + Layer7Zetas[i].

// MulCacheCompute fills x with the products b_odd * zeta needed by
// BaseMulCached, two entries per block of four coefficients:
//
//	x[2i]   = b[4i+1] *  Layer7Zetas[i] / 2^16
//	x[2i+1] = b[4i+3] * -Layer7Zetas[i] / 2^16
//
// Accepts any int16 input; ensures |x| <= MulCacheBound.
func MulCacheCompute(x *[field.N / 2]int16, b *[field.N]int16) {
	for i := 0; i < field.N/4; i++ {
		zeta := Layer7Zetas[i]
		x[2*i] = field.Fqmul(b[4*i+1], zeta)
		x[2*i+1] = field.Fqmul(b[4*i+3], -zeta)
	}
	checkBound(x[:], MulCacheBound, "mulcache output")
}

// baseMulPair multiplies (a0 + a1 x)(b0 + b1 x) modulo x^2 - zeta where
// bCache holds b1 * zeta / 2^16.
func baseMulPair(a0, a1, b0, b1, bCache int16) (int16, int16) {
	r0 := field.MontgomeryReduce(int32(a1)*int32(bCache) + int32(a0)*int32(b0))
	r1 := field.MontgomeryReduce(int32(a0)*int32(b1) + int32(a1)*int32(b0))
	return r0, r1
}

// BaseMulCached sets r to the pointwise product of a and b in the NTT
// domain, divided by 2^16. bCache must be MulCacheCompute(b).
//
// Requires |a| <= BaseMulInputBound; b and bCache may hold any int16.
// Ensures |r| <= BaseMulBound. Each sum of two products stays below 2^31
// in absolute value under these bounds.
func BaseMulCached(r, a, b *[field.N]int16, bCache *[field.N / 2]int16) {
	checkBound(a[:], BaseMulInputBound, "basemul input")

	for i := 0; i < field.N/4; i++ {
		r[4*i], r[4*i+1] = baseMulPair(a[4*i], a[4*i+1], b[4*i], b[4*i+1], bCache[2*i])
		r[4*i+2], r[4*i+3] = baseMulPair(a[4*i+2], a[4*i+3], b[4*i+2], b[4*i+3], bCache[2*i+1])
	}

	checkBound(r[:], BaseMulBound, "basemul output")
}
