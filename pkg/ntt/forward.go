// Package ntt provides the Number Theoretic Transform for the ML-KEM ring
// Z_q[x]/<x^256+1>, q = 3329, together with the cached base multiplication
// that works on transformed polynomials.
//
// Coefficients are int16 and are deliberately not reduced after every
// butterfly. Each stage documents the bound it accepts and the bound it
// leaves behind; see bounds.go.
package ntt

import "mlkem-ring/pkg/field"

// Layers are merged into four groups: {1,2,3}, {4,5}, {6} and {7}. Inner
// loops touch at most 8 coefficients, the width of a 128-bit vector of
// int16. No butterfly reduces its outputs; every layer adds at most Q-1 to
// the bound:
//
//	input        Q-1
//	layer123    4Q-1
//	layer45     6Q-1
//	layer6      7Q-1
//	layer7      8Q-1
//
// 8Q-1 = 26631 still fits in an int16. Fqmul keeps its result below Q
// because every zeta is a signed representative below Q/2.

// ctButterfly is the Cooley-Tukey butterfly (a, b) -> (a + zb, a - zb).
func ctButterfly(r *[field.N]int16, i, j int, zeta int16) {
	t := field.Fqmul(r[j], zeta)
	u := r[i]
	r[j] = u - t
	r[i] = u + t
}

// layer123 runs layers 1, 2 and 3. Requires |r| <= Bound1, ensures
// |r| <= Bound4.
func layer123(r *[field.N]int16) {
	for j := 0; j < 32; j++ {
		ci0 := j
		ci1 := j + 32
		ci2 := j + 64
		ci3 := j + 96
		ci4 := j + 128
		ci5 := j + 160
		ci6 := j + 192
		ci7 := j + 224

		// Layer 1
		ctButterfly(r, ci0, ci4, l1Zeta1)
		ctButterfly(r, ci2, ci6, l1Zeta1)
		ctButterfly(r, ci1, ci5, l1Zeta1)
		ctButterfly(r, ci3, ci7, l1Zeta1)

		// Layer 2
		ctButterfly(r, ci0, ci2, l2Zeta2)
		ctButterfly(r, ci4, ci6, l2Zeta3)
		ctButterfly(r, ci1, ci3, l2Zeta2)
		ctButterfly(r, ci5, ci7, l2Zeta3)

		// Layer 3
		ctButterfly(r, ci0, ci1, l3Zeta4)
		ctButterfly(r, ci2, ci3, l3Zeta5)
		ctButterfly(r, ci4, ci5, l3Zeta6)
		ctButterfly(r, ci6, ci7, l3Zeta7)
	}
}

// layer45Butterfly runs layers 4 and 5 on the 32 coefficients of subtree s,
// starting at start = 32*s. The parent twiddle serves layer 4, the two child
// twiddles serve the halves of layer 5.
func layer45Butterfly(r *[field.N]int16, s, start int) {
	z1 := layer4Zetas[s]
	z2 := layer5EvenZetas[s]
	z3 := layer5OddZetas[s]

	for j := 0; j < 8; j++ {
		ci0 := start + j
		ci1 := ci0 + 8
		ci2 := ci0 + 16
		ci3 := ci0 + 24

		// Layer 4
		ctButterfly(r, ci0, ci2, z1)
		ctButterfly(r, ci1, ci3, z1)

		// Layer 5
		ctButterfly(r, ci0, ci1, z2)
		ctButterfly(r, ci2, ci3, z3)
	}
}

// layer45 requires |r| <= Bound4 and ensures |r| <= Bound6.
func layer45(r *[field.N]int16) {
	// Unrolled so each call sees constant arguments.
	layer45Butterfly(r, 0, 0)
	layer45Butterfly(r, 1, 32)
	layer45Butterfly(r, 2, 64)
	layer45Butterfly(r, 3, 96)
	layer45Butterfly(r, 4, 128)
	layer45Butterfly(r, 5, 160)
	layer45Butterfly(r, 6, 192)
	layer45Butterfly(r, 7, 224)
}

// layer6 requires |r| <= Bound6 and ensures |r| <= Bound7.
func layer6(r *[field.N]int16) {
	for k := 0; k < 32; k++ {
		zeta := layer6Zetas[k]
		start := 8 * k
		for j := start; j < start+4; j++ {
			ctButterfly(r, j, j+4, zeta)
		}
	}
}

// layer7 requires |r| <= Bound7 and ensures |r| <= Bound8.
func layer7(r *[field.N]int16) {
	for k := 0; k < 64; k++ {
		zeta := Layer7Zetas[k]
		ci0 := 4 * k

		// Read and write in increasing memory order.
		c0 := r[ci0]
		c1 := r[ci0+1]
		c2 := r[ci0+2]
		c3 := r[ci0+3]

		zc2 := field.Fqmul(c2, zeta)
		zc3 := field.Fqmul(c3, zeta)

		r[ci0] = c0 + zc2
		r[ci0+1] = c1 + zc3
		r[ci0+2] = c0 - zc2
		r[ci0+3] = c1 - zc3
	}
}

// NTT computes the negacyclic forward transform of r in place.
//
// The input is in standard order with |r[i]| <= Q-1. The output is in
// bit-reversed order with |r[i]| <= NTTBound. Montgomery form is preserved:
// a plain input gives a plain output.
func NTT(r *[field.N]int16) {
	checkBound(r[:], Bound1, "ntt input")

	layer123(r)
	layer45(r)
	layer6(r)
	layer7(r)

	checkBound(r[:], NTTBound, "ntt output")
}
