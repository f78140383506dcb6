package ntt

import "mlkem-ring/pkg/field"

// The inverse transform runs the same groups backwards: {7}, {6}, {5,4} and
// {3,2,1}. Gentleman-Sande butterflies (a, b) -> (a + b, z(b - a)) double
// the sum half, so the sums are Barrett-reduced where they would otherwise
// overflow:
//
//	input      any int16
//	invLayer7   Q-1   (scaled by MontF, sums reduced)
//	invLayer6  2Q-1
//	invLayer54  Q-1   (layer-4 sums reduced)
//	invLayer321 8Q-1
//
// The difference half always goes through Fqmul and stays below Q.

// gsButterfly is the Gentleman-Sande butterfly without reduction.
func gsButterfly(r *[field.N]int16, i, j int, zeta int16) {
	a := r[i]
	b := r[j]
	r[i] = a + b
	r[j] = field.Fqmul(b-a, zeta)
}

// gsButterflyReduce is gsButterfly with the sum Barrett-reduced.
func gsButterflyReduce(r *[field.N]int16, i, j int, zeta int16) {
	a := r[i]
	b := r[j]
	r[i] = field.BarrettReduce(a + b)
	r[j] = field.Fqmul(b-a, zeta)
}

// invLayer7Invert applies the scaling by MontF and inverts layer 7.
// Accepts any int16 input, ensures |r| <= Bound1.
func invLayer7Invert(r *[field.N]int16) {
	for i := 0; i < 64; i++ {
		zeta := Layer7Zetas[63-i]
		ci0 := 4 * i

		c0 := field.Fqmul(r[ci0], MontF)
		c1 := field.Fqmul(r[ci0+1], MontF)
		c2 := field.Fqmul(r[ci0+2], MontF)
		c3 := field.Fqmul(r[ci0+3], MontF)

		r[ci0] = field.BarrettReduce(c0 + c2)
		r[ci0+1] = field.BarrettReduce(c1 + c3)
		r[ci0+2] = field.Fqmul(c2-c0, zeta)
		r[ci0+3] = field.Fqmul(c3-c1, zeta)
	}
}

// invLayer6 requires |r| <= Bound1 and ensures |r| <= Bound2.
func invLayer6(r *[field.N]int16) {
	for i := 0; i < 32; i++ {
		zeta := layer6Zetas[31-i]
		start := 8 * i
		for j := start; j < start+4; j++ {
			gsButterfly(r, j, j+4, zeta)
		}
	}
}

// invLayer54Butterfly inverts layers 5 and 4 on the subtree whose twiddles
// sit at index zi, starting at coefficient start.
func invLayer54Butterfly(r *[field.N]int16, zi, start int) {
	z1 := layer4Zetas[zi]
	z2 := layer5EvenZetas[zi]
	z3 := layer5OddZetas[zi]

	for j := 0; j < 8; j++ {
		ci0 := start + j
		ci1 := ci0 + 8
		ci2 := ci0 + 16
		ci3 := ci0 + 24

		// Layer 5
		gsButterfly(r, ci0, ci1, z3)
		gsButterfly(r, ci2, ci3, z2)

		// Layer 4
		gsButterflyReduce(r, ci0, ci2, z1)
		gsButterflyReduce(r, ci1, ci3, z1)
	}
}

// invLayer54 requires |r| <= Bound2 and ensures |r| <= Bound1.
func invLayer54(r *[field.N]int16) {
	// Subtrees are visited in memory order; twiddles are consumed from the
	// end of each table.
	invLayer54Butterfly(r, 7, 0)
	invLayer54Butterfly(r, 6, 32)
	invLayer54Butterfly(r, 5, 64)
	invLayer54Butterfly(r, 4, 96)
	invLayer54Butterfly(r, 3, 128)
	invLayer54Butterfly(r, 2, 160)
	invLayer54Butterfly(r, 1, 192)
	invLayer54Butterfly(r, 0, 224)
}

// invLayer321 requires |r| <= Bound1 and ensures |r| <= Bound8.
func invLayer321(r *[field.N]int16) {
	for j := 0; j < 32; j++ {
		ci0 := j
		ci1 := j + 32
		ci2 := j + 64
		ci3 := j + 96
		ci4 := j + 128
		ci5 := j + 160
		ci6 := j + 192
		ci7 := j + 224

		// Layer 3
		gsButterfly(r, ci0, ci1, l3Zeta7)
		gsButterfly(r, ci2, ci3, l3Zeta6)
		gsButterfly(r, ci4, ci5, l3Zeta5)
		gsButterfly(r, ci6, ci7, l3Zeta4)

		// Layer 2
		gsButterfly(r, ci0, ci2, l2Zeta3)
		gsButterfly(r, ci1, ci3, l2Zeta3)
		gsButterfly(r, ci4, ci6, l2Zeta2)
		gsButterfly(r, ci5, ci7, l2Zeta2)

		// Layer 1
		gsButterfly(r, ci0, ci4, l1Zeta1)
		gsButterfly(r, ci1, ci5, l1Zeta1)
		gsButterfly(r, ci2, ci6, l1Zeta1)
		gsButterfly(r, ci3, ci7, l1Zeta1)
	}
}

// InvNTT computes the inverse transform of r in place.
//
// The input is in bit-reversed order and may hold any int16 values. The
// output is in standard order, bounded by InvNTTBound, and multiplied by the
// Montgomery factor 2^16: InvNTT(NTT(p)) = p * 2^16 mod Q.
func InvNTT(r *[field.N]int16) {
	invLayer7Invert(r)
	invLayer6(r)
	invLayer54(r)
	invLayer321(r)

	checkBound(r[:], InvNTTBound, "invntt output")
}
