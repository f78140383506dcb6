package ntt

import "mlkem-ring/pkg/field"

// lanes is the accelerated-style backend. It processes coefficients eight
// at a time, one 128-bit vector of int16, and reduces more eagerly than the
// portable code: the forward transform ends with a Barrett pass and every
// inverse layer reduces its sums. Its outputs are therefore congruent to,
// but not equal to, the portable outputs.
//
// Declared bounds, both inclusive.
const (
	lanesNTTBound    = Bound1
	lanesInvNTTBound = Bound1
)

// Accelerated bounds may only be tighter than the contract. Either line
// fails to compile (constant overflow) otherwise.
const (
	_ = uint(NTTBound - lanesNTTBound)
	_ = uint(InvNTTBound - lanesInvNTTBound)
)

const laneWidth = 8

// vec is one vector register worth of coefficients.
type vec [laneWidth]int16

func load(r *[field.N]int16, i int) (v vec) {
	copy(v[:], r[i:i+laneWidth])
	return v
}

func store(r *[field.N]int16, i int, v *vec) {
	copy(r[i:i+laneWidth], v[:])
}

// vctButterfly is ctButterfly applied lane-wise.
func vctButterfly(a, b *vec, zeta int16) {
	for k := range a {
		t := field.Fqmul(b[k], zeta)
		b[k] = a[k] - t
		a[k] = a[k] + t
	}
}

// vgsButterfly is gsButterflyReduce applied lane-wise.
func vgsButterfly(a, b *vec, zeta int16) {
	for k := range a {
		x, y := a[k], b[k]
		a[k] = field.BarrettReduce(x + y)
		b[k] = field.Fqmul(y-x, zeta)
	}
}

func vbarrett(v *vec) {
	for k := range v {
		v[k] = field.BarrettReduce(v[k])
	}
}

func vfqmul(v *vec, c int16) {
	for k := range v {
		v[k] = field.Fqmul(v[k], c)
	}
}

// lanesNTT runs the seven layers one at a time. Layers whose butterfly
// distance is at least laneWidth work on whole vectors; layers 6 and 7 work
// within a vector. Layer l uses Zetas[2^(l-1)+b] for block b.
func lanesNTT(r *[field.N]int16) {
	checkBound(r[:], Bound1, "lanes ntt input")

	for l := 1; l <= 7; l++ {
		dist := field.N >> l
		for b := 0; b < 1<<(l-1); b++ {
			zeta := Zetas[1<<(l-1)+b]
			start := 2 * dist * b
			if dist >= laneWidth {
				for j := start; j < start+dist; j += laneWidth {
					lo, hi := load(r, j), load(r, j+dist)
					vctButterfly(&lo, &hi, zeta)
					store(r, j, &lo)
					store(r, j+dist, &hi)
				}
				continue
			}
			for j := start; j < start+dist; j++ {
				ctButterfly(r, j, j+dist, zeta)
			}
		}
	}

	for i := 0; i < field.N; i += laneWidth {
		v := load(r, i)
		vbarrett(&v)
		store(r, i, &v)
	}

	checkBound(r[:], lanesNTTBound, "lanes ntt output")
}

// lanesInvNTT scales by MontF first and then inverts layers 7 down to 1,
// Barrett-reducing every sum. Layer l uses Zetas[2^l-1-b] for block b.
func lanesInvNTT(r *[field.N]int16) {
	for i := 0; i < field.N; i += laneWidth {
		v := load(r, i)
		vfqmul(&v, MontF)
		store(r, i, &v)
	}

	for l := 7; l >= 1; l-- {
		dist := field.N >> l
		for b := 0; b < 1<<(l-1); b++ {
			zeta := Zetas[1<<l-1-b]
			start := 2 * dist * b
			if dist >= laneWidth {
				for j := start; j < start+dist; j += laneWidth {
					lo, hi := load(r, j), load(r, j+dist)
					vgsButterfly(&lo, &hi, zeta)
					store(r, j, &lo)
					store(r, j+dist, &hi)
				}
				continue
			}
			for j := start; j < start+dist; j++ {
				gsButterflyReduce(r, j, j+dist, zeta)
			}
		}
	}

	checkBound(r[:], lanesInvNTTBound, "lanes invntt output")
}
