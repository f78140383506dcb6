package ntt

import "mlkem-ring/pkg/field"

// Coefficient bounds, inclusive, in absolute value. The forward transform
// grows coefficients by at most Q per layer; the inverse transform doubles
// some of them per layer and has to reduce in between.
const (
	Bound1 = field.Q - 1
	Bound2 = 2*field.Q - 1
	Bound4 = 4*field.Q - 1
	Bound6 = 6*field.Q - 1
	Bound7 = 7*field.Q - 1
	Bound8 = 8*field.Q - 1

	// NTTBound is the output bound every forward transform must meet for
	// inputs bounded by Q-1.
	NTTBound = Bound8

	// InvNTTBound is the output bound every inverse transform must meet for
	// arbitrary int16 inputs.
	InvNTTBound = Bound8

	// BaseMulInputBound bounds the first operand of BaseMulCached.
	BaseMulInputBound = 4095

	// BaseMulBound is the output bound of BaseMulCached.
	BaseMulBound = 2*field.Q - 1

	// MulCacheBound is the output bound of MulCacheCompute.
	MulCacheBound = Bound1

	// MontF is 2^32/128 mod Q = 1441. Multiplying by it with Fqmul undoes the
	// factor 128 picked up by the seven inverse layers and leaves the result
	// scaled by the Montgomery factor 2^16.
	MontF = 1441
)

// AbsMax returns the largest absolute coefficient of r. Coefficient values
// are not secret here; it is meant for bound checks and tests.
func AbsMax(r []int16) int32 {
	var m int32
	for _, c := range r {
		v := int32(c)
		if v < 0 {
			v = -v
		}
		if v > m {
			m = v
		}
	}
	return m
}
