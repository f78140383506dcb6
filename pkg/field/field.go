// Package field provides modular arithmetic for the ML-KEM ring.
//
// The field is Z_Q where Q = 13*2^8 + 1 = 3329. Elements are carried as
// signed 16-bit integers that are not always canonically reduced; callers
// track how large a coefficient may have grown.
package field

const (
	// Q is the prime modulus.
	Q = 3329

	// N is the polynomial degree (ring is Z_Q[x]/<x^256+1>)
	N = 256

	// HalfQ is ceil(Q/2), the decompressed value of a message bit.
	HalfQ = (Q + 1) / 2

	// QInv is Q^(-1) mod 2^16.
	QInv = 62209

	// MontR is the Montgomery factor 2^16 mod Q.
	MontR = 2285

	// MontR2 is 2^32 mod Q, used to move values into Montgomery form.
	MontR2 = 1353

	// Root is the primitive 256th root of unity used by the NTT.
	Root = 17

	// barrettMagic is round(2^26 / Q).
	barrettMagic = 20159
)

// MontgomeryReduce returns r = a * 2^(-16) mod Q with -Q < r < Q.
//
// Requires -2^15*Q <= a < 2^15*Q.
func MontgomeryReduce(a int32) int16 {
	// m = a * Q^(-1) mod 2^16. The int32 product may wrap; only the low
	// 16 bits are kept so the wrap is harmless.
	m := int16(a * QInv)

	// a - m*Q is divisible by 2^16, so the shift is exact.
	return int16((a - int32(m)*Q) >> 16)
}

// Fqmul returns a * b * 2^(-16) mod Q.
//
// If |b| < Q/2 the result is bounded by Q-1 in absolute value for every
// int16 a. Runs in constant time.
func Fqmul(a, b int16) int16 {
	return MontgomeryReduce(int32(a) * int32(b))
}

// BarrettReduce returns the signed canonical representative of a mod Q,
// in the range [-(Q-1)/2, (Q-1)/2]. Accepts any int16.
func BarrettReduce(a int16) int16 {
	// t = round(a / Q), computed as (a * round(2^26/Q) + 2^25) >> 26.
	t := (barrettMagic*int32(a) + (1 << 25)) >> 26
	return a - int16(t)*Q
}

// ToMont returns a * 2^16 mod Q with |result| < Q. Accepts any int16.
func ToMont(a int16) int16 {
	return Fqmul(a, MontR2)
}

// SignedToUnsigned maps a in (-Q, Q) to the unsigned canonical
// representative in [0, Q) without branching.
func SignedToUnsigned(a int16) int16 {
	return a + ((a >> 15) & Q)
}

// Mod returns x mod Q in [0, Q), handling negative values correctly.
// Not constant time; intended for reference computations.
func Mod(x int64) int16 {
	x = x % Q
	if x < 0 {
		x += Q
	}
	return int16(x)
}

// Exp returns a^e mod Q using binary exponentiation.
func Exp(a uint32, e uint32) uint32 {
	result := uint64(1)
	base := uint64(a) % Q
	for e > 0 {
		if e&1 == 1 {
			result = (result * base) % Q
		}
		base = (base * base) % Q
		e >>= 1
	}
	return uint32(result)
}

// Brv7 reverses the low 7 bits of x (bit reversal for the NTT tables).
func Brv7(x uint8) uint8 {
	x = (x&0xF0)>>4 | (x&0x0F)<<4
	x = (x&0xCC)>>2 | (x&0x33)<<2
	x = (x&0xAA)>>1 | (x&0x55)<<1
	return x >> 1
}
