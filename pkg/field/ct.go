package field

import "crypto/subtle"

// Constant-time helpers. None of these branch on or index by their
// arguments, so they are safe to use on secret data.

// CmaskNonzeroU16 returns 0xFFFF if x != 0 and 0 otherwise.
func CmaskNonzeroU16(x uint16) uint16 {
	// -x is negative exactly when x != 0; the arithmetic shift smears the
	// sign bit across the low 16 bits.
	return uint16(-int32(x) >> 16)
}

// CmaskNonzeroU8 returns 0xFF if x != 0 and 0 otherwise.
func CmaskNonzeroU8(x uint8) uint8 {
	return uint8(-int32(x) >> 8)
}

// SelInt16 returns a if cond != 0 and b otherwise.
func SelInt16(a, b int16, cond uint16) int16 {
	au, bu := uint16(a), uint16(b)
	return int16(bu ^ (CmaskNonzeroU16(cond) & (au ^ bu)))
}

// SelUint8 returns a if cond != 0 and b otherwise.
func SelUint8(a, b, cond uint8) uint8 {
	return b ^ (CmaskNonzeroU8(cond) & (a ^ b))
}

// Cmov copies src into dst if cond != 0 and leaves dst untouched otherwise.
// dst and src must have the same length.
func Cmov(dst, src []byte, cond uint8) {
	if len(dst) != len(src) {
		panic("field: Cmov length mismatch")
	}
	for i := range dst {
		dst[i] = SelUint8(src[i], dst[i], cond)
	}
}

// Memcmp returns 0 if a and b are equal and a nonzero byte otherwise,
// taking time that depends only on the lengths.
func Memcmp(a, b []byte) uint8 {
	return uint8(1 ^ subtle.ConstantTimeCompare(a, b))
}
