// Package encoding provides serialization functions for ML-KEM polynomials.
package encoding

import (
	"mlkem-ring/pkg/field"
	"mlkem-ring/pkg/poly"
)

const (
	// PolyBytes is the size of a polynomial packed with 12 bits per coefficient.
	PolyBytes = 384

	// MsgBytes is the size of a message encoded into one polynomial.
	MsgBytes = field.N / 8
)

func checkLen(b []byte, want int, what string) {
	if len(b) != want {
		panic("encoding: " + what + ": wrong buffer length")
	}
}

// ToBytes packs p into r, two coefficients per 3 bytes, little-endian.
// Coefficients must be in [0, Q).
func ToBytes(r []byte, p *poly.Poly) {
	checkLen(r, PolyBytes, "ToBytes")
	for i := 0; i < field.N/2; i++ {
		t0 := uint16(p[2*i])
		t1 := uint16(p[2*i+1])
		r[3*i] = byte(t0)
		r[3*i+1] = byte(t0>>8) | byte(t1<<4)
		r[3*i+2] = byte(t1 >> 4)
	}
}

// FromBytes unpacks a into p. The coefficients are 12-bit values in
// [0, 4096) and are not reduced.
func FromBytes(p *poly.Poly, a []byte) {
	checkLen(a, PolyBytes, "FromBytes")
	for i := 0; i < field.N/2; i++ {
		t0 := uint16(a[3*i])
		t1 := uint16(a[3*i+1])
		t2 := uint16(a[3*i+2])
		p[2*i] = int16(t0 | (t1<<8)&0xFFF)
		p[2*i+1] = int16(t1>>4 | t2<<4)
	}
}

// FromMsg sets coefficient 8i+j to HalfQ if bit j of msg[i] is set and to 0
// otherwise. Runs in constant time.
func FromMsg(p *poly.Poly, msg *[MsgBytes]byte) {
	for i := 0; i < MsgBytes; i++ {
		for j := 0; j < 8; j++ {
			p[8*i+j] = field.SelInt16(field.HalfQ, 0, uint16(msg[i]>>j)&1)
		}
	}
}

// ToMsg decodes p, with coefficients in [0, Q), into msg by rounding each
// coefficient to one bit.
func ToMsg(msg *[MsgBytes]byte, p *poly.Poly) {
	for i := 0; i < MsgBytes; i++ {
		msg[i] = 0
		for j := 0; j < 8; j++ {
			msg[i] |= byte(CompressScalar(p[8*i+j], 1)) << j
		}
	}
}
