package encoding

import (
	"errors"
	"fmt"

	"mlkem-ring/pkg/field"
	"mlkem-ring/pkg/poly"
)

// ErrUnsupportedWidth is returned for compression widths other than 4, 5,
// 10 and 11.
var ErrUnsupportedWidth = errors.New("encoding: unsupported compression width")

// compressMagic is round(2^32 / Q). Multiplying by it and shifting by 32
// divides by Q exactly for every numerator CompressScalar produces.
const compressMagic = 1290168

// CompressScalar returns round(x * 2^d / Q) mod 2^d for x in [0, Q) and
// 1 <= d <= 11. It does not divide, so it runs in constant time.
func CompressScalar(x int16, d uint) uint16 {
	n := uint64(uint32(x)<<d) + (field.Q-1)/2
	return uint16((n*compressMagic)>>32) & (1<<d - 1)
}

// DecompressScalar returns round(c * Q / 2^d) for c in [0, 2^d).
func DecompressScalar(c uint16, d uint) int16 {
	return int16((uint32(c)*field.Q + 1<<(d-1)) >> d)
}

// CompressedSize returns the packed size of a polynomial compressed to d
// bits per coefficient.
func CompressedSize(d int) (int, error) {
	switch d {
	case 4, 5, 10, 11:
		return d * field.N / 8, nil
	}
	return 0, fmt.Errorf("%w: %d", ErrUnsupportedWidth, d)
}

// CompressD4 compresses p, with coefficients in [0, Q), to 4 bits each.
func CompressD4(r []byte, p *poly.Poly) {
	checkLen(r, 128, "CompressD4")
	for i := 0; i < field.N/2; i++ {
		t0 := CompressScalar(p[2*i], 4)
		t1 := CompressScalar(p[2*i+1], 4)
		r[i] = byte(t0 | t1<<4)
	}
}

// DecompressD4 is the inverse of CompressD4 up to rounding.
func DecompressD4(p *poly.Poly, a []byte) {
	checkLen(a, 128, "DecompressD4")
	for i := 0; i < field.N/2; i++ {
		p[2*i] = DecompressScalar(uint16(a[i]&0xF), 4)
		p[2*i+1] = DecompressScalar(uint16(a[i]>>4), 4)
	}
}

// CompressD5 compresses p, with coefficients in [0, Q), to 5 bits each.
func CompressD5(r []byte, p *poly.Poly) {
	checkLen(r, 160, "CompressD5")
	var t [8]uint16
	for i := 0; i < field.N/8; i++ {
		for j := 0; j < 8; j++ {
			t[j] = CompressScalar(p[8*i+j], 5)
		}
		r[5*i] = byte(t[0] | t[1]<<5)
		r[5*i+1] = byte(t[1]>>3 | t[2]<<2 | t[3]<<7)
		r[5*i+2] = byte(t[3]>>1 | t[4]<<4)
		r[5*i+3] = byte(t[4]>>4 | t[5]<<1 | t[6]<<6)
		r[5*i+4] = byte(t[6]>>2 | t[7]<<3)
	}
}

// DecompressD5 is the inverse of CompressD5 up to rounding.
func DecompressD5(p *poly.Poly, a []byte) {
	checkLen(a, 160, "DecompressD5")
	var t [8]uint16
	for i := 0; i < field.N/8; i++ {
		b := a[5*i : 5*i+5]
		t[0] = uint16(b[0])
		t[1] = uint16(b[0])>>5 | uint16(b[1])<<3
		t[2] = uint16(b[1]) >> 2
		t[3] = uint16(b[1])>>7 | uint16(b[2])<<1
		t[4] = uint16(b[2])>>4 | uint16(b[3])<<4
		t[5] = uint16(b[3]) >> 1
		t[6] = uint16(b[3])>>6 | uint16(b[4])<<2
		t[7] = uint16(b[4]) >> 3
		for j := 0; j < 8; j++ {
			p[8*i+j] = DecompressScalar(t[j]&0x1F, 5)
		}
	}
}

// CompressD10 compresses p, with coefficients in [0, Q), to 10 bits each.
func CompressD10(r []byte, p *poly.Poly) {
	checkLen(r, 320, "CompressD10")
	var t [4]uint16
	for i := 0; i < field.N/4; i++ {
		for j := 0; j < 4; j++ {
			t[j] = CompressScalar(p[4*i+j], 10)
		}
		r[5*i] = byte(t[0])
		r[5*i+1] = byte(t[0]>>8 | t[1]<<2)
		r[5*i+2] = byte(t[1]>>6 | t[2]<<4)
		r[5*i+3] = byte(t[2]>>4 | t[3]<<6)
		r[5*i+4] = byte(t[3] >> 2)
	}
}

// DecompressD10 is the inverse of CompressD10 up to rounding.
func DecompressD10(p *poly.Poly, a []byte) {
	checkLen(a, 320, "DecompressD10")
	var t [4]uint16
	for i := 0; i < field.N/4; i++ {
		b := a[5*i : 5*i+5]
		t[0] = uint16(b[0]) | uint16(b[1])<<8
		t[1] = uint16(b[1])>>2 | uint16(b[2])<<6
		t[2] = uint16(b[2])>>4 | uint16(b[3])<<4
		t[3] = uint16(b[3])>>6 | uint16(b[4])<<2
		for j := 0; j < 4; j++ {
			p[4*i+j] = DecompressScalar(t[j]&0x3FF, 10)
		}
	}
}

// CompressD11 compresses p, with coefficients in [0, Q), to 11 bits each.
func CompressD11(r []byte, p *poly.Poly) {
	checkLen(r, 352, "CompressD11")
	var t [8]uint16
	for i := 0; i < field.N/8; i++ {
		for j := 0; j < 8; j++ {
			t[j] = CompressScalar(p[8*i+j], 11)
		}
		r[11*i] = byte(t[0])
		r[11*i+1] = byte(t[0]>>8 | t[1]<<3)
		r[11*i+2] = byte(t[1]>>5 | t[2]<<6)
		r[11*i+3] = byte(t[2] >> 2)
		r[11*i+4] = byte(t[2]>>10 | t[3]<<1)
		r[11*i+5] = byte(t[3]>>7 | t[4]<<4)
		r[11*i+6] = byte(t[4]>>4 | t[5]<<7)
		r[11*i+7] = byte(t[5] >> 1)
		r[11*i+8] = byte(t[5]>>9 | t[6]<<2)
		r[11*i+9] = byte(t[6]>>6 | t[7]<<5)
		r[11*i+10] = byte(t[7] >> 3)
	}
}

// DecompressD11 is the inverse of CompressD11 up to rounding.
func DecompressD11(p *poly.Poly, a []byte) {
	checkLen(a, 352, "DecompressD11")
	var t [8]uint16
	for i := 0; i < field.N/8; i++ {
		b := a[11*i : 11*i+11]
		t[0] = uint16(b[0]) | uint16(b[1])<<8
		t[1] = uint16(b[1])>>3 | uint16(b[2])<<5
		t[2] = uint16(b[2])>>6 | uint16(b[3])<<2 | uint16(b[4])<<10
		t[3] = uint16(b[4])>>1 | uint16(b[5])<<7
		t[4] = uint16(b[5])>>4 | uint16(b[6])<<4
		t[5] = uint16(b[6])>>7 | uint16(b[7])<<1 | uint16(b[8])<<9
		t[6] = uint16(b[8])>>2 | uint16(b[9])<<6
		t[7] = uint16(b[9])>>5 | uint16(b[10])<<3
		for j := 0; j < 8; j++ {
			p[8*i+j] = DecompressScalar(t[j]&0x7FF, 11)
		}
	}
}

// Compress dispatches to the fixed-width compressor for d.
func Compress(r []byte, p *poly.Poly, d int) error {
	switch d {
	case 4:
		CompressD4(r, p)
	case 5:
		CompressD5(r, p)
	case 10:
		CompressD10(r, p)
	case 11:
		CompressD11(r, p)
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedWidth, d)
	}
	return nil
}

// Decompress dispatches to the fixed-width decompressor for d.
func Decompress(p *poly.Poly, a []byte, d int) error {
	switch d {
	case 4:
		DecompressD4(p, a)
	case 5:
		DecompressD5(p, a)
	case 10:
		DecompressD10(p, a)
	case 11:
		DecompressD11(p, a)
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedWidth, d)
	}
	return nil
}
