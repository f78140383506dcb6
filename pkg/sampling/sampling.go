// Package sampling provides sampling functions for ML-KEM.
package sampling

import (
	"encoding/binary"
	"errors"
	"fmt"

	"mlkem-ring/pkg/field"
	"mlkem-ring/pkg/hash"
	"mlkem-ring/pkg/params"
	"mlkem-ring/pkg/poly"
	"mlkem-ring/pkg/polyvec"
)

// ErrUnsupportedEta is returned for noise parameters other than 2 and 3.
var ErrUnsupportedEta = errors.New("sampling: unsupported eta")

// CBD2 samples a polynomial from the centered binomial distribution with
// eta = 2 using 128 bytes of buf. Coefficients are in [-2, 2].
func CBD2(p *poly.Poly, buf []byte) {
	if len(buf) != params.NoiseBytes(2) {
		panic("sampling: CBD2: wrong buffer length")
	}
	for i := 0; i < field.N/8; i++ {
		t := binary.LittleEndian.Uint32(buf[4*i:])
		d := t & 0x55555555
		d += (t >> 1) & 0x55555555
		for j := 0; j < 8; j++ {
			a := int16((d >> (4 * j)) & 0x3)
			b := int16((d >> (4*j + 2)) & 0x3)
			p[8*i+j] = a - b
		}
	}
}

// CBD3 samples a polynomial from the centered binomial distribution with
// eta = 3 using 192 bytes of buf. Coefficients are in [-3, 3].
func CBD3(p *poly.Poly, buf []byte) {
	if len(buf) != params.NoiseBytes(3) {
		panic("sampling: CBD3: wrong buffer length")
	}
	for i := 0; i < field.N/4; i++ {
		t := uint32(buf[3*i]) | uint32(buf[3*i+1])<<8 | uint32(buf[3*i+2])<<16
		d := t & 0x00249249
		d += (t >> 1) & 0x00249249
		d += (t >> 2) & 0x00249249
		for j := 0; j < 4; j++ {
			a := int16((d >> (6 * j)) & 0x7)
			b := int16((d >> (6*j + 3)) & 0x7)
			p[4*i+j] = a - b
		}
	}
}

func cbd(p *poly.Poly, buf []byte, eta int) {
	if eta == 2 {
		CBD2(p, buf)
		return
	}
	CBD3(p, buf)
}

func checkEta(eta int) error {
	if eta != 2 && eta != 3 {
		return fmt.Errorf("%w: %d", ErrUnsupportedEta, eta)
	}
	return nil
}

// GetNoise samples p from the centered binomial distribution with parameter
// eta, using PRF(seed, nonce) as randomness.
func GetNoise(p *poly.Poly, eta int, seed []byte, nonce byte) error {
	if err := checkEta(eta); err != nil {
		return err
	}
	buf := make([]byte, params.NoiseBytes(eta))
	hash.PRF(buf, seed, nonce)
	cbd(p, buf, eta)
	return nil
}

// GetNoiseEta1x4 samples four polynomials with parameter eta1 from
// consecutive PRF calls with the given nonces.
func GetNoiseEta1x4(r *[4]*poly.Poly, eta1 int, seed []byte, nonces [4]byte) error {
	if err := checkEta(eta1); err != nil {
		return err
	}
	var bufs [4][]byte
	for k := range bufs {
		bufs[k] = make([]byte, params.NoiseBytes(eta1))
	}
	hash.PRFx4(&bufs, seed, nonces)
	for k := range r {
		cbd(r[k], bufs[k], eta1)
	}
	return nil
}

// GetNoiseEta1122x4 samples r[0] and r[1] with parameter eta1 and r[2] and
// r[3] with eta2 = 2, the mix ML-KEM-512 needs during encryption.
func GetNoiseEta1122x4(r *[4]*poly.Poly, eta1 int, seed []byte, nonces [4]byte) error {
	if err := checkEta(eta1); err != nil {
		return err
	}
	n1 := params.NoiseBytes(eta1)
	n2 := params.NoiseBytes(2)
	for k := range r {
		eta, n := eta1, n1
		if k >= 2 {
			eta, n = 2, n2
		}
		buf := make([]byte, n)
		hash.PRF(buf, seed, nonces[k])
		cbd(r[k], buf, eta)
	}
	return nil
}

// SampleNTT samples a polynomial with uniform coefficients in [0, Q) by
// rejection from the XOF stream. Each 3 bytes give two 12-bit candidates.
// The result is taken to be in NTT form.
func SampleNTT(p *poly.Poly, xof *hash.XOF) {
	i := 0
	for i < field.N {
		b0, b1, b2 := xof.Read3()
		d1 := uint16(b0) | uint16(b1&0xF)<<8
		d2 := uint16(b1>>4) | uint16(b2)<<4
		if d1 < field.Q {
			p[i] = int16(d1)
			i++
		}
		if d2 < field.Q && i < field.N {
			p[i] = int16(d2)
			i++
		}
	}
}

// GenMatrix samples the public k x k matrix A in NTT form from seed.
// Entry (i, j) is read from XOF(seed, j, i), or XOF(seed, i, j) when
// transposed is set.
func GenMatrix(k int, seed []byte, transposed bool) polyvec.Matrix {
	a := polyvec.NewMatrix(k)
	xof := hash.NewXOFReusable()
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			if transposed {
				xof.Reset(seed, byte(i), byte(j))
			} else {
				xof.Reset(seed, byte(j), byte(i))
			}
			SampleNTT(&a[i][j], xof)
		}
	}
	return a
}
