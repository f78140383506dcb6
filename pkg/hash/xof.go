// Package hash provides the symmetric primitives ML-KEM samples with.
package hash

import (
	"golang.org/x/crypto/sha3"
)

// SymBytes is the size of seeds.
const SymBytes = 32

// XOF provides incremental SHAKE-128 output for seed||x||y, the stream
// matrix entries are sampled from.
type XOF struct {
	h   sha3.ShakeHash
	buf [168]byte // SHAKE128 rate
	pos int
	end int
}

// NewXOF creates a streaming XOF for seed||x||y.
func NewXOF(seed []byte, x, y byte) *XOF {
	xof := &XOF{h: sha3.NewShake128()}
	xof.Reset(seed, x, y)
	return xof
}

// NewXOFReusable creates a reusable streaming XOF. Reset must be called
// before the first read.
func NewXOFReusable() *XOF {
	return &XOF{h: sha3.NewShake128()}
}

// Reset reinitializes the XOF for a new seed||x||y.
func (x *XOF) Reset(seed []byte, i, j byte) {
	x.h.Reset()
	x.h.Write(seed)
	x.h.Write([]byte{i, j})
	x.pos = 0
	x.end = 0
}

// Read3 returns the next 3 bytes from the XOF.
func (x *XOF) Read3() (b0, b1, b2 byte) {
	if x.pos+3 > x.end {
		// Copy leftover bytes to beginning
		leftover := x.end - x.pos
		if leftover > 0 {
			copy(x.buf[:leftover], x.buf[x.pos:x.end])
		}
		// Refill rest of buffer
		n, _ := x.h.Read(x.buf[leftover:])
		x.pos = 0
		x.end = leftover + n
	}
	b0, b1, b2 = x.buf[x.pos], x.buf[x.pos+1], x.buf[x.pos+2]
	x.pos += 3
	return
}

// PRF fills out with SHAKE-256 output for seed||nonce.
func PRF(out []byte, seed []byte, nonce byte) {
	h := sha3.NewShake256()
	h.Write(seed)
	h.Write([]byte{nonce})
	h.Read(out)
}

// PRFx4 runs PRF for four nonces. All outputs must have the same length.
func PRFx4(out *[4][]byte, seed []byte, nonces [4]byte) {
	h := sha3.NewShake256()
	for k := range out {
		if len(out[k]) != len(out[0]) {
			panic("hash: PRFx4 output length mismatch")
		}
		h.Reset()
		h.Write(seed)
		h.Write([]byte{nonces[k]})
		h.Read(out[k])
	}
}

// H returns SHA3-256 of msg.
func H(msg []byte) [32]byte {
	return sha3.Sum256(msg)
}

// G returns SHA3-512 of msg, split into two 32-byte halves.
func G(msg []byte) (rho, sigma [32]byte) {
	d := sha3.Sum512(msg)
	copy(rho[:], d[:32])
	copy(sigma[:], d[32:])
	return
}
