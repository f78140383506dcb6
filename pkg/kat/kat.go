// Package kat computes digests of deterministic transform runs, so that two
// backends, or two builds of one backend, can be compared by a single hash.
package kat

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/tuneinsight/lattigo/v6/utils/sampling"
	"github.com/zeebo/blake3"

	"mlkem-ring/pkg/field"
	"mlkem-ring/pkg/ntt"
)

// DigestSize is the length of a digest in bytes.
const DigestSize = 32

// ErrInvalidCount is returned for a non-positive number of trials.
var ErrInvalidCount = errors.New("kat: trial count must be positive")

// Digest runs count trials of NTT, MulCacheCompute, BaseMulCached and
// InvNTT on b with inputs drawn from a PRNG keyed by key. Every output is
// mapped to [0, Q) before hashing, so backends that agree modulo Q produce
// the same digest.
func Digest(b ntt.Backend, key []byte, count int) ([DigestSize]byte, error) {
	var out [DigestSize]byte
	if count <= 0 {
		return out, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}

	prng, err := sampling.NewKeyedPRNG(key)
	if err != nil {
		return out, fmt.Errorf("kat: seeding prng: %w", err)
	}

	h := blake3.New()
	buf := make([]byte, 0, 2*field.N)

	for i := 0; i < count; i++ {
		var x, y, r [field.N]int16
		var cache [field.N / 2]int16
		if err := drawPoly(prng, &x); err != nil {
			return out, err
		}
		if err := drawPoly(prng, &y); err != nil {
			return out, err
		}

		b.NTT(&x)
		b.NTT(&y)
		for j := range x {
			x[j] = field.BarrettReduce(x[j])
		}
		b.MulCacheCompute(&cache, &y)
		b.BaseMulCached(&r, &x, &y, &cache)
		b.InvNTT(&r)

		for _, p := range [][]int16{x[:], y[:], cache[:], r[:]} {
			buf = appendCanonical(buf[:0], p)
			if _, err := h.Write(buf); err != nil {
				return out, fmt.Errorf("kat: hashing: %w", err)
			}
		}
	}

	copy(out[:], h.Sum(nil))
	return out, nil
}

// drawPoly fills p with coefficients in [-(Q-1), Q-1].
func drawPoly(prng *sampling.KeyedPRNG, p *[field.N]int16) error {
	var raw [2 * field.N]byte
	if _, err := prng.Read(raw[:]); err != nil {
		return fmt.Errorf("kat: drawing input: %w", err)
	}
	for i := range p {
		v := binary.LittleEndian.Uint16(raw[2*i:])
		p[i] = int16(v%(2*field.Q-1)) - (field.Q - 1)
	}
	return nil
}

func appendCanonical(buf []byte, p []int16) []byte {
	for _, c := range p {
		buf = binary.LittleEndian.AppendUint16(buf, uint16(field.Mod(int64(c))))
	}
	return buf
}
