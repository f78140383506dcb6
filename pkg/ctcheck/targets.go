package ctcheck

import (
	"mlkem-ring/pkg/encoding"
	"mlkem-ring/pkg/field"
	"mlkem-ring/pkg/ntt"
	"mlkem-ring/pkg/poly"
)

// Polynomial inputs are PolyBytes of 12-bit packed coefficients, reduced
// into [0, Q) inside the timed region.
func decodePoly(p *poly.Poly, in []byte) {
	encoding.FromBytes(p, in)
	p.Reduce()
}

// Targets returns the secret-dependent operations of the ring, running on b.
func Targets(b ntt.Backend) []Target {
	return []Target{
		{
			Name:      b.Name() + "/ntt",
			InputSize: encoding.PolyBytes,
			Run: func(in []byte) {
				var p poly.Poly
				decodePoly(&p, in)
				b.NTT((*[field.N]int16)(&p))
			},
		},
		{
			Name:      b.Name() + "/invntt",
			InputSize: encoding.PolyBytes,
			Run: func(in []byte) {
				var p poly.Poly
				decodePoly(&p, in)
				b.InvNTT((*[field.N]int16)(&p))
			},
		},
		{
			Name:      b.Name() + "/basemul",
			InputSize: 2 * encoding.PolyBytes,
			Run: func(in []byte) {
				var x, y, r poly.Poly
				var cache [field.N / 2]int16
				decodePoly(&x, in[:encoding.PolyBytes])
				decodePoly(&y, in[encoding.PolyBytes:])
				b.MulCacheCompute(&cache, (*[field.N]int16)(&y))
				b.BaseMulCached((*[field.N]int16)(&r), (*[field.N]int16)(&x), (*[field.N]int16)(&y), &cache)
			},
		},
		{
			Name:      "tomsg",
			InputSize: encoding.PolyBytes,
			Run: func(in []byte) {
				var p poly.Poly
				var msg [encoding.MsgBytes]byte
				decodePoly(&p, in)
				encoding.ToMsg(&msg, &p)
			},
		},
		{
			Name:      "frommsg",
			InputSize: encoding.MsgBytes,
			Run: func(in []byte) {
				var p poly.Poly
				encoding.FromMsg(&p, (*[encoding.MsgBytes]byte)(in))
			},
		},
		{
			Name:      "compress-d4",
			InputSize: encoding.PolyBytes,
			Run: func(in []byte) {
				var p poly.Poly
				var out [field.N / 2]byte
				decodePoly(&p, in)
				encoding.CompressD4(out[:], &p)
			},
		},
		{
			Name:      "memcmp",
			InputSize: 2 * encoding.PolyBytes,
			Run: func(in []byte) {
				field.Memcmp(in[:encoding.PolyBytes], in[encoding.PolyBytes:])
			},
		},
	}
}
