package ntt

import (
	"errors"
	"fmt"

	"mlkem-ring/pkg/field"
)

// ErrUnknownBackend is returned by ByName for names that match no backend.
var ErrUnknownBackend = errors.New("ntt: unknown backend")

// Backend is one implementation of the transform and the cached base
// multiplication. Implementations must agree with Portable modulo Q on NTT
// and InvNTT, and exactly on MulCacheCompute and BaseMulCached. Their
// declared bounds may be tighter than the package-level contract, never
// looser.
type Backend interface {
	Name() string
	NTT(r *[field.N]int16)
	InvNTT(r *[field.N]int16)
	MulCacheCompute(x *[field.N / 2]int16, b *[field.N]int16)
	BaseMulCached(r, a, b *[field.N]int16, bCache *[field.N / 2]int16)
	NTTBound() int16
	InvNTTBound() int16
}

type portable struct{}

func (portable) Name() string { return "portable" }
func (portable) NTT(r *[field.N]int16) { NTT(r) }
func (portable) InvNTT(r *[field.N]int16) { InvNTT(r) }
func (portable) NTTBound() int16 { return NTTBound }
func (portable) InvNTTBound() int16 { return InvNTTBound }
func (portable) MulCacheCompute(x *[field.N / 2]int16, b *[field.N]int16) {
	MulCacheCompute(x, b)
}
func (portable) BaseMulCached(r, a, b *[field.N]int16, bCache *[field.N / 2]int16) {
	BaseMulCached(r, a, b, bCache)
}

type lanesBackend struct{}

func (lanesBackend) Name() string { return "lanes" }
func (lanesBackend) NTT(r *[field.N]int16) { lanesNTT(r) }
func (lanesBackend) InvNTT(r *[field.N]int16) { lanesInvNTT(r) }
func (lanesBackend) NTTBound() int16 { return lanesNTTBound }
func (lanesBackend) InvNTTBound() int16 { return lanesInvNTTBound }

// The base multiplication is already lane-parallel per block of four and
// shared with the portable code.
func (lanesBackend) MulCacheCompute(x *[field.N / 2]int16, b *[field.N]int16) {
	MulCacheCompute(x, b)
}
func (lanesBackend) BaseMulCached(r, a, b *[field.N]int16, bCache *[field.N / 2]int16) {
	BaseMulCached(r, a, b, bCache)
}

var (
	// Portable is the reference layer-merged implementation.
	Portable Backend = portable{}

	// Lanes processes eight coefficients per step and reduces eagerly.
	Lanes Backend = lanesBackend{}
)

// Backends lists every available backend, reference first.
func Backends() []Backend {
	return []Backend{Portable, Lanes}
}

// ByName returns the backend called name.
func ByName(name string) (Backend, error) {
	for _, b := range Backends() {
		if b.Name() == name {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
}

// Default returns Lanes when the CPU has 128-bit SIMD and the purego build
// tag is absent, Portable otherwise.
func Default() Backend {
	if hasSIMD() {
		return Lanes
	}
	return Portable
}
