package ntt

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlkem-ring/pkg/field"
)

func canonical(p *[field.N]int16) [field.N]int16 {
	var out [field.N]int16
	for i, c := range p {
		out[i] = field.Mod(int64(c))
	}
	return out
}

func TestByName(t *testing.T) {
	for _, want := range Backends() {
		got, err := ByName(want.Name())
		require.NoError(t, err)
		assert.Equal(t, want.Name(), got.Name())
	}

	_, err := ByName("avx512")
	assert.True(t, errors.Is(err, ErrUnknownBackend))
}

func TestDefault(t *testing.T) {
	b := Default()
	if hasSIMD() {
		assert.Equal(t, "lanes", b.Name())
	} else {
		assert.Equal(t, "portable", b.Name())
	}
}

func TestDeclaredBoundsWithinContract(t *testing.T) {
	for _, b := range Backends() {
		assert.LessOrEqual(t, b.NTTBound(), int16(NTTBound), b.Name())
		assert.LessOrEqual(t, b.InvNTTBound(), int16(InvNTTBound), b.Name())
	}
}

func TestBackendConformance(t *testing.T) {
	rng := rand.New(rand.NewSource(4))

	for _, b := range Backends()[1:] {
		t.Run(b.Name(), func(t *testing.T) {
			for trial := 0; trial < 200; trial++ {
				p := randomPoly(rng, Bound1)
				if trial%4 == 0 {
					for i := range p {
						p[i] = Bound1 - 2*Bound1*int16(rng.Intn(2))
					}
				}

				ref, got := *p, *p
				NTT(&ref)
				b.NTT(&got)
				require.LessOrEqual(t, AbsMax(got[:]), int32(b.NTTBound()))
				if diff := cmp.Diff(canonical(&ref), canonical(&got)); diff != "" {
					t.Fatalf("trial %d: NTT mismatch mod Q (-portable +%s):\n%s", trial, b.Name(), diff)
				}

				var refCache, gotCache [field.N / 2]int16
				MulCacheCompute(&refCache, &ref)
				b.MulCacheCompute(&gotCache, &ref)
				if diff := cmp.Diff(refCache, gotCache); diff != "" {
					t.Fatalf("trial %d: mulcache mismatch:\n%s", trial, diff)
				}

				a := randomPoly(rng, BaseMulInputBound)
				var refMul, gotMul [field.N]int16
				BaseMulCached(&refMul, a, &ref, &refCache)
				b.BaseMulCached(&gotMul, a, &ref, &gotCache)
				if diff := cmp.Diff(refMul, gotMul); diff != "" {
					t.Fatalf("trial %d: basemul mismatch:\n%s", trial, diff)
				}

				x := randomPoly(rng, 32767)
				ref, got = *x, *x
				InvNTT(&ref)
				b.InvNTT(&got)
				require.LessOrEqual(t, AbsMax(got[:]), int32(b.InvNTTBound()))
				if diff := cmp.Diff(canonical(&ref), canonical(&got)); diff != "" {
					t.Fatalf("trial %d: InvNTT mismatch mod Q:\n%s", trial, diff)
				}
			}
		})
	}
}

func TestLanesNTTOfRange(t *testing.T) {
	var cs [field.N]int16
	for i := range cs {
		cs[i] = int16(i)
	}

	Lanes.NTT(&cs)

	// From Python
	expected := []int16{
		-900, -484, 425, 795, -1464, 1356, 624, 31,
		-846, -1132, -604, -661, -622, 517, 1488, -1135,
	}
	assert.Equal(t, expected, cs[:16])
}

func BenchmarkBackends(b *testing.B) {
	rng := rand.New(rand.NewSource(0))
	p := randomPoly(rng, Bound1)

	for _, be := range Backends() {
		b.Run(be.Name()+"/NTT", func(b *testing.B) {
			var cs [field.N]int16
			for i := 0; i < b.N; i++ {
				cs = *p
				be.NTT(&cs)
			}
		})
		b.Run(be.Name()+"/InvNTT", func(b *testing.B) {
			cs := *p
			for i := 0; i < b.N; i++ {
				be.InvNTT(&cs)
			}
		})
	}
}
