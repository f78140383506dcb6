package field

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// rInv is 2^(-16) mod Q.
const rInv = 169

func TestConstants(t *testing.T) {
	if Q != 3329 {
		t.Errorf("Q = %d, want 3329", Q)
	}
	if N != 256 {
		t.Errorf("N = %d, want 256", N)
	}
	if (QInv*Q)%65536 != 1 {
		t.Errorf("QInv*Q mod 2^16 = %d, want 1", (QInv*Q)%65536)
	}
	if MontR != (1<<16)%Q {
		t.Errorf("MontR = %d, want %d", MontR, (1<<16)%Q)
	}
	if MontR2 != (1<<32)%Q {
		t.Errorf("MontR2 = %d, want %d", MontR2, (1<<32)%Q)
	}
	if (MontR*rInv)%Q != 1 {
		t.Errorf("rInv is not the inverse of MontR")
	}
	if Exp(Root, 128) != Q-1 {
		t.Errorf("Root^128 = %d, want Q-1", Exp(Root, 128))
	}
}

// Every int16 must land in the signed canonical range with the right residue.
func TestBarrettReduceExhaustive(t *testing.T) {
	for a := math.MinInt16; a <= math.MaxInt16; a++ {
		r := BarrettReduce(int16(a))
		if r < -(Q-1)/2 || r > (Q-1)/2 {
			t.Fatalf("BarrettReduce(%d) = %d out of range", a, r)
		}
		if Mod(int64(r)-int64(a)) != 0 {
			t.Fatalf("BarrettReduce(%d) = %d not congruent", a, r)
		}
	}
}

func TestMontgomeryReduceBoundary(t *testing.T) {
	bound := int32(1<<15) * Q
	tests := []int32{0, 1, -1, Q, -Q, bound - 1, -bound, 12345678, -87654321}
	for _, a := range tests {
		r := MontgomeryReduce(a)
		if r <= -Q || r >= Q {
			t.Errorf("MontgomeryReduce(%d) = %d, want |r| < Q", a, r)
		}
		want := Mod(int64(a) * rInv)
		if Mod(int64(r)) != want {
			t.Errorf("MontgomeryReduce(%d) = %d, want %d mod Q", a, r, want)
		}
	}
}

func TestFqmulProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 2000
	properties := gopter.NewProperties(parameters)

	properties.Property("fqmul is a*b*R^-1 and bounded by Q-1", prop.ForAll(
		func(a, b int16) bool {
			r := Fqmul(a, b)
			if r <= -Q || r >= Q {
				return false
			}
			return Mod(int64(r)) == Mod(int64(a)*int64(b)*rInv)
		},
		gen.Int16(),
		gen.Int16Range(-(Q-1)/2, (Q-1)/2),
	))

	properties.TestingRun(t)
}

func TestToMont(t *testing.T) {
	for _, a := range []int16{0, 1, -1, 1664, -1664, math.MaxInt16, math.MinInt16} {
		r := ToMont(a)
		if r <= -Q || r >= Q {
			t.Errorf("ToMont(%d) = %d out of range", a, r)
		}
		if Mod(int64(r)) != Mod(int64(a)*MontR) {
			t.Errorf("ToMont(%d) = %d, want %d mod Q", a, r, Mod(int64(a)*MontR))
		}
	}
}

func TestSignedToUnsigned(t *testing.T) {
	for a := -(Q - 1); a < Q; a++ {
		r := SignedToUnsigned(int16(a))
		if r < 0 || r >= Q || Mod(int64(a)) != r {
			t.Fatalf("SignedToUnsigned(%d) = %d", a, r)
		}
	}
}

func TestBrv7(t *testing.T) {
	tests := []struct {
		input, want uint8
	}{
		{0, 0},
		{1, 64},
		{2, 32},
		{3, 96},
		{64, 1},
		{127, 127},
	}
	for _, tc := range tests {
		if got := Brv7(tc.input); got != tc.want {
			t.Errorf("Brv7(%d) = %d, want %d", tc.input, got, tc.want)
		}
	}
	for i := 0; i < 128; i++ {
		if Brv7(Brv7(uint8(i))) != uint8(i) {
			t.Errorf("Brv7 is not an involution at %d", i)
		}
	}
}

func TestExp(t *testing.T) {
	// 17 is a primitive 256th root: 17^256 = 1 and 17^128 = -1.
	if Exp(Root, 256) != 1 {
		t.Errorf("Root^256 = %d, want 1", Exp(Root, 256))
	}
	if Exp(3, 0) != 1 {
		t.Errorf("3^0 = %d, want 1", Exp(3, 0))
	}
	if Exp(2, 16) != MontR {
		t.Errorf("2^16 = %d, want %d", Exp(2, 16), MontR)
	}
}
