package hash

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func readN(x *XOF, n int) []byte {
	out := make([]byte, 0, n)
	for len(out) < n {
		b0, b1, b2 := x.Read3()
		out = append(out, b0, b1, b2)
	}
	return out[:n]
}

// Test XOF with known values from Python
func TestXOFZeros(t *testing.T) {
	got := readN(NewXOF(make([]byte, SymBytes), 0, 0), 32)
	expected, _ := hex.DecodeString("49dfd9809bbc54014aabcc6a9a19f5ed48ad57d91902917201b689782ac6c75e")
	if !bytes.Equal(got, expected) {
		t.Errorf("XOF(zeros, 0, 0) = %x, want %x", got, expected)
	}
}

func TestXOFWithData(t *testing.T) {
	// "abcd" + "00" * 30 = 32 bytes total
	seed, _ := hex.DecodeString("abcd000000000000000000000000000000000000000000000000000000000000")
	got := readN(NewXOF(seed, 1, 2), 32)
	expected, _ := hex.DecodeString("1073078b5b0f35d93b345aae61aba76750aeb2145df7bb20e3bb6fc32d91d62f")
	if !bytes.Equal(got, expected) {
		t.Errorf("XOF with data = %x, want %x", got, expected)
	}
}

// Reads that straddle the 168-byte rate boundary must not lose bytes.
func TestXOFStreamingMatchesReset(t *testing.T) {
	seed := []byte("0123456789abcdef0123456789abcdef")
	a := readN(NewXOF(seed, 3, 1), 600)

	x := NewXOFReusable()
	x.Reset([]byte("other seed"), 0, 0)
	readN(x, 10)
	x.Reset(seed, 3, 1)
	b := readN(x, 600)

	if !bytes.Equal(a, b) {
		t.Error("Reset XOF does not reproduce the fresh stream")
	}
}

// Test PRF (SHAKE-256) with known values from Python
func TestPRF(t *testing.T) {
	out := make([]byte, 32)
	PRF(out, make([]byte, SymBytes), 0)
	expected, _ := hex.DecodeString("c03fcc81e73609875b3b98cb941c7806585af7ce3676be1ac5f5ef96dcd52c5a")
	if !bytes.Equal(out, expected) {
		t.Errorf("PRF(zeros, 0) = %x, want %x", out, expected)
	}
}

func TestPRFx4MatchesPRF(t *testing.T) {
	seed, _ := hex.DecodeString("abcd000000000000000000000000000000000000000000000000000000000000")
	var outs [4][]byte
	for k := range outs {
		outs[k] = make([]byte, 128)
	}
	nonces := [4]byte{7, 8, 9, 200}

	PRFx4(&outs, seed, nonces)

	for k := range outs {
		want := make([]byte, 128)
		PRF(want, seed, nonces[k])
		if !bytes.Equal(outs[k], want) {
			t.Errorf("PRFx4 output %d differs from PRF", k)
		}
	}
	expected, _ := hex.DecodeString("fcdfe4dc288245cd35bb0f973eaa39bfdb1ed9a57ef85a6c1626fa86d8f9d2f9")
	if !bytes.Equal(outs[0][:32], expected) {
		t.Errorf("PRFx4[0] = %x, want %x", outs[0][:32], expected)
	}
}

// Test H and G with known values from Python
func TestHG(t *testing.T) {
	h := H([]byte("test"))
	expected, _ := hex.DecodeString("36f028580bb02cc8272a9a020f4200e346e276ae664e45ee80745574e2f5ab80")
	if !bytes.Equal(h[:], expected) {
		t.Errorf("H('test') = %x, want %x", h, expected)
	}

	rho, sigma := G([]byte("test"))
	wantRho, _ := hex.DecodeString("9ece086e9bac491fac5c1d1046ca11d737b92a2b2ebd93f005d7b710110c0a67")
	wantSigma, _ := hex.DecodeString("8288166e7fbe796883a4f2e9b3ca9f484f521d0ce464345cc1aec96779149c14")
	if !bytes.Equal(rho[:], wantRho) || !bytes.Equal(sigma[:], wantSigma) {
		t.Errorf("G('test') = %x, %x", rho, sigma)
	}
}
