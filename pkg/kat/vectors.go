package kat

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"mlkem-ring/pkg/field"
	"mlkem-ring/pkg/ntt"
)

// ErrMismatch is returned by Check when a backend disagrees with a vector.
var ErrMismatch = errors.New("kat: output mismatch")

// Vector is one known-answer case. Each field holds 256 little-endian int16
// coefficients, hex encoded. A and B lie in [-(Q-1), Q-1]; NTTA and Product
// are canonical, in [0, Q).
type Vector struct {
	A       string `json:"a"`
	B       string `json:"b"`
	NTTA    string `json:"ntt_a"`
	Product string `json:"product"`
}

// LoadVectors reads a JSON array of vectors from path.
func LoadVectors(path string) ([]Vector, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var vs []Vector
	if err := json.Unmarshal(data, &vs); err != nil {
		return nil, fmt.Errorf("kat: parsing %s: %w", path, err)
	}
	return vs, nil
}

func decodeCoeffs(s string) (*[field.N]int16, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("kat: decoding coefficients: %w", err)
	}
	if len(raw) != 2*field.N {
		return nil, fmt.Errorf("kat: got %d bytes of coefficients, want %d", len(raw), 2*field.N)
	}
	var p [field.N]int16
	for i := range p {
		p[i] = int16(binary.LittleEndian.Uint16(raw[2*i:]))
	}
	return &p, nil
}

func firstDiff(got *[field.N]int16, want *[field.N]int16) int {
	for i := range got {
		if field.Mod(int64(got[i])) != want[i] {
			return i
		}
	}
	return -1
}

// Check runs b on v: the forward transform of A, and the product A*B
// through NTT, BaseMulCached and InvNTT.
func Check(b ntt.Backend, v Vector) error {
	a, err := decodeCoeffs(v.A)
	if err != nil {
		return err
	}
	bp, err := decodeCoeffs(v.B)
	if err != nil {
		return err
	}
	wantNTT, err := decodeCoeffs(v.NTTA)
	if err != nil {
		return err
	}
	wantProduct, err := decodeCoeffs(v.Product)
	if err != nil {
		return err
	}

	b.NTT(a)
	if i := firstDiff(a, wantNTT); i >= 0 {
		return fmt.Errorf("%w: %s NTT[%d] = %d, want %d", ErrMismatch, b.Name(), i, a[i], wantNTT[i])
	}

	for i := range a {
		a[i] = field.BarrettReduce(a[i])
	}
	b.NTT(bp)
	var cache [field.N / 2]int16
	var r [field.N]int16
	b.MulCacheCompute(&cache, bp)
	b.BaseMulCached(&r, a, bp, &cache)
	b.InvNTT(&r)
	if i := firstDiff(&r, wantProduct); i >= 0 {
		return fmt.Errorf("%w: %s product[%d] = %d, want %d", ErrMismatch, b.Name(), i, r[i], wantProduct[i])
	}
	return nil
}
