// Package params provides the ML-KEM parameter sets and the sizes derived
// from them.
package params

import (
	"errors"
	"fmt"

	"mlkem-ring/pkg/encoding"
)

const (
	// SymBytes is the size of seeds and hashes.
	SymBytes = 32

	// SSBytes is the size of the shared secret.
	SSBytes = 32
)

var (
	// ErrUnsupportedK is returned for module ranks other than 2, 3 and 4.
	ErrUnsupportedK = errors.New("params: unsupported module rank")

	// ErrInvalid is returned by Validate.
	ErrInvalid = errors.New("params: invalid parameter set")
)

// Params describes one ML-KEM parameter set.
type Params struct {
	Name string
	K    int // module rank
	Eta1 int // noise parameter for the secret and first error
	Eta2 int // noise parameter for the remaining errors
	DU   int // compression width of the ciphertext vector
	DV   int // compression width of the ciphertext polynomial
}

const (
	du512, dv512   = 10, 4
	du768, dv768   = 10, 4
	du1024, dv1024 = 11, 5
)

// The compressors exist for du in {10, 11} and dv in {4, 5}. A constant
// conversion to uint of a negative value does not compile.
const (
	_ = uint(du512-10) + uint(11-du512) + uint(dv512-4) + uint(5-dv512)
	_ = uint(du768-10) + uint(11-du768) + uint(dv768-4) + uint(5-dv768)
	_ = uint(du1024-10) + uint(11-du1024) + uint(dv1024-4) + uint(5-dv1024)
)

var (
	MLKEM512  = Params{Name: "ML-KEM-512", K: 2, Eta1: 3, Eta2: 2, DU: du512, DV: dv512}
	MLKEM768  = Params{Name: "ML-KEM-768", K: 3, Eta1: 2, Eta2: 2, DU: du768, DV: dv768}
	MLKEM1024 = Params{Name: "ML-KEM-1024", K: 4, Eta1: 2, Eta2: 2, DU: du1024, DV: dv1024}
)

// ForK returns the parameter set with module rank k.
func ForK(k int) (Params, error) {
	switch k {
	case 2:
		return MLKEM512, nil
	case 3:
		return MLKEM768, nil
	case 4:
		return MLKEM1024, nil
	}
	return Params{}, fmt.Errorf("%w: %d", ErrUnsupportedK, k)
}

// Validate checks that every field has a value the ring code supports.
func (p Params) Validate() error {
	if p.K < 2 || p.K > 4 {
		return fmt.Errorf("%w: %s: %w", ErrInvalid, p.Name, fmt.Errorf("%w: %d", ErrUnsupportedK, p.K))
	}
	if p.Eta1 != 2 && p.Eta1 != 3 {
		return fmt.Errorf("%w: %s: eta1 = %d", ErrInvalid, p.Name, p.Eta1)
	}
	if p.Eta2 != 2 {
		return fmt.Errorf("%w: %s: eta2 = %d", ErrInvalid, p.Name, p.Eta2)
	}
	if p.DU != 10 && p.DU != 11 {
		return fmt.Errorf("%w: %s: du: %w", ErrInvalid, p.Name, unsupportedWidth(p.DU))
	}
	if p.DV != 4 && p.DV != 5 {
		return fmt.Errorf("%w: %s: dv: %w", ErrInvalid, p.Name, unsupportedWidth(p.DV))
	}
	return nil
}

func unsupportedWidth(d int) error {
	return fmt.Errorf("%w: %d", encoding.ErrUnsupportedWidth, d)
}

// PolyVecBytes is the size of an uncompressed vector of K polynomials.
func (p Params) PolyVecBytes() int {
	return p.K * encoding.PolyBytes
}

// PolyCompressedBytesDU is the size of one polynomial compressed to DU bits.
func (p Params) PolyCompressedBytesDU() int {
	return p.DU * 32
}

// PolyCompressedBytesDV is the size of one polynomial compressed to DV bits.
func (p Params) PolyCompressedBytesDV() int {
	return p.DV * 32
}

// PolyVecCompressedBytesDU is the size of the compressed ciphertext vector.
func (p Params) PolyVecCompressedBytesDU() int {
	return p.K * p.PolyCompressedBytesDU()
}

// IndCPAPublicKeyBytes is the size of the public key: t plus the matrix seed.
func (p Params) IndCPAPublicKeyBytes() int {
	return p.PolyVecBytes() + SymBytes
}

// IndCPASecretKeyBytes is the size of the CPA secret key.
func (p Params) IndCPASecretKeyBytes() int {
	return p.PolyVecBytes()
}

// CiphertextBytes is the size of a ciphertext.
func (p Params) CiphertextBytes() int {
	return p.PolyVecCompressedBytesDU() + p.PolyCompressedBytesDV()
}

// PublicKeyBytes is the size of the KEM public key.
func (p Params) PublicKeyBytes() int {
	return p.IndCPAPublicKeyBytes()
}

// SecretKeyBytes is the size of the KEM secret key, which also stores the
// public key, H(pk) and the rejection value.
func (p Params) SecretKeyBytes() int {
	return p.IndCPASecretKeyBytes() + p.IndCPAPublicKeyBytes() + 2*SymBytes
}

// NoiseBytes returns the PRF output length needed to sample a CBD
// polynomial with parameter eta.
func NoiseBytes(eta int) int {
	return eta * 256 / 4
}
