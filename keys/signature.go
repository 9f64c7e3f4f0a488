package keys

import (
	"fmt"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"

	"notemint/common"
)

// Signature is a BLS signature on G2, produced by a derived secret key
// over the serialized spend it authorizes.
type Signature struct {
	sig bls12381.G2Affine
}

// SignatureFromBytes decodes a compressed G2 point, rejecting
// encodings off the curve or outside the prime-order subgroup.
func SignatureFromBytes(raw []byte) (Signature, error) {
	if len(raw) != SignatureSize {
		return Signature{}, fmt.Errorf("signature: want %d bytes, got %d", SignatureSize, len(raw))
	}
	var sig bls12381.G2Affine
	if _, err := sig.SetBytes(raw); err != nil {
		return Signature{}, fmt.Errorf("decode signature: %w", err)
	}
	return Signature{sig: sig}, nil
}

// Bytes returns the 96-byte compressed encoding.
func (s Signature) Bytes() []byte {
	raw := s.sig.Bytes()
	return raw[:]
}

func (s Signature) String() string {
	return common.EncodeBytesToBase58(s.Bytes())
}

func (s Signature) Equal(other Signature) bool {
	return s.sig.Equal(&other.sig)
}

func (s Signature) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Signature) UnmarshalText(text []byte) error {
	raw, err := common.DecodeBase58ToBytes(string(text))
	if err != nil {
		return err
	}
	parsed, err := SignatureFromBytes(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
