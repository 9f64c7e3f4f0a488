package keys

import (
	"fmt"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"notemint/common"
)

// DerivedSecretKey is a one-time secret key. It authorizes the spend of
// exactly one cash note and is thrown away afterwards; it can always be
// re-derived from the master secret and the note's derivation index.
type DerivedSecretKey struct {
	sk fr.Element
}

// UniquePubkey returns the public identity this key signs for.
func (dk DerivedSecretKey) UniquePubkey() UniquePubkey {
	var exp big.Int
	dk.sk.BigInt(&exp)
	var pk bls12381.G1Affine
	pk.ScalarMultiplication(&g1Gen, &exp)
	return UniquePubkey{pk: pk}
}

// Sign produces a BLS signature over msg: [sk]HashToG2(msg).
func (dk DerivedSecretKey) Sign(msg []byte) (Signature, error) {
	point, err := bls12381.HashToG2(msg, sigDST)
	if err != nil {
		return Signature{}, fmt.Errorf("hash message to curve: %w", err)
	}
	var exp big.Int
	dk.sk.BigInt(&exp)
	var sig bls12381.G2Affine
	sig.ScalarMultiplication(&point, &exp)
	return Signature{sig: sig}, nil
}

// UniquePubkey is the one-time public identity of a single cash note
// and the primary key of the spentbook. Two notes never share one.
type UniquePubkey struct {
	pk bls12381.G1Affine
}

// UniquePubkeyFromBytes decodes a compressed G1 point, rejecting
// encodings off the curve or outside the prime-order subgroup.
func UniquePubkeyFromBytes(raw []byte) (UniquePubkey, error) {
	if len(raw) != PublicKeySize {
		return UniquePubkey{}, fmt.Errorf("unique pubkey: want %d bytes, got %d", PublicKeySize, len(raw))
	}
	var pk bls12381.G1Affine
	if _, err := pk.SetBytes(raw); err != nil {
		return UniquePubkey{}, fmt.Errorf("decode unique pubkey: %w", err)
	}
	return UniquePubkey{pk: pk}, nil
}

// Verify reports whether sig is a valid signature over msg by the
// secret key behind this identity.
func (u UniquePubkey) Verify(sig Signature, msg []byte) bool {
	if u.pk.IsInfinity() || sig.sig.IsInfinity() {
		return false
	}
	point, err := bls12381.HashToG2(msg, sigDST)
	if err != nil {
		return false
	}
	// e(pk, H(m)) == e(g1, sig), folded into one product check.
	ok, err := bls12381.PairingCheck(
		[]bls12381.G1Affine{u.pk, g1GenNeg},
		[]bls12381.G2Affine{point, sig.sig},
	)
	return err == nil && ok
}

// Bytes returns the 48-byte compressed encoding.
func (u UniquePubkey) Bytes() []byte {
	raw := u.pk.Bytes()
	return raw[:]
}

// String renders the identity as base58, the form logs and stores key
// spends under.
func (u UniquePubkey) String() string {
	return common.EncodeBytesToBase58(u.Bytes())
}

func (u UniquePubkey) Equal(other UniquePubkey) bool {
	return u.pk.Equal(&other.pk)
}

func (u UniquePubkey) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

func (u *UniquePubkey) UnmarshalText(text []byte) error {
	raw, err := common.DecodeBase58ToBytes(string(text))
	if err != nil {
		return err
	}
	parsed, err := UniquePubkeyFromBytes(raw)
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
