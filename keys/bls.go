// Package keys implements the BLS12-381 key scheme the ledger runs on:
// long-lived master key pairs, one-time key pairs derived from them,
// and signatures over spend payloads. A child key pair is obtained by
// multiplying the parent key with a scalar hashed from a 32-byte
// derivation index, so anyone holding only the master public key and
// the index can compute the matching child public key.
package keys

import (
	"fmt"
	"io"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

const (
	// SecretKeySize is the byte length of an encoded secret key.
	SecretKeySize = fr.Bytes
	// PublicKeySize is the byte length of a compressed G1 public key.
	PublicKeySize = bls12381.SizeOfG1AffineCompressed
	// SignatureSize is the byte length of a compressed G2 signature.
	SignatureSize = bls12381.SizeOfG2AffineCompressed
)

// sigDST is the standard ciphersuite tag for BLS signatures on G2.
// deriveDST keeps child-key scalars disjoint from message hashing.
var (
	sigDST    = []byte("BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_NUL_")
	deriveDST = []byte("NOTEMINT_KEY_DERIVE_XMD:SHA-256_SSWU_RO_")
)

var (
	g1Gen    bls12381.G1Affine
	g1GenNeg bls12381.G1Affine
)

func init() {
	_, _, g1Gen, _ = bls12381.Generators()
	g1GenNeg.Neg(&g1Gen)
}

// deriveScalar maps a derivation index to a nonzero field element.
// The mapping must be deterministic: both halves of a key pair are
// derived independently and have to land on the same child.
func deriveScalar(index DerivationIndex) fr.Element {
	elems, err := fr.Hash(index[:], deriveDST, 1)
	if err != nil {
		// fr.Hash fails only when the requested output exceeds the
		// expander limit; a single element never does.
		panic(err)
	}
	scalar := elems[0]
	if scalar.IsZero() {
		scalar.SetOne()
	}
	return scalar
}

// randomScalar draws a nonzero field element from rand. Reducing 64
// bytes mod r keeps the bias negligible.
func randomScalar(rand io.Reader) (fr.Element, error) {
	var scalar fr.Element
	var seed [64]byte
	if _, err := io.ReadFull(rand, seed[:]); err != nil {
		return scalar, fmt.Errorf("read key entropy: %w", err)
	}
	scalar.SetBytes(seed[:])
	if scalar.IsZero() {
		scalar.SetOne()
	}
	return scalar, nil
}
