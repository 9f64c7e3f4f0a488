package keys

import (
	"encoding/hex"
	"fmt"
	"io"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"golang.org/x/crypto/sha3"

	"notemint/common"
)

// MainSecretKey is a holder's long-lived master secret. It never signs
// ledger data itself; every spend is signed by a one-time key derived
// from it.
type MainSecretKey struct {
	sk fr.Element
}

// GenerateMainSecretKey creates a master secret from the given entropy
// source, usually crypto/rand.Reader.
func GenerateMainSecretKey(rand io.Reader) (MainSecretKey, error) {
	scalar, err := randomScalar(rand)
	if err != nil {
		return MainSecretKey{}, err
	}
	return MainSecretKey{sk: scalar}, nil
}

// MainSecretKeyFromBytes restores a master secret from its 32-byte
// big-endian encoding. Non-canonical encodings are rejected.
func MainSecretKeyFromBytes(raw []byte) (MainSecretKey, error) {
	if len(raw) != SecretKeySize {
		return MainSecretKey{}, fmt.Errorf("secret key: want %d bytes, got %d", SecretKeySize, len(raw))
	}
	var scalar fr.Element
	if err := scalar.SetBytesCanonical(raw); err != nil {
		return MainSecretKey{}, fmt.Errorf("decode secret key: %w", err)
	}
	if scalar.IsZero() {
		return MainSecretKey{}, fmt.Errorf("decode secret key: zero scalar")
	}
	return MainSecretKey{sk: scalar}, nil
}

// MainSecretKeyFromHex restores a master secret from a hex string, the
// on-disk key file format.
func MainSecretKeyFromHex(s string) (MainSecretKey, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return MainSecretKey{}, fmt.Errorf("decode secret key hex: %w", err)
	}
	return MainSecretKeyFromBytes(raw)
}

// Bytes returns the 32-byte big-endian encoding of the secret scalar.
func (sk MainSecretKey) Bytes() []byte {
	raw := sk.sk.Bytes()
	return raw[:]
}

// Hex renders the secret scalar for key files. Handle with care.
func (sk MainSecretKey) Hex() string {
	return hex.EncodeToString(sk.Bytes())
}

// MainPubkey returns the public half of the master key pair.
func (sk MainSecretKey) MainPubkey() MainPubkey {
	var exp big.Int
	sk.sk.BigInt(&exp)
	var pk bls12381.G1Affine
	pk.ScalarMultiplication(&g1Gen, &exp)
	return MainPubkey{pk: pk}
}

// DeriveKey returns the one-time secret key selected by index:
// child = master * scalar(index). The matching public key is
// independently computable via MainPubkey.NewUniquePubkey.
func (sk MainSecretKey) DeriveKey(index DerivationIndex) DerivedSecretKey {
	tweak := deriveScalar(index)
	var child fr.Element
	child.Mul(&sk.sk, &tweak)
	return DerivedSecretKey{sk: child}
}

// SharedSecret performs a Diffie-Hellman agreement against peer and
// hashes the resulting point into a 32-byte symmetric key. Both sides
// of a sealed transfer land on the same key.
func (sk MainSecretKey) SharedSecret(peer MainPubkey) [32]byte {
	var exp big.Int
	sk.sk.BigInt(&exp)
	var point bls12381.G1Affine
	point.ScalarMultiplication(&peer.pk, &exp)
	compressed := point.Bytes()
	return sha3.Sum256(compressed[:])
}

// MainPubkey is the public half of a master key pair: the stable
// address funds are sent toward. It never appears on the ledger; only
// identities derived from it do.
type MainPubkey struct {
	pk bls12381.G1Affine
}

// MainPubkeyFromBytes decodes a compressed G1 point, rejecting
// encodings off the curve or outside the prime-order subgroup.
func MainPubkeyFromBytes(raw []byte) (MainPubkey, error) {
	if len(raw) != PublicKeySize {
		return MainPubkey{}, fmt.Errorf("main pubkey: want %d bytes, got %d", PublicKeySize, len(raw))
	}
	var pk bls12381.G1Affine
	if _, err := pk.SetBytes(raw); err != nil {
		return MainPubkey{}, fmt.Errorf("decode main pubkey: %w", err)
	}
	return MainPubkey{pk: pk}, nil
}

// MainPubkeyFromHex decodes a compressed G1 point from hex, the format
// genesis configuration files carry.
func MainPubkeyFromHex(s string) (MainPubkey, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return MainPubkey{}, fmt.Errorf("decode main pubkey hex: %w", err)
	}
	return MainPubkeyFromBytes(raw)
}

// NewUniquePubkey returns the one-time public identity selected by
// index: child = [scalar(index)]master. No secret material is needed,
// which is what lets senders mint identities for a recipient.
func (pk MainPubkey) NewUniquePubkey(index DerivationIndex) UniquePubkey {
	tweak := deriveScalar(index)
	var exp big.Int
	tweak.BigInt(&exp)
	var child bls12381.G1Affine
	child.ScalarMultiplication(&pk.pk, &exp)
	return UniquePubkey{pk: child}
}

// Bytes returns the 48-byte compressed encoding.
func (pk MainPubkey) Bytes() []byte {
	raw := pk.pk.Bytes()
	return raw[:]
}

func (pk MainPubkey) Hex() string {
	return hex.EncodeToString(pk.Bytes())
}

// String renders the key as base58, the address form shown to users.
func (pk MainPubkey) String() string {
	return common.EncodeBytesToBase58(pk.Bytes())
}

func (pk MainPubkey) Equal(other MainPubkey) bool {
	return pk.pk.Equal(&other.pk)
}

func (pk MainPubkey) MarshalText() ([]byte, error) {
	return []byte(pk.String()), nil
}

func (pk *MainPubkey) UnmarshalText(text []byte) error {
	raw, err := common.DecodeBase58ToBytes(string(text))
	if err != nil {
		return err
	}
	parsed, err := MainPubkeyFromBytes(raw)
	if err != nil {
		return err
	}
	*pk = parsed
	return nil
}
