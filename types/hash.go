package types

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// HashSize is the byte length of all content hashes on the ledger.
const HashSize = 32

// Hash is a SHA3-256 digest. It identifies transactions and carries
// opaque spend reason tags.
type Hash [HashSize]byte

// HashOf digests data with SHA3-256.
func HashOf(data []byte) Hash {
	return Hash(sha3.Sum256(data))
}

// Bytes returns the digest as a fresh slice.
func (h Hash) Bytes() []byte {
	out := make([]byte, HashSize)
	copy(out, h[:])
	return out
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// IsZero reports whether h is the all-zero digest, the conventional
// "no reason" tag.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// HashFromHex parses a 64 character hex string into a Hash.
func HashFromHex(s string) (Hash, error) {
	var h Hash
	raw, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("decode hash hex: %w", err)
	}
	if len(raw) != HashSize {
		return h, fmt.Errorf("decode hash: want %d bytes, got %d", HashSize, len(raw))
	}
	copy(h[:], raw)
	return h, nil
}

func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Hash) UnmarshalText(text []byte) error {
	parsed, err := HashFromHex(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
