package keys

import (
	"encoding/hex"
	"fmt"
	"io"
)

// DerivationIndexSize is the byte length of a derivation index.
const DerivationIndexSize = 32

// DerivationIndex selects one child key pair under a master key. It is
// not globally secret, but whoever learns it can link the child back to
// the master public key, so indices travel only inside encrypted
// payloads addressed to the recipient.
type DerivationIndex [DerivationIndexSize]byte

// RandomDerivationIndex draws a fresh index from rand. Uniqueness of
// derived identities rests on these being unpredictable.
func RandomDerivationIndex(rand io.Reader) (DerivationIndex, error) {
	var index DerivationIndex
	if _, err := io.ReadFull(rand, index[:]); err != nil {
		return index, fmt.Errorf("read derivation index entropy: %w", err)
	}
	return index, nil
}

// DerivationIndexFromBytes copies a 32-byte slice into an index.
func DerivationIndexFromBytes(raw []byte) (DerivationIndex, error) {
	var index DerivationIndex
	if len(raw) != DerivationIndexSize {
		return index, fmt.Errorf("derivation index: want %d bytes, got %d", DerivationIndexSize, len(raw))
	}
	copy(index[:], raw)
	return index, nil
}

func (ix DerivationIndex) String() string {
	return hex.EncodeToString(ix[:])
}

func (ix DerivationIndex) MarshalText() ([]byte, error) {
	return []byte(ix.String()), nil
}

func (ix *DerivationIndex) UnmarshalText(text []byte) error {
	raw, err := hex.DecodeString(string(text))
	if err != nil {
		return fmt.Errorf("decode derivation index hex: %w", err)
	}
	parsed, err := DerivationIndexFromBytes(raw)
	if err != nil {
		return err
	}
	*ix = parsed
	return nil
}
