package transaction

import (
	"encoding/binary"
	"fmt"

	"notemint/keys"
	"notemint/types"
)

// Spend is the record entered into the spentbook when a note is
// consumed: which identity was spent, in which transaction, why, and
// for how much. The amount is carried so verifiers can balance a
// transaction without chasing the note's ancestry.
type Spend struct {
	UniquePubkey keys.UniquePubkey `json:"unique_pubkey"`
	SpentTx      types.Hash        `json:"spent_tx"`
	Reason       types.Hash        `json:"reason"`
	Amount       types.NanoTokens  `json:"amount"`
}

// ToBytes serializes the spend deterministically. This is exactly the
// payload the derived key signs, so every field is covered.
func (s *Spend) ToBytes() []byte {
	buf := make([]byte, 0, len("spend")+keys.PublicKeySize+2*types.HashSize+8)
	buf = append(buf, "spend"...)
	buf = append(buf, s.UniquePubkey.Bytes()...)
	buf = append(buf, s.SpentTx[:]...)
	buf = append(buf, s.Reason[:]...)
	buf = binary.BigEndian.AppendUint64(buf, s.Amount.AsNano())
	return buf
}

// SignedSpend couples a spend with its derived key's signature over
// the serialized spend.
type SignedSpend struct {
	Spend         Spend          `json:"spend"`
	DerivedKeySig keys.Signature `json:"derived_key_sig"`
}

// SignSpend signs the spend payload with the derived key of the note
// being consumed.
func SignSpend(spend Spend, key keys.DerivedSecretKey) (*SignedSpend, error) {
	sig, err := key.Sign(spend.ToBytes())
	if err != nil {
		return nil, fmt.Errorf("sign spend for %s: %w", spend.UniquePubkey, err)
	}
	return &SignedSpend{Spend: spend, DerivedKeySig: sig}, nil
}

// UniquePubkey returns the identity this spend consumes.
func (ss *SignedSpend) UniquePubkey() keys.UniquePubkey {
	return ss.Spend.UniquePubkey
}

// SpentTxHash returns the hash of the transaction the spend commits to.
func (ss *SignedSpend) SpentTxHash() types.Hash {
	return ss.Spend.SpentTx
}

// Amount returns the value the spend releases.
func (ss *SignedSpend) Amount() types.NanoTokens {
	return ss.Spend.Amount
}

// Reason returns the opaque tag the spender attached.
func (ss *SignedSpend) Reason() types.Hash {
	return ss.Spend.Reason
}

// Verify checks that the spend commits to txHash and that the
// signature is valid for the spend's identity.
func (ss *SignedSpend) Verify(txHash types.Hash) error {
	if ss.Spend.SpentTx != txHash {
		return &SpendTxMismatchError{
			ID:       ss.Spend.UniquePubkey,
			Recorded: ss.Spend.SpentTx,
			Actual:   txHash,
		}
	}
	if !ss.Spend.UniquePubkey.Verify(ss.DerivedKeySig, ss.Spend.ToBytes()) {
		return &InvalidSignatureError{ID: ss.Spend.UniquePubkey}
	}
	return nil
}

// Equal reports field-for-field equality of two signed spends.
func (ss *SignedSpend) Equal(other *SignedSpend) bool {
	if ss == nil || other == nil {
		return ss == other
	}
	return ss.Spend.UniquePubkey.Equal(other.Spend.UniquePubkey) &&
		ss.Spend.SpentTx == other.Spend.SpentTx &&
		ss.Spend.Reason == other.Spend.Reason &&
		ss.Spend.Amount == other.Spend.Amount &&
		ss.DerivedKeySig.Equal(other.DerivedKeySig)
}
