// Package transaction defines the ledger's value-moving unit: a pure
// transaction relating consumed note identities to created outputs,
// the signed spends that authorize it, and the verifier that checks a
// transaction against those spends.
package transaction

import (
	"encoding/binary"

	"notemint/keys"
	"notemint/types"
)

// Output grants an amount to a freshly derived one-time identity.
type Output struct {
	UniquePubkey keys.UniquePubkey `json:"unique_pubkey"`
	Amount       types.NanoTokens  `json:"amount"`
}

// Transaction lists the identities it consumes and the outputs it
// creates. Nothing in it is signed directly; authorization lives in
// the signed spends, which commit to this transaction's hash.
type Transaction struct {
	Inputs  []keys.UniquePubkey `json:"inputs"`
	Outputs []Output            `json:"outputs"`
}

// ToBytes serializes the transaction for hashing: domain tags followed
// by fixed-width field encodings. This layout is the hash preimage and
// must never change.
func (tx *Transaction) ToBytes() []byte {
	size := len("inputs") + len("outputs") +
		len(tx.Inputs)*keys.PublicKeySize +
		len(tx.Outputs)*(keys.PublicKeySize+8)
	buf := make([]byte, 0, size)
	buf = append(buf, "inputs"...)
	for i := range tx.Inputs {
		buf = append(buf, tx.Inputs[i].Bytes()...)
	}
	buf = append(buf, "outputs"...)
	for i := range tx.Outputs {
		buf = append(buf, tx.Outputs[i].UniquePubkey.Bytes()...)
		buf = binary.BigEndian.AppendUint64(buf, tx.Outputs[i].Amount.AsNano())
	}
	return buf
}

// Hash returns the SHA3-256 digest of the serialized transaction.
func (tx *Transaction) Hash() types.Hash {
	return types.HashOf(tx.ToBytes())
}

// OutputFor returns the output granted to id, if any.
func (tx *Transaction) OutputFor(id keys.UniquePubkey) (Output, bool) {
	for i := range tx.Outputs {
		if tx.Outputs[i].UniquePubkey.Equal(id) {
			return tx.Outputs[i], true
		}
	}
	return Output{}, false
}
