// Package cashnote defines the ledger's value container: an amount
// bound to a one-time identity, carrying the transaction that created
// it and the signed spends that authorized that transaction.
package cashnote

import (
	"errors"
	"fmt"

	"notemint/keys"
	"notemint/transaction"
	"notemint/types"
)

var (
	ErrOutputMissing    = errors.New("unique pubkey not among parent transaction outputs")
	ErrAmountMismatch   = errors.New("cash note amount differs from parent transaction output")
	ErrIdentityMismatch = errors.New("unique pubkey does not derive from main pubkey and index")
	ErrMainKeyMismatch  = errors.New("main key does not match the note's main pubkey")
)

// CashNote is a spendable amount addressed to a one-time identity.
// The recipient recognizes ownership through MainPubkey plus
// DerivationIndex and can re-derive the secret needed to spend it.
// Notes are bearer data: whoever holds the master secret behind
// MainPubkey controls the value.
type CashNote struct {
	ID              keys.UniquePubkey          `json:"unique_pubkey"`
	MainPubkey      keys.MainPubkey            `json:"main_pubkey"`
	DerivationIndex keys.DerivationIndex       `json:"derivation_index"`
	Amount          types.NanoTokens           `json:"amount"`
	ParentTx        transaction.Transaction    `json:"parent_tx"`
	ParentSpends    []*transaction.SignedSpend `json:"parent_spends"`
}

// UniquePubkey returns the note's one-time identity.
func (cn *CashNote) UniquePubkey() keys.UniquePubkey {
	return cn.ID
}

// Value reads the note's worth from its parent transaction rather than
// trusting the cached amount.
func (cn *CashNote) Value() (types.NanoTokens, error) {
	out, ok := cn.ParentTx.OutputFor(cn.ID)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrOutputMissing, cn.ID)
	}
	return out.Amount, nil
}

// DerivedKey re-derives the one-time secret that spends this note. The
// caller must hold the master secret matching the note's main pubkey.
func (cn *CashNote) DerivedKey(master keys.MainSecretKey) (keys.DerivedSecretKey, error) {
	if !master.MainPubkey().Equal(cn.MainPubkey) {
		return keys.DerivedSecretKey{}, ErrMainKeyMismatch
	}
	return master.DeriveKey(cn.DerivationIndex), nil
}

// Verify checks the note's internal consistency: the identity derives
// from the main pubkey and index, the cached amount matches the parent
// transaction, and the embedded parent spends fully authorize the
// parent transaction. A note whose parent has no inputs is an issuance
// root and carries no spends to check. Whether those parent spends
// were actually recorded is a question for the spentbook, not for the
// note itself.
func (cn *CashNote) Verify() error {
	derived := cn.MainPubkey.NewUniquePubkey(cn.DerivationIndex)
	if !derived.Equal(cn.ID) {
		return fmt.Errorf("%w: %s", ErrIdentityMismatch, cn.ID)
	}
	value, err := cn.Value()
	if err != nil {
		return err
	}
	if value != cn.Amount {
		return fmt.Errorf("%w: note says %s, parent grants %s", ErrAmountMismatch, cn.Amount, value)
	}
	if len(cn.ParentTx.Inputs) == 0 {
		return nil
	}
	if err := cn.ParentTx.VerifyAgainstInputsSpent(cn.ParentSpends); err != nil {
		return fmt.Errorf("parent transaction of %s: %w", cn.ID, err)
	}
	return nil
}
