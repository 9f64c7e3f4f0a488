// Package spentbook implements the ledger's double-spend defense: an
// append-only map from one-time identity to the first signed spend
// recorded for it. Whoever tries to spend an identity twice finds the
// first spend already there, and both records become the evidence.
package spentbook

import (
	"errors"
	"fmt"

	"notemint/keys"
	"notemint/logx"
	"notemint/transaction"
)

// ErrNilSpend rejects nil submissions before they reach a backend.
var ErrNilSpend = errors.New("nil signed spend")

// Spentbook is the insert-if-absent contract every backend satisfies.
//
// InsertIfAbsent records spend under id only when the book holds
// nothing for it yet, and reports what the book holds afterwards:
// (stored, true) on first insert, (existing, false) when id was
// already spent. It never overwrites; two racing inserts for one id
// end with exactly one winner and both callers seeing the same stored
// spend.
type Spentbook interface {
	InsertIfAbsent(id keys.UniquePubkey, spend *transaction.SignedSpend) (*transaction.SignedSpend, bool, error)

	// Get returns the recorded spend, or (nil, nil) when id is unspent.
	Get(id keys.UniquePubkey) (*transaction.SignedSpend, error)
}

// DoubleSpendError carries both sides of a conflict: what the book
// holds and what was attempted. Together the two records prove the
// identity was spent twice.
type DoubleSpendError struct {
	Existing  *transaction.SignedSpend
	Attempted *transaction.SignedSpend
}

func (e *DoubleSpendError) Error() string {
	return fmt.Sprintf("double spend of %s: recorded in tx %s, attempted in tx %s",
		e.Existing.UniquePubkey(), e.Existing.SpentTxHash(), e.Attempted.SpentTxHash())
}

// Submit validates and records a spend. The signature must verify
// under the spend's own identity before anything is written. A retry
// of the already-recorded spend is benign and returns nil; a different
// spend for the same identity returns DoubleSpendError and leaves the
// book untouched.
func Submit(book Spentbook, spend *transaction.SignedSpend) error {
	if spend == nil {
		return ErrNilSpend
	}
	if !spend.UniquePubkey().Verify(spend.DerivedKeySig, spend.Spend.ToBytes()) {
		return &transaction.InvalidSignatureError{ID: spend.UniquePubkey()}
	}

	existing, inserted, err := book.InsertIfAbsent(spend.UniquePubkey(), spend)
	if err != nil {
		return fmt.Errorf("spentbook insert: %w", err)
	}
	if inserted {
		logx.Debug("SPENTBOOK", "recorded spend of ", spend.UniquePubkey().String(),
			" in tx ", spend.SpentTxHash().String())
		return nil
	}
	if existing.Equal(spend) {
		return nil
	}
	logx.Warn("SPENTBOOK", "double spend attempt on ", spend.UniquePubkey().String())
	return &DoubleSpendError{Existing: existing, Attempted: spend}
}
