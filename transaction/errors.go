package transaction

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"

	"notemint/keys"
	"notemint/types"
)

var (
	ErrMissingTxInputs = errors.New("transaction has no inputs")
	ErrDuplicateInput  = errors.New("duplicate input identity in transaction")
)

// MissingSpendError reports an input with no signed spend in the
// supplied set.
type MissingSpendError struct {
	ID keys.UniquePubkey
}

func (e *MissingSpendError) Error() string {
	return fmt.Sprintf("no signed spend supplied for input %s", e.ID)
}

// SpendTxMismatchError reports a spend that commits to a different
// transaction than the one under verification.
type SpendTxMismatchError struct {
	ID       keys.UniquePubkey
	Recorded types.Hash
	Actual   types.Hash
}

func (e *SpendTxMismatchError) Error() string {
	return fmt.Sprintf("spend of %s commits to tx %s, not %s", e.ID, e.Recorded, e.Actual)
}

// InvalidSignatureError reports a spend whose signature does not verify
// under its own identity.
type InvalidSignatureError struct {
	ID keys.UniquePubkey
}

func (e *InvalidSignatureError) Error() string {
	return fmt.Sprintf("invalid spend signature for %s", e.ID)
}

// BalanceMismatchError reports a transaction whose consumed and created
// value differ. The sums are kept wide so the error itself can never
// overflow.
type BalanceMismatchError struct {
	InputSum  *uint256.Int
	OutputSum *uint256.Int
}

func (e *BalanceMismatchError) Error() string {
	return fmt.Sprintf("transaction does not balance: inputs %s, outputs %s", e.InputSum, e.OutputSum)
}
