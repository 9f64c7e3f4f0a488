package transaction

import (
	"fmt"

	"github.com/holiman/uint256"
)

// VerifyAgainstInputsSpent checks the transaction against the signed
// spends of its inputs. The set may be a superset; spends for
// unrelated identities are ignored. Checks run in a fixed order so
// callers see the most fundamental failure first: input
// well-formedness, spend completeness, value balance, then per-spend
// commitment and signature.
func (tx *Transaction) VerifyAgainstInputsSpent(spends []*SignedSpend) error {
	if len(tx.Inputs) == 0 {
		return ErrMissingTxInputs
	}
	txHash := tx.Hash()

	seen := make(map[string]bool, len(tx.Inputs))
	for i := range tx.Inputs {
		id := tx.Inputs[i].String()
		if seen[id] {
			return fmt.Errorf("%w: %s", ErrDuplicateInput, id)
		}
		seen[id] = true
	}

	// Index the supplied spends. Should several spends claim the same
	// identity, prefer one committing to this transaction so the later
	// checks report the real conflict instead of an arbitrary one.
	byID := make(map[string]*SignedSpend, len(spends))
	for _, spend := range spends {
		if spend == nil {
			continue
		}
		id := spend.UniquePubkey().String()
		current, ok := byID[id]
		if !ok || (current.SpentTxHash() != txHash && spend.SpentTxHash() == txHash) {
			byID[id] = spend
		}
	}

	matched := make([]*SignedSpend, 0, len(tx.Inputs))
	for i := range tx.Inputs {
		spend, ok := byID[tx.Inputs[i].String()]
		if !ok {
			return &MissingSpendError{ID: tx.Inputs[i]}
		}
		matched = append(matched, spend)
	}

	inputSum := new(uint256.Int)
	for _, spend := range matched {
		inputSum.Add(inputSum, uint256.NewInt(spend.Amount().AsNano()))
	}
	outputSum := new(uint256.Int)
	for i := range tx.Outputs {
		outputSum.Add(outputSum, uint256.NewInt(tx.Outputs[i].Amount.AsNano()))
	}
	if !inputSum.Eq(outputSum) {
		return &BalanceMismatchError{InputSum: inputSum, OutputSum: outputSum}
	}

	for _, spend := range matched {
		if err := spend.Verify(txHash); err != nil {
			return err
		}
	}
	return nil
}
