// Package transfer assembles spendable cash notes into transactions:
// the offline transfer builder, genesis issuance, and sealed envelopes
// for delivering notes to recipients.
package transfer

import (
	"fmt"
	"io"

	"notemint/cashnote"
	"notemint/keys"
	"notemint/logx"
	"notemint/transaction"
	"notemint/types"
)

// Recipient describes one desired output: an amount addressed to a
// master key through a derivation index. The index must be fresh per
// transfer; RandomizedRecipient takes care of that.
type Recipient struct {
	Amount          types.NanoTokens
	To              keys.MainPubkey
	DerivationIndex keys.DerivationIndex
}

// RandomizedRecipient pairs an amount and destination with a fresh
// random derivation index.
func RandomizedRecipient(rand io.Reader, amount types.NanoTokens, to keys.MainPubkey) (Recipient, error) {
	index, err := keys.RandomDerivationIndex(rand)
	if err != nil {
		return Recipient{}, err
	}
	return Recipient{Amount: amount, To: to, DerivationIndex: index}, nil
}

// UniquePubkey returns the one-time identity this recipient's output
// will be granted to.
func (r Recipient) UniquePubkey() keys.UniquePubkey {
	return r.To.NewUniquePubkey(r.DerivationIndex)
}

// InputNote pairs a cash note with the derived key that spends it.
type InputNote struct {
	Note       *cashnote.CashNote
	DerivedKey keys.DerivedSecretKey
}

// OfflineTransfer is a fully signed transfer awaiting submission: the
// transaction, the spend requests the spentbook must record, and the
// notes to hand to recipients once they are recorded. Building one
// changes no state anywhere.
type OfflineTransfer struct {
	Tx               transaction.Transaction
	AllSpendRequests []*transaction.SignedSpend
	CreatedCashNotes []*cashnote.CashNote
}

// CreateOfflineTransfer consumes the given notes in full and grants the
// requested amounts. Inputs always release their entire value; whatever
// is left after funding the recipients returns to changeTo under a
// fresh index. Every spend carries reason. rand feeds the change
// recipient's derivation index.
func CreateOfflineTransfer(rand io.Reader, inputs []InputNote, recipients []Recipient, changeTo keys.MainPubkey, reason types.Hash) (*OfflineTransfer, error) {
	if len(inputs) == 0 {
		return nil, ErrNoInputs
	}
	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}

	available := types.NanoTokens(0)
	seen := make(map[string]bool, len(inputs))
	amounts := make([]types.NanoTokens, 0, len(inputs))
	for _, in := range inputs {
		id := in.Note.UniquePubkey()
		if !in.DerivedKey.UniquePubkey().Equal(id) {
			return nil, fmt.Errorf("%w: %s", ErrKeyNoteMismatch, id)
		}
		key := id.String()
		if seen[key] {
			return nil, fmt.Errorf("%w: %s", transaction.ErrDuplicateInput, id)
		}
		seen[key] = true

		value, err := in.Note.Value()
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", id, err)
		}
		amounts = append(amounts, value)
		available, err = available.CheckedAdd(value)
		if err != nil {
			return nil, fmt.Errorf("sum inputs: %w", err)
		}
	}

	requested := types.NanoTokens(0)
	for _, r := range recipients {
		var err error
		requested, err = requested.CheckedAdd(r.Amount)
		if err != nil {
			return nil, fmt.Errorf("sum recipients: %w", err)
		}
	}
	if available < requested {
		return nil, &InsufficientFundsError{Available: available, Requested: requested}
	}

	outputs := make([]Recipient, len(recipients), len(recipients)+1)
	copy(outputs, recipients)
	if change := available - requested; change > 0 {
		changeIndex, err := keys.RandomDerivationIndex(rand)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, Recipient{
			Amount:          change,
			To:              changeTo,
			DerivationIndex: changeIndex,
		})
	}

	tx := transaction.Transaction{
		Inputs:  make([]keys.UniquePubkey, 0, len(inputs)),
		Outputs: make([]transaction.Output, 0, len(outputs)),
	}
	for _, in := range inputs {
		tx.Inputs = append(tx.Inputs, in.Note.UniquePubkey())
	}
	for _, out := range outputs {
		tx.Outputs = append(tx.Outputs, transaction.Output{
			UniquePubkey: out.UniquePubkey(),
			Amount:       out.Amount,
		})
	}

	txHash := tx.Hash()
	spends := make([]*transaction.SignedSpend, 0, len(inputs))
	for i, in := range inputs {
		signed, err := transaction.SignSpend(transaction.Spend{
			UniquePubkey: in.Note.UniquePubkey(),
			SpentTx:      txHash,
			Reason:       reason,
			Amount:       amounts[i],
		}, in.DerivedKey)
		if err != nil {
			return nil, err
		}
		spends = append(spends, signed)
	}

	notes := make([]*cashnote.CashNote, 0, len(outputs))
	for _, out := range outputs {
		notes = append(notes, &cashnote.CashNote{
			ID:              out.UniquePubkey(),
			MainPubkey:      out.To,
			DerivationIndex: out.DerivationIndex,
			Amount:          out.Amount,
			ParentTx:        tx,
			ParentSpends:    spends,
		})
	}

	logx.Debug("TRANSFER", "built transfer ", txHash.String(),
		" consuming ", len(inputs), " notes into ", len(outputs), " outputs")
	return &OfflineTransfer{
		Tx:               tx,
		AllSpendRequests: spends,
		CreatedCashNotes: notes,
	}, nil
}
