// Package wallet keeps spendable cash notes next to the master secret
// that owns them. It deposits incoming notes, reports the balance,
// builds outgoing transfers, and opens sealed envelopes.
package wallet

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"notemint/cashnote"
	"notemint/keys"
	"notemint/logx"
	"notemint/transfer"
	"notemint/types"
)

var (
	ErrNotOwned = errors.New("cash note is not addressed to this wallet")
	ErrNilNote  = errors.New("cash note cannot be nil")
)

// HotWallet holds its master secret in memory, which suits tests,
// tooling and services that already guard their address space. Nothing
// is persisted; load it through Deposit or Redeem, drain it through
// Send. All methods are safe for concurrent use.
type HotWallet struct {
	mu        sync.Mutex
	key       keys.MainSecretKey
	rand      io.Reader
	available map[string]*cashnote.CashNote
}

// NewHotWallet wraps a master secret. rand feeds derivation indices and
// sealing nonces for outgoing transfers.
func NewHotWallet(rand io.Reader, key keys.MainSecretKey) *HotWallet {
	return &HotWallet{
		key:       key,
		rand:      rand,
		available: make(map[string]*cashnote.CashNote),
	}
}

// MainPubkey returns the address to hand out to senders.
func (w *HotWallet) MainPubkey() keys.MainPubkey {
	return w.key.MainPubkey()
}

// Deposit verifies a note and adds it to the spendable set. Only notes
// addressed to this wallet's master key are accepted; depositing the
// same note twice is harmless.
func (w *HotWallet) Deposit(note *cashnote.CashNote) error {
	if note == nil {
		return ErrNilNote
	}
	if !note.MainPubkey.Equal(w.key.MainPubkey()) {
		return fmt.Errorf("%w: %s", ErrNotOwned, note.UniquePubkey())
	}
	if err := note.Verify(); err != nil {
		return fmt.Errorf("deposit %s: %w", note.UniquePubkey(), err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.available[note.UniquePubkey().String()] = note
	return nil
}

// Balance sums the wallet's spendable notes.
func (w *HotWallet) Balance() (types.NanoTokens, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.balanceLocked()
}

func (w *HotWallet) balanceLocked() (types.NanoTokens, error) {
	total := types.NanoTokens(0)
	for _, note := range w.available {
		var err error
		total, err = total.CheckedAdd(note.Amount)
		if err != nil {
			return 0, err
		}
	}
	return total, nil
}

// AvailableNotes lists the spendable notes, smallest first.
func (w *HotWallet) AvailableNotes() []*cashnote.CashNote {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sortedNotesLocked()
}

func (w *HotWallet) sortedNotesLocked() []*cashnote.CashNote {
	notes := make([]*cashnote.CashNote, 0, len(w.available))
	for _, note := range w.available {
		notes = append(notes, note)
	}
	sort.Slice(notes, func(i, j int) bool {
		if notes[i].Amount != notes[j].Amount {
			return notes[i].Amount < notes[j].Amount
		}
		return notes[i].UniquePubkey().String() < notes[j].UniquePubkey().String()
	})
	return notes
}

// Send builds a transfer of amount to the given master key, spending as
// few notes as possible, smallest first. Change returns to this wallet
// and is retained immediately; the spent notes leave the wallet. The
// caller still has to submit the returned spend requests to a spentbook
// and deliver the recipient's note.
func (w *HotWallet) Send(amount types.NanoTokens, to keys.MainPubkey, reason types.Hash) (*transfer.OfflineTransfer, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	balance, err := w.balanceLocked()
	if err != nil {
		return nil, err
	}
	if balance < amount {
		return nil, &transfer.InsufficientFundsError{Available: balance, Requested: amount}
	}
	if len(w.available) == 0 {
		return nil, transfer.ErrNoInputs
	}

	// Smallest notes first, and always at least one, so zero-amount
	// sends still form a valid transaction.
	var inputs []transfer.InputNote
	selected := types.NanoTokens(0)
	for _, note := range w.sortedNotesLocked() {
		if selected >= amount && len(inputs) > 0 {
			break
		}
		derived, err := note.DerivedKey(w.key)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, transfer.InputNote{Note: note, DerivedKey: derived})
		selected, err = selected.CheckedAdd(note.Amount)
		if err != nil {
			return nil, err
		}
	}

	recipient, err := transfer.RandomizedRecipient(w.rand, amount, to)
	if err != nil {
		return nil, err
	}
	built, err := transfer.CreateOfflineTransfer(w.rand, inputs, []transfer.Recipient{recipient}, w.key.MainPubkey(), reason)
	if err != nil {
		return nil, err
	}

	for _, in := range inputs {
		delete(w.available, in.Note.UniquePubkey().String())
	}
	for _, note := range built.CreatedCashNotes {
		if note.MainPubkey.Equal(w.key.MainPubkey()) {
			w.available[note.UniquePubkey().String()] = note
		}
	}
	logx.Debug("WALLET", "sent ", amount.String(), " to ", to.String(),
		" consuming ", len(inputs), " notes")
	return built, nil
}

// Redeem opens a sealed transfer addressed to this wallet and deposits
// every note inside. It returns the total value redeemed.
func (w *HotWallet) Redeem(sealed *transfer.SealedTransfer) (types.NanoTokens, error) {
	notes, err := sealed.Unseal(w.key)
	if err != nil {
		return 0, err
	}
	total := types.NanoTokens(0)
	for _, note := range notes {
		if err := w.Deposit(note); err != nil {
			return 0, err
		}
		total, err = total.CheckedAdd(note.Amount)
		if err != nil {
			return 0, err
		}
	}
	logx.Info("WALLET", "redeemed ", total.String(), " tokens from sealed transfer")
	return total, nil
}
