package wallet

import (
	"crypto/rand"
	"errors"
	"testing"

	"notemint/cashnote"
	"notemint/config"
	"notemint/keys"
	"notemint/spentbook"
	"notemint/transfer"
	"notemint/types"
)

func newTestWallet(t *testing.T) *HotWallet {
	t.Helper()
	master, err := keys.GenerateMainSecretKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate master key: %v", err)
	}
	return NewHotWallet(rand.Reader, master)
}

// mintNotes issues a genesis under a throwaway master and transfers the
// given amounts to to, returning the notes addressed to it in amount
// order.
func mintNotes(t *testing.T, to keys.MainPubkey, amounts ...types.NanoTokens) []*cashnote.CashNote {
	t.Helper()
	genesisMaster, err := keys.GenerateMainSecretKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate genesis master: %v", err)
	}
	genesisNote, err := transfer.NewGenesisCashNote(genesisMaster)
	if err != nil {
		t.Fatalf("issue genesis: %v", err)
	}
	genesisKey, err := genesisNote.DerivedKey(genesisMaster)
	if err != nil {
		t.Fatalf("derive genesis key: %v", err)
	}

	recipients := make([]transfer.Recipient, 0, len(amounts))
	for _, amount := range amounts {
		r, err := transfer.RandomizedRecipient(rand.Reader, amount, to)
		if err != nil {
			t.Fatalf("randomize recipient: %v", err)
		}
		recipients = append(recipients, r)
	}
	built, err := transfer.CreateOfflineTransfer(rand.Reader,
		[]transfer.InputNote{{Note: genesisNote, DerivedKey: genesisKey}},
		recipients, genesisMaster.MainPubkey(), types.Hash{})
	if err != nil {
		t.Fatalf("mint notes: %v", err)
	}

	var minted []*cashnote.CashNote
	for _, note := range built.CreatedCashNotes {
		if note.MainPubkey.Equal(to) {
			minted = append(minted, note)
		}
	}
	if len(minted) != len(amounts) {
		t.Fatalf("minted %d notes, want %d", len(minted), len(amounts))
	}
	return minted
}

func fundWallet(t *testing.T, w *HotWallet, amounts ...types.NanoTokens) {
	t.Helper()
	for _, note := range mintNotes(t, w.MainPubkey(), amounts...) {
		if err := w.Deposit(note); err != nil {
			t.Fatalf("deposit funding note: %v", err)
		}
	}
}

func mustBalance(t *testing.T, w *HotWallet) types.NanoTokens {
	t.Helper()
	balance, err := w.Balance()
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	return balance
}

func TestDepositGenesisAndBalance(t *testing.T) {
	master, err := keys.GenerateMainSecretKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate master key: %v", err)
	}
	w := NewHotWallet(rand.Reader, master)
	note, err := transfer.NewGenesisCashNote(master)
	if err != nil {
		t.Fatalf("issue genesis: %v", err)
	}

	if err := w.Deposit(note); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if got := mustBalance(t, w); got != config.GenesisAmount {
		t.Errorf("balance %s, want %s", got, config.GenesisAmount)
	}

	// Re-depositing the same note must not double the balance.
	if err := w.Deposit(note); err != nil {
		t.Fatalf("re-deposit: %v", err)
	}
	if got := mustBalance(t, w); got != config.GenesisAmount {
		t.Errorf("balance after re-deposit %s, want %s", got, config.GenesisAmount)
	}
}

func TestDepositRejectsForeignNote(t *testing.T) {
	w := newTestWallet(t)
	other := newTestWallet(t)

	note := mintNotes(t, other.MainPubkey(), 100)[0]
	if err := w.Deposit(note); !errors.Is(err, ErrNotOwned) {
		t.Errorf("expected ErrNotOwned, got %v", err)
	}
	if got := mustBalance(t, w); got != 0 {
		t.Errorf("balance %s, want 0", got)
	}
}

func TestDepositRejectsTamperedNote(t *testing.T) {
	w := newTestWallet(t)
	note := mintNotes(t, w.MainPubkey(), 100)[0]

	bad := *note
	bad.Amount++
	if err := w.Deposit(&bad); !errors.Is(err, cashnote.ErrAmountMismatch) {
		t.Errorf("expected ErrAmountMismatch, got %v", err)
	}
	if got := mustBalance(t, w); got != 0 {
		t.Errorf("balance %s, want 0", got)
	}
}

func TestDepositNilNote(t *testing.T) {
	if err := newTestWallet(t).Deposit(nil); !errors.Is(err, ErrNilNote) {
		t.Errorf("expected ErrNilNote, got %v", err)
	}
}

func TestSendUpdatesBothWallets(t *testing.T) {
	sender := newTestWallet(t)
	receiver := newTestWallet(t)
	fundWallet(t, sender, 1000)

	built, err := sender.Send(250, receiver.MainPubkey(), types.HashOf([]byte("rent")))
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := built.Tx.VerifyAgainstInputsSpent(built.AllSpendRequests); err != nil {
		t.Fatalf("built transfer does not verify: %v", err)
	}

	// The spentbook accepts every spend request exactly as built.
	book := spentbook.NewMemorySpentbook()
	for _, spend := range built.AllSpendRequests {
		if err := spentbook.Submit(book, spend); err != nil {
			t.Fatalf("submit spend: %v", err)
		}
	}

	var delivered int
	for _, note := range built.CreatedCashNotes {
		if note.MainPubkey.Equal(receiver.MainPubkey()) {
			if err := receiver.Deposit(note); err != nil {
				t.Fatalf("receiver deposit: %v", err)
			}
			delivered++
		}
	}
	if delivered != 1 {
		t.Fatalf("delivered %d notes to receiver, want 1", delivered)
	}

	if got := mustBalance(t, sender); got != 750 {
		t.Errorf("sender balance %s, want 750 nanos as change", got)
	}
	if got := mustBalance(t, receiver); got != 250 {
		t.Errorf("receiver balance %s, want 250 nanos", got)
	}
}

func TestSendSelectsSmallestNotes(t *testing.T) {
	sender := newTestWallet(t)
	receiver := newTestWallet(t)
	fundWallet(t, sender, 5, 10, 20)

	built, err := sender.Send(4, receiver.MainPubkey(), types.Hash{})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(built.Tx.Inputs) != 1 {
		t.Fatalf("send consumed %d notes, want only the smallest", len(built.Tx.Inputs))
	}
	if got := mustBalance(t, sender); got != 31 {
		t.Errorf("sender balance %s, want 31 nanos", got)
	}

	var amounts []types.NanoTokens
	for _, note := range sender.AvailableNotes() {
		amounts = append(amounts, note.Amount)
	}
	want := []types.NanoTokens{1, 10, 20}
	if len(amounts) != len(want) {
		t.Fatalf("wallet holds %v, want %v", amounts, want)
	}
	for i := range want {
		if amounts[i] != want[i] {
			t.Fatalf("wallet holds %v, want %v", amounts, want)
		}
	}
}

func TestSendInsufficientFunds(t *testing.T) {
	sender := newTestWallet(t)
	fundWallet(t, sender, 10)

	_, err := sender.Send(11, newTestWallet(t).MainPubkey(), types.Hash{})
	var insufficient *transfer.InsufficientFundsError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientFundsError, got %v", err)
	}
	if insufficient.Available != 10 || insufficient.Requested != 11 {
		t.Errorf("error reports %s available / %s requested, want 10 / 11",
			insufficient.Available, insufficient.Requested)
	}
	if got := mustBalance(t, sender); got != 10 {
		t.Errorf("failed send must not touch the wallet, balance %s", got)
	}

	empty := newTestWallet(t)
	if _, err := empty.Send(1, sender.MainPubkey(), types.Hash{}); !errors.As(err, &insufficient) {
		t.Errorf("empty wallet: expected InsufficientFundsError, got %v", err)
	}
}

func TestSendZeroAmount(t *testing.T) {
	sender := newTestWallet(t)
	receiver := newTestWallet(t)
	fundWallet(t, sender, 10)

	built, err := sender.Send(0, receiver.MainPubkey(), types.Hash{})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(built.Tx.Inputs) != 1 {
		t.Errorf("zero send consumed %d notes, want 1", len(built.Tx.Inputs))
	}
	if got := mustBalance(t, sender); got != 10 {
		t.Errorf("sender balance %s, want 10 nanos back as change", got)
	}
}

func TestRedeemSealedTransfer(t *testing.T) {
	sender := newTestWallet(t)
	receiver := newTestWallet(t)
	fundWallet(t, sender, 1000)

	built, err := sender.Send(250, receiver.MainPubkey(), types.Hash{})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	var forReceiver []*cashnote.CashNote
	for _, note := range built.CreatedCashNotes {
		if note.MainPubkey.Equal(receiver.MainPubkey()) {
			forReceiver = append(forReceiver, note)
		}
	}
	sealed, err := transfer.Seal(rand.Reader, receiver.MainPubkey(), forReceiver)
	if err != nil {
		t.Fatalf("seal: %v", err)
	}

	redeemed, err := receiver.Redeem(sealed)
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if redeemed != 250 {
		t.Errorf("redeemed %s, want 250 nanos", redeemed)
	}
	if got := mustBalance(t, receiver); got != 250 {
		t.Errorf("receiver balance %s, want 250 nanos", got)
	}

	// Only the addressed wallet can open the envelope.
	if _, err := newTestWallet(t).Redeem(sealed); err == nil {
		t.Error("foreign wallet must not open the envelope")
	}
}
