package transfer

import (
	"fmt"

	"notemint/cashnote"
	"notemint/config"
	"notemint/keys"
	"notemint/logx"
	"notemint/transaction"
)

// GenesisDerivationIndex is the fixed, well-known index of the genesis
// cash note. Given the published genesis master pubkey, anyone can
// recompute the genesis identity.
var GenesisDerivationIndex = keys.DerivationIndex{}

// NewGenesisCashNote issues the entire supply to master in a single
// note. Its parent transaction has no inputs: the note is the ledger's
// issuance root, the only value that was not created by spending. The
// note is verified before it is returned; there is no partial-failure
// mode, and anything wrong here is fatal.
func NewGenesisCashNote(master keys.MainSecretKey) (*cashnote.CashNote, error) {
	mainPk := master.MainPubkey()
	id := mainPk.NewUniquePubkey(GenesisDerivationIndex)
	note := &cashnote.CashNote{
		ID:              id,
		MainPubkey:      mainPk,
		DerivationIndex: GenesisDerivationIndex,
		Amount:          config.GenesisAmount,
		ParentTx: transaction.Transaction{
			Outputs: []transaction.Output{{UniquePubkey: id, Amount: config.GenesisAmount}},
		},
	}
	if err := note.Verify(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenesisBuild, err)
	}
	logx.Info("GENESIS", "issued ", config.GenesisAmount.String(), " tokens to ", mainPk.String())
	return note, nil
}
