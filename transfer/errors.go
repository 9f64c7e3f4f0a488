package transfer

import (
	"errors"
	"fmt"

	"notemint/types"
)

var (
	ErrNoInputs        = errors.New("transfer needs at least one input note")
	ErrNoRecipients    = errors.New("transfer needs at least one recipient")
	ErrKeyNoteMismatch = errors.New("derived key does not control the note")
	ErrGenesisBuild    = errors.New("genesis cash note construction failed")
	ErrNothingToSeal   = errors.New("no cash notes to seal")
)

// InsufficientFundsError reports a transfer whose inputs cannot cover
// the requested outputs. No transaction is produced alongside it.
type InsufficientFundsError struct {
	Available types.NanoTokens
	Requested types.NanoTokens
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: have %s, need %s", e.Available, e.Requested)
}
