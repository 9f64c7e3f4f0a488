package spentbook

import (
	"errors"
	"fmt"
	"io"

	"notemint/jsonx"
	"notemint/transaction"
)

// Walker is satisfied by backends that can enumerate every recorded
// spend.
type Walker interface {
	ForEach(fn func(*transaction.SignedSpend) bool) error
}

// ExportTo writes the book's full contents as one JSON document per
// line. The dump is the audit trail handed to investigators and the
// input ImportInto restores from.
func ExportTo(w io.Writer, book Walker) error {
	enc := jsonx.NewEncoder(w)
	var encodeErr error
	err := book.ForEach(func(spend *transaction.SignedSpend) bool {
		if encodeErr = enc.Encode(spend); encodeErr != nil {
			return false
		}
		return true
	})
	if err != nil {
		return err
	}
	if encodeErr != nil {
		return fmt.Errorf("encode audit record: %w", encodeErr)
	}
	return nil
}

// ImportInto replays a dump into book through Submit, so forged
// records and conflicts with what the book already holds abort the
// import. It returns the number of records applied.
func ImportInto(book Spentbook, r io.Reader) (int, error) {
	dec := jsonx.NewDecoder(r)
	applied := 0
	for {
		spend := &transaction.SignedSpend{}
		err := dec.Decode(spend)
		if errors.Is(err, io.EOF) {
			return applied, nil
		}
		if err != nil {
			return applied, fmt.Errorf("decode audit record: %w", err)
		}
		if err := Submit(book, spend); err != nil {
			return applied, err
		}
		applied++
	}
}
