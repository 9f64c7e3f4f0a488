package spentbook

import (
	"fmt"
	"sync"

	"notemint/db"
	"notemint/jsonx"
	"notemint/keys"
	"notemint/logx"
	"notemint/transaction"
)

var spendKeyPrefix = []byte("spend/")

// StoredSpentbook persists spends through a db.DatabaseProvider
// (LevelDB or Bolt). The mutex makes check-then-put atomic; the file
// lock of the engine keeps other processes out entirely.
type StoredSpentbook struct {
	mu       sync.Mutex
	provider db.DatabaseProvider
}

func NewStoredSpentbook(provider db.DatabaseProvider) *StoredSpentbook {
	return &StoredSpentbook{provider: provider}
}

func spendKey(id keys.UniquePubkey) []byte {
	return append(append([]byte{}, spendKeyPrefix...), id.String()...)
}

// InsertIfAbsent implements Spentbook.
func (s *StoredSpentbook) InsertIfAbsent(id keys.UniquePubkey, spend *transaction.SignedSpend) (*transaction.SignedSpend, bool, error) {
	if spend == nil {
		return nil, false, ErrNilSpend
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := spendKey(id)
	raw, err := s.provider.Get(key)
	if err != nil {
		return nil, false, fmt.Errorf("read spend %s: %w", id, err)
	}
	if raw != nil {
		existing := &transaction.SignedSpend{}
		if err := jsonx.Unmarshal(raw, existing); err != nil {
			return nil, false, fmt.Errorf("decode stored spend %s: %w", id, err)
		}
		return existing, false, nil
	}

	payload, err := jsonx.Marshal(spend)
	if err != nil {
		return nil, false, fmt.Errorf("encode spend %s: %w", id, err)
	}
	if err := s.provider.Put(key, payload); err != nil {
		return nil, false, fmt.Errorf("write spend %s: %w", id, err)
	}
	return spend, true, nil
}

// Get implements Spentbook.
func (s *StoredSpentbook) Get(id keys.UniquePubkey) (*transaction.SignedSpend, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.provider.Get(spendKey(id))
	if err != nil {
		return nil, fmt.Errorf("read spend %s: %w", id, err)
	}
	if raw == nil {
		return nil, nil
	}
	spend := &transaction.SignedSpend{}
	if err := jsonx.Unmarshal(raw, spend); err != nil {
		return nil, fmt.Errorf("decode stored spend %s: %w", id, err)
	}
	return spend, nil
}

// ForEach walks every recorded spend, for audits and rebuilds. The
// callback returns false to stop early.
func (s *StoredSpentbook) ForEach(fn func(*transaction.SignedSpend) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var decodeErr error
	err := s.provider.IteratePrefix(spendKeyPrefix, func(key, value []byte) bool {
		spend := &transaction.SignedSpend{}
		if err := jsonx.Unmarshal(value, spend); err != nil {
			decodeErr = fmt.Errorf("decode stored spend at %q: %w", key, err)
			return false
		}
		return fn(spend)
	})
	if err != nil {
		return err
	}
	return decodeErr
}

// MustClose releases the underlying provider, logging instead of
// failing; close errors at shutdown have no caller to act on them.
func (s *StoredSpentbook) MustClose() {
	if err := s.provider.Close(); err != nil {
		logx.Error("SPENTBOOK", "failed to close provider: ", err)
	}
}
