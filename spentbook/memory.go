package spentbook

import (
	"sort"
	"sync"

	"notemint/keys"
	"notemint/transaction"
)

// MemorySpentbook keeps spends in process memory. Tests and
// single-process tools run on it; nothing survives a restart.
type MemorySpentbook struct {
	mu     sync.RWMutex
	spends map[string]*transaction.SignedSpend
}

func NewMemorySpentbook() *MemorySpentbook {
	return &MemorySpentbook{spends: make(map[string]*transaction.SignedSpend)}
}

// InsertIfAbsent implements Spentbook.
func (m *MemorySpentbook) InsertIfAbsent(id keys.UniquePubkey, spend *transaction.SignedSpend) (*transaction.SignedSpend, bool, error) {
	if spend == nil {
		return nil, false, ErrNilSpend
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := id.String()
	if existing, ok := m.spends[key]; ok {
		out := *existing
		return &out, false, nil
	}
	// Keep our own copy so later caller-side mutation cannot reach
	// the book.
	stored := *spend
	m.spends[key] = &stored
	out := stored
	return &out, true, nil
}

// Get implements Spentbook.
func (m *MemorySpentbook) Get(id keys.UniquePubkey) (*transaction.SignedSpend, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	existing, ok := m.spends[id.String()]
	if !ok {
		return nil, nil
	}
	out := *existing
	return &out, nil
}

// Count returns the number of recorded spends.
func (m *MemorySpentbook) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.spends)
}

// ForEach visits a consistent snapshot of the book in identity order.
// The callback returns false to stop early.
func (m *MemorySpentbook) ForEach(fn func(*transaction.SignedSpend) bool) error {
	m.mu.RLock()
	keys := make([]string, 0, len(m.spends))
	for key := range m.spends {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	spends := make([]transaction.SignedSpend, 0, len(keys))
	for _, key := range keys {
		spends = append(spends, *m.spends[key])
	}
	m.mu.RUnlock()

	for i := range spends {
		if !fn(&spends[i]) {
			return nil
		}
	}
	return nil
}
