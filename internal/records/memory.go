package records

import (
	"context"
	"sync"

	"github.com/JaimeStill/helix/pkg/dna"
)

type memory struct {
	mu      sync.RWMutex
	records map[dna.Fingerprint]Record
}

// NewMemory returns a process-local Store. Records do not survive restarts.
func NewMemory() Store {
	return &memory{records: make(map[dna.Fingerprint]Record)}
}

func (m *memory) Lookup(ctx context.Context, fp dna.Fingerprint) (bool, bool, error) {
	if err := ctx.Err(); err != nil {
		return false, false, storageError("lookup", err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[fp]
	return rec.Mutant, ok, nil
}

func (m *memory) InsertIfAbsent(ctx context.Context, fp dna.Fingerprint, mutant bool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, storageError("insert", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[fp]; ok {
		return false, nil
	}
	m.records[fp] = NewRecord(fp, mutant)
	return true, nil
}

func (m *memory) CountWhere(ctx context.Context, mutant bool) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, storageError("count", err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var n int64
	for _, rec := range m.records {
		if rec.Mutant == mutant {
			n++
		}
	}
	return n, nil
}
