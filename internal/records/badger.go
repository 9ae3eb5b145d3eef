package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/JaimeStill/helix/pkg/dna"
)

const (
	badgerPrefix = "dna:"

	// Entry user-meta flags, so counting never decodes values.
	metaHuman  byte = 0x01
	metaMutant byte = 0x02

	maxConflictRetries = 8
)

type badgerStore struct {
	db *badger.DB
}

// NewBadger returns a Store over an open BadgerDB handle. Badger's
// serializable transactions make InsertIfAbsent atomic within the process
// that holds the directory lock.
func NewBadger(db *badger.DB) Store {
	return &badgerStore{db: db}
}

func badgerKey(fp dna.Fingerprint) []byte {
	return append([]byte(badgerPrefix), fp[:]...)
}

func mutantMeta(mutant bool) byte {
	if mutant {
		return metaMutant
	}
	return metaHuman
}

func (b *badgerStore) Lookup(ctx context.Context, fp dna.Fingerprint) (bool, bool, error) {
	if err := ctx.Err(); err != nil {
		return false, false, storageError("lookup", err)
	}

	var (
		mutant bool
		found  bool
	)

	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(fp))
		if err != nil {
			return err
		}
		found = true
		mutant = item.UserMeta() == metaMutant
		return nil
	})

	if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return false, false, storageError("lookup", err)
	}
	return mutant, found, nil
}

// InsertIfAbsent reads then writes inside one update transaction. A
// concurrent writer of the same key makes the commit fail with ErrConflict;
// the retry then observes the winner's record.
func (b *badgerStore) InsertIfAbsent(ctx context.Context, fp dna.Fingerprint, mutant bool) (bool, error) {
	rec := NewRecord(fp, mutant)
	value, err := json.Marshal(rec)
	if err != nil {
		return false, storageError("insert", fmt.Errorf("encode record: %w", err))
	}

	key := badgerKey(fp)

	for range maxConflictRetries {
		if err := ctx.Err(); err != nil {
			return false, storageError("insert", err)
		}

		var inserted bool
		err := b.db.Update(func(txn *badger.Txn) error {
			_, err := txn.Get(key)
			switch {
			case err == nil:
				return nil
			case !errors.Is(err, badger.ErrKeyNotFound):
				return err
			}

			inserted = true
			return txn.SetEntry(badger.NewEntry(key, value).WithMeta(mutantMeta(mutant)))
		})

		switch {
		case err == nil:
			return inserted, nil
		case errors.Is(err, badger.ErrConflict):
			continue
		default:
			return false, storageError("insert", err)
		}
	}

	return false, storageError("insert", badger.ErrConflict)
}

func (b *badgerStore) CountWhere(ctx context.Context, mutant bool) (int64, error) {
	want := mutantMeta(mutant)

	var n int64
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(badgerPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if it.Item().UserMeta() == want {
				n++
			}
		}
		return nil
	})

	if err != nil {
		return 0, storageError("count", err)
	}
	return n, nil
}
