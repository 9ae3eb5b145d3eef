// Package records persists DNA classifications keyed by fingerprint.
package records

import (
	"context"
	"errors"
	"fmt"

	"github.com/JaimeStill/helix/pkg/dna"
)

// ErrStorage wraps every failure raised by a Store engine.
var ErrStorage = errors.New("classification store unavailable")

// Store is the durable fingerprint → classification map.
//
// Implementations must be safe for concurrent use, and InsertIfAbsent must be
// atomic: of any number of concurrent inserts for one fingerprint, across
// processes sharing the backend, exactly one reports true.
type Store interface {
	// Lookup returns the stored classification for fp. found is false when
	// no record exists.
	Lookup(ctx context.Context, fp dna.Fingerprint) (mutant bool, found bool, err error)
	// InsertIfAbsent stores a record unless one already exists for fp.
	// A lost race is not an error: it returns false, nil.
	InsertIfAbsent(ctx context.Context, fp dna.Fingerprint, mutant bool) (bool, error)
	// CountWhere returns the number of records with the given classification.
	CountWhere(ctx context.Context, mutant bool) (int64, error)
}

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
