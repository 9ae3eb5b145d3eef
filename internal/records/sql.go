package records

import (
	"context"
	"database/sql"
	"errors"

	"github.com/JaimeStill/helix/pkg/database"
	"github.com/JaimeStill/helix/pkg/dna"
	"github.com/JaimeStill/helix/pkg/repository"
)

const (
	lookupQuery = `SELECT is_mutant FROM dna_records WHERE dna_hash = ?`

	insertQuery = `
		INSERT INTO dna_records (id, dna_hash, is_mutant, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (dna_hash) DO NOTHING`

	countQuery = `SELECT COUNT(*) FROM dna_records WHERE is_mutant = ?`
)

type sqlStore struct {
	db     *sql.DB
	lookup string
	insert string
	count  string
}

// NewSQL returns a Store over the dna_records table. driver selects the
// placeholder style; the schema must already be migrated.
func NewSQL(db *sql.DB, driver string) Store {
	s := &sqlStore{
		db:     db,
		lookup: lookupQuery,
		insert: insertQuery,
		count:  countQuery,
	}

	if driver == database.DriverPostgres {
		s.lookup = repository.Rebind(s.lookup)
		s.insert = repository.Rebind(s.insert)
		s.count = repository.Rebind(s.count)
	}

	return s
}

func scanMutant(s repository.Scanner) (bool, error) {
	var mutant bool
	err := s.Scan(&mutant)
	return mutant, err
}

func (s *sqlStore) Lookup(ctx context.Context, fp dna.Fingerprint) (bool, bool, error) {
	mutant, err := repository.QueryOne(ctx, s.db, s.lookup, []any{fp.String()}, scanMutant)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, false, nil
		}
		return false, false, storageError("lookup", err)
	}
	return mutant, true, nil
}

// InsertIfAbsent relies on the unique dna_hash constraint: ON CONFLICT DO
// NOTHING leaves zero affected rows for the loser of a race.
func (s *sqlStore) InsertIfAbsent(ctx context.Context, fp dna.Fingerprint, mutant bool) (bool, error) {
	rec := NewRecord(fp, mutant)

	n, err := repository.ExecAffected(
		ctx, s.db, s.insert,
		rec.ID.String(), rec.Fingerprint.String(), rec.Mutant, rec.CreatedAt,
	)
	if err != nil {
		if repository.IsDuplicate(err) {
			return false, nil
		}
		return false, storageError("insert", err)
	}
	return n == 1, nil
}

func (s *sqlStore) CountWhere(ctx context.Context, mutant bool) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, s.count, mutant).Scan(&n); err != nil {
		return 0, storageError("count", err)
	}
	return n, nil
}
