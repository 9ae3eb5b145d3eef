package records

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/helix/pkg/dna"
)

// Record is a persisted classification. Fingerprint is unique across records.
type Record struct {
	ID          uuid.UUID       `json:"id"`
	Fingerprint dna.Fingerprint `json:"dna_hash"`
	Mutant      bool            `json:"is_mutant"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewRecord stamps a fresh ID and creation time.
func NewRecord(fp dna.Fingerprint, mutant bool) Record {
	return Record{
		ID:          uuid.New(),
		Fingerprint: fp,
		Mutant:      mutant,
		CreatedAt:   time.Now().UTC(),
	}
}
