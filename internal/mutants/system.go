package mutants

import (
	"context"

	"github.com/JaimeStill/helix/pkg/dna"
)

// System defines the public contract for mutant classification.
type System interface {
	Handler() *Handler

	// Analyze returns the stored classification for grid when one exists;
	// otherwise it runs the detector, records the result, and returns it.
	// grid must have passed dna.Validate.
	Analyze(ctx context.Context, grid dna.Grid) (bool, error)

	// Stats counts stored mutants and humans.
	Stats(ctx context.Context) (*Stats, error)
}
