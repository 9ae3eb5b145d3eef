package dna

const (
	// SequenceLength is the run length of identical bases that counts as a sequence.
	SequenceLength = 4
	// MutantThreshold is the number of sequences at which a grid is mutant.
	MutantThreshold = 2
)

type direction struct {
	dRow, dCol int
}

// horizontal, vertical, main diagonal, anti-diagonal
var directions = [...]direction{
	{dRow: 0, dCol: 1},
	{dRow: 1, dCol: 0},
	{dRow: 1, dCol: 1},
	{dRow: 1, dCol: -1},
}

// IsMutant reports whether g holds more than one run of SequenceLength
// identical bases in any of the four directions. Every start cell and
// direction is a distinct occurrence, so a streak of five identical bases
// counts twice. The scan stops at the second occurrence.
//
// Grids smaller than SequenceLength are never mutant. IsMutant holds no
// state and is safe for concurrent use.
func IsMutant(g Grid) bool {
	n := g.Size()
	if n < SequenceLength {
		return false
	}

	found := 0
	for row := range n {
		for col := range n {
			for _, d := range directions {
				if !g.hasRun(row, col, d) {
					continue
				}
				found++
				if found >= MutantThreshold {
					return true
				}
			}
		}
	}

	return false
}

// hasRun checks the SequenceLength window starting at (row, col) along d.
// Windows that leave the grid are rejected before any base is read.
func (g Grid) hasRun(row, col int, d direction) bool {
	last := SequenceLength - 1
	if _, ok := g.at(row+d.dRow*last, col+d.dCol*last); !ok {
		return false
	}

	base, ok := g.at(row, col)
	if !ok {
		return false
	}

	for step := 1; step < SequenceLength; step++ {
		b, ok := g.at(row+d.dRow*step, col+d.dCol*step)
		if !ok || b != base {
			return false
		}
	}
	return true
}
