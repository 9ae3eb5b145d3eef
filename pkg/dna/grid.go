// Package dna defines the DNA grid and the pure functions derived from it:
// mutant detection, content fingerprinting, and request validation.
package dna

import "strings"

// Bases is the accepted nucleotide alphabet.
const Bases = "ATCG"

// Grid is an immutable N×N matrix of nucleotide bases stored row-major.
// Construct it with NewGrid after the rows have passed Validate.
type Grid struct {
	rows []string
}

// NewGrid copies rows into a Grid, upper-casing every row.
func NewGrid(rows []string) Grid {
	normalized := make([]string, len(rows))
	for i, row := range rows {
		normalized[i] = strings.ToUpper(row)
	}
	return Grid{rows: normalized}
}

// Size returns N, the number of rows.
func (g Grid) Size() int {
	return len(g.rows)
}

// Rows returns a copy of the grid rows.
func (g Grid) Rows() []string {
	out := make([]string, len(g.rows))
	copy(out, g.rows)
	return out
}

// at returns the base at (row, col) and whether the position exists.
func (g Grid) at(row, col int) (byte, bool) {
	if row < 0 || row >= len(g.rows) {
		return 0, false
	}
	r := g.rows[row]
	if col < 0 || col >= len(r) {
		return 0, false
	}
	return r[col], true
}
