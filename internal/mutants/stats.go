package mutants

// Stats summarizes every stored classification.
type Stats struct {
	CountMutantDNA int64   `json:"count_mutant_dna"`
	CountHumanDNA  int64   `json:"count_human_dna"`
	Ratio          float64 `json:"ratio"`
}

// NewStats computes the mutant-to-human ratio, defined as 0 when no humans
// have been recorded.
func NewStats(mutants, humans int64) Stats {
	s := Stats{CountMutantDNA: mutants, CountHumanDNA: humans}
	if humans > 0 {
		s.Ratio = float64(mutants) / float64(humans)
	}
	return s
}
