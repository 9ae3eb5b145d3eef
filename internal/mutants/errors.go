package mutants

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/helix/internal/records"
	"github.com/JaimeStill/helix/pkg/dna"
)

// Domain errors for mutant analysis.
var (
	ErrInvalidDNA   = errors.New("invalid dna")
	ErrBodyTooLarge = errors.New("request body too large")
)

// InvalidDNAError reports every rule a DNA payload broke. It matches ErrInvalidDNA.
type InvalidDNAError struct {
	Violations dna.Violations
}

func (e *InvalidDNAError) Error() string {
	return e.Violations.Error()
}

func (e *InvalidDNAError) Unwrap() error {
	return ErrInvalidDNA
}

// MapHTTPStatus maps mutant domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidDNA) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrBodyTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if errors.Is(err, records.ErrStorage) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
