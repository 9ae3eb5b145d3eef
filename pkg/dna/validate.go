package dna

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MinSize is the smallest accepted grid dimension.
const MinSize = SequenceLength

var validate *validator.Validate

func init() {
	validate = validator.New()
	if err := validate.RegisterValidation("bases", validateBases); err != nil {
		panic(fmt.Sprintf("dna: register bases validation: %v", err))
	}
}

// validateBases accepts strings made only of A, T, C, G in either case.
func validateBases(fl validator.FieldLevel) bool {
	for _, r := range strings.ToUpper(fl.Field().String()) {
		if !strings.ContainsRune(Bases, r) {
			return false
		}
	}
	return true
}

// Violations lists every reason a DNA payload was rejected.
type Violations []string

func (v Violations) Error() string {
	return strings.Join(v, "; ")
}

// Validate checks that rows form a square matrix of at least MinSize×MinSize
// over the A/T/C/G alphabet (case-insensitive). It returns nil when the rows
// may be passed to NewGrid.
func Validate(rows []string) Violations {
	if len(rows) == 0 {
		return Violations{"dna array cannot be null or empty"}
	}

	if err := validate.Var(rows, fmt.Sprintf("min=%d", MinSize)); err != nil {
		return Violations{fmt.Sprintf("dna matrix must be at least %dx%d", MinSize, MinSize)}
	}

	n := len(rows)
	rule := fmt.Sprintf("required,len=%d,bases", n)

	var out Violations
	for i, row := range rows {
		err := validate.Var(row, rule)
		if err == nil {
			continue
		}

		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			out = append(out, fmt.Sprintf("row %d: %v", i, err))
			continue
		}

		for _, fe := range fieldErrs {
			out = append(out, rowViolation(i, n, len(row), fe.Tag()))
		}
	}

	return out
}

func rowViolation(index, n, length int, tag string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("row %d cannot be empty", index)
	case "len":
		return fmt.Sprintf(
			"matrix must be square NxN: expected %d characters in row %d, got %d",
			n, index, length,
		)
	case "bases":
		return fmt.Sprintf("row %d contains invalid characters: only A, T, C, G are allowed", index)
	default:
		return fmt.Sprintf("row %d failed %s validation", index, tag)
	}
}
