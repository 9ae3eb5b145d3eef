package api

import (
	"github.com/JaimeStill/helix/internal/mutants"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Mutants mutants.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	return &Domain{
		Mutants: mutants.New(
			runtime.Records,
			runtime.Logger,
			runtime.Metrics,
			runtime.MaxBodySize,
		),
	}
}
