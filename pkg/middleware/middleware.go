// Package middleware holds the HTTP wrappers helix places around its routes:
// panic recovery, request logging, Prometheus instrumentation, CORS and
// bearer-token authentication.
package middleware

import (
	"net/http"
	"slices"
)

// System is the chain of wrappers applied to the helix router. Wrappers
// registered first run outermost, so recovery is registered before logging.
type System interface {
	Use(mw func(http.Handler) http.Handler)
	Apply(handler http.Handler) http.Handler
}

type chain struct {
	wrappers []func(http.Handler) http.Handler
}

// New returns a chain with no wrappers; Apply on it returns the handler as is.
func New() System {
	return &chain{}
}

func (c *chain) Use(fn func(http.Handler) http.Handler) {
	c.wrappers = append(c.wrappers, fn)
}

func (c *chain) Apply(handler http.Handler) http.Handler {
	for _, wrap := range slices.Backward(c.wrappers) {
		handler = wrap(handler)
	}
	return handler
}
