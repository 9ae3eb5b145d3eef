// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/helix/internal/config"
	"github.com/JaimeStill/helix/internal/infrastructure"
	"github.com/JaimeStill/helix/pkg/middleware"
)

// Module is the mounted API: its domain systems and the handler serving
// them beneath the configured base path.
type Module struct {
	Domain  *Domain
	prefix  string
	handler http.Handler
}

// NewModule creates the API module with all domain handlers and middleware.
// When auth is enabled the issuer is discovered here, so startup fails fast
// on a bad issuer URL.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	var guard []func(http.Handler) http.Handler
	if cfg.API.Auth.Enabled {
		verifier, err := middleware.NewVerifier(infra.Lifecycle.Context(), &cfg.API.Auth)
		if err != nil {
			return nil, fmt.Errorf("auth init failed: %w", err)
		}
		guard = append(guard, middleware.Auth(verifier, runtime.Logger))
	}

	mux := http.NewServeMux()
	if err := registerRoutes(mux, cfg, domain, guard); err != nil {
		return nil, err
	}

	return &Module{
		Domain:  domain,
		prefix:  cfg.API.BasePath,
		handler: middleware.CORS(&cfg.API.CORS)(mux),
	}, nil
}

// Prefix returns the base path the module serves beneath; empty means root.
func (m *Module) Prefix() string {
	return m.prefix
}

// Mount registers the module on mux as a subtree handler for its prefix.
func (m *Module) Mount(mux *http.ServeMux) {
	mux.Handle(m.prefix+"/", m.handler)
}

func (m *Module) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}
