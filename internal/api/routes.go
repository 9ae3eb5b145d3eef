package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/helix/internal/config"
	"github.com/JaimeStill/helix/pkg/openapi"
	"github.com/JaimeStill/helix/pkg/routes"
)

// registerRoutes mounts the domain routes behind guard and serves the
// generated OpenAPI document, unguarded, at {base}/openapi.json.
func registerRoutes(
	mux *http.ServeMux,
	cfg *config.Config,
	domain *Domain,
	guard []func(http.Handler) http.Handler,
) error {
	group := domain.Mutants.Handler().Routes()
	group.Middleware = append(guard, group.Middleware...)

	routes.Register(mux, cfg.API.BasePath, group)

	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	routes.Document(spec, cfg.API.BasePath, group)

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		return fmt.Errorf("marshal openapi spec: %w", err)
	}
	mux.Handle("GET "+cfg.API.BasePath+"/openapi.json", openapi.ServeSpec(data))

	return nil
}
