package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/JaimeStill/helix/pkg/formatting"
	"github.com/JaimeStill/helix/pkg/middleware"
	"github.com/JaimeStill/helix/pkg/openapi"
)

const (
	EnvAPIBasePath    = "HELIX_API_BASE_PATH"
	EnvAPIMaxBodySize = "HELIX_API_MAX_BODY_SIZE"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "HELIX_CORS_ENABLED",
	Origins:          "HELIX_CORS_ORIGINS",
	AllowedMethods:   "HELIX_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "HELIX_CORS_ALLOWED_HEADERS",
	AllowCredentials: "HELIX_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "HELIX_CORS_MAX_AGE",
}

var openAPIEnv = &openapi.ConfigEnv{
	Title:       "HELIX_OPENAPI_TITLE",
	Description: "HELIX_OPENAPI_DESCRIPTION",
}

var authEnv = &middleware.AuthEnv{
	Enabled:   "HELIX_AUTH_ENABLED",
	IssuerURL: "HELIX_AUTH_ISSUER_URL",
	Audience:  "HELIX_AUTH_AUDIENCE",
}

// APIConfig holds API routing, request limits, CORS, authentication, and
// OpenAPI document settings.
// An empty BasePath mounts the API at the server root.
type APIConfig struct {
	BasePath    string                `toml:"base_path"`
	MaxBodySize string                `toml:"max_body_size"`
	CORS        middleware.CORSConfig `toml:"cors"`
	Auth        middleware.AuthConfig `toml:"auth"`
	OpenAPI     openapi.Config        `toml:"openapi"`
}

// MaxBodySizeBytes returns MaxBodySize as a byte count.
func (c *APIConfig) MaxBodySizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxBodySize)
	if err != nil {
		return 64 * 1024
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Auth.Finalize(authEnv); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.OpenAPI.Finalize(openAPIEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxBodySize != "" {
		c.MaxBodySize = overlay.MaxBodySize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Auth.Merge(&overlay.Auth)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.MaxBodySize == "" {
		c.MaxBodySize = "64KB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv(EnvAPIBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvAPIMaxBodySize); v != "" {
		c.MaxBodySize = v
	}
}

func (c *APIConfig) validate() error {
	c.BasePath = strings.TrimSuffix(c.BasePath, "/")
	if c.BasePath != "" && !strings.HasPrefix(c.BasePath, "/") {
		return fmt.Errorf("base_path must start with /: %s", c.BasePath)
	}
	if _, err := formatting.ParseBytes(c.MaxBodySize); err != nil {
		return fmt.Errorf("invalid max_body_size: %w", err)
	}
	return nil
}
