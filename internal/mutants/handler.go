package mutants

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/helix/pkg/dna"
	"github.com/JaimeStill/helix/pkg/formatting"
	"github.com/JaimeStill/helix/pkg/handlers"
	"github.com/JaimeStill/helix/pkg/routes"
)

var errTrailingData = errors.New("unexpected data after JSON value")

// AnalyzeRequest is the POST /mutant body.
type AnalyzeRequest struct {
	DNA []string `json:"dna"`
}

// Handler provides HTTP endpoints for mutant analysis.
type Handler struct {
	sys         System
	logger      *slog.Logger
	maxBodySize int64
}

// NewHandler creates a Handler. maxBodySize <= 0 disables the body limit.
func NewHandler(sys System, logger *slog.Logger, maxBodySize int64) *Handler {
	return &Handler{
		sys:         sys,
		logger:      logger.With("handler", "mutants"),
		maxBodySize: maxBodySize,
	}
}

// Routes returns the route group definition for mutant endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Schemas: Spec.Schemas,
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/mutant", Handler: h.Analyze, OpenAPI: Spec.Analyze},
			{Method: "GET", Pattern: "/stats", Handler: h.Stats, OpenAPI: Spec.Stats},
		},
	}
}

// Analyze classifies the DNA in the request body. It answers 200 for a
// mutant and 403 for a human, both without a body.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	body := r.Body
	if h.maxBodySize > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}

	var req AnalyzeRequest
	dec := json.NewDecoder(body)
	if err := dec.Decode(&req); err != nil {
		h.respondError(w, r, decodeError(err))
		return
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errTrailingData
		}
		h.respondError(w, r, decodeError(err))
		return
	}

	if v := dna.Validate(req.DNA); v != nil {
		h.respondError(w, r, &InvalidDNAError{Violations: v})
		return
	}

	mutant, err := h.sys.Analyze(r.Context(), dna.NewGrid(req.DNA))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	if mutant {
		w.WriteHeader(http.StatusOK)
		return
	}
	w.WriteHeader(http.StatusForbidden)
}

// Stats returns the mutant and human counts with their ratio.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.sys.Stats(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, stats)
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	handlers.RespondError(w, r, h.logger, MapHTTPStatus(err), err)
}

func decodeError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("%w: limit is %s", ErrBodyTooLarge, formatting.FormatBytes(tooLarge.Limit))
	}
	return fmt.Errorf("%w: malformed request body: %w", ErrInvalidDNA, err)
}
