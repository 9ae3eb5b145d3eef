package mutants_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/helix/internal/mutants"
	"github.com/JaimeStill/helix/pkg/dna"
	"github.com/JaimeStill/helix/pkg/handlers"
)

type mockSystem struct {
	analyzeFn func(ctx context.Context, grid dna.Grid) (bool, error)
	statsFn   func(ctx context.Context) (*mutants.Stats, error)
}

func (m *mockSystem) Handler() *mutants.Handler {
	return mutants.NewHandler(m, discard(), 0)
}

func (m *mockSystem) Analyze(ctx context.Context, grid dna.Grid) (bool, error) {
	return m.analyzeFn(ctx, grid)
}

func (m *mockSystem) Stats(ctx context.Context) (*mutants.Stats, error) {
	return m.statsFn(ctx)
}

func setupMux(h *mutants.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		mux.HandleFunc(route.Method+" "+group.Prefix+route.Pattern, route.Handler)
	}
	return mux
}

func post(t *testing.T, mux *http.ServeMux, body string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/mutant", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handlers.ErrorResponse {
	t.Helper()

	var body handlers.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

func TestHandlerAnalyze(t *testing.T) {
	tests := []struct {
		name       string
		mutant     bool
		wantStatus int
	}{
		{"mutant", true, http.StatusOK},
		{"human", false, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var received []string
			sys := &mockSystem{
				analyzeFn: func(ctx context.Context, grid dna.Grid) (bool, error) {
					received = grid.Rows()
					return tt.mutant, nil
				},
			}

			rec := post(t, setupMux(sys.Handler()), `{"dna":["atgcga","CAGTGC","TTATGT","AGAAGG","CCCCTA","TCACTG"]}`)

			if rec.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantStatus)
			}
			if rec.Body.Len() != 0 {
				t.Errorf("body should be empty, got %q", rec.Body.String())
			}
			if len(received) != 6 || received[0] != "ATGCGA" {
				t.Errorf("grid rows should be normalized to upper case, got %v", received)
			}
		})
	}
}

func TestHandlerAnalyzeRejectsInvalidDNA(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantMessage string
	}{
		{"malformed json", `{"dna":`, "malformed request body"},
		{"missing dna", `{}`, "dna array cannot be null or empty"},
		{"null dna", `{"dna":null}`, "dna array cannot be null or empty"},
		{"too small", `{"dna":["ATG","CAG","TTA"]}`, "at least 4x4"},
		{"not square", `{"dna":["ATGC","CAGT","TTAT"]}`, "at least 4x4"},
		{"ragged row", `{"dna":["ATGC","CAG","TTAT","AGAC"]}`, "must be square"},
		{"invalid base", `{"dna":["ATGC","CAGX","TTAT","AGAC"]}`, "invalid characters"},
		{"trailing garbage", `{"dna":["ATGC","CAGT","TTAT","AGAC"]}garbage`, "malformed request body"},
		{"second value", `{"dna":["ATGC","CAGT","TTAT","AGAC"]}{"dna":[]}`, "unexpected data after JSON value"},
		{"trailing brace", `{"dna":["ATGC","CAGT","TTAT","AGAC"]}}`, "malformed request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := &mockSystem{
				analyzeFn: func(ctx context.Context, grid dna.Grid) (bool, error) {
					t.Fatal("Analyze must not run for invalid input")
					return false, nil
				},
			}

			rec := post(t, setupMux(sys.Handler()), tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d, want 400", rec.Code)
			}

			body := decodeError(t, rec)
			if body.Status != http.StatusBadRequest || body.Error != "Bad Request" || body.Path != "/mutant" {
				t.Errorf("unexpected error body: %+v", body)
			}
			if !strings.Contains(body.Message, tt.wantMessage) {
				t.Errorf("message %q does not contain %q", body.Message, tt.wantMessage)
			}
		})
	}
}

func TestHandlerAnalyzeBodyLimit(t *testing.T) {
	sys := &mockSystem{
		analyzeFn: func(ctx context.Context, grid dna.Grid) (bool, error) {
			return true, nil
		},
	}

	mux := setupMux(mutants.NewHandler(sys, discard(), 32))
	rec := post(t, mux, `{"dna":["ATGCGA","CAGTGC","TTATGT","AGAAGG","CCCCTA","TCACTG"]}`)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status: got %d, want 413", rec.Code)
	}
	if body := decodeError(t, rec); !strings.Contains(body.Message, "32 B") {
		t.Errorf("message %q should name the limit", body.Message)
	}
}

func TestHandlerAnalyzeStorageFailure(t *testing.T) {
	sys := &mockSystem{
		analyzeFn: func(ctx context.Context, grid dna.Grid) (bool, error) {
			return false, storageFailure("lookup")
		},
	}

	rec := post(t, setupMux(sys.Handler()), `{"dna":["AAAA","CCCC","TGTA","GCTG"]}`)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status: got %d, want 503", rec.Code)
	}
	if body := decodeError(t, rec); body.Message != handlers.ServerErrorMessage {
		t.Errorf("message %q should not leak storage details", body.Message)
	}
}

func TestHandlerStats(t *testing.T) {
	sys := &mockSystem{
		statsFn: func(ctx context.Context) (*mutants.Stats, error) {
			s := mutants.NewStats(40, 100)
			return &s, nil
		},
	}

	rec := httptest.NewRecorder()
	setupMux(sys.Handler()).ServeHTTP(rec, httptest.NewRequest("GET", "/stats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}

	var body map[string]float64
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["count_mutant_dna"] != 40 || body["count_human_dna"] != 100 || body["ratio"] != 0.4 {
		t.Errorf("unexpected stats body: %v", body)
	}
}

func TestHandlerStatsError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"storage", storageFailure("count"), http.StatusServiceUnavailable},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := &mockSystem{
				statsFn: func(ctx context.Context) (*mutants.Stats, error) {
					return nil, tt.err
				},
			}

			rec := httptest.NewRecorder()
			setupMux(sys.Handler()).ServeHTTP(rec, httptest.NewRequest("GET", "/stats", nil))

			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid dna", &mutants.InvalidDNAError{Violations: dna.Violations{"bad"}}, http.StatusBadRequest},
		{"wrapped invalid dna", mutants.ErrInvalidDNA, http.StatusBadRequest},
		{"body too large", mutants.ErrBodyTooLarge, http.StatusRequestEntityTooLarge},
		{"storage", storageFailure("insert"), http.StatusServiceUnavailable},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mutants.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus = %d, want %d", got, tt.want)
			}
		})
	}
}
