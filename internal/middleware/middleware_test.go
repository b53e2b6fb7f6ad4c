package middleware

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/gildr/internal/model"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

// ============================================================================
// Chain
// ============================================================================

func TestChain_FirstListedRunsOutermost(t *testing.T) {
	t.Parallel()
	var order []string
	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "mux")
	}), tag("request-id"), tag("logger"), tag("recovery"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, []string{"request-id", "logger", "recovery", "mux"}, order)
}

// ============================================================================
// RequestID
// ============================================================================

func TestRequestID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"none supplied", "", false},
		{"client id kept", "trace-7f3a", true},
		{"whitespace rejected", "guild hall", false},
		{"control bytes rejected", "abc\x00def", false},
		{"oversized rejected", strings.Repeat("a", maxRequestIDLen+1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var inCtx string
			h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				inCtx = GetRequestID(r.Context())
			}))
			req := httptest.NewRequest(http.MethodGet, "/v1/guilds", nil)
			if tt.incoming != "" {
				req.Header.Set("X-Request-ID", tt.incoming)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			require.NotEmpty(t, inCtx)
			assert.Equal(t, inCtx, rr.Header().Get("X-Request-ID"))
			if tt.keep {
				assert.Equal(t, tt.incoming, inCtx)
			} else {
				assert.NotEqual(t, tt.incoming, inCtx)
				assert.Len(t, inCtx, 36)
			}
		})
	}
}

// ============================================================================
// Logger
// ============================================================================

func TestLogger_RecordsRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
		level  string
	}{
		{"success", http.StatusCreated, `{"name":"Ironclad"}`, "INFO"},
		{"client error", http.StatusConflict, `{"code":3003}`, "INFO"},
		{"server error", http.StatusServiceUnavailable, "", "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))
			h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}), RequestID, Logger(logger))

			req := httptest.NewRequest(http.MethodPost, "/v1/guilds", nil)
			req.RemoteAddr = "198.51.100.4:5123"
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			var rec map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
			assert.Equal(t, "request", rec["msg"])
			assert.Equal(t, tt.level, rec["level"])
			assert.Equal(t, "POST", rec["method"])
			assert.Equal(t, "/v1/guilds", rec["path"])
			assert.EqualValues(t, tt.status, rec["status"])
			assert.EqualValues(t, len(tt.body), rec["bytes"])
			assert.Equal(t, "198.51.100.4", rec["client_ip"])
			assert.Equal(t, rr.Header().Get("X-Request-ID"), rec["request_id"])
		})
	}
}

func TestLogger_ImplicitOK(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	h := Logger(slog.New(slog.NewJSONHandler(&buf, nil)))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("gildr"))
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.EqualValues(t, http.StatusOK, rec["status"])
	assert.EqualValues(t, 5, rec["bytes"])
}

// ============================================================================
// Recovery
// ============================================================================

func TestRecovery_PanicBecomesInternalProblem(t *testing.T) {
	t.Parallel()
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("roster index out of range")
	}), RequestID, Recovery)

	rr := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/guilds", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))
	var p model.ProblemDetails
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	assert.Equal(t, model.ErrCodeInternal, p.Code)
	assert.NotContains(t, rr.Body.String(), "roster index")
}

func TestRecovery_AbortHandlerPropagates(t *testing.T) {
	t.Parallel()
	h := Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

// ============================================================================
// CORS
// ============================================================================

func TestCORS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		allowed     []string
		method      string
		origin      string
		preflight   bool
		status      int
		allowOrigin string
	}{
		{"listed origin", []string{"https://app.gildr.test"}, http.MethodGet, "https://app.gildr.test", false, http.StatusOK, "https://app.gildr.test"},
		{"wildcard echoes origin", []string{"*"}, http.MethodGet, "https://elsewhere.test", false, http.StatusOK, "https://elsewhere.test"},
		{"unlisted origin", []string{"https://app.gildr.test"}, http.MethodGet, "https://evil.test", false, http.StatusOK, ""},
		{"no origin", []string{"*"}, http.MethodGet, "", false, http.StatusOK, ""},
		{"preflight answered", []string{"*"}, http.MethodOptions, "https://app.gildr.test", true, http.StatusNoContent, "https://app.gildr.test"},
		{"preflight from unlisted origin reaches mux", []string{"https://app.gildr.test"}, http.MethodOptions, "https://evil.test", true, http.StatusOK, ""},
		{"plain OPTIONS reaches mux", []string{"*"}, http.MethodOptions, "https://app.gildr.test", false, http.StatusOK, "https://app.gildr.test"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(tt.method, "/v1/guilds/abc/members", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.preflight {
				req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
			}
			rr := httptest.NewRecorder()
			CORS(tt.allowed)(okHandler).ServeHTTP(rr, req)

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, tt.allowOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
			assert.Contains(t, rr.Header().Values("Vary"), "Origin")
			if tt.status == http.StatusNoContent {
				methods := rr.Header().Get("Access-Control-Allow-Methods")
				assert.Contains(t, methods, "PUT")
				assert.Contains(t, methods, "PATCH")
				assert.Contains(t, rr.Header().Get("Access-Control-Allow-Headers"), "Authorization")
			}
		})
	}
}

// ============================================================================
// Compress
// ============================================================================

func TestCompress_GzipsBodies(t *testing.T) {
	t.Parallel()
	body := strings.Repeat(`{"name":"Ironclad","members":12}`, 50)
	h := Compress(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Length", "9999")
		_, _ = io.WriteString(w, body)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/guilds", nil)
	req.Header.Set("Accept-Encoding", "br;q=1.0, gzip;q=0.8")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "gzip", rr.Header().Get("Content-Encoding"))
	assert.Empty(t, rr.Header().Get("Content-Length"))
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Values("Vary"), "Accept-Encoding")

	zr, err := gzip.NewReader(rr.Body)
	require.NoError(t, err)
	plain, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, body, string(plain))
}

func TestCompress_SniffsUntypedBody(t *testing.T) {
	t.Parallel()
	h := Compress(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "gildr")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "gzip", rr.Header().Get("Content-Encoding"))
	assert.Equal(t, "text/plain; charset=utf-8", rr.Header().Get("Content-Type"))
}

func TestCompress_LeavesResponseAlone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		method         string
		acceptEncoding string
		status         int
	}{
		{"client without gzip", http.MethodGet, "br, deflate", http.StatusOK},
		{"gzip refused with q=0", http.MethodGet, "gzip;q=0, deflate", http.StatusOK},
		{"no content", http.MethodDelete, "gzip", http.StatusNoContent},
		{"not modified", http.MethodGet, "gzip", http.StatusNotModified},
		{"head request", http.MethodHead, "gzip", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := Compress(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				if tt.status == http.StatusOK && r.Method != http.MethodHead {
					_, _ = io.WriteString(w, "plain roster")
				}
			}))
			req := httptest.NewRequest(tt.method, "/v1/guilds/abc", nil)
			req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, tt.status, rr.Code)
			assert.Empty(t, rr.Header().Get("Content-Encoding"))
			if tt.status == http.StatusOK && tt.method != http.MethodHead {
				assert.Equal(t, "plain roster", rr.Body.String())
			}
		})
	}
}
