package helpers

import (
	"bytes"
	"encoding/json"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"slices"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/gildr/internal/database"
	"github.com/forgo/gildr/internal/model"
	"github.com/forgo/gildr/pkg/jwt"
)

const (
	tokenSecret = "gildr-test-secret"
	tokenIssuer = "gildr-test"
)

// Tokens issues bearer tokens that the server under test accepts
type Tokens struct {
	t   *testing.T
	svc *jwt.Service
}

// NewTokens creates a token issuer with a fixed test secret
func NewTokens(t *testing.T) *Tokens {
	t.Helper()
	svc, err := jwt.NewService(jwt.Config{Secret: []byte(tokenSecret), Issuer: tokenIssuer})
	require.NoError(t, err)
	return &Tokens{t: t, svc: svc}
}

// Service is the validator to hand to the server under test
func (k *Tokens) Service() *jwt.Service { return k.svc }

// For returns a valid token for player
func (k *Tokens) For(player uuid.UUID) string {
	return k.sign(gojwt.RegisteredClaims{Subject: player.String()})
}

// Expired returns a token for player that expired an hour ago
func (k *Tokens) Expired(player uuid.UUID) string {
	return k.sign(gojwt.RegisteredClaims{
		Subject:   player.String(),
		ExpiresAt: gojwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
}

func (k *Tokens) sign(claims gojwt.RegisteredClaims) string {
	k.t.Helper()
	token, err := k.svc.Sign(jwt.Claims{RegisteredClaims: claims})
	require.NoError(k.t, err)
	return token
}

// RequestBuilder assembles an httptest request
type RequestBuilder struct {
	t      *testing.T
	method string
	path   string
	body   any
	header http.Header
}

func NewRequest(t *testing.T, method, path string) *RequestBuilder {
	return &RequestBuilder{t: t, method: method, path: path, header: http.Header{}}
}

// WithBody sets a value to send JSON encoded
func (rb *RequestBuilder) WithBody(body any) *RequestBuilder {
	rb.body = body
	return rb
}

func (rb *RequestBuilder) WithHeader(key, value string) *RequestBuilder {
	rb.header.Set(key, value)
	return rb
}

// WithAuth authenticates the request as player
func (rb *RequestBuilder) WithAuth(tokens *Tokens, player uuid.UUID) *RequestBuilder {
	return rb.WithHeader("Authorization", "Bearer "+tokens.For(player))
}

func (rb *RequestBuilder) Build() *http.Request {
	rb.t.Helper()

	var body io.Reader
	if rb.body != nil {
		b, err := json.Marshal(rb.body)
		require.NoError(rb.t, err)
		body = bytes.NewReader(b)
		rb.header.Set("Content-Type", "application/json")
	}
	req := httptest.NewRequest(rb.method, rb.path, body)
	for k, v := range rb.header {
		req.Header[k] = v
	}
	return req
}

// DecodeResponse unmarshals the recorded body into v
func DecodeResponse(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), "body: %s", rec.Body.String())
}

// DecodeProblem unmarshals a problem response body
func DecodeProblem(t *testing.T, rec *httptest.ResponseRecorder) *model.ProblemDetails {
	t.Helper()
	var p model.ProblemDetails
	DecodeResponse(t, rec, &p)
	return &p
}

// AssertProblemDetails checks a problem response's status, media type and
// code. A zero code matches any.
func AssertProblemDetails(t *testing.T, rec *httptest.ResponseRecorder, status int, code model.ErrorCode) {
	t.Helper()
	require.Equal(t, status, rec.Code, "body: %s", rec.Body.String())
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	p := DecodeProblem(t, rec)
	assert.Equal(t, status, p.Status)
	if code != 0 {
		assert.Equal(t, code, p.Code)
	}
}

// AssertValidationError checks for a 422 that names field
func AssertValidationError(t *testing.T, rec *httptest.ResponseRecorder, field string) {
	t.Helper()
	AssertProblemDetails(t, rec, http.StatusUnprocessableEntity, model.ErrCodeValidation)

	fields := DecodeProblem(t, rec).Errors
	assert.True(t, slices.ContainsFunc(fields, func(fe model.FieldError) bool { return fe.Field == field }),
		"no error on %q in %+v", field, fields)
}

// AssertRecordExists checks that the record file for id is on disk
func AssertRecordExists[T database.Record](t *testing.T, store *database.FileStore[T], id uuid.UUID) {
	t.Helper()
	assert.FileExists(t, store.Path(id), "%s record %s", store.Kind(), id)
}

// AssertRecordNotExists checks that no record file for id is on disk
func AssertRecordNotExists[T database.Record](t *testing.T, store *database.FileStore[T], id uuid.UUID) {
	t.Helper()
	_, err := os.Stat(store.Path(id))
	assert.ErrorIs(t, err, fs.ErrNotExist, "%s record %s", store.Kind(), id)
}
