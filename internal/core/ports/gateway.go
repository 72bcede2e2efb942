package ports

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/salvaclients/vet-admin/internal/core/domain"
)

// Request configures one call through the Gateway.
type Request struct {
	Method string      // defaults to GET
	Query  url.Values  // optional
	Body   any         // JSON-encoded when non-nil; []byte is sent verbatim
	Header http.Header // merged over the defaults, caller wins
	// Anonymous skips bearer token injection (login).
	Anonymous bool
}

// Response is the fully read answer of the backend.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Text returns the body as trimmed text.
func (r *Response) Text() string {
	return strings.TrimSpace(string(r.Body))
}

// DecodeJSON unmarshals the body into v.
func (r *Response) DecodeJSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// Err returns nil for 2xx answers and a *domain.BackendError otherwise. JSON
// error envelopes ({"message": ...} or {"error": ...}) are unwrapped; any
// other body is passed through as text.
func (r *Response) Err() error {
	if r.OK() {
		return nil
	}
	return &domain.BackendError{Status: r.StatusCode, Message: r.errorText()}
}

func (r *Response) errorText() string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(r.Body, &envelope) == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	return r.Text()
}

// Gateway is the single path every backend call takes. Implementations attach
// the stored bearer token and, when a non-anonymous call gets 401, clear the
// session stored under sid and return domain.ErrSessionExpired instead of a
// response.
type Gateway interface {
	Do(ctx context.Context, sid, path string, req Request) (*Response, error)
}
