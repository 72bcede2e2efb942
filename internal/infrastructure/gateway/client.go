// Package gateway is the HTTP client every call to the clinic backend goes
// through. It injects the stored bearer token and turns a 401 into a cleared
// session plus domain.ErrSessionExpired.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/salvaclients/vet-admin/internal/api/metrics"
	"github.com/salvaclients/vet-admin/internal/core/domain"
	"github.com/salvaclients/vet-admin/internal/core/ports"
)

// Client implements ports.Gateway over net/http.
type Client struct {
	baseURL string
	store   ports.CredentialStore
	http    *http.Client
	log     zerolog.Logger
}

var _ ports.Gateway = (*Client)(nil)

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client (tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New returns a Client rooted at baseURL, e.g. http://localhost:8080/api.
// The default http.Client has no timeout; requests live as long as ctx.
func New(baseURL string, store ports.CredentialStore, log zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		store:   store,
		http:    &http.Client{},
		log:     log.With().Str("component", "gateway").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Do(ctx context.Context, sid, path string, req ports.Request) (*ports.Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := c.build(ctx, method, path, req)
	if err != nil {
		return nil, err
	}

	if !req.Anonymous {
		session, err := c.store.Load(ctx, sid)
		switch {
		case err == nil:
			if session.Token != "" && httpReq.Header.Get("Authorization") == "" {
				httpReq.Header.Set("Authorization", "Bearer "+session.Token)
			}
		case errors.Is(err, domain.ErrNoSession):
		default:
			return nil, fmt.Errorf("gateway: load session: %w", err)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	metrics.GatewayRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GatewayRequestsTotal.WithLabelValues(method, "error").Inc()
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("backend unreachable")
		return nil, fmt.Errorf("gateway: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	metrics.GatewayRequestsTotal.WithLabelValues(method, metrics.StatusClass(resp.StatusCode)).Inc()
	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("backend call")

	// A 401 on an anonymous call (a failed login) says nothing about the
	// session stored under sid.
	if resp.StatusCode == http.StatusUnauthorized && !req.Anonymous {
		if err := c.store.Clear(ctx, sid); err != nil {
			c.log.Error().Err(err).Msg("failed to clear expired session")
		}
		metrics.SessionsExpiredTotal.Inc()
		c.log.Info().Str("path", path).Msg("backend answered 401, session cleared")
		return nil, domain.ErrSessionExpired
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gateway: read body: %w", err)
	}

	return &ports.Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

func (c *Client) build(ctx context.Context, method, path string, req ports.Request) (*http.Request, error) {
	target := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	switch b := req.Body.(type) {
	case nil:
	case []byte:
		body = bytes.NewReader(b)
	case string:
		body = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("gateway: encode body: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("gateway: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json, text/plain")
	for k, vs := range req.Header {
		httpReq.Header.Del(k)
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	return httpReq, nil
}

// Ping reports whether the backend answers at all. Any HTTP status counts as
// reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}
