// Package api provides the single point of outbound communication with the
// To-Dogether backend. It attaches bearer-token authentication, keeps token
// custody through the keystore, and normalizes every transport failure into
// domain.TransportError. The client performs no retries; retry policy is a
// caller concern.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sinanfen/to-dogether-web-sub000/internal/config"
	"github.com/sinanfen/to-dogether-web-sub000/internal/domain"
	"github.com/sinanfen/to-dogether-web-sub000/internal/keystore"
	"github.com/sinanfen/to-dogether-web-sub000/internal/logger"
	"go.uber.org/zap"
)

const defaultRequestTimeout = 30 * time.Second

// Client performs HTTP calls against the backend origin and holds the
// in-memory copy of the access token. Persistence of the credential pair is
// delegated to the keystore.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	store      keystore.Store
	logger     *zap.Logger
	timeout    time.Duration

	mu          sync.RWMutex
	accessToken string
}

// NewClient creates a client for the configured backend origin.
// A persisted access token, if any, is loaded into memory so the caller can
// resume an earlier session.
func NewClient(cfg *config.APIConfig, store keystore.Store, logger *zap.Logger) (*Client, error) {
	base, err := url.Parse(cfg.Origin)
	if err != nil {
		return nil, fmt.Errorf("invalid API origin %q: %w", cfg.Origin, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid API origin %q: scheme and host required", cfg.Origin)
	}

	timeout := cfg.RequestTimeoutDuration()
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	c := &Client{
		baseURL:    base,
		httpClient: &http.Client{},
		store:      store,
		logger:     logger,
		timeout:    timeout,
	}

	pair, err := store.Pair()
	if err != nil {
		// A corrupt keystore should not prevent the client from starting;
		// the user simply begins logged out.
		logger.Warn("failed to load persisted credentials", zap.Error(err))
		return c, nil
	}
	c.accessToken = pair.Access

	return c, nil
}

// HasToken reports whether an access token is currently held
func (c *Client) HasToken() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken != ""
}

// AccessToken returns the in-memory access token, empty when logged out
func (c *Client) AccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

// SetToken stores the access token in memory and in the keystore.
// All subsequent requests attach it as a bearer credential.
func (c *Client) SetToken(token string) error {
	c.mu.Lock()
	c.accessToken = token
	c.mu.Unlock()

	if err := c.store.StoreAccess(token); err != nil {
		return fmt.Errorf("failed to persist access token: %w", err)
	}
	return nil
}

// ClearToken removes the access token from memory and both persisted
// credentials from the keystore. Idempotent.
func (c *Client) ClearToken() error {
	c.mu.Lock()
	c.accessToken = ""
	c.mu.Unlock()

	if err := c.store.Clear(); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}

// do is the sole I/O chokepoint: every API method is expressed in terms of
// it. It builds the full URL against the backend origin, merges the JSON
// content type and (if present) the bearer authorization header, performs the
// call, and decodes the JSON body into T. On any failure it returns a
// domain.TransportError.
func do[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var zero T

	requestID := uuid.New().String()
	log := logger.WithRequest(c.logger, method, path, requestID)

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return zero, &domain.TransportError{
				Message:   fmt.Sprintf("failed to encode request body: %v", err),
				RequestID: requestID,
			}
		}
		reqBody = bytes.NewReader(data)
	}

	pathPart, query, _ := strings.Cut(path, "?")
	endpoint := c.baseURL.JoinPath(pathPart)
	endpoint.RawQuery = query
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reqBody)
	if err != nil {
		return zero, &domain.TransportError{
			Message:   fmt.Sprintf("failed to build request: %v", err),
			RequestID: requestID,
		}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if token := c.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("request failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return zero, &domain.TransportError{
			Message:   err.Error(),
			RequestID: requestID,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		terr := &domain.TransportError{
			Status:    resp.StatusCode,
			Message:   readErrorMessage(resp.Body),
			RequestID: requestID,
		}
		log.Debug("request rejected",
			zap.Int("status", resp.StatusCode),
			zap.Duration("duration", time.Since(start)),
		)
		return zero, terr
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, &domain.TransportError{
			Status:    resp.StatusCode,
			Message:   fmt.Sprintf("failed to read response body: %v", err),
			RequestID: requestID,
		}
	}

	// Endpoints without a response body decode into struct{}
	var result T
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &result); err != nil {
			return zero, &domain.TransportError{
				Status:    resp.StatusCode,
				Message:   fmt.Sprintf("malformed response body: %v", err),
				RequestID: requestID,
			}
		}
	}

	log.Debug("request completed",
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	return result, nil
}

// readErrorMessage extracts a message from an error response body.
// Backend errors carry {error, message}; anything else is truncated raw text.
func readErrorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}

	var errResp domain.ErrorResponse
	if err := json.Unmarshal(data, &errResp); err == nil {
		if errResp.Message != "" {
			return errResp.Message
		}
		if errResp.Error != "" {
			return errResp.Error
		}
	}

	return strings.TrimSpace(string(data))
}
