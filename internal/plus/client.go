// Package plus implements the artisan.plus session-token lifecycle: it
// authenticates the configured account, keeps the bearer token in a
// mutex-guarded session, transparently re-authenticates on token expiry,
// and republishes usage limits reported by the service.
package plus

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"runtime"
	"strings"
	"time"

	clierrors "github.com/roastkit/plus-cli/internal/errors"

	"github.com/roastkit/plus-cli/internal/config"
)

// acceptedEncodings is advertised on every request.
// identity must not be in here.
const acceptedEncodings = "deflate, compress, gzip"

// Response is what the dispatcher hands back for both verbs. The status
// code is returned as-is; a 401 on the second attempt is still a Response,
// not an error.
type Response struct {
	StatusCode int
	Elapsed    time.Duration
	Body       []byte
}

// JSON decodes the response body into v.
func (r *Response) JSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// Client dispatches authorized requests against the artisan.plus service
// and owns the session and authentication flow.
type Client struct {
	httpClient *http.Client
	cfg        *config.Config
	session    *Session
	store      CredentialStore
	notify     Notifier
	baseURL    string
	authURL    string
	userAgent  string

	// now is a test seam for the subscription-expiry comparison.
	now func() time.Time
}

// NewClient creates a client for the given configuration. store may be nil
// when no secret store is available; notify may be nil to discard events.
func NewClient(cfg *config.Config, store CredentialStore, notify Notifier) *Client {
	if notify == nil {
		notify = NopNotifier{}
	}
	return &Client{
		httpClient: newHTTPClient(cfg),
		cfg:        cfg,
		session:    NewSession(store, cfg.Account),
		store:      store,
		notify:     notify,
		baseURL:    cfg.APIBase,
		authURL:    cfg.AuthEndpoint(),
		userAgent:  defaultUserAgent("dev"),
		now:        time.Now,
	}
}

// newHTTPClient builds the transport with the two-phase timeouts: the
// dialer bounds the connect phase, the client timeout bounds the whole
// request including the body read.
func newHTTPClient(cfg *config.Config) *http.Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: cfg.ConnectTimeout(),
		}).DialContext,
		TLSHandshakeTimeout: cfg.ConnectTimeout(),
	}
	if !cfg.TLSVerification() {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &http.Client{
		Transport: transport,
		Timeout:   cfg.ReadTimeout(),
	}
}

func defaultUserAgent(version string) string {
	return fmt.Sprintf("Artisan/%s (%s; %s)", version, runtime.GOOS, runtime.GOARCH)
}

// WithHTTPClient sets a custom HTTP client.
func (c *Client) WithHTTPClient(client *http.Client) *Client {
	c.httpClient = client
	return c
}

// WithBaseURL sets a custom base URL (useful for testing).
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// WithAuthURL sets a custom authentication endpoint (useful for testing).
func (c *Client) WithAuthURL(authURL string) *Client {
	c.authURL = authURL
	return c
}

// WithVersion sets the product version reported in the User-Agent header.
func (c *Client) WithVersion(version string) *Client {
	c.userAgent = defaultUserAgent(version)
	return c
}

// Session exposes the session state for status display and tests.
func (c *Client) Session() *Session {
	return c.session
}

// headers builds the outbound header set. The bearer header is only added
// when authorized and a token is present; a missing token means the request
// simply goes out unauthenticated.
func (c *Client) headers(authorized, decompress bool) http.Header {
	h := http.Header{}
	h.Set("User-Agent", c.userAgent)
	if locale := strings.TrimSpace(c.cfg.Locale); locale != "" {
		h.Set("Accept-Language", strings.ReplaceAll(strings.ToLower(locale), "_", "-"))
	}
	if authorized {
		if token := c.session.Token(); token != "" {
			h.Set("Authorization", "Bearer "+token)
		}
	}
	if decompress {
		h.Set("Accept-Encoding", acceptedEncodings)
	}
	return h
}

// resolve turns a path into a full URL against the base; absolute URLs
// pass through.
func (c *Client) resolve(target string) string {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return target
	}
	if !strings.HasPrefix(target, "/") {
		target = "/" + target
	}
	return c.baseURL + target
}

// Fetch performs a GET. On a 401 while authorized it re-authenticates and
// resends exactly once with rebuilt headers, regardless of whether the
// re-authentication succeeded. The second response is returned as-is.
func (c *Client) Fetch(ctx context.Context, target string, authorized bool) (*Response, error) {
	requestURL := c.resolve(target)
	slog.Info("fetch", "url", requestURL, "authorized", authorized)

	resp, err := c.do(ctx, http.MethodGet, requestURL, c.headers(authorized, true), nil)
	if err != nil {
		return nil, err
	}
	if authorized && resp.StatusCode == http.StatusUnauthorized {
		slog.Debug("session token outdated (401), re-authenticating")
		if _, err := c.Authenticate(ctx); err != nil {
			slog.Error("re-authentication failed", "error", err)
		}
		return c.do(ctx, http.MethodGet, requestURL, c.headers(authorized, true), nil)
	}
	return resp, nil
}

// Submit performs a POST with the configured compression policy.
func (c *Client) Submit(ctx context.Context, target string, payload any, authorized bool) (*Response, error) {
	return c.SubmitWithCompression(ctx, target, payload, authorized, c.cfg.CompressionEnabled())
}

// SubmitWithCompression performs a POST. The payload is serialized to JSON;
// when compress is enabled and the serialized size exceeds the configured
// threshold the body is gzip-compressed. The 401 handling matches Fetch:
// one re-authentication, one resend, no loop.
func (c *Client) SubmitWithCompression(ctx context.Context, target string, payload any, authorized, compress bool) (*Response, error) {
	requestURL := c.resolve(target)
	// Don't log the payload as it might contain credentials.
	slog.Info("submit", "url", requestURL, "authorized", authorized)

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize payload: %w", err)
	}
	slog.Debug("payload serialized", "size", len(data))

	header, body, err := c.submitHeadersAndBody(authorized, compress, data)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, http.MethodPost, requestURL, header, body)
	if err != nil {
		return nil, err
	}
	if authorized && resp.StatusCode == http.StatusUnauthorized {
		slog.Debug("session token outdated (401), re-authenticating")
		if _, err := c.Authenticate(ctx); err != nil {
			slog.Error("re-authentication failed", "error", err)
		}
		// Rebuild headers so the resend picks up the fresh token.
		header, body, err = c.submitHeadersAndBody(authorized, compress, data)
		if err != nil {
			return nil, err
		}
		return c.do(ctx, http.MethodPost, requestURL, header, body)
	}
	return resp, nil
}

// Send dispatches a payload with the given verb. Only POST is supported;
// PUT surfaces ErrPutNotImplemented instead of silently doing nothing.
func (c *Client) Send(ctx context.Context, target string, payload any, verb string) (*Response, error) {
	switch verb {
	case http.MethodPost:
		return c.Submit(ctx, target, payload, true)
	case http.MethodPut:
		return nil, ErrPutNotImplemented
	default:
		return nil, fmt.Errorf("unsupported verb %q", verb)
	}
}

// submitHeadersAndBody finalizes the POST headers and body, compressing
// the body when it is large enough.
func (c *Client) submitHeadersAndBody(authorized, compress bool, data []byte) (http.Header, []byte, error) {
	header := c.headers(authorized, compress)
	header.Set("Content-Type", "application/json")
	if compress && len(data) > c.cfg.CompressionThreshold {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			return nil, nil, fmt.Errorf("failed to compress payload: %w", err)
		}
		if err := zw.Close(); err != nil {
			return nil, nil, fmt.Errorf("failed to compress payload: %w", err)
		}
		header.Set("Content-Encoding", "gzip")
		slog.Debug("payload compressed", "size", buf.Len())
		return header, buf.Bytes(), nil
	}
	return header, data, nil
}

// do performs a single HTTP round trip and reads the full body.
// Connection, timeout and TLS errors come back as TransportError with
// request context; they are never retried here.
func (c *Client) do(ctx context.Context, method, requestURL string, header http.Header, body []byte) (*Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
	if err != nil {
		return nil, clierrors.WrapContext(method, requestURL, 0, err)
	}
	req.Header = header

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("request failed", "method", method, "url", requestURL, "error", err)
		return nil, clierrors.WrapContext(method, requestURL, 0, &clierrors.TransportError{Err: err})
	}
	defer func() { _ = resp.Body.Close() }()

	var bodyReader io.Reader = resp.Body
	// Accept-Encoding is set explicitly above, which disables net/http's
	// transparent decompression.
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		zr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, clierrors.WrapContext(method, requestURL, resp.StatusCode, &clierrors.TransportError{Err: err})
		}
		defer func() { _ = zr.Close() }()
		bodyReader = zr
	}

	data, err := io.ReadAll(bodyReader)
	if err != nil {
		return nil, clierrors.WrapContext(method, requestURL, resp.StatusCode, &clierrors.TransportError{Err: err})
	}
	elapsed := time.Since(start)
	slog.Debug("response", "status", resp.StatusCode, "elapsed", elapsed, "size", len(data))

	return &Response{
		StatusCode: resp.StatusCode,
		Elapsed:    elapsed,
		Body:       data,
	}, nil
}
