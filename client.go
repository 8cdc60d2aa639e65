package openmotics

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/oauth2"
)

const (
	// libraryVersion is reported in the User-Agent header.
	libraryVersion = "1.0.0"

	// defaultUserAgent identifies this library to the OpenMotics API.
	defaultUserAgent = "openmotics-go/" + libraryVersion

	// DefaultTimeout is the default per-attempt request timeout. It matches
	// the timeout the gateway firmware itself uses for API calls.
	DefaultTimeout = 8 * time.Second
)

// RetryConfig configures automatic retry behavior for transient
// connection failures. Authentication, TLS, and timeout errors are
// never retried.
type RetryConfig struct {
	// MaxRetries is the number of retries after the first attempt
	// (default: 2, i.e. three attempts total).
	MaxRetries int
	// InitialBackoff is the initial backoff duration (default: 100ms).
	InitialBackoff time.Duration
	// MaxBackoff is the maximum backoff duration (default: 5s).
	MaxBackoff time.Duration
	// Multiplier is the backoff multiplier (default: 2.0).
	Multiplier float64
}

// DefaultRetryConfig returns sensible retry defaults.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:     2,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     5 * time.Second,
		Multiplier:     2.0,
	}
}

// backend is the per-deployment capability the request engine is
// parameterized over. LocalGateway and CloudClient implement it.
type backend interface {
	// resolveURL builds the full request URL for an API path. An empty
	// scheme selects the backend's default.
	resolveURL(path, scheme string) (string, error)

	// authHeaders adds authentication headers for the next request. It may
	// refresh or obtain a token first.
	authHeaders(ctx context.Context, h http.Header) error
}

// Client is the shared request engine underneath LocalGateway and
// CloudClient: session lifecycle, retry policy, and error classification.
type Client struct {
	backend backend

	sessionMu  sync.Mutex
	httpClient *http.Client
	ownsClient bool
	tlsConfig  *tls.Config

	timeout   time.Duration
	userAgent string
	logger    *slog.Logger
	retry     *RetryConfig
}

// config collects constructor options for both client variants. Each With*
// option documents which variant honors it.
type config struct {
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
	logger     *slog.Logger
	retry      *RetryConfig

	// local gateway
	port      int
	verifyTLS bool
	tlsConfig *tls.Config

	// cloud
	baseURL        string
	installationID int
	tokenSource    oauth2.TokenSource
}

func defaultConfig() *config {
	return &config{
		timeout:   DefaultTimeout,
		userAgent: defaultUserAgent,
		retry:     DefaultRetryConfig(),
		port:      LocalDefaultPort,
		baseURL:   CloudDefaultBaseURL,
	}
}

// Option configures a LocalGateway or CloudClient.
type Option func(*config)

// WithHTTPClient sets a custom, shared HTTP client. The client will not be
// closed by Close; its lifecycle belongs to the caller.
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) {
		c.httpClient = client
	}
}

// WithTimeout sets the per-attempt request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *config) {
		c.timeout = timeout
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *config) {
		c.userAgent = ua
	}
}

// WithLogger configures a structured logger. When set, the client logs
// request outcomes at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithRetry overrides the automatic retry configuration. Passing nil
// disables retries entirely.
func WithRetry(retry *RetryConfig) Option {
	return func(c *config) {
		c.retry = retry
	}
}

// WithPort sets the API port of a local gateway (default: 443).
func WithPort(port int) Option {
	return func(c *config) {
		c.port = port
	}
}

// WithVerifyTLS enables certificate verification on a local gateway
// connection. Verification is off by default since gateways ship with
// self-signed certificates.
func WithVerifyTLS(verify bool) Option {
	return func(c *config) {
		c.verifyTLS = verify
	}
}

// WithTLSConfig sets an explicit TLS configuration, taking precedence over
// WithVerifyTLS. Ignored when WithHTTPClient supplies the session.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(c *config) {
		c.tlsConfig = cfg
	}
}

// WithBaseURL sets a custom base URL for the cloud API.
func WithBaseURL(baseURL string) Option {
	return func(c *config) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithInstallationID preselects the cloud installation scoping all
// resource paths. It can be changed later with SetInstallationID.
func WithInstallationID(id int) Option {
	return func(c *config) {
		c.installationID = id
	}
}

// WithTokenSource sets an oauth2 token source consulted before every cloud
// request, replacing the static token. Use this when the bearer token is
// managed by an OAuth flow and needs refreshing.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(c *config) {
		c.tokenSource = ts
	}
}

// session returns the HTTP client, lazily creating an owned one on first
// use when none was supplied.
func (c *Client) session() *http.Client {
	c.sessionMu.Lock()
	defer c.sessionMu.Unlock()
	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Transport: &http.Transport{
				TLSClientConfig:     c.tlsConfig,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
		c.ownsClient = true
	}
	return c.httpClient
}

// Close releases the HTTP session if this client created it; shared
// sessions supplied via WithHTTPClient are left untouched. Close is
// idempotent and safe to call under defer.
func (c *Client) Close() {
	c.sessionMu.Lock()
	defer c.sessionMu.Unlock()
	if c.httpClient != nil && c.ownsClient {
		c.httpClient.CloseIdleConnections()
		c.httpClient = nil
		c.ownsClient = false
	}
}

// do performs a single request attempt and classifies any failure into the
// package error taxonomy. It returns the response body and Content-Type.
func (c *Client) do(ctx context.Context, method, path string, body any, header http.Header, scheme string) ([]byte, string, error) {
	u, err := c.backend.resolveURL(path, scheme)
	if err != nil {
		return nil, "", err
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, "", fmt.Errorf("openmotics: failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, method, u, reqBody)
	if err != nil {
		return nil, "", fmt.Errorf("%w: invalid request: %w", ErrConnection, err)
	}

	for k, v := range header {
		req.Header[k] = v
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.session().Do(req)
	if err != nil {
		return nil, "", classifyTransportError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", classifyTransportError(err)
	}

	if c.logger != nil {
		c.logger.LogAttrs(ctx, slog.LevelDebug, "api_response",
			slog.String("method", method),
			slog.String("url", u),
			slog.Int("status", resp.StatusCode),
			slog.String("body", truncatePreview(respBody)),
		)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, "", fmt.Errorf("openmotics: API returned status %d: %w", resp.StatusCode, ErrAuthentication)
	}
	if resp.StatusCode >= 400 {
		return nil, "", &APIError{
			StatusCode: resp.StatusCode,
			Message:    truncatePreview(respBody),
		}
	}

	return respBody, resp.Header.Get("Content-Type"), nil
}

// doWithRetry wraps do with the retry policy: transient connection errors
// are retried with exponential backoff, everything else fails immediately.
func (c *Client) doWithRetry(ctx context.Context, method, path string, body any, header http.Header, scheme string) ([]byte, string, error) {
	if c.retry == nil {
		return c.do(ctx, method, path, body, header, scheme)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.retry.InitialBackoff
	bo.MaxInterval = c.retry.MaxBackoff
	bo.Multiplier = c.retry.Multiplier

	var respBody []byte
	var contentType string
	op := func() error {
		b, ct, err := c.do(ctx, method, path, body, header, scheme)
		if err != nil {
			if IsConnectionError(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		respBody, contentType = b, ct
		return nil
	}

	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, uint64(c.retry.MaxRetries)), ctx))
	if err != nil {
		return nil, "", err
	}
	return respBody, contentType, nil
}

// get performs an authenticated GET and returns the raw response body.
// Typed accessors decode it themselves.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, string, error) {
	h := make(http.Header)
	if err := c.backend.authHeaders(ctx, h); err != nil {
		return nil, "", err
	}
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	return c.doWithRetry(ctx, http.MethodGet, path, nil, h, "")
}

// post performs an authenticated POST and returns the raw response body.
func (c *Client) post(ctx context.Context, path string, body any) ([]byte, string, error) {
	h := make(http.Header)
	if err := c.backend.authHeaders(ctx, h); err != nil {
		return nil, "", err
	}
	return c.doWithRetry(ctx, http.MethodPost, path, body, h, "")
}

// del performs an authenticated DELETE and returns the raw response body.
func (c *Client) del(ctx context.Context, path string) ([]byte, string, error) {
	h := make(http.Header)
	if err := c.backend.authHeaders(ctx, h); err != nil {
		return nil, "", err
	}
	return c.doWithRetry(ctx, http.MethodDelete, path, nil, h, "")
}

// Get issues an authenticated GET request against an API path. The result
// is the decoded JSON value when the response declares application/json,
// or the raw body string for any other content type.
func (c *Client) Get(ctx context.Context, path string, params url.Values) (any, error) {
	body, contentType, err := c.get(ctx, path, params)
	if err != nil {
		return nil, err
	}
	return decodeBody(body, contentType)
}

// Post issues an authenticated POST request against an API path. A non-nil
// body is sent as JSON. Response decoding follows the same rules as Get.
func (c *Client) Post(ctx context.Context, path string, body any) (any, error) {
	respBody, contentType, err := c.post(ctx, path, body)
	if err != nil {
		return nil, err
	}
	return decodeBody(respBody, contentType)
}

// Delete issues an authenticated DELETE request against an API path.
func (c *Client) Delete(ctx context.Context, path string) (any, error) {
	respBody, contentType, err := c.del(ctx, path)
	if err != nil {
		return nil, err
	}
	return decodeBody(respBody, contentType)
}

// decodeBody turns a response body into the value Get/Post return: parsed
// JSON for JSON responses, the body text otherwise.
func decodeBody(body []byte, contentType string) (any, error) {
	if strings.Contains(contentType, "application/json") {
		var v any
		if err := json.Unmarshal(body, &v); err != nil {
			return nil, fmt.Errorf("openmotics: failed to parse JSON response: %w (body: %s)", err, truncatePreview(body))
		}
		return v, nil
	}
	return string(body), nil
}

// classifyTransportError maps raw transport failures onto the package
// error taxonomy. Nothing below this boundary escapes unwrapped.
func classifyTransportError(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || isNetTimeout(err):
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	case isCertificateError(err):
		return fmt.Errorf("%w: %w", ErrTLS, err)
	default:
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}
}

func isNetTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isCertificateError(err error) bool {
	var (
		certVerify  *tls.CertificateVerificationError
		recordErr   tls.RecordHeaderError
		unknownAuth x509.UnknownAuthorityError
		hostname    x509.HostnameError
		invalid     x509.CertificateInvalidError
	)
	return errors.As(err, &certVerify) ||
		errors.As(err, &recordErr) ||
		errors.As(err, &unknownAuth) ||
		errors.As(err, &hostname) ||
		errors.As(err, &invalid)
}
