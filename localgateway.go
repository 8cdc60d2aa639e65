package openmotics

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

const (
	// LocalDefaultPort is the default API port of a local gateway.
	LocalDefaultPort = 443

	// localTokenLifetime is how long a gateway-issued bearer token stays
	// valid after a successful login.
	localTokenLifetime = 3600 * time.Second

	// clockSkewMargin is the lead time before expiry at which a token is
	// treated as stale, guarding against clock drift between client and
	// gateway.
	clockSkewMargin = 20 * time.Second
)

// LocalGateway is a client for the HTTP API of an on-premise OpenMotics
// gateway. It exchanges the configured username/password for a bearer
// token on demand and transparently re-logs-in when the token nears
// expiry.
//
// A LocalGateway is safe for concurrent use. Two concurrent calls that
// find the token expired may both trigger a login; the logins are
// idempotent and the last token written wins.
type LocalGateway struct {
	Client

	host     string
	port     int
	username string
	password string

	// tokenMu guards the credential fields. It is not held across the
	// login call itself, preserving the concurrent re-login behavior
	// documented above.
	tokenMu        sync.Mutex
	token          string
	tokenExpiresAt time.Time

	Outputs       *LocalOutputsService
	Lights        *LocalLightsService
	Inputs        *LocalInputsService
	Sensors       *LocalSensorsService
	EnergySensors *LocalEnergySensorsService
	Shutters      *LocalShuttersService
	GroupActions  *LocalGroupActionsService
	Thermostats   *LocalThermostatsService
}

// NewLocalGateway creates a client for a local OpenMotics gateway.
// Certificate verification is disabled by default (gateways ship with
// self-signed certificates); enable it with WithVerifyTLS(true) or supply
// an explicit configuration with WithTLSConfig.
func NewLocalGateway(username, password, host string, opts ...Option) (*LocalGateway, error) {
	if host == "" {
		return nil, ErrEmptyHost
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	tlsConfig := cfg.tlsConfig
	if tlsConfig == nil {
		tlsConfig = &tls.Config{InsecureSkipVerify: !cfg.verifyTLS} // #nosec G402 -- self-signed gateway certs
	}

	g := &LocalGateway{
		Client: Client{
			httpClient: cfg.httpClient,
			tlsConfig:  tlsConfig,
			timeout:    cfg.timeout,
			userAgent:  cfg.userAgent,
			logger:     cfg.logger,
			retry:      cfg.retry,
		},
		host:     host,
		port:     cfg.port,
		username: username,
		password: password,
	}
	g.Client.backend = g

	g.Outputs = &LocalOutputsService{gw: g}
	g.Lights = &LocalLightsService{gw: g}
	g.Inputs = &LocalInputsService{gw: g}
	g.Sensors = &LocalSensorsService{gw: g}
	g.EnergySensors = &LocalEnergySensorsService{gw: g}
	g.Shutters = &LocalShuttersService{gw: g}
	g.GroupActions = &LocalGroupActionsService{gw: g}
	g.Thermostats = &LocalThermostatsService{gw: g}

	return g, nil
}

// loginResponse is the gateway's answer to POST /login.
type loginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// Login authenticates against the gateway and stores the bearer token.
// On a rejected login the credential state is reset and ErrAuthentication
// is returned. Callers normally never need this; every authenticated call
// logs in automatically when the token is absent or stale.
func (g *LocalGateway) Login(ctx context.Context) error {
	if g.username == "" || g.password == "" {
		return ErrNoCredentials
	}

	body := map[string]string{
		"username": g.username,
		"password": g.password,
	}

	// Bypasses authHeaders: the login endpoint is the one call that must
	// not require a token.
	data, _, err := g.doWithRetry(ctx, http.MethodPost, "login", body, nil, "")
	if err != nil {
		g.resetToken()
		return err
	}

	var resp loginResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		g.resetToken()
		return fmt.Errorf("openmotics: failed to parse login response: %w (body: %s)", err, truncatePreview(data))
	}

	if !resp.Success {
		g.resetToken()
		return fmt.Errorf("openmotics: gateway rejected login: %w", ErrAuthentication)
	}

	g.tokenMu.Lock()
	g.token = resp.Token
	g.tokenExpiresAt = time.Now().Add(localTokenLifetime)
	g.tokenMu.Unlock()

	return nil
}

func (g *LocalGateway) resetToken() {
	g.tokenMu.Lock()
	g.token = ""
	g.tokenExpiresAt = time.Time{}
	g.tokenMu.Unlock()
}

// Token returns the current bearer token, if any.
func (g *LocalGateway) Token() string {
	g.tokenMu.Lock()
	defer g.tokenMu.Unlock()
	return g.token
}

// TokenExpiresAt returns the wall-clock deadline of the current token.
// The zero time means no token is held.
func (g *LocalGateway) TokenExpiresAt() time.Time {
	g.tokenMu.Lock()
	defer g.tokenMu.Unlock()
	return g.tokenExpiresAt
}

// ensureToken logs in when no token is held or the current one is within
// the clock-skew margin of expiry.
func (g *LocalGateway) ensureToken(ctx context.Context) error {
	g.tokenMu.Lock()
	valid := g.token != "" && time.Now().Add(clockSkewMargin).Before(g.tokenExpiresAt)
	g.tokenMu.Unlock()
	if valid {
		return nil
	}
	return g.Login(ctx)
}

// resolveURL implements the backend interface: scheme://host:port/path.
func (g *LocalGateway) resolveURL(path, scheme string) (string, error) {
	if scheme == "" {
		scheme = "https"
	}
	for len(path) > 0 && path[0] == '/' {
		path = path[1:]
	}
	return fmt.Sprintf("%s://%s/%s", scheme, net.JoinHostPort(g.host, strconv.Itoa(g.port)), path), nil
}

// authHeaders implements the backend interface, refreshing the token first
// when needed.
func (g *LocalGateway) authHeaders(ctx context.Context, h http.Header) error {
	if err := g.ensureToken(ctx); err != nil {
		return err
	}
	h.Set("Authorization", "Bearer "+g.Token())
	h.Set("Accept", "application/json, text/plain, */*")
	return nil
}

// WebsocketURL returns the URL of the gateway's event WebSocket endpoint.
// Event streaming itself is out of scope for this library; the URL is
// exposed for callers bringing their own WebSocket client.
func (g *LocalGateway) WebsocketURL() string {
	u, _ := g.resolveURL("ws_events", "wss")
	return u
}

// ExecAction POSTs a gateway RPC action (for example "get_output_status")
// and returns the decoded response envelope. The typed accessor services
// are usually more convenient.
func (g *LocalGateway) ExecAction(ctx context.Context, action string, body any) (map[string]any, error) {
	data, _, err := g.post(ctx, action, body)
	if err != nil {
		return nil, err
	}
	var env map[string]any
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("openmotics: failed to parse %q response: %w (body: %s)", action, err, truncatePreview(data))
	}
	return env, nil
}

// actionRecords runs a gateway RPC action and extracts the named list of
// record maps ("config", "status", ...) from its envelope.
func (g *LocalGateway) actionRecords(ctx context.Context, action, key string) ([]map[string]any, error) {
	env, err := g.ExecAction(ctx, action, nil)
	if err != nil {
		return nil, err
	}
	raw, ok := env[key].([]any)
	if !ok {
		return nil, fmt.Errorf("openmotics: %q response has no %q list", action, key)
	}
	records := make([]map[string]any, 0, len(raw))
	for _, r := range raw {
		if m, ok := r.(map[string]any); ok {
			records = append(records, m)
		}
	}
	return records, nil
}
