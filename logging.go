package openmotics

import (
	"log/slog"
	"net/http"
	"time"
)

// LoggingTransport wraps an http.RoundTripper and logs requests/responses.
// Install it on a client supplied via WithHTTPClient to trace all API
// traffic, including retries.
type LoggingTransport struct {
	Base   http.RoundTripper
	Logger *slog.Logger
}

// RoundTrip implements http.RoundTripper with logging.
func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	if t.Logger != nil {
		t.Logger.LogAttrs(req.Context(), slog.LevelDebug, "api_request",
			slog.String("method", req.Method),
			slog.String("url", req.URL.String()),
		)
	}

	resp, err := base.RoundTrip(req)
	duration := time.Since(start)

	if t.Logger != nil {
		if err != nil {
			t.Logger.LogAttrs(req.Context(), slog.LevelError, "api_error",
				slog.String("method", req.Method),
				slog.String("url", req.URL.String()),
				slog.Duration("duration", duration),
				slog.String("error", err.Error()),
			)
		} else {
			level := slog.LevelDebug
			if resp.StatusCode >= 400 {
				level = slog.LevelWarn
			}
			if resp.StatusCode >= 500 {
				level = slog.LevelError
			}

			t.Logger.LogAttrs(req.Context(), level, "api_response",
				slog.String("method", req.Method),
				slog.String("url", req.URL.String()),
				slog.Int("status", resp.StatusCode),
				slog.Duration("duration", duration),
			)
		}
	}

	return resp, err
}
