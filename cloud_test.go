package openmotics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"golang.org/x/oauth2"
)

// newTestCloud returns a CloudClient pointed at a plain-HTTP test server.
func newTestCloud(t *testing.T, handler http.Handler, opts ...Option) *CloudClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewCloudClient("test-token", append([]Option{WithBaseURL(server.URL)}, opts...)...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestNewCloudClient(t *testing.T) {
	t.Run("empty token", func(t *testing.T) {
		_, err := NewCloudClient("")
		if err != ErrEmptyToken {
			t.Errorf("err = %v, want ErrEmptyToken", err)
		}
	})

	t.Run("token source allows empty token", func(t *testing.T) {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "tok"})
		c, err := NewCloudClient("", WithTokenSource(ts))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer c.Close()
	})

	t.Run("valid", func(t *testing.T) {
		c, err := NewCloudClient("token")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer c.Close()
		if c.Installations == nil || c.Outputs == nil || c.Ventilations == nil {
			t.Error("resource services not initialized")
		}
		if c.baseURL != CloudDefaultBaseURL {
			t.Errorf("baseURL = %q, want %q", c.baseURL, CloudDefaultBaseURL)
		}
	})
}

func TestCloudClient_InstallationScoping(t *testing.T) {
	t.Run("no installation selected", func(t *testing.T) {
		c := newTestCloud(t, http.NewServeMux())
		_, err := c.Outputs.List(context.Background(), "")
		if err != ErrNoInstallation {
			t.Errorf("err = %v, want ErrNoInstallation", err)
		}
	})

	t.Run("paths are installation scoped", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/base/installations/21/outputs/3", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"id": 3, "name": "Porch"}})
		})
		c := newTestCloud(t, mux, WithInstallationID(21))

		o, err := c.Outputs.Get(context.Background(), 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if o.ID != 3 || o.Name != "Porch" {
			t.Errorf("output = %v, want 3_Porch", o)
		}
	})

	t.Run("SetInstallationID reselects", func(t *testing.T) {
		var path string
		mux := http.NewServeMux()
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
		})
		c := newTestCloud(t, mux, WithInstallationID(21))

		c.SetInstallationID(42)
		if c.InstallationID() != 42 {
			t.Errorf("InstallationID() = %d, want 42", c.InstallationID())
		}
		if _, err := c.Inputs.List(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if path != "/base/installations/42/inputs" {
			t.Errorf("path = %q, want /base/installations/42/inputs", path)
		}
	})
}

func TestCloudClient_Auth(t *testing.T) {
	t.Run("static token in Authorization header", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/base/installations", func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
				t.Errorf("Authorization = %q, want %q", got, "Bearer test-token")
			}
			json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
		})
		c := newTestCloud(t, mux)
		if _, err := c.Installations.List(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("token source refreshes before each request", func(t *testing.T) {
		var calls int32
		ts := tokenSourceFunc(func() (*oauth2.Token, error) {
			atomic.AddInt32(&calls, 1)
			return &oauth2.Token{AccessToken: "refreshed"}, nil
		})

		mux := http.NewServeMux()
		mux.HandleFunc("/base/installations", func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer refreshed" {
				t.Errorf("Authorization = %q, want %q", got, "Bearer refreshed")
			}
			json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
		})
		c := newTestCloud(t, mux, WithTokenSource(ts))

		ctx := context.Background()
		for i := 0; i < 2; i++ {
			if _, err := c.Installations.List(ctx); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if calls != 2 {
			t.Errorf("token source calls = %d, want 2", calls)
		}
		if c.Token() != "refreshed" {
			t.Errorf("Token() = %q, want %q", c.Token(), "refreshed")
		}
	})

	t.Run("token source failure is an authentication error", func(t *testing.T) {
		ts := tokenSourceFunc(func() (*oauth2.Token, error) {
			return nil, context.DeadlineExceeded
		})
		c := newTestCloud(t, http.NewServeMux(), WithTokenSource(ts))

		_, err := c.Installations.List(context.Background())
		if !IsAuthenticationError(err) {
			t.Errorf("err = %v, want authentication error", err)
		}
	})
}

// tokenSourceFunc adapts a function to oauth2.TokenSource.
type tokenSourceFunc func() (*oauth2.Token, error)

func (f tokenSourceFunc) Token() (*oauth2.Token, error) { return f() }

func TestCloudClient_RawAccess(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/base/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"alive": true})
	})
	mux.HandleFunc("/base/text", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("pong"))
	})
	c := newTestCloud(t, mux)
	ctx := context.Background()

	v, err := c.Get(ctx, "/base/status", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m, ok := v.(map[string]any)
	if !ok || m["alive"] != true {
		t.Errorf("Get returned %v, want alive=true map", v)
	}

	v, err = c.Get(ctx, "/base/text", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "pong" {
		t.Errorf("Get returned %v, want %q", v, "pong")
	}
}

func TestCloudClient_ResolveURL(t *testing.T) {
	c, err := NewCloudClient("token", WithBaseURL("https://api.example.com/api/v1.1/"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Close()

	got, err := c.resolveURL("base/installations", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "https://api.example.com/api/v1.1/base/installations"
	if got != want {
		t.Errorf("resolveURL = %q, want %q", got, want)
	}
}
