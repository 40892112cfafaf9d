/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer(t *testing.T, cfg *Config) *httptest.Server {
	t.Helper()

	if cfg.port == 0 {
		cfg.port = 8080
	}

	ctx, cancel := context.WithCancel(context.Background())

	metrics := newMetrics()
	hub := newHub(metrics)
	go hub.run(ctx)

	srv := httptest.NewServer(newRouter(cfg, hub, metrics, make(chan error, 64)))
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})

	return srv
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}

	return resp, body
}

func TestHumanReadableSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{999, "999 B"},
		{1000, "1.0 kB"},
		{1500000, "1.5 MB"},
	}

	for _, tt := range tests {
		if got := humanReadableSize(tt.in); got != tt.want {
			t.Errorf("%d: expected %q got %q", tt.in, tt.want, got)
		}
	}
}

func TestRealIP(t *testing.T) {
	tests := []struct {
		name   string
		remote string
		header map[string]string
		want   string
	}{
		{"remote addr", "10.0.0.1:1234", nil, "10.0.0.1:1234"},
		{"cloudflare", "10.0.0.1:1234", map[string]string{"CF-Connecting-IP": "1.2.3.4"}, "1.2.3.4:1234"},
		{"x-real-ip", "10.0.0.1:1234", map[string]string{"X-Real-IP": "5.6.7.8"}, "5.6.7.8:1234"},
		{"bad header", "10.0.0.1:1234", map[string]string{"X-Real-IP": "nope"}, "10.0.0.1:1234"},
		{"ipv6", "[::1]:1234", nil, "[::1]:1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.header {
				r.Header.Set(k, v)
			}

			if got := realIP(r); got != tt.want {
				t.Errorf("expected %q got %q", tt.want, got)
			}
		})
	}
}

func TestStaticRoutes(t *testing.T) {
	srv := newTestServer(t, &Config{prefix: "/game"})

	tests := []struct {
		path     string
		status   int
		contains string
	}{
		{"/game/", http.StatusOK, "/game/ws"},
		{"/game/healthz", http.StatusOK, "Ok"},
		{"/game/version", http.StatusOK, "impostor v" + releaseVersion},
		{"/game/robots.txt", http.StatusOK, "Disallow"},
		{"/game/metrics", http.StatusNotFound, ""},
		{"/game/pprof/heap", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := get(t, srv.URL+tt.path)

			if resp.StatusCode != tt.status {
				t.Errorf("wrong status expected: %d got: %d", tt.status, resp.StatusCode)
			}
			if !strings.Contains(string(body), tt.contains) {
				t.Errorf("body missing %q: %s", tt.contains, body)
			}
			if tt.status == http.StatusOK && resp.Header.Get("X-Content-Type-Options") != "nosniff" {
				t.Errorf("security headers missing")
			}
		})
	}
}

func TestMetricsRoute(t *testing.T) {
	srv := newTestServer(t, &Config{metrics: true})

	resp, body := get(t, srv.URL+"/metrics")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("wrong status expected: %d got: %d", http.StatusOK, resp.StatusCode)
	}

	for _, name := range []string{"impostor_rooms", "impostor_connections", "impostor_rounds_started_total"} {
		if !strings.Contains(string(body), name) {
			t.Errorf("metrics missing %s", name)
		}
	}
}

func TestRoomQR(t *testing.T) {
	srv := newTestServer(t, &Config{})

	resp, body := get(t, srv.URL+"/rooms/ab12/qr")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("wrong status expected: %d got: %d", http.StatusOK, resp.StatusCode)
	}
	if resp.Header.Get("Content-Type") != "image/png" {
		t.Errorf("wrong content type: %v", resp.Header.Get("Content-Type"))
	}
	if !bytes.HasPrefix(body, []byte("\x89PNG")) {
		t.Errorf("body is not a png")
	}
}

func TestJoinURL(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "http://play.example/game/rooms/ab12/qr", nil)
	r.Header.Set("X-Forwarded-Proto", "https")

	got := joinURL(&Config{prefix: "/game"}, r, "ab12")
	if got != "https://play.example/game/?room=ab12" {
		t.Errorf("wrong url: %v", got)
	}
}

func TestRateLimit(t *testing.T) {
	srv := newTestServer(t, &Config{rateLimit: 2})

	var last int
	for range 3 {
		resp, _ := get(t, srv.URL+"/healthz")
		last = resp.StatusCode
	}

	if last != http.StatusTooManyRequests {
		t.Errorf("wrong status expected: %d got: %d", http.StatusTooManyRequests, last)
	}
}

func TestCORS(t *testing.T) {
	srv := newTestServer(t, &Config{corsOrigins: []string{"https://allowed.example"}})

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	req.Header.Set("Origin", "https://allowed.example")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://allowed.example" {
		t.Errorf("wrong allow origin: %q", got)
	}
}
