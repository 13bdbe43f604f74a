package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestProbeHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := &http.Client{Timeout: 2 * time.Second}

	if got := probeHTTP(context.Background(), client, server.URL); got != "ok" {
		t.Errorf("reachable endpoint = %q, want ok", got)
	}
	if got := probeHTTP(context.Background(), client, ""); got != "unconfigured" {
		t.Errorf("empty base URL = %q, want unconfigured", got)
	}

	server.Close()
	if got := probeHTTP(context.Background(), client, server.URL); got != "down" {
		t.Errorf("closed endpoint = %q, want down", got)
	}
}
