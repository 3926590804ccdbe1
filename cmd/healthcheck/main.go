package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"time"
)

func main() {
	addr := normalizeAddr(os.Getenv("PASSVAULT_LISTEN_ADDR"))
	os.Exit(check(&http.Client{Timeout: 2 * time.Second}, "http://"+addr))
}

// check returns 0 when baseURL's health endpoint answers 200, 1 otherwise.
// A degraded database answers 503 and fails the probe.
func check(client *http.Client, baseURL string) int {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/v1/health", nil)
	if err != nil {
		return 1
	}

	resp, err := client.Do(req)
	if err != nil {
		return 1
	}
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 1
	}

	return 0
}

// normalizeAddr points the probe at loopback when the server binds all
// interfaces, since the probe runs inside the same container.
func normalizeAddr(raw string) string {
	if raw == "" {
		return "127.0.0.1:8080"
	}

	host, port, err := net.SplitHostPort(raw)
	if err != nil {
		return "127.0.0.1:8080"
	}

	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}

	return net.JoinHostPort(host, port)
}
