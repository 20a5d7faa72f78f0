package netcheck

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultEchoURL is the address-echo endpoint queried for the host's
	// internet-facing address.
	DefaultEchoURL = "https://api.ipify.org"
	// DefaultEchoTimeout bounds the echo request.
	DefaultEchoTimeout = 2 * time.Second

	maxEchoBody = 256
)

// PublicAddr asks the echo endpoint for the host's public address. Any
// failure (network, non-2xx, timeout) yields "", which callers must treat
// as "reachability unknown" rather than a probe target.
func PublicAddr(ctx context.Context, url string, timeout time.Duration) string {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ""
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ""
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxEchoBody))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(body))
}
