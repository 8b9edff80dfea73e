// Package probe performs best-effort HTTP liveness checks against
// mission targets. A probe is a single bounded GET; the only output is
// a coarse status signal. A 200 means the origin answered, nothing
// more — content inspection is out of scope.
package probe

import (
	"context"
	"net/http"
	"time"
)

// StatusUnreachable is the signal for "no response at all": network
// failure, DNS error, TLS error, timeout or a malformed URL.
const StatusUnreachable = 0

// Checker issues liveness probes with a shared HTTP client. The client
// follows redirects (default policy) so parked/moved scam pages report
// the status of their final destination.
type Checker struct {
	client *http.Client
}

// New returns a Checker whose probes are cut off after timeout.
func New(timeout time.Duration) *Checker {
	return &Checker{client: &http.Client{Timeout: timeout}}
}

// Check probes url and returns its HTTP status code, or
// StatusUnreachable on any failure. It never returns an error: an
// unreachable target is a normal business signal, not a fault.
func (c *Checker) Check(ctx context.Context, url string) int {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return StatusUnreachable
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return StatusUnreachable
	}
	defer resp.Body.Close()
	return resp.StatusCode
}

// Result is the payload of the manual site-check endpoint: a direct
// pass-through of one probe with no state mutation.
type Result struct {
	URL        string `json:"url"`
	StatusCode int    `json:"status_code"`
	IsOnline   bool   `json:"is_online"`
}

// CheckURL runs one probe and wraps it in a Result. IsOnline is a
// strict 200 comparison, mirroring how completion treats liveness.
func (c *Checker) CheckURL(ctx context.Context, url string) Result {
	code := c.Check(ctx, url)
	return Result{URL: url, StatusCode: code, IsOnline: code == http.StatusOK}
}
