package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCheckReturnsStatusCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(2 * time.Second)
	if got := c.Check(context.Background(), srv.URL); got != http.StatusOK {
		t.Fatalf("Check = %d, want 200", got)
	}
}

func TestCheckReportsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := New(2 * time.Second)
	if got := c.Check(context.Background(), srv.URL); got != http.StatusNotFound {
		t.Fatalf("Check = %d, want 404", got)
	}
}

func TestCheckFollowsRedirects(t *testing.T) {
	final := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	}))
	defer final.Close()
	hop := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, final.URL, http.StatusFound)
	}))
	defer hop.Close()

	c := New(2 * time.Second)
	if got := c.Check(context.Background(), hop.URL); got != http.StatusGone {
		t.Fatalf("Check = %d, want the redirect target's 410", got)
	}
}

func TestCheckUnreachableOnDeadServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New(2 * time.Second)
	if got := c.Check(context.Background(), url); got != StatusUnreachable {
		t.Fatalf("Check = %d, want %d for a dead server", got, StatusUnreachable)
	}
}

func TestCheckUnreachableOnTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	c := New(50 * time.Millisecond)
	if got := c.Check(context.Background(), srv.URL); got != StatusUnreachable {
		t.Fatalf("Check = %d, want %d on timeout", got, StatusUnreachable)
	}
}

func TestCheckUnreachableOnBadURL(t *testing.T) {
	c := New(time.Second)
	if got := c.Check(context.Background(), "://not-a-url"); got != StatusUnreachable {
		t.Fatalf("Check = %d, want %d for a malformed URL", got, StatusUnreachable)
	}
}

func TestCheckURLOnlineMeansExactly200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := New(2 * time.Second)
	res := c.CheckURL(context.Background(), srv.URL)
	if res.StatusCode != http.StatusForbidden {
		t.Fatalf("StatusCode = %d, want 403", res.StatusCode)
	}
	if res.IsOnline {
		t.Fatalf("IsOnline = true for a 403, want false")
	}
}
