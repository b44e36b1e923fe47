package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestSendTruncatesTo160(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		got = body["sms"]
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewSMSClient(srv.Client(), "key", "HyreNG")
	c.SetBaseURL(srv.URL)
	c.sleep = func(time.Duration) {}

	long := strings.Repeat("x", 200)
	if err := c.Send(context.Background(), "+2348012345678", long); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(got) != 160 {
		t.Fatalf("expected 160-char message, got %d", len(got))
	}
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	long := strings.Repeat("₦", 200)
	got := Truncate(long, 160)
	if !utf8.ValidString(got) {
		t.Fatalf("truncated message is not valid UTF-8: %q", got[len(got)-6:])
	}
	if n := utf8.RuneCountInString(got); n != 160 {
		t.Fatalf("expected 160 characters, got %d", n)
	}
	if short := "naïve"; Truncate(short, 160) != short {
		t.Fatal("short multibyte message must pass through untouched")
	}
}

func TestSendRetriesServerErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	var slept []time.Duration
	c := NewSMSClient(srv.Client(), "key", "HyreNG")
	c.SetBaseURL(srv.URL)
	c.sleep = func(d time.Duration) { slept = append(slept, d) }

	if err := c.Send(context.Background(), "+2348012345678", "hello"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
	if len(slept) != 2 || slept[0] != time.Second || slept[1] != 2*time.Second {
		t.Fatalf("unexpected backoff schedule %v", slept)
	}
}

func TestSendGivesUpAfterThreeRetries(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewSMSClient(srv.Client(), "key", "HyreNG")
	c.SetBaseURL(srv.URL)
	c.sleep = func(time.Duration) {}

	if err := c.Send(context.Background(), "+2348012345678", "hello"); err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	if attempts != 4 {
		t.Fatalf("expected 1 try + 3 retries, got %d attempts", attempts)
	}
}

func TestSendDoesNotRetryClientErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewSMSClient(srv.Client(), "bad-key", "HyreNG")
	c.SetBaseURL(srv.URL)
	c.sleep = func(time.Duration) { t.Fatal("must not sleep on 4xx") }

	if err := c.Send(context.Background(), "+2348012345678", "hello"); err == nil {
		t.Fatal("expected error for rejected request")
	}
	if attempts != 1 {
		t.Fatalf("expected a single attempt, got %d", attempts)
	}
}
