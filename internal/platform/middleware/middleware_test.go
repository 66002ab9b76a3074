package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func runThrough(mw echo.MiddlewareFunc, handler echo.HandlerFunc, req *http.Request) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := mw(handler)(c)
	return rec, err
}

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func TestRateLimitExhaustsBurst(t *testing.T) {
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 0.001, BurstSize: 3})
	e := echo.New()

	allowed, rejected := 0, 0
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		err := mw(okHandler)(c)
		if err == nil {
			allowed++
			continue
		}
		var httpErr *echo.HTTPError
		if !errors.As(err, &httpErr) || httpErr.Code != http.StatusTooManyRequests {
			t.Fatalf("unexpected error: %v", err)
		}
		rejected++
	}
	if allowed != 3 || rejected != 2 {
		t.Errorf("allowed=%d rejected=%d, want 3/2", allowed, rejected)
	}
}

func TestRequestIDGeneratesWhenAbsent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec, err := runThrough(RequestID(), okHandler, req)
	if err != nil {
		t.Fatalf("middleware: %v", err)
	}
	got := rec.Header().Get("X-Request-ID")
	if got == "" {
		t.Fatal("no request id set on response")
	}
	if _, err := uuid.Parse(got); err != nil {
		t.Errorf("generated request id is not a uuid: %q", got)
	}
}

func TestRequestIDHonorsIncoming(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "client-supplied-id")
	rec, err := runThrough(RequestID(), okHandler, req)
	if err != nil {
		t.Fatalf("middleware: %v", err)
	}
	if got := rec.Header().Get("X-Request-ID"); got != "client-supplied-id" {
		t.Errorf("request id = %q, want client-supplied-id", got)
	}
}

func TestRecoveryTurnsPanicInto500(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := runThrough(Recovery(zerolog.Nop()), func(c echo.Context) error {
		panic("boom")
	}, req)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError from recovered panic, got %v", err)
	}
	if httpErr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", httpErr.Code)
	}
}
