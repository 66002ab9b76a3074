package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newEchoRequest(method, target, body string) (*http.Request, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	return req, httptest.NewRecorder()
}

func TestHandlerBook(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.svc)
	e := echo.New()

	body := fmt.Sprintf(`{"patient_id":%q,"doctor_id":%q,"date":"2026-08-24","time":"10:00","consultation_type":"in-person","reason":"checkup"}`,
		f.patient, f.doctorID)
	req, rec := newEchoRequest(http.MethodPost, "/api/v1/appointments", body)
	c := e.NewContext(req, rec)

	if err := h.Book(c); err != nil {
		t.Fatalf("Book handler: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	var appt Appointment
	if err := json.Unmarshal(rec.Body.Bytes(), &appt); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if appt.Status != StatusPending {
		t.Errorf("status = %s, want pending", appt.Status)
	}
}

func TestHandlerBookConflictIs409(t *testing.T) {
	f := newFixture(t)
	f.book(t, "10:00")
	h := NewHandler(f.svc)
	e := echo.New()

	body := fmt.Sprintf(`{"patient_id":%q,"doctor_id":%q,"date":"2026-08-24","time":"10:00","consultation_type":"phone","reason":"follow-up"}`,
		f.patient, f.doctorID)
	req, rec := newEchoRequest(http.MethodPost, "/api/v1/appointments", body)
	c := e.NewContext(req, rec)

	err := h.Book(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if httpErr.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", httpErr.Code)
	}
}

func TestHandlerCancelRequiresReason(t *testing.T) {
	f := newFixture(t)
	appt := f.book(t, "10:00")
	h := NewHandler(f.svc)
	e := echo.New()

	req, rec := newEchoRequest(http.MethodPost, "/", `{"reason":""}`)
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/appointments/:id/cancel")
	c.SetParamNames("id")
	c.SetParamValues(appt.ID.String())

	err := h.Cancel(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if httpErr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", httpErr.Code)
	}
}

func TestHandlerTransitionOnTerminalIs409(t *testing.T) {
	f := newFixture(t)
	appt := f.book(t, "10:00")
	if _, err := f.svc.Cancel(context.Background(), appt.ID, "done"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	h := NewHandler(f.svc)
	e := echo.New()

	req, rec := newEchoRequest(http.MethodPost, "/", "")
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/appointments/:id/confirm")
	c.SetParamNames("id")
	c.SetParamValues(appt.ID.String())

	err := h.Confirm(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if httpErr.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", httpErr.Code)
	}
}

func TestHandlerGetUnknownIs404(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.svc)
	e := echo.New()

	req, rec := newEchoRequest(http.MethodGet, "/", "")
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/appointments/:id")
	c.SetParamNames("id")
	c.SetParamValues("a7c3e9f2-0000-0000-0000-000000000001")

	err := h.Get(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if httpErr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", httpErr.Code)
	}
}

func TestHandlerSlotsRequiresDate(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.svc)
	e := echo.New()

	req, rec := newEchoRequest(http.MethodGet, "/", "")
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/doctors/:id/slots")
	c.SetParamNames("id")
	c.SetParamValues(f.doctorID.String())

	err := h.AvailableSlots(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if httpErr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", httpErr.Code)
	}
}

func TestHandlerSlots(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.svc)
	e := echo.New()

	req, rec := newEchoRequest(http.MethodGet, "/?date=2026-08-24", "")
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/doctors/:id/slots")
	c.SetParamNames("id")
	c.SetParamValues(f.doctorID.String())

	if err := h.AvailableSlots(c); err != nil {
		t.Fatalf("AvailableSlots handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Slots []Slot `json:"slots"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Slots) != 14 {
		t.Errorf("expected 14 slots, got %d", len(resp.Slots))
	}
}
