// Package notification is the outbound notification port for the scheduling
// core. Dispatch is post-commit and best-effort: a failing sender is logged
// and never surfaced to the caller, so a committed booking can't be rolled
// back by a notification problem.
package notification

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Type classifies a notification for the receiving client.
type Type string

const (
	TypeAppointment  Type = "appointment"
	TypeReschedule   Type = "reschedule"
	TypeCancellation Type = "cancellation"
	TypeSystem       Type = "system"
)

// Priority indicates how prominently a notification should be surfaced.
type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// Notification is a single outbound message to a user.
type Notification struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	Title         string     `json:"title"`
	Message       string     `json:"message"`
	Type          Type       `json:"type"`
	Priority      Priority   `json:"priority"`
	AppointmentID *uuid.UUID `json:"appointment_id,omitempty"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	SentAt        *time.Time `json:"sent_at,omitempty"`
	Error         string     `json:"error,omitempty"`
}

// Sender delivers a notification to its transport (push, email, in-app feed).
type Sender interface {
	Send(ctx context.Context, n *Notification) error
}

// Dispatcher fans notifications out to a Sender without blocking the caller.
type Dispatcher struct {
	sender Sender
	logger zerolog.Logger

	mu   sync.RWMutex
	sent map[uuid.UUID]*Notification
	wg   sync.WaitGroup
}

func NewDispatcher(sender Sender, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		sender: sender,
		logger: logger,
		sent:   make(map[uuid.UUID]*Notification),
	}
}

// Dispatch sends the notification asynchronously. Errors from the sender are
// recorded on the notification and logged; they are never returned.
func (d *Dispatcher) Dispatch(_ context.Context, n Notification) {
	n.ID = uuid.New()
	n.CreatedAt = time.Now().UTC()
	n.Status = "pending"
	if n.Priority == "" {
		n.Priority = PriorityNormal
	}

	d.mu.Lock()
	stored := n
	d.sent[stored.ID] = &stored
	d.mu.Unlock()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		// Detach from the request context so an already-finished request
		// doesn't cancel delivery.
		sendCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := d.sender.Send(sendCtx, &stored)

		d.mu.Lock()
		if err != nil {
			stored.Status = "failed"
			stored.Error = err.Error()
		} else {
			stored.Status = "sent"
			sentAt := time.Now().UTC()
			stored.SentAt = &sentAt
		}
		d.mu.Unlock()

		if err != nil {
			d.logger.Error().
				Err(err).
				Str("notification_id", stored.ID.String()).
				Str("user_id", stored.UserID.String()).
				Str("type", string(stored.Type)).
				Msg("notification delivery failed")
		}
	}()
}

// Wait blocks until all in-flight dispatches have completed. Used by tests
// and graceful shutdown.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Get retrieves a dispatched notification by ID.
func (d *Dispatcher) Get(id uuid.UUID) (*Notification, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	n, ok := d.sent[id]
	if !ok {
		return nil, errors.New("notification not found")
	}
	cp := *n
	return &cp, nil
}

// ListByUser returns notifications dispatched to a user, up to limit.
func (d *Dispatcher) ListByUser(userID uuid.UUID, limit int) []*Notification {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var result []*Notification
	for _, n := range d.sent {
		if n.UserID == userID {
			cp := *n
			result = append(result, &cp)
			if limit > 0 && len(result) >= limit {
				break
			}
		}
	}
	return result
}

// Stats returns counts of dispatched notifications grouped by status.
func (d *Dispatcher) Stats() map[string]int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	stats := make(map[string]int)
	for _, n := range d.sent {
		stats[n.Status]++
	}
	return stats
}

// LogSender writes notifications to the structured log. It is the default
// transport when no push/email integration is configured.
type LogSender struct {
	Logger zerolog.Logger
}

func (s *LogSender) Send(_ context.Context, n *Notification) error {
	s.Logger.Info().
		Str("user_id", n.UserID.String()).
		Str("title", n.Title).
		Str("type", string(n.Type)).
		Str("priority", string(n.Priority)).
		Msg("notification")
	return nil
}

// MockSender is a test double that records every send.
type MockSender struct {
	mu         sync.Mutex
	calls      []Notification
	ShouldFail bool
	FailError  string
}

func (m *MockSender) Send(_ context.Context, n *Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, *n)
	if m.ShouldFail {
		return errors.New(m.FailError)
	}
	return nil
}

// Calls returns a copy of recorded sends.
func (m *MockSender) Calls() []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Notification, len(m.calls))
	copy(out, m.calls)
	return out
}

// Handler exposes dispatched notifications over HTTP for client feeds.
type Handler struct {
	dispatcher *Dispatcher
}

func NewHandler(d *Dispatcher) *Handler {
	return &Handler{dispatcher: d}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/notifications", h.List)
	g.GET("/notifications/stats", h.Stats)
	g.GET("/notifications/:id", h.Get)
}

// List handles GET /notifications?user_id=...
func (h *Handler) List(c echo.Context) error {
	userID, err := uuid.Parse(c.QueryParam("user_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id query parameter is required")
	}
	return c.JSON(http.StatusOK, h.dispatcher.ListByUser(userID, 100))
}

// Get handles GET /notifications/:id.
func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	n, err := h.dispatcher.Get(id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "notification not found")
	}
	return c.JSON(http.StatusOK, n)
}

// Stats handles GET /notifications/stats.
func (h *Handler) Stats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.dispatcher.Stats())
}
