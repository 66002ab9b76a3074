package booking

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicops/clinic/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/doctors/:id/slots", h.AvailableSlots)
	api.GET("/doctors/:id/appointments", h.ListByDoctor)
	api.GET("/patients/:id/appointments", h.ListByPatient)

	api.POST("/appointments", h.Book)
	api.GET("/appointments/:id", h.Get)
	api.POST("/appointments/:id/confirm", h.Confirm)
	api.POST("/appointments/:id/cancel", h.Cancel)
	api.POST("/appointments/:id/start", h.Start)
	api.POST("/appointments/:id/complete", h.Complete)
	api.POST("/appointments/:id/no-show", h.NoShow)
	api.POST("/appointments/:id/reschedule", h.RequestReschedule)
	api.POST("/appointments/:id/reschedule/confirm", h.ConfirmReschedule)
	api.POST("/appointments/:id/reschedule/reject", h.RejectReschedule)
}

// httpError maps domain sentinels onto response codes. Conflicts (a held
// slot, a disallowed transition) are 409; bad input is 400.
func httpError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrSlotUnavailable), errors.Is(err, ErrInvalidTransition):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidDate), errors.Is(err, ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func (h *Handler) AvailableSlots(c echo.Context) error {
	doctorID, err := parseID(c)
	if err != nil {
		return err
	}
	date := c.QueryParam("date")
	if date == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "date query parameter is required")
	}
	slots, err := h.svc.AvailableSlots(c.Request().Context(), doctorID, date)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"doctor_id": doctorID,
		"date":      date,
		"slots":     slots,
	})
}

func (h *Handler) Book(c echo.Context) error {
	var req BookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	appt, err := h.svc.Book(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, appt)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	appt, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, appt)
}

func (h *Handler) ListByPatient(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListByPatient(c.Request().Context(), id, pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) ListByDoctor(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if date := c.QueryParam("date"); date != "" {
		items, err := h.svc.ListByDoctorDate(c.Request().Context(), id, date)
		if err != nil {
			return httpError(err)
		}
		if items == nil {
			items = []*Appointment{}
		}
		return c.JSON(http.StatusOK, map[string]interface{}{"appointments": items})
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListByDoctor(c.Request().Context(), id, pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Confirm(c echo.Context) error {
	return h.simpleTransition(c, h.svc.Confirm)
}

func (h *Handler) Cancel(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	appt, err := h.svc.Cancel(c.Request().Context(), id, body.Reason)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, appt)
}

func (h *Handler) Start(c echo.Context) error {
	return h.simpleTransition(c, h.svc.Start)
}

func (h *Handler) Complete(c echo.Context) error {
	return h.simpleTransition(c, h.svc.Complete)
}

func (h *Handler) NoShow(c echo.Context) error {
	return h.simpleTransition(c, h.svc.NoShow)
}

func (h *Handler) RequestReschedule(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req RescheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	appt, err := h.svc.RequestReschedule(c.Request().Context(), id, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, appt)
}

func (h *Handler) ConfirmReschedule(c echo.Context) error {
	return h.simpleTransition(c, h.svc.ConfirmReschedule)
}

func (h *Handler) RejectReschedule(c echo.Context) error {
	return h.simpleTransition(c, h.svc.RejectReschedule)
}

func (h *Handler) simpleTransition(c echo.Context, op func(ctx context.Context, id uuid.UUID) (*Appointment, error)) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	appt, err := op(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, appt)
}
