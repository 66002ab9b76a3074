package schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/doctors/:id/schedule", h.ListWeek)
	api.PUT("/doctors/:id/schedule", h.SetWeek)
	api.PUT("/doctors/:id/schedule/:day", h.SetDay)
	api.GET("/doctors/:id/schedule/:day", h.GetDay)
	api.DELETE("/doctors/:id/schedule/:day", h.DeleteDay)
}

func (h *Handler) parseDoctorDay(c echo.Context) (uuid.UUID, int, error) {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil || day < 0 || day > 6 {
		return uuid.Nil, 0, echo.NewHTTPError(http.StatusBadRequest, "day must be 0 (Sunday) through 6 (Saturday)")
	}
	return doctorID, day, nil
}

func (h *Handler) ListWeek(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	items, err := h.svc.ListWeek(c.Request().Context(), doctorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []*WeeklySchedule{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"doctor_id": doctorID,
		"schedule":  items,
	})
}

func (h *Handler) SetWeek(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	var body struct {
		Days []*WeeklySchedule `json:"days"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(body.Days) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "days is required")
	}
	if err := h.svc.SetWeek(c.Request().Context(), doctorID, body.Days); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, body.Days)
}

func (h *Handler) SetDay(c echo.Context) error {
	doctorID, day, err := h.parseDoctorDay(c)
	if err != nil {
		return err
	}
	var ws WeeklySchedule
	if err := c.Bind(&ws); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ws.DoctorID = doctorID
	ws.DayOfWeek = day
	if err := h.svc.SetDay(c.Request().Context(), &ws); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, ws)
}

func (h *Handler) GetDay(c echo.Context) error {
	doctorID, day, err := h.parseDoctorDay(c)
	if err != nil {
		return err
	}
	ws, err := h.svc.GetDay(c.Request().Context(), doctorID, day)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "no schedule for that day")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, ws)
}

func (h *Handler) DeleteDay(c echo.Context) error {
	doctorID, day, err := h.parseDoctorDay(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteDay(c.Request().Context(), doctorID, day); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "no schedule for that day")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
