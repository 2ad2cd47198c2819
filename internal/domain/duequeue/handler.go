package duequeue

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ehr/medsafety/internal/domain/schedule"
)

type Handler struct {
	svc *Service
	// defaultWard scopes the queue when the request names no ward. Empty
	// means all wards.
	defaultWard string
}

func NewHandler(svc *Service, defaultWard string) *Handler {
	return &Handler{svc: svc, defaultWard: defaultWard}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/due-medications", h.GetDueMedications)
}

// GetDueMedications returns the shift medication queue. Query params:
// shift (day|evening|night, default: the one in progress), ward (default:
// all wards), at (RFC 3339, default: now — meant for testing and replay).
func (h *Handler) GetDueMedications(c echo.Context) error {
	var shift schedule.Shift
	if s := c.QueryParam("shift"); s != "" {
		parsed, err := schedule.ParseShift(s)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		shift = parsed
	}

	now := time.Now()
	if at := c.QueryParam("at"); at != "" {
		parsed, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid at: expected RFC 3339 timestamp")
		}
		now = parsed
	}

	ward := c.QueryParam("ward")
	if ward == "" {
		ward = h.defaultWard
	}

	q, err := h.svc.BuildQueue(c.Request().Context(), shift, ward, now)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, q)
}
