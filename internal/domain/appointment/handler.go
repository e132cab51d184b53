package appointment

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clinicore/clinicore/internal/platform/apperr"
	"github.com/clinicore/clinicore/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/appointments")
	g.POST("", h.Book, auth.RequireRole(auth.RolePatient, auth.RoleAdmin))
	g.GET("/:id", h.Get, auth.RequireRole(auth.RolePatient, auth.RoleDoctor, auth.RoleAdmin))
	g.PUT("/:id", h.Update, auth.RequireRole(auth.RolePatient))
	g.DELETE("/:id", h.Cancel, auth.RequireRole(auth.RolePatient))
	g.PATCH("/:id/status", h.ChangeStatus, auth.RequireRole(auth.RoleAdmin))
	g.GET("/doctor/:doctorId", h.DoctorDay, auth.RequireRole(auth.RoleDoctor, auth.RoleAdmin))
	g.GET("/patient/:patientId", h.PatientAppointments, auth.RequireRole(auth.RolePatient, auth.RoleAdmin))
}

func (h *Handler) Book(c echo.Context) error {
	var req BookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Patients always book for themselves; the payload cannot override it.
	identity := auth.IdentityFromContext(c.Request().Context())
	if identity.Is(auth.RolePatient) {
		req.PatientID = identity.UID
	}

	det, err := h.svc.Book(c.Request().Context(), req)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	return c.JSON(http.StatusCreated, det)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return err
	}
	det, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}

	identity := auth.IdentityFromContext(c.Request().Context())
	if identity.Is(auth.RolePatient) && det.PatientID != identity.UID {
		return echo.NewHTTPError(http.StatusForbidden, "appointment belongs to another patient")
	}
	if identity.Is(auth.RoleDoctor) && det.DoctorID != identity.UID {
		return echo.NewHTTPError(http.StatusForbidden, "appointment belongs to another doctor")
	}
	return c.JSON(http.StatusOK, det)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return err
	}
	var req UpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	identity := auth.IdentityFromContext(c.Request().Context())
	det, err := h.svc.Update(c.Request().Context(), id, identity.UID, req)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	return c.JSON(http.StatusOK, det)
}

func (h *Handler) Cancel(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return err
	}

	identity := auth.IdentityFromContext(c.Request().Context())
	if err := h.svc.Cancel(c.Request().Context(), id, identity.UID); err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ChangeStatus(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return err
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	status, err := ParseStatus(body.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.ChangeStatus(c.Request().Context(), id, status); err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	return c.JSON(http.StatusOK, map[string]string{"status": status.String()})
}

func (h *Handler) DoctorDay(c echo.Context) error {
	doctorID, err := parseID(c.Param("doctorId"))
	if err != nil {
		return err
	}

	// Doctors may only view their own schedule; admins any.
	identity := auth.IdentityFromContext(c.Request().Context())
	if identity.Is(auth.RoleDoctor) && identity.UID != doctorID {
		return echo.NewHTTPError(http.StatusForbidden, "doctors may only view their own schedule")
	}

	day := time.Now()
	if raw := c.QueryParam("date"); raw != "" {
		day, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
		}
	}

	dets, err := h.svc.DoctorDay(c.Request().Context(), doctorID, day, c.QueryParam("patientName"))
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	return c.JSON(http.StatusOK, dets)
}

func (h *Handler) PatientAppointments(c echo.Context) error {
	patientID, err := parseID(c.Param("patientId"))
	if err != nil {
		return err
	}

	identity := auth.IdentityFromContext(c.Request().Context())
	if identity.Is(auth.RolePatient) && identity.UID != patientID {
		return echo.NewHTTPError(http.StatusForbidden, "patients may only view their own appointments")
	}

	var status *Status
	if raw := c.QueryParam("status"); raw != "" {
		s, err := ParseStatus(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		status = &s
	}

	dets, err := h.svc.PatientAppointments(c.Request().Context(), patientID,
		c.QueryParam("doctorName"), c.QueryParam("condition"), status)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	return c.JSON(http.StatusOK, dets)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}
