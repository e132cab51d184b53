package account

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicore/clinicore/internal/platform/apperr"
	"github.com/clinicore/clinicore/internal/platform/auth"
)

type Handler struct {
	svc      *Service
	resolver *auth.Resolver
}

func NewHandler(svc *Service, resolver *auth.Resolver) *Handler {
	return &Handler{svc: svc, resolver: resolver}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/auth")
	g.POST("/login", h.Login)
	g.GET("/validate", h.Validate)
}

type loginRequest struct {
	Subject  string `json:"subject"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	session, err := h.svc.Login(c.Request().Context(), req.Subject, req.Password, req.Role)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	return c.JSON(http.StatusOK, session)
}

// Validate re-resolves the caller's bearer token, optionally against an
// expected role, and reports the identity it maps to.
func (h *Handler) Validate(c echo.Context) error {
	raw := c.Request().Header.Get("Authorization")
	identity, err := h.resolver.Resolve(c.Request().Context(), raw, c.QueryParam("role"))
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	if identity == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing credential")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"subject": identity.Subject,
		"role":    identity.Role,
		"user_id": identity.UID,
	})
}
