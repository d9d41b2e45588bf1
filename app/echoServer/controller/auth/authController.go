// app/echoServer/controller/auth/authController.go
package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Karansiddiqui/ReadSpace/app/echoServer/jwtx"
	"github.com/Karansiddiqui/ReadSpace/app/echoServer/respond"
	"github.com/Karansiddiqui/ReadSpace/model"
	authsvc "github.com/Karansiddiqui/ReadSpace/service/auth"
)

type Controller struct {
	Svc authsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// Register a new user
// @Summary      Register user
// @Description  Register with a unique email, returns the user and a JWT
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        payload  body  model.RegisterReq  true  "Register payload"
// @Success      201  {object}  respond.Envelope
// @Failure      400  {object}  respond.Envelope
// @Failure      409  {object}  respond.Envelope "email already registered"
// @Failure      500  {object}  respond.Envelope
// @Router       /api/user/register [post]
func (ct *Controller) Register(c echo.Context) error {
	var req model.RegisterReq
	if err := c.Bind(&req); err != nil {
		if ct.Log != nil {
			ct.Log.Warn("bind failed", "path", c.Path(), "err", err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := ct.V.Struct(req); err != nil {
		if ct.Log != nil {
			ct.Log.Warn("validation failed", "path", c.Path(), "err", err)
		}
		return respond.ValidationError(c, err)
	}

	u, token, err := ct.Svc.Register(c.Request().Context(), req)
	if err != nil {
		return respond.Error(c, ct.Log, err)
	}

	return respond.OK(c, http.StatusCreated, "registered", echo.Map{
		"user":  u,
		"token": token,
	})
}

// Login
// @Summary      Login
// @Description  Login with email + password, returns JWT
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        payload  body  model.LoginReq  true  "Login payload"
// @Success      200  {object}  respond.Envelope
// @Failure      400  {object}  respond.Envelope
// @Failure      401  {object}  respond.Envelope
// @Router       /api/user/login [post]
func (ct *Controller) Login(c echo.Context) error {
	var req model.LoginReq
	if err := c.Bind(&req); err != nil {
		if ct.Log != nil {
			ct.Log.Warn("bind failed", "path", c.Path(), "err", err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := ct.V.Struct(req); err != nil {
		if ct.Log != nil {
			ct.Log.Warn("validation failed", "path", c.Path(), "err", err)
		}
		return respond.ValidationError(c, err)
	}

	u, token, err := ct.Svc.Login(c.Request().Context(), req)
	if err != nil {
		return respond.Error(c, ct.Log, err)
	}

	return respond.OK(c, http.StatusOK, "login success", echo.Map{
		"user":  u,
		"token": token,
	})
}

// GetAllUsers
// @Summary      List all users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  respond.Envelope
// @Failure      403  {object}  respond.Envelope
// @Router       /api/user/getAllUser [get]
func (ct *Controller) GetAllUsers(c echo.Context) error {
	if !jwtx.IsAdminFromContext(c) {
		return c.JSON(http.StatusForbidden, respond.Envelope{Success: false, Message: "forbidden"})
	}

	users, err := ct.Svc.Users(c.Request().Context())
	if err != nil {
		return respond.Error(c, ct.Log, err)
	}
	return respond.OK(c, http.StatusOK, "", users)
}

// Me
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  respond.Envelope
// @Failure      401  {object}  respond.Envelope
// @Router       /api/user/me [get]
func (ct *Controller) Me(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	u, err := ct.Svc.Me(c.Request().Context(), uid)
	if err != nil {
		return respond.Error(c, ct.Log, err)
	}
	return respond.OK(c, http.StatusOK, "", u)
}
