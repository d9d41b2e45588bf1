package payment

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Karansiddiqui/ReadSpace/app/echoServer/jwtx"
	"github.com/Karansiddiqui/ReadSpace/app/echoServer/respond"
	paymentsvc "github.com/Karansiddiqui/ReadSpace/service/payment"
)

type Controller struct {
	Svc paymentsvc.Service
	Log *slog.Logger
}

// POST /api/payment/stripe-session
// Builds a Stripe checkout session from the caller's cart and returns the
// session id and redirect URL.
func (h *Controller) CreateStripeSession(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	sess, err := h.Svc.CheckoutSession(c.Request().Context(), uid)
	if err != nil {
		return respond.Error(c, h.Log, err)
	}
	return respond.OK(c, http.StatusCreated, "checkout session created", echo.Map{
		"sessionId": sess.ID,
		"url":       sess.URL,
	})
}
