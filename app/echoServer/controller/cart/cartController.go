// app/echoServer/controller/cart/cartController.go
package cart

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Karansiddiqui/ReadSpace/app/echoServer/jwtx"
	"github.com/Karansiddiqui/ReadSpace/app/echoServer/respond"
	"github.com/Karansiddiqui/ReadSpace/model"
	cartsvc "github.com/Karansiddiqui/ReadSpace/service/cart"
)

type Controller struct {
	Svc cartsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// GET /api/cart/get
func (h *Controller) Get(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	cart, err := h.Svc.Get(c.Request().Context(), uid)
	if err != nil {
		return respond.Error(c, h.Log, err)
	}
	return respond.OK(c, http.StatusOK, "", cart)
}

// POST /api/cart/addItemToCart
func (h *Controller) AddItem(c echo.Context) error {
	var req AddItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, respond.Envelope{Success: false, Message: "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return respond.ValidationError(c, err)
	}
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := h.Svc.AddItem(c.Request().Context(), uid, req.BookID, req.Price)
	if err != nil {
		return respond.Error(c, h.Log, err)
	}
	return respond.OK(c, http.StatusCreated, "item added to cart", cart)
}

// PATCH /api/cart/update/:id
func (h *Controller) UpdateItem(c echo.Context) error {
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || itemID <= 0 {
		return c.JSON(http.StatusBadRequest, respond.Envelope{Success: false, Message: "invalid id"})
	}
	var req UpdateItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, respond.Envelope{Success: false, Message: "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return respond.ValidationError(c, err)
	}
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := h.Svc.UpdateItem(c.Request().Context(), uid, itemID,
		model.PurchaseType(req.PurchaseType), req.RentDays)
	if err != nil {
		return respond.Error(c, h.Log, err)
	}
	return respond.OK(c, http.StatusOK, "cart item updated", cart)
}

// DELETE /api/cart/removeItemFromCart
func (h *Controller) RemoveItem(c echo.Context) error {
	var req RemoveItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, respond.Envelope{Success: false, Message: "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return respond.ValidationError(c, err)
	}
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := h.Svc.RemoveItem(c.Request().Context(), uid, req.CartItemID)
	if err != nil {
		return respond.Error(c, h.Log, err)
	}
	return respond.OK(c, http.StatusOK, "item removed from cart", cart)
}

// DELETE /api/cart/clearCart
func (h *Controller) Clear(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	cart, err := h.Svc.Clear(c.Request().Context(), uid)
	if err != nil {
		return respond.Error(c, h.Log, err)
	}
	return respond.OK(c, http.StatusOK, "cart cleared", cart)
}

// POST /api/cart/merge
// Called once after login with the guest's locally stored book ids.
func (h *Controller) Merge(c echo.Context) error {
	var req MergeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, respond.Envelope{Success: false, Message: "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return respond.ValidationError(c, err)
	}
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := h.Svc.Merge(c.Request().Context(), uid, req.BookIDs)
	if err != nil {
		return respond.Error(c, h.Log, err)
	}
	return respond.OK(c, http.StatusOK, "cart merged", cart)
}
