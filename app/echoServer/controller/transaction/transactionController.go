// app/echoServer/controller/transaction/transactionController.go
package transaction

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Karansiddiqui/ReadSpace/app/echoServer/jwtx"
	"github.com/Karansiddiqui/ReadSpace/app/echoServer/respond"
	"github.com/Karansiddiqui/ReadSpace/model"
	historysvc "github.com/Karansiddiqui/ReadSpace/service/history"
	transactionsvc "github.com/Karansiddiqui/ReadSpace/service/transaction"
)

type Controller struct {
	Svc     transactionsvc.Service
	History historysvc.Service
	V       *validator.Validate
	Log     *slog.Logger
}

// POST /api/transaction/issue
// @Summary      Issue a book
// @Description  Rent a book for a number of days; re-renting a returned book
// @Description  appends a new cycle to the same record
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body  IssueReq  true  "Issue payload"
// @Success      201  {object}  respond.Envelope
// @Failure      400  {object}  respond.Envelope
// @Failure      404  {object}  respond.Envelope "book not found"
// @Failure      409  {object}  respond.Envelope "already rented"
// @Router       /api/transaction/issue [post]
func (h *Controller) Issue(c echo.Context) error {
	var req IssueReq
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

	rec, err := h.Svc.Issue(c.Request().Context(), uid, req.BookID, req.Days)
	if err != nil {
		return respond.Error(c, h.Log, err)
	}
	return respond.OK(c, http.StatusCreated, "book issued successfully", rec)
}

// POST /api/transaction/return
// @Summary      Return a book
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body  ReturnReq  true  "Return payload"
// @Success      200  {object}  respond.Envelope
// @Failure      404  {object}  respond.Envelope
// @Failure      409  {object}  respond.Envelope "already returned"
// @Router       /api/transaction/return [post]
func (h *Controller) Return(c echo.Context) error {
	var req ReturnReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, respond.Envelope{Success: false, Message: "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return respond.ValidationError(c, err)
	}

	rec, err := h.Svc.Return(c.Request().Context(), req.TransactionID)
	if err != nil {
		return respond.Error(c, h.Log, err)
	}
	return respond.OK(c, http.StatusOK, "book returned successfully", rec)
}

// GET /api/transaction/userBooks
// Query params: bookId, userId, rented (true/false). Without userId the
// caller's own id is used unless they are an admin.
func (h *Controller) UserBooks(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var f historysvc.HolderFilter
	if v := c.QueryParam("bookId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return c.JSON(http.StatusBadRequest, respond.Envelope{Success: false, Message: "invalid bookId"})
		}
		f.BookID = &id
	}
	if v := c.QueryParam("userId"); v != "" {
		if !jwtx.IsAdminFromContext(c) {
			return c.JSON(http.StatusForbidden, respond.Envelope{Success: false, Message: "forbidden"})
		}
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return c.JSON(http.StatusBadRequest, respond.Envelope{Success: false, Message: "invalid userId"})
		}
		f.UserID = &id
	} else if !jwtx.IsAdminFromContext(c) {
		f.UserID = &uid
	}
	if v := c.QueryParam("rented"); v != "" {
		status := model.RentalReturned
		if v == "true" {
			status = model.RentalRented
		}
		f.Rented = &status
	}

	rep, err := h.History.UserBooks(c.Request().Context(), f)
	if err != nil {
		return respond.Error(c, h.Log, err)
	}
	return respond.OK(c, http.StatusOK, "", rep)
}

// GET /api/transaction/findByDateRange
// Query params: firstDate, secondDate (DD/MM/YY) or rangeType (today,
// last-7-days). Admins see everyone; users see their own.
func (h *Controller) FindByDateRange(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	q := historysvc.RangeQuery{
		FirstDate:  c.QueryParam("firstDate"),
		SecondDate: c.QueryParam("secondDate"),
		RangeType:  c.QueryParam("rangeType"),
	}
	if !jwtx.IsAdminFromContext(c) {
		q.UserID = &uid
	}

	recs, err := h.History.FindByDateRange(c.Request().Context(), q)
	if err != nil {
		return respond.Error(c, h.Log, err)
	}
	return respond.OK(c, http.StatusOK, "", recs)
}

// POST /api/transaction/totalRentGeneratedByBook (admin)
// Query param: bookId.
func (h *Controller) TotalRentByBook(c echo.Context) error {
	if !jwtx.IsAdminFromContext(c) {
		return c.JSON(http.StatusForbidden, respond.Envelope{Success: false, Message: "forbidden"})
	}
	bookID, err := strconv.ParseInt(c.QueryParam("bookId"), 10, 64)
	if err != nil || bookID <= 0 {
		return c.JSON(http.StatusBadRequest, respond.Envelope{Success: false, Message: "invalid bookId"})
	}

	total, err := h.History.TotalRentByBook(c.Request().Context(), bookID)
	if err != nil {
		return respond.Error(c, h.Log, err)
	}
	return respond.OK(c, http.StatusOK, "", echo.Map{"bookId": bookID, "totalRent": total})
}
