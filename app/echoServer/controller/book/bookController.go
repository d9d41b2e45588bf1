package book

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Karansiddiqui/ReadSpace/app/echoServer/jwtx"
	"github.com/Karansiddiqui/ReadSpace/app/echoServer/respond"
	"github.com/Karansiddiqui/ReadSpace/model"
	bookrepo "github.com/Karansiddiqui/ReadSpace/repository/book"
	booksvc "github.com/Karansiddiqui/ReadSpace/service/book"
)

type Controller struct {
	Svc booksvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// GET /api/books/getAllBooks
// Optional query params: minRent, maxRent, search.
func (h *Controller) List(c echo.Context) error {
	var f bookrepo.ListFilter
	if v := c.QueryParam("minRent"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, respond.Envelope{Success: false, Message: "invalid minRent"})
		}
		f.MinRent = &n
	}
	if v := c.QueryParam("maxRent"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, respond.Envelope{Success: false, Message: "invalid maxRent"})
		}
		f.MaxRent = &n
	}
	f.Search = c.QueryParam("search")

	rows, err := h.Svc.List(c.Request().Context(), f)
	if err != nil {
		return respond.Error(c, h.Log, err)
	}
	return respond.OK(c, http.StatusOK, "", rows)
}

// GET /api/books/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, respond.Envelope{Success: false, Message: "invalid id"})
	}
	row, err := h.Svc.Detail(c.Request().Context(), id)
	if err != nil {
		return respond.Error(c, h.Log, err)
	}
	return respond.OK(c, http.StatusOK, "", row)
}

// POST /api/books/create  (admin)
func (h *Controller) Create(c echo.Context) error {
	if !jwtx.IsAdminFromContext(c) {
		return c.JSON(http.StatusForbidden, respond.Envelope{Success: false, Message: "forbidden"})
	}
	var req CreateBookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, respond.Envelope{Success: false, Message: "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return respond.ValidationError(c, err)
	}

	b, err := h.Svc.Create(c.Request().Context(), &model.Book{
		BookName:        req.BookName,
		Author:          req.Author,
		Description:     req.Description,
		Category:        req.Category,
		RentPerDay:      req.RentPerDay,
		OneTimePrice:    req.OneTimePrice,
		PublicationYear: req.PublicationYear,
		Cover:           req.Cover,
	})
	if err != nil {
		return respond.Error(c, h.Log, err)
	}
	return respond.OK(c, http.StatusCreated, "book created", b)
}

// PATCH /api/books/update/:id  (admin)
func (h *Controller) Update(c echo.Context) error {
	if !jwtx.IsAdminFromContext(c) {
		return c.JSON(http.StatusForbidden, respond.Envelope{Success: false, Message: "forbidden"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, respond.Envelope{Success: false, Message: "invalid id"})
	}
	var req UpdateBookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, respond.Envelope{Success: false, Message: "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return respond.ValidationError(c, err)
	}

	b, err := h.Svc.Update(c.Request().Context(), &model.Book{
		ID:              id,
		BookName:        req.BookName,
		Author:          req.Author,
		Description:     req.Description,
		Category:        req.Category,
		RentPerDay:      req.RentPerDay,
		OneTimePrice:    req.OneTimePrice,
		PublicationYear: req.PublicationYear,
		Cover:           req.Cover,
	})
	if err != nil {
		return respond.Error(c, h.Log, err)
	}
	return respond.OK(c, http.StatusOK, "book updated", b)
}

// DELETE /api/books/delete/:id  (admin)
func (h *Controller) Delete(c echo.Context) error {
	if !jwtx.IsAdminFromContext(c) {
		return c.JSON(http.StatusForbidden, respond.Envelope{Success: false, Message: "forbidden"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, respond.Envelope{Success: false, Message: "invalid id"})
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		return respond.Error(c, h.Log, err)
	}
	return respond.OK(c, http.StatusOK, "book deleted", nil)
}
