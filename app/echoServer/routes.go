package echoServer

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	authctl "github.com/Karansiddiqui/ReadSpace/app/echoServer/controller/auth"
	bookctl "github.com/Karansiddiqui/ReadSpace/app/echoServer/controller/book"
	cartctl "github.com/Karansiddiqui/ReadSpace/app/echoServer/controller/cart"
	paymentctl "github.com/Karansiddiqui/ReadSpace/app/echoServer/controller/payment"
	transactionctl "github.com/Karansiddiqui/ReadSpace/app/echoServer/controller/transaction"
)

type C struct {
	Auth        *authctl.Controller
	Book        *bookctl.Controller
	Cart        *cartctl.Controller
	Transaction *transactionctl.Controller
	Payment     *paymentctl.Controller
	JWTSecret   string
}

func Register(e *echo.Echo, c C) {
	e.GET("/health", func(ctx echo.Context) error {
		return ctx.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public
	pub := e.Group("/api")
	pub.POST("/user/register", c.Auth.Register)
	pub.POST("/user/login", c.Auth.Login)
	pub.GET("/books/getAllBooks", c.Book.List)
	pub.GET("/books/:id", c.Book.Detail)

	// Auth
	auth := e.Group("/api")
	auth.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(c.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "header:Authorization:Bearer ",
	}))
	auth.Use(extractClaims)

	auth.GET("/user/me", c.Auth.Me)
	auth.GET("/user/getAllUser", c.Auth.GetAllUsers)

	// Admin catalog management
	auth.POST("/books/create", c.Book.Create)
	auth.PATCH("/books/update/:id", c.Book.Update)
	auth.DELETE("/books/delete/:id", c.Book.Delete)

	auth.POST("/transaction/issue", c.Transaction.Issue)
	auth.POST("/transaction/return", c.Transaction.Return)
	auth.GET("/transaction/userBooks", c.Transaction.UserBooks)
	auth.GET("/transaction/findByDateRange", c.Transaction.FindByDateRange)
	auth.POST("/transaction/totalRentGeneratedByBook", c.Transaction.TotalRentByBook)

	auth.GET("/cart/get", c.Cart.Get)
	auth.POST("/cart/addItemToCart", c.Cart.AddItem)
	auth.PATCH("/cart/update/:id", c.Cart.UpdateItem)
	auth.DELETE("/cart/removeItemFromCart", c.Cart.RemoveItem)
	auth.DELETE("/cart/clearCart", c.Cart.Clear)
	auth.POST("/cart/merge", c.Cart.Merge)

	auth.POST("/payment/stripe-session", c.Payment.CreateStripeSession)
}

// extractClaims mirrors the verified claims into plain context keys so
// handlers do not each re-parse the token.
func extractClaims(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		tok, ok := ctx.Get("user").(*jwt.Token)
		if !ok || tok == nil {
			return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
		}
		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok {
			return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
		}
		sub, ok := claims["sub"].(float64)
		if !ok {
			return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
		}
		ctx.Set("user_id", int64(sub))
		adm, _ := claims["adm"].(bool)
		ctx.Set("is_admin", adm)
		return next(ctx)
	}
}
