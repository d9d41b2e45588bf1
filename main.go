// Package main ReadSpace API.
//
// @title           ReadSpace API
// @version         1.0
// @description     Online book rental and purchase storefront.
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Karansiddiqui/ReadSpace/app/echoServer"
	authctrl "github.com/Karansiddiqui/ReadSpace/app/echoServer/controller/auth"
	bookctrl "github.com/Karansiddiqui/ReadSpace/app/echoServer/controller/book"
	cartctrl "github.com/Karansiddiqui/ReadSpace/app/echoServer/controller/cart"
	paymentctrl "github.com/Karansiddiqui/ReadSpace/app/echoServer/controller/payment"
	transactionctrl "github.com/Karansiddiqui/ReadSpace/app/echoServer/controller/transaction"
	"github.com/Karansiddiqui/ReadSpace/app/echoServer/validation"
	"github.com/Karansiddiqui/ReadSpace/config"
	bookrepo "github.com/Karansiddiqui/ReadSpace/repository/book"
	cartrepo "github.com/Karansiddiqui/ReadSpace/repository/cart"
	striperepo "github.com/Karansiddiqui/ReadSpace/repository/stripe"
	transactionrepo "github.com/Karansiddiqui/ReadSpace/repository/transaction"
	userrepo "github.com/Karansiddiqui/ReadSpace/repository/user"
	authsvc "github.com/Karansiddiqui/ReadSpace/service/auth"
	booksvc "github.com/Karansiddiqui/ReadSpace/service/book"
	cartsvc "github.com/Karansiddiqui/ReadSpace/service/cart"
	historysvc "github.com/Karansiddiqui/ReadSpace/service/history"
	paymentsvc "github.com/Karansiddiqui/ReadSpace/service/payment"
	transactionsvc "github.com/Karansiddiqui/ReadSpace/service/transaction"
	"github.com/Karansiddiqui/ReadSpace/util/database"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	// DB: *sql.DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// repos
	ur := userrepo.New(db)
	br := bookrepo.New(db)
	tr := transactionrepo.New(db)
	cr := cartrepo.New(db)
	sr := striperepo.NewHTTP(cfg.StripeSecretKey)

	// services
	as := authsvc.New(ur, cfg.JWTSecret)
	bs := booksvc.New(br)
	ts := transactionsvc.New(tr, br)
	hs := historysvc.New(tr)
	cs := cartsvc.New(cr, br)
	ps := paymentsvc.New(sr, cs, cfg.FrontendURL)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	bookC := &bookctrl.Controller{Svc: bs, V: v, Log: log}
	transactionC := &transactionctrl.Controller{Svc: ts, History: hs, V: v, Log: log}
	cartC := &cartctrl.Controller{Svc: cs, V: v, Log: log}
	paymentC := &paymentctrl.Controller{Svc: ps, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e, cfg.FrontendURL)
	e.Validator = validation.New()

	echoServer.Register(e, echoServer.C{
		Auth:        authC,
		Book:        bookC,
		Cart:        cartC,
		Transaction: transactionC,
		Payment:     paymentC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	log.Info("starting server", "port", port, "env", cfg.Env)

	e.Logger.Fatal(e.Start(":" + port))
}
