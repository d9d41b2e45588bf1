package authsvc

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Karansiddiqui/ReadSpace/model"
	"github.com/Karansiddiqui/ReadSpace/util/apperr"
	"github.com/Karansiddiqui/ReadSpace/util/hash"
	jwtutil "github.com/Karansiddiqui/ReadSpace/util/jwt"
)

type Repo interface {
	Create(ctx context.Context, u *model.User) error
	ByEmail(ctx context.Context, email string) (*model.User, error)
	ByID(ctx context.Context, id int64) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
}

type Service interface {
	Register(ctx context.Context, req model.RegisterReq) (*model.User, string, error)
	Login(ctx context.Context, req model.LoginReq) (*model.User, string, error)
	Me(ctx context.Context, userID int64) (*model.User, error)
	Users(ctx context.Context) ([]model.User, error)
}

type service struct {
	ur     Repo
	secret string
}

func New(ur Repo, secret string) Service { return &service{ur: ur, secret: secret} }

func (s *service) Register(ctx context.Context, req model.RegisterReq) (*model.User, string, error) {
	hashed, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}

	u := &model.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hashed,
	}

	if err := s.ur.Create(ctx, u); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, "", apperr.New(apperr.KindConflict, "email already registered")
		}
		return nil, "", err
	}

	token, err := jwtutil.Issue(s.secret, u.ID, u.IsAdmin, 24)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) Login(ctx context.Context, req model.LoginReq) (*model.User, string, error) {
	u, err := s.ur.ByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", apperr.New(apperr.KindUnauthorized, "invalid email or password")
		}
		return nil, "", err
	}
	if !hash.Check(u.PasswordHash, req.Password) {
		return nil, "", apperr.New(apperr.KindUnauthorized, "invalid email or password")
	}

	token, err := jwtutil.Issue(s.secret, u.ID, u.IsAdmin, 24)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) Users(ctx context.Context) ([]model.User, error) {
	return s.ur.List(ctx)
}

func (s *service) Me(ctx context.Context, userID int64) (*model.User, error) {
	u, err := s.ur.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.KindNotFound, "user not found")
		}
		return nil, err
	}
	return u, nil
}
