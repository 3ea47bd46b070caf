package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"commercego/internal/database/pgerr"
	"commercego/internal/identity"
	"commercego/internal/redis/sessionstore"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidInput     = errors.New("invalid account data")
	ErrPasswordMismatch = errors.New("passwords must match")
	ErrUsernameTaken    = errors.New("username already taken")
	ErrInvalidLogin     = errors.New("invalid username and/or password")
	ErrUserNotFound     = errors.New("user not found")
	ErrUserProtected    = errors.New("user is buyer or seller of a listing")
	ErrForbidden        = errors.New("users can only delete themselves")
)

type SessionStore interface {
	Create(ctx context.Context, userID int64) (string, error)
	Lookup(ctx context.Context, token string) (int64, error)
	Delete(ctx context.Context, token string) error
}

type RegisterInput struct {
	Username     string `json:"username"     validate:"required,max=150"`
	Email        string `json:"email"        validate:"omitempty,email,max=254"`
	Password     string `json:"password"     validate:"required,max=72"`
	Confirmation string `json:"confirmation"`
}

// Session is what a successful register or login hands back.
type Session struct {
	Token string        `json:"token"`
	User  identity.User `json:"user"`
}

//go:generate mockgen -destination=mock_account_svc.go -package=account -self_package=commercego/internal/services/account commercego/internal/services/account IAccountService
type IAccountService interface {
	Register(ctx context.Context, in RegisterInput) (*Session, error)
	Login(ctx context.Context, username, password string) (*Session, error)
	Logout(ctx context.Context, token string) error
	Resolve(ctx context.Context, token string) (identity.User, error)
	DeleteUser(ctx context.Context, caller identity.User, id int64) error
}

type accountService struct {
	db       *sql.DB
	sessions SessionStore
	validate *validator.Validate
	cost     int
}

var _ IAccountService = (*accountService)(nil)

func NewAccountService(db *sql.DB, sessions SessionStore) IAccountService {
	return &accountService{
		db:       db,
		sessions: sessions,
		validate: validator.New(),
		cost:     bcrypt.DefaultCost,
	}
}

// Register creates the user and logs them in.
func (svc *accountService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := svc.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if in.Password != in.Confirmation {
		return nil, ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), svc.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := identity.User{Username: in.Username}
	const ins = `INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3) RETURNING id`
	if err := svc.db.QueryRowContext(ctx, ins, in.Username, in.Email, string(hash)).Scan(&u.ID); err != nil {
		if pgerr.IsUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	zap.L().Info("account.registered", zap.Int64("user_id", u.ID), zap.String("username", u.Username))

	return svc.startSession(ctx, u)
}

func (svc *accountService) Login(ctx context.Context, username, password string) (*Session, error) {
	var (
		u    = identity.User{Username: strings.TrimSpace(username)}
		hash string
	)
	err := svc.db.QueryRowContext(ctx,
		`SELECT id, password_hash FROM users WHERE username = $1`, u.Username,
	).Scan(&u.ID, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidLogin
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		zap.L().Info("account.login_failed", zap.String("username", u.Username))
		return nil, ErrInvalidLogin
	}
	return svc.startSession(ctx, u)
}

func (svc *accountService) startSession(ctx context.Context, u identity.User) (*Session, error) {
	token, err := svc.sessions.Create(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: u}, nil
}

func (svc *accountService) Logout(ctx context.Context, token string) error {
	return svc.sessions.Delete(ctx, token)
}

// Resolve maps a session token to its user. Unknown or expired tokens, and
// tokens of deleted users, resolve to the anonymous caller.
func (svc *accountService) Resolve(ctx context.Context, token string) (identity.User, error) {
	id, err := svc.sessions.Lookup(ctx, token)
	if err != nil {
		if errors.Is(err, sessionstore.ErrNoSession) {
			return identity.Anonymous(), nil
		}
		return identity.Anonymous(), err
	}

	u := identity.User{ID: id}
	err = svc.db.QueryRowContext(ctx, `SELECT username FROM users WHERE id = $1`, id).Scan(&u.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			_ = svc.sessions.Delete(ctx, token)
			return identity.Anonymous(), nil
		}
		return identity.Anonymous(), fmt.Errorf("load user %d: %w", id, err)
	}
	return u, nil
}

// DeleteUser removes the caller's own account. Comments, bids and watch
// memberships go with it; being buyer or seller of a listing blocks it.
func (svc *accountService) DeleteUser(ctx context.Context, caller identity.User, id int64) error {
	if caller.IsAnonymous() || caller.ID != id {
		return ErrForbidden
	}

	res, err := svc.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		if pgerr.IsReferenced(err) {
			return ErrUserProtected
		}
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	zap.L().Info("account.deleted", zap.Int64("user_id", id))
	return nil
}
