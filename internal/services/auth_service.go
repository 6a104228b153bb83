// Package services – sessions
//
// Sessions gate the admin listing and unlock reports for signed-in callers.
// Session issuance sits behind Authenticator so another identity provider
// can replace the local AccountAuthenticator without touching handlers.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tbourn/powerwise-backend/internal/repo"
)

// Credentials is an email and password pair.
type Credentials struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// Session is an issued, verified session.
type Session struct {
	AccountID string    `json:"account_id"`
	Email     string    `json:"email"`
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Authenticator issues and verifies sessions.
type Authenticator interface {
	Register(ctx context.Context, c Credentials) (*Session, error)
	Authenticate(ctx context.Context, c Credentials) (*Session, error)
	Verify(token string) (*Session, error)
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// AccountAuthenticator keeps bcrypt hashes in the accounts table and issues
// HS256 JWTs.
type AccountAuthenticator struct {
	DB     *gorm.DB
	secret []byte
	ttl    time.Duration
	issuer string
	// Cost is the bcrypt work factor.
	Cost int
	Now  func() time.Time
}

// NewAccountAuthenticator returns ErrAuthDisabled when secret is empty.
func NewAccountAuthenticator(db *gorm.DB, secret string, ttl time.Duration, issuer string) (*AccountAuthenticator, error) {
	if secret == "" {
		return nil, ErrAuthDisabled
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AccountAuthenticator{
		DB:     db,
		secret: []byte(secret),
		ttl:    ttl,
		issuer: issuer,
		Cost:   bcrypt.DefaultCost,
		Now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

// Register creates an account and signs the caller in.
func (a *AccountAuthenticator) Register(ctx context.Context, c Credentials) (*Session, error) {
	ctx, span := otel.Tracer("services/AccountAuthenticator").Start(ctx, "Register")
	defer span.End()

	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	if err := inputValidator.Struct(c); err != nil {
		return nil, fieldErrors(err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(c.Password), a.Cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	acct, err := repo.CreateAccount(ctx, a.DB, c.Email, string(hash))
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrAccountExists
		}
		return nil, err
	}
	log.Info().Str("account_id", acct.ID).Msg("auth: account registered")
	return a.issue(acct.ID, acct.Email)
}

// Authenticate checks a password and issues a session.
func (a *AccountAuthenticator) Authenticate(ctx context.Context, c Credentials) (*Session, error) {
	ctx, span := otel.Tracer("services/AccountAuthenticator").Start(ctx, "Authenticate")
	defer span.End()

	acct, err := repo.GetAccountByEmail(ctx, a.DB, strings.ToLower(strings.TrimSpace(c.Email)))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(c.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return a.issue(acct.ID, acct.Email)
}

// Verify parses and validates a session token.
func (a *AccountAuthenticator) Verify(token string) (*Session, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(t *jwt.Token) (any, error) { return a.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(a.issuer),
		jwt.WithTimeFunc(a.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || claims.Subject == "" {
		return nil, ErrInvalidSession
	}
	return &Session{
		AccountID: claims.Subject,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (a *AccountAuthenticator) issue(accountID, email string) (*Session, error) {
	now := a.Now()
	exp := now.Add(a.ttl)
	claims := sessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}
	return &Session{AccountID: accountID, Email: email, Token: signed, ExpiresAt: exp}, nil
}
