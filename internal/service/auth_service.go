package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shipment-tracking-service/internal/apperror"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleAdmin       = "admin"
	operatorSubject = "operator"
	sessionIssuer   = "shipment-tracking-service"
)

// Session is what a validated token says about its holder.
type Session struct {
	Subject   string
	Role      string
	ExpiresAt time.Time
}

// Authenticator gates the admin endpoints. The core services never see it.
type Authenticator interface {
	Login(ctx context.Context, secret string) (token string, expiresAt time.Time, err error)
	ValidateToken(token string) (*Session, error)
}

type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// SharedSecretAuthenticator trades the single operator secret for a signed
// session token.
type SharedSecretAuthenticator struct {
	secretHash []byte
	signingKey []byte
	ttl        time.Duration
	now        func() time.Time
}

func NewSharedSecretAuthenticator(secret string, signingKey []byte, ttl time.Duration) (*SharedSecretAuthenticator, error) {
	if secret == "" {
		return nil, errors.New("admin secret must not be empty")
	}
	if len(signingKey) == 0 {
		return nil, errors.New("session signing key must not be empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive, got %s", ttl)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin secret: %w", err)
	}
	return &SharedSecretAuthenticator{
		secretHash: hash,
		signingKey: signingKey,
		ttl:        ttl,
		now:        time.Now,
	}, nil
}

func (a *SharedSecretAuthenticator) Login(_ context.Context, secret string) (string, time.Time, error) {
	if err := bcrypt.CompareHashAndPassword(a.secretHash, []byte(secret)); err != nil {
		return "", time.Time{}, apperror.Unauthorized("invalid admin secret")
	}

	now := a.now()
	expiresAt := now.Add(a.ttl)
	claims := sessionClaims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   operatorSubject,
			Issuer:    sessionIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.signingKey)
	if err != nil {
		return "", time.Time{}, apperror.Internal(err)
	}
	return token, expiresAt, nil
}

func (a *SharedSecretAuthenticator) ValidateToken(token string) (*Session, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return a.signingKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil || !parsed.Valid {
		return nil, apperror.Unauthorized("invalid or expired token")
	}

	session := &Session{Subject: claims.Subject, Role: claims.Role}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}
