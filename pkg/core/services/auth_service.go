package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/wadjakorntonsri/go-link-directory/pkg/config"
	"github.com/wadjakorntonsri/go-link-directory/pkg/core/domain"
	"github.com/wadjakorntonsri/go-link-directory/pkg/ports"
)

// SessionClaims is the payload of a session token.
type SessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type AuthService struct {
	adminEmail    string
	adminPassword string
	adminHash     []byte
	allowed       []string
	secret        []byte
	now           func() time.Time
}

func NewAuthService(cfg *config.Config) *AuthService {
	s := &AuthService{
		adminEmail:    strings.ToLower(strings.TrimSpace(cfg.AdminEmail)),
		adminPassword: cfg.AdminPassword,
		allowed:       cfg.AllowedEmailList(),
		secret:        []byte(cfg.SessionSecret),
		now:           time.Now,
	}
	if cfg.AdminPasswordHash != "" {
		s.adminHash = []byte(cfg.AdminPasswordHash)
	}
	return s
}

func (s *AuthService) Login(_ context.Context, email, password string) (string, time.Time, error) {
	if !s.credentialsValid(email, password) {
		return "", time.Time{}, domain.ErrInvalidCredentials
	}
	return s.IssueToken(s.adminEmail)
}

func (s *AuthService) credentialsValid(email, password string) bool {
	emailOK := strings.EqualFold(strings.TrimSpace(email), s.adminEmail)

	var passwordOK bool
	if s.adminHash != nil {
		passwordOK = bcrypt.CompareHashAndPassword(s.adminHash, []byte(password)) == nil
	} else {
		passwordOK = subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPassword)) == 1
	}
	return emailOK && passwordOK
}

func (s *AuthService) IssueToken(email string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(config.SessionMaxAge)
	claims := &SessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

func (s *AuthService) Verify(tokenString string) (*domain.Session, error) {
	if tokenString == "" {
		return nil, domain.ErrInvalidSession
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, errors.Join(domain.ErrInvalidSession, err)
	}
	if claims.Email == "" {
		return nil, domain.ErrInvalidSession
	}

	return &domain.Session{Email: claims.Email, ExpiresAt: claims.ExpiresAt.Time}, nil
}

func (s *AuthService) EmailAllowed(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false
	}
	if email == s.adminEmail {
		return true
	}
	for _, e := range s.allowed {
		if e == email {
			return true
		}
	}
	return false
}

var _ ports.AuthService = (*AuthService)(nil)
