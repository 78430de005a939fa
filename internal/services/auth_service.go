package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"elfportal/internal/models"
	"elfportal/internal/repositories"
	"elfportal/internal/utils"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// SessionClaims is the signed session payload. The CSRF token rides inside
// the session so anti-forgery checks need no server-side state.
type SessionClaims struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	CSRF   string `json:"csrf"`
	jwt.RegisteredClaims
}

type AuthService struct {
	users  repositories.UserRepository
	secret []byte
	ttl    time.Duration
}

func NewAuthService(users repositories.UserRepository, secret string, ttl time.Duration) *AuthService {
	return &AuthService{users: users, secret: []byte(secret), ttl: ttl}
}

// Login checks credentials and mints a session token plus its CSRF token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.IssueSession(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) IssueSession(user *models.User) (string, error) {
	csrf, err := utils.NewRandomToken(32)
	if err != nil {
		return "", err
	}
	now := time.Now()
	claims := &SessionClaims{
		UserID: user.ID,
		Name:   user.Name,
		CSRF:   csrf,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ParseSession validates the cookie token and returns its claims.
func (s *AuthService) ParseSession(token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		// HMAC only; reject tokens signed with anything else
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidCredentials
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(time.Now()) {
		return nil, ErrInvalidCredentials
	}
	return claims, nil
}

func (s *AuthService) TTL() time.Duration {
	return s.ttl
}
