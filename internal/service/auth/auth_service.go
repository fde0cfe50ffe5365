package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abmah/green-jordan-backend/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const tokenLifetime = 24 * time.Hour

// Service validates and mints the HMAC-signed bearer tokens the transport
// layer uses as its authentication gate. Authorization (admin checks) is
// never decided from the token; the services verify it against the store.
type Service struct {
	secret []byte
	logger *zap.Logger
}

// NewService creates a new auth service
func NewService(secret string, logger *zap.Logger) *Service {
	return &Service{
		secret: []byte(secret),
		logger: logger,
	}
}

// ValidateToken validates a bearer token and returns its claims
func (s *Service) ValidateToken(ctx context.Context, tokenString string) (*domain.AuthClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, errors.New("token missing subject")
	}

	result := &domain.AuthClaims{Sub: sub}
	if username, ok := claims["username"].(string); ok {
		result.Username = username
	}
	if email, ok := claims["email"].(string); ok {
		result.Email = email
	}
	if iat, ok := claims["iat"].(float64); ok {
		result.Iat = int64(iat)
	}
	if exp, ok := claims["exp"].(float64); ok {
		result.Exp = int64(exp)
	}

	s.logger.Debug("token validated", zap.String("user_id", sub))
	return result, nil
}

// IssueToken mints a signed token for a user
func (s *Service) IssueToken(ctx context.Context, user *domain.User) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("jwt secret is not configured")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"email":    user.Email,
		"iat":      now.Unix(),
		"exp":      now.Add(tokenLifetime).Unix(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
