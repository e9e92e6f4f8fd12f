package token

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/yanqian/faqfilter/pkg/errors"
)

const (
	// DefaultAction binds tokens to the filter endpoint.
	DefaultAction = "faq_filter"
	// DefaultTTL mirrors a page-cache friendly nonce lifetime.
	DefaultTTL = 12 * time.Hour
)

// Config drives token behavior.
type Config struct {
	Secret string
	TTL    time.Duration
	Action string
}

// Service issues and verifies the request token a rendered widget sends back.
type Service interface {
	Issue(ctx context.Context) (string, error)
	Verify(ctx context.Context, token string) error
}

type service struct {
	cfg Config
	now func() time.Time
}

// NewService constructs a Service instance.
func NewService(cfg Config) Service {
	return newService(cfg, time.Now)
}

func newService(cfg Config, now func() time.Time) *service {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if strings.TrimSpace(cfg.Action) == "" {
		cfg.Action = DefaultAction
	}
	return &service{cfg: cfg, now: now}
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Action string `json:"act"`
}

func (s *service) Issue(_ context.Context) (string, error) {
	if strings.TrimSpace(s.cfg.Secret) == "" {
		return "", apperrors.Wrap(apperrors.CodeTokenError, "token secret not configured", nil)
	}
	now := s.now()
	claims := tokenClaims{
		Action: s.cfg.Action,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        newTokenID(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeTokenError, "failed to sign token", err)
	}
	return signed, nil
}

func (s *service) Verify(_ context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return apperrors.Wrap(apperrors.CodeInvalidToken, "token missing", nil)
	}
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return []byte(s.cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidToken, "token validation failed", err)
	}
	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return apperrors.Wrap(apperrors.CodeInvalidToken, "token invalid", nil)
	}
	if claims.Action != s.cfg.Action {
		return apperrors.Wrap(apperrors.CodeInvalidToken, "token action mismatch", nil)
	}
	return nil
}

func newTokenID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 10)
	}
	return hex.EncodeToString(buf)
}
