package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"procurehub/store-portal/store-portal-backend/pkg/staging"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// Claims is the JWT payload: identity plus the scoping and permission
// attributes every engine call needs.
type Claims struct {
	Name        string          `json:"name"`
	FirmScope   string          `json:"firm_name_match"`
	Permissions map[string]bool `json:"permissions"`
	jwt.RegisteredClaims
}

type Service struct {
	repo     Repository
	secret   []byte
	tokenTTL time.Duration
	logger   *zap.Logger
}

func NewService(repo Repository, secret string, tokenTTL time.Duration, logger *zap.Logger) *Service {
	if tokenTTL <= 0 {
		tokenTTL = 12 * time.Hour
	}
	return &Service{repo: repo, secret: []byte(secret), tokenTTL: tokenTTL, logger: logger}
}

// Login verifies credentials and issues a signed token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.repo.GetByUsername(ctx, req.Username)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	perms := user.PermissionMap()
	claims := Claims{
		Name:        user.Name,
		FirmScope:   user.FirmScope,
		Permissions: perms,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Info("user logged in",
		zap.String("username", user.Username),
		zap.String("firm_scope", user.FirmScope))

	return &LoginResponse{
		Token:       token,
		User:        user.Username,
		Name:        user.Name,
		FirmScope:   user.FirmScope,
		Permissions: perms,
	}, nil
}

// ParseToken validates a token and rebuilds the caller's UserContext.
func (s *Service) ParseToken(tokenString string) (staging.UserContext, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return staging.UserContext{}, fmt.Errorf("invalid token: %w", err)
	}
	return staging.UserContext{
		UserID:      claims.Subject,
		Name:        claims.Name,
		FirmScope:   claims.FirmScope,
		Permissions: claims.Permissions,
	}, nil
}

// CreateUser provisions a new account. Caller must hold the admin bit.
func (s *Service) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	perms := map[string]bool{}
	for _, key := range AllPermissions {
		if req.Permissions[key] {
			perms[key] = true
		}
	}
	permsJSON, err := json.Marshal(perms)
	if err != nil {
		return nil, fmt.Errorf("failed to encode permissions: %w", err)
	}

	now := time.Now()
	user := &User{
		ID:           uuid.New(),
		Username:     req.Username,
		Name:         req.Name,
		PasswordHash: string(hash),
		FirmScope:    req.FirmScope,
		Permissions:  permsJSON,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers returns every account. Admin only.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}
