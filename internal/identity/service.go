package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/IFernandes27/barbershop-platform/pkg/logging"
)

// Service handles registration, login and token issuance.
type Service struct {
	repo     Repository
	secret   []byte
	tokenTTL time.Duration
	logger   *logging.Logger
}

// NewService constructs an identity service.
func NewService(repo Repository, secret string, tokenTTL time.Duration, logger *logging.Logger) *Service {
	if repo == nil {
		panic("identity: repository required")
	}
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, secret: []byte(secret), tokenTTL: tokenTTL, logger: logger}
}

// Register creates a customer account. Professionals are provisioned by
// an administrator, never through self-registration.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("identity: hash password: %w", err)
	}
	user, err := s.repo.Create(ctx, &User{
		Email:        req.Email,
		Name:         req.Name,
		Role:         RoleCustomer,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Login verifies credentials and returns the user plus a signed token.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*User, string, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Claims carries the role alongside the registered JWT claims so the
// auth middleware can resolve the actor without a store lookup.
type Claims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs an HMAC JWT for the user.
func (s *Service) IssueToken(user *User) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("identity: auth secret not configured")
	}
	now := time.Now()
	claims := Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("identity: sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a signed token and returns the actor it names.
func (s *Service) ParseToken(tokenString string) (Actor, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return Actor{}, ErrInvalidCredentials
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		return Actor{}, ErrInvalidCredentials
	}
	return Actor{UserID: claims.Subject, Role: claims.Role}, nil
}
