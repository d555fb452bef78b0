package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"smartbin"
	"smartbin/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenTTL = time.Hour

	// devSigningKey is only used when auth.signing_key is absent from config.
	devSigningKey = "smartbin-dev-secret"
)

// Domain errors for auth flows.
var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrUserNotFound    = errors.New("user not found")
	ErrUserDeactivated = errors.New("user account is deactivated")
	ErrDuplicateUser   = errors.New("user with that username or email already exists")
	ErrInvalidUser     = errors.New("all fields are required")
	ErrInvalidToken    = errors.New("invalid token")
)

// RegisterParams is the registration request. All fields are required.
type RegisterParams struct {
	Username    string
	Email       string
	PhoneNumber string
	Password    string
	Role        string
}

// AuthService handles user auth logic.
type AuthService struct {
	users      repository.UserRepo
	signingKey []byte
}

func NewAuthService(users repository.UserRepo, signingKey string) *AuthService {
	if signingKey == "" {
		signingKey = devSigningKey
	}
	return &AuthService{users: users, signingKey: []byte(signingKey)}
}

// Register validates the request, case-normalizes the username, hashes the
// password, and creates the account.
func (s *AuthService) Register(ctx context.Context, p RegisterParams) (*smartbin.User, error) {
	if p.Username == "" || p.Email == "" || p.PhoneNumber == "" || p.Password == "" || p.Role == "" {
		return nil, ErrInvalidUser
	}

	username := strings.ToLower(strings.TrimSpace(p.Username))

	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateUser
	}
	existing, err = s.users.GetByEmail(ctx, p.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateUser
	}

	hash, err := hashPassword(p.Password)
	if err != nil {
		return nil, err
	}

	u := smartbin.User{
		Username:     username,
		Email:        p.Email,
		PhoneNumber:  p.PhoneNumber,
		Role:         p.Role,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	id, err := s.users.Create(ctx, u)
	if err != nil {
		return nil, err
	}
	u.ID = id
	return &u, nil
}

// Claims defines the JWT payload issued on login.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int    `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// GenerateToken validates credentials and returns a signed session token
// plus the authenticated user.
func (s *AuthService) GenerateToken(ctx context.Context, username, password string) (string, *smartbin.User, error) {
	u, err := s.users.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		return "", nil, err
	}
	if u == nil {
		return "", nil, ErrUserNotFound
	}
	if !u.IsActive {
		return "", nil, ErrUserDeactivated
	}
	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return "", nil, ErrInvalidPassword
	}

	token, err := s.issueToken(u)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// ParseToken parses a JWT and returns its claims.
func (s *AuthService) ParseToken(accessToken string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// SeedAdmin creates the default administrator account when no users exist.
// Idempotent like the fleet seeding.
func (s *AuthService) SeedAdmin(ctx context.Context) error {
	n, err := s.users.Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		return nil
	}

	_, err = s.Register(ctx, RegisterParams{
		Username:    "admin",
		Email:       "admin@smartwaste.com",
		PhoneNumber: "1234567890",
		Password:    "admin123",
		Role:        "administrator",
	})
	return err
}

func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *AuthService) issueToken(u *smartbin.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
	})
	return token.SignedString(s.signingKey)
}
