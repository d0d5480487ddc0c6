package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lanzy-lanzy/tailoring/internal/entity"
	"github.com/lanzy-lanzy/tailoring/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials covers both unknown usernames and bad passwords.
var ErrInvalidCredentials = errors.New("invalid username or password")

// AuthService issues JWT tokens for staff logins.
type AuthService struct {
	repos       *repository.Repositories
	jwtSecret   string
	tokenExpire time.Duration
	issuer      string
}

func NewAuthService(repos *repository.Repositories, jwtSecret string, tokenExpire time.Duration, issuer string) *AuthService {
	if tokenExpire == 0 {
		tokenExpire = 24 * time.Hour
	}
	return &AuthService{
		repos:       repos,
		jwtSecret:   jwtSecret,
		tokenExpire: tokenExpire,
		issuer:      issuer,
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *entity.User `json:"user"`
}

func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	user, err := s.repos.User.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.Status != entity.UserStatusActive {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(s.tokenExpire)
	claims := jwt.MapClaims{
		"uid":  user.ID,
		"name": user.Name,
		"role": user.Role,
		"iss":  s.issuer,
		"iat":  time.Now().Unix(),
		"exp":  expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &LoginResponse{Token: signed, ExpiresAt: expiresAt, User: user}, nil
}

// HashPassword produces a bcrypt hash for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
