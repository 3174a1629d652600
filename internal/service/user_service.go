package service

import (
	"context"
	"errors"
	"time"

	"craftmarket/internal/domain"
	"craftmarket/internal/httperr"
	"craftmarket/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the cost factor for bcrypt hashing.
const BcryptCost = 12

// UserService handles signup, login, and token issuing. Authentication is
// stateless: the signed token is the only credential, nothing is stored per
// session.
type UserService interface {
	Signup(ctx context.Context, name, email, password string) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
}

// Claims is the token payload; userId is the identity the auth guard attaches
// to requests.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type userService struct {
	userRepo    repository.UserRepository
	jwtSecret   string
	tokenExpiry time.Duration
}

// NewUserService creates a new instance of UserService
func NewUserService(userRepo repository.UserRepository, jwtSecret string, expiryHours int) UserService {
	return &userService{
		userRepo:    userRepo,
		jwtSecret:   jwtSecret,
		tokenExpiry: time.Duration(expiryHours) * time.Hour,
	}
}

// Signup creates an account with a bcrypt-hashed password and returns a fresh
// token.
func (s *userService) Signup(ctx context.Context, name, email, password string) (*domain.User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return nil, "", httperr.Internal("Signing up failed, please try again later.")
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			return nil, "", httperr.Invalid("User exists already, please login instead.")
		}
		return nil, "", httperr.Internal("Signing up failed, please try again later.")
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", httperr.Internal("Signing up failed, please try again later.")
	}
	return user, token, nil
}

// Login verifies credentials and returns a fresh token.
func (s *userService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", httperr.Unauthorized("Invalid credentials, could not log you in.")
		}
		return nil, "", httperr.Internal("Logging in failed, please try again later.")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", httperr.Unauthorized("Invalid credentials, could not log you in.")
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", httperr.Internal("Logging in failed, please try again later.")
	}
	return user, token, nil
}

func (s *userService) generateToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID.Hex(),
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
