package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/receitas/backend/internal/model"
	"github.com/pageza/receitas/backend/internal/repository"
	"github.com/pageza/receitas/backend/internal/types"
)

const minPasswordLength = 6

// AuthService is the email/password identity provider
type AuthService struct {
	users     repository.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
	validate  *validator.Validate
}

// NewAuthService creates a new AuthService instance
func NewAuthService(users repository.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		users:     users,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		validate:  validator.New(),
	}
}

// Register creates an identity and its profile in the users collection
func (s *AuthService) Register(ctx context.Context, req types.RegisterRequest) (*model.User, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if name == "" || email == "" || req.Password == "" {
		return nil, authError(ReasonMissingFields, nil)
	}
	if err := s.validate.Var(email, "email"); err != nil {
		return nil, authError(ReasonInvalidEmail, err)
	}
	if len(req.Password) < minPasswordLength {
		return nil, authError(ReasonWeakPassword, nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, authError(ReasonEmailInUse, err)
		}
		return nil, writeError("create user", err)
	}
	return user, nil
}

// Login checks the credentials and returns a signed token for the user
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, authError(ReasonMissingFields, nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, authError(ReasonInvalidCredentials, err)
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, authError(ReasonInvalidCredentials, err)
	}

	token, err := s.GenerateToken(&types.TokenClaims{UserID: user.ID, Name: user.Name})
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// GenerateToken signs claims with the configured secret
func (s *AuthService) GenerateToken(claims *types.TokenClaims) (string, error) {
	now := time.Now()
	claims.Subject = claims.UserID
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.tokenTTL))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateToken parses and verifies a signed token
func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, authError(ReasonInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" {
		return nil, authError(ReasonInvalidToken, fmt.Errorf("token has no user"))
	}
	return claims, nil
}
