package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/docflow/docflow/config"
	"github.com/docflow/docflow/internal/storage/postgres"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserExists         = errors.New("user with this email already exists")
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidRole        = errors.New("invalid role")
	ErrLastAdmin          = errors.New("cannot demote the last admin")
)

type Service struct {
	repo   Repository
	config *config.JWTConfig
	log    *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, cfg *config.JWTConfig, log *zap.Logger) *Service {
	return &Service{repo: repo, config: cfg, log: log.Named("auth"), now: time.Now}
}

type JWTClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   Role      `json:"role"`
	jwt.RegisteredClaims
}

// HashPassword hashes a password with bcrypt's default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// User authentication
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	existing, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Name:         req.Name,
		Role:         RoleEditor,
		Status:       UserStatusActive,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if postgres.IsUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	s.log.Info("user registered", zap.Stringer("user_id", user.ID))
	return &AuthResponse{Token: token, User: user}, nil
}

func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Status != UserStatusActive {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Token: token, User: user}, nil
}

func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]*User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []*User{}
	}
	return users, nil
}

// SetRole changes a user's role. The last active admin cannot be demoted.
func (s *Service) SetRole(ctx context.Context, actorID, targetID uuid.UUID, role Role) (*User, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	target, err := s.GetUserByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.Role == role {
		return target, nil
	}

	if target.Role == RoleAdmin {
		users, err := s.repo.ListUsers(ctx)
		if err != nil {
			return nil, err
		}
		admins := 0
		for _, u := range users {
			if u.Role == RoleAdmin && u.Status == UserStatusActive {
				admins++
			}
		}
		if admins <= 1 {
			return nil, ErrLastAdmin
		}
	}

	target.Role = role
	if err := s.repo.UpdateUser(ctx, target); err != nil {
		return nil, err
	}

	s.log.Info("user role changed",
		zap.Stringer("actor_id", actorID),
		zap.Stringer("user_id", targetID),
		zap.String("role", string(role)),
	)
	return target, nil
}

func (s *Service) generateToken(user *User) (string, error) {
	now := s.now()
	claims := JWTClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.ExpirationDuration())),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Secret))
}

func (s *Service) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrUnauthorized
}
