package services

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/happypath-backend/internal/apierr"
	"github.com/yungbote/happypath-backend/internal/logger"
	"github.com/yungbote/happypath-backend/internal/repos"
	"github.com/yungbote/happypath-backend/internal/requestdata"
	"github.com/yungbote/happypath-backend/internal/types"
	"github.com/yungbote/happypath-backend/internal/utils"
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*types.User, string, error)
	Login(ctx context.Context, email, password string) (*types.User, string, error)
	Me(ctx context.Context, userID uuid.UUID) (*types.User, error)
	ParseToken(tokenString string) (*requestdata.RequestData, error)
}

type authService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	jwtSecretKey string
	tokenTTL     time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	jwtSecretKey string,
	tokenTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:           db,
		log:          serviceLog,
		userRepo:     userRepo,
		jwtSecretKey: jwtSecretKey,
		tokenTTL:     tokenTTL,
	}
}

func (as *authService) Register(ctx context.Context, input RegisterInput) (*types.User, string, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	role := strings.TrimSpace(input.Role)
	if role == "" {
		role = types.RoleStudent
	}

	if name == "" || email == "" || input.Password == "" {
		return nil, "", apierr.Validation("name, email and password are required")
	}
	if len(input.Password) < 6 {
		return nil, "", apierr.Validation("password must be at least 6 characters")
	}
	if !types.ValidPublicRole(role) {
		return nil, "", apierr.Validation("invalid role %q", role)
	}

	exists, err := as.userRepo.EmailExists(ctx, nil, email)
	if err != nil {
		return nil, "", apierr.Internal(err)
	}
	if exists {
		return nil, "", apierr.Conflict("email already registered")
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, "", apierr.Internal(err)
	}

	user := &types.User{
		ID:       uuid.New(),
		Name:     name,
		Email:    email,
		Password: hashed,
		Role:     role,
		IsActive: true,
		Avatar:   "/placeholder.svg",
	}
	if _, err := as.userRepo.Create(ctx, nil, user); err != nil {
		if repos.IsUniqueViolation(err) {
			return nil, "", apierr.Conflict("email already registered")
		}
		return nil, "", apierr.Internal(err)
	}

	token, err := as.signToken(user)
	if err != nil {
		return nil, "", apierr.Internal(err)
	}
	as.log.Info("user registered", "user_id", user.ID, "role", user.Role)
	return user, token, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (*types.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", apierr.Validation("email and password are required")
	}

	user, err := as.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		if repos.IsNotFound(err) {
			return nil, "", apierr.Unauthenticated("invalid credentials")
		}
		return nil, "", apierr.Internal(err)
	}
	if !utils.CheckPassword(user.Password, password) {
		return nil, "", apierr.Unauthenticated("invalid credentials")
	}
	if !user.IsActive {
		return nil, "", apierr.Forbidden("account is deactivated")
	}

	now := time.Now().UTC()
	if err := as.userRepo.TouchLastLogin(ctx, nil, user.ID, now); err != nil {
		as.log.Warn("failed to record last login", "user_id", user.ID, "error", err)
	}
	user.LastLoginAt = &now

	token, err := as.signToken(user)
	if err != nil {
		return nil, "", apierr.Internal(err)
	}
	return user, token, nil
}

func (as *authService) Me(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	user, err := as.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		if repos.IsNotFound(err) {
			return nil, apierr.NotFound("user not found")
		}
		return nil, apierr.Internal(err)
	}
	return user, nil
}

func (as *authService) signToken(user *types.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":    user.ID.String(),
		"role":  user.Role,
		"email": user.Email,
		"name":  user.Name,
		"iat":   now.Unix(),
		"exp":   now.Add(as.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

// ParseToken validates the signature and expiry and rebuilds the request
// identity from the claims. Both "id" and "sub" are accepted for the subject.
func (as *authService) ParseToken(tokenString string) (*requestdata.RequestData, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apierr.Unauthenticated("unexpected signing method")
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil || !token.Valid {
		return nil, apierr.Unauthenticated("invalid or expired token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apierr.Unauthenticated("invalid token claims")
	}

	rawID, _ := claims["id"].(string)
	if rawID == "" {
		rawID, _ = claims["sub"].(string)
	}
	userID, parseErr := uuid.Parse(rawID)
	if parseErr != nil {
		return nil, apierr.Unauthenticated("invalid token subject")
	}

	role, _ := claims["role"].(string)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	return &requestdata.RequestData{
		UserID: userID,
		Role:   role,
		Email:  email,
		Name:   name,
	}, nil
}
