package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/happypath-backend/internal/apierr"
	"github.com/yungbote/happypath-backend/internal/logger"
	"github.com/yungbote/happypath-backend/internal/repos"
	"github.com/yungbote/happypath-backend/internal/types"
	"github.com/yungbote/happypath-backend/internal/utils"
)

// DefaultResetPassword is the well-known temporary password set by an admin
// reset. Users are expected to change it on next login.
const DefaultResetPassword = "password123"

type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type UpdateUserInput struct {
	Name   *string
	Email  *string
	Role   *string
	Avatar *string
}

type UserService interface {
	Create(ctx context.Context, actorID uuid.UUID, input CreateUserInput) (*types.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*types.User, error)
	List(ctx context.Context, filter repos.UserListFilter) ([]*types.User, int64, error)
	Update(ctx context.Context, actorID, userID uuid.UUID, input UpdateUserInput) (*types.User, error)
	SetActive(ctx context.Context, actorID, userID uuid.UUID, active bool) (*types.User, error)
	ResetPassword(ctx context.Context, actorID, userID uuid.UUID, newPassword string) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

type userService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	guardianRepo repos.GuardianAssignmentRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, guardianRepo repos.GuardianAssignmentRepo) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{db: db, log: serviceLog, userRepo: userRepo, guardianRepo: guardianRepo}
}

func (us *userService) Create(ctx context.Context, actorID uuid.UUID, input CreateUserInput) (*types.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || email == "" || input.Password == "" {
		return nil, apierr.Validation("name, email and password are required")
	}
	if !types.ValidRole(input.Role) {
		return nil, apierr.Validation("invalid role %q", input.Role)
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, apierr.Internal(err)
	}

	user := &types.User{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Password:  hashed,
		Role:      input.Role,
		IsActive:  true,
		Avatar:    "/placeholder.svg",
		CreatedBy: &actorID,
	}
	if _, err := us.userRepo.Create(ctx, nil, user); err != nil {
		if repos.IsUniqueViolation(err) {
			return nil, apierr.Conflict("email already registered")
		}
		return nil, apierr.Internal(err)
	}
	us.log.Info("user created by admin", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (us *userService) GetByID(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	user, err := us.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		if repos.IsNotFound(err) {
			return nil, apierr.NotFound("user not found")
		}
		return nil, apierr.Internal(err)
	}
	return user, nil
}

func (us *userService) List(ctx context.Context, filter repos.UserListFilter) ([]*types.User, int64, error) {
	if filter.Role != "" && !types.ValidRole(filter.Role) {
		return nil, 0, apierr.Validation("invalid role %q", filter.Role)
	}
	users, total, err := us.userRepo.List(ctx, nil, filter)
	if err != nil {
		return nil, 0, apierr.Internal(err)
	}
	return users, total, nil
}

func (us *userService) Update(ctx context.Context, actorID, userID uuid.UUID, input UpdateUserInput) (*types.User, error) {
	user, err := us.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		if repos.IsNotFound(err) {
			return nil, apierr.NotFound("user not found")
		}
		return nil, apierr.Internal(err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apierr.Validation("name must not be empty")
		}
		user.Name = name
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email == "" {
			return nil, apierr.Validation("email must not be empty")
		}
		user.Email = email
	}
	if input.Role != nil {
		if !types.ValidRole(*input.Role) {
			return nil, apierr.Validation("invalid role %q", *input.Role)
		}
		user.Role = *input.Role
	}
	if input.Avatar != nil {
		user.Avatar = *input.Avatar
	}
	user.UpdatedBy = &actorID

	if _, err := us.userRepo.Update(ctx, nil, user); err != nil {
		if repos.IsUniqueViolation(err) {
			return nil, apierr.Conflict("email already registered")
		}
		return nil, apierr.Internal(err)
	}
	return user, nil
}

func (us *userService) SetActive(ctx context.Context, actorID, userID uuid.UUID, active bool) (*types.User, error) {
	user, err := us.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		if repos.IsNotFound(err) {
			return nil, apierr.NotFound("user not found")
		}
		return nil, apierr.Internal(err)
	}
	if err := us.userRepo.UpdateFields(ctx, nil, userID, map[string]interface{}{
		"is_active":  active,
		"updated_by": actorID,
	}); err != nil {
		return nil, apierr.Internal(err)
	}
	user.IsActive = active
	user.UpdatedBy = &actorID
	us.log.Info("user active flag changed", "user_id", userID, "active", active)
	return user, nil
}

func (us *userService) ResetPassword(ctx context.Context, actorID, userID uuid.UUID, newPassword string) error {
	if newPassword == "" {
		newPassword = DefaultResetPassword
	}
	if _, err := us.userRepo.GetByID(ctx, nil, userID); err != nil {
		if repos.IsNotFound(err) {
			return apierr.NotFound("user not found")
		}
		return apierr.Internal(err)
	}
	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return apierr.Internal(err)
	}
	if err := us.userRepo.UpdateFields(ctx, nil, userID, map[string]interface{}{
		"password":   hashed,
		"updated_by": actorID,
		"updated_at": time.Now().UTC(),
	}); err != nil {
		return apierr.Internal(err)
	}
	us.log.Info("password reset", "user_id", userID)
	return nil
}

// Delete removes the account and any guardian links it participates in, so
// no assignment row outlives either of its users.
func (us *userService) Delete(ctx context.Context, userID uuid.UUID) error {
	user, err := us.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		if repos.IsNotFound(err) {
			return apierr.NotFound("user not found")
		}
		return apierr.Internal(err)
	}
	err = us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		switch user.Role {
		case types.RoleStudent:
			if _, err := us.guardianRepo.DeleteByStudent(ctx, tx, userID); err != nil {
				return err
			}
		case types.RoleParent:
			if _, err := us.guardianRepo.DeleteByParent(ctx, tx, userID); err != nil {
				return err
			}
		}
		return us.userRepo.Delete(ctx, tx, userID)
	})
	if err != nil {
		return apierr.Internal(err)
	}
	return nil
}
