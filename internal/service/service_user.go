package service

import (
	"context"
	"fmt"

	"github.com/reqdesk/reqdesk/internal/logger"
	"github.com/reqdesk/reqdesk/internal/store"
	"github.com/reqdesk/reqdesk/internal/utils"
	"github.com/reqdesk/reqdesk/models"
)

// userService is the concrete implementation of UserService.
type userService struct {
	userRepository store.UserRepository
	authService    AuthService
	logger         *logger.Logger
}

// NewUserService constructs a UserService. Account creation on behalf of
// others is delegated to authService so that hashing and role assignment
// live in one place.
func NewUserService(userRepository store.UserRepository, authService AuthService, logger *logger.Logger) UserService {
	return &userService{
		userRepository: userRepository,
		authService:    authService,
		logger:         logger,
	}
}

// GetUser returns the user with the given identifier.
func (u *userService) GetUser(ctx context.Context, userID int64) (models.User, error) {
	log := logger.FromContext(ctx)

	user, err := u.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		log.Err(err).Int64("user_id", userID).Msg("user lookup failed")
		return models.User{}, fmt.Errorf("user lookup failed: %w", err)
	}

	return user, nil
}

// UpdateProfile applies the non-nil fields of update to the user's own
// profile. A password change is re-hashed with argon2id before storage.
func (u *userService) UpdateProfile(ctx context.Context, userID int64, update models.UserUpdate) (models.User, error) {
	log := logger.FromContext(ctx)

	// status changes never come from profile updates
	update.Status = nil

	if update.Password != nil {
		if *update.Password == "" {
			return models.User{}, ErrInvalidDataProvided
		}
		hash, hashErr := utils.HashPassword(*update.Password)
		if hashErr != nil {
			log.Err(hashErr).Msg("password hashing failed")
			return models.User{}, fmt.Errorf("password hashing failed: %w", hashErr)
		}
		update.Password = &hash
	}

	updatedUser, err := u.userRepository.UpdateUser(ctx, userID, update)
	if err != nil {
		log.Err(err).Int64("user_id", userID).Msg("profile update failed")
		return models.User{}, fmt.Errorf("profile update failed: %w", err)
	}

	return updatedUser, nil
}

// ListUsers returns a page of registered users. Restricted to supervisors
// and administrators.
func (u *userService) ListUsers(ctx context.Context, callerRole models.UserRole, offset int, limit int) ([]models.User, error) {
	log := logger.FromContext(ctx)

	if callerRole != models.RoleSupervisor && callerRole != models.RoleAdministrator {
		return nil, ErrPermissionDenied
	}

	if limit <= 0 || limit > MaxPageLimit {
		limit = DefaultPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	users, err := u.userRepository.GetAllUsers(ctx, offset, limit)
	if err != nil {
		log.Err(err).Msg("user listing failed")
		return nil, fmt.Errorf("user listing failed: %w", err)
	}

	return users, nil
}

// CreateUser registers an account on behalf of another person. Restricted to
// administrators.
func (u *userService) CreateUser(ctx context.Context, callerRole models.UserRole, user models.User, password string) (models.User, error) {
	if callerRole != models.RoleAdministrator {
		return models.User{}, ErrPermissionDenied
	}

	return u.authService.RegisterUser(ctx, user, password)
}
