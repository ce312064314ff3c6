package user

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	domain "github-user-service/internal/domain/user"
	apperrors "github-user-service/pkg/errors"

	"github.com/go-playground/validator/v10"
)

// Repository defines the interface for user data access operations.
// It abstracts the data layer, allowing different implementations
// (e.g., PostgreSQL, SQLite) to be used interchangeably.
type Repository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)         // Insert a new user, returns the record with its assigned ID
	GetByID(ctx context.Context, id int64) (*domain.User, error)              // Retrieve user by ID, (nil, nil) when absent
	GetByEmail(ctx context.Context, email string) (*domain.User, error)       // Retrieve user by email, (nil, nil) when absent
	Update(ctx context.Context, u *domain.User) (*domain.User, error)         // Persist the full record
	Delete(ctx context.Context, id int64) error                               // Delete user by ID
	List(ctx context.Context, filter domain.Filter) ([]domain.User, error)    // List users, optionally filtered
}

// ProfileFetcher defines the interface for the external profile lookup.
// Implementations classify a missing account as a not-found error and any
// other upstream failure as an upstream error.
type ProfileFetcher interface {
	FetchUser(ctx context.Context, username string) (*domain.Profile, error)
}

// Service implements the business logic for user management operations.
// It orchestrates the profile lookup and the record store and owns the
// business invariants (email presence, email uniqueness).
type Service struct {
	repo     Repository          // Repository for data access
	github   ProfileFetcher      // GitHub profile lookup
	log      *zap.Logger         // Logger for structured logging
	validate *validator.Validate // Validator for request validation
}

// New creates a new Service with the provided repository, profile fetcher,
// and logger.
func New(r Repository, g ProfileFetcher, log *zap.Logger) *Service {
	return &Service{repo: r, github: g, log: log, validate: validator.New()}
}

const (
	emailRequiredMsg = "your email address is not public on your github profile and was not in the request; retry with an email address in the request body"
	userExistsMsg    = "a user with this email address already exists"
	userNotFoundMsg  = "user not found"
)

// formatValidationError converts validator.ValidationErrors into a typed
// validation error with a human-readable message.
func formatValidationError(err error) error {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, e := range validationErrors {
			switch e.Tag() {
			case "required":
				messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
			case "email":
				messages = append(messages, fmt.Sprintf("%s must be a valid email", e.Field()))
			case "url":
				messages = append(messages, fmt.Sprintf("%s must be a valid URL", e.Field()))
			case "max":
				messages = append(messages, fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param()))
			default:
				messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
			}
		}
		return apperrors.NewValidationError("", strings.Join(messages, ", "))
	}
	return err
}

// CreateUser creates a new user enriched with the GitHub profile of the
// given username. The profile email wins over the request email; the request
// email is only a fallback for accounts that publish none. The resolved
// email must not belong to an existing user.
func (uc *Service) CreateUser(ctx context.Context, in CreateUserRequest) (*UserResponse, error) {
	uc.log.Info("creating user", zap.String("username", in.Username))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	profile, err := uc.github.FetchUser(ctx, in.Username)
	if err != nil {
		uc.log.Warn("github lookup failed", zap.String("username", in.Username), zap.Error(err))
		return nil, err
	}

	email := profile.Email
	if email == "" && in.Email != nil {
		email = *in.Email
	}
	if email == "" {
		uc.log.Warn("no email available for user", zap.String("username", in.Username))
		return nil, apperrors.NewValidationError("email", emailRequiredMsg)
	}

	// The duplicate check runs after email resolution so an override email
	// is also checked. The unique index on the users table remains the
	// authoritative guard; this check only yields a friendlier conflict.
	existing, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		uc.log.Error("failed to check existing email", zap.String("email", email), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to validate email uniqueness", err)
	}
	if existing != nil {
		uc.log.Warn("email already exists", zap.String("email", email))
		return nil, apperrors.NewAlreadyExistsError("user", userExistsMsg)
	}

	created, err := uc.repo.Create(ctx, &domain.User{
		Name:   profile.Name,
		Avatar: profile.AvatarURL,
		Email:  email,
	})
	if err != nil {
		uc.log.Error("failed to create user", zap.Error(err))
		return nil, err
	}

	return toResponse(created), nil
}

// GetUser retrieves a user by ID. A missing record is classified as a
// not-found error here; the repository itself reports absence as nil so it
// can double as an existence probe for update and delete.
func (uc *Service) GetUser(ctx context.Context, in GetUserRequest) (*UserResponse, error) {
	if in.ID <= 0 {
		uc.log.Warn("get user validation failed", zap.Int64("id", in.ID))
		return nil, apperrors.NewValidationError("id", "invalid user id")
	}

	u, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		uc.log.Error("failed to get user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}
	if u == nil {
		return nil, apperrors.NewNotFoundError("user", userNotFoundMsg)
	}

	return toResponse(u), nil
}

// UpdateUser merges the non-nil request fields over the stored record and
// persists the result. Changing the email to one owned by another user is a
// conflict.
func (uc *Service) UpdateUser(ctx context.Context, in UpdateUserRequest) (*UserResponse, error) {
	uc.log.Info("updating user", zap.Int64("id", in.ID))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	u, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		uc.log.Error("failed to load user for update", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}
	if u == nil {
		uc.log.Warn("user not found for update", zap.Int64("id", in.ID))
		return nil, apperrors.NewNotFoundError("user", userNotFoundMsg)
	}

	if in.Email != nil && *in.Email != u.Email {
		existing, err := uc.repo.GetByEmail(ctx, *in.Email)
		if err != nil {
			uc.log.Error("failed to check existing email", zap.String("email", *in.Email), zap.Error(err))
			return nil, apperrors.NewInternalError("failed to validate email uniqueness", err)
		}
		if existing != nil && existing.ID != in.ID {
			uc.log.Warn("email already exists", zap.String("email", *in.Email), zap.Int64("existing_id", existing.ID))
			return nil, apperrors.NewAlreadyExistsError("user", userExistsMsg)
		}
	}

	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.Avatar != nil {
		u.Avatar = *in.Avatar
	}
	if in.Email != nil {
		u.Email = *in.Email
	}

	updated, err := uc.repo.Update(ctx, u)
	if err != nil {
		uc.log.Error("failed to update user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}

	return toResponse(updated), nil
}

// DeleteUser deletes a user by ID after checking it exists.
func (uc *Service) DeleteUser(ctx context.Context, in DeleteUserRequest) error {
	uc.log.Info("deleting user", zap.Int64("id", in.ID))

	if in.ID <= 0 {
		uc.log.Warn("delete user validation failed", zap.Int64("id", in.ID))
		return apperrors.NewValidationError("id", "invalid user id")
	}

	u, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		uc.log.Error("failed to load user for delete", zap.Int64("id", in.ID), zap.Error(err))
		return err
	}
	if u == nil {
		uc.log.Warn("user not found for delete", zap.Int64("id", in.ID))
		return apperrors.NewNotFoundError("user", userNotFoundMsg)
	}

	if err := uc.repo.Delete(ctx, in.ID); err != nil {
		uc.log.Error("failed to delete user", zap.Int64("id", in.ID), zap.Error(err))
		return err
	}

	return nil
}

// ListUsers retrieves all users, optionally narrowed by an equality filter
// on the display name. The full matching set is returned eagerly.
func (uc *Service) ListUsers(ctx context.Context, in ListUsersRequest) (*ListUsersResponse, error) {
	uc.log.Info("listing users", zap.String("name", in.Name))

	domainUsers, err := uc.repo.List(ctx, domain.Filter{Name: in.Name})
	if err != nil {
		uc.log.Error("failed to list users", zap.Error(err))
		return nil, err
	}

	users := make([]UserResponse, len(domainUsers))
	for i, du := range domainUsers {
		users[i] = *toResponse(&du)
	}

	return &ListUsersResponse{Users: users}, nil
}

func toResponse(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:     u.ID,
		Name:   u.Name,
		Avatar: u.Avatar,
		Email:  u.Email,
	}
}
