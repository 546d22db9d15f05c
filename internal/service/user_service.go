package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/commerce-services/internal/api/dto"
	"github.com/spec-kit/commerce-services/internal/auth"
	"github.com/spec-kit/commerce-services/internal/domain"
	"github.com/spec-kit/commerce-services/internal/mapper"
	"github.com/spec-kit/commerce-services/internal/repository"
	"github.com/spec-kit/commerce-services/pkg/apperror"
)

// Machine-parseable log codes, carried on warn/error lines for alert
// grouping. USR = user service, 0xx not-found, 1xx conflict.
const (
	logUserNotFound     = "USR-001"
	logUsernameConflict = "USR-100"
	logEmailConflict    = "USR-101"
)

// UserService enforces uniqueness invariants and applies partial/full field
// updates over the user repository.
type UserService struct {
	repo   repository.UserRepository
	tokens *auth.TokenManager
	log    *zap.Logger
}

// NewUserService constructs the service.
func NewUserService(repo repository.UserRepository, tokens *auth.TokenManager, logger *zap.Logger) *UserService {
	return &UserService{repo: repo, tokens: tokens, log: logger}
}

// Create registers a new user. The username is checked before the email; on
// a username conflict the email is never checked. The stored role is always
// CUSTOMER regardless of the request.
func (s *UserService) Create(ctx context.Context, req dto.UserCreateRequest) (dto.UserResponse, error) {
	s.log.Info("creating user", zap.String("username", req.Username), zap.String("email", req.Email))

	taken, err := s.repo.ExistsByUsername(ctx, req.Username, 0)
	if err != nil {
		return dto.UserResponse{}, err
	}
	if taken {
		s.log.Warn("registration rejected, username exists",
			zap.String("log_code", logUsernameConflict), zap.String("username", req.Username))
		return dto.UserResponse{}, apperror.Conflict("Username already in use")
	}

	taken, err = s.repo.ExistsByEmail(ctx, req.Email, 0)
	if err != nil {
		return dto.UserResponse{}, err
	}
	if taken {
		s.log.Warn("registration rejected, email exists",
			zap.String("log_code", logEmailConflict), zap.String("email", req.Email))
		return dto.UserResponse{}, apperror.Conflict("Email already associated")
	}

	user := mapper.NewUserFromCreate(req, time.Now().UTC())
	if err := s.repo.Create(ctx, user); err != nil {
		return dto.UserResponse{}, err
	}

	s.log.Info("user created", zap.Int64("id", user.ID), zap.String("username", user.Username))
	return mapper.UserResponse(user), nil
}

// List returns a page of users; out-of-range pages yield empty content with
// correct totals.
func (s *UserService) List(ctx context.Context, page domain.PageRequest) (domain.Page[dto.UserResponse], error) {
	users, total, err := s.repo.List(ctx, page)
	if err != nil {
		return domain.Page[dto.UserResponse]{}, err
	}

	content := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		content = append(content, mapper.UserResponse(&users[i]))
	}
	return domain.NewPage(content, total, page), nil
}

// GetByID returns the projection for one user.
func (s *UserService) GetByID(ctx context.Context, id int64) (dto.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.UserResponse{}, s.lookupErr(err, "User not found with provided ID", zap.Int64("id", id))
	}
	return mapper.UserResponse(user), nil
}

// GetByUsername returns the projection for one user.
func (s *UserService) GetByUsername(ctx context.Context, username string) (dto.UserResponse, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return dto.UserResponse{}, s.lookupErr(err,
			fmt.Sprintf("User not found with username : %s", username), zap.String("username", username))
	}
	return mapper.UserResponse(user), nil
}

// GetByEmail returns the projection for one user.
func (s *UserService) GetByEmail(ctx context.Context, email string) (dto.UserResponse, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return dto.UserResponse{}, s.lookupErr(err,
			fmt.Sprintf("User not found with email : %s", email), zap.String("email", email))
	}
	return mapper.UserResponse(user), nil
}

// Patch applies only the fields that are present and non-blank. An email
// equal to the current one (case-insensitively) is neither checked nor
// changed. An email conflict aborts the whole request: nothing is persisted
// because the save never runs. Every call that reaches the save refreshes
// updatedAt, even when no field changed.
func (s *UserService) Patch(ctx context.Context, id int64, req dto.UserPatchRequest) (dto.UserResponse, error) {
	s.log.Info("patching user", zap.Int64("id", id))

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.UserResponse{}, s.lookupErr(err, "User not found with provided ID", zap.Int64("id", id))
	}

	if hasText(req.FirstName) {
		user.FirstName = req.FirstName
	}
	if hasText(req.LastName) {
		user.LastName = req.LastName
	}
	if hasText(req.Phone) {
		user.Phone = req.Phone
	}
	if hasText(req.Email) && !strings.EqualFold(req.Email, user.Email) {
		taken, err := s.repo.ExistsByEmail(ctx, req.Email, 0)
		if err != nil {
			return dto.UserResponse{}, err
		}
		if taken {
			s.log.Warn("patch rejected, email exists",
				zap.String("log_code", logEmailConflict), zap.Int64("id", id), zap.String("email", req.Email))
			return dto.UserResponse{}, apperror.Conflict("Email already associated")
		}
		user.Email = req.Email
	}

	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		return dto.UserResponse{}, err
	}

	s.log.Info("user patched", zap.Int64("id", id))
	return mapper.UserResponse(user), nil
}

// Put replaces every mutable field. Uniqueness checks run before the target
// row is loaded (fail-fast, username before email) and exclude the target id
// so a no-op replacement never conflicts with itself.
func (s *UserService) Put(ctx context.Context, id int64, req dto.UserPutRequest) (dto.UserPutResponse, error) {
	s.log.Info("replacing user", zap.Int64("id", id), zap.String("username", req.Username))

	taken, err := s.repo.ExistsByUsername(ctx, req.Username, id)
	if err != nil {
		return dto.UserPutResponse{}, err
	}
	if taken {
		s.log.Warn("put rejected, username exists",
			zap.String("log_code", logUsernameConflict), zap.Int64("id", id), zap.String("username", req.Username))
		return dto.UserPutResponse{}, apperror.Conflict("Username already in use")
	}

	taken, err = s.repo.ExistsByEmail(ctx, req.Email, id)
	if err != nil {
		return dto.UserPutResponse{}, err
	}
	if taken {
		s.log.Warn("put rejected, email exists",
			zap.String("log_code", logEmailConflict), zap.Int64("id", id), zap.String("email", req.Email))
		return dto.UserPutResponse{}, apperror.Conflict("Email already associated")
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.UserPutResponse{}, s.lookupErr(err, "User not found with provided ID", zap.Int64("id", id))
	}

	mapper.ApplyUserPut(user, req, time.Now().UTC())
	if err := s.repo.Update(ctx, user); err != nil {
		return dto.UserPutResponse{}, err
	}

	s.log.Info("user replaced", zap.Int64("id", id))
	return mapper.UserPutResponse(user), nil
}

// Delete removes a user. Administrator accounts cannot be deleted.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return s.lookupErr(err, "User not found with provided ID", zap.Int64("id", id))
	}
	if user.Role == domain.RoleAdmin {
		s.log.Warn("delete rejected, target is an administrator", zap.Int64("id", id))
		return apperror.NotPermitted("Administrator accounts cannot be deleted")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("user deleted", zap.Int64("id", id))
	return nil
}

// Login verifies the credentials against the stored opaque password and
// issues a signed token. Inactive accounts cannot log in.
func (s *UserService) Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error) {
	user, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dto.LoginResponse{}, apperror.Unauthorized("Invalid credentials")
		}
		return dto.LoginResponse{}, err
	}
	if subtle.ConstantTimeCompare([]byte(user.Password), []byte(req.Password)) != 1 {
		return dto.LoginResponse{}, apperror.Unauthorized("Invalid credentials")
	}
	if !user.Active {
		return dto.LoginResponse{}, apperror.Unauthorized("Account is inactive")
	}

	token, expiresAt, err := s.tokens.GenerateToken(user)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	s.log.Info("user logged in", zap.Int64("id", user.ID), zap.String("username", user.Username))
	return dto.LoginResponse{Token: token, ExpiresAt: expiresAt}, nil
}

func (s *UserService) lookupErr(err error, message string, field zap.Field) error {
	if errors.Is(err, pgx.ErrNoRows) {
		s.log.Warn("user not found", zap.String("log_code", logUserNotFound), field)
		return apperror.NotFound(message)
	}
	return err
}

// hasText treats whitespace-only input as absent.
func hasText(value string) bool {
	return strings.TrimSpace(value) != ""
}
