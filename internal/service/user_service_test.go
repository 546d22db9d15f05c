package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/spec-kit/commerce-services/internal/api/dto"
	"github.com/spec-kit/commerce-services/internal/auth"
	"github.com/spec-kit/commerce-services/internal/domain"
	"github.com/spec-kit/commerce-services/internal/service"
	"github.com/spec-kit/commerce-services/pkg/apperror"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string, excludeID int64) (bool, error) {
	args := m.Called(ctx, username, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	args := m.Called(ctx, email, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, page domain.PageRequest) ([]domain.User, int64, error) {
	args := m.Called(ctx, page)
	users, _ := args.Get(0).([]domain.User)
	return users, args.Get(1).(int64), args.Error(2)
}

func newUserService(repo *MockUserRepository) *service.UserService {
	tokens := auth.NewTokenManager("test-secret", 60)
	return service.NewUserService(repo, tokens, zap.NewNop())
}

func storedUser() *domain.User {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return &domain.User{
		ID:        7,
		Username:  "jdoe",
		Email:     "jdoe@example.com",
		Password:  "secret123",
		FirstName: "John",
		LastName:  "Doe",
		Phone:     "555-0100",
		Active:    true,
		Role:      domain.RoleCustomer,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestUserCreate_Success(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newUserService(repo)

	repo.On("ExistsByUsername", mock.Anything, "jdoe", int64(0)).Return(false, nil)
	repo.On("ExistsByEmail", mock.Anything, "jdoe@example.com", int64(0)).Return(false, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Role == domain.RoleCustomer &&
			u.Active &&
			!u.CreatedAt.IsZero() &&
			u.CreatedAt.Equal(u.UpdatedAt)
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.User).ID = 42
	}).Return(nil)

	resp, err := svc.Create(context.Background(), dto.UserCreateRequest{
		Username: "jdoe",
		Email:    "jdoe@example.com",
		Password: "secret123",
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, domain.RoleCustomer, resp.UserRole)
	repo.AssertExpectations(t)
}

func TestUserCreate_UsernameConflictSkipsEmailCheck(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newUserService(repo)

	repo.On("ExistsByUsername", mock.Anything, "jdoe", int64(0)).Return(true, nil)

	_, err := svc.Create(context.Background(), dto.UserCreateRequest{
		Username: "jdoe",
		Email:    "jdoe@example.com",
		Password: "secret123",
	})

	assert.True(t, apperror.IsCode(err, apperror.CodeConflict))
	assert.EqualError(t, err, "Username already in use")
	repo.AssertNotCalled(t, "ExistsByEmail", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserCreate_EmailConflict(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newUserService(repo)

	repo.On("ExistsByUsername", mock.Anything, "jdoe", int64(0)).Return(false, nil)
	repo.On("ExistsByEmail", mock.Anything, "jdoe@example.com", int64(0)).Return(true, nil)

	_, err := svc.Create(context.Background(), dto.UserCreateRequest{
		Username: "jdoe",
		Email:    "jdoe@example.com",
		Password: "secret123",
	})

	assert.True(t, apperror.IsCode(err, apperror.CodeConflict))
	assert.EqualError(t, err, "Email already associated")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserGetByID_NotFound(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newUserService(repo)

	repo.On("GetByID", mock.Anything, int64(999)).Return(nil, pgx.ErrNoRows)

	_, err := svc.GetByID(context.Background(), 999)

	assert.True(t, apperror.IsCode(err, apperror.CodeNotFound))
	assert.EqualError(t, err, "User not found with provided ID")
}

func TestUserGetByUsername_NotFoundMessage(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newUserService(repo)

	repo.On("GetByUsername", mock.Anything, "ghost").Return(nil, pgx.ErrNoRows)

	_, err := svc.GetByUsername(context.Background(), "ghost")

	assert.True(t, apperror.IsCode(err, apperror.CodeNotFound))
	assert.EqualError(t, err, "User not found with username : ghost")
}

func TestUserGetByEmail_NotFoundMessage(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newUserService(repo)

	repo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, pgx.ErrNoRows)

	_, err := svc.GetByEmail(context.Background(), "ghost@example.com")

	assert.True(t, apperror.IsCode(err, apperror.CodeNotFound))
	assert.EqualError(t, err, "User not found with email : ghost@example.com")
}

func TestUserPatch_EmptyPayloadStillSaves(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newUserService(repo)

	user := storedUser()
	before := user.UpdatedAt
	repo.On("GetByID", mock.Anything, int64(7)).Return(user, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.UpdatedAt.After(before) && u.FirstName == "John"
	})).Return(nil)

	resp, err := svc.Patch(context.Background(), 7, dto.UserPatchRequest{})

	assert.NoError(t, err)
	assert.Equal(t, "John", resp.FirstName)
	repo.AssertExpectations(t)
}

func TestUserPatch_BlankFieldsIgnored(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newUserService(repo)

	user := storedUser()
	repo.On("GetByID", mock.Anything, int64(7)).Return(user, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.Patch(context.Background(), 7, dto.UserPatchRequest{
		FirstName: "   ",
		LastName:  "Smith",
	})

	assert.NoError(t, err)
	assert.Equal(t, "John", resp.FirstName)
	assert.Equal(t, "Smith", resp.LastName)
	repo.AssertNotCalled(t, "ExistsByEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserPatch_SameEmailDifferentCaseSkipsCheck(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newUserService(repo)

	user := storedUser()
	repo.On("GetByID", mock.Anything, int64(7)).Return(user, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.Patch(context.Background(), 7, dto.UserPatchRequest{
		Email: "JDOE@example.com",
	})

	assert.NoError(t, err)
	assert.Equal(t, "jdoe@example.com", resp.Email)
	repo.AssertNotCalled(t, "ExistsByEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserPatch_EmailConflictAbortsEverything(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newUserService(repo)

	user := storedUser()
	repo.On("GetByID", mock.Anything, int64(7)).Return(user, nil)
	repo.On("ExistsByEmail", mock.Anything, "taken@example.com", int64(0)).Return(true, nil)

	_, err := svc.Patch(context.Background(), 7, dto.UserPatchRequest{
		FirstName: "Jane",
		Email:     "taken@example.com",
	})

	assert.True(t, apperror.IsCode(err, apperror.CodeConflict))
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUserPatch_UnknownID(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newUserService(repo)

	repo.On("GetByID", mock.Anything, int64(999)).Return(nil, pgx.ErrNoRows)

	_, err := svc.Patch(context.Background(), 999, dto.UserPatchRequest{FirstName: "Jane"})

	assert.True(t, apperror.IsCode(err, apperror.CodeNotFound))
}

func TestUserPut_KeepingOwnIdentityDoesNotConflict(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newUserService(repo)

	user := storedUser()
	repo.On("ExistsByUsername", mock.Anything, "jdoe", int64(7)).Return(false, nil)
	repo.On("ExistsByEmail", mock.Anything, "jdoe@example.com", int64(7)).Return(false, nil)
	repo.On("GetByID", mock.Anything, int64(7)).Return(user, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.Put(context.Background(), 7, dto.UserPutRequest{
		Username: "jdoe",
		Email:    "jdoe@example.com",
		Password: "newsecret1",
		Active:   false,
		UserRole: domain.RoleSeller,
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.RoleSeller, resp.UserRole)
	assert.False(t, resp.Active)
	assert.Equal(t, user.CreatedAt, resp.CreatedAt)
	repo.AssertExpectations(t)
}

func TestUserPut_UsernameConflictChecksNothingElse(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newUserService(repo)

	repo.On("ExistsByUsername", mock.Anything, "taken", int64(7)).Return(true, nil)

	_, err := svc.Put(context.Background(), 7, dto.UserPutRequest{
		Username: "taken",
		Email:    "jdoe@example.com",
		Password: "newsecret1",
		UserRole: domain.RoleCustomer,
	})

	assert.True(t, apperror.IsCode(err, apperror.CodeConflict))
	repo.AssertNotCalled(t, "ExistsByEmail", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestUserDelete_AdminForbidden(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newUserService(repo)

	admin := storedUser()
	admin.Role = domain.RoleAdmin
	repo.On("GetByID", mock.Anything, int64(7)).Return(admin, nil)

	err := svc.Delete(context.Background(), 7)

	assert.True(t, apperror.IsCode(err, apperror.CodeNotPermitted))
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestUserDelete_Success(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newUserService(repo)

	repo.On("GetByID", mock.Anything, int64(7)).Return(storedUser(), nil)
	repo.On("Delete", mock.Anything, int64(7)).Return(nil)

	err := svc.Delete(context.Background(), 7)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUserLogin_Success(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newUserService(repo)

	repo.On("GetByUsername", mock.Anything, "jdoe").Return(storedUser(), nil)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "jdoe", Password: "secret123"})

	assert.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.True(t, resp.ExpiresAt.After(time.Now()))
}

func TestUserLogin_WrongPassword(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newUserService(repo)

	repo.On("GetByUsername", mock.Anything, "jdoe").Return(storedUser(), nil)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "jdoe", Password: "nope"})

	assert.True(t, apperror.IsCode(err, apperror.CodeUnauthorized))
	assert.EqualError(t, err, "Invalid credentials")
}

func TestUserLogin_UnknownUserSameError(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newUserService(repo)

	repo.On("GetByUsername", mock.Anything, "ghost").Return(nil, pgx.ErrNoRows)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "ghost", Password: "whatever"})

	assert.True(t, apperror.IsCode(err, apperror.CodeUnauthorized))
	assert.EqualError(t, err, "Invalid credentials")
}

func TestUserLogin_InactiveAccount(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newUserService(repo)

	user := storedUser()
	user.Active = false
	repo.On("GetByUsername", mock.Anything, "jdoe").Return(user, nil)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "jdoe", Password: "secret123"})

	assert.True(t, apperror.IsCode(err, apperror.CodeUnauthorized))
	assert.EqualError(t, err, "Account is inactive")
}

func TestUserList_EmptyPageKeepsTotals(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newUserService(repo)

	page := domain.PageRequest{Page: 5, Size: 10, SortBy: "id"}
	repo.On("List", mock.Anything, page).Return([]domain.User{}, int64(23), nil)

	result, err := svc.List(context.Background(), page)

	assert.NoError(t, err)
	assert.Empty(t, result.Content)
	assert.Equal(t, int64(23), result.TotalElements)
	assert.Equal(t, 3, result.TotalPages)
	assert.Equal(t, 5, result.Number)
}
