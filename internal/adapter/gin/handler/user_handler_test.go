package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github-user-service/internal/usecase/user"
	apperrors "github-user-service/pkg/errors"
)

// MockUsecase is a mock implementation of the user.Usecase interface
type MockUsecase struct {
	mock.Mock
}

func (m *MockUsecase) CreateUser(ctx context.Context, in user.CreateUserRequest) (*user.UserResponse, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.UserResponse), args.Error(1)
}

func (m *MockUsecase) GetUser(ctx context.Context, in user.GetUserRequest) (*user.UserResponse, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.UserResponse), args.Error(1)
}

func (m *MockUsecase) UpdateUser(ctx context.Context, in user.UpdateUserRequest) (*user.UserResponse, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.UserResponse), args.Error(1)
}

func (m *MockUsecase) DeleteUser(ctx context.Context, in user.DeleteUserRequest) error {
	args := m.Called(ctx, in)
	return args.Error(0)
}

func (m *MockUsecase) ListUsers(ctx context.Context, in user.ListUsersRequest) (*user.ListUsersResponse, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.ListUsersResponse), args.Error(1)
}

func setupTestRouter(t *testing.T) (*gin.Engine, *MockUsecase) {
	gin.SetMode(gin.TestMode)

	uc := new(MockUsecase)
	h := NewUserHandler(uc, zaptest.NewLogger(t))

	router := gin.New()
	router.POST("/users", h.CreateUser)
	router.GET("/users", h.ListUsers)
	router.GET("/users/:id", h.GetUser)
	router.PUT("/users/:id", h.UpdateUser)
	router.DELETE("/users/:id", h.DeleteUser)
	return router, uc
}

func doRequest(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateUser_Created(t *testing.T) {
	router, uc := setupTestRouter(t)

	uc.On("CreateUser", mock.Anything, mock.MatchedBy(func(in user.CreateUserRequest) bool {
		return in.Username == "octocat" && in.Email == nil
	})).Return(&user.UserResponse{
		ID:     1,
		Name:   "monalisa octocat",
		Avatar: "https://github.com/images/error/octocat_happy.gif",
		Email:  "octocat@github.com",
	}, nil)

	w := doRequest(router, http.MethodPost, "/users", gin.H{"username": "octocat"})

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "octocat@github.com", resp.Email)
}

func TestCreateUser_WithEmailOverride(t *testing.T) {
	router, uc := setupTestRouter(t)

	uc.On("CreateUser", mock.Anything, mock.MatchedBy(func(in user.CreateUserRequest) bool {
		return in.Username == "octocat" && in.Email != nil && *in.Email == "octocat@github.com"
	})).Return(&user.UserResponse{ID: 1, Email: "octocat@github.com"}, nil)

	w := doRequest(router, http.MethodPost, "/users", gin.H{
		"username": "octocat",
		"email":    "octocat@github.com",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateUser_MissingUsername(t *testing.T) {
	router, uc := setupTestRouter(t)

	w := doRequest(router, http.MethodPost, "/users", gin.H{"email": "octocat@github.com"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	uc.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestCreateUser_EmailRequiredMapsTo400(t *testing.T) {
	router, uc := setupTestRouter(t)

	uc.On("CreateUser", mock.Anything, mock.Anything).Return(nil,
		apperrors.NewValidationError("email", "email is required"))

	w := doRequest(router, http.MethodPost, "/users", gin.H{"username": "octocat"})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "validation_error", resp.Error)
}

func TestCreateUser_ConflictMapsTo409(t *testing.T) {
	router, uc := setupTestRouter(t)

	uc.On("CreateUser", mock.Anything, mock.Anything).Return(nil,
		apperrors.NewAlreadyExistsError("user", "a user with this email address already exists"))

	w := doRequest(router, http.MethodPost, "/users", gin.H{"username": "octocat"})

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "already_exists", resp.Error)
}

func TestCreateUser_GithubNotFoundMapsTo404(t *testing.T) {
	router, uc := setupTestRouter(t)

	uc.On("CreateUser", mock.Anything, mock.Anything).Return(nil,
		apperrors.NewNotFoundError("github user", "user not found in the github api; change the username and retry"))

	w := doRequest(router, http.MethodPost, "/users", gin.H{"username": "nosuchuser"})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateUser_UpstreamFailureMapsTo502(t *testing.T) {
	router, uc := setupTestRouter(t)

	uc.On("CreateUser", mock.Anything, mock.Anything).Return(nil,
		apperrors.NewUpstreamError("github api returned status 503", nil))

	w := doRequest(router, http.MethodPost, "/users", gin.H{"username": "octocat"})

	assert.Equal(t, http.StatusBadGateway, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "upstream_error", resp.Error)
}

func TestCreateUser_UnclassifiedErrorMapsTo500(t *testing.T) {
	router, uc := setupTestRouter(t)

	uc.On("CreateUser", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	w := doRequest(router, http.MethodPost, "/users", gin.H{"username": "octocat"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	// Internal details must not leak to the client
	assert.Equal(t, "an internal error occurred", resp.Message)
}

func TestGetUser_OK(t *testing.T) {
	router, uc := setupTestRouter(t)

	uc.On("GetUser", mock.Anything, user.GetUserRequest{ID: 1}).Return(&user.UserResponse{
		ID:    1,
		Name:  "monalisa octocat",
		Email: "octocat@github.com",
	}, nil)

	w := doRequest(router, http.MethodGet, "/users/1", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "monalisa octocat", resp.Name)
}

func TestGetUser_NotFound(t *testing.T) {
	router, uc := setupTestRouter(t)

	uc.On("GetUser", mock.Anything, user.GetUserRequest{ID: 999}).Return(nil,
		apperrors.NewNotFoundError("user", "user not found"))

	w := doRequest(router, http.MethodGet, "/users/999", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetUser_InvalidID(t *testing.T) {
	router, uc := setupTestRouter(t)

	w := doRequest(router, http.MethodGet, "/users/abc", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	uc.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
}

func TestListUsers_OK(t *testing.T) {
	router, uc := setupTestRouter(t)

	uc.On("ListUsers", mock.Anything, user.ListUsersRequest{}).Return(&user.ListUsersResponse{
		Users: []user.UserResponse{
			{ID: 1, Name: "monalisa octocat", Email: "octocat@github.com"},
			{ID: 2, Name: "defunkt", Email: "defunkt@example.com"},
		},
	}, nil)

	w := doRequest(router, http.MethodGet, "/users", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
}

func TestListUsers_NameFilterPassedThrough(t *testing.T) {
	router, uc := setupTestRouter(t)

	uc.On("ListUsers", mock.Anything, user.ListUsersRequest{Name: "defunkt"}).Return(&user.ListUsersResponse{
		Users: []user.UserResponse{{ID: 2, Name: "defunkt", Email: "defunkt@example.com"}},
	}, nil)

	w := doRequest(router, http.MethodGet, "/users?name=defunkt", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	uc.AssertExpectations(t)
}

func TestUpdateUser_OK(t *testing.T) {
	router, uc := setupTestRouter(t)

	uc.On("UpdateUser", mock.Anything, mock.MatchedBy(func(in user.UpdateUserRequest) bool {
		return in.ID == 1 && in.Name != nil && *in.Name == "The Octocat" &&
			in.Avatar == nil && in.Email == nil
	})).Return(&user.UserResponse{ID: 1, Name: "The Octocat", Email: "octocat@github.com"}, nil)

	w := doRequest(router, http.MethodPut, "/users/1", gin.H{"name": "The Octocat"})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "The Octocat", resp.Name)
}

func TestUpdateUser_NotFound(t *testing.T) {
	router, uc := setupTestRouter(t)

	uc.On("UpdateUser", mock.Anything, mock.Anything).Return(nil,
		apperrors.NewNotFoundError("user", "user not found"))

	w := doRequest(router, http.MethodPut, "/users/42", gin.H{"name": "ghost"})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateUser_InvalidEmail(t *testing.T) {
	router, uc := setupTestRouter(t)

	w := doRequest(router, http.MethodPut, "/users/1", gin.H{"email": "not-an-email"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	uc.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything)
}

func TestDeleteUser_NoContent(t *testing.T) {
	router, uc := setupTestRouter(t)

	uc.On("DeleteUser", mock.Anything, user.DeleteUserRequest{ID: 1}).Return(nil)

	w := doRequest(router, http.MethodDelete, "/users/1", nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

func TestDeleteUser_NotFound(t *testing.T) {
	router, uc := setupTestRouter(t)

	uc.On("DeleteUser", mock.Anything, user.DeleteUserRequest{ID: 404}).Return(
		apperrors.NewNotFoundError("user", "user not found"))

	w := doRequest(router, http.MethodDelete, "/users/404", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
