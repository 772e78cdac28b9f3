package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"app/internal/auth"
	"app/internal/domain/model"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func doRequest(t *testing.T, mw echo.MiddlewareFunc, authz string) (*httptest.ResponseRecorder, *model.User) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var actor *model.User
	next := func(c echo.Context) error {
		actor, _ = ActorFromContext(c)
		return c.NoContent(http.StatusOK)
	}

	err := mw(next)(c)
	require.NoError(t, err)
	return rec, actor
}

func TestAuthJWT_ValidToken(t *testing.T) {
	tokens := auth.NewTokenService("test-secret")
	users := new(MockUserRepository)

	user := &model.User{ID: 7, Email: "maria@pizzaria.com", Active: true}
	users.On("FindByID", mock.Anything, int64(7)).Return(user, nil)

	token, err := tokens.Issue(7, 15*time.Minute)
	require.NoError(t, err)

	rec, actor := doRequest(t, AuthJWT(tokens, users), "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, actor)
	assert.Equal(t, int64(7), actor.ID)
}

func TestAuthJWT_MissingOrMalformedHeader(t *testing.T) {
	tokens := auth.NewTokenService("test-secret")
	users := new(MockUserRepository)
	mw := AuthJWT(tokens, users)

	for _, authz := range []string{"", "Basic abc", "Bearer", "Bearer "} {
		rec, actor := doRequest(t, mw, authz)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, actor)
	}
}

func TestAuthJWT_ExpiredToken(t *testing.T) {
	tokens := auth.NewTokenService("test-secret")
	users := new(MockUserRepository)

	token, err := tokens.Issue(7, -1*time.Second)
	require.NoError(t, err)

	rec, _ := doRequest(t, AuthJWT(tokens, users), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestAuthJWT_SubjectNoLongerExists(t *testing.T) {
	tokens := auth.NewTokenService("test-secret")
	users := new(MockUserRepository)
	users.On("FindByID", mock.Anything, int64(7)).Return(nil, nil)

	token, err := tokens.Issue(7, 15*time.Minute)
	require.NoError(t, err)

	rec, _ := doRequest(t, AuthJWT(tokens, users), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_InactiveUser(t *testing.T) {
	tokens := auth.NewTokenService("test-secret")
	users := new(MockUserRepository)
	users.On("FindByID", mock.Anything, int64(7)).
		Return(&model.User{ID: 7, Active: false}, nil)

	token, err := tokens.Issue(7, 15*time.Minute)
	require.NoError(t, err)

	rec, _ := doRequest(t, AuthJWT(tokens, users), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminGuard(t *testing.T) {
	e := echo.New()

	run := func(user *model.User) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if user != nil {
			c.Set(CtxUserKey, user)
		}

		next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
		err := AdminGuard()(next)(c)
		require.NoError(t, err)
		return rec
	}

	assert.Equal(t, http.StatusOK, run(&model.User{ID: 1, Admin: true}).Code)
	assert.Equal(t, http.StatusForbidden, run(&model.User{ID: 1}).Code)
	assert.Equal(t, http.StatusUnauthorized, run(nil).Code)
}
