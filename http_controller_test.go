package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-router"
	"github.com/posware/go-auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestAuthController(t *testing.T, auther *MockHTTPAuthenticator, authenticator *MockAuthenticator) *auth.AuthController {
	t.Helper()
	return auth.NewAuthController(
		auth.WithControllerHTTPAuthenticator(auther),
		auth.WithControllerAuthenticator(authenticator),
		auth.WithControllerConfig(newMockConfig()),
	)
}

func bindLoginRequest(ctx *MockContext, payload auth.LoginRequest) {
	ctx.On("Bind", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		target := args.Get(0).(*auth.LoginRequest)
		*target = payload
	})
}

func captureJSON(ctx *MockContext, status int, dest *any) {
	ctx.On("JSON", status, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		*dest = args.Get(1)
	})
}

func TestLoginPost(t *testing.T) {
	t.Run("malformed body returns 400", func(t *testing.T) {
		auther := &MockHTTPAuthenticator{}
		ctrl := newTestAuthController(t, auther, &MockAuthenticator{})

		ctx := &MockContext{}
		ctx.On("Bind", mock.Anything).Return(errors.New("unexpected end of JSON input"))

		var body any
		captureJSON(ctx, router.StatusBadRequest, &body)

		err := ctrl.LoginPost(ctx)
		require.NoError(t, err)

		payload := body.(map[string]any)
		errBody := payload["error"].(map[string]any)
		assert.Equal(t, "Invalid request body", errBody["message"])
		auther.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
	})

	t.Run("validation failure returns 400 with field errors", func(t *testing.T) {
		auther := &MockHTTPAuthenticator{}
		ctrl := newTestAuthController(t, auther, &MockAuthenticator{})

		ctx := &MockContext{}
		bindLoginRequest(ctx, auth.LoginRequest{})

		var body any
		captureJSON(ctx, router.StatusBadRequest, &body)

		err := ctrl.LoginPost(ctx)
		require.NoError(t, err)

		payload := body.(map[string]any)
		errBody := payload["error"].(map[string]any)
		assert.Equal(t, "Invalid request body", errBody["message"])

		fields, ok := errBody["validation"].(map[string]string)
		require.True(t, ok)
		assert.NotEmpty(t, fields)
		auther.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
	})

	t.Run("credential rejection returns generic 401", func(t *testing.T) {
		auther := &MockHTTPAuthenticator{}
		ctrl := newTestAuthController(t, auther, &MockAuthenticator{})

		ctx := &MockContext{}
		bindLoginRequest(ctx, auth.LoginRequest{
			Identifier: "clerk@corner.example",
			Password:   "wrong-password",
		})

		auther.On("Login", mock.Anything, mock.Anything).
			Return(nil, auth.ErrIdentityNotFound).Once()

		var body any
		captureJSON(ctx, router.StatusUnauthorized, &body)

		err := ctrl.LoginPost(ctx)
		require.NoError(t, err)

		payload := body.(map[string]any)
		errBody := payload["error"].(map[string]any)
		assert.Equal(t, "Invalid credentials", errBody["message"])
		auther.AssertExpectations(t)
	})

	t.Run("store failure returns 500", func(t *testing.T) {
		auther := &MockHTTPAuthenticator{}
		ctrl := newTestAuthController(t, auther, &MockAuthenticator{})

		ctx := &MockContext{}
		bindLoginRequest(ctx, auth.LoginRequest{
			Identifier: "clerk@corner.example",
			Password:   "password12345",
		})

		auther.On("Login", mock.Anything, mock.Anything).
			Return(nil, errors.New("connection refused")).Once()

		var body any
		captureJSON(ctx, router.StatusInternalServerError, &body)

		err := ctrl.LoginPost(ctx)
		require.NoError(t, err)

		payload := body.(map[string]any)
		errBody := payload["error"].(map[string]any)
		assert.Equal(t, "Internal server error", errBody["message"])
		auther.AssertExpectations(t)
	})

	t.Run("success returns token, user, and tenant", func(t *testing.T) {
		auther := &MockHTTPAuthenticator{}
		ctrl := newTestAuthController(t, auther, &MockAuthenticator{})

		identity := &TestIdentity{
			id:         "user-1",
			email:      "clerk@corner.example",
			firstName:  "Ada",
			lastName:   "Reyes",
			role:       "cashier",
			tenantID:   "tenant-1",
			tenantName: "Corner Store",
		}

		expiresAt := time.Now().Add(time.Hour).Truncate(time.Second)
		auther.On("Login", mock.Anything, mock.Anything).
			Return(&auth.LoginResult{
				Token:     "signed.jwt.token",
				ExpiresAt: expiresAt,
				Identity:  identity,
			}, nil).Once()

		ctx := &MockContext{}
		bindLoginRequest(ctx, auth.LoginRequest{
			Identifier: "clerk@corner.example",
			Password:   "password12345",
		})

		var body any
		captureJSON(ctx, router.StatusOK, &body)

		err := ctrl.LoginPost(ctx)
		require.NoError(t, err)

		response, ok := body.(auth.LoginResponse)
		require.True(t, ok)
		assert.Equal(t, "signed.jwt.token", response.Token)
		assert.Equal(t, expiresAt.Unix(), response.ExpiresAt)
		assert.Equal(t, "user-1", response.User.ID)
		assert.Equal(t, "clerk@corner.example", response.User.Email)
		assert.Equal(t, "Ada", response.User.FirstName)
		assert.Equal(t, "Reyes", response.User.LastName)
		assert.Equal(t, "cashier", response.User.Role)
		assert.Equal(t, "tenant-1", response.Tenant.ID)
		assert.Equal(t, "Corner Store", response.Tenant.Name)
		auther.AssertExpectations(t)
	})
}

func TestLogOut(t *testing.T) {
	auther := &MockHTTPAuthenticator{}
	ctrl := newTestAuthController(t, auther, &MockAuthenticator{})

	ctx := &MockContext{}
	auther.On("Logout", mock.Anything).Once()

	var body any
	captureJSON(ctx, router.StatusOK, &body)

	err := ctrl.LogOut(ctx)
	require.NoError(t, err)

	payload := body.(map[string]any)
	assert.Equal(t, true, payload["success"])
	auther.AssertExpectations(t)
}

func meShowClaims(role string) jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"sub":    "clerk@corner.example",
		"uid":    "user-1",
		"tenant": "tenant-1",
		"role":   role,
		"iss":    "test-issuer",
		"aud":    "test:audience",
		"iat":    float64(now.Unix()),
		"exp":    float64(now.Add(time.Hour).Unix()),
	}
}

func TestMeShow(t *testing.T) {
	t.Run("resolves identity from validated token", func(t *testing.T) {
		auther := &MockHTTPAuthenticator{}
		authenticator := &MockAuthenticator{}
		ctrl := newTestAuthController(t, auther, authenticator)

		identity := &TestIdentity{
			id:         "user-1",
			email:      "clerk@corner.example",
			firstName:  "Ada",
			lastName:   "Reyes",
			role:       "cashier",
			tenantID:   "tenant-1",
			tenantName: "Corner Store",
		}

		ctx := &MockContext{}
		ctx.On("Locals", "user").Return(&jwt.Token{Claims: meShowClaims("cashier")})
		ctx.On("Context").Return(context.Background())

		authenticator.On("IdentityFromSession", mock.Anything, mock.MatchedBy(func(session auth.Session) bool {
			return session.GetUserID() == "user-1" && session.GetTenantID() == "tenant-1"
		})).Return(identity, nil).Once()

		var body any
		captureJSON(ctx, router.StatusOK, &body)

		err := ctrl.MeShow(ctx)
		require.NoError(t, err)

		payload := body.(map[string]any)
		user, ok := payload["user"].(auth.LoginResponseUser)
		require.True(t, ok)
		assert.Equal(t, "user-1", user.ID)
		assert.Equal(t, "cashier", user.Role)

		tenant, ok := payload["tenant"].(auth.LoginResponseTenant)
		require.True(t, ok)
		assert.Equal(t, "tenant-1", tenant.ID)
		assert.Equal(t, "Corner Store", tenant.Name)
		authenticator.AssertExpectations(t)
	})

	t.Run("missing session invokes auth error handler", func(t *testing.T) {
		auther := &MockHTTPAuthenticator{}
		authenticator := &MockAuthenticator{}
		ctrl := newTestAuthController(t, auther, authenticator)

		var handledErr error
		auther.On("MakeClientRouteAuthErrorHandler", false).
			Return(func(c router.Context, err error) error {
				handledErr = err
				return nil
			})

		ctx := &MockContext{}
		ctx.On("Locals", "user").Return(nil)

		err := ctrl.MeShow(ctx)
		require.NoError(t, err)
		assert.ErrorIs(t, handledErr, auth.ErrUnableToFindSession)
		authenticator.AssertNotCalled(t, "IdentityFromSession", mock.Anything, mock.Anything)
	})

	t.Run("non token locals value is rejected", func(t *testing.T) {
		auther := &MockHTTPAuthenticator{}
		authenticator := &MockAuthenticator{}
		ctrl := newTestAuthController(t, auther, authenticator)

		var handledErr error
		auther.On("MakeClientRouteAuthErrorHandler", false).
			Return(func(c router.Context, err error) error {
				handledErr = err
				return nil
			})

		ctx := &MockContext{}
		ctx.On("Locals", "user").Return("not-a-token")

		err := ctrl.MeShow(ctx)
		require.NoError(t, err)
		assert.ErrorIs(t, handledErr, auth.ErrUnableToDecodeSession)
	})

	t.Run("identity lookup failure returns 500", func(t *testing.T) {
		auther := &MockHTTPAuthenticator{}
		authenticator := &MockAuthenticator{}
		ctrl := newTestAuthController(t, auther, authenticator)

		ctx := &MockContext{}
		ctx.On("Locals", "user").Return(&jwt.Token{Claims: meShowClaims("cashier")})
		ctx.On("Context").Return(context.Background())

		authenticator.On("IdentityFromSession", mock.Anything, mock.Anything).
			Return(nil, errors.New("connection refused")).Once()

		var body any
		captureJSON(ctx, router.StatusInternalServerError, &body)

		err := ctrl.MeShow(ctx)
		require.NoError(t, err)

		payload := body.(map[string]any)
		errBody := payload["error"].(map[string]any)
		assert.Equal(t, "Internal server error", errBody["message"])
	})
}

func TestGetRouterSession(t *testing.T) {
	t.Run("maps token claims into a session", func(t *testing.T) {
		ctx := &MockContext{}
		ctx.On("Locals", "user").Return(&jwt.Token{Claims: meShowClaims("owner")})

		session, err := auth.GetRouterSession(ctx, "user")
		require.NoError(t, err)
		assert.Equal(t, "user-1", session.GetUserID())
		assert.Equal(t, "tenant-1", session.GetTenantID())
		assert.Equal(t, "owner", session.Data["role"])
	})

	t.Run("claims must be map claims", func(t *testing.T) {
		ctx := &MockContext{}
		ctx.On("Locals", "user").Return(&jwt.Token{Claims: &jwt.RegisteredClaims{}})

		_, err := auth.GetRouterSession(ctx, "user")
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrUnableToMapClaims)
	})
}

func TestFormatValidationErrorToMap(t *testing.T) {
	t.Run("nil error yields empty map", func(t *testing.T) {
		assert.Empty(t, auth.FormatValidationErrorToMap(nil))
	})

	t.Run("validation errors are keyed by field", func(t *testing.T) {
		err := validation.Errors{
			"email":    errors.New("cannot be blank"),
			"password": errors.New("cannot be blank"),
		}

		out := auth.FormatValidationErrorToMap(err)
		assert.Equal(t, "cannot be blank", out["email"])
		assert.Equal(t, "cannot be blank", out["password"])
	})

	t.Run("plain errors fall back to a generic key", func(t *testing.T) {
		out := auth.FormatValidationErrorToMap(errors.New("boom"))
		assert.Equal(t, "boom", out["error"])
	})
}
