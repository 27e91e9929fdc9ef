package auth

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-router"
)

type Middleware interface {
	Impersonate(c router.Context, identifier string) error
	ProtectedRoute(cfg Config, errorHandler func(router.Context, error) error) router.MiddlewareFunc
}

func GetRouterSession(c router.Context, key string) (*SessionObject, error) {
	cookie := c.Locals(key)
	if cookie == nil {
		return nil, ErrUnableToFindSession
	}

	user, ok := cookie.(*jwt.Token)
	if user == nil || !ok {
		return nil, ErrUnableToDecodeSession
	}

	claims, ok := user.Claims.(jwt.MapClaims)
	if claims == nil || !ok {
		return nil, ErrUnableToMapClaims
	}

	return sessionFromClaims(claims)
}

// RegisterAuthRoutes mounts the JSON auth endpoints. The login route is
// public; everything else sits behind the token middleware.
func RegisterAuthRoutes[T any](app router.Router[T], opts ...AuthControllerOption) {
	controller := NewAuthController(opts...)

	app.
		Post(controller.Routes.Login, controller.LoginPost).
		SetName("auth-login.post")

	app.
		Post(controller.Routes.Logout, controller.LogOut).
		SetName("auth-logout.post")

	protected := controller.Auther.ProtectedRoute(
		controller.Config,
		controller.Auther.MakeClientRouteAuthErrorHandler(false),
	)

	app.
		Get(controller.Routes.Me, protected(controller.MeShow)).
		SetName("auth-me.get")
}

type AuthControllerRoutes struct {
	Login  string
	Logout string
	Me     string
}

type AuthController struct {
	Debug        bool
	Logger       Logger
	Repo         RepositoryManager
	Routes       *AuthControllerRoutes
	Auth         Authenticator
	Auther       HTTPAuthenticator
	Config       Config
	ErrorHandler router.ErrorHandler
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:       defLogger{},
		ErrorHandler: defaultErrHandler,
		Routes: &AuthControllerRoutes{
			Login:  "/auth/login",
			Logout: "/auth/logout",
			Me:     "/auth/me",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing HTTPAuthenticator in auth controller...")
	}

	if c.Auth == nil {
		panic("Missing Authenticator in auth controller...")
	}

	if c.Config == nil {
		panic("Missing Config in auth controller...")
	}

	return c
}

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithControllerAuthenticator(auth Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auth = auth
		return c
	}
}

func WithControllerHTTPAuthenticator(auther HTTPAuthenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithControllerConfig(cfg Config) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Config = cfg
		return c
	}
}

func WithControllerRepository(repo RepositoryManager) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Repo = repo
		return c
	}
}

// LoginRequest payload
type LoginRequest struct {
	Identifier string `form:"identifier" json:"email"`
	Password   string `form:"password" json:"password"`
	RememberMe bool   `form:"remember_me" json:"remember_me"`
}

// GetIdentifier returns the identifier
func (r LoginRequest) GetIdentifier() string {
	return r.Identifier
}

// GetPassword will return the password
func (r LoginRequest) GetPassword() string {
	return r.Password
}

// GetExtendedSession will return the remember me flag
func (r LoginRequest) GetExtendedSession() bool {
	return r.RememberMe
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Identifier,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// LoginResponse is the wire shape of a successful login.
type LoginResponse struct {
	Token     string              `json:"token"`
	ExpiresAt int64               `json:"expires_at"`
	User      LoginResponseUser   `json:"user"`
	Tenant    LoginResponseTenant `json:"tenant"`
}

type LoginResponseUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

type LoginResponseTenant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func loginResponseFromResult(result *LoginResult) LoginResponse {
	identity := result.Identity
	return LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt.Unix(),
		User: LoginResponseUser{
			ID:        identity.ID(),
			Email:     identity.Email(),
			FirstName: identity.FirstName(),
			LastName:  identity.LastName(),
			Role:      identity.Role(),
		},
		Tenant: LoginResponseTenant{
			ID:   identity.TenantID(),
			Name: identity.TenantName(),
		},
	}
}

// LoginPost handles credential submission. Every credential rejection maps
// to the same 401 body so callers cannot probe which accounts exist or why
// a given login was refused. Store failures surface as a plain 500.
func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("login parse payload: %s", err)
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"error": map[string]any{
				"message": "Invalid request body",
			},
		})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"error": map[string]any{
				"message":    "Invalid request body",
				"validation": FormatValidationErrorToMap(err),
			},
		})
	}

	result, err := a.Auther.Login(ctx, payload)
	if err != nil {
		if IsCredentialRejection(err) {
			return ctx.JSON(router.StatusUnauthorized, map[string]any{
				"error": map[string]any{
					"message": "Invalid credentials",
				},
			})
		}

		a.Logger.Error("login internal error: %s", err)
		return ctx.JSON(router.StatusInternalServerError, map[string]any{
			"error": map[string]any{
				"message": "Internal server error",
			},
		})
	}

	return ctx.JSON(router.StatusOK, loginResponseFromResult(result))
}

func (a *AuthController) LogOut(ctx router.Context) error {
	a.Auther.Logout(ctx)
	return ctx.JSON(router.StatusOK, map[string]any{
		"success": true,
	})
}

// MeShow resolves the authenticated user from the validated token.
func (a *AuthController) MeShow(ctx router.Context) error {
	session, err := GetRouterSession(ctx, a.contextKey())
	if err != nil {
		return a.Auther.MakeClientRouteAuthErrorHandler(false)(ctx, err)
	}

	identity, err := a.Auth.IdentityFromSession(ctx.Context(), session)
	if err != nil {
		a.Logger.Error("me lookup error: %s", err)
		return ctx.JSON(router.StatusInternalServerError, map[string]any{
			"error": map[string]any{
				"message": "Internal server error",
			},
		})
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"user": LoginResponseUser{
			ID:        identity.ID(),
			Email:     identity.Email(),
			FirstName: identity.FirstName(),
			LastName:  identity.LastName(),
			Role:      identity.Role(),
		},
		"tenant": LoginResponseTenant{
			ID:   identity.TenantID(),
			Name: identity.TenantName(),
		},
	})
}

func (a *AuthController) contextKey() string {
	if a.Config != nil {
		return a.Config.GetContextKey()
	}
	return "user"
}

// FormatValidationErrorToMap flattens validation errors into a field to
// message map suitable for JSON responses.
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for field, ferr := range verrs {
			if ferr != nil {
				out[field] = ferr.Error()
			}
		}
		return out
	}

	out["error"] = err.Error()
	return out
}

func defaultErrHandler(c router.Context, err error) error {
	return c.JSON(router.StatusInternalServerError, map[string]any{
		"error": map[string]any{
			"message": err.Error(),
		},
	})
}
