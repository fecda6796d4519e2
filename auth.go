package pandey

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/render"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/fx"
)

type authContextkey int

const (
	AuthHeaderName = "Authorization"
)

const (
	userContextKey authContextkey = iota
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type User interface {
	Admin() bool
	ID() uint
}

type UserService interface {
	GetUserByID(ctx context.Context, userID uint) (User, error)
	GetUserByCredentials(ctx context.Context, email, password string) (User, error)
}

type Token struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Claims struct {
	jwt.RegisteredClaims

	Admin bool `json:"admin"`
}

func NewClaims(user User, issuer string, now time.Time, ttl time.Duration) *Claims {
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID()), 10),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Admin: user.Admin(),
	}
}

func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid subject: %w", err)
	}

	return uint(id), nil
}

type AuthService interface {
	AuthRequired() func(http.Handler) http.Handler
	AdminRequired() func(http.Handler) http.Handler
	OptionalAuth() func(http.Handler) http.Handler
	GetUserFromCtx(ctx context.Context) (User, error)
	IsAdmin(ctx context.Context) bool
	LoginUser(ctx context.Context, email, password string) (Token, error)
	IssueToken(user User) (Token, error)
}

type AuthServiceParams struct {
	fx.In

	Config      Config
	Logger      LoggerService
	UserService UserService
}

type AuthServiceResult struct {
	fx.Out

	AuthService AuthService
}

type authService struct {
	logger        LoggerService
	signingSecret string
	issuer        string
	ttl           time.Duration
	userService   UserService

	now func() time.Time
}

func NewAuthService(params AuthServiceParams) (AuthServiceResult, error) {
	var result AuthServiceResult

	result.AuthService = &authService{
		logger:        params.Logger,
		signingSecret: params.Config.JWTSecret,
		issuer:        params.Config.JWTIssuer,
		ttl:           params.Config.JWTTTL,
		userService:   params.UserService,
		now:           time.Now,
	}

	return result, nil
}

func (svc *authService) AuthRequired() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := svc.GetUserFromCtx(r.Context()); err == nil {
				next.ServeHTTP(w, r)
				return
			}

			user, err := svc.userFromRequest(r)
			if err != nil {
				render.Render(w, r, ErrUnauthorized(err))
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (svc *authService) AdminRequired() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			user, err := svc.GetUserFromCtx(ctx)
			if err != nil {
				render.Render(w, r, ErrUnauthorized(err))
				return
			}

			if !user.Admin() {
				render.Render(w, r, ErrForbiddenRequest(fmt.Errorf("user is not an admin")))
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches the user when a valid token is present and otherwise
// lets the request through anonymously.
func (svc *authService) OptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get(AuthHeaderName) == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := svc.userFromRequest(r)
			if err != nil {
				svc.logger.Debug("ignoring invalid token", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (svc *authService) GetUserFromCtx(ctx context.Context) (User, error) {
	user, ok := ctx.Value(userContextKey).(User)
	if !ok {
		return nil, fmt.Errorf("could not get user from context")
	}

	return user, nil
}

func (svc *authService) IsAdmin(ctx context.Context) bool {
	user, err := svc.GetUserFromCtx(ctx)
	return err == nil && user.Admin()
}

func (svc *authService) LoginUser(ctx context.Context, email, password string) (Token, error) {
	user, err := svc.userService.GetUserByCredentials(ctx, email, password)
	if err != nil {
		return Token{}, fmt.Errorf("failed to get user by credentials: %w", err)
	}

	token, err := svc.IssueToken(user)
	if err != nil {
		return Token{}, fmt.Errorf("failed to generate user token: %w", err)
	}

	svc.logger.Info("User logged in", "user", user.ID())

	return token, nil
}

func (svc *authService) IssueToken(user User) (Token, error) {
	claims := NewClaims(user, svc.issuer, svc.now(), svc.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(svc.signingSecret))
	if err != nil {
		return Token{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return Token{Token: tokenString, ExpiresAt: claims.ExpiresAt.Time}, nil
}

func (svc *authService) userFromRequest(r *http.Request) (User, error) {
	tokenString, err := getTokenStringFromAuthHeader(r)
	if err != nil {
		return nil, err
	}

	claims, err := svc.validateUserToken(tokenString)
	if err != nil {
		return nil, err
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, err
	}

	user, err := svc.userService.GetUserByID(r.Context(), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load token user: %w", err)
	}

	return user, nil
}

func (svc *authService) validateUserToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			return []byte(svc.signingSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuer(svc.issuer),
		jwt.WithTimeFunc(svc.now),
		jwt.WithExpirationRequired(),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

func getTokenStringFromAuthHeader(r *http.Request) (string, error) {
	authHeader := r.Header.Get(AuthHeaderName)

	if authHeader == "" {
		return "", fmt.Errorf("missing auth header")
	}

	tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok || tokenString == "" {
		return "", fmt.Errorf("malformed auth header")
	}

	return tokenString, nil
}
