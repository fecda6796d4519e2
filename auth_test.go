package pandey

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testUser struct {
	id    uint
	admin bool
}

func (u testUser) Admin() bool { return u.admin }

func (u testUser) ID() uint { return u.id }

type fakeUsers struct {
	users    map[uint]testUser
	password string
}

func (f *fakeUsers) GetUserByID(ctx context.Context, userID uint) (User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, ErrRecordNotFound
	}

	return u, nil
}

func (f *fakeUsers) GetUserByCredentials(ctx context.Context, email, password string) (User, error) {
	if email != "owner@example.com" || password != f.password {
		return nil, ErrInvalidCredentials
	}

	return f.users[1], nil
}

var authNow = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

func testLogger() LoggerService {
	return NewLoggerFrom(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestAuth() *authService {
	return &authService{
		logger:        testLogger(),
		signingSecret: "test-secret",
		issuer:        "pandey-test",
		ttl:           time.Hour,
		userService: &fakeUsers{
			users:    map[uint]testUser{1: {id: 1, admin: true}, 2: {id: 2}},
			password: "hunter22",
		},
		now: func() time.Time { return authNow },
	}
}

func bearer(t *testing.T, svc *authService, user User) string {
	t.Helper()

	token, err := svc.IssueToken(user)
	require.NoError(t, err)

	return "Bearer " + token.Token
}

func TestIssueAndValidateToken(t *testing.T) {
	svc := newTestAuth()

	token, err := svc.IssueToken(testUser{id: 1, admin: true})
	require.NoError(t, err)
	assert.Equal(t, authNow.Add(time.Hour), token.ExpiresAt)

	claims, err := svc.validateUserToken(token.Token)
	require.NoError(t, err)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(1), id)
	assert.True(t, claims.Admin)
	assert.Equal(t, "pandey-test", claims.Issuer)
}

func TestValidateTokenRejects(t *testing.T) {
	svc := newTestAuth()

	token, err := svc.IssueToken(testUser{id: 1, admin: true})
	require.NoError(t, err)

	later := newTestAuth()
	later.now = func() time.Time { return authNow.Add(2 * time.Hour) }
	_, err = later.validateUserToken(token.Token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	other := newTestAuth()
	other.issuer = "someone-else"
	_, err = other.validateUserToken(token.Token)
	assert.Error(t, err)

	forged := newTestAuth()
	forged.signingSecret = "not-the-secret"
	_, err = forged.validateUserToken(token.Token)
	assert.Error(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, NewClaims(testUser{id: 1, admin: true}, "pandey-test", authNow, time.Hour))
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.validateUserToken(unsigned)
	assert.Error(t, err)
}

func serveAuth(h http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(AuthHeaderName, header)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestAuthMiddleware(t *testing.T) {
	svc := newTestAuth()

	var seen User
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = svc.GetUserFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	required := svc.AuthRequired()(ok)
	admin := svc.AuthRequired()(svc.AdminRequired()(ok))
	optional := svc.OptionalAuth()(ok)

	assert.Equal(t, http.StatusUnauthorized, serveAuth(required, "").Code)
	assert.Equal(t, http.StatusUnauthorized, serveAuth(required, "Token abc").Code)
	assert.Equal(t, http.StatusUnauthorized, serveAuth(required, "Bearer abc").Code)

	rec := serveAuth(required, bearer(t, svc, testUser{id: 2}))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, uint(2), seen.ID())

	assert.Equal(t, http.StatusForbidden, serveAuth(admin, bearer(t, svc, testUser{id: 2})).Code)
	assert.Equal(t, http.StatusOK, serveAuth(admin, bearer(t, svc, testUser{id: 1, admin: true})).Code)

	// The token names a user that no longer exists.
	assert.Equal(t, http.StatusUnauthorized, serveAuth(required, bearer(t, svc, testUser{id: 9})).Code)

	seen = nil
	assert.Equal(t, http.StatusOK, serveAuth(optional, "Bearer garbage").Code)
	assert.Nil(t, seen)

	assert.Equal(t, http.StatusOK, serveAuth(optional, bearer(t, svc, testUser{id: 1, admin: true})).Code)
	require.NotNil(t, seen)
	assert.True(t, seen.Admin())
}

func TestLoginUser(t *testing.T) {
	svc := newTestAuth()
	ctx := context.Background()

	token, err := svc.LoginUser(ctx, "owner@example.com", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, token.Token)

	_, err = svc.LoginUser(ctx, "owner@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestIsAdmin(t *testing.T) {
	svc := newTestAuth()

	assert.False(t, svc.IsAdmin(context.Background()))
	assert.True(t, svc.IsAdmin(context.WithValue(context.Background(), userContextKey, User(testUser{id: 1, admin: true}))))
	assert.False(t, svc.IsAdmin(context.WithValue(context.Background(), userContextKey, User(testUser{id: 2}))))
}
