package admin

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	pandey "github.com/aagatsharma/pandey-computer"
)

// accountRepo holds at most one account and ignores query scopes.
type accountRepo struct {
	pandey.Repository[*AdminUser]

	account *AdminUser
	created []*AdminUser
	updates int
}

func (r *accountRepo) FindOne(ctx context.Context, scopes ...pandey.Scope) (*AdminUser, error) {
	if r.account == nil {
		return nil, pandey.ErrRecordNotFound
	}

	c := *r.account
	return &c, nil
}

func (r *accountRepo) FindOneByID(ctx context.Context, id uint, scopes ...pandey.Scope) (*AdminUser, error) {
	if r.account == nil || r.account.ID != id {
		return nil, pandey.ErrRecordNotFound
	}

	c := *r.account
	return &c, nil
}

func (r *accountRepo) Exists(ctx context.Context, scopes ...pandey.Scope) (bool, error) {
	return r.account != nil, nil
}

func (r *accountRepo) CreateOne(ctx context.Context, a *AdminUser) error {
	a.ID = uint(len(r.created) + 1)
	r.created = append(r.created, a)
	r.account = a

	return nil
}

func (r *accountRepo) UpdateOne(ctx context.Context, id uint, a *AdminUser) error {
	r.updates++
	c := *a
	r.account = &c

	return nil
}

func testLogger() pandey.LoggerService {
	return pandey.NewLoggerFrom(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestService(t *testing.T, password string) (*service, *accountRepo) {
	t.Helper()

	repo := &accountRepo{}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		require.NoError(t, err)
		repo.account = &AdminUser{ID: 3, Email: "owner@pandey.com.np", PasswordHash: string(hash)}
	}

	svc := newService(repo, testLogger(), bcrypt.MinCost)
	svc.now = func() time.Time { return time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC) }

	return svc, repo
}

func TestGetUserByCredentials(t *testing.T) {
	svc, repo := newTestService(t, "correct horse")
	ctx := context.Background()

	user, err := svc.GetUserByCredentials(ctx, "Owner@Pandey.com.np", "correct horse")
	require.NoError(t, err)

	assert.Equal(t, uint(3), user.ID())
	assert.True(t, user.Admin())
	require.NotNil(t, repo.account.LastLoginAt)
	assert.Equal(t, 2026, repo.account.LastLoginAt.Year())

	_, err = svc.GetUserByCredentials(ctx, "owner@pandey.com.np", "wrong")
	assert.ErrorIs(t, err, pandey.ErrInvalidCredentials)

	repo.account = nil
	_, err = svc.GetUserByCredentials(ctx, "nobody@pandey.com.np", "correct horse")
	assert.ErrorIs(t, err, pandey.ErrInvalidCredentials)
}

func TestGetUserByID(t *testing.T) {
	svc, _ := newTestService(t, "correct horse")

	user, err := svc.GetUserByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, uint(3), user.ID())

	_, err = svc.GetUserByID(context.Background(), 4)
	assert.ErrorIs(t, err, pandey.ErrRecordNotFound)
}

func TestChangePassword(t *testing.T) {
	svc, repo := newTestService(t, "correct horse")
	ctx := context.Background()

	err := svc.ChangePassword(ctx, 3, "correct horse", "short")
	assert.ErrorIs(t, err, pandey.ErrValidation)

	err = svc.ChangePassword(ctx, 3, "wrong guess", "battery staple")
	assert.ErrorIs(t, err, pandey.ErrValidation)
	assert.Zero(t, repo.updates)

	require.NoError(t, svc.ChangePassword(ctx, 3, "correct horse", "battery staple"))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.account.PasswordHash), []byte("battery staple")))

	_, err = svc.GetUserByCredentials(ctx, "owner@pandey.com.np", "correct horse")
	assert.ErrorIs(t, err, pandey.ErrInvalidCredentials)
}

func TestEnsureAccount(t *testing.T) {
	svc, repo := newTestService(t, "")
	ctx := context.Background()

	_, err := svc.EnsureAccount(ctx, "owner@pandey.com.np", "short")
	assert.ErrorIs(t, err, pandey.ErrValidation)

	created, err := svc.EnsureAccount(ctx, " Owner@Pandey.com.np ", "correct horse")
	require.NoError(t, err)
	assert.True(t, created)

	require.Len(t, repo.created, 1)
	assert.Equal(t, "owner@pandey.com.np", repo.created[0].Email)
	assert.NotEqual(t, "correct horse", repo.created[0].PasswordHash)

	created, err = svc.EnsureAccount(ctx, "owner@pandey.com.np", "another password")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Len(t, repo.created, 1)
}
