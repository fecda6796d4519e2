package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/fx"
	"golang.org/x/crypto/bcrypt"

	pandey "github.com/aagatsharma/pandey-computer"
)

const (
	minPasswordLength = 8
	// bcrypt ignores anything past 72 bytes.
	maxPasswordLength = 72
)

// Service manages admin accounts and answers credential checks for the
// auth service.
type Service interface {
	pandey.UserService

	Get(ctx context.Context, id uint) (*AdminUser, error)
	ChangePassword(ctx context.Context, id uint, current, next string) error
	// EnsureAccount creates the account for email unless it already exists.
	EnsureAccount(ctx context.Context, email, password string) (bool, error)
}

type ServiceParams struct {
	fx.In

	DB     pandey.DBService
	Logger pandey.LoggerService
}

type ServiceResult struct {
	fx.Out

	Service     Service
	UserService pandey.UserService
}

type service struct {
	repo   pandey.Repository[*AdminUser]
	logger pandey.LoggerService
	cost   int
	now    func() time.Time
}

func NewService(params ServiceParams) ServiceResult {
	repo := pandey.NewRepository[*AdminUser](params.DB, params.Logger,
		pandey.WithTableName[*AdminUser]("admin_users"),
	)

	svc := newService(repo, params.Logger, bcrypt.DefaultCost)

	return ServiceResult{Service: svc, UserService: svc}
}

func newService(repo pandey.Repository[*AdminUser], logger pandey.LoggerService, cost int) *service {
	return &service{repo: repo, logger: logger, cost: cost, now: time.Now}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validatePassword(field, password string) error {
	switch {
	case len(password) < minPasswordLength:
		return pandey.Invalid(field, fmt.Sprintf("must be at least %d characters", minPasswordLength))
	case len(password) > maxPasswordLength:
		return pandey.Invalid(field, fmt.Sprintf("must be at most %d bytes", maxPasswordLength))
	}

	return nil
}

func (s *service) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

func (s *service) findByEmail(ctx context.Context, email string) (*AdminUser, error) {
	return s.repo.FindOne(ctx, pandey.Where("email = ?", normalizeEmail(email)))
}

func (s *service) GetUserByID(ctx context.Context, userID uint) (pandey.User, error) {
	account, err := s.repo.FindOneByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return principal(account.ID), nil
}

func (s *service) GetUserByCredentials(ctx context.Context, email, password string) (pandey.User, error) {
	account, err := s.findByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pandey.ErrRecordNotFound) {
			return nil, pandey.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, pandey.ErrInvalidCredentials
	}

	now := s.now().UTC()
	account.LastLoginAt = &now
	if err := s.repo.UpdateOne(ctx, account.ID, account); err != nil {
		s.logger.Warn("Failed to record login time", "account", account.ID, "error", err)
	}

	return principal(account.ID), nil
}

func (s *service) Get(ctx context.Context, id uint) (*AdminUser, error) {
	account, err := s.repo.FindOneByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return account, nil
}

func (s *service) ChangePassword(ctx context.Context, id uint, current, next string) error {
	if err := validatePassword("newPassword", next); err != nil {
		return err
	}

	account, err := s.repo.FindOneByID(ctx, id)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(current)) != nil {
		return pandey.Invalid("currentPassword", "is incorrect")
	}

	account.PasswordHash, err = s.hash(next)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateOne(ctx, account.ID, account); err != nil {
		return err
	}

	s.logger.Info("Changed admin password", "account", account.ID)

	return nil
}

func (s *service) EnsureAccount(ctx context.Context, email, password string) (bool, error) {
	email = normalizeEmail(email)

	exists, err := s.repo.Exists(ctx, pandey.Where("email = ?", email))
	if err != nil {
		return false, err
	}

	if exists {
		return false, nil
	}

	if err := validatePassword("password", password); err != nil {
		return false, err
	}

	hash, err := s.hash(password)
	if err != nil {
		return false, err
	}

	if err := s.repo.CreateOne(ctx, &AdminUser{Email: email, Name: "Admin", PasswordHash: hash}); err != nil {
		return false, err
	}

	return true, nil
}
