package pandey

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/fx"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type DBService interface {
	CreateOne(ctx context.Context, record interface{}) error
	SaveOne(ctx context.Context, record interface{}) error
	DeleteOne(ctx context.Context, recordID uint, record interface{}) error
	FindOne(ctx context.Context, result interface{}, scopes ...Scope) error
	FindMany(ctx context.Context, result interface{}, query ListQuery) error
	Count(ctx context.Context, model interface{}, scopes ...Scope) (int64, error)
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error

	GetSession(ctx context.Context) (*gorm.DB, context.CancelFunc)
	Migrate(ctx context.Context) error
	DropAll(ctx context.Context) error
}

const (
	DefaultQueryTimeout = 5 * time.Second
)

type DBServiceParams struct {
	fx.In

	Config Config
	Logger LoggerService
	Models []any `group:"models"`
}

type DbServiceResult struct {
	fx.Out

	DBService DBService
}

type dbService struct {
	db      *gorm.DB
	timeout time.Duration

	models []interface{}
}

// ProvideModels registers models for auto migration.
func ProvideModels(models ...any) fx.Option {
	return fx.Provide(fx.Annotate(
		func() []any { return models },
		fx.ResultTags(`group:"models,flatten"`),
	))
}

func NewDBService(params DBServiceParams) (DbServiceResult, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  params.Config.DatabaseURL,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return DbServiceResult{}, fmt.Errorf("open database: %w", err)
	}

	srv := NewDBServiceFromGorm(db, params.Config.QueryTimeout, params.Models...)

	if params.Config.AutoMigrate {
		if err := srv.Migrate(context.Background()); err != nil {
			return DbServiceResult{}, err
		}
		params.Logger.Info("Migrated models", "count", len(params.Models))
	}

	return DbServiceResult{DBService: srv}, nil
}

// NewDBServiceFromGorm wraps an already opened connection.
func NewDBServiceFromGorm(db *gorm.DB, timeout time.Duration, models ...any) DBService {
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}

	return &dbService{
		db:      db,
		timeout: timeout,
		models:  models,
	}
}

func (srv *dbService) CreateOne(ctx context.Context, record interface{}) error {
	sesh, cancel := srv.GetSession(ctx)
	defer cancel()

	createResult := sesh.Omit(clause.Associations).Create(record)
	if createResult.Error != nil {
		return fmt.Errorf("create one failed: %w", TranslateError(createResult.Error))
	}

	return nil
}

// SaveOne writes every column of record, including zero values.
func (srv *dbService) SaveOne(ctx context.Context, record interface{}) error {
	sesh, cancel := srv.GetSession(ctx)
	defer cancel()

	saveResult := sesh.Omit(clause.Associations).Save(record)
	if saveResult.Error != nil {
		return fmt.Errorf("save one failed: %w", TranslateError(saveResult.Error))
	}

	return nil
}

func (srv *dbService) DeleteOne(ctx context.Context, recordID uint, record interface{}) error {
	sesh, cancel := srv.GetSession(ctx)
	defer cancel()

	deleteResult := sesh.Delete(record, recordID)
	if deleteResult.Error != nil {
		return fmt.Errorf("delete one failed: %w", TranslateError(deleteResult.Error))
	}

	if deleteResult.RowsAffected == 0 {
		return ErrRecordNotFound
	}

	return nil
}

func (srv *dbService) FindOne(ctx context.Context, result interface{}, scopes ...Scope) error {
	sesh, cancel := srv.GetSession(ctx)
	defer cancel()

	queryResult := sesh.Scopes(scopes...).First(result)
	if queryResult.Error != nil {
		if errors.Is(queryResult.Error, gorm.ErrRecordNotFound) {
			return ErrRecordNotFound
		}

		return fmt.Errorf("find one failed: %w", queryResult.Error)
	}

	return nil
}

func (srv *dbService) FindMany(ctx context.Context, result interface{}, query ListQuery) error {
	sesh, cancel := srv.GetSession(ctx)
	defer cancel()

	sesh = sesh.Scopes(query.Scopes...)

	if query.Order != "" {
		sesh = sesh.Order(query.Order)
	}

	if query.Limit > 0 {
		sesh = sesh.Offset(query.Offset()).Limit(query.Limit)
	}

	queryResult := sesh.Find(result)
	if queryResult.Error != nil {
		return fmt.Errorf("find many failed: %w", queryResult.Error)
	}

	return nil
}

func (srv *dbService) Count(ctx context.Context, model interface{}, scopes ...Scope) (int64, error) {
	sesh, cancel := srv.GetSession(ctx)
	defer cancel()

	var count int64

	countResult := sesh.Model(model).Scopes(scopes...).Count(&count)
	if countResult.Error != nil {
		return 0, fmt.Errorf("count failed: %w", countResult.Error)
	}

	return count, nil
}

// Transaction runs fn in a single database transaction. Returning an error
// from fn rolls it back.
func (srv *dbService) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	sesh, cancel := srv.GetSession(ctx)
	defer cancel()

	return TranslateError(sesh.Transaction(fn))
}

func (srv *dbService) Migrate(ctx context.Context) error {
	// gorm orders the models by their foreign keys when given all at once.
	if err := srv.db.WithContext(ctx).AutoMigrate(srv.models...); err != nil {
		return fmt.Errorf("migrate failed: %w", err)
	}

	return nil
}

func (srv *dbService) DropAll(ctx context.Context) error {
	sesh, cancel := srv.GetSession(ctx)
	defer cancel()

	for _, model := range srv.models {
		err := sesh.Migrator().DropTable(model)
		if err != nil {
			return fmt.Errorf("drop all failed: %w", err)
		}
	}

	return nil
}

func (srv *dbService) GetSession(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	timeoutCtx, cancel := context.WithTimeout(ctx, srv.timeout)

	return srv.db.Session(&gorm.Session{
		Context: timeoutCtx,
	}), cancel
}

// TranslateError maps gorm errors onto the package sentinels.
func TranslateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: duplicate value", ErrConflict)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: record is still referenced", ErrConflict)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrRecordNotFound
	default:
		return err
	}
}
