package pandey

import (
	"context"
	"fmt"
	"reflect"

	"gorm.io/gorm"
)

type Repository[M Model] interface {
	FindOne(ctx context.Context, scopes ...Scope) (M, error)
	FindOneByID(ctx context.Context, itemID uint, scopes ...Scope) (M, error)
	FindOneBySlug(ctx context.Context, slug string, scopes ...Scope) (M, error)
	FindMany(ctx context.Context, query ListQuery) ([]M, error)
	FindPage(ctx context.Context, query ListQuery) (Page[M], error)
	Count(ctx context.Context, scopes ...Scope) (int64, error)
	Exists(ctx context.Context, scopes ...Scope) (bool, error)
	CreateOne(ctx context.Context, item M) error
	UpdateOne(ctx context.Context, itemID uint, item M) error
	DeleteOne(ctx context.Context, itemID uint) error
	TableName() string
}

type repository[M Model] struct {
	db     DBService
	logger LoggerService

	preloadTables []string
	tableName     string
	defaultOrder  string
}

type RepositoryOption[M Model] func(*repository[M])

func NewRepository[M Model](
	db DBService,
	logger LoggerService,
	opts ...RepositoryOption[M],
) Repository[M] {
	repo := &repository[M]{
		db:           db,
		logger:       logger,
		defaultOrder: "id DESC",
	}

	for _, opt := range opts {
		opt(repo)
	}

	return repo
}

func (r *repository[M]) preloads() Scope {
	return func(db *gorm.DB) *gorm.DB {
		for _, preload := range r.preloadTables {
			db = db.Preload(preload)
		}
		return db
	}
}

func (r *repository[M]) FindOne(ctx context.Context, scopes ...Scope) (M, error) {
	item := newModel[M]()

	err := r.db.FindOne(ctx, item, append([]Scope{r.preloads()}, scopes...)...)
	if err != nil {
		return item, fmt.Errorf("failed to find one %s: %w", r.tableName, err)
	}

	r.logger.Debug("Found one item", "item", item.GetID(), "table", r.tableName)

	return item, nil
}

func (r *repository[M]) FindOneByID(ctx context.Context, itemID uint, scopes ...Scope) (M, error) {
	return r.FindOne(ctx, append([]Scope{r.column("id", itemID)}, scopes...)...)
}

func (r *repository[M]) FindOneBySlug(ctx context.Context, slug string, scopes ...Scope) (M, error) {
	return r.FindOne(ctx, append([]Scope{r.column("slug", slug)}, scopes...)...)
}

func (r *repository[M]) FindMany(ctx context.Context, query ListQuery) ([]M, error) {
	var items []M

	if query.Order == "" {
		query.Order = r.defaultOrder
	}
	query.Scopes = append([]Scope{r.preloads()}, query.Scopes...)

	err := r.db.FindMany(ctx, &items, query)
	if err != nil {
		return nil, fmt.Errorf("failed to find many %s: %w", r.tableName, err)
	}

	r.logger.Debug("Found many items", "table", r.tableName, "count", len(items))

	return items, nil
}

func (r *repository[M]) FindPage(ctx context.Context, query ListQuery) (Page[M], error) {
	total, err := r.Count(ctx, query.Scopes...)
	if err != nil {
		return Page[M]{}, err
	}

	items, err := r.FindMany(ctx, query)
	if err != nil {
		return Page[M]{}, err
	}

	return NewPage(items, query, total), nil
}

func (r *repository[M]) Count(ctx context.Context, scopes ...Scope) (int64, error) {
	count, err := r.db.Count(ctx, newModel[M](), scopes...)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", r.tableName, err)
	}

	return count, nil
}

func (r *repository[M]) Exists(ctx context.Context, scopes ...Scope) (bool, error) {
	count, err := r.Count(ctx, scopes...)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *repository[M]) CreateOne(ctx context.Context, item M) error {
	err := r.db.CreateOne(ctx, item)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", r.tableName, err)
	}

	r.logger.Debug("Created one item", "item", item.GetID(), "table", r.tableName)

	return nil
}

func (r *repository[M]) UpdateOne(ctx context.Context, itemID uint, item M) error {
	if item.GetID() != itemID {
		return fmt.Errorf("failed to update %s: id mismatch %d != %d", r.tableName, item.GetID(), itemID)
	}

	err := r.db.SaveOne(ctx, item)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", r.tableName, err)
	}

	r.logger.Debug("Updated one item", "item", itemID, "table", r.tableName)

	return nil
}

func (r *repository[M]) DeleteOne(ctx context.Context, itemID uint) error {
	err := r.db.DeleteOne(ctx, itemID, newModel[M]())
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", r.tableName, err)
	}

	r.logger.Debug("Deleted one item", "item", itemID, "table", r.tableName)

	return nil
}

func (r *repository[M]) TableName() string {
	return r.tableName
}

func (r *repository[M]) qualify(column string) string {
	if r.tableName == "" {
		return column
	}

	return fmt.Sprintf("%s.%s", r.tableName, column)
}

func (r *repository[M]) column(name string, value any) Scope {
	return Where(r.qualify(name)+" = ?", value)
}

// Where is a Scope wrapping gorm's Where.
func Where(query any, args ...any) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(query, args...)
	}
}

func WithTableName[M Model](tableName string) RepositoryOption[M] {
	return func(r *repository[M]) {
		r.tableName = tableName
	}
}

func WithPreloadTables[M Model](preloadTables ...string) RepositoryOption[M] {
	return func(r *repository[M]) {
		r.preloadTables = preloadTables
	}
}

func WithDefaultOrder[M Model](order string) RepositoryOption[M] {
	return func(r *repository[M]) {
		r.defaultOrder = order
	}
}

// newModel allocates the value a pointer model type points to.
func newModel[M any]() M {
	var m M

	t := reflect.TypeOf(m)
	if t != nil && t.Kind() == reflect.Pointer {
		return reflect.New(t.Elem()).Interface().(M)
	}

	return m
}
