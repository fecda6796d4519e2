package navbar

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	pandey "github.com/aagatsharma/pandey-computer"
	"github.com/aagatsharma/pandey-computer/catalog"
)

// Store persists navbar items. Mutations of the hierarchy always run through
// Transaction so sibling and parent rows change together.
type Store interface {
	Transaction(ctx context.Context, fn func(tx Store) error) error
	All(ctx context.Context) ([]*NavbarItem, error)
	Create(ctx context.Context, item *NavbarItem) error
	Save(ctx context.Context, items ...*NavbarItem) error
	Delete(ctx context.Context, ids ...uint) error
	Referenced(ctx context.Context, kind catalog.Kind, refID uint) (bool, error)
}

type gormStore struct {
	db pandey.DBService
	tx *gorm.DB
}

func NewStore(db pandey.DBService) Store {
	return &gormStore{db: db}
}

func (s *gormStore) session(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	if s.tx != nil {
		return s.tx, func() {}
	}

	return s.db.GetSession(ctx)
}

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	if s.tx != nil {
		return fn(s)
	}

	return s.db.Transaction(ctx, func(tx *gorm.DB) error {
		return fn(&gormStore{db: s.db, tx: tx})
	})
}

// All loads the whole table. Inside a transaction the rows stay locked until
// it ends.
func (s *gormStore) All(ctx context.Context) ([]*NavbarItem, error) {
	sesh, cancel := s.session(ctx)
	defer cancel()

	if s.tx != nil {
		sesh = sesh.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var items []*NavbarItem
	if err := sesh.Order("level ASC, sort_order ASC, id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to load navbar items: %w", err)
	}

	return items, nil
}

func (s *gormStore) Create(ctx context.Context, item *NavbarItem) error {
	sesh, cancel := s.session(ctx)
	defer cancel()

	if err := sesh.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create navbar item: %w", pandey.TranslateError(err))
	}

	return nil
}

func (s *gormStore) Save(ctx context.Context, items ...*NavbarItem) error {
	sesh, cancel := s.session(ctx)
	defer cancel()

	for _, item := range items {
		if err := sesh.Save(item).Error; err != nil {
			return fmt.Errorf("failed to save navbar item %d: %w", item.ID, pandey.TranslateError(err))
		}
	}

	return nil
}

func (s *gormStore) Delete(ctx context.Context, ids ...uint) error {
	if len(ids) == 0 {
		return nil
	}

	sesh, cancel := s.session(ctx)
	defer cancel()

	res := sesh.Delete(&NavbarItem{}, ids)
	if res.Error != nil {
		return fmt.Errorf("failed to delete navbar items: %w", pandey.TranslateError(res.Error))
	}

	if res.RowsAffected == 0 {
		return pandey.ErrRecordNotFound
	}

	return nil
}

func (s *gormStore) Referenced(ctx context.Context, kind catalog.Kind, refID uint) (bool, error) {
	sesh, cancel := s.session(ctx)
	defer cancel()

	var count int64

	err := sesh.Model(&NavbarItem{}).Where("type = ? AND ref_id = ?", kind, refID).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to count navbar references: %w", err)
	}

	return count > 0, nil
}

// referenceChecker blocks deleting catalog documents the navbar points at.
type referenceChecker struct {
	store Store
}

func NewReferenceChecker(store Store) catalog.ReferenceChecker {
	return &referenceChecker{store: store}
}

func (c *referenceChecker) Referenced(ctx context.Context, kind catalog.Kind, id uint) (bool, error) {
	return c.store.Referenced(ctx, kind, id)
}

func isNotFound(err error) bool {
	return errors.Is(err, pandey.ErrRecordNotFound)
}
