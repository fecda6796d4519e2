package order

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	pandey "github.com/aagatsharma/pandey-computer"
	"github.com/aagatsharma/pandey-computer/catalog"
)

// Store covers the writes that touch orders and product stock together.
type Store interface {
	Transaction(ctx context.Context, fn func(tx Store) error) error
	Products(ctx context.Context, ids []uint) (map[uint]*catalog.Product, error)
	// AdjustStock adds delta to a product's stock. It fails with ErrConflict
	// when stock would go negative.
	AdjustStock(ctx context.Context, productID uint, delta int) error
	FindOrder(ctx context.Context, id uint) (*Order, error)
	CreateOrder(ctx context.Context, o *Order) error
	SaveOrder(ctx context.Context, o *Order) error
	DeleteOrder(ctx context.Context, id uint) error
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

// locked adds FOR UPDATE inside a transaction.
func (s *gormStore) locked(db *gorm.DB) *gorm.DB {
	if s.tx == nil {
		return db
	}

	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	if s.tx != nil {
		return fn(s)
	}

	return s.db.Transaction(ctx, func(tx *gorm.DB) error {
		return fn(&gormStore{db: s.db, tx: tx})
	})
}

func (s *gormStore) Products(ctx context.Context, ids []uint) (map[uint]*catalog.Product, error) {
	out := make(map[uint]*catalog.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	sesh, cancel := s.session(ctx)
	defer cancel()

	var products []*catalog.Product
	if err := s.locked(sesh).Where("id IN ?", ids).Order("id ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	for _, p := range products {
		out[p.ID] = p
	}

	return out, nil
}

func (s *gormStore) AdjustStock(ctx context.Context, productID uint, delta int) error {
	sesh, cancel := s.session(ctx)
	defer cancel()

	res := sesh.Model(&catalog.Product{}).
		Where("id = ? AND stock + ? >= 0", productID, delta).
		UpdateColumn("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return fmt.Errorf("failed to adjust stock of product %d: %w", productID, res.Error)
	}

	if res.RowsAffected == 0 {
		if delta < 0 {
			return fmt.Errorf("%w: product %d is out of stock", pandey.ErrConflict, productID)
		}
		return fmt.Errorf("%w: product %d", pandey.ErrRecordNotFound, productID)
	}

	return nil
}

func (s *gormStore) FindOrder(ctx context.Context, id uint) (*Order, error) {
	sesh, cancel := s.session(ctx)
	defer cancel()

	var o Order
	if err := s.locked(sesh).First(&o, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", pandey.ErrRecordNotFound, id)
		}
		return nil, fmt.Errorf("failed to find order %d: %w", id, err)
	}

	return &o, nil
}

func (s *gormStore) CreateOrder(ctx context.Context, o *Order) error {
	sesh, cancel := s.session(ctx)
	defer cancel()

	if err := sesh.Create(o).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", pandey.TranslateError(err))
	}

	return nil
}

func (s *gormStore) SaveOrder(ctx context.Context, o *Order) error {
	sesh, cancel := s.session(ctx)
	defer cancel()

	if err := sesh.Save(o).Error; err != nil {
		return fmt.Errorf("failed to save order %d: %w", o.ID, pandey.TranslateError(err))
	}

	return nil
}

func (s *gormStore) DeleteOrder(ctx context.Context, id uint) error {
	sesh, cancel := s.session(ctx)
	defer cancel()

	res := sesh.Delete(&Order{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete order %d: %w", id, res.Error)
	}

	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: order %d", pandey.ErrRecordNotFound, id)
	}

	return nil
}
