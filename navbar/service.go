package navbar

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/fx"
	"gorm.io/datatypes"

	pandey "github.com/aagatsharma/pandey-computer"
	"github.com/aagatsharma/pandey-computer/catalog"
)

const maxNameLength = 100

type Service interface {
	pandey.Service[*NavbarItem]

	// Tree returns the active menu nested for the storefront.
	Tree(ctx context.Context) ([]*TreeNode, error)
}

type ServiceParams struct {
	fx.In

	DB      pandey.DBService
	Logger  pandey.LoggerService
	Store   Store
	Catalog catalog.Store
}

type service struct {
	repo    pandey.Repository[*NavbarItem]
	store   Store
	catalog catalog.Store
	logger  pandey.LoggerService
}

func NewService(params ServiceParams) Service {
	repo := pandey.NewRepository[*NavbarItem](params.DB, params.Logger,
		pandey.WithTableName[*NavbarItem]("navbar_items"),
		pandey.WithDefaultOrder[*NavbarItem]("level ASC, sort_order ASC, name ASC"),
	)

	return newService(repo, params.Store, params.Catalog, params.Logger)
}

func newService(repo pandey.Repository[*NavbarItem], store Store, cat catalog.Store, logger pandey.LoggerService) *service {
	return &service{repo: repo, store: store, catalog: cat, logger: logger}
}

func (s *service) List(ctx context.Context, query pandey.ListQuery) (pandey.Page[*NavbarItem], error) {
	page, err := s.repo.FindPage(ctx, query)
	if err != nil {
		return page, fmt.Errorf("failed to list navbar items: %w", err)
	}

	return page, nil
}

func (s *service) GetOne(ctx context.Context, itemID uint, scopes ...pandey.Scope) (*NavbarItem, error) {
	item, err := s.repo.FindOneByID(ctx, itemID, scopes...)
	if err != nil {
		return item, fmt.Errorf("failed to get navbar item: %w", err)
	}

	return item, nil
}

func (s *service) GetBySlug(ctx context.Context, slug string, scopes ...pandey.Scope) (*NavbarItem, error) {
	return nil, fmt.Errorf("%w: navbar items have no slug", pandey.ErrRecordNotFound)
}

// prepare checks the fields an item carries on its own and resolves the
// catalog document it points at.
func (s *service) prepare(ctx context.Context, item *NavbarItem) error {
	verr := pandey.NewValidationError()

	if !item.Type.Valid() {
		verr.Add("type", "must be one of category, brand, sub_category, sub_brand")
	}

	if item.RefID == 0 {
		verr.Add("refId", "is required")
	}

	if item.Level != 0 && (item.Level < MinLevel || item.Level > MaxLevel) {
		verr.Add("level", fmt.Sprintf("must be between %d and %d", MinLevel, MaxLevel))
	}

	if len(item.Name) > maxNameLength {
		verr.Add("name", fmt.Sprintf("must be at most %d characters", maxNameLength))
	}

	if err := verr.Err(); err != nil {
		return err
	}

	ref, err := s.catalog.Resolve(ctx, item.Type, item.RefID)
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: %s %d does not exist", pandey.ErrRecordNotFound, item.Type, item.RefID)
		}
		return err
	}

	if strings.TrimSpace(item.Name) == "" {
		item.Name = ref.Name
	}

	return nil
}

func (s *service) CreateOne(ctx context.Context, item *NavbarItem) (*NavbarItem, error) {
	if err := s.prepare(ctx, item); err != nil {
		return item, err
	}

	item.ID = 0
	item.Children = datatypes.JSONSlice[uint]{}

	err := s.store.Transaction(ctx, func(tx Store) error {
		all, err := tx.All(ctx)
		if err != nil {
			return err
		}

		f := newForest(all)

		if item.Level == 0 {
			item.Level = MinLevel
			if item.ParentID != nil {
				item.Level = MinLevel + 1
				if parent, ok := f.get(*item.ParentID); ok {
					item.Level = parent.Level + 1
				}
			}
		}

		if item.Level == MinLevel && item.ParentID != nil {
			return pandey.Invalid("parentId", "level 1 items cannot have a parent")
		}

		if item.Level > MinLevel && item.ParentID == nil {
			return pandey.Invalid("parentId", fmt.Sprintf("is required for level %d items", item.Level))
		}

		var parent *NavbarItem
		if item.ParentID != nil {
			var ok bool
			if parent, ok = f.get(*item.ParentID); !ok {
				return fmt.Errorf("%w: parent navbar item %d does not exist", pandey.ErrRecordNotFound, *item.ParentID)
			}

			if parent.Level != item.Level-1 {
				return pandey.Invalid("parentId", fmt.Sprintf("a level %d item needs a level %d parent", item.Level, item.Level-1))
			}
		}

		if item.Level > MaxLevel {
			return pandey.Invalid("level", fmt.Sprintf("must be between %d and %d", MinLevel, MaxLevel))
		}

		if f.duplicate(item.Type, item.RefID, item.ParentID, 0) {
			return fmt.Errorf("%w: %s %d is already linked here", pandey.ErrConflict, item.Type, item.RefID)
		}

		if err := tx.Create(ctx, item); err != nil {
			return err
		}

		if parent != nil {
			appendChild(parent, item.ID)
			return tx.Save(ctx, parent)
		}

		return nil
	})
	if err != nil {
		return item, err
	}

	s.logger.Info("Created navbar item", "item", item.ID, "level", item.Level)

	return item, nil
}

// UpdateOne saves item over the stored row. A new parent moves the whole
// subtree, shifting descendant levels.
func (s *service) UpdateOne(ctx context.Context, itemID uint, item *NavbarItem) (*NavbarItem, error) {
	item.ID = itemID
	item.Level = 0

	if err := s.prepare(ctx, item); err != nil {
		return item, err
	}

	err := s.store.Transaction(ctx, func(tx Store) error {
		all, err := tx.All(ctx)
		if err != nil {
			return err
		}

		f := newForest(all)

		current, ok := f.get(itemID)
		if !ok {
			return fmt.Errorf("%w: navbar item %d", pandey.ErrRecordNotFound, itemID)
		}

		var parent *NavbarItem
		level := MinLevel

		if item.ParentID != nil {
			parentID := *item.ParentID

			if parentID == itemID {
				return pandey.Invalid("parentId", "an item cannot be its own parent")
			}

			if parent, ok = f.get(parentID); !ok {
				return fmt.Errorf("%w: parent navbar item %d does not exist", pandey.ErrRecordNotFound, parentID)
			}

			if f.isDescendant(itemID, parentID) {
				return pandey.Invalid("parentId", "would create a circular reference")
			}

			level = parent.Level + 1
		}

		if level+f.height(itemID) > MaxLevel {
			return pandey.Invalid("parentId", fmt.Sprintf("the navbar is at most %d levels deep", MaxLevel))
		}

		if f.duplicate(item.Type, item.RefID, item.ParentID, itemID) {
			return fmt.Errorf("%w: %s %d is already linked here", pandey.ErrConflict, item.Type, item.RefID)
		}

		delta := level - current.Level

		item.Level = level
		item.Children = current.Children
		item.CreatedAt = current.CreatedAt

		changed := []*NavbarItem{item}

		if delta != 0 {
			for _, id := range f.descendants(itemID) {
				d := f.items[id]
				d.Level += delta
				changed = append(changed, d)
			}
		}

		if !sameParent(current.ParentID, item.ParentID) {
			if current.ParentID != nil {
				if old, ok := f.get(*current.ParentID); ok {
					removeChild(old, itemID)
					changed = append(changed, old)
				}
			}

			if parent != nil {
				appendChild(parent, itemID)
				changed = append(changed, parent)
			}
		}

		return tx.Save(ctx, changed...)
	})
	if err != nil {
		return item, err
	}

	return item, nil
}

// DeleteOne removes the item with its whole subtree.
func (s *service) DeleteOne(ctx context.Context, itemID uint) error {
	var removed int

	err := s.store.Transaction(ctx, func(tx Store) error {
		all, err := tx.All(ctx)
		if err != nil {
			return err
		}

		f := newForest(all)

		current, ok := f.get(itemID)
		if !ok {
			return fmt.Errorf("%w: navbar item %d", pandey.ErrRecordNotFound, itemID)
		}

		if current.ParentID != nil {
			if parent, ok := f.get(*current.ParentID); ok {
				removeChild(parent, itemID)
				if err := tx.Save(ctx, parent); err != nil {
					return err
				}
			}
		}

		ids := append([]uint{itemID}, f.descendants(itemID)...)
		removed = len(ids)

		return tx.Delete(ctx, ids...)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Deleted navbar subtree", "item", itemID, "removed", removed)

	return nil
}

func (s *service) Tree(ctx context.Context) ([]*TreeNode, error) {
	items, err := s.store.All(ctx)
	if err != nil {
		return nil, err
	}

	type refKey struct {
		kind catalog.Kind
		id   uint
	}

	refs := map[refKey]catalog.Ref{}
	slugs := map[uint]string{}

	for _, item := range items {
		if !item.IsActive {
			continue
		}

		key := refKey{item.Type, item.RefID}

		ref, ok := refs[key]
		if !ok {
			ref, err = s.catalog.Resolve(ctx, item.Type, item.RefID)
			if err != nil {
				if isNotFound(err) {
					s.logger.Warn("Navbar item points at a missing document", "item", item.ID, "type", item.Type, "ref", item.RefID)
					continue
				}
				return nil, err
			}
			refs[key] = ref
		}

		if ref.IsActive {
			slugs[item.ID] = ref.Slug
		}
	}

	return buildTree(items, slugs), nil
}
