package pandey

import (
	"context"
	"fmt"
)

type Service[M Resource] interface {
	List(ctx context.Context, query ListQuery) (Page[M], error)
	GetOne(ctx context.Context, itemID uint, scopes ...Scope) (M, error)
	GetBySlug(ctx context.Context, slug string, scopes ...Scope) (M, error)
	CreateOne(ctx context.Context, item M) (M, error)
	UpdateOne(ctx context.Context, itemID uint, item M) (M, error)
	DeleteOne(ctx context.Context, itemID uint) error
}

// SaveHook runs before an item is created (existing is false) or updated.
type SaveHook[M Resource] func(ctx context.Context, item M, existing bool) error

// DeleteHook runs before an item is deleted and may veto it.
type DeleteHook[M Resource] func(ctx context.Context, item M) error

type service[M Resource] struct {
	repo Repository[M]

	listScopes []Scope
	getScopes  []Scope

	beforeSave   []SaveHook[M]
	beforeDelete []DeleteHook[M]
}

type ServiceOption[M Resource] func(*service[M])

func NewService[M Resource](
	repo Repository[M],
	opts ...ServiceOption[M],
) Service[M] {
	svc := &service[M]{
		repo: repo,
	}

	for _, opt := range opts {
		opt(svc)
	}

	return svc
}

func (s *service[M]) List(ctx context.Context, query ListQuery) (Page[M], error) {
	query.Scopes = append(append([]Scope{}, s.listScopes...), query.Scopes...)

	page, err := s.repo.FindPage(ctx, query)
	if err != nil {
		return page, fmt.Errorf("failed to list items: %w", err)
	}

	return page, nil
}

func (s *service[M]) GetOne(ctx context.Context, itemID uint, scopes ...Scope) (M, error) {
	item, err := s.repo.FindOneByID(ctx, itemID, append(append([]Scope{}, s.getScopes...), scopes...)...)
	if err != nil {
		return item, fmt.Errorf("failed to get item: %w", err)
	}

	return item, nil
}

func (s *service[M]) GetBySlug(ctx context.Context, slug string, scopes ...Scope) (M, error) {
	item, err := s.repo.FindOneBySlug(ctx, slug, append(append([]Scope{}, s.getScopes...), scopes...)...)
	if err != nil {
		return item, fmt.Errorf("failed to get item by slug: %w", err)
	}

	return item, nil
}

func (s *service[M]) CreateOne(ctx context.Context, item M) (M, error) {
	for _, hook := range s.beforeSave {
		if err := hook(ctx, item, false); err != nil {
			return item, err
		}
	}

	err := s.repo.CreateOne(ctx, item)
	if err != nil {
		return item, fmt.Errorf("failed to create item: %w", err)
	}

	return item, nil
}

func (s *service[M]) UpdateOne(ctx context.Context, itemID uint, item M) (M, error) {
	for _, hook := range s.beforeSave {
		if err := hook(ctx, item, true); err != nil {
			return item, err
		}
	}

	err := s.repo.UpdateOne(ctx, itemID, item)
	if err != nil {
		return item, fmt.Errorf("failed to update item: %w", err)
	}

	return item, nil
}

func (s *service[M]) DeleteOne(ctx context.Context, itemID uint) error {
	if len(s.beforeDelete) > 0 {
		item, err := s.GetOne(ctx, itemID)
		if err != nil {
			return err
		}

		for _, hook := range s.beforeDelete {
			if err := hook(ctx, item); err != nil {
				return err
			}
		}
	}

	err := s.repo.DeleteOne(ctx, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	return nil
}

func WithListScopes[M Resource](scopes ...Scope) ServiceOption[M] {
	return func(s *service[M]) {
		s.listScopes = append(s.listScopes, scopes...)
	}
}

func WithGetScopes[M Resource](scopes ...Scope) ServiceOption[M] {
	return func(s *service[M]) {
		s.getScopes = append(s.getScopes, scopes...)
	}
}

func WithBeforeSave[M Resource](hook SaveHook[M]) ServiceOption[M] {
	return func(s *service[M]) {
		s.beforeSave = append(s.beforeSave, hook)
	}
}

func WithBeforeDelete[M Resource](hook DeleteHook[M]) ServiceOption[M] {
	return func(s *service[M]) {
		s.beforeDelete = append(s.beforeDelete, hook)
	}
}
