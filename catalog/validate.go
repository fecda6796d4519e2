package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pandey "github.com/aagatsharma/pandey-computer"
	"github.com/aagatsharma/pandey-computer/internal/media"
	"github.com/aagatsharma/pandey-computer/internal/slug"
)

const (
	maxNameLength     = 200
	maxImages         = 12
	maxSpecifications = 60
)

// ReferenceChecker reports whether something outside the catalog points at a
// catalog document, which blocks its deletion.
type ReferenceChecker interface {
	Referenced(ctx context.Context, kind Kind, id uint) (bool, error)
}

func validateNamed(verr *pandey.ValidationError, name, s string) {
	switch {
	case strings.TrimSpace(name) == "":
		verr.Add("name", "is required")
	case len(name) > maxNameLength:
		verr.Add("name", fmt.Sprintf("must be at most %d characters", maxNameLength))
	}

	if !slug.Valid(s) {
		verr.Add("slug", "must be lowercase letters, digits and dashes")
	}
}

func validateImage(verr *pandey.ValidationError, field, image string) {
	if image != "" && !media.IsImageRef(image) {
		verr.Add(field, "must be a data URI or an http(s) URL")
	}
}

func (c *Category) Validate() error {
	verr := pandey.NewValidationError()
	validateNamed(verr, c.Name, c.Slug)
	validateImage(verr, "image", c.Image)

	return verr.Err()
}

func (s *SubCategory) Validate() error {
	verr := pandey.NewValidationError()
	validateNamed(verr, s.Name, s.Slug)
	validateImage(verr, "image", s.Image)

	if s.CategoryID == 0 {
		verr.Add("categoryId", "is required")
	}

	return verr.Err()
}

func (b *Brand) Validate() error {
	verr := pandey.NewValidationError()
	validateNamed(verr, b.Name, b.Slug)
	validateImage(verr, "logo", b.Logo)

	return verr.Err()
}

func (s *SubBrand) Validate() error {
	verr := pandey.NewValidationError()
	validateNamed(verr, s.Name, s.Slug)
	validateImage(verr, "logo", s.Logo)

	if s.BrandID == 0 {
		verr.Add("brandId", "is required")
	}

	return verr.Err()
}

func (p *Product) Validate() error {
	verr := pandey.NewValidationError()
	validateNamed(verr, p.Name, p.Slug)

	if p.Price < 0 {
		verr.Add("price", "must not be negative")
	}

	if p.OriginalPrice != 0 && p.OriginalPrice < p.Price {
		verr.Add("originalPrice", "must not be lower than price")
	}

	if p.Stock < 0 {
		verr.Add("stock", "must not be negative")
	}

	if p.CategoryID == 0 {
		verr.Add("categoryId", "is required")
	}

	if p.BrandID == 0 {
		verr.Add("brandId", "is required")
	}

	if len(p.Images) > maxImages {
		verr.Add("images", fmt.Sprintf("at most %d images are allowed", maxImages))
	}

	for i, image := range p.Images {
		validateImage(verr, fmt.Sprintf("images[%d]", i), image)
	}

	if len(p.Specifications) > maxSpecifications {
		verr.Add("specifications", fmt.Sprintf("at most %d rows are allowed", maxSpecifications))
	}

	for i, spec := range p.Specifications {
		if strings.TrimSpace(spec.Key) == "" {
			verr.Add(fmt.Sprintf("specifications[%d].key", i), "is required")
		}
	}

	return verr.Err()
}

func checkSlug(ctx context.Context, store Store, kind Kind, s string, id uint) error {
	taken, err := store.SlugTaken(ctx, kind, s, id)
	if err != nil {
		return err
	}

	if taken {
		return fmt.Errorf("%w: %s slug %q is already in use", pandey.ErrConflict, kind, s)
	}

	return nil
}

// mustResolve loads a referenced document, reporting a missing one as not found.
func mustResolve(ctx context.Context, store Store, kind Kind, id uint) (Ref, error) {
	ref, err := store.Resolve(ctx, kind, id)
	if err != nil {
		if errors.Is(err, pandey.ErrRecordNotFound) {
			return Ref{}, fmt.Errorf("%w: %s %d does not exist", pandey.ErrRecordNotFound, kind, id)
		}
		return Ref{}, err
	}

	return ref, nil
}

func categorySaveHook(store Store) pandey.SaveHook[*Category] {
	return func(ctx context.Context, c *Category, existing bool) error {
		if err := c.Validate(); err != nil {
			return err
		}

		return checkSlug(ctx, store, KindCategory, c.Slug, c.ID)
	}
}

func subCategorySaveHook(store Store) pandey.SaveHook[*SubCategory] {
	return func(ctx context.Context, s *SubCategory, existing bool) error {
		if err := s.Validate(); err != nil {
			return err
		}

		if _, err := mustResolve(ctx, store, KindCategory, s.CategoryID); err != nil {
			return err
		}

		return checkSlug(ctx, store, KindSubCategory, s.Slug, s.ID)
	}
}

func brandSaveHook(store Store) pandey.SaveHook[*Brand] {
	return func(ctx context.Context, b *Brand, existing bool) error {
		if err := b.Validate(); err != nil {
			return err
		}

		return checkSlug(ctx, store, KindBrand, b.Slug, b.ID)
	}
}

func subBrandSaveHook(store Store) pandey.SaveHook[*SubBrand] {
	return func(ctx context.Context, s *SubBrand, existing bool) error {
		if err := s.Validate(); err != nil {
			return err
		}

		if _, err := mustResolve(ctx, store, KindBrand, s.BrandID); err != nil {
			return err
		}

		return checkSlug(ctx, store, KindSubBrand, s.Slug, s.ID)
	}
}

func productSaveHook(store Store) pandey.SaveHook[*Product] {
	return func(ctx context.Context, p *Product, existing bool) error {
		if err := p.Validate(); err != nil {
			return err
		}

		if _, err := mustResolve(ctx, store, KindCategory, p.CategoryID); err != nil {
			return err
		}

		if _, err := mustResolve(ctx, store, KindBrand, p.BrandID); err != nil {
			return err
		}

		if p.SubCategoryID != nil {
			sub, err := mustResolve(ctx, store, KindSubCategory, *p.SubCategoryID)
			if err != nil {
				return err
			}

			if sub.ParentID != p.CategoryID {
				return pandey.Invalid("subCategoryId", "does not belong to the product's category")
			}
		}

		if p.SubBrandID != nil {
			sub, err := mustResolve(ctx, store, KindSubBrand, *p.SubBrandID)
			if err != nil {
				return err
			}

			if sub.ParentID != p.BrandID {
				return pandey.Invalid("subBrandId", "does not belong to the product's brand")
			}
		}

		taken, err := store.ProductSlugTaken(ctx, p.Slug, p.ID)
		if err != nil {
			return err
		}

		if taken {
			return fmt.Errorf("%w: product slug %q is already in use", pandey.ErrConflict, p.Slug)
		}

		return nil
	}
}

// deleteGuard refuses to delete documents that products, child documents or
// navbar items still point at.
func deleteGuard[M pandey.Resource](kind Kind, store Store, checkers []ReferenceChecker) pandey.DeleteHook[M] {
	return func(ctx context.Context, item M) error {
		id := item.GetID()

		products, err := store.CountProducts(ctx, kind, id)
		if err != nil {
			return err
		}

		if products > 0 {
			return fmt.Errorf("%w: %s %d is used by %d products", pandey.ErrConflict, kind, id, products)
		}

		children, err := store.CountChildren(ctx, kind, id)
		if err != nil {
			return err
		}

		if children > 0 {
			return fmt.Errorf("%w: %s %d still has %d children", pandey.ErrConflict, kind, id, children)
		}

		for _, checker := range checkers {
			referenced, err := checker.Referenced(ctx, kind, id)
			if err != nil {
				return err
			}

			if referenced {
				return fmt.Errorf("%w: %s %d is referenced by a navbar item", pandey.ErrConflict, kind, id)
			}
		}

		return nil
	}
}
