package services

import (
	"context"
	"errors"
	"fmt"

	"draftshop/internal/domain"
	"draftshop/internal/repos"
)

type CatalogService struct {
	Cats  *repos.CategoryRepo
	Prods *repos.ProductRepo
}

func NewCatalogService(cats *repos.CategoryRepo, prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Cats: cats, Prods: prods}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.Cats.List(ctx)
}

func (s *CatalogService) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	return s.Cats.Get(ctx, id)
}

func (s *CatalogService) CreateCategory(ctx context.Context, c *domain.Category) error {
	return s.Cats.Create(ctx, c)
}

// ProductsInCategory lists a category's products; an unknown category is
// reported as not found rather than as an empty list.
func (s *CatalogService) ProductsInCategory(ctx context.Context, id int64) ([]domain.Listing, error) {
	if _, err := s.Cats.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.Prods.ListByCategory(ctx, id)
}

func (s *CatalogService) ListItems(ctx context.Context, v domain.Variant) ([]domain.Item, error) {
	return s.Prods.FindAll(ctx, v)
}

func (s *CatalogService) GetItem(ctx context.Context, v domain.Variant, id int64) (*domain.Item, error) {
	return s.Prods.FindOneByID(ctx, v, id)
}

func (s *CatalogService) CreateItem(ctx context.Context, it *domain.Item) (*domain.Item, error) {
	if err := s.checkCategory(ctx, it.CategoryID); err != nil {
		return nil, err
	}
	return s.Prods.Create(ctx, it)
}

func (s *CatalogService) UpdateItem(ctx context.Context, it *domain.Item) error {
	if it.ID == 0 {
		return domain.ErrInvalidState
	}
	if err := s.checkCategory(ctx, it.CategoryID); err != nil {
		return err
	}
	return s.Prods.Update(ctx, it)
}

// CategoryOf resolves the category an item is filed under.
func (s *CatalogService) CategoryOf(ctx context.Context, it *domain.Item) (*domain.Category, error) {
	if it.CategoryID == 0 {
		return nil, fmt.Errorf("item %d has no category: %w", it.ID, domain.ErrNotFound)
	}
	return s.Prods.GetCategory(ctx, it.CategoryID)
}

func (s *CatalogService) checkCategory(ctx context.Context, id int64) error {
	if id == 0 {
		return nil
	}
	_, err := s.Cats.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: category %d does not exist", domain.ErrValidation, id)
	}
	return err
}
