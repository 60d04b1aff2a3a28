package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/akazakov/shop-backend/internal/domain"
	"github.com/akazakov/shop-backend/internal/repository"
	"github.com/akazakov/shop-backend/pkg/mylogger"
)

type CategoryService interface {
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, id int64, input *domain.UpdateCategoryInput) (*domain.Category, error)
	Deactivate(ctx context.Context, id int64) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	pool         *pgxpool.Pool
	logger       *zap.Logger
}

func NewCategoryService(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	pool *pgxpool.Pool,
	logger *zap.Logger,
) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		pool:         pool,
		logger:       logger,
	}
}

func (s *categoryService) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	taken, err := s.categoryRepo.NameTaken(ctx, category.Name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		mylogger.Info(
			ctx,
			s.logger,
			"Category name already taken",
			zap.String("name", category.Name),
		)

		return nil, repository.ErrCategoryNameTaken
	}

	result, err := s.categoryRepo.Create(ctx, category)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNameTaken) {
			return nil, err
		}

		mylogger.Error(
			ctx,
			s.logger,
			"Error creating category",
			zap.String("name", category.Name),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error creating category: %w", err)
	}

	return result, nil
}

func (s *categoryService) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			s.logger.Warn("category not found", zap.Int64("category_id", id))
			return nil, err
		}

		s.logger.Error("error getting category", zap.Error(err))
		return nil, fmt.Errorf("error getting category by id: %w", err)
	}

	products, err := s.productRepo.ListByCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Products = products

	return category, nil
}

func (s *categoryService) List(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		s.logger.Error("list error", zap.Error(err))
		return nil, fmt.Errorf("error listing categories: %w", err)
	}

	for i := range categories {
		products, err := s.productRepo.ListByCategory(ctx, categories[i].ID)
		if err != nil {
			return nil, err
		}
		categories[i].Products = products
	}

	return categories, nil
}

func (s *categoryService) Update(ctx context.Context, id int64, input *domain.UpdateCategoryInput) (*domain.Category, error) {
	current, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != current.Name {
		taken, err := s.categoryRepo.NameTaken(ctx, *input.Name, id)
		if err != nil {
			return nil, err
		}
		if taken {
			mylogger.Info(
				ctx,
				s.logger,
				"Category name already taken",
				zap.String("name", *input.Name),
			)

			return nil, repository.ErrCategoryNameTaken
		}
	}

	if err := s.categoryRepo.Update(ctx, id, input); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// Deactivate refuses while the category still owns active products, so no
// active product ends up under a parent invisible to default queries.
func (s *categoryService) Deactivate(ctx context.Context, id int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		mylogger.Error(ctx, s.logger, "Error starting transaction", zap.Error(err))
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer func() {
		cleanupCtx := context.WithoutCancel(ctx)
		err := tx.Rollback(cleanupCtx)

		if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			mylogger.Warn(
				ctx,
				s.logger,
				"Error rolling back transaction",
				zap.Error(err),
				zap.String("method_name", "Deactivate"),
			)
		}
	}()

	count, err := s.productRepo.CountActiveByCategory(ctx, tx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		mylogger.Info(
			ctx,
			s.logger,
			"Category still has active products",
			zap.Int64("category_id", id),
			zap.Int64("count", count),
		)

		return &CategoryNotEmptyError{Count: count}
	}

	if err := s.categoryRepo.Deactivate(ctx, tx, id); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			s.logger.Warn("category not found", zap.Int64("category_id", id))
			return err
		}

		s.logger.Error("error deactivating category", zap.Error(err))
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
