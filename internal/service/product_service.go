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

type ProductService interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, limit, offset int64, search string) ([]domain.Product, int64, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error)
	Update(ctx context.Context, id int64, input *domain.UpdateProductInput) (*domain.Product, error)
	Deactivate(ctx context.Context, id int64) error
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	pool         *pgxpool.Pool
	logger       *zap.Logger
}

func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	pool *pgxpool.Pool,
	logger *zap.Logger,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		pool:         pool,
		logger:       logger,
	}
}

func (s *productService) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	// The referenced category must exist and be active; GetByID filters
	// inactive rows, so both cases surface as not-found.
	category, err := s.categoryRepo.GetByID(ctx, product.CategoryID)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			mylogger.Info(
				ctx,
				s.logger,
				"Product references missing or inactive category",
				zap.Int64("category_id", product.CategoryID),
			)

			return nil, err
		}

		return nil, fmt.Errorf("error checking category: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		mylogger.Error(ctx, s.logger, "Error starting transaction", zap.Error(err))
		return nil, fmt.Errorf("error starting transaction: %w", err)
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
				zap.String("method_name", "Create"),
			)
		}
	}()

	if _, err := s.productRepo.Create(ctx, tx, product); err != nil {
		mylogger.Error(ctx, s.logger, "create error", zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	product.Category = category
	return product, nil
}

func (s *productService) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	res, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			s.logger.Warn("product not found", zap.Int64("product_id", id))
			return nil, err
		}

		s.logger.Error("error getting product", zap.Error(err))
		return nil, fmt.Errorf("error getting product by id: %w", err)
	}

	return res, nil
}

func (s *productService) List(ctx context.Context, limit, offset int64, search string) ([]domain.Product, int64, error) {
	list, total, err := s.productRepo.List(ctx, limit, offset, search)
	if err != nil {
		s.logger.Error("list error", zap.Error(err))
		return nil, 0, fmt.Errorf("error listing products: %w", err)
	}

	return list, total, nil
}

func (s *productService) ListByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error) {
	list, err := s.productRepo.ListByCategory(ctx, categoryID)
	if err != nil {
		s.logger.Error("list by category error", zap.Error(err))
		return nil, fmt.Errorf("error listing products by category: %w", err)
	}

	return list, nil
}

func (s *productService) Update(ctx context.Context, id int64, input *domain.UpdateProductInput) (*domain.Product, error) {
	if _, err := s.productRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	// A supplied category reference is revalidated, changed or not.
	if input.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				mylogger.Info(
					ctx,
					s.logger,
					"Product update references missing or inactive category",
					zap.Int64("category_id", *input.CategoryID),
				)

				return nil, err
			}

			return nil, fmt.Errorf("error checking category: %w", err)
		}
	}

	if err := s.productRepo.Update(ctx, id, input); err != nil {
		return nil, err
	}

	return s.productRepo.GetByID(ctx, id)
}

func (s *productService) Deactivate(ctx context.Context, id int64) error {
	err := s.productRepo.Deactivate(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			s.logger.Warn("product not found", zap.Int64("product_id", id))
			return err
		}

		s.logger.Error("error deactivating product", zap.Error(err))
		return err
	}

	return nil
}
