package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/akazakov/shop-backend/internal/domain"
	"github.com/akazakov/shop-backend/pkg/mylogger"
)

type ProductRepository interface {
	Create(ctx context.Context, tx pgx.Tx, product *domain.Product) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, limit, offset int64, search string) ([]domain.Product, int64, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error)
	CountActiveByCategory(ctx context.Context, tx pgx.Tx, categoryID int64) (int64, error)
	Update(ctx context.Context, id int64, input *domain.UpdateProductInput) error
	Deactivate(ctx context.Context, id int64) error
}

type productRepo struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
	logger *zap.Logger
}

func NewProductRepository(pool *pgxpool.Pool, logger *zap.Logger) ProductRepository {
	return &productRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("repository/product_repo"),
	}
}

const productColumns = `p.id, p.name, p.description, p.price_cents, p.stock,
		p.image_url, p.category_id, p.active, p.created_at, p.updated_at,
		c.id, c.name, c.description, c.active, c.created_at, c.updated_at`

func scanProductWithCategory(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	var c domain.Category

	if err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.Stock,
		&p.ImageUrl, &p.CategoryID, &p.Active, &p.CreatedAt, &p.UpdatedAt,
		&c.ID, &c.Name, &c.Description, &c.Active, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}

	p.Category = &c
	return &p, nil
}

func (r *productRepo) Create(ctx context.Context, tx pgx.Tx, product *domain.Product) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("name", product.Name),
		attribute.Int64("category_id", product.CategoryID),
	)

	query := `
		INSERT INTO products (name, description, price_cents, stock, image_url, category_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, active, created_at, updated_at;
	`

	err := tx.QueryRow(
		ctx,
		query,
		product.Name,
		product.Description,
		product.PriceCents,
		product.Stock,
		product.ImageUrl,
		product.CategoryID,
	).Scan(&product.ID, &product.Active, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		span.RecordError(err)

		var pgError *pgconn.PgError
		if errors.As(err, &pgError) && pgError.Code == "23503" {
			mylogger.Warn(
				ctx,
				r.logger,
				"Product references missing category",
				zap.Int64("category_id", product.CategoryID),
			)

			return 0, ErrCategoryNotFound
		}

		mylogger.Error(
			ctx,
			r.logger,
			"Error creating product",
			zap.Error(err),
		)

		return 0, fmt.Errorf("error creating product: %w", err)
	}

	return product.ID, nil
}

func (r *productRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.GetByID")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
	)

	query := `
		SELECT ` + productColumns + `
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1 AND p.active = TRUE;
	`

	res, err := scanProductWithCategory(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}

		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Error getting product by id",
			zap.Int64("id", id),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error getting product: %w", err)
	}

	return res, nil
}

func (r *productRepo) List(ctx context.Context, limit, offset int64, search string) ([]domain.Product, int64, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.List")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("limit", limit),
		attribute.Int64("offset", offset),
		attribute.String("search", search),
	)

	baseQuery := `SELECT ` + productColumns + `
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.active = TRUE`
	countQuery := `SELECT COUNT(*) FROM products p WHERE p.active = TRUE`

	var args []interface{}
	argId := 1

	if search != "" {
		filter := fmt.Sprintf(" AND p.name ILIKE $%d", argId)
		baseQuery += filter
		countQuery += filter

		args = append(args, "%"+search+"%")
		argId++
	}

	baseQuery += fmt.Sprintf(" ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d", argId, argId+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, baseQuery, args...)
	if err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Error getting products",
			zap.String("search", search),
			zap.Error(err),
		)

		return nil, 0, fmt.Errorf("error selecting products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProductWithCategory(rows)
		if err != nil {
			span.RecordError(err)

			mylogger.Error(
				ctx,
				r.logger,
				"Failed to scan rows",
				zap.Error(err),
			)

			return nil, 0, fmt.Errorf("error scanning rows: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)

		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	var countArgs []interface{}
	if search != "" {
		countArgs = append(countArgs, args[0])
	}

	var totalCount int64
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&totalCount); err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Failed to count products",
			zap.Error(err),
		)

		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	return products, totalCount, nil
}

// ListByCategory returns active products only. An unknown category id is
// not an error, it just matches nothing.
func (r *productRepo) ListByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.ListByCategory")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("category_id", categoryID),
	)

	query := `
		SELECT ` + productColumns + `
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.category_id = $1 AND p.active = TRUE
		ORDER BY p.created_at DESC;
	`

	rows, err := r.pool.Query(ctx, query, categoryID)
	if err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Error listing products by category",
			zap.Int64("category_id", categoryID),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error selecting products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProductWithCategory(rows)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("error scanning rows: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return products, nil
}

func (r *productRepo) CountActiveByCategory(ctx context.Context, tx pgx.Tx, categoryID int64) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.CountActiveByCategory")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("category_id", categoryID),
	)

	query := `
		SELECT COUNT(*)
		FROM products
		WHERE category_id = $1 AND active = TRUE;
	`

	var count int64
	if err := tx.QueryRow(ctx, query, categoryID).Scan(&count); err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Failed to count active products",
			zap.Int64("category_id", categoryID),
			zap.Error(err),
		)

		return 0, fmt.Errorf("failed to count active products: %w", err)
	}

	return count, nil
}

func (r *productRepo) Update(ctx context.Context, id int64, input *domain.UpdateProductInput) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Update")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
	)

	query := `UPDATE products SET `
	var args []interface{}
	argId := 1

	var updates []string

	if input.Name != nil {
		updates = append(updates, fmt.Sprintf("name = $%d", argId))
		args = append(args, *input.Name)
		argId++
	}

	if input.Description != nil {
		updates = append(updates, fmt.Sprintf("description = $%d", argId))
		args = append(args, *input.Description)
		argId++
	}

	if input.PriceCents != nil {
		updates = append(updates, fmt.Sprintf("price_cents = $%d", argId))
		args = append(args, *input.PriceCents)
		argId++
	}

	if input.Stock != nil {
		updates = append(updates, fmt.Sprintf("stock = $%d", argId))
		args = append(args, *input.Stock)
		argId++
	}

	if input.ImageUrl != nil {
		updates = append(updates, fmt.Sprintf("image_url = $%d", argId))
		args = append(args, *input.ImageUrl)
		argId++
	}

	if input.CategoryID != nil {
		updates = append(updates, fmt.Sprintf("category_id = $%d", argId))
		args = append(args, *input.CategoryID)
		argId++
	}

	if len(updates) == 0 {
		return nil
	}

	updates = append(updates, "updated_at = NOW()")

	query += strings.Join(updates, ", ")
	query += fmt.Sprintf(" WHERE id = $%d AND active = TRUE", argId)
	args = append(args, id)

	commandTag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		span.RecordError(err)

		var pgError *pgconn.PgError
		if errors.As(err, &pgError) && pgError.Code == "23503" {
			return ErrCategoryNotFound
		}

		mylogger.Error(
			ctx,
			r.logger,
			"Failed to update product",
			zap.Int64("id", id),
			zap.Error(err),
		)

		return fmt.Errorf("error updating product: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}

func (r *productRepo) Deactivate(ctx context.Context, id int64) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Deactivate")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
	)

	query := `
		UPDATE products
		SET active = FALSE, updated_at = NOW()
		WHERE id = $1 AND active = TRUE;
	`

	commandTag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Error deactivating product",
			zap.Int64("id", id),
			zap.Error(err),
		)

		return fmt.Errorf("error deactivating product: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}
