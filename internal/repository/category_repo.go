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

type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	NameTaken(ctx context.Context, name string, excludeID int64) (bool, error)
	List(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, id int64, input *domain.UpdateCategoryInput) error
	Deactivate(ctx context.Context, tx pgx.Tx, id int64) error
}

type categoryRepo struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
	logger *zap.Logger
}

func NewCategoryRepository(pool *pgxpool.Pool, logger *zap.Logger) CategoryRepository {
	return &categoryRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("repository/category_repo"),
	}
}

func (r *categoryRepo) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	ctx, span := r.tracer.Start(ctx, "CategoryRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("name", category.Name),
	)

	query := `
		INSERT INTO categories (name, description)
		VALUES ($1, $2)
		RETURNING id, active, created_at, updated_at;
	`

	err := r.pool.QueryRow(ctx, query, category.Name, category.Description).
		Scan(&category.ID, &category.Active, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		span.RecordError(err)

		var pgError *pgconn.PgError
		if errors.As(err, &pgError) && pgError.Code == "23505" {
			mylogger.Warn(
				ctx,
				r.logger,
				"Category name is already taken",
				zap.String("name", category.Name),
			)

			return nil, ErrCategoryNameTaken
		}

		mylogger.Error(
			ctx,
			r.logger,
			"Error creating category",
			zap.Error(err),
		)

		return nil, fmt.Errorf("error creating category: %w", err)
	}

	return category, nil
}

func (r *categoryRepo) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	ctx, span := r.tracer.Start(ctx, "CategoryRepository.GetByID")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
	)

	query := `
		SELECT id, name, description, active, created_at, updated_at
		FROM categories
		WHERE id = $1 AND active = TRUE;
	`

	var res domain.Category
	if err := r.pool.QueryRow(ctx, query, id).
		Scan(&res.ID, &res.Name, &res.Description, &res.Active,
			&res.CreatedAt, &res.UpdatedAt,
		); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}

		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Error getting category by id",
			zap.Int64("id", id),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error getting category: %w", err)
	}

	return &res, nil
}

// NameTaken ignores the active flag so a soft-deleted category keeps its
// name reserved.
func (r *categoryRepo) NameTaken(ctx context.Context, name string, excludeID int64) (bool, error) {
	ctx, span := r.tracer.Start(ctx, "CategoryRepository.NameTaken")
	defer span.End()

	query := `
		SELECT EXISTS (
			SELECT 1 FROM categories
			WHERE name = $1 AND id <> $2
		);
	`

	var taken bool
	if err := r.pool.QueryRow(ctx, query, name, excludeID).Scan(&taken); err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Failed to check category name",
			zap.String("name", name),
			zap.Error(err),
		)

		return false, fmt.Errorf("error checking category name: %w", err)
	}

	return taken, nil
}

func (r *categoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	ctx, span := r.tracer.Start(ctx, "CategoryRepository.List")
	defer span.End()

	query := `
		SELECT id, name, description, active, created_at, updated_at
		FROM categories
		WHERE active = TRUE
		ORDER BY name;
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Error listing categories",
			zap.Error(err),
		)

		return nil, fmt.Errorf("error selecting categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Description,
			&c.Active,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("error scanning rows: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return categories, nil
}

func (r *categoryRepo) Update(ctx context.Context, id int64, input *domain.UpdateCategoryInput) error {
	ctx, span := r.tracer.Start(ctx, "CategoryRepository.Update")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
	)

	query := `UPDATE categories SET `
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
		if errors.As(err, &pgError) && pgError.Code == "23505" {
			return ErrCategoryNameTaken
		}

		mylogger.Error(
			ctx,
			r.logger,
			"Failed to update category",
			zap.Int64("id", id),
			zap.Error(err),
		)

		return fmt.Errorf("error updating category: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}

	return nil
}

// Deactivate runs inside the caller's transaction so the active-children
// guard and the flip are atomic.
func (r *categoryRepo) Deactivate(ctx context.Context, tx pgx.Tx, id int64) error {
	ctx, span := r.tracer.Start(ctx, "CategoryRepository.Deactivate")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
	)

	query := `
		UPDATE categories
		SET active = FALSE, updated_at = NOW()
		WHERE id = $1 AND active = TRUE;
	`

	commandTag, err := tx.Exec(ctx, query, id)
	if err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Error deactivating category",
			zap.Int64("id", id),
			zap.Error(err),
		)

		return fmt.Errorf("error deactivating category: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}

	return nil
}
