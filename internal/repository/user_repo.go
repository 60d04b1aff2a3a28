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

type UserRepository interface {
	Create(ctx context.Context, tx pgx.Tx, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, id int64, input *domain.UpdateUserInput) error
	Deactivate(ctx context.Context, id int64) error
}

type userRepo struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
	logger *zap.Logger
}

func NewUserRepository(pool *pgxpool.Pool, logger *zap.Logger) UserRepository {
	return &userRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("repository/user_repo"),
	}
}

func (r *userRepo) Create(ctx context.Context, tx pgx.Tx, user *domain.User) (*domain.User, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("user.email", user.Email),
	)

	query := `
		INSERT INTO users (email, password_hash, given_name, family_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, active, created_at, updated_at;
	`

	err := tx.QueryRow(ctx, query, user.Email, user.Password, user.GivenName, user.FamilyName).
		Scan(&user.ID, &user.Active, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		span.RecordError(err)

		var pgError *pgconn.PgError

		if errors.As(err, &pgError) && pgError.Code == "23505" {
			mylogger.Warn(
				ctx,
				r.logger,
				"Email is already taken",
				zap.String("email", user.Email),
			)

			return nil, ErrEmailTaken
		}

		mylogger.Error(
			ctx,
			r.logger,
			"Failed to create user",
			zap.String("email", user.Email),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.GetByID")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
	)

	query := `
		SELECT id, email, password_hash, given_name, family_name, active, created_at, updated_at
		FROM users
		WHERE id = $1 AND active = TRUE;
	`

	var res domain.User
	if err := r.pool.QueryRow(ctx, query, id).
		Scan(&res.ID, &res.Email, &res.Password, &res.GivenName,
			&res.FamilyName, &res.Active, &res.CreatedAt, &res.UpdatedAt,
		); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}

		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Failed to find user by id",
			zap.Int64("user_id", id),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error finding user: %w", err)
	}

	return &res, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.GetByEmail")
	defer span.End()

	query := `
		SELECT id, email, password_hash, given_name, family_name, active, created_at, updated_at
		FROM users
		WHERE email = $1 AND active = TRUE;
	`

	var res domain.User
	if err := r.pool.QueryRow(ctx, query, email).
		Scan(&res.ID, &res.Email, &res.Password, &res.GivenName,
			&res.FamilyName, &res.Active, &res.CreatedAt, &res.UpdatedAt,
		); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}

		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Failed to find user by email",
			zap.String("email", email),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error finding user: %w", err)
	}

	return &res, nil
}

// EmailTaken intentionally ignores the active flag: a soft-deleted user
// keeps their email reserved.
func (r *userRepo) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.EmailTaken")
	defer span.End()

	query := `
		SELECT EXISTS (
			SELECT 1 FROM users
			WHERE email = $1 AND id <> $2
		);
	`

	var taken bool
	if err := r.pool.QueryRow(ctx, query, email, excludeID).Scan(&taken); err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Failed to check email",
			zap.String("email", email),
			zap.Error(err),
		)

		return false, fmt.Errorf("error checking email: %w", err)
	}

	return taken, nil
}

func (r *userRepo) List(ctx context.Context) ([]domain.User, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.List")
	defer span.End()

	query := `
		SELECT id, email, password_hash, given_name, family_name, active, created_at, updated_at
		FROM users
		WHERE active = TRUE
		ORDER BY created_at DESC;
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Error listing users",
			zap.Error(err),
		)

		return nil, fmt.Errorf("error selecting users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(
			&u.ID,
			&u.Email,
			&u.Password,
			&u.GivenName,
			&u.FamilyName,
			&u.Active,
			&u.CreatedAt,
			&u.UpdatedAt,
		); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("error scanning rows: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return users, nil
}

func (r *userRepo) Update(ctx context.Context, id int64, input *domain.UpdateUserInput) error {
	ctx, span := r.tracer.Start(ctx, "UserRepository.Update")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
	)

	query := `UPDATE users SET `
	var args []interface{}
	argId := 1

	var updates []string

	if input.Email != nil {
		updates = append(updates, fmt.Sprintf("email = $%d", argId))
		args = append(args, *input.Email)
		argId++
	}

	if input.Password != nil {
		updates = append(updates, fmt.Sprintf("password_hash = $%d", argId))
		args = append(args, *input.Password)
		argId++
	}

	if input.GivenName != nil {
		updates = append(updates, fmt.Sprintf("given_name = $%d", argId))
		args = append(args, *input.GivenName)
		argId++
	}

	if input.FamilyName != nil {
		updates = append(updates, fmt.Sprintf("family_name = $%d", argId))
		args = append(args, *input.FamilyName)
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
			return ErrEmailTaken
		}

		mylogger.Error(
			ctx,
			r.logger,
			"Failed to update user",
			zap.Int64("id", id),
			zap.Error(err),
		)

		return fmt.Errorf("error updating user: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *userRepo) Deactivate(ctx context.Context, id int64) error {
	ctx, span := r.tracer.Start(ctx, "UserRepository.Deactivate")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
	)

	query := `
		UPDATE users
		SET active = FALSE, updated_at = NOW()
		WHERE id = $1 AND active = TRUE;
	`

	commandTag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Error deactivating user",
			zap.Int64("id", id),
			zap.Error(err),
		)

		return fmt.Errorf("error deactivating user: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}
