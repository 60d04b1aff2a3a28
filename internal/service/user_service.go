package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/akazakov/shop-backend/internal/auth"
	"github.com/akazakov/shop-backend/internal/domain"
	"github.com/akazakov/shop-backend/internal/repository"
	"github.com/akazakov/shop-backend/pkg/mylogger"
)

type UserService interface {
	Register(ctx context.Context, email, password, givenName, familyName string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, id int64, input *domain.UpdateUserInput) (*domain.User, error)
	Deactivate(ctx context.Context, id int64) error
}

type userService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
	pool     *pgxpool.Pool
	logger   *zap.Logger
}

func NewUserService(
	userRepo repository.UserRepository,
	tokens *auth.TokenManager,
	pool *pgxpool.Pool,
	logger *zap.Logger,
) UserService {
	return &userService{
		userRepo: userRepo,
		tokens:   tokens,
		pool:     pool,
		logger:   logger,
	}
}

func (s *userService) Register(ctx context.Context, email, password, givenName, familyName string) (*domain.User, error) {
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	// Pre-check keeps the common double-signup friendly; the unique index
	// on users.email is the real guarantee under concurrency.
	taken, err := s.userRepo.EmailTaken(ctx, email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		mylogger.Info(
			ctx,
			s.logger,
			"Email already taken",
			zap.String("email", email),
		)

		return nil, repository.ErrEmailTaken
	}

	hashedPass, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		mylogger.Error(
			ctx,
			s.logger,
			"Error hashing password",
			zap.String("email", email),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &domain.User{
		Email:      email,
		Password:   string(hashedPass),
		GivenName:  givenName,
		FamilyName: familyName,
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		mylogger.Error(
			ctx,
			s.logger,
			"Error starting transaction",
			zap.Error(err),
		)

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
				zap.String("method_name", "Register"),
			)
		}
	}()

	result, err := s.userRepo.Create(ctx, tx, user)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, err
		}

		mylogger.Error(
			ctx,
			s.logger,
			"Error creating user",
			zap.String("email", user.Email),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error creating user: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return result, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			mylogger.Info(
				ctx,
				s.logger,
				"Login for unknown email",
				zap.String("email", email),
			)

			return "", err
		}

		return "", fmt.Errorf("error finding user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		mylogger.Info(
			ctx,
			s.logger,
			"Wrong password",
			zap.Int64("user_id", user.ID),
		)

		return "", ErrWrongPassword
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		mylogger.Error(
			ctx,
			s.logger,
			"Error generating token",
			zap.Int64("user_id", user.ID),
			zap.Error(err),
		)

		return "", fmt.Errorf("error generating token: %w", err)
	}

	return token, nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	res, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.logger.Warn("user not found", zap.Int64("user_id", id))
			return nil, err
		}

		s.logger.Error("error getting user", zap.Error(err))
		return nil, fmt.Errorf("error getting user by id: %w", err)
	}

	return res, nil
}

func (s *userService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		s.logger.Error("list error", zap.Error(err))
		return nil, fmt.Errorf("error listing users: %w", err)
	}

	return users, nil
}

func (s *userService) Update(ctx context.Context, id int64, input *domain.UpdateUserInput) (*domain.User, error) {
	current, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Renaming to the current email is a no-op, not a self-conflict:
	// only a genuinely different email triggers a duplicate probe.
	if input.Email != nil && *input.Email != current.Email {
		taken, err := s.userRepo.EmailTaken(ctx, *input.Email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			mylogger.Info(
				ctx,
				s.logger,
				"Email already taken",
				zap.String("email", *input.Email),
			)

			return nil, repository.ErrEmailTaken
		}
	}

	if input.Password != nil {
		if err := validatePassword(*input.Password); err != nil {
			return nil, err
		}

		hashedPass, err := bcrypt.GenerateFromPassword([]byte(*input.Password), 12)
		if err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}

		hashed := string(hashedPass)
		input.Password = &hashed
	}

	if err := s.userRepo.Update(ctx, id, input); err != nil {
		return nil, err
	}

	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) Deactivate(ctx context.Context, id int64) error {
	err := s.userRepo.Deactivate(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.logger.Warn("user not found", zap.Int64("user_id", id))
			return err
		}

		s.logger.Error("error deactivating user", zap.Error(err))
		return err
	}

	return nil
}
