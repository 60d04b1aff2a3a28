package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/akazakov/shop-backend/internal/domain"
	"github.com/akazakov/shop-backend/internal/service"
	"github.com/akazakov/shop-backend/pkg/mylogger"
	"github.com/akazakov/shop-backend/pkg/utils"
)

type UserHandler struct {
	users    service.UserService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewUserHandler(users service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		users:    users,
		validate: validator.New(),
		logger:   logger,
	}
}

type UpdateUserInput struct {
	Email      *string `json:"email" validate:"omitempty,email"`
	Password   *string `json:"password" validate:"omitempty,min=6"`
	GivenName  *string `json:"given_name" validate:"omitempty,max=100"`
	FamilyName *string `json:"family_name" validate:"omitempty,max=100"`
}

func parseID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), time.Second)
	defer cancel()

	userId, ok := c.Locals("userId").(int64)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "userId parsing error"})
	}

	user, err := h.users.GetByID(ctx, userId)
	if err != nil {
		mylogger.Warn(
			ctx,
			h.logger,
			"get me failed",
			zap.Int64("user_id", userId),
			zap.Error(err),
		)

		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(user)
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), time.Second)
	defer cancel()

	users, err := h.users.List(ctx)
	if err != nil {
		mylogger.Warn(
			ctx,
			h.logger,
			"list users failed",
			zap.Error(err),
		)

		return fail(c, err)
	}

	if users == nil {
		users = []domain.User{}
	}

	return c.Status(fiber.StatusOK).JSON(users)
}

func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), time.Second)
	defer cancel()

	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid id",
		})
	}

	user, err := h.users.GetByID(ctx, id)
	if err != nil {
		mylogger.Warn(
			ctx,
			h.logger,
			"get user failed",
			zap.Int64("user_id", id),
			zap.Error(err),
		)

		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(user)
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid id",
		})
	}

	input := new(UpdateUserInput)

	if err := c.BodyParser(input); err != nil {
		h.logger.Warn(
			"failed to parse body in update user",
			zap.Error(err),
		)

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": utils.FormatValidationError(err),
		})
	}

	user, err := h.users.Update(ctx, id, &domain.UpdateUserInput{
		Email:      input.Email,
		Password:   input.Password,
		GivenName:  input.GivenName,
		FamilyName: input.FamilyName,
	})
	if err != nil {
		mylogger.Warn(
			ctx,
			h.logger,
			"update user failed",
			zap.Int64("user_id", id),
			zap.Error(err),
		)

		return fail(c, err)
	}

	mylogger.Info(
		ctx,
		h.logger,
		"user updated",
		zap.Int64("user_id", id),
	)

	return c.Status(fiber.StatusOK).JSON(user)
}

func (h *UserHandler) Deactivate(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), time.Second)
	defer cancel()

	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid id",
		})
	}

	if err := h.users.Deactivate(ctx, id); err != nil {
		mylogger.Warn(
			ctx,
			h.logger,
			"deactivate user failed",
			zap.Int64("user_id", id),
			zap.Error(err),
		)

		return fail(c, err)
	}

	mylogger.Info(
		ctx,
		h.logger,
		"user deactivated",
		zap.Int64("user_id", id),
	)

	return c.SendStatus(fiber.StatusNoContent)
}
