package handler

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/akazakov/shop-backend/internal/service"
	"github.com/akazakov/shop-backend/pkg/mylogger"
	"github.com/akazakov/shop-backend/pkg/utils"
)

type AuthHandler struct {
	users    service.UserService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewAuthHandler(users service.UserService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		users:    users,
		validate: validator.New(),
		logger:   logger,
	}
}

type RegisterInput struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	GivenName  string `json:"given_name" validate:"required,max=100"`
	FamilyName string `json:"family_name" validate:"required,max=100"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	// bcrypt makes signup slower than a plain read.
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	input := new(RegisterInput)

	if err := c.BodyParser(input); err != nil {
		h.logger.Warn(
			"failed to parse body in register",
			zap.Error(err),
		)

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := h.validate.Struct(input); err != nil {
		h.logger.Warn(
			"failed to validate register input",
			zap.Error(err),
		)

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": utils.FormatValidationError(err),
		})
	}

	user, err := h.users.Register(ctx, input.Email, input.Password, input.GivenName, input.FamilyName)
	if err != nil {
		mylogger.Warn(
			ctx,
			h.logger,
			"register failed",
			zap.String("email", input.Email),
			zap.Error(err),
		)

		return fail(c, err)
	}

	mylogger.Info(
		ctx,
		h.logger,
		"user registered",
		zap.Int64("user_id", user.ID),
	)

	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	input := new(LoginInput)

	if err := c.BodyParser(input); err != nil {
		h.logger.Warn(
			"failed to parse body in login",
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

	token, err := h.users.Login(ctx, input.Email, input.Password)
	if err != nil {
		mylogger.Warn(
			ctx,
			h.logger,
			"login failed",
			zap.String("email", input.Email),
			zap.Error(err),
		)

		if errorToStatus(err) == fiber.StatusInternalServerError {
			return fail(c, err)
		}

		// Do not leak whether the email exists.
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "wrong email or password",
		})
	}

	mylogger.Info(
		ctx,
		h.logger,
		"login succeeded",
		zap.String("email", input.Email),
	)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"access_token": token,
	})
}
