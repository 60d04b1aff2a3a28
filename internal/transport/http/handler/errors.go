package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/akazakov/shop-backend/internal/money"
	"github.com/akazakov/shop-backend/internal/repository"
	"github.com/akazakov/shop-backend/internal/service"
)

func errorToStatus(err error) int {
	var notEmpty *service.CategoryNotEmptyError

	switch {
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrCategoryNotFound),
		errors.Is(err, repository.ErrProductNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, repository.ErrEmailTaken),
		errors.Is(err, repository.ErrCategoryNameTaken):
		return fiber.StatusConflict
	case errors.As(err, &notEmpty),
		errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrPasswordTooWeak),
		errors.Is(err, money.ErrInvalidAmount):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrWrongPassword):
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// fail writes the error with its mapped status. Internal errors are not
// echoed back to the client.
func fail(c *fiber.Ctx, err error) error {
	status := errorToStatus(err)

	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = "internal error"
	}

	return c.Status(status).JSON(fiber.Map{
		"error": msg,
	})
}
