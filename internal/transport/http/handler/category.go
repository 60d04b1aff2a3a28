package handler

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/akazakov/shop-backend/internal/domain"
	"github.com/akazakov/shop-backend/internal/service"
	"github.com/akazakov/shop-backend/pkg/mylogger"
	"github.com/akazakov/shop-backend/pkg/utils"
)

type CategoryHandler struct {
	categories service.CategoryService
	products   service.ProductService
	validate   *validator.Validate
	logger     *zap.Logger
}

func NewCategoryHandler(categories service.CategoryService, products service.ProductService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categories: categories,
		products:   products,
		validate:   validator.New(),
		logger:     logger,
	}
}

type CreateCategoryInput struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

type UpdateCategoryInput struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), time.Second)
	defer cancel()

	input := new(CreateCategoryInput)

	if err := c.BodyParser(input); err != nil {
		h.logger.Warn(
			"failed to parse body in create category",
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

	category, err := h.categories.Create(ctx, &domain.Category{
		Name:        input.Name,
		Description: input.Description,
	})
	if err != nil {
		mylogger.Warn(
			ctx,
			h.logger,
			"create category failed",
			zap.String("name", input.Name),
			zap.Error(err),
		)

		return fail(c, err)
	}

	mylogger.Info(
		ctx,
		h.logger,
		"category created",
		zap.Int64("category_id", category.ID),
	)

	return c.Status(fiber.StatusCreated).JSON(toCategoryResponse(category, nil))
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), time.Second)
	defer cancel()

	categories, err := h.categories.List(ctx)
	if err != nil {
		mylogger.Warn(
			ctx,
			h.logger,
			"list categories failed",
			zap.Error(err),
		)

		return fail(c, err)
	}

	res := make([]categoryResponse, 0, len(categories))
	for i := range categories {
		res = append(res, toCategoryResponse(&categories[i], categories[i].Products))
	}

	return c.Status(fiber.StatusOK).JSON(res)
}

func (h *CategoryHandler) GetByID(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), time.Second)
	defer cancel()

	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid id",
		})
	}

	category, err := h.categories.GetByID(ctx, id)
	if err != nil {
		mylogger.Warn(
			ctx,
			h.logger,
			"get category failed",
			zap.Int64("category_id", id),
			zap.Error(err),
		)

		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(toCategoryResponse(category, category.Products))
}

func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), time.Second)
	defer cancel()

	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid id",
		})
	}

	input := new(UpdateCategoryInput)

	if err := c.BodyParser(input); err != nil {
		h.logger.Warn(
			"failed to parse body in update category",
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

	category, err := h.categories.Update(ctx, id, &domain.UpdateCategoryInput{
		Name:        input.Name,
		Description: input.Description,
	})
	if err != nil {
		mylogger.Warn(
			ctx,
			h.logger,
			"update category failed",
			zap.Int64("category_id", id),
			zap.Error(err),
		)

		return fail(c, err)
	}

	mylogger.Info(
		ctx,
		h.logger,
		"category updated",
		zap.Int64("category_id", id),
	)

	return c.Status(fiber.StatusOK).JSON(toCategoryResponse(category, category.Products))
}

func (h *CategoryHandler) Deactivate(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), time.Second)
	defer cancel()

	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid id",
		})
	}

	if err := h.categories.Deactivate(ctx, id); err != nil {
		mylogger.Warn(
			ctx,
			h.logger,
			"deactivate category failed",
			zap.Int64("category_id", id),
			zap.Error(err),
		)

		return fail(c, err)
	}

	mylogger.Info(
		ctx,
		h.logger,
		"category deactivated",
		zap.Int64("category_id", id),
	)

	return c.SendStatus(fiber.StatusNoContent)
}

// ListProducts serves /categories/:id/products. An unknown id yields an
// empty list, not an error.
func (h *CategoryHandler) ListProducts(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), time.Second)
	defer cancel()

	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid id",
		})
	}

	products, err := h.products.ListByCategory(ctx, id)
	if err != nil {
		mylogger.Warn(
			ctx,
			h.logger,
			"list products by category failed",
			zap.Int64("category_id", id),
			zap.Error(err),
		)

		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(toProductResponses(products))
}
