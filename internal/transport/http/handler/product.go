package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/akazakov/shop-backend/internal/domain"
	"github.com/akazakov/shop-backend/internal/money"
	"github.com/akazakov/shop-backend/internal/service"
	"github.com/akazakov/shop-backend/pkg/mylogger"
	"github.com/akazakov/shop-backend/pkg/utils"
)

type ProductHandler struct {
	products service.ProductService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewProductHandler(products service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		products: products,
		validate: validator.New(),
		logger:   logger,
	}
}

type CreateProductInput struct {
	Name        string  `json:"name" validate:"required,min=3,max=100"`
	Description string  `json:"description" validate:"max=1000"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Stock       int64   `json:"stock" validate:"gte=0"`
	ImageUrl    string  `json:"image_url" validate:"omitempty,url"`
	CategoryID  int64   `json:"category_id" validate:"required,gt=0"`
}

type UpdateProductInput struct {
	Name        *string  `json:"name" validate:"omitempty,min=3,max=100"`
	Description *string  `json:"description" validate:"omitempty,max=1000"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	Stock       *int64   `json:"stock" validate:"omitempty,gte=0"`
	ImageUrl    *string  `json:"image_url" validate:"omitempty,url"`
	CategoryID  *int64   `json:"category_id" validate:"omitempty,gt=0"`
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), time.Second)
	defer cancel()

	input := new(CreateProductInput)

	if err := c.BodyParser(input); err != nil {
		h.logger.Warn(
			"failed to parse body in create product",
			zap.Error(err),
		)

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := h.validate.Struct(input); err != nil {
		h.logger.Warn(
			"failed to validate create product input",
			zap.Error(err),
		)

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": utils.FormatValidationError(err),
		})
	}

	priceCents, err := money.ToCents(input.Price)
	if err != nil {
		return fail(c, err)
	}

	product, err := h.products.Create(ctx, &domain.Product{
		Name:        input.Name,
		Description: input.Description,
		PriceCents:  priceCents,
		Stock:       input.Stock,
		ImageUrl:    input.ImageUrl,
		CategoryID:  input.CategoryID,
	})
	if err != nil {
		mylogger.Warn(
			ctx,
			h.logger,
			"create product failed",
			zap.String("name", input.Name),
			zap.Error(err),
		)

		return fail(c, err)
	}

	mylogger.Info(
		ctx,
		h.logger,
		"product created",
		zap.Int64("product_id", product.ID),
	)

	return c.Status(fiber.StatusCreated).JSON(toProductResponse(product))
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), time.Second)
	defer cancel()

	limit := int64(20)
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.ParseInt(limitStr, 10, 64)
		if err != nil || parsed <= 0 || parsed > 100 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "limit is invalid",
			})
		}
		limit = parsed
	}

	var offset int64
	if offsetStr := c.Query("offset"); offsetStr != "" {
		parsed, err := strconv.ParseInt(offsetStr, 10, 64)
		if err != nil || parsed < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "offset is invalid",
			})
		}
		offset = parsed
	}

	search := c.Query("search")

	products, total, err := h.products.List(ctx, limit, offset, search)
	if err != nil {
		mylogger.Warn(
			ctx,
			h.logger,
			"list products failed",
			zap.Error(err),
		)

		return fail(c, err)
	}

	mylogger.Info(
		ctx,
		h.logger,
		"list products succeeded",
		zap.Int64("offset", offset),
		zap.Int64("limit", limit),
		zap.String("search", search),
		zap.Int64("total", total),
	)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"products":    toProductResponses(products),
		"total_count": total,
	})
}

func (h *ProductHandler) FindByID(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), time.Second)
	defer cancel()

	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid id",
		})
	}

	product, err := h.products.FindByID(ctx, id)
	if err != nil {
		mylogger.Warn(
			ctx,
			h.logger,
			"find product failed",
			zap.Int64("product_id", id),
			zap.Error(err),
		)

		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(toProductResponse(product))
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), time.Second)
	defer cancel()

	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid id",
		})
	}

	input := new(UpdateProductInput)

	if err := c.BodyParser(input); err != nil {
		h.logger.Warn(
			"failed to parse body in update product",
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

	update := &domain.UpdateProductInput{
		Name:        input.Name,
		Description: input.Description,
		Stock:       input.Stock,
		ImageUrl:    input.ImageUrl,
		CategoryID:  input.CategoryID,
	}

	if input.Price != nil {
		priceCents, err := money.ToCents(*input.Price)
		if err != nil {
			return fail(c, err)
		}
		update.PriceCents = &priceCents
	}

	product, err := h.products.Update(ctx, id, update)
	if err != nil {
		mylogger.Warn(
			ctx,
			h.logger,
			"update product failed",
			zap.Int64("product_id", id),
			zap.Error(err),
		)

		return fail(c, err)
	}

	mylogger.Info(
		ctx,
		h.logger,
		"product updated",
		zap.Int64("product_id", id),
	)

	return c.Status(fiber.StatusOK).JSON(toProductResponse(product))
}

func (h *ProductHandler) Deactivate(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), time.Second)
	defer cancel()

	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid id",
		})
	}

	if err := h.products.Deactivate(ctx, id); err != nil {
		mylogger.Warn(
			ctx,
			h.logger,
			"deactivate product failed",
			zap.Int64("product_id", id),
			zap.Error(err),
		)

		return fail(c, err)
	}

	mylogger.Info(
		ctx,
		h.logger,
		"product deactivated",
		zap.Int64("product_id", id),
	)

	return c.SendStatus(fiber.StatusNoContent)
}
