package service_test

import (
	"errors"

	"github.com/akazakov/shop-backend/internal/domain"
	"github.com/akazakov/shop-backend/internal/repository"
	"github.com/akazakov/shop-backend/internal/service"
)

func (s *IntegrationTestSuite) createCategory(name string) *domain.Category {
	category, err := s.CategoryService.Create(s.Ctx, &domain.Category{Name: name})
	s.Require().NoError(err)
	s.Require().NotZero(category.ID)
	return category
}

func (s *IntegrationTestSuite) createProduct(name string, categoryID int64) *domain.Product {
	product, err := s.ProductService.Create(s.Ctx, &domain.Product{
		Name:       name,
		PriceCents: 99999,
		Stock:      5,
		CategoryID: categoryID,
	})
	s.Require().NoError(err)
	s.Require().NotZero(product.ID)
	return product
}

func (s *IntegrationTestSuite) TestCreateCategoryDuplicateName_Conflict() {
	s.createCategory("Electronics")

	_, err := s.CategoryService.Create(s.Ctx, &domain.Category{Name: "Electronics"})
	s.Require().ErrorIs(err, repository.ErrCategoryNameTaken)
}

func (s *IntegrationTestSuite) TestUpdateCategoryName() {
	s.createCategory("Electronics")
	books := s.createCategory("Books")

	taken := "Electronics"
	_, err := s.CategoryService.Update(s.Ctx, books.ID, &domain.UpdateCategoryInput{Name: &taken})
	s.Require().ErrorIs(err, repository.ErrCategoryNameTaken)

	own := "Books"
	updated, err := s.CategoryService.Update(s.Ctx, books.ID, &domain.UpdateCategoryInput{Name: &own})
	s.Require().NoError(err)
	s.Equal("Books", updated.Name)
}

func (s *IntegrationTestSuite) TestDeactivateCategoryGuard() {
	category := s.createCategory("Electronics")
	product := s.createProduct("Laptop", category.ID)

	err := s.CategoryService.Deactivate(s.Ctx, category.ID)
	s.Require().Error(err)

	var notEmpty *service.CategoryNotEmptyError
	s.Require().True(errors.As(err, &notEmpty))
	s.Equal(int64(1), notEmpty.Count)
	s.Contains(err.Error(), "1 active product(s)")

	s.Require().NoError(s.ProductService.Deactivate(s.Ctx, product.ID))
	s.Require().NoError(s.CategoryService.Deactivate(s.Ctx, category.ID))

	categories, err := s.CategoryService.List(s.Ctx)
	s.Require().NoError(err)
	s.Empty(categories)
}

func (s *IntegrationTestSuite) TestDeactivateCategory_NotFound() {
	s.Require().ErrorIs(
		s.CategoryService.Deactivate(s.Ctx, 12345),
		repository.ErrCategoryNotFound,
	)
}

func (s *IntegrationTestSuite) TestDeactivatedCategoryKeepsNameReserved() {
	category := s.createCategory("Electronics")
	s.Require().NoError(s.CategoryService.Deactivate(s.Ctx, category.ID))

	_, err := s.CategoryService.GetByID(s.Ctx, category.ID)
	s.Require().ErrorIs(err, repository.ErrCategoryNotFound)

	_, err = s.CategoryService.Create(s.Ctx, &domain.Category{Name: "Electronics"})
	s.Require().ErrorIs(err, repository.ErrCategoryNameTaken)
}

func (s *IntegrationTestSuite) TestCategoryIncludesOnlyActiveProducts() {
	category := s.createCategory("Electronics")
	kept := s.createProduct("Laptop", category.ID)
	dropped := s.createProduct("Phone", category.ID)

	s.Require().NoError(s.ProductService.Deactivate(s.Ctx, dropped.ID))

	loaded, err := s.CategoryService.GetByID(s.Ctx, category.ID)
	s.Require().NoError(err)
	s.Require().Len(loaded.Products, 1)
	s.Equal(kept.ID, loaded.Products[0].ID)
}
