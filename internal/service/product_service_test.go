package service_test

import (
	"github.com/akazakov/shop-backend/internal/domain"
	"github.com/akazakov/shop-backend/internal/repository"
)

func (s *IntegrationTestSuite) TestCreateProduct_Success() {
	category := s.createCategory("Electronics")

	product, err := s.ProductService.Create(s.Ctx, &domain.Product{
		Name:       "Laptop",
		PriceCents: 99999,
		Stock:      5,
		CategoryID: category.ID,
	})
	s.Require().NoError(err)
	s.Require().NotZero(product.ID)
	s.Require().NotNil(product.Category)
	s.Equal("Electronics", product.Category.Name)

	loaded, err := s.ProductService.FindByID(s.Ctx, product.ID)
	s.Require().NoError(err)
	s.Require().NotNil(loaded.Category)
	s.Equal("Electronics", loaded.Category.Name)
	s.Equal(int64(99999), loaded.PriceCents)
}

func (s *IntegrationTestSuite) TestCreateProductMissingCategory_NotFound() {
	_, err := s.ProductService.Create(s.Ctx, &domain.Product{
		Name:       "Laptop",
		PriceCents: 99999,
		Stock:      5,
		CategoryID: 12345,
	})
	s.Require().ErrorIs(err, repository.ErrCategoryNotFound)
}

func (s *IntegrationTestSuite) TestCreateProductInactiveCategory_NotFound() {
	category := s.createCategory("Electronics")
	s.Require().NoError(s.CategoryService.Deactivate(s.Ctx, category.ID))

	_, err := s.ProductService.Create(s.Ctx, &domain.Product{
		Name:       "Laptop",
		PriceCents: 99999,
		Stock:      5,
		CategoryID: category.ID,
	})
	s.Require().ErrorIs(err, repository.ErrCategoryNotFound)
}

func (s *IntegrationTestSuite) TestUpdateProductPartial() {
	category := s.createCategory("Electronics")
	product := s.createProduct("Laptop", category.ID)

	name := "Gaming Laptop"
	updated, err := s.ProductService.Update(s.Ctx, product.ID, &domain.UpdateProductInput{Name: &name})
	s.Require().NoError(err)

	s.Equal("Gaming Laptop", updated.Name)
	s.Equal(product.PriceCents, updated.PriceCents)
	s.Equal(product.Stock, updated.Stock)
	s.Equal(product.CategoryID, updated.CategoryID)
}

func (s *IntegrationTestSuite) TestUpdateProductCategory() {
	electronics := s.createCategory("Electronics")
	books := s.createCategory("Books")
	product := s.createProduct("Laptop", electronics.ID)

	missing := int64(12345)
	_, err := s.ProductService.Update(s.Ctx, product.ID, &domain.UpdateProductInput{CategoryID: &missing})
	s.Require().ErrorIs(err, repository.ErrCategoryNotFound)

	// Resending the current category id is validated too, and succeeds.
	same := electronics.ID
	kept, err := s.ProductService.Update(s.Ctx, product.ID, &domain.UpdateProductInput{CategoryID: &same})
	s.Require().NoError(err)
	s.Equal(electronics.ID, kept.CategoryID)

	updated, err := s.ProductService.Update(s.Ctx, product.ID, &domain.UpdateProductInput{CategoryID: &books.ID})
	s.Require().NoError(err)
	s.Equal(books.ID, updated.CategoryID)
	s.Require().NotNil(updated.Category)
	s.Equal("Books", updated.Category.Name)
}

func (s *IntegrationTestSuite) TestListProducts() {
	category := s.createCategory("Electronics")
	s.createProduct("Laptop", category.ID)
	s.createProduct("Phone", category.ID)
	s.createProduct("Tablet", category.ID)

	products, total, err := s.ProductService.List(s.Ctx, 2, 0, "")
	s.Require().NoError(err)
	s.Len(products, 2)
	s.Equal(int64(3), total)

	products, total, err = s.ProductService.List(s.Ctx, 10, 0, "lap")
	s.Require().NoError(err)
	s.Require().Len(products, 1)
	s.Equal("Laptop", products[0].Name)
	s.Equal(int64(1), total)
}

func (s *IntegrationTestSuite) TestListByCategory() {
	electronics := s.createCategory("Electronics")
	books := s.createCategory("Books")
	s.createProduct("Laptop", electronics.ID)

	products, err := s.ProductService.ListByCategory(s.Ctx, electronics.ID)
	s.Require().NoError(err)
	s.Len(products, 1)

	// Unknown or empty categories are not an error.
	products, err = s.ProductService.ListByCategory(s.Ctx, books.ID)
	s.Require().NoError(err)
	s.Empty(products)

	products, err = s.ProductService.ListByCategory(s.Ctx, 12345)
	s.Require().NoError(err)
	s.Empty(products)
}

func (s *IntegrationTestSuite) TestDeactivateProduct() {
	category := s.createCategory("Electronics")
	product := s.createProduct("Laptop", category.ID)

	s.Require().NoError(s.ProductService.Deactivate(s.Ctx, product.ID))

	_, err := s.ProductService.FindByID(s.Ctx, product.ID)
	s.Require().ErrorIs(err, repository.ErrProductNotFound)

	products, _, err := s.ProductService.List(s.Ctx, 10, 0, "")
	s.Require().NoError(err)
	s.Empty(products)

	s.Require().ErrorIs(s.ProductService.Deactivate(s.Ctx, product.ID), repository.ErrProductNotFound)
}
