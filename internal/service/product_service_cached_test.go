package service_test

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/akazakov/shop-backend/internal/domain"
	"github.com/akazakov/shop-backend/internal/repository"
)

func (s *IntegrationTestSuite) TestCachedFindByID_PopulatesCache() {
	category := s.createCategory("Electronics")
	product := s.createProduct("Laptop", category.ID)

	found, err := s.CachedProductService.FindByID(s.Ctx, product.ID)
	s.Require().NoError(err)
	s.Require().Equal(product.ID, found.ID)
	s.Require().Equal("Laptop", found.Name)

	val, err := s.RedisClient.Get(s.Ctx, fmt.Sprintf("product:%d", product.ID)).Result()
	s.Require().NoError(err)
	s.Require().NotEmpty(val)
}

func (s *IntegrationTestSuite) TestCachedFindByID_ServesFromCache() {
	category := s.createCategory("Electronics")
	product := s.createProduct("Laptop", category.ID)

	_, err := s.CachedProductService.FindByID(s.Ctx, product.ID)
	s.Require().NoError(err)

	// Writing past the decorator leaves the cached entry in place.
	_, err = s.DbPool.Exec(s.Ctx, "UPDATE products SET name = 'Renamed' WHERE id = $1", product.ID)
	s.Require().NoError(err)

	cached, err := s.CachedProductService.FindByID(s.Ctx, product.ID)
	s.Require().NoError(err)
	s.Equal("Laptop", cached.Name)
}

func (s *IntegrationTestSuite) TestCachedUpdate_InvalidatesCache() {
	category := s.createCategory("Electronics")
	product := s.createProduct("Laptop", category.ID)

	_, err := s.CachedProductService.FindByID(s.Ctx, product.ID)
	s.Require().NoError(err)

	name := "Gaming Laptop"
	_, err = s.CachedProductService.Update(s.Ctx, product.ID, &domain.UpdateProductInput{Name: &name})
	s.Require().NoError(err)

	_, err = s.RedisClient.Get(s.Ctx, fmt.Sprintf("product:%d", product.ID)).Result()
	s.Require().ErrorIs(err, redis.Nil)

	fresh, err := s.CachedProductService.FindByID(s.Ctx, product.ID)
	s.Require().NoError(err)
	s.Equal("Gaming Laptop", fresh.Name)
}

func (s *IntegrationTestSuite) TestCachedDeactivate_InvalidatesCache() {
	category := s.createCategory("Electronics")
	product := s.createProduct("Laptop", category.ID)

	_, err := s.CachedProductService.FindByID(s.Ctx, product.ID)
	s.Require().NoError(err)

	s.Require().NoError(s.CachedProductService.Deactivate(s.Ctx, product.ID))

	_, err = s.RedisClient.Get(s.Ctx, fmt.Sprintf("product:%d", product.ID)).Result()
	s.Require().ErrorIs(err, redis.Nil)

	_, err = s.CachedProductService.FindByID(s.Ctx, product.ID)
	s.Require().ErrorIs(err, repository.ErrProductNotFound)
}
