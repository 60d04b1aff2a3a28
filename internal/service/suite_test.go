package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/akazakov/shop-backend/internal/auth"
	"github.com/akazakov/shop-backend/internal/repository"
	"github.com/akazakov/shop-backend/internal/service"
	"github.com/akazakov/shop-backend/pkg/testsuite"
)

type IntegrationTestSuite struct {
	testsuite.BaseSuite

	UserService          service.UserService
	CategoryService      service.CategoryService
	ProductService       service.ProductService
	CachedProductService service.ProductService
}

func (s *IntegrationTestSuite) SetupSuite() {
	s.BaseSuite.SetupInfrastructure("../../migrations")
}

func (s *IntegrationTestSuite) TearDownSuite() {
	s.BaseSuite.TearDownInfrastructure()
}

func (s *IntegrationTestSuite) SetupTest() {
	s.BaseSuite.TruncateTable("products")
	s.BaseSuite.TruncateTable("categories")
	s.BaseSuite.TruncateTable("users")
	s.BaseSuite.FlushCache()

	logger := zap.NewNop()

	tokens, err := auth.NewTokenManager("test-secret", 15*time.Minute)
	s.Require().NoError(err)

	userRepo := repository.NewUserRepository(s.DbPool, logger)
	categoryRepo := repository.NewCategoryRepository(s.DbPool, logger)
	productRepo := repository.NewProductRepository(s.DbPool, logger)

	s.UserService = service.NewUserService(userRepo, tokens, s.DbPool, logger)
	s.CategoryService = service.NewCategoryService(categoryRepo, productRepo, s.DbPool, logger)
	s.ProductService = service.NewProductService(productRepo, categoryRepo, s.DbPool, logger)
	s.CachedProductService = service.NewCachedProductService(s.ProductService, s.RedisClient, time.Minute)
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}
