package service_test

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/akazakov/shop-backend/internal/domain"
	"github.com/akazakov/shop-backend/internal/repository"
	"github.com/akazakov/shop-backend/internal/service"
)

func (s *IntegrationTestSuite) TestRegisterUser_Success() {
	user, err := s.UserService.Register(s.Ctx, "a@x.com", "secret1", "A", "B")
	s.Require().NoError(err)
	s.Require().NotZero(user.ID)
	s.Require().True(user.Active)

	var dbEmail, dbHash string
	err = s.DbPool.QueryRow(s.Ctx, "SELECT email, password_hash FROM users WHERE id=$1", user.ID).
		Scan(&dbEmail, &dbHash)
	s.Require().NoError(err)

	s.Equal("a@x.com", dbEmail)
	s.NotEqual("secret1", dbHash)
	s.NoError(bcrypt.CompareHashAndPassword([]byte(dbHash), []byte("secret1")))
}

func (s *IntegrationTestSuite) TestRegisterDuplicateEmail_Conflict() {
	_, err := s.UserService.Register(s.Ctx, "a@x.com", "secret1", "A", "B")
	s.Require().NoError(err)

	_, err = s.UserService.Register(s.Ctx, "a@x.com", "another1pass", "C", "D")
	s.Require().ErrorIs(err, repository.ErrEmailTaken)
}

func (s *IntegrationTestSuite) TestRegisterWeakPassword_Rejected() {
	_, err := s.UserService.Register(s.Ctx, "a@x.com", "ab1", "A", "B")
	s.Require().ErrorIs(err, service.ErrPasswordTooShort)

	_, err = s.UserService.Register(s.Ctx, "a@x.com", "onlyletters", "A", "B")
	s.Require().ErrorIs(err, service.ErrPasswordTooWeak)
}

func (s *IntegrationTestSuite) TestLogin() {
	_, err := s.UserService.Register(s.Ctx, "a@x.com", "secret1", "A", "B")
	s.Require().NoError(err)

	token, err := s.UserService.Login(s.Ctx, "a@x.com", "secret1")
	s.Require().NoError(err)
	s.Require().NotEmpty(token)

	_, err = s.UserService.Login(s.Ctx, "a@x.com", "wrongpass123")
	s.Require().ErrorIs(err, service.ErrWrongPassword)

	_, err = s.UserService.Login(s.Ctx, "nobody@x.com", "secret1")
	s.Require().ErrorIs(err, repository.ErrUserNotFound)
}

func (s *IntegrationTestSuite) TestUpdateUserEmail() {
	first, err := s.UserService.Register(s.Ctx, "a@x.com", "secret1", "A", "B")
	s.Require().NoError(err)

	second, err := s.UserService.Register(s.Ctx, "b@x.com", "secret1", "C", "D")
	s.Require().NoError(err)

	taken := first.Email
	_, err = s.UserService.Update(s.Ctx, second.ID, &domain.UpdateUserInput{Email: &taken})
	s.Require().ErrorIs(err, repository.ErrEmailTaken)

	// Renaming to the current value is a no-op, not a self-conflict.
	own := second.Email
	updated, err := s.UserService.Update(s.Ctx, second.ID, &domain.UpdateUserInput{Email: &own})
	s.Require().NoError(err)
	s.Equal("b@x.com", updated.Email)
}

func (s *IntegrationTestSuite) TestUpdateUserPartial() {
	user, err := s.UserService.Register(s.Ctx, "a@x.com", "secret1", "A", "B")
	s.Require().NoError(err)

	givenName := "Anna"
	updated, err := s.UserService.Update(s.Ctx, user.ID, &domain.UpdateUserInput{GivenName: &givenName})
	s.Require().NoError(err)

	s.Equal("Anna", updated.GivenName)
	s.Equal(user.Email, updated.Email)
	s.Equal(user.FamilyName, updated.FamilyName)
	s.True(updated.UpdatedAt.After(user.UpdatedAt) || updated.UpdatedAt.Equal(user.UpdatedAt))
}

func (s *IntegrationTestSuite) TestDeactivateUser() {
	user, err := s.UserService.Register(s.Ctx, "a@x.com", "secret1", "A", "B")
	s.Require().NoError(err)

	s.Require().NoError(s.UserService.Deactivate(s.Ctx, user.ID))

	_, err = s.UserService.GetByID(s.Ctx, user.ID)
	s.Require().ErrorIs(err, repository.ErrUserNotFound)

	users, err := s.UserService.List(s.Ctx)
	s.Require().NoError(err)
	s.Empty(users)

	// The row survives, so the email stays reserved.
	_, err = s.UserService.Register(s.Ctx, "a@x.com", "secret1", "A", "B")
	s.Require().ErrorIs(err, repository.ErrEmailTaken)

	s.Require().ErrorIs(s.UserService.Deactivate(s.Ctx, user.ID), repository.ErrUserNotFound)
}
