package service

import (
	"context"
	"fmt"

	"github.com/prologin/gcc-api/internal/domain"
	"github.com/prologin/gcc-api/internal/repository"
)

var ErrUserNotFound = repository.ErrUserNotFound

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	Update(ctx context.Context, user domain.User) (domain.User, error)
}

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

// UpdateProfile overwrites the profile fields an applicant can edit on the
// application form. Credentials and role are untouched.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, profile domain.User) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	user.FirstName = profile.FirstName
	user.LastName = profile.LastName
	user.Birthdate = profile.Birthdate
	user.Phone = profile.Phone
	user.Address = profile.Address
	user.PostalCode = profile.PostalCode
	user.City = profile.City
	user.Country = profile.Country
	user.SchoolStage = profile.SchoolStage

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}
