package services

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/repolens/repolens/internal/models"
	"github.com/repolens/repolens/internal/repositories"
)

type UserService struct {
	userRepo *repositories.UserRepository
}

func NewUserService(userRepo *repositories.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// CreateUser creates a new registered user
func (s *UserService) CreateUser(firstName, lastName, email string) (*models.User, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	email = strings.TrimSpace(email)

	if firstName == "" || lastName == "" {
		return nil, &models.ValidationError{Message: "first name and last name are required"}
	}
	if email == "" {
		return nil, &models.ValidationError{Message: "email is required"}
	}

	if existing, err := s.userRepo.GetByEmail(email); err == nil && existing != nil {
		return nil, &models.ValidationError{Message: "a user with this email already exists"}
	}

	user := models.NewUser(firstName, lastName, email)
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByID retrieves a user by ID
func (s *UserService) GetUserByID(id string) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// GetUserByEmail retrieves a user by email, returning nil when no user
// is registered under that address
func (s *UserService) GetUserByEmail(email string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// GetAllUsers retrieves all registered users
func (s *UserService) GetAllUsers() ([]*models.User, error) {
	return s.userRepo.GetAll()
}

// DeleteUser deletes a user by ID
func (s *UserService) DeleteUser(id string) error {
	return s.userRepo.Delete(id)
}
