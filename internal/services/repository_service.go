package services

import (
	"strings"

	"github.com/repolens/repolens/internal/models"
	"github.com/repolens/repolens/internal/repositories"
)

type RepositoryService struct {
	repositoryRepo *repositories.RepositoryRepository
	changesetRepo  *repositories.ChangesetRepository
}

func NewRepositoryService(
	repositoryRepo *repositories.RepositoryRepository,
	changesetRepo *repositories.ChangesetRepository,
) *RepositoryService {
	return &RepositoryService{
		repositoryRepo: repositoryRepo,
		changesetRepo:  changesetRepo,
	}
}

// CreateRepository registers a repository for tracking
func (s *RepositoryService) CreateRepository(owner, name string) (*models.Repository, error) {
	owner = strings.TrimSpace(owner)
	name = strings.TrimSpace(name)

	if owner == "" || name == "" {
		return nil, &models.ValidationError{Message: "owner and name are required"}
	}

	if existing, err := s.repositoryRepo.GetByOwnerAndName(owner, name); err == nil && existing != nil {
		return nil, &models.ValidationError{Message: "repository is already tracked"}
	}

	repository := models.NewRepository(owner, name)
	if err := s.repositoryRepo.Create(repository); err != nil {
		return nil, err
	}
	return repository, nil
}

// GetRepositoryByID retrieves a repository by ID
func (s *RepositoryService) GetRepositoryByID(id string) (*models.Repository, error) {
	return s.repositoryRepo.GetByID(id)
}

// GetAllRepositories retrieves all tracked repositories
func (s *RepositoryService) GetAllRepositories() ([]*models.Repository, error) {
	return s.repositoryRepo.GetAll()
}

// DeleteRepository deletes a repository and its recorded changesets
func (s *RepositoryService) DeleteRepository(id string) error {
	if err := s.changesetRepo.DeleteByRepositoryID(id); err != nil {
		return err
	}
	return s.repositoryRepo.Delete(id)
}
