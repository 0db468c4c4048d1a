package services

import (
	"github.com/repolens/repolens/internal/models"
	"github.com/repolens/repolens/internal/repositories"
)

type JobService struct {
	jobRepo *repositories.JobRepository
}

func NewJobService(jobRepo *repositories.JobRepository) *JobService {
	return &JobService{
		jobRepo: jobRepo,
	}
}

// CreateImportJob queues a GitHub import for a repository
func (s *JobService) CreateImportJob(repositoryID string) (*models.Job, error) {
	job := models.NewJob(repositoryID, models.JobTypeImport)
	if err := s.jobRepo.Create(job); err != nil {
		return nil, err
	}
	return job, nil
}

// GetJobByID retrieves a job by ID
func (s *JobService) GetJobByID(id string) (*models.Job, error) {
	return s.jobRepo.GetByID(id)
}

// GetJobsByRepositoryID retrieves all jobs for a repository
func (s *JobService) GetJobsByRepositoryID(repositoryID string) ([]*models.Job, error) {
	return s.jobRepo.GetByRepositoryID(repositoryID)
}
