package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/repolens/repolens/internal/models"
	"github.com/repolens/repolens/internal/services"
)

type RepositoryHandler struct {
	repositoryService *services.RepositoryService
	changesetService  *services.ChangesetService
	jobService        *services.JobService
}

func NewRepositoryHandler(
	repositoryService *services.RepositoryService,
	changesetService *services.ChangesetService,
	jobService *services.JobService,
) *RepositoryHandler {
	return &RepositoryHandler{
		repositoryService: repositoryService,
		changesetService:  changesetService,
		jobService:        jobService,
	}
}

type createRepositoryRequest struct {
	Owner string `json:"owner" binding:"required"`
	Name  string `json:"name" binding:"required"`
}

// CreateRepository registers a repository for tracking
func (h *RepositoryHandler) CreateRepository(c *gin.Context) {
	var req createRepositoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	repository, err := h.repositoryService.CreateRepository(req.Owner, req.Name)
	if err != nil {
		var validationErr *models.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create repository"})
		return
	}

	c.JSON(http.StatusCreated, repository)
}

// ListRepositories returns all tracked repositories
func (h *RepositoryHandler) ListRepositories(c *gin.Context) {
	repos, err := h.repositoryService.GetAllRepositories()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list repositories"})
		return
	}
	if repos == nil {
		repos = []*models.Repository{}
	}

	c.JSON(http.StatusOK, repos)
}

// GetRepository returns one repository by ID
func (h *RepositoryHandler) GetRepository(c *gin.Context) {
	repository, err := h.repositoryService.GetRepositoryByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "repository not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get repository"})
		return
	}

	c.JSON(http.StatusOK, repository)
}

// DeleteRepository deletes a repository and its changesets
func (h *RepositoryHandler) DeleteRepository(c *gin.Context) {
	if err := h.repositoryService.DeleteRepository(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete repository"})
		return
	}

	c.Status(http.StatusNoContent)
}

type recordChangesetRequest struct {
	Revision    string    `json:"revision" binding:"required"`
	Committer   string    `json:"committer" binding:"required"`
	Message     string    `json:"message"`
	CommittedAt time.Time `json:"committed_at" binding:"required"`
	Changes     int       `json:"changes"`
}

// RecordChangeset records a single commit fact for a repository
func (h *RepositoryHandler) RecordChangeset(c *gin.Context) {
	repository, err := h.repositoryService.GetRepositoryByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "repository not found"})
		return
	}

	var req recordChangesetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	changeset, err := h.changesetService.RecordChangeset(
		repository.ID, req.Revision, req.Committer, req.Message, req.CommittedAt, req.Changes,
	)
	if err != nil {
		var validationErr *models.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record changeset"})
		return
	}
	if changeset == nil {
		// Revision already recorded
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusCreated, changeset)
}

// CreateImportJob queues a GitHub import for a repository
func (h *RepositoryHandler) CreateImportJob(c *gin.Context) {
	repository, err := h.repositoryService.GetRepositoryByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "repository not found"})
		return
	}

	job, err := h.jobService.CreateImportJob(repository.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create import job"})
		return
	}

	c.JSON(http.StatusAccepted, job)
}

// ListJobs returns the jobs of a repository
func (h *RepositoryHandler) ListJobs(c *gin.Context) {
	jobs, err := h.jobService.GetJobsByRepositoryID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list jobs"})
		return
	}
	if jobs == nil {
		jobs = []*models.Job{}
	}

	c.JSON(http.StatusOK, jobs)
}
