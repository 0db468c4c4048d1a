package workers

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/repolens/repolens/internal/models"
	"github.com/repolens/repolens/internal/repositories"
	"github.com/repolens/repolens/internal/services"
	"github.com/repolens/repolens/pkg/logger"
)

// ImportWorker processes GitHub import jobs
type ImportWorker struct {
	*BaseWorker
	jobRepo        *repositories.JobRepository
	repositoryRepo *repositories.RepositoryRepository
	importService  *services.GitHubImportService
}

// NewImportWorker creates a new import worker
func NewImportWorker(
	workerID string,
	jobRepo *repositories.JobRepository,
	repositoryRepo *repositories.RepositoryRepository,
	importService *services.GitHubImportService,
) *ImportWorker {
	return &ImportWorker{
		BaseWorker:     NewBaseWorker(workerID, models.JobTypeImport),
		jobRepo:        jobRepo,
		repositoryRepo: repositoryRepo,
		importService:  importService,
	}
}

// Start begins the import worker process
func (w *ImportWorker) Start(ctx context.Context) error {
	w.Running = true
	logger.Infof("Import worker %s started", w.WorkerID)

	for {
		select {
		case <-ctx.Done():
			logger.Infof("Import worker %s stopping due to context cancellation", w.WorkerID)
			return ctx.Err()
		case <-w.StopChan:
			logger.Infof("Import worker %s stopping", w.WorkerID)
			return nil
		default:
			// Try to claim a pending import job
			job, err := w.jobRepo.GetNextPendingJob(models.JobTypeImport, w.WorkerID)
			if err != nil {
				logger.Errorf("Import worker %s error getting job: %v", w.WorkerID, err)
				time.Sleep(5 * time.Second)
				continue
			}

			if job == nil {
				// No jobs available, sleep and try again
				time.Sleep(10 * time.Second)
				continue
			}

			w.processImportJob(ctx, job)
		}
	}
}

// processImportJob handles the actual import job processing
func (w *ImportWorker) processImportJob(ctx context.Context, job *models.Job) {
	logger.Infof("Import worker %s processing job %s", w.WorkerID, job.ID)

	repository, err := w.repositoryRepo.GetByID(job.RepositoryID)
	if err != nil {
		w.failJob(job, "repository not found: "+err.Error())
		return
	}

	imported, err := w.importService.ImportRepositoryCommits(ctx, repository)
	if err != nil {
		w.failJob(job, err.Error())
		return
	}

	job.MarkCompleted()
	if err := w.jobRepo.Update(job); err != nil {
		logger.Errorf("Import worker %s error completing job %s: %v", w.WorkerID, job.ID, err)
		return
	}

	logger.WithFields(logrus.Fields{
		"worker_id": w.WorkerID,
		"job_id":    job.ID,
		"imported":  imported,
	}).Info("Import job completed")
}

// failJob marks a job as failed with an error message
func (w *ImportWorker) failJob(job *models.Job, message string) {
	job.MarkFailed()
	job.SetError(message)
	if err := w.jobRepo.Update(job); err != nil {
		logger.Errorf("Import worker %s error failing job %s: %v", w.WorkerID, job.ID, err)
	}
	logger.Warnf("Import worker %s failed job %s: %s", w.WorkerID, job.ID, message)
}
