package workers

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/repolens/repolens/internal/repositories"
	"github.com/repolens/repolens/internal/services"
	"github.com/repolens/repolens/pkg/logger"
)

// WorkerManager manages the pool of background workers
type WorkerManager struct {
	workers        []Worker
	jobRepo        *repositories.JobRepository
	repositoryRepo *repositories.RepositoryRepository
	importService  *services.GitHubImportService
	wg             sync.WaitGroup
	ctx            context.Context
	cancel         context.CancelFunc
}

// NewWorkerManager creates a new worker manager
func NewWorkerManager(
	jobRepo *repositories.JobRepository,
	repositoryRepo *repositories.RepositoryRepository,
	importService *services.GitHubImportService,
) *WorkerManager {
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerManager{
		workers:        make([]Worker, 0),
		jobRepo:        jobRepo,
		repositoryRepo: repositoryRepo,
		importService:  importService,
		ctx:            ctx,
		cancel:         cancel,
	}
}

// StartAll starts all workers based on environment configuration
func (wm *WorkerManager) StartAll() error {
	importWorkers := wm.getWorkerCount("IMPORT_WORKERS", 2)

	logger.Infof("Starting workers - Import: %d", importWorkers)

	for i := 0; i < importWorkers; i++ {
		worker := NewImportWorker(fmt.Sprintf("import-%d", i+1), wm.jobRepo, wm.repositoryRepo, wm.importService)
		wm.workers = append(wm.workers, worker)
		wm.startWorker(worker)
	}

	logger.Infof("Started %d total workers", len(wm.workers))
	return nil
}

// StopAll gracefully stops all workers
func (wm *WorkerManager) StopAll() error {
	logger.Info("Stopping all workers...")

	// Cancel the context to signal all workers to stop
	wm.cancel()

	for _, worker := range wm.workers {
		if err := worker.Stop(); err != nil {
			logger.Errorf("Error stopping worker %s: %v", worker.GetWorkerID(), err)
		}
	}

	// Wait for all workers to finish
	wm.wg.Wait()

	logger.Info("All workers stopped")
	return nil
}

// getWorkerCount reads worker count from environment variable with fallback
func (wm *WorkerManager) getWorkerCount(envVar string, defaultValue int) int {
	if value := os.Getenv(envVar); value != "" {
		if count, err := strconv.Atoi(value); err == nil && count > 0 {
			return count
		}
		logger.Warnf("Invalid value for %s, using default: %d", envVar, defaultValue)
	}
	return defaultValue
}

// startWorker starts a single worker in a goroutine
func (wm *WorkerManager) startWorker(worker Worker) {
	wm.wg.Add(1)
	go func() {
		defer wm.wg.Done()
		if err := worker.Start(wm.ctx); err != nil && err != context.Canceled {
			logger.Errorf("Worker %s stopped with error: %v", worker.GetWorkerID(), err)
		}
	}()
}
