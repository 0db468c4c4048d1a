package services

import (
	"strings"
	"time"

	"github.com/repolens/repolens/internal/models"
	"github.com/repolens/repolens/internal/repositories"
)

type ChangesetService struct {
	changesetRepo *repositories.ChangesetRepository
	userService   *UserService
	committers    *CommitterService
}

func NewChangesetService(
	changesetRepo *repositories.ChangesetRepository,
	userService *UserService,
) *ChangesetService {
	return &ChangesetService{
		changesetRepo: changesetRepo,
		userService:   userService,
		committers:    NewCommitterService(),
	}
}

// RecordChangeset records one commit fact for a repository. The
// committer's email annotation is matched against registered users to
// link the changeset to an account when possible. Re-recording a known
// revision is a no-op.
func (s *ChangesetService) RecordChangeset(repositoryID, revision, committer, message string, committedAt time.Time, changes int) (*models.Changeset, error) {
	revision = strings.TrimSpace(revision)
	if revision == "" {
		return nil, &models.ValidationError{Message: "revision is required"}
	}
	if strings.TrimSpace(committer) == "" {
		return nil, &models.ValidationError{Message: "committer is required"}
	}

	exists, err := s.changesetRepo.ExistsByRevision(repositoryID, revision)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, nil
	}

	changeset := models.NewChangeset(repositoryID, revision, committer, message, committedAt)
	if changes > 0 {
		changeset.SetChanges(changes)
	}

	if user, err := s.resolveCommitterUser(committer); err == nil && user != nil {
		changeset.SetUser(user.ID)
	}

	if err := s.changesetRepo.Create(changeset); err != nil {
		return nil, err
	}
	return changeset, nil
}

// GetChangesetsByRepositoryID retrieves all changesets for a repository
func (s *ChangesetService) GetChangesetsByRepositoryID(repositoryID string) ([]*models.Changeset, error) {
	return s.changesetRepo.GetByRepositoryID(repositoryID)
}

// resolveCommitterUser matches the email annotation of a raw committer
// string against the registered user directory
func (s *ChangesetService) resolveCommitterUser(committer string) (*models.User, error) {
	email := s.committers.ExtractEmail(committer)
	if email == "" {
		return nil, nil
	}
	return s.userService.GetUserByEmail(email)
}
