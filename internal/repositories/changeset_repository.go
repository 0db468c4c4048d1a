package repositories

import (
	"database/sql"

	"github.com/repolens/repolens/internal/models"
)

type ChangesetRepository struct {
	db *sql.DB
}

func NewChangesetRepository(db *sql.DB) *ChangesetRepository {
	return &ChangesetRepository{db: db}
}

// Create creates a new changeset
func (r *ChangesetRepository) Create(changeset *models.Changeset) error {
	query := `
		INSERT INTO changesets (
			id, repository_id, revision, committer, user_id, message,
			commit_date, committed_at, changes, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		changeset.ID, changeset.RepositoryID, changeset.Revision, changeset.Committer,
		changeset.UserID, changeset.Message, changeset.CommitDate, changeset.CommittedAt,
		changeset.Changes, changeset.CreatedAt,
	)

	return err
}

// GetByID retrieves a changeset by ID
func (r *ChangesetRepository) GetByID(id string) (*models.Changeset, error) {
	query := `
		SELECT id, repository_id, revision, committer, user_id, message,
		       commit_date, committed_at, changes, created_at
		FROM changesets WHERE id = ?
	`

	changeset := &models.Changeset{}
	err := r.db.QueryRow(query, id).Scan(
		&changeset.ID, &changeset.RepositoryID, &changeset.Revision, &changeset.Committer,
		&changeset.UserID, &changeset.Message, &changeset.CommitDate, &changeset.CommittedAt,
		&changeset.Changes, &changeset.CreatedAt,
	)

	if err != nil {
		return nil, err
	}

	return changeset, nil
}

// GetByRepositoryID retrieves all changesets for a repository
func (r *ChangesetRepository) GetByRepositoryID(repositoryID string) ([]*models.Changeset, error) {
	query := `
		SELECT id, repository_id, revision, committer, user_id, message,
		       commit_date, committed_at, changes, created_at
		FROM changesets WHERE repository_id = ?
		ORDER BY committed_at DESC
	`

	rows, err := r.db.Query(query, repositoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var changesets []*models.Changeset
	for rows.Next() {
		changeset := &models.Changeset{}
		err := rows.Scan(
			&changeset.ID, &changeset.RepositoryID, &changeset.Revision, &changeset.Committer,
			&changeset.UserID, &changeset.Message, &changeset.CommitDate, &changeset.CommittedAt,
			&changeset.Changes, &changeset.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		changesets = append(changesets, changeset)
	}

	return changesets, rows.Err()
}

// ExistsByRevision checks if a changeset exists for a repository revision
func (r *ChangesetRepository) ExistsByRevision(repositoryID, revision string) (bool, error) {
	query := `SELECT COUNT(*) FROM changesets WHERE repository_id = ? AND revision = ?`
	var count int
	err := r.db.QueryRow(query, repositoryID, revision).Scan(&count)
	return count > 0, err
}

// DeleteByRepositoryID deletes all changesets for a repository
func (r *ChangesetRepository) DeleteByRepositoryID(repositoryID string) error {
	query := `DELETE FROM changesets WHERE repository_id = ?`
	_, err := r.db.Exec(query, repositoryID)
	return err
}

// GetCommitterUserLinks retrieves the distinct (committer, user_id)
// pairs observed for a repository, restricted to linked commits
func (r *ChangesetRepository) GetCommitterUserLinks(repositoryID string) ([]*models.CommitterUserLink, error) {
	query := `
		SELECT DISTINCT committer, user_id
		FROM changesets
		WHERE repository_id = ? AND user_id IS NOT NULL
		ORDER BY committer, user_id
	`

	rows, err := r.db.Query(query, repositoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []*models.CommitterUserLink
	for rows.Next() {
		link := &models.CommitterUserLink{}
		if err := rows.Scan(&link.Committer, &link.UserID); err != nil {
			return nil, err
		}
		links = append(links, link)
	}

	return links, rows.Err()
}

// CountCommitsByCommitter returns the number of commits per raw
// committer string for a repository
func (r *ChangesetRepository) CountCommitsByCommitter(repositoryID string) (map[string]int, error) {
	query := `
		SELECT committer, COUNT(*)
		FROM changesets
		WHERE repository_id = ?
		GROUP BY committer
	`

	rows, err := r.db.Query(query, repositoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var committer string
		var count int
		if err := rows.Scan(&committer, &count); err != nil {
			return nil, err
		}
		counts[committer] = count
	}

	return counts, rows.Err()
}

// CountChangesByCommitter returns the summed change units per raw
// committer string for a repository
func (r *ChangesetRepository) CountChangesByCommitter(repositoryID string) (map[string]int, error) {
	query := `
		SELECT committer, COALESCE(SUM(changes), 0)
		FROM changesets
		WHERE repository_id = ?
		GROUP BY committer
	`

	rows, err := r.db.Query(query, repositoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var committer string
		var count int
		if err := rows.Scan(&committer, &count); err != nil {
			return nil, err
		}
		counts[committer] = count
	}

	return counts, rows.Err()
}

// CountChangesByCommitterPerDate returns the commit activity of one raw
// committer bucketed by commit date, ascending
func (r *ChangesetRepository) CountChangesByCommitterPerDate(repositoryID, committer string) (map[string]int, error) {
	query := `
		SELECT commit_date, COUNT(*)
		FROM changesets
		WHERE repository_id = ? AND committer = ?
		GROUP BY commit_date
		ORDER BY commit_date ASC
	`

	rows, err := r.db.Query(query, repositoryID, committer)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var date string
		var count int
		if err := rows.Scan(&date, &count); err != nil {
			return nil, err
		}
		counts[date] = count
	}

	return counts, rows.Err()
}
