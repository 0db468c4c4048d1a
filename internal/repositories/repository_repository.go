package repositories

import (
	"database/sql"

	"github.com/repolens/repolens/internal/models"
)

type RepositoryRepository struct {
	db *sql.DB
}

func NewRepositoryRepository(db *sql.DB) *RepositoryRepository {
	return &RepositoryRepository{db: db}
}

// Create creates a new repository
func (r *RepositoryRepository) Create(repository *models.Repository) error {
	query := `
		INSERT INTO repositories (id, owner, name, created_at)
		VALUES (?, ?, ?, ?)
	`

	_, err := r.db.Exec(query, repository.ID, repository.Owner, repository.Name, repository.CreatedAt)
	return err
}

// GetByID retrieves a repository by ID
func (r *RepositoryRepository) GetByID(id string) (*models.Repository, error) {
	query := `
		SELECT id, owner, name, created_at
		FROM repositories WHERE id = ?
	`

	repository := &models.Repository{}
	err := r.db.QueryRow(query, id).Scan(
		&repository.ID, &repository.Owner, &repository.Name, &repository.CreatedAt,
	)

	if err != nil {
		return nil, err
	}

	return repository, nil
}

// GetByOwnerAndName retrieves a repository by its owner-qualified name
func (r *RepositoryRepository) GetByOwnerAndName(owner, name string) (*models.Repository, error) {
	query := `
		SELECT id, owner, name, created_at
		FROM repositories WHERE owner = ? AND name = ?
	`

	repository := &models.Repository{}
	err := r.db.QueryRow(query, owner, name).Scan(
		&repository.ID, &repository.Owner, &repository.Name, &repository.CreatedAt,
	)

	if err != nil {
		return nil, err
	}

	return repository, nil
}

// GetAll retrieves all repositories ordered by name
func (r *RepositoryRepository) GetAll() ([]*models.Repository, error) {
	query := `
		SELECT id, owner, name, created_at
		FROM repositories
		ORDER BY owner, name
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var repos []*models.Repository
	for rows.Next() {
		repository := &models.Repository{}
		err := rows.Scan(&repository.ID, &repository.Owner, &repository.Name, &repository.CreatedAt)
		if err != nil {
			return nil, err
		}
		repos = append(repos, repository)
	}

	return repos, rows.Err()
}

// Delete deletes a repository by ID
func (r *RepositoryRepository) Delete(id string) error {
	query := `DELETE FROM repositories WHERE id = ?`
	_, err := r.db.Exec(query, id)
	return err
}
