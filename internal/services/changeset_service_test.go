package services

import (
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repolens/repolens/internal/repositories"
)

func setupChangesetService(t *testing.T) (*ChangesetService, *UserService) {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	schema, err := os.ReadFile("../../migrations/001_init.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	userService := NewUserService(repositories.NewUserRepository(db))
	changesetService := NewChangesetService(repositories.NewChangesetRepository(db), userService)
	return changesetService, userService
}

func TestRecordChangesetLinksRegisteredUser(t *testing.T) {
	changesetService, userService := setupChangesetService(t)

	user, err := userService.CreateUser("Jane", "Doe", "jane@example.com")
	require.NoError(t, err)

	committed := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	changeset, err := changesetService.RecordChangeset("r1", "abc123", "jd <jane@example.com>", "fix", committed, 3)
	require.NoError(t, err)
	require.NotNil(t, changeset)

	require.NotNil(t, changeset.UserID)
	assert.Equal(t, user.ID, *changeset.UserID)
	assert.Equal(t, "2024-06-01", changeset.CommitDate)
	assert.Equal(t, 3, changeset.Changes)
}

func TestRecordChangesetUnknownCommitterStaysUnlinked(t *testing.T) {
	changesetService, _ := setupChangesetService(t)

	changeset, err := changesetService.RecordChangeset("r1", "abc123", "drifter <nobody@example.com>", "", time.Now(), 1)
	require.NoError(t, err)
	require.NotNil(t, changeset)
	assert.Nil(t, changeset.UserID)
}

func TestRecordChangesetDeduplicatesRevisions(t *testing.T) {
	changesetService, _ := setupChangesetService(t)

	first, err := changesetService.RecordChangeset("r1", "abc123", "alice <alice@example.com>", "", time.Now(), 1)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := changesetService.RecordChangeset("r1", "abc123", "alice <alice@example.com>", "", time.Now(), 1)
	require.NoError(t, err)
	assert.Nil(t, second)

	changesets, err := changesetService.GetChangesetsByRepositoryID("r1")
	require.NoError(t, err)
	assert.Len(t, changesets, 1)
}

func TestRecordChangesetValidation(t *testing.T) {
	changesetService, _ := setupChangesetService(t)

	_, err := changesetService.RecordChangeset("r1", "", "alice <alice@example.com>", "", time.Now(), 1)
	assert.Error(t, err)

	_, err = changesetService.RecordChangeset("r1", "abc123", "   ", "", time.Now(), 1)
	assert.Error(t, err)
}
