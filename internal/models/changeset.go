package models

import (
	"time"

	"github.com/google/uuid"
)

// CommitDateLayout is the bucket key format for per-date aggregation.
// Lexicographic order of these keys is chronological order.
const CommitDateLayout = "2006-01-02"

// Changeset is one commit fact recorded for a repository. Committer is
// the raw version-control identity string, typically "Name <email>".
// UserID is set when the committer was matched to a registered user.
type Changeset struct {
	ID           string    `json:"id"`
	RepositoryID string    `json:"repository_id"`
	Revision     string    `json:"revision"`
	Committer    string    `json:"committer"`
	UserID       *string   `json:"user_id"`
	Message      string    `json:"message"`
	CommitDate   string    `json:"commit_date"`
	CommittedAt  time.Time `json:"committed_at"`
	Changes      int       `json:"changes"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewChangeset creates a new Changeset with a generated UUID. The
// commit_date bucket is derived from the commit timestamp in UTC.
func NewChangeset(repositoryID, revision, committer, message string, committedAt time.Time) *Changeset {
	return &Changeset{
		ID:           uuid.New().String(),
		RepositoryID: repositoryID,
		Revision:     revision,
		Committer:    committer,
		Message:      message,
		CommitDate:   committedAt.UTC().Format(CommitDateLayout),
		CommittedAt:  committedAt,
		Changes:      1,
		CreatedAt:    time.Now(),
	}
}

// SetUser links this changeset to a registered user account
func (c *Changeset) SetUser(userID string) {
	c.UserID = &userID
}

// SetChanges sets the number of recorded change units for this commit
func (c *Changeset) SetChanges(changes int) {
	c.Changes = changes
}

// CommitterUserLink is one observed pairing of a raw committer string
// with a registered user account.
type CommitterUserLink struct {
	Committer string `json:"committer"`
	UserID    string `json:"user_id"`
}
