package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewChangesetDerivesUTCDateBucket(t *testing.T) {
	// 23:30 in UTC-5 is already the next day in UTC
	loc := time.FixedZone("UTC-5", -5*60*60)
	committed := time.Date(2024, 6, 1, 23, 30, 0, 0, loc)

	changeset := NewChangeset("r1", "abc", "alice <alice@example.com>", "msg", committed)

	assert.Equal(t, "2024-06-02", changeset.CommitDate)
	assert.Equal(t, 1, changeset.Changes)
	assert.Nil(t, changeset.UserID)
	assert.NotEmpty(t, changeset.ID)
}

func TestChangesetSetters(t *testing.T) {
	changeset := NewChangeset("r1", "abc", "alice <alice@example.com>", "msg", time.Now())

	changeset.SetUser("u1")
	changeset.SetChanges(7)

	if assert.NotNil(t, changeset.UserID) {
		assert.Equal(t, "u1", *changeset.UserID)
	}
	assert.Equal(t, 7, changeset.Changes)
}
