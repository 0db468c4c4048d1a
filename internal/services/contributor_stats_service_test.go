package services

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repolens/repolens/internal/models"
)

// fakeChangesetSource serves canned aggregates and records how often
// each query runs, so memoization can be asserted.
type fakeChangesetSource struct {
	links   []*models.CommitterUserLink
	commits map[string]int
	changes map[string]int
	perDate map[string]map[string]int

	linkCalls    int
	perDateCalls map[string]int
}

func (f *fakeChangesetSource) GetCommitterUserLinks(repositoryID string) ([]*models.CommitterUserLink, error) {
	f.linkCalls++
	return f.links, nil
}

func (f *fakeChangesetSource) CountCommitsByCommitter(repositoryID string) (map[string]int, error) {
	return f.commits, nil
}

func (f *fakeChangesetSource) CountChangesByCommitter(repositoryID string) (map[string]int, error) {
	return f.changes, nil
}

func (f *fakeChangesetSource) CountChangesByCommitterPerDate(repositoryID, committer string) (map[string]int, error) {
	if f.perDateCalls == nil {
		f.perDateCalls = make(map[string]int)
	}
	f.perDateCalls[committer]++
	return f.perDate[committer], nil
}

type fakeUserDirectory struct {
	users map[string]*models.User
}

func (f *fakeUserDirectory) GetByID(id string) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func newAliasFixture() (*fakeChangesetSource, *fakeUserDirectory) {
	source := &fakeChangesetSource{
		links: []*models.CommitterUserLink{
			{Committer: "Alice Smith <a.smith@example.com>", UserID: "u1"},
			{Committer: "alice <alice@example.com>", UserID: "u1"},
		},
		commits: map[string]int{
			"alice <alice@example.com>":         3,
			"Alice Smith <a.smith@example.com>": 2,
			"bob <bob@x.com> <bob@x.com>":       1,
		},
		changes: map[string]int{
			"alice <alice@example.com>":         5,
			"Alice Smith <a.smith@example.com>": 2,
			"bob <bob@x.com> <bob@x.com>":       4,
		},
		perDate: map[string]map[string]int{
			"alice <alice@example.com>":         {"2024-01-01": 2, "2024-01-02": 1},
			"Alice Smith <a.smith@example.com>": {"2024-01-02": 1, "2024-01-03": 1},
			"bob <bob@x.com> <bob@x.com>":       {"2024-02-10": 1},
		},
	}

	directory := &fakeUserDirectory{
		users: map[string]*models.User{
			"u1": {ID: "u1", FirstName: "Alice", LastName: "Smith", Email: "a.smith@example.com"},
		},
	}

	return source, directory
}

func TestContributorsMergeAliases(t *testing.T) {
	source, directory := newAliasFixture()
	session := NewContributorStatsService("r1", source, directory)

	contributors, err := session.Contributors()
	require.NoError(t, err)
	require.Len(t, contributors, 2)

	// Sorted by name ascending
	alice := contributors[0]
	bob := contributors[1]

	assert.Equal(t, "Alice Smith", alice.Name)
	assert.Equal(t, "a.smith@example.com", alice.Email)
	assert.Equal(t, 5, alice.TotalCommits)
	assert.Equal(t, 7, alice.TotalChanges)
	assert.ElementsMatch(t, []string{
		"alice <alice@example.com>",
		"Alice Smith <a.smith@example.com>",
	}, alice.Committers)
	assert.True(t, alice.Registered)

	assert.Equal(t, "bob", bob.Name)
	assert.Equal(t, "bob@x.com", bob.Email)
	assert.Equal(t, 1, bob.TotalCommits)
	assert.Equal(t, 4, bob.TotalChanges)
	assert.False(t, bob.Registered)
}

func TestContributorsPartitionProperty(t *testing.T) {
	source, directory := newAliasFixture()
	session := NewContributorStatsService("r1", source, directory)

	contributors, err := session.Contributors()
	require.NoError(t, err)

	// Every observed committer belongs to exactly one contributor
	seen := make(map[string]int)
	totalCommits := 0
	for _, contributor := range contributors {
		for _, committer := range contributor.Committers {
			seen[committer]++
		}
		totalCommits += contributor.TotalCommits
	}

	assert.Len(t, seen, len(source.commits))
	for committer, count := range seen {
		assert.Equal(t, 1, count, "committer %q appears in more than one contributor", committer)
		assert.Contains(t, source.commits, committer)
	}

	// Commit totals sum to the repository commit count
	repoCommits := 0
	for _, count := range source.commits {
		repoCommits += count
	}
	assert.Equal(t, repoCommits, totalCommits)
}

func TestCommitsPerAuthor(t *testing.T) {
	source, directory := newAliasFixture()
	session := NewContributorStatsService("r1", source, directory)

	data, err := session.CommitsPerAuthor()
	require.NoError(t, err)
	require.Len(t, data, 2)

	// Ordered by total commits descending
	assert.Equal(t, "Alice Smith", data[0].AuthorName)
	assert.Equal(t, 5, data[0].TotalCommits)
	assert.Equal(t, "bob", data[1].AuthorName)
	assert.Equal(t, 1, data[1].TotalCommits)

	// Member series merge by summing counts on shared dates, ascending
	alice := data[0]
	assert.Equal(t, []string{"2024-01-01", "2024-01-02", "2024-01-03"}, alice.Categories)
	require.Len(t, alice.Series, 1)
	assert.Equal(t, models.SeriesCommits, alice.Series[0].Name)
	assert.Equal(t, []int{2, 2, 1}, alice.Series[0].Data)
	assert.Len(t, alice.Series[0].Data, len(alice.Categories))
}

func TestCommitsPerAuthorGlobal(t *testing.T) {
	source, directory := newAliasFixture()
	session := NewContributorStatsService("r1", source, directory)

	summary, err := session.CommitsPerAuthorGlobal()
	require.NoError(t, err)

	assert.Equal(t, []string{"Alice Smith", "bob"}, summary.Categories)
	require.Len(t, summary.Series, 2)
	assert.Equal(t, models.SeriesCommits, summary.Series[0].Name)
	assert.Equal(t, []int{5, 1}, summary.Series[0].Data)
	assert.Equal(t, models.SeriesChanges, summary.Series[1].Name)
	assert.Equal(t, []int{7, 4}, summary.Series[1].Data)
}

func TestReportsAreIdempotentAndMemoized(t *testing.T) {
	source, directory := newAliasFixture()
	session := NewContributorStatsService("r1", source, directory)

	first, err := session.CommitsPerAuthor()
	require.NoError(t, err)
	second, err := session.CommitsPerAuthor()
	require.NoError(t, err)
	assert.Equal(t, first, second)

	firstGlobal, err := session.CommitsPerAuthorGlobal()
	require.NoError(t, err)
	secondGlobal, err := session.CommitsPerAuthorGlobal()
	require.NoError(t, err)
	assert.Equal(t, firstGlobal, secondGlobal)

	// The alias resolution and the per-committer series each ran once
	assert.Equal(t, 1, source.linkCalls)
	for committer, calls := range source.perDateCalls {
		assert.Equal(t, 1, calls, "series for %q computed more than once", committer)
	}
}

func TestEmptyRepository(t *testing.T) {
	source := &fakeChangesetSource{
		commits: map[string]int{},
		changes: map[string]int{},
		perDate: map[string]map[string]int{},
	}
	directory := &fakeUserDirectory{users: map[string]*models.User{}}
	session := NewContributorStatsService("empty", source, directory)

	data, err := session.CommitsPerAuthor()
	require.NoError(t, err)
	assert.Empty(t, data)

	summary, err := session.CommitsPerAuthorGlobal()
	require.NoError(t, err)
	assert.NotNil(t, summary.Categories)
	assert.Empty(t, summary.Categories)
	require.Len(t, summary.Series, 2)
	assert.Empty(t, summary.Series[0].Data)
	assert.Empty(t, summary.Series[1].Data)
}

func TestDanglingUserLinkFallsBackToAnonymous(t *testing.T) {
	source := &fakeChangesetSource{
		links: []*models.CommitterUserLink{
			{Committer: "ghost <ghost@x.com>", UserID: "deleted-user"},
		},
		commits: map[string]int{"ghost <ghost@x.com>": 4},
		changes: map[string]int{"ghost <ghost@x.com>": 6},
		perDate: map[string]map[string]int{
			"ghost <ghost@x.com>": {"2023-05-01": 4},
		},
	}
	directory := &fakeUserDirectory{users: map[string]*models.User{}}
	session := NewContributorStatsService("r1", source, directory)

	contributors, err := session.Contributors()
	require.NoError(t, err)
	require.Len(t, contributors, 1)

	// The committer is not dropped with its deleted user, it is
	// reported as an anonymous contributor
	assert.Equal(t, "ghost", contributors[0].Name)
	assert.Equal(t, "ghost@x.com", contributors[0].Email)
	assert.Equal(t, 4, contributors[0].TotalCommits)
	assert.False(t, contributors[0].Registered)
}

func TestDisplayNamesAreEscaped(t *testing.T) {
	source := &fakeChangesetSource{
		links: []*models.CommitterUserLink{
			{Committer: "mallory <m@x.com>", UserID: "u9"},
		},
		commits: map[string]int{"mallory <m@x.com>": 1},
		changes: map[string]int{"mallory <m@x.com>": 1},
		perDate: map[string]map[string]int{
			"mallory <m@x.com>": {"2023-01-01": 1},
		},
	}
	directory := &fakeUserDirectory{
		users: map[string]*models.User{
			"u9": {ID: "u9", FirstName: "<b>Mallory</b>", LastName: "O'Hara", Email: "m@x.com"},
		},
	}
	session := NewContributorStatsService("r1", source, directory)

	contributors, err := session.Contributors()
	require.NoError(t, err)
	require.Len(t, contributors, 1)

	assert.Equal(t, "&lt;b&gt;Mallory&lt;/b&gt; O&#39;Hara", contributors[0].Name)
	assert.Equal(t, "<b>Mallory</b> O'Hara", contributors[0].RawName)
}
