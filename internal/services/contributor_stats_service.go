package services

import (
	"fmt"
	"html"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/repolens/repolens/internal/models"
	"github.com/repolens/repolens/pkg/logger"
)

// ChangesetSource provides aggregated commit facts for repositories.
// It is the only view of the changeset store the statistics engine
// depends on.
type ChangesetSource interface {
	GetCommitterUserLinks(repositoryID string) ([]*models.CommitterUserLink, error)
	CountCommitsByCommitter(repositoryID string) (map[string]int, error)
	CountChangesByCommitter(repositoryID string) (map[string]int, error)
	CountChangesByCommitterPerDate(repositoryID, committer string) (map[string]int, error)
}

// UserDirectory resolves registered user accounts by ID.
type UserDirectory interface {
	GetByID(id string) (*models.User, error)
}

// ContributorStatsService reconciles raw committer strings against
// registered users and aggregates commit activity per contributor. One
// instance serves one report request for one repository: the merged
// contributor list and the per-committer date series are memoized for
// the lifetime of the instance and must not be shared across requests.
type ContributorStatsService struct {
	repositoryID string
	changesets   ChangesetSource
	users        UserDirectory

	contributors        []*models.Contributor
	changesForCommitter map[string]map[string]int
}

// NewContributorStatsService creates a report session for one repository
func NewContributorStatsService(repositoryID string, changesets ChangesetSource, users UserDirectory) *ContributorStatsService {
	return &ContributorStatsService{
		repositoryID:        repositoryID,
		changesets:          changesets,
		users:               users,
		changesForCommitter: make(map[string]map[string]int),
	}
}

// committerService is stateless, shared by all sessions.
var committerService = NewCommitterService()

// identityKey groups committer-user links belonging to one registered
// display identity.
type identityKey struct {
	name  string
	email string
}

// contributorsWithAliases builds the merged contributor set: every raw
// committer string observed in the repository belongs to exactly one
// contributor, registered or anonymous. The result is sorted by name
// ascending and cached on the session.
func (s *ContributorStatsService) contributorsWithAliases() ([]*models.Contributor, error) {
	if s.contributors != nil {
		return s.contributors, nil
	}

	links, err := s.changesets.GetCommitterUserLinks(s.repositoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load committer user links: %w", err)
	}

	// Group linked committers by registered display identity. A committer
	// whose linked user has been deleted is not claimed here, so it falls
	// through to anonymous handling below instead of being dropped.
	claimed := make(map[string]bool)
	groups := make(map[identityKey][]string)
	var groupOrder []identityKey
	for _, link := range links {
		user, err := s.users.GetByID(link.UserID)
		if err != nil {
			logger.WithFields(logrus.Fields{
				"repository_id": s.repositoryID,
				"user_id":       link.UserID,
			}).Warnf("Skipping committer link to unresolvable user")
			continue
		}

		key := identityKey{name: user.FullName(), email: user.Email}
		if _, seen := groups[key]; !seen {
			groupOrder = append(groupOrder, key)
		}
		groups[key] = append(groups[key], link.Committer)
		claimed[link.Committer] = true
	}

	commitCounts, err := s.changesets.CountCommitsByCommitter(s.repositoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to count commits: %w", err)
	}
	changeCounts, err := s.changesets.CountChangesByCommitter(s.repositoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to count changes: %w", err)
	}

	// Sorted committer iteration keeps the base order deterministic.
	committers := make([]string, 0, len(commitCounts))
	for committer := range commitCounts {
		committers = append(committers, committer)
	}
	sort.Strings(committers)

	merged := make([]*models.Contributor, 0, len(committers))

	// Unclaimed committers become singleton anonymous contributors.
	for _, committer := range committers {
		if claimed[committer] {
			continue
		}

		rawName := committerService.NormalizeName(committer)
		merged = append(merged, &models.Contributor{
			Name:         html.EscapeString(rawName),
			RawName:      rawName,
			Email:        committerService.ExtractEmail(committer),
			TotalCommits: commitCounts[committer],
			TotalChanges: changeCounts[committer],
			Committers:   []string{committer},
		})
	}

	// Registered identities merge the totals of all their committers.
	for _, key := range groupOrder {
		members := groups[key]
		commits := 0
		changes := 0
		for _, committer := range members {
			commits += commitCounts[committer]
			changes += changeCounts[committer]
		}

		merged = append(merged, &models.Contributor{
			Name:         html.EscapeString(key.name),
			RawName:      key.name,
			Email:        key.email,
			TotalCommits: commits,
			TotalChanges: changes,
			Committers:   members,
			Registered:   true,
		})
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].RawName < merged[j].RawName
	})

	s.contributors = merged
	return s.contributors, nil
}

// countChangesForCommitter returns the date-bucketed commit activity of
// one raw committer, computed at most once per session.
func (s *ContributorStatsService) countChangesForCommitter(committer string) (map[string]int, error) {
	if series, ok := s.changesForCommitter[committer]; ok {
		return series, nil
	}

	series, err := s.changesets.CountChangesByCommitterPerDate(s.repositoryID, committer)
	if err != nil {
		return nil, fmt.Errorf("failed to count changes for committer %q: %w", committer, err)
	}

	s.changesForCommitter[committer] = series
	return series, nil
}

// CommitsPerAuthor returns the per-author detail list: one date-bucketed
// commit series per contributor, ordered by total commits descending.
// The date series of a contributor's member committers are merged by
// summing counts on shared dates.
func (s *ContributorStatsService) CommitsPerAuthor() ([]*models.AuthorActivity, error) {
	contributors, err := s.contributorsWithAliases()
	if err != nil {
		return nil, err
	}

	byCommits := make([]*models.Contributor, len(contributors))
	copy(byCommits, contributors)
	sort.SliceStable(byCommits, func(i, j int) bool {
		return byCommits[i].TotalCommits > byCommits[j].TotalCommits
	})

	data := make([]*models.AuthorActivity, 0, len(byCommits))
	for _, contributor := range byCommits {
		merged := make(map[string]int)
		for _, committer := range contributor.Committers {
			series, err := s.countChangesForCommitter(committer)
			if err != nil {
				return nil, err
			}
			for date, count := range series {
				merged[date] += count
			}
		}

		// Chronological x-axis: date keys sort ascending.
		dates := make([]string, 0, len(merged))
		for date := range merged {
			dates = append(dates, date)
		}
		sort.Strings(dates)

		counts := make([]int, 0, len(dates))
		for _, date := range dates {
			counts = append(counts, merged[date])
		}

		data = append(data, &models.AuthorActivity{
			AuthorName:   contributor.Name,
			AuthorMail:   contributor.Email,
			TotalCommits: contributor.TotalCommits,
			Categories:   dates,
			Series: []models.ReportSeries{
				{Name: models.SeriesCommits, Data: counts},
			},
		})
	}

	return data, nil
}

// CommitsPerAuthorGlobal returns the global totals table: contributor
// names ordered ascending with parallel commit and change count series.
func (s *ContributorStatsService) CommitsPerAuthorGlobal() (*models.ContributionSummary, error) {
	contributors, err := s.contributorsWithAliases()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(contributors))
	commits := make([]int, 0, len(contributors))
	changes := make([]int, 0, len(contributors))
	for _, contributor := range contributors {
		names = append(names, contributor.Name)
		commits = append(commits, contributor.TotalCommits)
		changes = append(changes, contributor.TotalChanges)
	}

	return &models.ContributionSummary{
		Categories: names,
		Series: []models.ReportSeries{
			{Name: models.SeriesCommits, Data: commits},
			{Name: models.SeriesChanges, Data: changes},
		},
	}, nil
}

// Contributors returns the merged contributor set sorted by name
// ascending
func (s *ContributorStatsService) Contributors() ([]*models.Contributor, error) {
	return s.contributorsWithAliases()
}
