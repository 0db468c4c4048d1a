package services

import (
	"context"
	"fmt"

	"github.com/google/go-github/v57/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/repolens/repolens/internal/models"
	"github.com/repolens/repolens/pkg/logger"
)

// GitHubImportService pulls a repository's commit history from the
// GitHub API and records each commit as a changeset.
type GitHubImportService struct {
	changesetService *ChangesetService
	token            string
}

func NewGitHubImportService(changesetService *ChangesetService, token string) *GitHubImportService {
	return &GitHubImportService{
		changesetService: changesetService,
		token:            token,
	}
}

// createGitHubClient creates a GitHub client, authenticated when a
// token is configured
func (s *GitHubImportService) createGitHubClient(ctx context.Context) *github.Client {
	if s.token == "" {
		return github.NewClient(nil)
	}
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: s.token},
	)
	tc := oauth2.NewClient(ctx, ts)
	return github.NewClient(tc)
}

// ImportRepositoryCommits fetches all commits of a GitHub repository
// and records the new ones as changesets. Returns the number of
// changesets recorded.
func (s *GitHubImportService) ImportRepositoryCommits(ctx context.Context, repository *models.Repository) (int, error) {
	client := s.createGitHubClient(ctx)

	opt := &github.CommitsListOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var allCommits []*github.RepositoryCommit
	for {
		commits, resp, err := client.Repositories.ListCommits(ctx, repository.Owner, repository.Name, opt)
		if err != nil {
			return 0, fmt.Errorf("failed to list commits for %s: %w", repository.FullName(), err)
		}
		allCommits = append(allCommits, commits...)
		if resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}

	imported := 0
	for _, commit := range allCommits {
		recorded, err := s.importCommit(ctx, client, repository, commit)
		if err != nil {
			// Log and continue, one bad commit should not abort the import
			logger.WithError(err).WithField("sha", commit.GetSHA()).Warnf("Failed to import commit")
			continue
		}
		if recorded {
			imported++
		}
	}

	logger.WithFields(logrus.Fields{
		"repository": repository.FullName(),
		"imported":   imported,
		"fetched":    len(allCommits),
	}).Info("GitHub import finished")

	return imported, nil
}

// importCommit records a single GitHub commit as a changeset
func (s *GitHubImportService) importCommit(ctx context.Context, client *github.Client, repository *models.Repository, commit *github.RepositoryCommit) (bool, error) {
	sha := commit.GetSHA()
	author := commit.GetCommit().GetAuthor()
	committer := fmt.Sprintf("%s <%s>", author.GetName(), author.GetEmail())

	// The list endpoint omits file stats, fetch the full commit for the
	// number of changed files
	changes := 1
	detailed, _, err := client.Repositories.GetCommit(ctx, repository.Owner, repository.Name, sha, nil)
	if err == nil && len(detailed.Files) > 0 {
		changes = len(detailed.Files)
	}

	changeset, err := s.changesetService.RecordChangeset(
		repository.ID,
		sha,
		committer,
		commit.GetCommit().GetMessage(),
		author.GetDate().Time,
		changes,
	)
	if err != nil {
		return false, err
	}

	return changeset != nil, nil
}
