package services

import (
	"regexp"
	"strings"
)

// maxNormalizePasses bounds the fixed-point stripping loop so a
// pathological committer string cannot cause unbounded work.
const maxNormalizePasses = 10

var (
	emailAnnotationRegex = regexp.MustCompile(`<.+@.+>`)
	emailCaptureRegex    = regexp.MustCompile(`<([^<>]+@[^<>]+)>`)
)

// CommitterService derives display names and email addresses from raw
// version-control committer strings such as "Jane Doe <jane@example.com>".
// It never fails: malformed input degrades to a best-effort name and an
// empty email.
type CommitterService struct{}

func NewCommitterService() *CommitterService {
	return &CommitterService{}
}

// NormalizeName strips every "<...@...>" annotation from a raw committer
// string and trims surrounding whitespace, repeating until the result is
// stable. Strings with zero, one, or multiple annotations all reduce to
// the bare name.
func (s *CommitterService) NormalizeName(committer string) string {
	name := committer
	for i := 0; i < maxNormalizePasses; i++ {
		previous := name
		name = strings.TrimSpace(emailAnnotationRegex.ReplaceAllString(name, ""))
		if name == previous {
			break
		}
	}
	return name
}

// ExtractEmail returns the content of the first angle-bracket group
// containing "@", or an empty string when the committer carries no
// email annotation.
func (s *CommitterService) ExtractEmail(committer string) string {
	match := emailCaptureRegex.FindStringSubmatch(committer)
	if match == nil {
		return ""
	}
	return match[1]
}
