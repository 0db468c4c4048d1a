package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	service := NewCommitterService()

	testCases := []struct {
		name      string
		committer string
		expected  string
	}{
		{
			name:      "Name with email annotation",
			committer: "Jane Doe <jane@example.com>",
			expected:  "Jane Doe",
		},
		{
			name:      "Name without annotation",
			committer: "Jane Doe",
			expected:  "Jane Doe",
		},
		{
			name:      "Doubled annotation",
			committer: "bob <bob@x.com> <bob@x.com>",
			expected:  "bob",
		},
		{
			name:      "Annotation only",
			committer: "<jane@example.com>",
			expected:  "",
		},
		{
			name:      "Surrounding whitespace",
			committer: "  Jane Doe   <jane@example.com>  ",
			expected:  "Jane Doe",
		},
		{
			name:      "Brackets without email",
			committer: "Jane <not-an-email>",
			expected:  "Jane <not-an-email>",
		},
		{
			name:      "Unbalanced bracket",
			committer: "Jane <jane@example.com",
			expected:  "Jane <jane@example.com",
		},
		{
			name:      "Empty string",
			committer: "",
			expected:  "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, service.NormalizeName(tc.committer))
		})
	}
}

func TestNormalizeNameFixedPoint(t *testing.T) {
	service := NewCommitterService()

	// normalize(normalize(x)) == normalize(x)
	inputs := []string{
		"Jane Doe <jane@example.com>",
		"bob <bob@x.com> <bob@x.com>",
		"no annotation here",
		"<a@b> <c@d> <e@f>",
		"",
	}

	for _, input := range inputs {
		once := service.NormalizeName(input)
		twice := service.NormalizeName(once)
		assert.Equal(t, once, twice, "normalization of %q should be a fixed point", input)
	}
}

func TestExtractEmail(t *testing.T) {
	service := NewCommitterService()

	testCases := []struct {
		name      string
		committer string
		expected  string
	}{
		{
			name:      "Simple annotation",
			committer: "Jane Doe <jane@example.com>",
			expected:  "jane@example.com",
		},
		{
			name:      "Doubled annotation yields first email",
			committer: "bob <bob@x.com> <bob@x.com>",
			expected:  "bob@x.com",
		},
		{
			name:      "No annotation",
			committer: "Jane Doe",
			expected:  "",
		},
		{
			name:      "Brackets without at sign",
			committer: "Jane <nobody>",
			expected:  "",
		},
		{
			name:      "Multiple at signs kept as-is",
			committer: "Jane <a@@b>",
			expected:  "a@@b",
		},
		{
			name:      "Unbalanced brackets",
			committer: "Jane <jane@example.com",
			expected:  "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, service.ExtractEmail(tc.committer))
		})
	}
}
