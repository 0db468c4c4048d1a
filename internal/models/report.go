package models

// Series label names. These and the json field names below are the
// stable contract consumed by charting clients.
const (
	SeriesCommits = "commits"
	SeriesChanges = "changes"
)

// ReportSeries is one named data series, parallel to its report's
// categories sequence.
type ReportSeries struct {
	Name string `json:"name"`
	Data []int  `json:"data"`
}

// AuthorActivity is the per-author detail payload: a date-bucketed
// commit series for one contributor. Categories holds the commit dates
// in ascending order; Series data is parallel to it.
type AuthorActivity struct {
	AuthorName   string         `json:"author_name"`
	AuthorMail   string         `json:"author_mail"`
	TotalCommits int            `json:"total_commits"`
	Categories   []string       `json:"categories"`
	Series       []ReportSeries `json:"series"`
}

// ContributionSummary is the global totals payload: one category per
// contributor name, with parallel commit and change count series.
type ContributionSummary struct {
	Categories []string       `json:"categories"`
	Series     []ReportSeries `json:"series"`
}
