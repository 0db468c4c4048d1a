package models

// Contributor is one reconciled contributor identity, merging one or
// more raw committer strings. Name is HTML-escaped and safe to render;
// RawName is the unescaped source text. Keeping both on the type makes
// the escaping step impossible to skip silently downstream.
type Contributor struct {
	Name         string   `json:"name"`
	RawName      string   `json:"-"`
	Email        string   `json:"email"`
	TotalCommits int      `json:"total_commits"`
	TotalChanges int      `json:"total_changes"`
	Committers   []string `json:"committers"`
	Registered   bool     `json:"registered"`
}
