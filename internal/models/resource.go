package models

import "time"

// Resource is a document in the internal library: either an external link or
// an uploaded file served from the files root. Category and tag names are
// stored normalized (lowercase, collapsed whitespace).
type Resource struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Link        string    `json:"link"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`

	Tags     []Tag        `json:"tags"`
	Projects []ProjectRef `json:"projects"`
	Tasks    []TaskRef    `json:"tasks"`
}

type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TaskRef carries the owning project so project-scope filtering can follow
// the task→project indirection without loading full tasks.
type TaskRef struct {
	ID        int64  `json:"id"`
	ProjectID int64  `json:"project_id"`
	Title     string `json:"title"`
}

// ResourceFilter holds the raw facet selections from the query string.
// Unrecognized values fall back to "all" during filtering.
type ResourceFilter struct {
	Query     string
	Category  string
	Tag       string
	State     string // all|linked|unlinked|untagged
	ProjectID string
}

// ResourceGroup is one display bucket of the filtered library.
type ResourceGroup struct {
	Label     string     `json:"label"`
	Resources []Resource `json:"resources"`
}
