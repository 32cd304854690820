// Package articles implements the article content module: writers draft,
// editors approve or delete, everyone reads what is published.
package articles

import "time"

// Status tracks an article through the editorial flow.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Article represents a news article.
type Article struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Body      string    `json:"body"`
	AuthorID  string    `json:"authorId"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
