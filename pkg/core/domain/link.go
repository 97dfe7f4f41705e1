package domain

import "time"

// Link maps an alias to a destination URL
type Link struct {
	ID        int64     `json:"id"`
	Alias     string    `json:"alias"`
	URL       string    `json:"url"`
	Title     string    `json:"title,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// LinkInput carries the writable fields of a link
type LinkInput struct {
	Alias string
	URL   string
	Title string
}
