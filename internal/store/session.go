package store

import "time"

// Session is the remembered expansion state of one data source.
type Session struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Expanded  []string  `json:"expanded"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
