package models

import "time"

// Feedback is visible only to its owner and the committee. It carries no
// status flag; triage is read-only.
type Feedback struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Text      string    `db:"text" json:"text"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
