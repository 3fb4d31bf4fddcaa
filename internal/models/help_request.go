package models

import "time"

// HelpTopic values accepted on submission.
const (
	HelpTopicGeneral = "general"
	HelpTopicProcess = "process"
	HelpTopicReport  = "report"
	HelpTopicSupport = "support"
)

// HelpRequest is owner-visible with a committee-managed status.
type HelpRequest struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Topic     string    `db:"topic" json:"topic"`
	Details   string    `db:"details" json:"details"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
