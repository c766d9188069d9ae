package domain

import "time"

// Notification is a user-facing alert. The list is append-only and lives only
// for the session; nothing is persisted.
type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// Email is the record of an outbound message the engine asked the backend to
// send. Recipient may be a comma-joined list.
type Email struct {
	Recipient  string    `json:"recipient"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	Attachment string    `json:"attachment,omitempty"`
	SentAt     time.Time `json:"sent_at"`
}
