package model

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "destructive"
)

// Notification is a user facing message
type Notification struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}
