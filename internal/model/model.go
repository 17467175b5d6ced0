package model

import "strings"

// Status is the fixed application pipeline. The server is the source of truth
// for the set; the client never invents new values.
type Status string

const (
	StatusApplied   Status = "APPLIED"
	StatusHRScreen  Status = "HR_SCREEN"
	StatusTechTest  Status = "TECH_TEST"
	StatusInterview Status = "INTERVIEW"
	StatusOffer     Status = "OFFER"
	StatusRejected  Status = "REJECTED"
)

// Statuses lists all statuses in pipeline order. Board columns render in this
// order, and the first entry doubles as the defensive bucket for records whose
// status the client does not recognize.
func Statuses() []Status {
	return []Status{
		StatusApplied,
		StatusHRScreen,
		StatusTechTest,
		StatusInterview,
		StatusOffer,
		StatusRejected,
	}
}

// ParseStatus reports whether s names a known status.
func ParseStatus(s string) (Status, bool) {
	for _, st := range Statuses() {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// Label renders a status for display ("HR_SCREEN" -> "HR SCREEN").
func (s Status) Label() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

// Application is one tracked job application. ID is zero until the server
// assigns one. AppliedDate is a plain YYYY-MM-DD date.
type Application struct {
	ID           int64  `json:"id,omitempty"`
	Company      string `json:"company"`
	RoleTitle    string `json:"roleTitle"`
	Status       Status `json:"status"`
	AppliedDate  string `json:"appliedDate,omitempty"`
	ContactEmail string `json:"contactEmail,omitempty"`
	JobURL       string `json:"jobUrl,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// ValidationError is a local precondition failure; nothing was sent to the
// server when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Reason
}

// Validate checks the client-side invariants before a create or update is
// allowed to issue a network call.
func (a Application) Validate() error {
	if strings.TrimSpace(a.Company) == "" {
		return ValidationError{Field: "company", Reason: "must not be empty"}
	}
	if strings.TrimSpace(a.RoleTitle) == "" {
		return ValidationError{Field: "roleTitle", Reason: "must not be empty"}
	}
	if _, ok := ParseStatus(string(a.Status)); !ok {
		return ValidationError{Field: "status", Reason: "unknown status " + string(a.Status)}
	}
	return nil
}

// Page is the canonical paginated result every list fetch normalizes into,
// regardless of which wire shape the server answered with.
type Page struct {
	Items         []Application
	Page          int
	Size          int
	TotalElements int64
	TotalPages    int
}

// Query describes one list fetch: filters, sort and page cursor. A page
// cursor is only meaningful relative to a fixed filter/sort, so any change to
// the other fields resets Page to 0 (enforced by sync.Filters).
type Query struct {
	Text   string
	Status string
	Sort   string
	Page   int
	Size   int
}
