package server

import (
	"time"

	"jatrack/internal/model"
)

// userRecord is the persisted account row.
type userRecord struct {
	ID           int64  `gorm:"primaryKey"`
	Name         string `gorm:"size:120"`
	Email        string `gorm:"size:254;uniqueIndex"`
	PasswordHash string `gorm:"size:120"`
	CreatedAt    time.Time
}

func (userRecord) TableName() string { return "users" }

// applicationRecord is the persisted application row. Rows are owned per
// user; a user never sees another user's applications.
type applicationRecord struct {
	ID           int64 `gorm:"primaryKey"`
	UserID       int64 `gorm:"index"`
	Company      string
	RoleTitle    string
	Status       string
	AppliedDate  string
	ContactEmail string
	JobURL       string
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (applicationRecord) TableName() string { return "applications" }

// Models lists everything the server needs migrated.
func Models() []any {
	return []any{&userRecord{}, &applicationRecord{}}
}

func (r applicationRecord) toModel() model.Application {
	return model.Application{
		ID:           r.ID,
		Company:      r.Company,
		RoleTitle:    r.RoleTitle,
		Status:       model.Status(r.Status),
		AppliedDate:  r.AppliedDate,
		ContactEmail: r.ContactEmail,
		JobURL:       r.JobURL,
		Notes:        r.Notes,
	}
}

func (r *applicationRecord) applyModel(a model.Application) {
	r.Company = a.Company
	r.RoleTitle = a.RoleTitle
	r.Status = string(a.Status)
	r.AppliedDate = a.AppliedDate
	r.ContactEmail = a.ContactEmail
	r.JobURL = a.JobURL
	r.Notes = a.Notes
}
