package domain

import "time"

// User is the domain model for registered players. A user with IsStringer
// set can be assigned as the service provider on stringing jobs; every user
// can own jobs. Users are never physically deleted so that finished jobs
// keep valid references.
type User struct {
	ID           string
	GivenName    string
	FamilyName   string
	Username     string
	Email        string
	Birthday     *time.Time
	PasswordHash string
	IsStringer   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName renders the name used in analytics leaderboards.
func (u *User) DisplayName() string {
	return u.GivenName + " " + u.FamilyName
}
