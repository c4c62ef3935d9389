package domain

import "time"

// Profile is an account's public fields joined with its ledger entry.
// Score and Attempts are zero until the first increment.
type Profile struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	IsStaff   bool
	Score     int64
	Attempts  int64
	UpdatedAt *time.Time
}

// FullName joins the name fields, falling back to the username.
func (p Profile) FullName() string {
	switch {
	case p.FirstName != "" && p.LastName != "":
		return p.FirstName + " " + p.LastName
	case p.FirstName != "":
		return p.FirstName
	case p.LastName != "":
		return p.LastName
	default:
		return p.Username
	}
}
