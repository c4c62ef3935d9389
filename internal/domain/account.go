package domain

import "time"

// Account is a registered identity. PasswordHash is an argon2id PHC string.
type Account struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	IsStaff      bool
	CreatedAt    time.Time
}

// Identity is what a token resolves to. It never carries credentials.
type Identity struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	IsStaff   bool
}

func (a Account) Identity() Identity {
	return Identity{
		Username:  a.Username,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		IsStaff:   a.IsStaff,
	}
}
