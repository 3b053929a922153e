package models

import "time"

// User represents a registered user account.
type User struct {
	// ID is assigned by the store on insert.
	ID int64

	// Name is the display name shown to friends and group members.
	Name string

	// Email is unique across users and used for login.
	Email string

	// PasswordHash is the bcrypt hash of the user's password.
	// It is never serialized to clients.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}

// NewUser creates a user with the creation timestamp set.
// The ID is assigned when the user is persisted.
func NewUser(name, email, passwordHash string) *User {
	return &User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
}

// Summary returns the public projection of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

// UserSummary is the projection of a user returned by directory, friend and
// group membership queries.
type UserSummary struct {
	ID    int64
	Name  string
	Email string
}
