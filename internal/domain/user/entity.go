package user

import "fmt"

// User represents a user entity as exposed by the remote users API.
type User struct {
	ID        int64  // ID is externally assigned and stable
	Email     string // Email is the user's email address
	FirstName string // FirstName is the user's given name
	LastName  string // LastName is the user's family name
}

// FullName returns "first last".
func (u User) FullName() string {
	return fmt.Sprintf("%s %s", u.FirstName, u.LastName)
}

// Page is one server-returned batch of users plus the total across all pages.
type Page struct {
	Users []User
	Total int64
}

// Record is a stored user as served by the local stub API.
type Record struct {
	User
	Avatar string
}
