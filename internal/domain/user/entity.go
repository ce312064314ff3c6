package user

// User represents a user entity in the system.
type User struct {
	ID     int64  // ID is the store-assigned unique identifier
	Name   string // Name is the display name taken from the GitHub profile
	Avatar string // Avatar is the profile picture URL taken from the GitHub profile
	Email  string // Email is the unique email address of the user
}
