package user

// CreateUserRequest represents the request payload for creating a new user.
// Email is only a fallback for accounts that do not publish one on GitHub.
type CreateUserRequest struct {
	Username string  `validate:"required"`
	Email    *string `validate:"omitempty,email"`
}

// GetUserRequest represents the request payload for retrieving a user.
type GetUserRequest struct {
	ID int64
}

// UpdateUserRequest represents the request payload for updating an existing
// user. Nil fields are left untouched on the stored record.
type UpdateUserRequest struct {
	ID     int64   `validate:"required"`
	Name   *string `validate:"omitempty,max=255"`
	Avatar *string `validate:"omitempty,url"`
	Email  *string `validate:"omitempty,email"`
}

// DeleteUserRequest represents the request payload for deleting a user.
type DeleteUserRequest struct {
	ID int64
}

// ListUsersRequest represents the request payload for listing users.
type ListUsersRequest struct {
	Name string // Optional equality filter on the display name
}

// UserResponse represents a user DTO for API responses.
type UserResponse struct {
	ID     int64
	Name   string
	Avatar string
	Email  string
}

// ListUsersResponse represents the response payload for user listing.
type ListUsersResponse struct {
	Users []UserResponse
}
