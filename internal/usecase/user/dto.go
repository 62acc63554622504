package user

import domain "usertable/internal/domain/user"

// DefaultPerPage matches the page size of the public users API.
const DefaultPerPage = 6

// MaxPerPage caps per_page.
const MaxPerPage = 100

// ListUsersRequest represents the request payload for listing users.
type ListUsersRequest struct {
	Page    int64 `validate:"gte=0"`
	PerPage int64 `validate:"gte=0,lte=100"`
}

// ListUsersResponse represents the response payload for user listing.
type ListUsersResponse struct {
	Users      []domain.Record
	Pagination *domain.Pagination
}

// GetUserRequest represents the request payload for retrieving a user.
type GetUserRequest struct {
	ID int64 `validate:"gt=0"`
}

// DeleteUserRequest represents the request payload for deleting a user.
type DeleteUserRequest struct {
	ID int64 `validate:"gt=0"`
}
