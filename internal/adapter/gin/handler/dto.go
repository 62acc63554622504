package handler

import (
	domain "usertable/internal/domain/user"
	"usertable/internal/usecase/usertable"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// UserResponse is a table row.
type UserResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// SortResponse is the active sorter; both fields are empty when unsorted.
type SortResponse struct {
	Column string `json:"column"`
	Order  string `json:"order"`
}

// EditingResponse is the open edit modal.
type EditingResponse struct {
	User             UserResponse      `json:"user"`
	FirstName        string            `json:"first_name"`
	LastName         string            `json:"last_name"`
	Errors           map[string]string `json:"errors,omitempty"`
	ConfirmingDelete bool              `json:"confirming_delete"`
}

// StateResponse is the view model served by GET /api/state.
type StateResponse struct {
	Rows      []UserResponse   `json:"rows"`
	Total     int64            `json:"total"`
	Loading   bool             `json:"loading"`
	Page      int64            `json:"page"`
	PageCount int64            `json:"page_count"`
	PageSize  int64            `json:"page_size"`
	Query     string           `json:"query"`
	Sort      SortResponse     `json:"sort"`
	Editing   *EditingResponse `json:"editing"`
}

func toUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// NewStateResponse maps a view to its JSON form.
func NewStateResponse(v usertable.View) StateResponse {
	rows := make([]UserResponse, len(v.Rows))
	for i, u := range v.Rows {
		rows[i] = toUserResponse(u)
	}

	resp := StateResponse{
		Rows:      rows,
		Total:     v.Total,
		Loading:   v.Loading,
		Page:      v.Page,
		PageCount: v.PageCount,
		PageSize:  v.PageSize,
		Query:     v.Query,
		Sort: SortResponse{
			Column: string(v.Sort.Column),
			Order:  string(v.Sort.Order),
		},
	}
	if e := v.Editing; e != nil {
		resp.Editing = &EditingResponse{
			User:             toUserResponse(e.Snapshot),
			FirstName:        e.FirstName,
			LastName:         e.LastName,
			Errors:           e.Errors,
			ConfirmingDelete: e.ConfirmingDelete,
		}
	}
	return resp
}
