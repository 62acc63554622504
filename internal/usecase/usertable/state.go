package usertable

import (
	"slices"

	"usertable/internal/domain/notification"
	domain "usertable/internal/domain/user"
	"usertable/internal/i18n"
)

// Column identifies a sortable table column.
type Column string

const (
	ColumnID        Column = "id"
	ColumnEmail     Column = "email"
	ColumnFirstName Column = "first_name"
	ColumnLastName  Column = "last_name"
)

// Columns lists the table columns in display order.
var Columns = []Column{ColumnID, ColumnEmail, ColumnFirstName, ColumnLastName}

// SortOrder is the direction of a column sort. The zero value means unsorted.
type SortOrder string

const (
	SortNone    SortOrder = ""
	SortAscend  SortOrder = "ascend"
	SortDescend SortOrder = "descend"
)

// SortSpec is the active sorter.
type SortSpec struct {
	Column Column
	Order  SortOrder
}

// FieldErrors maps a form field name to its inline message.
type FieldErrors map[string]string

// EditSession is the modal's local state: a snapshot of the row being edited
// and the form's current field values.
type EditSession struct {
	Snapshot         domain.User
	FirstName        string
	LastName         string
	Errors           FieldErrors
	ConfirmingDelete bool
}

// State is everything the view renders.
type State struct {
	Users   []domain.User
	Total   int64
	Loading bool
	Page    int64
	Query   string
	Sort    SortSpec
	Editing *EditSession
}

// Notice is a toast produced by a transition. Title and Body are i18n keys.
type Notice struct {
	Kind  notification.Kind
	Title string
	Body  string
	Args  []any
}

// Event is an input to Reduce.
type Event interface {
	event()
}

// FetchStarted marks the beginning of a page fetch.
type FetchStarted struct{ Page int64 }

// FetchSucceeded carries a fetched page.
type FetchSucceeded struct {
	Page   int64
	Result domain.Page
}

// FetchFailed reports a failed page fetch.
type FetchFailed struct {
	Page int64
	Err  error
}

// SearchChanged sets the free-text filter.
type SearchChanged struct{ Query string }

// SortChanged sets the active sorter.
type SortChanged struct{ Sort SortSpec }

// RowSelected opens the edit modal for a row.
type RowSelected struct{ ID int64 }

// EditSubmitted carries submitted form values and their validation result.
type EditSubmitted struct {
	Values EditForm
	Errors FieldErrors
}

// EditCancelled closes the modal without touching the store.
type EditCancelled struct{}

// DeleteRequested opens the delete confirmation with the form's current values.
type DeleteRequested struct{ Values EditForm }

// DeleteDismissed answers "no" to the confirmation.
type DeleteDismissed struct{}

// DeleteSucceeded reports a confirmed server-side delete. The names are the
// form values at the moment the delete was confirmed.
type DeleteSucceeded struct {
	ID        int64
	FirstName string
	LastName  string
}

// DeleteFailed reports a failed delete call.
type DeleteFailed struct {
	ID  int64
	Err error
}

func (FetchStarted) event()    {}
func (FetchSucceeded) event()  {}
func (FetchFailed) event()     {}
func (SearchChanged) event()   {}
func (SortChanged) event()     {}
func (RowSelected) event()     {}
func (EditSubmitted) event()   {}
func (EditCancelled) event()   {}
func (DeleteRequested) event() {}
func (DeleteDismissed) event() {}
func (DeleteSucceeded) event() {}
func (DeleteFailed) event()    {}

// Reduce applies ev to s and returns the new state plus the toasts to show.
// It never mutates s or the slices it references.
func Reduce(s State, ev Event) (State, []Notice) {
	switch e := ev.(type) {
	case FetchStarted:
		s.Loading = true
		s.Page = e.Page
		return s, nil

	case FetchSucceeded:
		var notices []Notice
		// Only the empty→populated transition announces itself.
		if len(s.Users) == 0 {
			notices = append(notices, Notice{
				Kind:  notification.KindSuccess,
				Title: i18n.FetchSuccessTitle,
				Body:  i18n.FetchSuccessBody,
			})
		}
		s.Users = slices.Clone(e.Result.Users)
		s.Total = e.Result.Total
		s.Loading = false
		return s, notices

	case FetchFailed:
		s.Loading = false
		return s, []Notice{{
			Kind:  notification.KindError,
			Title: i18n.FetchErrorTitle,
			Body:  i18n.FetchErrorBody,
		}}

	case SearchChanged:
		s.Query = e.Query
		return s, nil

	case SortChanged:
		s.Sort = e.Sort
		if s.Sort.Order == SortNone {
			s.Sort.Column = ""
		}
		return s, nil

	case RowSelected:
		idx := indexOf(s.Users, e.ID)
		if idx < 0 {
			return s, nil
		}
		u := s.Users[idx]
		s.Editing = &EditSession{
			Snapshot:  u,
			FirstName: u.FirstName,
			LastName:  u.LastName,
		}
		return s, nil

	case EditSubmitted:
		if s.Editing == nil {
			return s, nil
		}
		if len(e.Errors) > 0 {
			editing := *s.Editing
			editing.FirstName = e.Values.FirstName
			editing.LastName = e.Values.LastName
			editing.Errors = e.Errors
			editing.ConfirmingDelete = false
			s.Editing = &editing
			return s, nil
		}
		updated := s.Editing.Snapshot
		updated.FirstName = e.Values.FirstName
		updated.LastName = e.Values.LastName
		s.Users = replaceByID(s.Users, updated)
		s.Editing = nil
		return s, []Notice{{
			Kind:  notification.KindSuccess,
			Title: i18n.EditSuccessTitle,
			Body:  i18n.EditSuccessBody,
			Args:  []any{updated.FullName()},
		}}

	case EditCancelled:
		s.Editing = nil
		return s, nil

	case DeleteRequested:
		if s.Editing == nil {
			return s, nil
		}
		editing := *s.Editing
		editing.FirstName = e.Values.FirstName
		editing.LastName = e.Values.LastName
		editing.Errors = nil
		editing.ConfirmingDelete = true
		s.Editing = &editing
		return s, nil

	case DeleteDismissed:
		if s.Editing == nil {
			return s, nil
		}
		editing := *s.Editing
		editing.ConfirmingDelete = false
		s.Editing = &editing
		return s, nil

	case DeleteSucceeded:
		deleted := domain.User{ID: e.ID, FirstName: e.FirstName, LastName: e.LastName}
		s.Users = slices.DeleteFunc(slices.Clone(s.Users), func(u domain.User) bool {
			return u.ID == e.ID
		})
		if s.Editing != nil && s.Editing.Snapshot.ID == e.ID {
			s.Editing = nil
		}
		return s, []Notice{{
			Kind:  notification.KindSuccess,
			Title: i18n.DeleteSuccessTitle,
			Body:  i18n.DeleteSuccessBody,
			Args:  []any{deleted.FullName()},
		}}

	case DeleteFailed:
		if s.Editing != nil {
			editing := *s.Editing
			editing.ConfirmingDelete = false
			s.Editing = &editing
		}
		return s, []Notice{{
			Kind:  notification.KindError,
			Title: i18n.DeleteErrorTitle,
			Body:  i18n.DeleteErrorBody,
		}}
	}

	return s, nil
}

func indexOf(users []domain.User, id int64) int {
	return slices.IndexFunc(users, func(u domain.User) bool { return u.ID == id })
}

func replaceByID(users []domain.User, updated domain.User) []domain.User {
	out := slices.Clone(users)
	for i := range out {
		if out[i].ID == updated.ID {
			out[i] = updated
		}
	}
	return out
}
