package usertable

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	domain "usertable/internal/domain/user"
)

// ParseColumn validates a column name coming from the UI.
func ParseColumn(s string) (Column, bool) {
	c := Column(s)
	return c, slices.Contains(Columns, c)
}

// ParseSortOrder validates a sort direction coming from the UI.
func ParseSortOrder(s string) (SortOrder, bool) {
	switch o := SortOrder(s); o {
	case SortNone, SortAscend, SortDescend:
		return o, true
	}
	return SortNone, false
}

// Next cycles ascend → descend → none, the way a column header click does.
func (o SortOrder) Next() SortOrder {
	switch o {
	case SortNone:
		return SortAscend
	case SortAscend:
		return SortDescend
	default:
		return SortNone
	}
}

// Sort returns a sorted copy of users. ids compare numerically, text columns
// with the collation rules of tag. The sort is stable, so equal keys keep
// their page order.
func Sort(users []domain.User, spec SortSpec, tag language.Tag) []domain.User {
	out := slices.Clone(users)
	if spec.Order == SortNone || spec.Column == "" {
		return out
	}

	var compare func(a, b domain.User) int
	switch spec.Column {
	case ColumnID:
		compare = func(a, b domain.User) int { return cmp.Compare(a.ID, b.ID) }
	case ColumnEmail, ColumnFirstName, ColumnLastName:
		col := collate.New(tag)
		field := textField(spec.Column)
		compare = func(a, b domain.User) int { return col.CompareString(field(a), field(b)) }
	default:
		return out
	}

	if spec.Order == SortDescend {
		asc := compare
		compare = func(a, b domain.User) int { return asc(b, a) }
	}

	slices.SortStableFunc(out, compare)
	return out
}

func textField(c Column) func(domain.User) string {
	switch c {
	case ColumnEmail:
		return func(u domain.User) string { return u.Email }
	case ColumnFirstName:
		return func(u domain.User) string { return u.FirstName }
	default:
		return func(u domain.User) string { return u.LastName }
	}
}
