package usertable

import (
	"fmt"
	"strings"

	domain "usertable/internal/domain/user"
)

// searchText is what a query is matched against. The double space before the
// email is part of the established matching behavior: a query spanning the
// last name and the email must contain both spaces.
func searchText(u domain.User) string {
	return fmt.Sprintf("%s %s  %s", u.FirstName, u.LastName, u.Email)
}

// Filter returns the users whose search text contains query, ignoring case.
// It only sees the loaded page; an empty query keeps every user.
func Filter(users []domain.User, query string) []domain.User {
	q := strings.ToLower(query)
	out := make([]domain.User, 0, len(users))
	for _, u := range users {
		if strings.Contains(strings.ToLower(searchText(u)), q) {
			out = append(out, u)
		}
	}
	return out
}
