package userstore

import (
	"fmt"
	"strings"

	"usertable/internal/domain/user"
)

// DefaultSeed mirrors the twelve users of the public demo API.
func DefaultSeed() []user.Record {
	names := [][2]string{
		{"George", "Bluth"},
		{"Janet", "Weaver"},
		{"Emma", "Wong"},
		{"Eve", "Holt"},
		{"Charles", "Morris"},
		{"Tracey", "Ramos"},
		{"Michael", "Lawson"},
		{"Lindsay", "Ferguson"},
		{"Tobias", "Funke"},
		{"Byron", "Fields"},
		{"George", "Edwards"},
		{"Rachel", "Howell"},
	}

	out := make([]user.Record, len(names))
	for i, n := range names {
		id := int64(i + 1)
		out[i] = user.Record{
			User: user.User{
				ID:        id,
				Email:     fmt.Sprintf("%s.%s@reqres.in", strings.ToLower(n[0]), strings.ToLower(n[1])),
				FirstName: n[0],
				LastName:  n[1],
			},
			Avatar: fmt.Sprintf("https://reqres.in/img/faces/%d-image.jpg", id),
		}
	}
	return out
}
