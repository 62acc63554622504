package usertable

import (
	"context"

	"usertable/internal/domain/notification"
	domain "usertable/internal/domain/user"
)

// UsersAPI is the remote users resource the table mirrors.
type UsersAPI interface {
	ListUsers(ctx context.Context, page int64) (*domain.Page, error)
	DeleteUser(ctx context.Context, id int64) error
}

// Sink surfaces toasts. It is fire-and-forget: implementations log their own
// failures and never block the caller on delivery problems.
type Sink interface {
	Notify(ctx context.Context, n notification.Notification)
}
