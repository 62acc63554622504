package usertable

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"usertable/internal/domain/notification"
	"usertable/internal/i18n"
	"usertable/pkg/logger"
)

// Usecase owns the table's state and turns UI events into transitions.
// Network calls run outside the lock, so a slow fetch that completes after a
// newer one overwrites the state with its older page.
type Usecase struct {
	api      UsersAPI
	sink     Sink
	tr       *i18n.Translator
	log      *zap.Logger
	validate *validator.Validate
	pageSize int64
	now      func() time.Time

	mu      sync.Mutex
	state   State
	mounted bool
}

// New creates a new Usecase. pageSize only sizes the pagination control.
func New(api UsersAPI, sink Sink, tr *i18n.Translator, pageSize int64, log *zap.Logger) *Usecase {
	return &Usecase{
		api:      api,
		sink:     sink,
		tr:       tr,
		log:      log,
		validate: newValidator(),
		pageSize: pageSize,
		now:      time.Now,
		state:    State{Page: 1},
	}
}

// dispatch applies ev under the lock and delivers the resulting toasts.
func (uc *Usecase) dispatch(ctx context.Context, ev Event) (State, []Notice) {
	uc.mu.Lock()
	next, notices := Reduce(uc.state, ev)
	uc.state = next
	uc.mu.Unlock()

	for _, n := range notices {
		uc.sink.Notify(ctx, notification.Notification{
			Kind:  n.Kind,
			Title: uc.tr.T(n.Title),
			Body:  uc.tr.T(n.Body, n.Args...),
			At:    uc.now(),
		})
	}
	return next, notices
}

// Mount performs the initial fetch of page 1. Once a fetch has succeeded it
// does nothing; after a failed one the next Mount retries.
func (uc *Usecase) Mount(ctx context.Context) {
	uc.mu.Lock()
	mounted := uc.mounted
	uc.mu.Unlock()
	if mounted {
		return
	}

	uc.Fetch(ctx, 1)
}

// Fetch loads page from the remote API and replaces the current page.
// Failures are absorbed: they surface as an error toast only.
func (uc *Usecase) Fetch(ctx context.Context, page int64) {
	if page < 1 {
		page = 1
	}
	log := logger.WithContext(ctx, uc.log)
	log.Info("fetching users", zap.Int64("page", page))

	uc.dispatch(ctx, FetchStarted{Page: page})

	result, err := uc.api.ListUsers(ctx, page)
	if err != nil {
		log.Error("failed to fetch users", zap.Int64("page", page), zap.Error(err))
		uc.dispatch(ctx, FetchFailed{Page: page, Err: err})
		return
	}

	log.Debug("users fetched",
		zap.Int64("page", page),
		zap.Int("count", len(result.Users)),
		zap.Int64("total", result.Total),
	)
	uc.dispatch(ctx, FetchSucceeded{Page: page, Result: *result})

	uc.mu.Lock()
	uc.mounted = true
	uc.mu.Unlock()
}

// ChangePage is the pagination control's handler.
func (uc *Usecase) ChangePage(ctx context.Context, page int64) {
	uc.Fetch(ctx, page)
}

// Search sets the client-side filter. It never re-fetches.
func (uc *Usecase) Search(ctx context.Context, query string) {
	uc.dispatch(ctx, SearchChanged{Query: query})
}

// SortBy sets the active sorter.
func (uc *Usecase) SortBy(ctx context.Context, spec SortSpec) {
	uc.dispatch(ctx, SortChanged{Sort: spec})
}

// Select opens the edit modal for the row with id. It reports whether the row
// exists on the current page.
func (uc *Usecase) Select(ctx context.Context, id int64) bool {
	s, _ := uc.dispatch(ctx, RowSelected{ID: id})
	return s.Editing != nil && s.Editing.Snapshot.ID == id
}

// SubmitEdit validates form and, if valid, merges it into the edited row.
// The change is local only. Invalid input keeps the modal open and returns
// the inline messages.
func (uc *Usecase) SubmitEdit(ctx context.Context, form EditForm) FieldErrors {
	var fieldErrors FieldErrors
	if err := uc.validate.Struct(form); err != nil {
		logger.WithContext(ctx, uc.log).Debug("edit form rejected", zap.Error(err))
		fieldErrors = formatValidationError(err, uc.tr)
	}

	_, notices := uc.dispatch(ctx, EditSubmitted{Values: form, Errors: fieldErrors})
	if len(notices) > 0 {
		logger.WithContext(ctx, uc.log).Info("user edited locally",
			zap.String("first_name", form.FirstName),
			zap.String("last_name", form.LastName),
		)
	}
	return fieldErrors
}

// CancelEdit discards the modal and its form values.
func (uc *Usecase) CancelEdit(ctx context.Context) {
	uc.dispatch(ctx, EditCancelled{})
}

// RequestDelete shows the confirmation prompt, keeping the typed values.
func (uc *Usecase) RequestDelete(ctx context.Context, form EditForm) {
	uc.dispatch(ctx, DeleteRequested{Values: form})
}

// DismissDelete answers "no" to the prompt.
func (uc *Usecase) DismissDelete(ctx context.Context) {
	uc.dispatch(ctx, DeleteDismissed{})
}

// ConfirmDelete answers "yes": it deletes the edited user remotely and, only
// once the call succeeds, removes it from the page. It does nothing unless
// the prompt is open.
func (uc *Usecase) ConfirmDelete(ctx context.Context) {
	uc.mu.Lock()
	editing := uc.state.Editing
	if editing == nil || !editing.ConfirmingDelete {
		uc.mu.Unlock()
		return
	}
	id := editing.Snapshot.ID
	first, last := editing.FirstName, editing.LastName
	uc.mu.Unlock()

	log := logger.WithContext(ctx, uc.log)
	log.Info("deleting user", zap.Int64("id", id))

	if err := uc.api.DeleteUser(ctx, id); err != nil {
		log.Error("failed to delete user", zap.Int64("id", id), zap.Error(err))
		uc.dispatch(ctx, DeleteFailed{ID: id, Err: err})
		return
	}

	uc.dispatch(ctx, DeleteSucceeded{ID: id, FirstName: first, LastName: last})
}

// State returns a copy of the current state.
func (uc *Usecase) State() State {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	s := uc.state
	s.Users = slices.Clone(s.Users)
	if s.Editing != nil {
		editing := *s.Editing
		s.Editing = &editing
	}
	return s
}
