package usertable

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"usertable/internal/domain/notification"
	domain "usertable/internal/domain/user"
	"usertable/internal/i18n"
	pkgerrors "usertable/pkg/errors"
)

// MockUsersAPI is a mock implementation of UsersAPI
type MockUsersAPI struct {
	mock.Mock
}

func (m *MockUsersAPI) ListUsers(ctx context.Context, page int64) (*domain.Page, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Page), args.Error(1)
}

func (m *MockUsersAPI) DeleteUser(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type recordingSink struct {
	mu    sync.Mutex
	items []notification.Notification
}

func (s *recordingSink) Notify(_ context.Context, n notification.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, n)
}

func (s *recordingSink) all() []notification.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notification.Notification(nil), s.items...)
}

func setupTestUsecase(t *testing.T) (*Usecase, *MockUsersAPI, *recordingSink) {
	api := new(MockUsersAPI)
	sink := &recordingSink{}
	tr, err := i18n.New("en")
	require.NoError(t, err)
	uc := New(api, sink, tr, 10, zaptest.NewLogger(t))
	return uc, api, sink
}

func annPage() *domain.Page {
	return &domain.Page{
		Users: []domain.User{{ID: 1, Email: "a@x.com", FirstName: "Ann", LastName: "Lee"}},
		Total: 12,
	}
}

// ==================== FETCH ====================

func TestFetch_FirstPopulationToastsOnce(t *testing.T) {
	uc, api, sink := setupTestUsecase(t)
	ctx := context.Background()

	api.On("ListUsers", ctx, int64(1)).Return(annPage(), nil)

	uc.Fetch(ctx, 1)

	s := uc.State()
	assert.Len(t, s.Users, 1)
	assert.Equal(t, int64(12), s.Total)
	assert.False(t, s.Loading)

	toasts := sink.all()
	require.Len(t, toasts, 1)
	assert.Equal(t, notification.KindSuccess, toasts[0].Kind)
	assert.Equal(t, "Fetching the user list", toasts[0].Title)
	assert.Equal(t, "User data fetched successfully", toasts[0].Body)

	// A second successful fetch with a populated store stays silent.
	uc.Fetch(ctx, 1)
	assert.Len(t, sink.all(), 1)

	api.AssertExpectations(t)
}

func TestFetch_FailureKeepsStateAndToastsError(t *testing.T) {
	uc, api, sink := setupTestUsecase(t)
	ctx := context.Background()

	api.On("ListUsers", ctx, int64(1)).Return(annPage(), nil).Once()
	api.On("ListUsers", ctx, int64(2)).Return(nil, pkgerrors.NewUpstreamError("list users", 500, nil)).Once()

	uc.Fetch(ctx, 1)
	uc.ChangePage(ctx, 2)

	s := uc.State()
	assert.Len(t, s.Users, 1)
	assert.Equal(t, int64(12), s.Total)
	assert.False(t, s.Loading)
	assert.Equal(t, int64(2), s.Page)

	toasts := sink.all()
	require.Len(t, toasts, 2)
	assert.Equal(t, notification.KindError, toasts[1].Kind)
	assert.Equal(t, "Could not fetch user data", toasts[1].Body)

	api.AssertExpectations(t)
}

func TestFetch_ClampsPage(t *testing.T) {
	uc, api, _ := setupTestUsecase(t)
	ctx := context.Background()

	api.On("ListUsers", ctx, int64(1)).Return(annPage(), nil)

	uc.Fetch(ctx, 0)

	api.AssertExpectations(t)
}

func TestMount_FetchesOnce(t *testing.T) {
	uc, api, _ := setupTestUsecase(t)
	ctx := context.Background()

	api.On("ListUsers", ctx, int64(1)).Return(annPage(), nil).Once()

	uc.Mount(ctx)
	uc.Mount(ctx)

	api.AssertNumberOfCalls(t, "ListUsers", 1)
}

func TestMount_RetriesAfterFailedFetch(t *testing.T) {
	uc, api, sink := setupTestUsecase(t)
	ctx := context.Background()

	api.On("ListUsers", ctx, int64(1)).Return(nil, pkgerrors.NewUpstreamError("list users", 500, nil)).Once()
	api.On("ListUsers", ctx, int64(1)).Return(annPage(), nil).Once()

	uc.Mount(ctx)
	assert.Empty(t, uc.State().Users)

	uc.Mount(ctx)
	assert.Len(t, uc.State().Users, 1)

	uc.Mount(ctx)
	api.AssertNumberOfCalls(t, "ListUsers", 2)

	toasts := sink.all()
	require.Len(t, toasts, 2)
	assert.Equal(t, notification.KindError, toasts[0].Kind)
	assert.Equal(t, notification.KindSuccess, toasts[1].Kind)
}

// ==================== VIEW ====================

func TestView_FilterSortAndPagination(t *testing.T) {
	uc, api, _ := setupTestUsecase(t)
	ctx := context.Background()

	api.On("ListUsers", ctx, int64(1)).Return(&domain.Page{Users: samplePage(), Total: 12}, nil)
	uc.Fetch(ctx, 1)

	uc.Search(ctx, "e")
	uc.SortBy(ctx, SortSpec{Column: ColumnID, Order: SortDescend})

	v := uc.View()
	for i := 1; i < len(v.Rows); i++ {
		assert.Greater(t, v.Rows[i-1].ID, v.Rows[i].ID)
	}
	assert.Equal(t, int64(12), v.Total, "total ignores the filter")
	assert.Equal(t, int64(2), v.PageCount)
	assert.Equal(t, "e", v.Query)

	uc.Search(ctx, "")
	assert.Len(t, uc.View().Rows, 6)

	api.AssertNumberOfCalls(t, "ListUsers", 1)
}

// ==================== EDIT ====================

func TestSubmitEdit_Success(t *testing.T) {
	uc, api, sink := setupTestUsecase(t)
	ctx := context.Background()

	api.On("ListUsers", ctx, int64(1)).Return(&domain.Page{Users: samplePage(), Total: 12}, nil)
	uc.Fetch(ctx, 1)
	require.True(t, uc.Select(ctx, 5))

	errs := uc.SubmitEdit(ctx, EditForm{FirstName: "Chuck", LastName: "Morris"})

	assert.Empty(t, errs)
	s := uc.State()
	assert.Nil(t, s.Editing)
	assert.Equal(t, "Chuck", s.Users[4].FirstName)
	assert.Equal(t, "charles.morris@reqres.in", s.Users[4].Email)

	toasts := sink.all()
	require.Len(t, toasts, 2)
	assert.Equal(t, "User Chuck Morris updated", toasts[1].Body)

	// Edits never reach the server.
	api.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything)
}

func TestSubmitEdit_EmptyFirstNameBlocked(t *testing.T) {
	uc, api, sink := setupTestUsecase(t)
	ctx := context.Background()

	api.On("ListUsers", ctx, int64(1)).Return(&domain.Page{Users: samplePage(), Total: 12}, nil)
	uc.Fetch(ctx, 1)
	require.True(t, uc.Select(ctx, 5))
	before := uc.State().Users

	errs := uc.SubmitEdit(ctx, EditForm{FirstName: "", LastName: "Morris"})

	assert.Equal(t, FieldErrors{"first_name": "Enter the first name!"}, errs)
	s := uc.State()
	assert.Equal(t, before, s.Users)
	require.NotNil(t, s.Editing)
	assert.Equal(t, "Enter the first name!", s.Editing.Errors["first_name"])
	assert.Len(t, sink.all(), 1, "only the initial fetch toast")
}

func TestSubmitEdit_BothFieldsMissingRussian(t *testing.T) {
	api := new(MockUsersAPI)
	sink := &recordingSink{}
	tr, err := i18n.New("ru")
	require.NoError(t, err)
	uc := New(api, sink, tr, 10, zaptest.NewLogger(t))
	ctx := context.Background()

	api.On("ListUsers", ctx, int64(1)).Return(annPage(), nil)
	uc.Fetch(ctx, 1)
	require.True(t, uc.Select(ctx, 1))

	errs := uc.SubmitEdit(ctx, EditForm{})

	assert.Equal(t, FieldErrors{
		"first_name": "Введите имя!",
		"last_name":  "Введите фамилию!",
	}, errs)
}

func TestCancelEdit(t *testing.T) {
	uc, api, _ := setupTestUsecase(t)
	ctx := context.Background()

	api.On("ListUsers", ctx, int64(1)).Return(annPage(), nil)
	uc.Fetch(ctx, 1)
	require.True(t, uc.Select(ctx, 1))

	uc.CancelEdit(ctx)

	assert.Nil(t, uc.State().Editing)
	assert.False(t, uc.Select(ctx, 42))
}

// ==================== DELETE ====================

func TestConfirmDelete_Success(t *testing.T) {
	uc, api, sink := setupTestUsecase(t)
	ctx := context.Background()

	api.On("ListUsers", ctx, int64(1)).Return(annPage(), nil)
	api.On("DeleteUser", ctx, int64(1)).Return(nil)

	uc.Fetch(ctx, 1)
	require.True(t, uc.Select(ctx, 1))
	uc.RequestDelete(ctx, EditForm{FirstName: "Ann", LastName: "Lee"})
	uc.ConfirmDelete(ctx)

	s := uc.State()
	assert.Empty(t, s.Users)
	assert.Equal(t, int64(12), s.Total)
	assert.Nil(t, s.Editing)

	toasts := sink.all()
	require.Len(t, toasts, 2)
	assert.Equal(t, "Deleting a user", toasts[1].Title)
	assert.Equal(t, "User Ann Lee deleted", toasts[1].Body)

	api.AssertExpectations(t)
}

func TestConfirmDelete_FailureLeavesStore(t *testing.T) {
	uc, api, sink := setupTestUsecase(t)
	ctx := context.Background()

	api.On("ListUsers", ctx, int64(1)).Return(annPage(), nil)
	api.On("DeleteUser", ctx, int64(1)).Return(pkgerrors.NewUpstreamError("delete user", 0, errors.New("network down")))

	uc.Fetch(ctx, 1)
	require.True(t, uc.Select(ctx, 1))
	uc.RequestDelete(ctx, EditForm{FirstName: "Ann", LastName: "Lee"})
	uc.ConfirmDelete(ctx)

	s := uc.State()
	assert.Len(t, s.Users, 1)
	require.NotNil(t, s.Editing)
	assert.False(t, s.Editing.ConfirmingDelete)

	toasts := sink.all()
	require.Len(t, toasts, 2)
	assert.Equal(t, notification.KindError, toasts[1].Kind)
	assert.Equal(t, "Could not delete the user", toasts[1].Body)
}

func TestConfirmDelete_RequiresConfirmation(t *testing.T) {
	uc, api, _ := setupTestUsecase(t)
	ctx := context.Background()

	api.On("ListUsers", ctx, int64(1)).Return(annPage(), nil)
	uc.Fetch(ctx, 1)

	uc.ConfirmDelete(ctx) // no modal

	require.True(t, uc.Select(ctx, 1))
	uc.ConfirmDelete(ctx) // modal open, prompt not shown

	uc.RequestDelete(ctx, EditForm{FirstName: "Ann", LastName: "Lee"})
	uc.DismissDelete(ctx)
	uc.ConfirmDelete(ctx) // prompt answered "no"

	api.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything)
	assert.Len(t, uc.State().Users, 1)
}

func TestSubmitEdit_WithoutSessionLogsNothing(t *testing.T) {
	api := new(MockUsersAPI)
	sink := &recordingSink{}
	tr, err := i18n.New("en")
	require.NoError(t, err)
	core, logs := observer.New(zapcore.DebugLevel)
	uc := New(api, sink, tr, 10, zap.New(core))
	ctx := context.Background()

	errs := uc.SubmitEdit(ctx, EditForm{FirstName: "Ann", LastName: "Lee"})

	assert.Empty(t, errs)
	assert.Empty(t, sink.all())
	assert.Zero(t, logs.FilterMessage("user edited locally").Len())
}

func TestConfirmDelete_NamesSurviveCancelInFlight(t *testing.T) {
	uc, api, sink := setupTestUsecase(t)
	ctx := context.Background()

	api.On("ListUsers", ctx, int64(1)).Return(annPage(), nil)
	api.On("DeleteUser", ctx, int64(1)).
		Run(func(mock.Arguments) { uc.CancelEdit(ctx) }).
		Return(nil)

	uc.Fetch(ctx, 1)
	require.True(t, uc.Select(ctx, 1))
	uc.RequestDelete(ctx, EditForm{FirstName: "Annie", LastName: "Lee"})
	uc.ConfirmDelete(ctx)

	assert.Empty(t, uc.State().Users)

	toasts := sink.all()
	require.Len(t, toasts, 2)
	assert.Equal(t, "User Annie Lee deleted", toasts[1].Body)
}
