package userstore

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"usertable/internal/domain/user"
	pkgerrors "usertable/pkg/errors"
)

func setupTestStore(t *testing.T) *Store {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// every pooled connection to :memory: would open its own empty database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	s := New(db, zaptest.NewLogger(t))
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func seeded(t *testing.T) *Store {
	s := setupTestStore(t)
	n, err := s.Seed(context.Background(), DefaultSeed())
	require.NoError(t, err)
	require.Equal(t, 12, n)
	return s
}

func TestStore_Seed_OnlyWhenEmpty(t *testing.T) {
	s := seeded(t)

	n, err := s.Seed(context.Background(), DefaultSeed())
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, total, err := s.List(context.Background(), 1, 6)
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
}

func TestStore_List_Pages(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		page    int64
		wantIDs []int64
	}{
		{name: "first page", page: 1, wantIDs: []int64{1, 2, 3, 4, 5, 6}},
		{name: "second page", page: 2, wantIDs: []int64{7, 8, 9, 10, 11, 12}},
		{name: "past the end", page: 3, wantIDs: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, total, err := s.List(ctx, tt.page, 6)
			require.NoError(t, err)
			assert.Equal(t, int64(12), total)

			ids := make([]int64, len(records))
			for i, r := range records {
				ids[i] = r.ID
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestStore_GetByID(t *testing.T) {
	s := seeded(t)

	r, err := s.GetByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Janet", r.FirstName)
	assert.Equal(t, "Weaver", r.LastName)
	assert.Equal(t, "janet.weaver@reqres.in", r.Email)
	assert.Equal(t, "https://reqres.in/img/faces/2-image.jpg", r.Avatar)
}

func TestStore_GetByID_NotFound(t *testing.T) {
	s := seeded(t)

	r, err := s.GetByID(context.Background(), 99)
	assert.Nil(t, r)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestStore_Delete(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	require.NoError(t, s.Delete(ctx, 3))

	_, err := s.GetByID(ctx, 3)
	assert.True(t, pkgerrors.IsNotFound(err))

	_, total, err := s.List(ctx, 1, 6)
	require.NoError(t, err)
	assert.Equal(t, int64(11), total)

	err = s.Delete(ctx, 3)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestStore_Create(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, &user.Record{
		User:   user.User{Email: "ann@x.com", FirstName: "Ann", LastName: "Lee"},
		Avatar: "a.png",
	})
	require.NoError(t, err)
	assert.Positive(t, id)

	r, err := s.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ann Lee", r.FullName())

	_, err = s.Create(ctx, &user.Record{User: user.User{Email: "ann@x.com", FirstName: "A", LastName: "B"}})
	assert.Error(t, err, "email is unique")

	_, err = s.Create(ctx, nil)
	assert.Error(t, err)
}

func TestStore_Seed_RollsBackOnConflict(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	seeds := DefaultSeed()[:3]
	seeds = append(seeds, user.Record{User: user.User{ID: 99, Email: seeds[0].Email, FirstName: "Dup", LastName: "Licate"}})

	n, err := s.Seed(ctx, seeds)
	require.Error(t, err)
	assert.Equal(t, 0, n)

	_, total, err := s.List(ctx, 1, 6)
	require.NoError(t, err)
	assert.Zero(t, total, "partial seed must not persist")

	n, err = s.Seed(ctx, DefaultSeed())
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	r, err := s.GetByID(ctx, 12)
	require.NoError(t, err)
	assert.Equal(t, "Rachel Howell", r.FullName())
}
