package userstore

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"usertable/internal/domain/user"
	pkgerrors "usertable/pkg/errors"
)

// Store implements the stub API's user repository on GORM. It runs on SQLite
// or PostgreSQL depending on the dialector the caller opened.
type Store struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// New creates a new instance of Store.
func New(db *gorm.DB, log *zap.Logger) *Store {
	return &Store{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Email     string `gorm:"not null;unique"`
	FirstName string `gorm:"not null"`
	LastName  string `gorm:"not null"`
	Avatar    string
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

func (m UserSchema) toDomain() user.Record {
	return user.Record{
		User: user.User{
			ID:        m.ID,
			Email:     m.Email,
			FirstName: m.FirstName,
			LastName:  m.LastName,
		},
		Avatar: m.Avatar,
	}
}

func fromDomain(r user.Record) UserSchema {
	return UserSchema{
		ID:        r.ID,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Avatar:    r.Avatar,
	}
}

// Migrate creates or updates the users table.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&UserSchema{}); err != nil {
		return fmt.Errorf("failed to migrate users table: %w", err)
	}
	return nil
}

// Create inserts a new user and returns its id. A zero ID lets the database assign one.
func (s *Store) Create(ctx context.Context, r *user.Record) (int64, error) {
	if r == nil {
		return 0, errors.New("user cannot be nil")
	}

	model := fromDomain(*r)

	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		s.log.Error("failed to create user in db", zap.Error(err), zap.String("email", r.Email))
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Debug("user created in db", zap.Int64("id", model.ID))
	return model.ID, nil
}

// GetByID retrieves a user by id.
func (s *Store) GetByID(ctx context.Context, id int64) (*user.Record, error) {
	var model UserSchema
	if err := s.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Debug("user not found", zap.Int64("id", id))
			return nil, pkgerrors.NewNotFoundError("user", fmt.Sprintf("user not found: id=%d", id))
		}
		s.log.Error("failed to get user from db", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	r := model.toDomain()
	return &r, nil
}

// Delete removes a user by id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&UserSchema{}, id)
	if res.Error != nil {
		s.log.Error("failed to delete user in db", zap.Error(res.Error), zap.Int64("id", id))
		return fmt.Errorf("failed to delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return pkgerrors.NewNotFoundError("user", fmt.Sprintf("user not found: id=%d", id))
	}

	s.log.Info("user deleted in db", zap.Int64("id", id))
	return nil
}

// List returns one page of users ordered by id and the total row count.
func (s *Store) List(ctx context.Context, page, limit int64) ([]user.Record, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&UserSchema{}).Count(&total).Error; err != nil {
		s.log.Error("failed to count users", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	p := user.NewPagination(total, page, limit)

	var models []UserSchema
	if err := s.db.WithContext(ctx).
		Order("id ASC").
		Offset(int(p.Offset())).
		Limit(int(limit)).
		Find(&models).Error; err != nil {
		s.log.Error("failed to list users from db", zap.Error(err), zap.Int64("page", page), zap.Int64("limit", limit))
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	records := make([]user.Record, len(models))
	for i, m := range models {
		records[i] = m.toDomain()
	}

	return records, total, nil
}

// Seed inserts users when the table is empty and reports how many were added.
func (s *Store) Seed(ctx context.Context, seeds []user.Record) (int, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&UserSchema{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		s.log.Debug("users table already populated, skipping seed", zap.Int64("count", count))
		return 0, nil
	}

	if len(seeds) == 0 {
		return 0, nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txStore := &Store{db: tx, log: s.log}
		for i := range seeds {
			if _, err := txStore.Create(ctx, &seeds[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to seed users: %w", err)
	}

	s.log.Info("users seeded", zap.Int("count", len(seeds)))
	return len(seeds), nil
}
