package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "usertable/internal/domain/user"
	pkgerrors "usertable/pkg/errors"
)

// Repository defines the data access the stub users API needs.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*domain.Record, error)                 // Retrieve user by ID
	Delete(ctx context.Context, id int64) error                                   // Delete user by ID
	List(ctx context.Context, page, limit int64) ([]domain.Record, int64, error) // One page plus the total count
}

// Usecase implements the stub users API: list, get and delete.
type Usecase struct {
	repo     Repository
	log      *zap.Logger
	validate *validator.Validate
}

// New creates a new instance of Usecase.
func New(r Repository, log *zap.Logger) *Usecase {
	return &Usecase{repo: r, log: log, validate: validator.New()}
}

// formatValidationError converts validator.ValidationErrors into a *pkgerrors.ValidationError.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return err
	}

	var messages []string
	for _, e := range validationErrors {
		switch e.Tag() {
		case "gt", "gte":
			messages = append(messages, fmt.Sprintf("%s must be greater than %s", e.Field(), thresholdFor(e)))
		case "lte":
			messages = append(messages, fmt.Sprintf("%s must be at most %s", e.Field(), e.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}
	return pkgerrors.NewValidationError(validationErrors[0].Field(), strings.Join(messages, ", "))
}

func thresholdFor(e validator.FieldError) string {
	if e.Tag() == "gte" {
		return "or equal to " + e.Param()
	}
	return e.Param()
}

// ListUsers returns one page of users. Zero page or per_page fall back to the defaults.
func (uc *Usecase) ListUsers(ctx context.Context, in ListUsersRequest) (*ListUsersResponse, error) {
	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}
	if in.Page == 0 {
		in.Page = 1
	}
	if in.PerPage == 0 {
		in.PerPage = DefaultPerPage
	}

	uc.log.Info("listing users", zap.Int64("page", in.Page), zap.Int64("per_page", in.PerPage))

	records, total, err := uc.repo.List(ctx, in.Page, in.PerPage)
	if err != nil {
		uc.log.Error("failed to list users", zap.Int64("page", in.Page), zap.Int64("per_page", in.PerPage), zap.Error(err))
		return nil, err
	}

	return &ListUsersResponse{
		Users:      records,
		Pagination: domain.NewPagination(total, in.Page, in.PerPage),
	}, nil
}

// GetUser retrieves a user by ID.
func (uc *Usecase) GetUser(ctx context.Context, in GetUserRequest) (*domain.Record, error) {
	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("get user validation failed", zap.Int64("id", in.ID), zap.Error(err))
		return nil, formatValidationError(err)
	}

	r, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			uc.log.Info("user not found", zap.Int64("id", in.ID))
		} else {
			uc.log.Error("failed to get user", zap.Int64("id", in.ID), zap.Error(err))
		}
		return nil, err
	}
	return r, nil
}

// DeleteUser deletes a user by ID.
func (uc *Usecase) DeleteUser(ctx context.Context, in DeleteUserRequest) error {
	uc.log.Info("deleting user", zap.Int64("id", in.ID))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("delete user validation failed", zap.Int64("id", in.ID), zap.Error(err))
		return formatValidationError(err)
	}

	if err := uc.repo.Delete(ctx, in.ID); err != nil {
		if !pkgerrors.IsNotFound(err) {
			uc.log.Error("failed to delete user", zap.Int64("id", in.ID), zap.Error(err))
		}
		return err
	}
	return nil
}
