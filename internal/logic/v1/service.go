package v1

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/karthickraj/user-profile-service/internal/core/domain"
	"github.com/karthickraj/user-profile-service/middleware"
)

// UserService holds the business logic for user profile management.
// It is deliberately thin: the reconciliation itself lives behind the
// repository so that comparison and write share one transaction.
type UserService struct {
	repo domain.UserRepository
}

// NewUserService creates a new user service.
func NewUserService(repo domain.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// CreateUser creates a user with optional employment/bank sections in one
// transaction, then assembles the freshly created denormalized view.
func (s *UserService) CreateUser(ctx context.Context, req domain.CreateUserRequest) (int64, *domain.UserView, error) {
	ctx, span := middleware.StartSpan(ctx, "user.create", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Bool("with_employment", req.Employment != nil),
		attribute.Bool("with_bank", req.Bank != nil),
	))
	defer span.End()

	id, err := s.repo.CreateUser(ctx, req)
	if err != nil {
		span.RecordError(err)
		return 0, nil, fmt.Errorf("create user: %w", err)
	}

	view, err := s.repo.GetUser(ctx, id)
	if err != nil {
		span.RecordError(err)
		return 0, nil, fmt.Errorf("read back user %d: %w", id, err)
	}

	span.SetAttributes(attribute.Int64("user.id", id))
	span.AddEvent("user.created")
	return id, view, nil
}

// GetUser returns the denormalized single-user view.
func (s *UserService) GetUser(ctx context.Context, id int64) (*domain.UserView, error) {
	ctx, span := middleware.StartSpan(ctx, "user.get", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int64("user.id", id),
	))
	defer span.End()

	view, err := s.repo.GetUser(ctx, id)
	if err != nil {
		span.SetAttributes(attribute.Bool("user.found", false))
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}

	span.SetAttributes(attribute.Bool("user.found", true))
	return view, nil
}

// ListUsers returns the filtered left-joined list view.
func (s *UserService) ListUsers(ctx context.Context, filter domain.ListFilter) ([]domain.UserListItem, error) {
	ctx, span := middleware.StartSpan(ctx, "user.list", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	items, err := s.repo.ListUsers(ctx, filter)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list users: %w", err)
	}

	span.SetAttributes(attribute.Int("user.count", len(items)))
	return items, nil
}

// UpdateUser applies a partial update and reports the changed fields.
func (s *UserService) UpdateUser(ctx context.Context, id int64, req domain.UpdateUserRequest) (*domain.UpdateResult, error) {
	ctx, span := middleware.StartSpan(ctx, "user.update", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int64("user.id", id),
	))
	defer span.End()

	result, err := s.repo.UpdateUser(ctx, id, req)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}

	span.SetAttributes(attribute.StringSlice("user.updated_sections", result.UpdatedSections))
	return result, nil
}

// DeleteUser removes a user by id.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	ctx, span := middleware.StartSpan(ctx, "user.delete", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int64("user.id", id),
	))
	defer span.End()

	if err := s.repo.DeleteUser(ctx, id); err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete user %d: %w", id, err)
	}

	span.AddEvent("user.deleted")
	return nil
}

// AddEmployment appends an employment record to an existing user.
func (s *UserService) AddEmployment(ctx context.Context, userID int64, p domain.EmploymentPayload) (*domain.Employment, error) {
	ctx, span := middleware.StartSpan(ctx, "user.add_employment", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int64("user.id", userID),
	))
	defer span.End()

	emp, err := s.repo.AddEmployment(ctx, userID, p)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("add employment for user %d: %w", userID, err)
	}
	return emp, nil
}

// AddBank appends a bank record to an existing user.
func (s *UserService) AddBank(ctx context.Context, userID int64, p domain.BankPayload) (*domain.Bank, error) {
	ctx, span := middleware.StartSpan(ctx, "user.add_bank", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int64("user.id", userID),
	))
	defer span.End()

	bank, err := s.repo.AddBank(ctx, userID, p)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("add bank for user %d: %w", userID, err)
	}
	return bank, nil
}
