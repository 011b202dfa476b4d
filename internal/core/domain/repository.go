package domain

import "context"

// UserRepository defines the interface for user data access.
// Mutating operations run inside a single transaction; partial failure
// never leaves rows behind.
type UserRepository interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (int64, error)
	GetUser(ctx context.Context, id int64) (*UserView, error)
	ListUsers(ctx context.Context, filter ListFilter) ([]UserListItem, error)
	UpdateUser(ctx context.Context, id int64, req UpdateUserRequest) (*UpdateResult, error)
	DeleteUser(ctx context.Context, id int64) error
	AddEmployment(ctx context.Context, userID int64, p EmploymentPayload) (*Employment, error)
	AddBank(ctx context.Context, userID int64, p BankPayload) (*Bank, error)
}
