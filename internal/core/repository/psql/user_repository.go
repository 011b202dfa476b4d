package psql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/karthickraj/user-profile-service/internal/core/domain"
)

// DB is the pgx query surface the repository needs; *pgxpool.Pool
// satisfies it.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository implements domain.UserRepository using PostgreSQL.
//
// Schema assumed: users, employment_info, user_bank_info, with
// employment_info.user_id and user_bank_info.user_id declared
// ON DELETE CASCADE so user deletion removes dependents at the store
// level. Date columns are read back as text (YYYY-MM-DD).
type UserRepository struct {
	pool DB
}

// NewUserRepository creates a new PostgreSQL user repository.
func NewUserRepository(pool DB) *UserRepository {
	return &UserRepository{pool: pool}
}

var _ domain.UserRepository = (*UserRepository)(nil)

const (
	sqlSelectUser = `
		SELECT id, first_name, last_name, email, phone, address_line1, city, state, pincode
		FROM   users
		WHERE  id = $1`

	sqlSelectCurrentEmployment = `
		SELECT company_name, designation, start_date::text, end_date::text, is_current
		FROM   employment_info
		WHERE  user_id = $1 AND is_current = true
		LIMIT  1`

	sqlSelectEmployment = `
		SELECT company_name, designation, start_date::text, end_date::text, is_current
		FROM   employment_info
		WHERE  user_id = $1
		LIMIT  1`

	sqlSelectBank = `
		SELECT bank_name, account_number, ifsc, account_type
		FROM   user_bank_info
		WHERE  user_id = $1
		LIMIT  1`

	sqlInsertUser = `
		INSERT INTO users (first_name, last_name, email, phone, address_line1, city, state, pincode)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	sqlInsertEmployment = `
		INSERT INTO employment_info (user_id, company_name, designation, start_date, end_date, is_current)
		VALUES ($1, $2, $3, $4, $5, $6)`

	sqlInsertBank = `
		INSERT INTO user_bank_info (user_id, bank_name, account_number, ifsc, account_type)
		VALUES ($1, $2, $3, $4, $5)`

	sqlUpdateUser = `
		UPDATE users SET
			first_name = $1, last_name = $2, email = $3, phone = $4,
			address_line1 = $5, city = $6, state = $7, pincode = $8
		WHERE id = $9`

	sqlUpdateEmployment = `
		UPDATE employment_info SET
			company_name = $1, designation = $2, start_date = $3,
			end_date = $4, is_current = $5
		WHERE user_id = $6`

	sqlUpdateBank = `
		UPDATE user_bank_info SET
			bank_name = $1, account_number = $2, ifsc = $3, account_type = $4
		WHERE user_id = $5`

	sqlDeleteUser = `
		DELETE FROM users WHERE id = $1`
)

// withTx runs fn inside a transaction, committing on success and rolling
// back on error or panic. The deferred Rollback is a no-op after Commit.
func (r *UserRepository) withTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// CreateUser inserts a user and, when supplied, its initial employment and
// bank rows as one transaction. Returns the generated user id.
func (r *UserRepository) CreateUser(ctx context.Context, req domain.CreateUserRequest) (int64, error) {
	var userID int64
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, sqlInsertUser,
			req.FirstName, req.LastName, req.Email, req.Phone,
			req.AddressLine1, req.City, req.State, req.Pincode,
		).Scan(&userID)
		if err != nil {
			return fmt.Errorf("insert user: %w", err)
		}

		if e := req.Employment; e != nil {
			_, err = tx.Exec(ctx, sqlInsertEmployment,
				userID, e.CompanyName, e.Designation, e.StartDate, e.EndDate, e.Current())
			if err != nil {
				return fmt.Errorf("insert employment: %w", err)
			}
		}

		if b := req.Bank; b != nil {
			_, err = tx.Exec(ctx, sqlInsertBank,
				userID, b.BankName, b.AccountNumber, b.IFSC, b.AccountType)
			if err != nil {
				return fmt.Errorf("insert bank: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return userID, nil
}

// GetUser assembles the denormalized view: the user row with the current
// employment row and the bank row nested, null when absent.
func (r *UserRepository) GetUser(ctx context.Context, id int64) (*domain.UserView, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, sqlSelectUser, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}

	view := &domain.UserView{User: *user}

	emp, err := scanEmployment(r.pool.QueryRow(ctx, sqlSelectCurrentEmployment, id))
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("query employment: %w", err)
	}
	view.Employment = emp

	bank, err := scanBank(r.pool.QueryRow(ctx, sqlSelectBank, id))
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("query bank: %w", err)
	}
	view.Bank = bank

	return view, nil
}

// ListUsers returns the left-joined flat view, restricted by any supplied
// exact-match filters. Filters are ANDed; ordering is the store's natural
// order.
func (r *UserRepository) ListUsers(ctx context.Context, filter domain.ListFilter) ([]domain.UserListItem, error) {
	query := `
		SELECT u.id, u.first_name, u.last_name, u.email, u.phone,
		       u.address_line1, u.city, u.state, u.pincode,
		       e.company_name, e.designation,
		       b.bank_name, b.account_number
		FROM users u
		LEFT JOIN employment_info e ON u.id = e.user_id AND e.is_current = true
		LEFT JOIN user_bank_info b ON u.id = b.user_id
		WHERE 1=1`
	var args []any

	if filter.Company != "" {
		args = append(args, filter.Company)
		query += fmt.Sprintf(" AND e.company_name = $%d", len(args))
	}
	if filter.Bank != "" {
		args = append(args, filter.Bank)
		query += fmt.Sprintf(" AND b.bank_name = $%d", len(args))
	}
	if filter.Pincode != "" {
		args = append(args, filter.Pincode)
		query += fmt.Sprintf(" AND u.pincode = $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	items := []domain.UserListItem{}
	for rows.Next() {
		var item domain.UserListItem
		err := rows.Scan(
			&item.ID, &item.FirstName, &item.LastName, &item.Email, &item.Phone,
			&item.AddressLine1, &item.City, &item.State, &item.Pincode,
			&item.CompanyName, &item.Designation,
			&item.BankName, &item.AccountNumber,
		)
		if err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateUser applies a partial update spanning up to three tables in one
// transaction and reports which fields actually changed. The comparison
// and the write share the transaction, so there is no lost update within
// a single request.
func (r *UserRepository) UpdateUser(ctx context.Context, id int64, req domain.UpdateUserRequest) (*domain.UpdateResult, error) {
	result := &domain.UpdateResult{
		UpdatedUserID:           id,
		UpdatedSections:         []string{},
		UpdatedUserFields:       []string{},
		UpdatedEmploymentFields: []string{},
		UpdatedBankFields:       []string{},
	}

	err := r.withTx(ctx, func(tx pgx.Tx) error {
		oldUser, err := scanUser(tx.QueryRow(ctx, sqlSelectUser, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrUserNotFound
			}
			return fmt.Errorf("query user: %w", err)
		}

		if changed := domain.DiffUser(*oldUser, req); len(changed) > 0 {
			result.UpdatedUserFields = changed
			result.UpdatedSections = append(result.UpdatedSections, "user")

			merged := domain.MergeUser(*oldUser, req)
			_, err = tx.Exec(ctx, sqlUpdateUser,
				merged.FirstName, merged.LastName, merged.Email, merged.Phone,
				merged.AddressLine1, merged.City, merged.State, merged.Pincode, id)
			if err != nil {
				return fmt.Errorf("update user: %w", err)
			}
		}

		if req.Employment != nil {
			if err := r.updateEmployment(ctx, tx, id, *req.Employment, result); err != nil {
				return err
			}
		}

		if req.Bank != nil {
			if err := r.updateBank(ctx, tx, id, *req.Bank, result); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// updateEmployment reconciles the employment section: merge-update when a
// row exists, lazy insert when it doesn't. On the insert path every
// supplied key counts as changed and the section is always listed.
func (r *UserRepository) updateEmployment(ctx context.Context, tx pgx.Tx, userID int64, upd domain.EmploymentUpdate, result *domain.UpdateResult) error {
	old, err := scanEmployment(tx.QueryRow(ctx, sqlSelectEmployment, userID))
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("query employment: %w", err)
	}

	if old != nil {
		if changed := domain.DiffEmployment(*old, upd); len(changed) > 0 {
			result.UpdatedEmploymentFields = changed
			result.UpdatedSections = append(result.UpdatedSections, "employment")
		}

		// The update always runs: end_date is written directly, so even a
		// no-change payload clears it when the payload omits the field.
		merged := domain.MergeEmployment(*old, upd)
		_, err = tx.Exec(ctx, sqlUpdateEmployment,
			merged.CompanyName, merged.Designation, merged.StartDate,
			merged.EndDate, merged.IsCurrent, userID)
		if err != nil {
			return fmt.Errorf("update employment: %w", err)
		}
		return nil
	}

	if fields := domain.SuppliedEmploymentFields(upd); len(fields) > 0 {
		result.UpdatedEmploymentFields = fields
	}
	result.UpdatedSections = append(result.UpdatedSections, "employment")

	isCurrent := true
	if upd.IsCurrent != nil {
		isCurrent = *upd.IsCurrent
	}
	_, err = tx.Exec(ctx, sqlInsertEmployment,
		userID, upd.CompanyName, upd.Designation, upd.StartDate,
		upd.EndDate.Value, isCurrent)
	if err != nil {
		return fmt.Errorf("insert employment: %w", err)
	}
	return nil
}

// updateBank reconciles the bank section with the same existing/absent
// branching as employment, using full coalesce (no asymmetric field).
func (r *UserRepository) updateBank(ctx context.Context, tx pgx.Tx, userID int64, upd domain.BankUpdate, result *domain.UpdateResult) error {
	old, err := scanBank(tx.QueryRow(ctx, sqlSelectBank, userID))
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("query bank: %w", err)
	}

	if old != nil {
		if changed := domain.DiffBank(*old, upd); len(changed) > 0 {
			result.UpdatedBankFields = changed
			result.UpdatedSections = append(result.UpdatedSections, "bank")

			merged := domain.MergeBank(*old, upd)
			_, err = tx.Exec(ctx, sqlUpdateBank,
				merged.BankName, merged.AccountNumber, merged.IFSC, merged.AccountType, userID)
			if err != nil {
				return fmt.Errorf("update bank: %w", err)
			}
		}
		return nil
	}

	if fields := domain.SuppliedBankFields(upd); len(fields) > 0 {
		result.UpdatedBankFields = fields
	}
	result.UpdatedSections = append(result.UpdatedSections, "bank")

	_, err = tx.Exec(ctx, sqlInsertBank,
		userID, upd.BankName, upd.AccountNumber, upd.IFSC, upd.AccountType)
	if err != nil {
		return fmt.Errorf("insert bank: %w", err)
	}
	return nil
}

// DeleteUser removes the user row inside a transaction. Dependent rows go
// with it via the store-level cascade.
func (r *UserRepository) DeleteUser(ctx context.Context, id int64) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		var existing int64
		err := tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1`, id).Scan(&existing)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrUserNotFound
			}
			return fmt.Errorf("query user: %w", err)
		}

		if _, err := tx.Exec(ctx, sqlDeleteUser, id); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
}

// AddEmployment appends an employment record for an existing user.
func (r *UserRepository) AddEmployment(ctx context.Context, userID int64, p domain.EmploymentPayload) (*domain.Employment, error) {
	emp := &domain.Employment{
		CompanyName: p.CompanyName,
		Designation: p.Designation,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		IsCurrent:   p.Current(),
	}
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		if err := checkUserExists(ctx, tx, userID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, sqlInsertEmployment,
			userID, emp.CompanyName, emp.Designation, emp.StartDate, emp.EndDate, emp.IsCurrent)
		if err != nil {
			return fmt.Errorf("insert employment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return emp, nil
}

// AddBank appends a bank record for an existing user.
func (r *UserRepository) AddBank(ctx context.Context, userID int64, p domain.BankPayload) (*domain.Bank, error) {
	bank := &domain.Bank{
		BankName:      p.BankName,
		AccountNumber: p.AccountNumber,
		IFSC:          p.IFSC,
		AccountType:   p.AccountType,
	}
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		if err := checkUserExists(ctx, tx, userID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, sqlInsertBank,
			userID, bank.BankName, bank.AccountNumber, bank.IFSC, bank.AccountType)
		if err != nil {
			return fmt.Errorf("insert bank: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return bank, nil
}

func checkUserExists(ctx context.Context, tx pgx.Tx, userID int64) error {
	var id int64
	err := tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1`, userID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("query user: %w", err)
	}
	return nil
}

// Centralised scans: adding or removing a column only touches one place.

func scanUser(row pgx.Row) (*domain.User, error) {
	u := &domain.User{}
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone,
		&u.AddressLine1, &u.City, &u.State, &u.Pincode)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// scanEmployment returns (nil, pgx.ErrNoRows) when the row is absent;
// callers treat that as "no employment section".
func scanEmployment(row pgx.Row) (*domain.Employment, error) {
	e := &domain.Employment{}
	err := row.Scan(&e.CompanyName, &e.Designation, &e.StartDate, &e.EndDate, &e.IsCurrent)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func scanBank(row pgx.Row) (*domain.Bank, error) {
	b := &domain.Bank{}
	err := row.Scan(&b.BankName, &b.AccountNumber, &b.IFSC, &b.AccountType)
	if err != nil {
		return nil, err
	}
	return b, nil
}
