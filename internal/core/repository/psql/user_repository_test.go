package psql

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karthickraj/user-profile-service/internal/core/domain"
)

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *UserRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewUserRepository(mock)
}

// anyArgs returns n AnyArg matchers; pgxmock requires the expected
// argument count to match even when the values are not being checked.
func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func userRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "first_name", "last_name", "email", "phone",
		"address_line1", "city", "state", "pincode",
	}).AddRow(int64(7), "A", "B", "a@b.com", "1", "x", "c", "s", "600001")
}

func TestUpdateUser_LazyInsertEmploymentListsSection(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, first_name").WithArgs(int64(7)).WillReturnRows(userRows())
	mock.ExpectQuery("SELECT company_name, designation").WithArgs(int64(7)).WillReturnError(pgx.ErrNoRows)
	mock.ExpectExec("INSERT INTO employment_info").WithArgs(anyArgs(6)...).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	company := "Acme"
	result, err := repo.UpdateUser(context.Background(), 7, domain.UpdateUserRequest{
		Employment: &domain.EmploymentUpdate{CompanyName: &company},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"employment"}, result.UpdatedSections)
	assert.Equal(t, []string{"company_name"}, result.UpdatedEmploymentFields)
	assert.Equal(t, []string{}, result.UpdatedUserFields)
	require.NoError(t, mock.ExpectationsWereMet())
}

// An empty employment object still inserts a row, and the section is
// listed even though no fields were supplied.
func TestUpdateUser_LazyInsertEmptyEmploymentObject(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, first_name").WithArgs(int64(7)).WillReturnRows(userRows())
	mock.ExpectQuery("SELECT company_name, designation").WithArgs(int64(7)).WillReturnError(pgx.ErrNoRows)
	mock.ExpectExec("INSERT INTO employment_info").WithArgs(anyArgs(6)...).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	result, err := repo.UpdateUser(context.Background(), 7, domain.UpdateUserRequest{
		Employment: &domain.EmploymentUpdate{},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"employment"}, result.UpdatedSections)
	assert.Equal(t, []string{}, result.UpdatedEmploymentFields)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUser_LazyInsertBankListsSection(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, first_name").WithArgs(int64(7)).WillReturnRows(userRows())
	mock.ExpectQuery("SELECT bank_name, account_number").WithArgs(int64(7)).WillReturnError(pgx.ErrNoRows)
	mock.ExpectExec("INSERT INTO user_bank_info").WithArgs(anyArgs(5)...).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	bank := "HDFC"
	result, err := repo.UpdateUser(context.Background(), 7, domain.UpdateUserRequest{
		Bank: &domain.BankUpdate{BankName: &bank},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"bank"}, result.UpdatedSections)
	assert.Equal(t, []string{"bank_name"}, result.UpdatedBankFields)
	require.NoError(t, mock.ExpectationsWereMet())
}

// A failure partway through the update rolls the whole transaction back:
// the users row write that already succeeded must not be committed.
func TestUpdateUser_FailureRollsBackAllTables(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, first_name").WithArgs(int64(7)).WillReturnRows(userRows())
	mock.ExpectExec("UPDATE users").WithArgs(anyArgs(9)...).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery("SELECT company_name, designation").WithArgs(int64(7)).WillReturnError(pgx.ErrNoRows)
	mock.ExpectExec("INSERT INTO employment_info").
		WithArgs(anyArgs(6)...).
		WillReturnError(errors.New(`null value in column "company_name" violates not-null constraint`))
	mock.ExpectRollback()

	pincode := "600002"
	_, err := repo.UpdateUser(context.Background(), 7, domain.UpdateUserRequest{
		Pincode:    &pincode,
		Employment: &domain.EmploymentUpdate{},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not-null constraint")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUser_NoRowReturnsNotFound(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, first_name").WithArgs(int64(999)).WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.UpdateUser(context.Background(), 999, domain.UpdateUserRequest{})

	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

// The employment row update runs even when nothing diffs, because
// end_date is written directly and omission clears it.
func TestUpdateUser_ExistingEmploymentAlwaysWritten(t *testing.T) {
	mock, repo := newMockRepo(t)

	end := "2023-06-30"
	empRows := pgxmock.NewRows([]string{
		"company_name", "designation", "start_date", "end_date", "is_current",
	}).AddRow("Acme", "Engineer", "2020-01-01", &end, true)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, first_name").WithArgs(int64(7)).WillReturnRows(userRows())
	mock.ExpectQuery("SELECT company_name, designation").WithArgs(int64(7)).WillReturnRows(empRows)
	mock.ExpectExec("UPDATE employment_info").
		WithArgs(anyArgs(6)...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	company := "Acme" // identical value, no diff
	result, err := repo.UpdateUser(context.Background(), 7, domain.UpdateUserRequest{
		Employment: &domain.EmploymentUpdate{CompanyName: &company},
	})

	require.NoError(t, err)
	// An omitted end_date is not reported as changed, so nothing diffs and
	// no section is listed, but the row write (which clears end_date) still
	// happened, as the matched expectation shows.
	assert.Equal(t, []string{}, result.UpdatedEmploymentFields)
	assert.Equal(t, []string{}, result.UpdatedSections)
	require.NoError(t, mock.ExpectationsWereMet())
}
