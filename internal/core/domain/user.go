package domain

// User is the primary entity: one row per person in the users table.
type User struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"address_line1"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
}

// Employment is a user's employment record. EndDate is nullable; dates are
// ISO strings (YYYY-MM-DD) end to end.
type Employment struct {
	CompanyName string  `json:"company_name"`
	Designation string  `json:"designation"`
	StartDate   string  `json:"start_date"`
	EndDate     *string `json:"end_date"`
	IsCurrent   bool    `json:"is_current"`
}

// Bank is a user's bank record. At most one row per user is assumed.
type Bank struct {
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	IFSC          string `json:"ifsc"`
	AccountType   string `json:"account_type"`
}

// UserView is the denormalized single-user read: the user row with the
// current employment and bank rows nested (null when absent).
type UserView struct {
	User
	Employment *Employment `json:"employment"`
	Bank       *Bank       `json:"bank"`
}

// UserListItem is one row of the left-joined list view. The joined columns
// are nullable because the employment/bank rows may not exist.
type UserListItem struct {
	User
	CompanyName   *string `json:"company_name"`
	Designation   *string `json:"designation"`
	BankName      *string `json:"bank_name"`
	AccountNumber *string `json:"account_number"`
}

// ListFilter holds the optional exact-match filters for the list view.
// Empty values mean no restriction; supplied filters are ANDed.
type ListFilter struct {
	Company string
	Bank    string
	Pincode string
}

// CreateUserRequest is the POST /users payload. All user fields are
// required; the employment and bank sections are optional.
type CreateUserRequest struct {
	FirstName    string `json:"first_name" binding:"required"`
	LastName     string `json:"last_name" binding:"required"`
	Email        string `json:"email" binding:"required"`
	Phone        string `json:"phone" binding:"required"`
	AddressLine1 string `json:"address_line1" binding:"required"`
	City         string `json:"city" binding:"required"`
	State        string `json:"state" binding:"required"`
	Pincode      string `json:"pincode" binding:"required"`

	Employment *EmploymentPayload `json:"employment"`
	Bank       *BankPayload       `json:"bank"`
}

// EmploymentPayload is a full employment section as supplied on creation
// or on the append endpoint. IsCurrent defaults to true when omitted.
type EmploymentPayload struct {
	CompanyName string  `json:"company_name" binding:"required"`
	Designation string  `json:"designation" binding:"required"`
	StartDate   string  `json:"start_date" binding:"required"`
	EndDate     *string `json:"end_date"`
	IsCurrent   *bool   `json:"is_current"`
}

// Current resolves the is_current default (true when omitted).
func (p EmploymentPayload) Current() bool {
	if p.IsCurrent == nil {
		return true
	}
	return *p.IsCurrent
}

// BankPayload is a full bank section; all fields are required when the
// section is present.
type BankPayload struct {
	BankName      string `json:"bank_name" binding:"required"`
	AccountNumber string `json:"account_number" binding:"required"`
	IFSC          string `json:"ifsc" binding:"required"`
	AccountType   string `json:"account_type" binding:"required"`
}

// UpdateUserRequest is the PUT /users/:id payload. Every field is optional;
// nil pointers mean "not supplied, keep the stored value".
type UpdateUserRequest struct {
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	AddressLine1 *string `json:"address_line1"`
	City         *string `json:"city"`
	State        *string `json:"state"`
	Pincode      *string `json:"pincode"`

	Employment *EmploymentUpdate `json:"employment"`
	Bank       *BankUpdate       `json:"bank"`
}

// EmploymentUpdate is the partial employment section of an update.
//
// EndDate deliberately breaks the coalesce pattern: it is written to the
// store directly, so omitting it (or sending null) clears the column. The
// tri-state OptionalString keeps "omitted" and "explicit null" apart for
// change reporting.
type EmploymentUpdate struct {
	CompanyName *string        `json:"company_name"`
	Designation *string        `json:"designation"`
	StartDate   *string        `json:"start_date"`
	EndDate     OptionalString `json:"end_date"`
	IsCurrent   *bool          `json:"is_current"`
}

// BankUpdate is the partial bank section of an update.
type BankUpdate struct {
	BankName      *string `json:"bank_name"`
	AccountNumber *string `json:"account_number"`
	IFSC          *string `json:"ifsc"`
	AccountType   *string `json:"account_type"`
}

// UpdateResult reports exactly what a partial update changed.
type UpdateResult struct {
	UpdatedUserID           int64    `json:"updated_user_id"`
	UpdatedSections         []string `json:"updated_sections"`
	UpdatedUserFields       []string `json:"updated_user_fields"`
	UpdatedEmploymentFields []string `json:"updated_employment_fields"`
	UpdatedBankFields       []string `json:"updated_bank_fields"`
}
