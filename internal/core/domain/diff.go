package domain

// Changed-field computation and coalesce merging for partial updates.
// These are pure so the reconciliation rules can be tested without a
// store; the repository applies them inside the update transaction.

// DiffUser returns the names of user fields that are supplied in req and
// differ from the stored values, in schema order.
func DiffUser(old User, req UpdateUserRequest) []string {
	var changed []string
	for _, f := range []struct {
		name string
		old  string
		new  *string
	}{
		{"first_name", old.FirstName, req.FirstName},
		{"last_name", old.LastName, req.LastName},
		{"email", old.Email, req.Email},
		{"phone", old.Phone, req.Phone},
		{"address_line1", old.AddressLine1, req.AddressLine1},
		{"city", old.City, req.City},
		{"state", old.State, req.State},
		{"pincode", old.Pincode, req.Pincode},
	} {
		if f.new != nil && *f.new != f.old {
			changed = append(changed, f.name)
		}
	}
	return changed
}

// MergeUser applies the coalesce rule: a supplied value wins, an omitted
// field keeps the stored value. ID is carried over unchanged.
func MergeUser(old User, req UpdateUserRequest) User {
	merged := old
	merged.FirstName = coalesce(req.FirstName, old.FirstName)
	merged.LastName = coalesce(req.LastName, old.LastName)
	merged.Email = coalesce(req.Email, old.Email)
	merged.Phone = coalesce(req.Phone, old.Phone)
	merged.AddressLine1 = coalesce(req.AddressLine1, old.AddressLine1)
	merged.City = coalesce(req.City, old.City)
	merged.State = coalesce(req.State, old.State)
	merged.Pincode = coalesce(req.Pincode, old.Pincode)
	return merged
}

// DiffEmployment returns the employment fields that are supplied and
// differ from the stored row. end_date only counts as supplied when the
// payload mentioned it (present value or explicit null).
func DiffEmployment(old Employment, upd EmploymentUpdate) []string {
	var changed []string
	if upd.CompanyName != nil && *upd.CompanyName != old.CompanyName {
		changed = append(changed, "company_name")
	}
	if upd.Designation != nil && *upd.Designation != old.Designation {
		changed = append(changed, "designation")
	}
	if upd.StartDate != nil && *upd.StartDate != old.StartDate {
		changed = append(changed, "start_date")
	}
	if upd.EndDate.Set && !eqStringPtr(upd.EndDate.Value, old.EndDate) {
		changed = append(changed, "end_date")
	}
	if upd.IsCurrent != nil && *upd.IsCurrent != old.IsCurrent {
		changed = append(changed, "is_current")
	}
	return changed
}

// MergeEmployment coalesces all employment fields except end_date, which
// takes the payload value directly: omission or explicit null both clear
// the stored date.
func MergeEmployment(old Employment, upd EmploymentUpdate) Employment {
	merged := old
	merged.CompanyName = coalesce(upd.CompanyName, old.CompanyName)
	merged.Designation = coalesce(upd.Designation, old.Designation)
	merged.StartDate = coalesce(upd.StartDate, old.StartDate)
	merged.EndDate = upd.EndDate.Value
	if upd.IsCurrent != nil {
		merged.IsCurrent = *upd.IsCurrent
	}
	return merged
}

// SuppliedEmploymentFields lists the fields present in an employment
// update, in schema order. Used to report a lazy insert, where every
// supplied key counts as changed.
func SuppliedEmploymentFields(upd EmploymentUpdate) []string {
	var fields []string
	if upd.CompanyName != nil {
		fields = append(fields, "company_name")
	}
	if upd.Designation != nil {
		fields = append(fields, "designation")
	}
	if upd.StartDate != nil {
		fields = append(fields, "start_date")
	}
	if upd.EndDate.Set {
		fields = append(fields, "end_date")
	}
	if upd.IsCurrent != nil {
		fields = append(fields, "is_current")
	}
	return fields
}

// DiffBank returns the bank fields that are supplied and differ from the
// stored row.
func DiffBank(old Bank, upd BankUpdate) []string {
	var changed []string
	if upd.BankName != nil && *upd.BankName != old.BankName {
		changed = append(changed, "bank_name")
	}
	if upd.AccountNumber != nil && *upd.AccountNumber != old.AccountNumber {
		changed = append(changed, "account_number")
	}
	if upd.IFSC != nil && *upd.IFSC != old.IFSC {
		changed = append(changed, "ifsc")
	}
	if upd.AccountType != nil && *upd.AccountType != old.AccountType {
		changed = append(changed, "account_type")
	}
	return changed
}

// MergeBank coalesces all four bank fields; there is no asymmetric field.
func MergeBank(old Bank, upd BankUpdate) Bank {
	merged := old
	merged.BankName = coalesce(upd.BankName, old.BankName)
	merged.AccountNumber = coalesce(upd.AccountNumber, old.AccountNumber)
	merged.IFSC = coalesce(upd.IFSC, old.IFSC)
	merged.AccountType = coalesce(upd.AccountType, old.AccountType)
	return merged
}

// SuppliedBankFields lists the fields present in a bank update, in schema
// order.
func SuppliedBankFields(upd BankUpdate) []string {
	var fields []string
	if upd.BankName != nil {
		fields = append(fields, "bank_name")
	}
	if upd.AccountNumber != nil {
		fields = append(fields, "account_number")
	}
	if upd.IFSC != nil {
		fields = append(fields, "ifsc")
	}
	if upd.AccountType != nil {
		fields = append(fields, "account_type")
	}
	return fields
}

func coalesce(supplied *string, stored string) string {
	if supplied != nil {
		return *supplied
	}
	return stored
}

func eqStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
