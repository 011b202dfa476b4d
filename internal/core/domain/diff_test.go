package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func baseUser() User {
	return User{
		ID:           1,
		FirstName:    "A",
		LastName:     "B",
		Email:        "a@b.com",
		Phone:        "1",
		AddressLine1: "x",
		City:         "c",
		State:        "s",
		Pincode:      "600001",
	}
}

func baseEmployment() Employment {
	return Employment{
		CompanyName: "Acme",
		Designation: "Engineer",
		StartDate:   "2020-01-01",
		EndDate:     strPtr("2023-06-30"),
		IsCurrent:   true,
	}
}

func baseBank() Bank {
	return Bank{
		BankName:      "HDFC",
		AccountNumber: "12345",
		IFSC:          "HDFC0001",
		AccountType:   "savings",
	}
}

func TestDiffUser_SingleFieldChange(t *testing.T) {
	req := UpdateUserRequest{Pincode: strPtr("600002")}

	changed := DiffUser(baseUser(), req)

	assert.Equal(t, []string{"pincode"}, changed)
}

func TestDiffUser_IdenticalValues(t *testing.T) {
	old := baseUser()
	req := UpdateUserRequest{
		FirstName: strPtr(old.FirstName),
		Email:     strPtr(old.Email),
		Pincode:   strPtr(old.Pincode),
	}

	assert.Empty(t, DiffUser(old, req))
}

func TestDiffUser_OmittedFieldsNotReported(t *testing.T) {
	changed := DiffUser(baseUser(), UpdateUserRequest{})

	assert.Empty(t, changed)
}

func TestDiffUser_SchemaOrder(t *testing.T) {
	req := UpdateUserRequest{
		Pincode:   strPtr("600009"),
		FirstName: strPtr("Z"),
		City:      strPtr("m"),
	}

	changed := DiffUser(baseUser(), req)

	assert.Equal(t, []string{"first_name", "city", "pincode"}, changed)
}

func TestMergeUser_CoalesceProperty(t *testing.T) {
	old := baseUser()
	req := UpdateUserRequest{
		Email: strPtr("new@b.com"),
		State: strPtr("t"),
	}

	merged := MergeUser(old, req)

	assert.Equal(t, "new@b.com", merged.Email)
	assert.Equal(t, "t", merged.State)
	// Everything omitted keeps the stored value.
	assert.Equal(t, old.FirstName, merged.FirstName)
	assert.Equal(t, old.LastName, merged.LastName)
	assert.Equal(t, old.Phone, merged.Phone)
	assert.Equal(t, old.AddressLine1, merged.AddressLine1)
	assert.Equal(t, old.City, merged.City)
	assert.Equal(t, old.Pincode, merged.Pincode)
	assert.Equal(t, old.ID, merged.ID)
}

func TestDiffEmployment_EndDateOmittedNotReported(t *testing.T) {
	upd := EmploymentUpdate{CompanyName: strPtr("Globex")}

	changed := DiffEmployment(baseEmployment(), upd)

	assert.Equal(t, []string{"company_name"}, changed)
}

func TestDiffEmployment_EndDateExplicitNull(t *testing.T) {
	upd := EmploymentUpdate{EndDate: NullOptionalString()}

	changed := DiffEmployment(baseEmployment(), upd)

	assert.Equal(t, []string{"end_date"}, changed)
}

func TestDiffEmployment_EndDateNullOverNull(t *testing.T) {
	old := baseEmployment()
	old.EndDate = nil
	upd := EmploymentUpdate{EndDate: NullOptionalString()}

	assert.Empty(t, DiffEmployment(old, upd))
}

func TestDiffEmployment_AllFieldsChanged(t *testing.T) {
	upd := EmploymentUpdate{
		CompanyName: strPtr("Globex"),
		Designation: strPtr("Manager"),
		StartDate:   strPtr("2024-01-01"),
		EndDate:     NewOptionalString("2024-12-31"),
		IsCurrent:   boolPtr(false),
	}

	changed := DiffEmployment(baseEmployment(), upd)

	assert.Equal(t, []string{"company_name", "designation", "start_date", "end_date", "is_current"}, changed)
}

func TestMergeEmployment_EndDateClearedWhenOmitted(t *testing.T) {
	upd := EmploymentUpdate{Designation: strPtr("Lead")}

	merged := MergeEmployment(baseEmployment(), upd)

	assert.Equal(t, "Lead", merged.Designation)
	assert.Equal(t, "Acme", merged.CompanyName)
	// end_date is written directly: omission clears it.
	assert.Nil(t, merged.EndDate)
}

func TestMergeEmployment_EndDateClearedWhenExplicitNull(t *testing.T) {
	upd := EmploymentUpdate{EndDate: NullOptionalString()}

	merged := MergeEmployment(baseEmployment(), upd)

	assert.Nil(t, merged.EndDate)
}

func TestMergeEmployment_EndDateValueWritten(t *testing.T) {
	upd := EmploymentUpdate{EndDate: NewOptionalString("2025-01-31")}

	merged := MergeEmployment(baseEmployment(), upd)

	if assert.NotNil(t, merged.EndDate) {
		assert.Equal(t, "2025-01-31", *merged.EndDate)
	}
}

func TestSuppliedEmploymentFields(t *testing.T) {
	upd := EmploymentUpdate{
		CompanyName: strPtr("Globex"),
		EndDate:     NullOptionalString(),
	}

	assert.Equal(t, []string{"company_name", "end_date"}, SuppliedEmploymentFields(upd))
	assert.Empty(t, SuppliedEmploymentFields(EmploymentUpdate{}))
}

func TestDiffBank(t *testing.T) {
	upd := BankUpdate{
		BankName:    strPtr("ICICI"),
		IFSC:        strPtr("HDFC0001"), // identical, not reported
		AccountType: strPtr("current"),
	}

	changed := DiffBank(baseBank(), upd)

	assert.Equal(t, []string{"bank_name", "account_type"}, changed)
}

func TestMergeBank_FullCoalesce(t *testing.T) {
	old := baseBank()
	upd := BankUpdate{AccountNumber: strPtr("99999")}

	merged := MergeBank(old, upd)

	assert.Equal(t, "99999", merged.AccountNumber)
	assert.Equal(t, old.BankName, merged.BankName)
	assert.Equal(t, old.IFSC, merged.IFSC)
	assert.Equal(t, old.AccountType, merged.AccountType)
}

func TestSuppliedBankFields(t *testing.T) {
	upd := BankUpdate{
		AccountNumber: strPtr("99999"),
		AccountType:   strPtr("current"),
	}

	assert.Equal(t, []string{"account_number", "account_type"}, SuppliedBankFields(upd))
}
