package v1

import (
	"encoding/csv"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/karthickraj/user-profile-service/internal/core/domain"
	"github.com/karthickraj/user-profile-service/middleware"
)

var listCSVHeader = []string{
	"id", "first_name", "last_name", "email", "phone",
	"address_line1", "city", "state", "pincode",
	"company_name", "designation", "bank_name", "account_number",
}

var userCSVHeader = []string{
	"id", "first_name", "last_name", "email", "phone",
	"address_line1", "city", "state", "pincode",
	"company_name", "designation", "start_date", "end_date", "is_current",
	"bank_name", "account_number", "ifsc", "account_type",
}

// ListUsersCSV handles GET /users/csv: the filtered list view as CSV.
// The same query parameters as GET /users apply.
func (h *UserHandler) ListUsersCSV(c *gin.Context) {
	logger := middleware.GetLoggerFromGinContext(c)

	filter := domain.ListFilter{
		Company: c.Query("company"),
		Bank:    c.Query("bank"),
		Pincode: c.Query("pincode"),
	}

	users, err := h.service.ListUsers(c.Request.Context(), filter)
	if err != nil {
		logger.Error("Failed to list users for CSV export", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="users.csv"`)
	c.Status(http.StatusOK)

	// The status line is already out, so a write failure can only be
	// logged, not reported to the client.
	if err := writeListCSV(c.Writer, users); err != nil {
		logger.Error("Failed to write CSV response", zap.Error(err))
	}
}

// GetUserCSV handles GET /users/:id/csv: the denormalized single-user view
// flattened into one CSV row.
func (h *UserHandler) GetUserCSV(c *gin.Context) {
	logger := middleware.GetLoggerFromGinContext(c)

	id, ok := parseID(c)
	if !ok {
		return
	}

	view, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		logger.Error("Failed to get user for CSV export", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Status(http.StatusOK)

	if err := writeUserCSV(c.Writer, view); err != nil {
		logger.Error("Failed to write CSV response", zap.Error(err))
	}
}

func writeListCSV(w io.Writer, users []domain.UserListItem) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(listCSVHeader); err != nil {
		return err
	}
	for _, u := range users {
		record := []string{
			strconv.FormatInt(u.ID, 10),
			u.FirstName, u.LastName, u.Email, u.Phone,
			u.AddressLine1, u.City, u.State, u.Pincode,
			deref(u.CompanyName), deref(u.Designation),
			deref(u.BankName), deref(u.AccountNumber),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeUserCSV(w io.Writer, view *domain.UserView) error {
	record := []string{
		strconv.FormatInt(view.ID, 10),
		view.FirstName, view.LastName, view.Email, view.Phone,
		view.AddressLine1, view.City, view.State, view.Pincode,
	}
	if e := view.Employment; e != nil {
		record = append(record, e.CompanyName, e.Designation, e.StartDate,
			deref(e.EndDate), strconv.FormatBool(e.IsCurrent))
	} else {
		record = append(record, "", "", "", "", "")
	}
	if b := view.Bank; b != nil {
		record = append(record, b.BankName, b.AccountNumber, b.IFSC, b.AccountType)
	} else {
		record = append(record, "", "", "", "")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(userCSVHeader); err != nil {
		return err
	}
	if err := cw.Write(record); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
