// Package export implements the offline grouped-export job: for each of
// bank name, employer name, and postal code, it groups user ids sharing
// that value and writes one timestamped CSV file per field.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

// Querier is the minimal query surface the export needs; *pgxpool.Pool
// satisfies it.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Group is one aggregation row: a distinct grouping value, the number of
// users sharing it, and their ids.
type Group struct {
	Key       string
	UserCount int64
	UserIDs   []int64
}

type fieldSpec struct {
	column     string
	filePrefix string
}

// fieldSpecs is the fixed field-to-column mapping. Column names are
// interpolated into SQL from this map only, never from caller input.
var fieldSpecs = map[string]fieldSpec{
	"bank_name":    {column: "b.bank_name", filePrefix: "group_by_bank"},
	"company_name": {column: "e.company_name", filePrefix: "group_by_company"},
	"pincode":      {column: "u.pincode", filePrefix: "group_by_pincode"},
}

// Fields lists the supported grouping fields in export order.
var Fields = []string{"bank_name", "company_name", "pincode"}

// QueryGroups runs the aggregation for one field. Rows whose grouping
// value is NULL are excluded; groups come back ordered by descending user
// count.
func QueryGroups(ctx context.Context, q Querier, field string) ([]Group, error) {
	spec, ok := fieldSpecs[field]
	if !ok {
		return nil, fmt.Errorf("unsupported field: %s", field)
	}

	query := fmt.Sprintf(`
		SELECT %[1]s AS group_key,
		       COUNT(DISTINCT u.id) AS user_count,
		       ARRAY_AGG(u.id) AS user_ids
		FROM users u
		LEFT JOIN employment_info e ON u.id = e.user_id
		LEFT JOIN user_bank_info b ON u.id = b.user_id
		WHERE %[1]s IS NOT NULL
		GROUP BY %[1]s
		ORDER BY user_count DESC`, spec.column)

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query groups by %s: %w", field, err)
	}
	defer rows.Close()

	var groups []Group
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.Key, &g.UserCount, &g.UserIDs); err != nil {
			return nil, fmt.Errorf("scan group row: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// WriteGroups writes the aggregation as CSV with columns
// group_key, user_count, user_ids.
func WriteGroups(w io.Writer, groups []Group) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"group_key", "user_count", "user_ids"}); err != nil {
		return err
	}
	for _, g := range groups {
		record := []string{
			g.Key,
			strconv.FormatInt(g.UserCount, 10),
			FormatUserIDs(g.UserIDs),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatUserIDs renders ids as a list literal, e.g. "[1, 2, 3]".
func FormatUserIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Filename builds the timestamped output file name for a field prefix.
func Filename(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%s.csv", prefix, now.Format("20060102_150405"))
}

// GroupUsersByField aggregates one field and writes the result to a
// timestamped CSV file in outputDir, returning the file path.
func GroupUsersByField(ctx context.Context, q Querier, field, outputDir string) (string, error) {
	spec, ok := fieldSpecs[field]
	if !ok {
		return "", fmt.Errorf("unsupported field: %s", field)
	}

	groups, err := QueryGroups(ctx, q, field)
	if err != nil {
		return "", err
	}

	path := filepath.Join(outputDir, Filename(spec.filePrefix, time.Now()))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	if err := WriteGroups(f, groups); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
