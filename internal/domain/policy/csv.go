package policy

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/ronled86/InsuraIQ/internal/domain/extraction"
	apperrors "github.com/ronled86/InsuraIQ/pkg/errors"
)

// ParseCSV reads policy rows from a CSV stream with a header row.  Recognized
// columns: owner_name, insurer, product_type, policy_number, start_date,
// end_date, premium_monthly, deductible, coverage_limit, notes.  Unknown
// columns are ignored; missing numeric values default to 0.  Product types
// are normalized via NormalizeProduct.
func ParseCSV(r io.Reader) ([]*Policy, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodePolicyImportFailed, "failed to read CSV header")
	}
	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[strings.ToLower(strings.TrimSpace(col))] = i
	}

	field := func(row []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var out []*Policy
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodePolicyImportFailed, "failed to read CSV row")
		}
		out = append(out, &Policy{
			OwnerName:      field(row, "owner_name"),
			Insurer:        field(row, "insurer"),
			ProductType:    NormalizeProduct(field(row, "product_type")),
			PolicyNumber:   field(row, "policy_number"),
			StartDate:      field(row, "start_date"),
			EndDate:        field(row, "end_date"),
			PremiumMonthly: extraction.ParseAmount(field(row, "premium_monthly")),
			Deductible:     extraction.ParseAmount(field(row, "deductible")),
			CoverageLimit:  extraction.ParseAmount(field(row, "coverage_limit")),
			Notes:          field(row, "notes"),
			Active:         true,
		})
	}
	return out, nil
}
