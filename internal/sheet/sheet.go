// Package sheet locates the header row in a raw spreadsheet export and maps
// source column labels to the canonical field names.
package sheet

import (
	"strconv"
	"strings"

	"github.com/storeops/ads-ingest/internal/models"
)

// Spreadsheet exports often carry title and blank rows above the real
// header; we only look this far down for it.
const headerScanLimit = 10

// Aliases maps a lower-cased, trimmed source label to a canonical field
// name. Unmapped labels pass through verbatim, never dropped.
type Aliases map[string]string

// DefaultAliases covers the column labels seen in Google Ads and SyncWith
// sheet exports, including the Vietnamese date header.
func DefaultAliases() Aliases {
	return Aliases{
		"date":             models.FieldDate,
		"ngày":             models.FieldDate,
		"campaign":         models.FieldCampaign,
		"impr.":            models.FieldImpressions,
		"impr":             models.FieldImpressions,
		"impressions":      models.FieldImpressions,
		"clicks":           models.FieldClicks,
		"cost":             models.FieldCost,
		"spend":            models.FieldCost,
		"conversions":      models.FieldConversions,
		"conv. value":      models.FieldConversionValue,
		"conversion value": models.FieldConversionValue,
		"value":            models.FieldConversionValue,
		"ctr":              models.FieldCTR,
		"avg. cpc":         models.FieldAvgCPC,
		"cpc":              models.FieldAvgCPC,
	}
}

// DetectHeader scans the first rows of the table and returns the index of
// the most plausible header row: the first row with at least 2 non-empty
// cells whose non-empty cells are pairwise distinct after lower/trim. Data
// rows repeat values (same campaign name, same date), header rows do not.
// Falls back to 0 when nothing qualifies.
func DetectHeader(rows models.RawTable) int {
	limit := len(rows)
	if limit > headerScanLimit {
		limit = headerScanLimit
	}
	for i := 0; i < limit; i++ {
		seen := map[string]struct{}{}
		nonEmpty := 0
		unique := true
		for _, c := range rows[i] {
			s := strings.ToLower(strings.TrimSpace(CellString(c)))
			if s == "" {
				continue
			}
			nonEmpty++
			if _, dup := seen[s]; dup {
				unique = false
				break
			}
			seen[s] = struct{}{}
		}
		if nonEmpty >= 2 && unique {
			return i
		}
	}
	return 0
}

// Fields maps the cells of a header row to canonical field names, one per
// column. Blank headers get a positional "col_N" name (1-indexed).
func Fields(row []any, aliases Aliases) []string {
	if aliases == nil {
		aliases = DefaultAliases()
	}
	out := make([]string, len(row))
	for i, c := range row {
		label := strings.ToLower(strings.TrimSpace(CellString(c)))
		switch {
		case label == "":
			out[i] = "col_" + strconv.Itoa(i+1)
		default:
			if canon, ok := aliases[label]; ok {
				out[i] = canon
			} else {
				out[i] = label
			}
		}
	}
	return out
}

// Reconcile selects the header row, derives the canonical field names and
// zips every following non-blank row into a field→value record. Short rows
// are right-padded with empty strings, long rows truncated, so every record
// has exactly one value per header column. Best-effort by contract: an
// empty table yields no records and header index 0.
func Reconcile(rows models.RawTable, aliases Aliases) ([]models.Record, []string, int) {
	if len(rows) == 0 {
		return nil, nil, 0
	}
	hdr := DetectHeader(rows)
	fields := Fields(rows[hdr], aliases)

	var recs []models.Record
	for _, row := range rows[hdr+1:] {
		if blankRow(row) {
			continue
		}
		rec := make(models.Record, len(fields))
		for i, f := range fields {
			if i < len(row) {
				rec[f] = row[i]
			} else {
				rec[f] = ""
			}
		}
		recs = append(recs, rec)
	}
	return recs, fields, hdr
}

// CellString renders a raw cell for label matching and record building.
// JSON numbers arrive as float64; format them without an exponent so
// "2024" stays "2024".
func CellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func blankRow(row []any) bool {
	for _, c := range row {
		if strings.TrimSpace(CellString(c)) != "" {
			return false
		}
	}
	return true
}
