// Package normalize converts raw cell values into floats, tolerating
// currency symbols, thousands separators and locale decimal marks, and
// applies the thousands-VND unit-scale correction.
package normalize

import (
	"strconv"
	"strings"

	"github.com/storeops/ads-ingest/internal/models"
	"github.com/storeops/ads-ingest/internal/sheet"
)

// ScaleDecider decides whether a table's cost figures are expressed in
// thousands of the display currency. meanCPC is only meaningful when
// cpcPresent is true. Injectable so tests can pin the decision.
type ScaleDecider func(maxCost, meanCPC float64, cpcPresent bool) bool

// Options configures one normalization run over a table.
type Options struct {
	// Currency is the display currency, "VND" or "USD". The unit-scale
	// heuristic only ever fires for VND.
	Currency string
	// AssumeThousandsVND enables the unit-scale heuristic. Callers that
	// know their sheet is already in full VND set this false.
	AssumeThousandsVND bool
	// ScaleAvgCPC opts in to scaling avg_cpc along with cost and
	// conversion_value when the correction fires.
	ScaleAvgCPC bool
	// Decider overrides the default threshold heuristic when non-nil.
	Decider ScaleDecider
}

// Result is the outcome of normalizing one table.
type Result struct {
	Records []models.Record
	// Fallbacks counts non-empty numeric cells that could not be parsed
	// and silently became 0.
	Fallbacks int
	// Scaled reports whether the thousands-VND correction was applied.
	Scaled bool
}

// Number converts a single raw cell to a float. Already-numeric values pass
// through unchanged, so re-normalizing is a no-op. Blank values are 0. The
// bool is false only when a non-blank string could not be parsed at all and
// fell back to 0.
func Number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case nil:
		return 0, true
	}
	s := strings.TrimSpace(sheet.CellString(v))
	if s == "" {
		return 0, true
	}
	cleaned := stripNoise(s)
	cleaned = resolveSeparators(cleaned)
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// stripNoise drops everything except digits, comma, period and minus:
// currency symbols, spaces, percent signs, grouping apostrophes.
func stripNoise(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// resolveSeparators settles which of comma/period is the decimal mark. When
// both appear, the later one is the decimal point and the earlier one is
// grouping. A lone comma is grouping when it looks like it ("1,234",
// "1,234,567": every group after the first is 3 digits), otherwise a
// decimal comma (the common VN/EU convention, "1234,56").
func resolveSeparators(s string) string {
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if commaIsGrouping(s) {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s, ",", ".")
		}
	}
	return s
}

func commaIsGrouping(s string) bool {
	parts := strings.Split(s, ",")
	for _, p := range parts[1:] {
		if len(p) != 3 {
			return false
		}
	}
	return parts[0] != ""
}

// Table normalizes every canonical numeric field of every record and then
// applies the unit-scale correction once across the whole table. Non-numeric
// fields are rendered to strings and otherwise untouched. Never fails: any
// unparseable numeric cell becomes 0 and is counted in Fallbacks.
func Table(recs []models.Record, opts Options) Result {
	var res Result
	res.Records = make([]models.Record, 0, len(recs))
	for _, in := range recs {
		out := make(models.Record, len(in))
		for f, v := range in {
			if models.IsNumericField(f) {
				n, ok := Number(v)
				if !ok {
					res.Fallbacks++
				}
				if n < 0 {
					n = 0
				}
				out[f] = n
				continue
			}
			if s, ok := v.(string); ok {
				out[f] = strings.TrimSpace(s)
			} else {
				out[f] = strings.TrimSpace(sheet.CellString(v))
			}
		}
		res.Records = append(res.Records, out)
	}

	if shouldScale(res.Records, opts) {
		applyScale(res.Records, opts.ScaleAvgCPC)
		res.Scaled = true
	}
	return res
}

// DefaultDecider is the one-shot thousands-VND heuristic: a sheet whose
// largest cost is under 10 000 with an average CPC that is absent or under
// 50 is assumed to be in thousands of VND. The thresholds are deliberate
// guesses carried over from the original tool; they can misfire on
// legitimately small spends, which is why the whole thing sits behind
// AssumeThousandsVND.
func DefaultDecider(maxCost, meanCPC float64, cpcPresent bool) bool {
	return maxCost < 10000 && (!cpcPresent || meanCPC < 50)
}

func shouldScale(recs []models.Record, opts Options) bool {
	if !strings.EqualFold(opts.Currency, "VND") || !opts.AssumeThousandsVND {
		return false
	}
	if len(recs) == 0 {
		return false
	}
	var maxCost float64
	var cpcSum float64
	var cpcN int
	for _, r := range recs {
		if c, ok := r[models.FieldCost].(float64); ok && c > maxCost {
			maxCost = c
		}
		if c, ok := r[models.FieldAvgCPC].(float64); ok {
			cpcSum += c
			cpcN++
		}
	}
	var meanCPC float64
	if cpcN > 0 {
		meanCPC = cpcSum / float64(cpcN)
	}
	decide := opts.Decider
	if decide == nil {
		decide = DefaultDecider
	}
	return decide(maxCost, meanCPC, cpcN > 0)
}

func applyScale(recs []models.Record, scaleCPC bool) {
	for _, r := range recs {
		if c, ok := r[models.FieldCost].(float64); ok {
			r[models.FieldCost] = c * 1000
		}
		if c, ok := r[models.FieldConversionValue].(float64); ok {
			r[models.FieldConversionValue] = c * 1000
		}
		if scaleCPC {
			if c, ok := r[models.FieldAvgCPC].(float64); ok {
				r[models.FieldAvgCPC] = c * 1000
			}
		}
	}
}
