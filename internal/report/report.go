// Package report reduces normalized ad records to performance summaries:
// totals, derived ratios and grouped top-N views.
package report

import (
	"sort"

	"github.com/storeops/ads-ingest/internal/models"
)

// Summarize computes one Summary over all records. Missing fields sum as 0;
// every ratio is 0 when its denominator is 0.
func Summarize(recs []models.Record) models.Summary {
	var s models.Summary
	for _, r := range recs {
		s.TotalImpressions += num(r, models.FieldImpressions)
		s.TotalClicks += num(r, models.FieldClicks)
		s.TotalCost += num(r, models.FieldCost)
		s.TotalConversions += num(r, models.FieldConversions)
		s.TotalConversionValue += num(r, models.FieldConversionValue)
	}
	s.CTR = safeDiv(s.TotalClicks, s.TotalImpressions) * 100
	s.CPC = safeDiv(s.TotalCost, s.TotalClicks)
	s.CPM = safeDiv(s.TotalCost, s.TotalImpressions) * 1000
	s.ConversionRate = safeDiv(s.TotalConversions, s.TotalClicks) * 100
	s.ROAS = safeDiv(s.TotalConversionValue, s.TotalCost)
	return s
}

// GroupBy buckets records by the string value of key and summarizes each
// bucket. Groups come back in first-appearance order, so a later stable
// sort keeps ties in input order. Records missing the key group under "".
func GroupBy(recs []models.Record, key string) []models.GroupSummary {
	order := make([]string, 0)
	buckets := make(map[string][]models.Record)
	for _, r := range recs {
		k, _ := r[key].(string)
		if _, ok := buckets[k]; !ok {
			order = append(order, k)
		}
		buckets[k] = append(buckets[k], r)
	}
	out := make([]models.GroupSummary, 0, len(order))
	for _, k := range order {
		out = append(out, models.GroupSummary{Key: k, Summary: Summarize(buckets[k])})
	}
	return out
}

// TopN returns the n groups with the largest value of sortField (one of the
// totals fields; unknown names fall back to cost), descending, stable on
// ties. n <= 0 or n beyond the group count returns everything.
func TopN(groups []models.GroupSummary, n int, sortField string) []models.GroupSummary {
	out := make([]models.GroupSummary, len(groups))
	copy(out, groups)
	sort.SliceStable(out, func(i, j int) bool {
		return total(out[i].Summary, sortField) > total(out[j].Summary, sortField)
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// Daily groups by date and returns the days in ascending date order, for
// time-series views. Dates are compared as strings, which is correct for
// the ISO dates the pipeline carries.
func Daily(recs []models.Record) []models.GroupSummary {
	days := GroupBy(recs, models.FieldDate)
	sort.SliceStable(days, func(i, j int) bool { return days[i].Key < days[j].Key })
	return days
}

func total(s models.Summary, field string) float64 {
	switch field {
	case models.FieldImpressions:
		return s.TotalImpressions
	case models.FieldClicks:
		return s.TotalClicks
	case models.FieldConversions:
		return s.TotalConversions
	case models.FieldConversionValue:
		return s.TotalConversionValue
	default:
		return s.TotalCost
	}
}

func num(r models.Record, field string) float64 {
	if f, ok := r[field].(float64); ok {
		return f
	}
	return 0
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
