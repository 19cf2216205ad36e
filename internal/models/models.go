package models

// Canonical field names used internally regardless of the source header text.
const (
	FieldDate            = "date"
	FieldCampaign        = "campaign"
	FieldImpressions     = "impressions"
	FieldClicks          = "clicks"
	FieldCost            = "cost"
	FieldConversions     = "conversions"
	FieldConversionValue = "conversion_value"
	FieldCTR             = "ctr"
	FieldAvgCPC          = "avg_cpc"
)

// NumericFields is the closed set of canonical fields that hold floats after
// normalization. Everything else stays a string.
var NumericFields = map[string]struct{}{
	FieldImpressions:     {},
	FieldClicks:          {},
	FieldCost:            {},
	FieldConversions:     {},
	FieldConversionValue: {},
	FieldCTR:             {},
	FieldAvgCPC:          {},
}

// IsNumericField reports whether name belongs to the canonical numeric set.
func IsNumericField(name string) bool {
	_, ok := NumericFields[name]
	return ok
}

// RawTable is an ordered sequence of rows as delivered by a spreadsheet
// reader or JSON loader. Cells are strings or JSON numbers.
type RawTable [][]any

// Record maps canonical field names to values: float64 for numeric fields,
// string for date/campaign and any pass-through columns.
type Record map[string]any

// Summary holds the aggregate performance figures over a set of records.
// Every ratio is 0 when its denominator is 0.
type Summary struct {
	TotalImpressions     float64 `json:"total_impressions"`
	TotalClicks          float64 `json:"total_clicks"`
	TotalCost            float64 `json:"total_cost"`
	TotalConversions     float64 `json:"total_conversions"`
	TotalConversionValue float64 `json:"total_conversion_value"`
	CTR                  float64 `json:"ctr"`
	CPC                  float64 `json:"cpc"`
	CPM                  float64 `json:"cpm"`
	ConversionRate       float64 `json:"conversion_rate"`
	ROAS                 float64 `json:"roas"`
}

// GroupSummary is one Summary keyed by a grouping value (campaign name,
// date, ...).
type GroupSummary struct {
	Key string `json:"key"`
	Summary
}
