package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storeops/ads-ingest/internal/models"
)

func rec(campaign, date string, impr, clicks, cost, conv, convValue float64) models.Record {
	return models.Record{
		models.FieldCampaign:        campaign,
		models.FieldDate:            date,
		models.FieldImpressions:     impr,
		models.FieldClicks:          clicks,
		models.FieldCost:            cost,
		models.FieldConversions:     conv,
		models.FieldConversionValue: convValue,
	}
}

func TestSummarizeTotalsAndRatios(t *testing.T) {
	recs := []models.Record{
		rec("A", "2024-01-01", 1000, 50, 100, 5, 400),
		rec("B", "2024-01-02", 2000, 80, 200, 10, 600),
	}
	s := Summarize(recs)
	assert.Equal(t, 3000.0, s.TotalImpressions)
	assert.Equal(t, 130.0, s.TotalClicks)
	assert.Equal(t, 300.0, s.TotalCost)
	assert.Equal(t, 15.0, s.TotalConversions)
	assert.Equal(t, 1000.0, s.TotalConversionValue)
	assert.InDelta(t, 4.3333, s.CTR, 0.001)
	assert.InDelta(t, 2.3077, s.CPC, 0.001)
	assert.InDelta(t, 100.0, s.CPM, 0.001)
	assert.InDelta(t, 11.538, s.ConversionRate, 0.001)
	assert.InDelta(t, 3.3333, s.ROAS, 0.001)
}

func TestSummarizeZeroDenominators(t *testing.T) {
	s := Summarize([]models.Record{rec("A", "2024-01-01", 0, 0, 0, 0, 0)})
	assert.Zero(t, s.CTR)
	assert.Zero(t, s.CPC)
	assert.Zero(t, s.CPM)
	assert.Zero(t, s.ConversionRate)
	assert.Zero(t, s.ROAS)

	// Cost without clicks: cpc and conversion_rate still 0, never NaN.
	s = Summarize([]models.Record{rec("A", "2024-01-01", 0, 0, 100, 0, 0)})
	assert.Zero(t, s.CPC)
	assert.Zero(t, s.ConversionRate)
}

func TestSummarizeMissingFields(t *testing.T) {
	s := Summarize([]models.Record{
		{models.FieldCampaign: "A", models.FieldClicks: 10.0},
		{models.FieldCampaign: "B"},
	})
	assert.Equal(t, 10.0, s.TotalClicks)
	assert.Zero(t, s.TotalCost)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, models.Summary{}, Summarize(nil))
}

func TestGroupByRoundTrip(t *testing.T) {
	recs := []models.Record{
		rec("A", "2024-01-01", 1000, 50, 10, 2, 30),
		rec("A", "2024-01-02", 500, 20, 20, 1, 10),
		rec("B", "2024-01-01", 2000, 90, 5, 3, 80),
	}
	overall := Summarize(recs)
	groups := GroupBy(recs, models.FieldCampaign)
	require.Len(t, groups, 2)

	var sum models.Summary
	for _, g := range groups {
		sum.TotalImpressions += g.TotalImpressions
		sum.TotalClicks += g.TotalClicks
		sum.TotalCost += g.TotalCost
		sum.TotalConversions += g.TotalConversions
		sum.TotalConversionValue += g.TotalConversionValue
	}
	assert.Equal(t, overall.TotalImpressions, sum.TotalImpressions)
	assert.Equal(t, overall.TotalClicks, sum.TotalClicks)
	assert.Equal(t, overall.TotalCost, sum.TotalCost)
	assert.Equal(t, overall.TotalConversions, sum.TotalConversions)
	assert.Equal(t, overall.TotalConversionValue, sum.TotalConversionValue)
}

func TestGroupByFirstAppearanceOrder(t *testing.T) {
	recs := []models.Record{
		rec("B", "2024-01-01", 0, 0, 1, 0, 0),
		rec("A", "2024-01-01", 0, 0, 2, 0, 0),
		rec("B", "2024-01-02", 0, 0, 3, 0, 0),
	}
	groups := GroupBy(recs, models.FieldCampaign)
	require.Len(t, groups, 2)
	assert.Equal(t, "B", groups[0].Key)
	assert.Equal(t, 4.0, groups[0].TotalCost)
	assert.Equal(t, "A", groups[1].Key)
}

func TestTopNByCost(t *testing.T) {
	recs := []models.Record{
		rec("A", "2024-01-01", 0, 0, 10, 0, 0),
		rec("A", "2024-01-02", 0, 0, 20, 0, 0),
		rec("B", "2024-01-01", 0, 0, 5, 0, 0),
	}
	top := TopN(GroupBy(recs, models.FieldCampaign), 1, models.FieldCost)
	require.Len(t, top, 1)
	assert.Equal(t, "A", top[0].Key)
	assert.Equal(t, 30.0, top[0].TotalCost)
}

func TestTopNStableOnTies(t *testing.T) {
	recs := []models.Record{
		rec("first", "2024-01-01", 0, 0, 10, 0, 0),
		rec("second", "2024-01-01", 0, 0, 10, 0, 0),
		rec("third", "2024-01-01", 0, 0, 10, 0, 0),
	}
	top := TopN(GroupBy(recs, models.FieldCampaign), 2, models.FieldCost)
	require.Len(t, top, 2)
	assert.Equal(t, "first", top[0].Key)
	assert.Equal(t, "second", top[1].Key)
}

func TestTopNUnknownFieldFallsBackToCost(t *testing.T) {
	recs := []models.Record{
		rec("cheap", "2024-01-01", 0, 0, 1, 0, 0),
		rec("dear", "2024-01-01", 0, 0, 9, 0, 0),
	}
	top := TopN(GroupBy(recs, models.FieldCampaign), 1, "nonsense")
	require.Len(t, top, 1)
	assert.Equal(t, "dear", top[0].Key)
}

func TestTopNZeroReturnsAll(t *testing.T) {
	recs := []models.Record{
		rec("A", "2024-01-01", 0, 0, 1, 0, 0),
		rec("B", "2024-01-01", 0, 0, 2, 0, 0),
	}
	assert.Len(t, TopN(GroupBy(recs, models.FieldCampaign), 0, models.FieldCost), 2)
}

func TestDailyAscending(t *testing.T) {
	recs := []models.Record{
		rec("A", "2024-01-03", 10, 1, 1, 0, 0),
		rec("A", "2024-01-01", 20, 2, 2, 0, 0),
		rec("B", "2024-01-03", 30, 3, 3, 0, 0),
	}
	days := Daily(recs)
	require.Len(t, days, 2)
	assert.Equal(t, "2024-01-01", days[0].Key)
	assert.Equal(t, "2024-01-03", days[1].Key)
	assert.Equal(t, 40.0, days[1].TotalImpressions)
}
