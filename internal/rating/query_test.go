package rating

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movierater/internal/microservices/http-api/models"
)

func sampleRecords() []models.RatingRecord {
	day := func(d int) time.Time { return time.Date(2024, 3, d, 20, 0, 0, 0, time.Local) }
	return []models.RatingRecord{
		{ID: 3, MovieTitle: "alien", TotalScore: 6.2, Date: day(10)},
		{ID: 2, MovieTitle: "Heat", TotalScore: 9.5, Date: day(5)},
		{ID: 1, MovieTitle: "Casablanca", TotalScore: 3.0, Date: day(1)},
	}
}

func scores(r Result) []float64 {
	out := make([]float64, 0, len(r.Ratings))
	for _, rec := range r.Ratings {
		out = append(out, rec.TotalScore)
	}
	return out
}

func titles(r Result) []string {
	out := make([]string, 0, len(r.Ratings))
	for _, rec := range r.Ratings {
		out = append(out, rec.MovieTitle)
	}
	return out
}

func TestApply_Sort(t *testing.T) {
	records := sampleRecords()

	assert.Equal(t, []float64{9.5, 6.2, 3.0}, scores(Apply(records, Query{Sort: SortScoreDesc})))
	assert.Equal(t, []float64{3.0, 6.2, 9.5}, scores(Apply(records, Query{Sort: SortScoreAsc})))
	assert.Equal(t, []string{"alien", "Heat", "Casablanca"}, titles(Apply(records, Query{Sort: SortDateDesc})))
	assert.Equal(t, []string{"Casablanca", "Heat", "alien"}, titles(Apply(records, Query{Sort: SortDateAsc})))
	assert.Equal(t, []string{"alien", "Casablanca", "Heat"}, titles(Apply(records, Query{Sort: SortTitleAsc})))
	assert.Equal(t, []string{"Heat", "Casablanca", "alien"}, titles(Apply(records, Query{Sort: SortTitleDesc})))
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	records := sampleRecords()
	Apply(records, Query{Sort: SortScoreAsc})
	assert.Equal(t, sampleRecords(), records)
}

func TestApply_Search(t *testing.T) {
	res := Apply(sampleRecords(), Query{Search: "HEA"})
	assert.Equal(t, []string{"Heat"}, titles(res))
	assert.Equal(t, "Showing 1 of 3 ratings", res.Summary)

	none := Apply(sampleRecords(), Query{Search: "zzz"})
	assert.Empty(t, none.Ratings)
	assert.Equal(t, 0, none.Shown)
	assert.Equal(t, 3, none.Total)
	assert.Equal(t, "Showing 0 of 3 ratings", none.Summary)
}

func TestApply_ScoreRange(t *testing.T) {
	r, err := ParseScoreRange("6-10")
	require.NoError(t, err)
	res := Apply(sampleRecords(), Query{Score: r, Sort: SortScoreDesc})
	assert.Equal(t, []float64{9.5, 6.2}, scores(res))

	// Bounds are inclusive.
	r, err = ParseScoreRange("3-3")
	require.NoError(t, err)
	assert.Equal(t, []float64{3.0}, scores(Apply(sampleRecords(), Query{Score: r})))
}

func TestApply_DateRangeIncludesWholeEndDay(t *testing.T) {
	from, err := ParseDay("2024-03-05", time.Local)
	require.NoError(t, err)
	to, err := ParseDay("2024-03-10", time.Local)
	require.NoError(t, err)

	res := Apply(sampleRecords(), Query{From: &from, To: &to})
	assert.Equal(t, []string{"alien", "Heat"}, titles(res))
}

func TestApply_NoFilterSummary(t *testing.T) {
	assert.Equal(t, "3 ratings", Apply(sampleRecords(), Query{}).Summary)
	assert.Equal(t, "1 rating", Apply(sampleRecords()[:1], Query{}).Summary)
	assert.Equal(t, "0 ratings", Apply(nil, Query{}).Summary)
}

func TestParseScoreRange(t *testing.T) {
	r, err := ParseScoreRange("all")
	require.NoError(t, err)
	assert.False(t, r.Set)

	r, err = ParseScoreRange("")
	require.NoError(t, err)
	assert.False(t, r.Set)

	r, err = ParseScoreRange("8-10")
	require.NoError(t, err)
	assert.Equal(t, ScoreRange{Min: 8, Max: 10, Set: true}, r)

	for _, bad := range []string{"8", "a-b", "9-2"} {
		_, err := ParseScoreRange(bad)
		assert.ErrorIs(t, err, ErrInvalidScoreRange, bad)
	}
}

func TestParseSortKey(t *testing.T) {
	k, err := ParseSortKey("")
	require.NoError(t, err)
	assert.Equal(t, SortDateDesc, k)

	k, err = ParseSortKey("title-desc")
	require.NoError(t, err)
	assert.Equal(t, SortTitleDesc, k)

	_, err = ParseSortKey("random")
	assert.ErrorIs(t, err, ErrInvalidSort)
}

func TestEndOfDay(t *testing.T) {
	d := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 1, 2, 23, 59, 59, 999000000, time.UTC), EndOfDay(d))
}
