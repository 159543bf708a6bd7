package rating

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"movierater/internal/microservices/http-api/models"
)

var (
	ErrInvalidScoreRange = errors.New("invalid score range")
	ErrInvalidSort       = errors.New("invalid sort key")
	ErrInvalidDate       = errors.New("invalid date")
)

// SortKey selects the ordering of a query result.
type SortKey string

const (
	SortDateDesc  SortKey = "date-desc"
	SortDateAsc   SortKey = "date-asc"
	SortScoreDesc SortKey = "score-desc"
	SortScoreAsc  SortKey = "score-asc"
	SortTitleAsc  SortKey = "title-asc"
	SortTitleDesc SortKey = "title-desc"
)

// ParseSortKey maps "" to the default date-desc order.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.TrimSpace(s)); k {
	case "":
		return SortDateDesc, nil
	case SortDateDesc, SortDateAsc, SortScoreDesc, SortScoreAsc, SortTitleAsc, SortTitleDesc:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSort, s)
	}
}

// ScoreRange is an inclusive total-score filter. The zero value matches
// everything.
type ScoreRange struct {
	Min, Max float64
	Set      bool
}

// ParseScoreRange accepts "", "all" or "min-max".
func ParseScoreRange(s string) (ScoreRange, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return ScoreRange{}, nil
	}
	loText, hiText, ok := strings.Cut(s, "-")
	if !ok {
		return ScoreRange{}, fmt.Errorf("%w: %q", ErrInvalidScoreRange, s)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(loText), 64)
	if err != nil {
		return ScoreRange{}, fmt.Errorf("%w: %q", ErrInvalidScoreRange, s)
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(hiText), 64)
	if err != nil || lo > hi {
		return ScoreRange{}, fmt.Errorf("%w: %q", ErrInvalidScoreRange, s)
	}
	return ScoreRange{Min: lo, Max: hi, Set: true}, nil
}

func (r ScoreRange) contains(score float64) bool {
	return !r.Set || (score >= r.Min && score <= r.Max)
}

// ParseDay parses a YYYY-MM-DD date at midnight in loc.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// EndOfDay returns the last representable instant of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Millisecond), t.Location())
}

// Query filters and orders the record list. From and To are inclusive;
// To covers its whole day.
type Query struct {
	Search string
	Score  ScoreRange
	From   *time.Time
	To     *time.Time
	Sort   SortKey
}

// Result is a query outcome with the counts shown to the user.
type Result struct {
	Ratings []models.RatingRecord `json:"ratings"`
	Shown   int                   `json:"shown"`
	Total   int                   `json:"total"`
	Summary string                `json:"summary"`
}

// Apply runs q over records without modifying them.
func Apply(records []models.RatingRecord, q Query) Result {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	var to time.Time
	if q.To != nil {
		to = EndOfDay(*q.To)
	}

	filtered := make([]models.RatingRecord, 0, len(records))
	for _, r := range records {
		if search != "" && !strings.Contains(strings.ToLower(r.MovieTitle), search) {
			continue
		}
		if !q.Score.contains(r.TotalScore) {
			continue
		}
		if q.From != nil && r.Date.Before(*q.From) {
			continue
		}
		if q.To != nil && r.Date.After(to) {
			continue
		}
		filtered = append(filtered, r)
	}

	sortRecords(filtered, q.Sort)

	return Result{
		Ratings: filtered,
		Shown:   len(filtered),
		Total:   len(records),
		Summary: Summary(len(filtered), len(records)),
	}
}

func sortRecords(records []models.RatingRecord, key SortKey) {
	var less func(a, b models.RatingRecord) bool
	switch key {
	case SortDateDesc, "":
		less = func(a, b models.RatingRecord) bool { return a.ID > b.ID }
	case SortDateAsc:
		less = func(a, b models.RatingRecord) bool { return a.ID < b.ID }
	case SortScoreDesc:
		less = func(a, b models.RatingRecord) bool { return a.TotalScore > b.TotalScore }
	case SortScoreAsc:
		less = func(a, b models.RatingRecord) bool { return a.TotalScore < b.TotalScore }
	case SortTitleAsc, SortTitleDesc:
		// Collators keep scratch buffers, so each sort gets its own.
		col := collate.New(language.English)
		sign := 1
		if key == SortTitleDesc {
			sign = -1
		}
		less = func(a, b models.RatingRecord) bool {
			return sign*col.CompareString(a.MovieTitle, b.MovieTitle) < 0
		}
	default:
		return
	}
	sort.SliceStable(records, func(i, j int) bool { return less(records[i], records[j]) })
}

// Summary renders the result count line.
func Summary(shown, total int) string {
	if shown == total {
		if total == 1 {
			return "1 rating"
		}
		return fmt.Sprintf("%d ratings", total)
	}
	return fmt.Sprintf("Showing %d of %d ratings", shown, total)
}
