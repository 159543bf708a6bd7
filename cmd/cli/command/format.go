package command

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"movierater/internal/microservices/http-api/models"
	"movierater/internal/rating"
)

var (
	success = color.New(color.FgGreen)
	failure = color.New(color.FgRed)
	heading = color.New(color.FgCyan, color.Bold)
	muted   = color.New(color.FgHiBlack)
)

// stars renders a 0..10 score on five stars.
func stars(score float64) string {
	full, half := rating.Stars(score)
	var b strings.Builder
	b.WriteString(strings.Repeat("★", full))
	empty := 5 - full
	if half {
		b.WriteString("½")
		empty--
	}
	if empty > 0 {
		b.WriteString(strings.Repeat("☆", empty))
	}
	return b.String()
}

func printRecordLine(w io.Writer, r models.RatingRecord) {
	heading.Fprintf(w, "%-32s", r.MovieTitle)
	fmt.Fprintf(w, " %4.1f %s ", r.TotalScore, stars(r.TotalScore))
	muted.Fprintf(w, "%s  #%d", r.Date.Local().Format("2006-01-02"), r.ID)
	if r.Genre != "" {
		muted.Fprintf(w, "  %s", r.Genre)
	}
	fmt.Fprintln(w)
}
