package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/hako/durafmt"
	"github.com/pterm/pterm"

	"github.com/ayoisaiah/proctor/internal/models"
	"github.com/ayoisaiah/proctor/internal/ui"
)

func humanize(d time.Duration) string {
	if d <= 0 {
		return "0 seconds"
	}

	return durafmt.Parse(d.Round(time.Second)).LimitFirstN(2).String()
}

func stamp(t *time.Time) string {
	if t == nil {
		return "-"
	}

	return t.Local().Format("Jan 02, 2006 15:04:05")
}

// Render writes a human-readable summary of r to w.
func Render(w io.Writer, r *models.IntegrityReport) error {
	header := pterm.DefaultSection.Sprintf(
		"Integrity report for %s <%s>",
		r.CandidateName,
		r.CandidateEmail,
	)

	_, err := fmt.Fprint(w, header)
	if err != nil {
		return err
	}

	summary := [][]string{
		{"Field", "Value"},
		{"Session", r.SessionID},
		{"Status", ui.Status(r.Status)},
		{"Score", fmt.Sprintf("%d / 100", r.Score)},
		{"Risk tier", ui.Tier(r.RiskTier)},
		{"Started", stamp(r.StartTime)},
		{"Ended", stamp(r.EndTime)},
		{"Duration", humanize(r.Duration)},
		{"Generated", stamp(&r.GeneratedAt)},
	}

	err = ui.PrintTable(summary, w)
	if err != nil {
		return err
	}

	breakdown := [][]string{
		{"Category", "Severity", "Count", "Points", "Deduction", "Time"},
	}

	for _, d := range r.Breakdown {
		breakdown = append(breakdown, []string{
			string(d.Category),
			ui.Tier(d.Severity),
			strconv.Itoa(d.Count),
			strconv.Itoa(d.PointsEach),
			strconv.Itoa(d.Deduction),
			humanize(r.TimeAnalysis.PerCategory[d.Category]),
		})
	}

	breakdown = append(breakdown, []string{
		ui.Highlight("Total"),
		"",
		strconv.Itoa(r.TotalEvents),
		"",
		strconv.Itoa(r.TotalDeduction),
		humanize(r.TimeAnalysis.TotalViolationTime),
	})

	err = ui.PrintTable(breakdown, w)
	if err != nil {
		return err
	}

	if len(r.Events) < 2 {
		return nil
	}

	_, err = fmt.Fprintf(
		w,
		"Average gap between violations: %s\nLongest gap: %s\n",
		humanize(r.TimeAnalysis.AverageGap),
		humanize(r.TimeAnalysis.LongestGap),
	)

	return err
}

// RenderEvents writes events as a table.
func RenderEvents(w io.Writer, events []models.ViolationEvent) error {
	data := [][]string{
		{"#", "Time", "Category", "Source", "Confidence", "Description"},
	}

	for i := range events {
		ev := &events[i]

		data = append(data, []string{
			strconv.FormatUint(ev.Seq, 10),
			stamp(&ev.Timestamp),
			string(ev.Category),
			string(ev.Source),
			fmt.Sprintf("%.0f%%", ev.Confidence*100),
			ev.Description,
		})
	}

	return ui.PrintTable(data, w)
}

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r *models.IntegrityReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(r)
}
