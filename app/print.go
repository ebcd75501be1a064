package app

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/maruel/natural"

	"github.com/ayoisaiah/proctor/internal/models"
	"github.com/ayoisaiah/proctor/internal/ui"
)

const (
	noSessionsMsg = "No sessions found for the specified filters"
	timeFormat    = "Jan 02, 2006 03:04 PM"
)

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}

	return t.Local().Format(timeFormat)
}

// sortSessions orders sessions by candidate name using natural ordering
// ("Candidate 2" before "Candidate 10"), or leaves the newest-first order.
func sortSessions(sessions []models.Session, by string) {
	if by != "name" {
		return
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return natural.Less(sessions[i].CandidateName, sessions[j].CandidateName)
	})
}

// printSessionsTable prints a session table to the command-line.
func printSessionsTable(w io.Writer, sessions []models.Session) error {
	tableBody := make([][]string, len(sessions))

	for i := range sessions {
		sess := &sessions[i]

		tableBody[i] = []string{
			strconv.Itoa(i + 1),
			sess.ID,
			sess.CandidateName,
			sess.CandidateEmail,
			formatTime(&sess.CreatedAt),
			formatTime(sess.StartTime),
			formatTime(sess.EndTime),
			ui.Status(sess.Status),
		}
	}

	tableBody = append([][]string{
		{"#", "ID", "CANDIDATE", "EMAIL", "CREATED", "STARTED", "ENDED", "STATUS"},
	}, tableBody...)

	return ui.PrintTable(tableBody, w)
}

// printCounts prints the number of sessions in each status.
func printCounts(w io.Writer, counts map[models.Status]int) error {
	row := make([]string, 0, len(models.Statuses))
	for _, s := range models.Statuses {
		row = append(row, fmt.Sprintf("%s: %d", ui.Status(s), counts[s]))
	}

	return ui.PrintTable([][]string{row}, w)
}

// printSession prints the fields of one session.
func printSession(
	w io.Writer,
	sess *models.Session,
	counts map[models.Category]int,
) error {
	data := [][]string{
		{"Field", "Value"},
		{"ID", sess.ID},
		{"Candidate", sess.CandidateName},
		{"Email", sess.CandidateEmail},
		{"Status", ui.Status(sess.Status)},
		{"Link", sess.CandidateLink()},
		{"Created", formatTime(&sess.CreatedAt)},
		{"Expires", formatTime(&sess.ExpiresAt)},
		{"Started", formatTime(sess.StartTime)},
		{"Ended", formatTime(sess.EndTime)},
	}

	if sess.Notes != "" {
		data = append(data, []string{"Notes", sess.Notes})
	}

	for _, c := range models.Categories {
		if n, ok := counts[c]; ok {
			data = append(data, []string{string(c), strconv.Itoa(n)})
		}
	}

	return ui.PrintTable(data, w)
}
