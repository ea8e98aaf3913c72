// Package render draws the CLI screens. Output is plain text plus color
// attributes, which fatih/color drops when stdout is not a terminal.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/2beens/fitcoach/internal/api"
	"github.com/2beens/fitcoach/internal/calendar"
	"github.com/2beens/fitcoach/internal/timer"
	"github.com/2beens/fitcoach/internal/training"
	"github.com/2beens/fitcoach/internal/workout"

	"github.com/fatih/color"
)

var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	faintColor   = color.New(color.Faint)
	accentColor  = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)
	workoutColor = color.New(color.FgGreen, color.Bold)
)

func Profile(w io.Writer, user *api.User, recent []calendar.Day) {
	if user == nil {
		warnColor.Fprintln(w, "Not logged in")
		return
	}
	titleColor.Fprintf(w, "%s <%s>\n", user.Name, user.Email)

	cells := make([]string, 0, len(recent))
	for _, day := range recent {
		cell := fmt.Sprintf("%s %d", day.DayName, day.DayNumber)
		if day.HasWorkout {
			cell = workoutColor.Sprint(cell + "*")
		}
		cells = append(cells, cell)
	}
	if len(cells) > 0 {
		fmt.Fprintln(w, strings.Join(cells, "  "))
	}
}

func ProgramList(w io.Writer, page *api.Page[workout.ProgramSummary]) {
	if len(page.Items) == 0 {
		faintColor.Fprintln(w, "No workout programs")
		return
	}
	for _, p := range page.Items {
		fmt.Fprintf(w, "[%s] %s", p.ID, p.Description)
		if p.StartDateYMD != "" || p.ExpiryDateYMD != "" {
			faintColor.Fprintf(w, "  %s .. %s", p.StartDateYMD, p.ExpiryDateYMD)
		}
		fmt.Fprintln(w)
	}
	if page.HasMore {
		faintColor.Fprintf(w, "more: --page %d\n", page.Page+1)
	}
}

// Program prints the outline: days, groups and each exercise's prescription.
func Program(w io.Writer, p *workout.Program) {
	titleColor.Fprintf(w, "%s\n", p.Description)
	if p.StartDateYMD != "" || p.ExpiryDateYMD != "" {
		faintColor.Fprintf(w, "valid %s .. %s\n", p.StartDateYMD, p.ExpiryDateYMD)
	}

	for _, day := range p.Days {
		fmt.Fprintf(w, "\nDay %d: %s\n", day.Seduta, day.Description)
		for _, group := range day.Groups {
			indent := "  "
			if group.IsSuperset() {
				warnColor.Fprintf(w, "  superset %d\n", group.Number)
				indent = "    "
			}
			for _, ex := range group.Exercises {
				fmt.Fprintf(w, "%s- [%s] %s", indent, ex.ID, ex.Description)
				if rx := prescription(ex); rx != "" {
					faintColor.Fprintf(w, "  %s", rx)
				}
				fmt.Fprintln(w)
			}
		}
	}
}

// Exercise prints one exercise with its superset context and what follows it.
func Exercise(w io.Writer, pos *workout.Position) {
	ex := pos.Exercise
	titleColor.Fprintf(w, "[%s] %s\n", ex.ID, ex.Description)
	if rx := prescription(ex); rx != "" {
		faintColor.Fprintln(w, rx)
	}
	if pos.IsSuperset() {
		names := make([]string, 0, len(pos.Siblings))
		for _, sibling := range pos.Siblings {
			names = append(names, sibling.Description)
		}
		warnColor.Fprintf(w, "superset %d/%d: %s\n", pos.Index+1, len(pos.Siblings), strings.Join(names, ", "))
	}
	if ex.Text != "" {
		fmt.Fprintf(w, "\n%s\n", ex.Text)
	}
	if ex.Note != "" {
		faintColor.Fprintf(w, "note: %s\n", ex.Note)
	}
	if ex.Video != "" {
		faintColor.Fprintf(w, "video: %s\n", ex.Video)
	}

	if pos.Next != nil {
		fmt.Fprintf(w, "\nnext: [%s] %s\n", pos.Next.ID, pos.Next.Description)
	} else {
		faintColor.Fprintln(w, "\nlast exercise of the program")
	}
}

func prescription(ex workout.Exercise) string {
	var parts []string
	if ex.IsTimed() && ex.DurationSeconds > 0 {
		parts = append(parts, "work "+timer.FormatSeconds(ex.DurationSeconds))
	} else if ex.Series != "" {
		parts = append(parts, ex.Series)
	}
	if ex.RestSeconds > 0 {
		parts = append(parts, "rest "+timer.FormatSeconds(ex.RestSeconds))
	}
	if ex.Weight != "" {
		parts = append(parts, ex.Weight)
	}
	return strings.Join(parts, ", ")
}

// Training prints the session screen for one snapshot.
func Training(w io.Writer, s training.Snapshot) {
	switch s.Status {
	case training.StatusIdle:
		faintColor.Fprintln(w, "Session not started")
		return
	case training.StatusLoading:
		faintColor.Fprintln(w, "Loading program...")
		return
	case training.StatusFailed:
		errorColor.Fprintf(w, "Could not load the program: %v\n", s.Err)
		fmt.Fprintln(w, "[r] retry  [q] quit")
		return
	}

	if s.Step == training.StepEnd || s.Exercise == nil {
		titleColor.Fprintln(w, "Workout complete!")
		return
	}

	ex := s.Exercise
	titleColor.Fprintf(w, "%s  %s\n", strings.ToUpper(string(s.Step)), ex.Description)

	fmt.Fprintf(w, "series %d", s.Series)
	if rx := prescription(*ex); rx != "" {
		faintColor.Fprintf(w, "  (%s)", rx)
	}
	fmt.Fprintln(w)

	if s.IsSuperset {
		names := make([]string, 0, len(s.Superset))
		for i, sibling := range s.Superset {
			if i == s.SupersetIndex {
				names = append(names, accentColor.Sprintf(">%s<", sibling.Description))
				continue
			}
			names = append(names, sibling.Description)
		}
		warnColor.Fprintf(w, "superset %d/%d: ", s.SupersetIndex+1, len(s.Superset))
		fmt.Fprintln(w, strings.Join(names, " | "))
	}

	if s.TimerState != timer.StateIdle {
		fmt.Fprintf(w, "timer %s [%s]\n", s.TimerFormatted, s.TimerState)
	}
	if s.Next != nil {
		faintColor.Fprintf(w, "next: %s\n", s.Next.Description)
	}

	fmt.Fprintln(w, strings.Join(actions(s), "  "))
}

func actions(s training.Snapshot) []string {
	var out []string
	if s.HasNextSeries {
		out = append(out, "[s] next series")
	}
	switch {
	case s.HasNextRest:
		out = append(out, "[n] rest")
	case s.HasNextSupersetExercise:
		out = append(out, "[n] next in superset")
	case s.HasNextExercise:
		out = append(out, "[n] next exercise")
	case s.HasEnding:
		out = append(out, "[n] finish")
	}
	switch s.TimerState {
	case timer.StateRunning:
		out = append(out, "[p] pause")
	case timer.StatePaused:
		out = append(out, "[r] resume")
	}
	return append(out, "[q] quit")
}

// Calendar prints a Monday-first month grid; days with a workout carry a '*'.
func Calendar(w io.Writer, year, month int, days []calendar.Day, workouts map[string][]api.CalendarEntry) {
	titleColor.Fprintf(w, "%s %d\n", time.Month(month), year)
	fmt.Fprintln(w, " Mo  Tu  We  Th  Fr  Sa  Su")

	var row []string
	for _, day := range days {
		marker := " "
		if day.HasWorkout {
			marker = "*"
		}
		cell := fmt.Sprintf("%3d%s", day.DayNumber, marker)
		switch {
		case day.IsToday:
			cell = accentColor.Sprint(cell)
		case !day.IsCurrentMonth:
			cell = faintColor.Sprint(cell)
		}
		row = append(row, cell)
		if len(row) == 7 {
			fmt.Fprintln(w, strings.TrimRight(strings.Join(row, ""), " "))
			row = row[:0]
		}
	}

	for _, day := range days {
		date := day.Date.Format("2006-01-02")
		for _, entry := range workouts[date] {
			fmt.Fprintf(w, "%s  %s (session %d)\n", date, entry.Description, entry.Seduta)
		}
	}
}

func Nutrition(w io.Writer, page *api.Page[api.NutritionItem]) {
	if len(page.Items) == 0 {
		faintColor.Fprintln(w, "No nutrition plans")
		return
	}
	for _, item := range page.Items {
		titleColor.Fprintf(w, "%s", item.Period)
		fmt.Fprintf(w, "  %s\n", item.Description)
		if item.PlanFileURL != "" {
			faintColor.Fprintf(w, "    %s\n", item.PlanFileURL)
		}
	}
	if page.HasMore {
		faintColor.Fprintf(w, "more: --page %d\n", page.Page+1)
	}
}

// Error prints a failure the way every command reports it.
func Error(w io.Writer, err error) {
	errorColor.Fprintf(w, "error: %s\n", err)
}
