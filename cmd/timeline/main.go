// Command timeline prints the planning checklist for an event date and can
// export it as an iCalendar file of to-dos.
//
// Usage:
//
//	go run ./cmd/timeline \
//	  -date 2027-05-15 \
//	  -vendor "Bella Catering" \
//	  -done 12:0,12:1 \
//	  -ics event-plan.ics
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/couchcryptid/event-planner-service/internal/adapter/ical"
	"github.com/couchcryptid/event-planner-service/internal/domain"
	"github.com/jonboulle/clockwork"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("timeline", flag.ContinueOnError)
	date := fs.String("date", "", "event date (YYYY-MM-DD)")
	vendor := fs.String("vendor", "", "caterer name substituted into vendor tasks")
	done := fs.String("done", "", "comma-separated completed tasks as monthsOut:taskIndex")
	today := fs.String("today", "", "override today's date (YYYY-MM-DD) for reproducible output")
	icsPath := fs.String("ics", "", "also write the checklist as an iCalendar file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *date == "" {
		fs.Usage()
		return fmt.Errorf("missing required flag: -date")
	}
	eventDate, err := time.Parse(time.DateOnly, *date)
	if err != nil {
		return fmt.Errorf("parse -date: %w", err)
	}

	if *today != "" {
		t, err := time.Parse(time.DateOnly, *today)
		if err != nil {
			return fmt.Errorf("parse -today: %w", err)
		}
		domain.SetClock(clockwork.NewFakeClockAt(t))
		defer domain.SetClock(nil)
	}
	if domain.BeforeDay(eventDate, domain.Today()) {
		return fmt.Errorf("event date %s is in the past", *date)
	}

	store := domain.NewTaskStateStore()
	if err := markDone(store, *done); err != nil {
		return err
	}
	milestones := store.Apply(domain.ComputeTimeline(eventDate, *vendor))

	printChecklist(out, milestones)

	if *icsPath != "" {
		data, err := ical.TimelineBytes("cli", "Event plan "+*date, milestones, domain.Now())
		if err != nil {
			return err
		}
		if err := os.WriteFile(*icsPath, data, 0o644); err != nil { //nolint:gosec // calendar export is not sensitive
			return fmt.Errorf("write %s: %w", *icsPath, err)
		}
		fmt.Fprintf(out, "\nwrote %s\n", *icsPath)
	}
	return nil
}

func markDone(store *domain.TaskStateStore, list string) error {
	for _, field := range strings.Split(list, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		key, err := domain.ParseTaskKey(field)
		if err != nil {
			return fmt.Errorf("parse -done: %w", err)
		}
		if !domain.TaskExists(key) {
			return fmt.Errorf("parse -done: no task at %s", key)
		}
		store.Set(key, true)
	}
	return nil
}

func printChecklist(w io.Writer, milestones []domain.Milestone) {
	if len(milestones) == 0 {
		fmt.Fprintln(w, "no milestones")
		return
	}
	for _, m := range milestones {
		fmt.Fprintf(w, "%s (%d months out)\n", m.MonthLabel, m.MonthsOut)
		for _, t := range m.Tasks {
			mark := " "
			if t.Completed {
				mark = "x"
			}
			fmt.Fprintf(w, "  [%s] %s  %s\n", mark, t.Key, t.Description)
		}
	}
}
