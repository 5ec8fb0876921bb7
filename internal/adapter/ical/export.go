// Package ical renders a planning checklist as an iCalendar feed with one
// VTODO per task, due on the first day of its milestone month.
package ical

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/couchcryptid/event-planner-service/internal/domain"
	goical "github.com/emersion/go-ical"
)

const (
	productID = "-//couchcryptid//event-planner-service//EN"
	uidDomain = "event-planner.local"

	statusCompleted   = "COMPLETED"
	statusNeedsAction = "NEEDS-ACTION"

	// emptyCalendar is written when there are no tasks to export.
	emptyCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + productID + "\r\nEND:VCALENDAR\r\n"
)

// EncodeTimeline writes milestones as a VCALENDAR to w. sessionID scopes task
// UIDs so re-imports update tasks instead of duplicating them. stamp is used
// for DTSTAMP.
func EncodeTimeline(w io.Writer, sessionID, calName string, milestones []domain.Milestone, stamp time.Time) error {
	cal := goical.NewCalendar()
	cal.Props.SetText(goical.PropVersion, "2.0")
	cal.Props.SetText(goical.PropProductID, productID)
	cal.Props.SetText("X-WR-CALNAME", calName)
	cal.Props.SetText(goical.PropCalendarScale, "GREGORIAN")

	for _, m := range milestones {
		for _, task := range m.Tasks {
			cal.Children = append(cal.Children, taskComponent(sessionID, m, task, stamp.UTC()))
		}
	}
	if len(cal.Children) == 0 {
		_, err := io.WriteString(w, emptyCalendar)
		return err
	}

	if err := goical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}

// TimelineBytes is EncodeTimeline into a buffer.
func TimelineBytes(sessionID, calName string, milestones []domain.Milestone, stamp time.Time) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeTimeline(&buf, sessionID, calName, milestones, stamp); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func taskComponent(sessionID string, m domain.Milestone, task domain.TaskItem, stamp time.Time) *goical.Component {
	todo := goical.NewComponent(goical.CompToDo)
	todo.Props.SetText(goical.PropUID, fmt.Sprintf("%s-%d-%d@%s", sessionID, task.Key.MonthsOut, task.Key.TaskIndex, uidDomain))
	todo.Props.SetDateTime(goical.PropDateTimeStamp, stamp)
	todo.Props.SetText(goical.PropSummary, task.Description)
	todo.Props.SetText(goical.PropDescription, fmt.Sprintf("%s checklist (%d months before the event)", m.MonthLabel, m.MonthsOut))

	due := goical.NewProp(goical.PropDue)
	due.SetDate(m.Month)
	todo.Props.Set(due)

	if task.Completed {
		todo.Props.SetText(goical.PropStatus, statusCompleted)
	} else {
		todo.Props.SetText(goical.PropStatus, statusNeedsAction)
	}
	return todo
}
