package domain

import (
	"strings"
	"time"
)

// MaxMilestones caps the timeline at a year of lead time plus the event month.
const MaxMilestones = 13

const monthLabelLayout = "January 2006"

// taskTemplate is a task whose wording may name the caterer. generic is used
// when no vendor is known; vendor, when set, holds a "{vendor}" placeholder.
type taskTemplate struct {
	generic string
	vendor  string
}

// Resolve returns the task text for the given vendor name ("" for none).
func (t taskTemplate) Resolve(vendor string) string {
	if t.vendor == "" || vendor == "" {
		return t.generic
	}
	return strings.ReplaceAll(t.vendor, "{vendor}", vendor)
}

func plain(text string) taskTemplate { return taskTemplate{generic: text} }

func withVendor(format, generic string) taskTemplate {
	return taskTemplate{generic: generic, vendor: format}
}

// baseTasks is indexed by monthsOut. Vendor-aware entries sit at 9, 7, 5, 3, 1.
var baseTasks = [MaxMilestones][]taskTemplate{
	0: {
		plain("Confirm final details with all vendors"),
		plain("Prepare day-of timeline and contact sheet"),
		plain("Assemble an emergency kit"),
		plain("Check the weather forecast and activate contingency plans"),
	},
	1: {
		withVendor("Confirm final headcount and menu with {vendor}", "Confirm final headcount and menu with caterer"),
		plain("Finalize seating chart"),
		plain("Confirm delivery and setup times"),
		plain("Prepare final payments and gratuities"),
	},
	2: {
		plain("Send reminders to guests who have not responded"),
		plain("Confirm transportation and parking"),
		plain("Finalize event program and run of show"),
	},
	3: {
		withVendor("Review service timeline with {vendor}", "Review service timeline with caterer"),
		plain("Order signage and printed materials"),
		plain("Confirm rental orders"),
	},
	4: {
		plain("Send invitations"),
		plain("Book hair, makeup, or speaker preparation services"),
		plain("Plan décor and floral arrangements"),
	},
	5: {
		withVendor("Finalize menu selections with {vendor}", "Finalize menu selections with caterer"),
		plain("Arrange guest accommodations"),
		plain("Order favors or swag"),
	},
	6: {
		plain("Book rentals: tables, chairs, linens, tents"),
		plain("Hire florist and decorator"),
		plain("Create event website or registration page"),
	},
	7: {
		withVendor("Schedule tasting with {vendor}", "Schedule tastings with shortlisted caterers"),
		plain("Book audio-visual and lighting vendors"),
		plain("Plan transportation"),
	},
	8: {
		plain("Book entertainment or speakers"),
		plain("Order attire or branded uniforms"),
		plain("Finalize guest list"),
	},
	9: {
		withVendor("Sign catering contract with {vendor}", "Research and book a caterer"),
		plain("Book photographer and videographer"),
		plain("Send save-the-dates"),
	},
	10: {
		plain("Hire event planner or coordinator if needed"),
		plain("Choose event theme and color palette"),
		plain("Start vendor research"),
	},
	11: {
		plain("Book the venue"),
		plain("Purchase event insurance"),
		plain("Draft preliminary guest list"),
	},
	12: {
		plain("Set the overall budget"),
		plain("Pick a date and backup date"),
		plain("Research venues"),
		plain("Define event goals and style"),
	},
}

// MonthsUntil counts calendar months from today's month to the event's month,
// ignoring the day of month.
func MonthsUntil(today, eventDate time.Time) int {
	return (eventDate.Year()-today.Year())*12 + int(eventDate.Month()) - int(today.Month())
}

// ComputeTimeline builds the planning checklist for eventDate relative to
// the package clock's today.
func ComputeTimeline(eventDate time.Time, vendor string) []Milestone {
	return ComputeTimelineAt(clock.Now(), eventDate, vendor)
}

// ComputeTimelineAt builds min(13, monthsUntil+1) milestones in ascending
// monthsOut order. A past event date yields no milestones.
func ComputeTimelineAt(today, eventDate time.Time, vendor string) []Milestone {
	vendor = strings.TrimSpace(vendor)

	count := min(MaxMilestones, MonthsUntil(today, eventDate)+1)
	if count <= 0 {
		return []Milestone{}
	}

	// First of the month: AddDate on March 31 would otherwise land in March.
	anchor := time.Date(eventDate.Year(), eventDate.Month(), 1, 0, 0, 0, 0, eventDate.Location())

	milestones := make([]Milestone, count)
	for i := range count {
		month := anchor.AddDate(0, -i, 0)
		milestones[i] = Milestone{
			MonthsOut:  i,
			Month:      month,
			MonthLabel: month.Format(monthLabelLayout),
			Tasks:      resolveTasks(i, vendor),
		}
	}
	return milestones
}

func resolveTasks(monthsOut int, vendor string) []TaskItem {
	if monthsOut < 0 || monthsOut >= len(baseTasks) {
		return []TaskItem{}
	}
	templates := baseTasks[monthsOut]
	tasks := make([]TaskItem, len(templates))
	for i, tmpl := range templates {
		tasks[i] = TaskItem{
			Key:         TaskKey{MonthsOut: monthsOut, TaskIndex: i},
			Description: tmpl.Resolve(vendor),
		}
	}
	return tasks
}

// TaskExists reports whether key names a task in the base table.
func TaskExists(key TaskKey) bool {
	return key.MonthsOut >= 0 && key.MonthsOut < len(baseTasks) &&
		key.TaskIndex >= 0 && key.TaskIndex < len(baseTasks[key.MonthsOut])
}

// VendorAware reports whether the task at key changes wording with the vendor name.
func VendorAware(key TaskKey) bool {
	return TaskExists(key) && baseTasks[key.MonthsOut][key.TaskIndex].vendor != ""
}
