package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// EventType classifies the event being planned.
type EventType string

const (
	EventWedding    EventType = "Wedding"
	EventCorporate  EventType = "Corporate Event"
	EventBirthday   EventType = "Birthday"
	EventConference EventType = "Conference"
	EventOther      EventType = "Other"
)

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	switch t {
	case EventWedding, EventCorporate, EventBirthday, EventConference, EventOther:
		return true
	default:
		return false
	}
}

// VenueLocation says whether the event happens inside, outside, or both.
type VenueLocation string

const (
	VenueIndoor  VenueLocation = "Indoor"
	VenueOutdoor VenueLocation = "Outdoor"
	VenueBoth    VenueLocation = "Both"
)

// Valid reports whether v is one of the known venue locations.
func (v VenueLocation) Valid() bool {
	switch v {
	case VenueIndoor, VenueOutdoor, VenueBoth:
		return true
	default:
		return false
	}
}

// ErrInvalidRequest is wrapped by every EventRequest validation failure.
var ErrInvalidRequest = errors.New("invalid event request")

// EventRequest is a submitted planning request. It is treated as immutable.
type EventRequest struct {
	ClientName    string        `json:"client_name"`
	EventDate     time.Time     `json:"event_date"`
	EventType     EventType     `json:"event_type"`
	Attendance    int           `json:"attendance"`
	VenueLocation VenueLocation `json:"venue_location"`
	Location      string        `json:"location,omitempty"` // forecast location token, e.g. "Austin,TX"
	Caterer       string        `json:"caterer,omitempty"`
	TotalCost     float64       `json:"total_cost"`
}

// Validate checks the request against today's date. Timeline generation
// assumes the event date is not in the past, so callers run this first.
func (r EventRequest) Validate(today time.Time) error {
	switch {
	case strings.TrimSpace(r.ClientName) == "":
		return fmt.Errorf("%w: client name is required", ErrInvalidRequest)
	case r.EventDate.IsZero():
		return fmt.Errorf("%w: event date is required", ErrInvalidRequest)
	case BeforeDay(r.EventDate, today):
		return fmt.Errorf("%w: event date %s is in the past", ErrInvalidRequest, r.EventDate.Format(time.DateOnly))
	case !r.EventType.Valid():
		return fmt.Errorf("%w: unknown event type %q", ErrInvalidRequest, r.EventType)
	case r.Attendance < 1:
		return fmt.Errorf("%w: attendance must be at least 1", ErrInvalidRequest)
	case !r.VenueLocation.Valid():
		return fmt.Errorf("%w: unknown venue location %q", ErrInvalidRequest, r.VenueLocation)
	case r.TotalCost < 0:
		return fmt.Errorf("%w: total cost must not be negative", ErrInvalidRequest)
	}
	return nil
}

// WeatherObservation is the normalized forecast for a single day.
type WeatherObservation struct {
	Temperature       float64  `json:"temperature"`          // °F
	FeelsLike         *float64 `json:"feels_like,omitempty"` // °F
	Humidity          float64  `json:"humidity"`             // %
	PrecipProbability float64  `json:"precip_probability"`   // %
	PrecipAmount      float64  `json:"precip_amount"`        // inches
	WindSpeed         float64  `json:"wind_speed"`           // mph
	WindGust          *float64 `json:"wind_gust,omitempty"`  // mph
	Conditions        string   `json:"conditions"`
	Description       string   `json:"description"`
	ResolvedAddress   string   `json:"resolved_address,omitempty"`
}

// RecommendationCategory groups advisories by the reading that triggered them.
type RecommendationCategory string

const (
	CategoryTemperature   RecommendationCategory = "Temperature"
	CategoryPrecipitation RecommendationCategory = "Precipitation"
	CategoryWind          RecommendationCategory = "Wind"
	CategoryHumidity      RecommendationCategory = "Humidity"
)

// Recommendation is a planning suggestion triggered by a weather threshold.
type Recommendation struct {
	Category RecommendationCategory `json:"category"`
	Text     string                 `json:"text"`
}

// TaskKey is the positional identity of a checklist task.
type TaskKey struct {
	MonthsOut int `json:"months_out"`
	TaskIndex int `json:"task_index"`
}

// String renders the key as "monthsOut:taskIndex".
func (k TaskKey) String() string {
	return fmt.Sprintf("%d:%d", k.MonthsOut, k.TaskIndex)
}

// ParseTaskKey is the inverse of TaskKey.String.
func ParseTaskKey(s string) (TaskKey, error) {
	monthsOut, taskIndex, ok := strings.Cut(s, ":")
	if !ok {
		return TaskKey{}, fmt.Errorf("parse task key %q: missing ':'", s)
	}
	m, err := strconv.Atoi(monthsOut)
	if err != nil {
		return TaskKey{}, fmt.Errorf("parse task key %q: %w", s, err)
	}
	i, err := strconv.Atoi(taskIndex)
	if err != nil {
		return TaskKey{}, fmt.Errorf("parse task key %q: %w", s, err)
	}
	return TaskKey{MonthsOut: m, TaskIndex: i}, nil
}

// TaskItem is one checklist entry. Completed is filled from a TaskStateStore
// and is not part of the task definition.
type TaskItem struct {
	Key         TaskKey `json:"key"`
	Description string  `json:"description"`
	Completed   bool    `json:"completed"`
}

// Milestone bundles the tasks due in one calendar month before the event.
type Milestone struct {
	MonthsOut  int        `json:"months_out"`
	Month      time.Time  `json:"month"` // first day of the labelled month
	MonthLabel string     `json:"month_label"`
	Tasks      []TaskItem `json:"tasks"`
}
