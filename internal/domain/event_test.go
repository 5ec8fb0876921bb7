package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() EventRequest {
	return EventRequest{
		ClientName:    "Jordan Lee",
		EventDate:     time.Date(2027, time.May, 15, 0, 0, 0, 0, time.UTC),
		EventType:     EventWedding,
		Attendance:    120,
		VenueLocation: VenueOutdoor,
		Location:      "Austin,TX",
		Caterer:       testVendor,
		TotalCost:     25000,
	}
}

func TestEventRequest_Validate(t *testing.T) {
	require.NoError(t, validRequest().Validate(testToday))

	sameDay := validRequest()
	sameDay.EventDate = time.Date(2026, time.October, 18, 18, 0, 0, 0, time.UTC)
	require.NoError(t, sameDay.Validate(testToday), "an event later today is allowed")

	tests := []struct {
		name    string
		mutate  func(*EventRequest)
		message string
	}{
		{"blank client", func(r *EventRequest) { r.ClientName = "  " }, "client name"},
		{"missing date", func(r *EventRequest) { r.EventDate = time.Time{} }, "event date is required"},
		{"past date", func(r *EventRequest) { r.EventDate = testToday.AddDate(0, 0, -1) }, "in the past"},
		{"unknown type", func(r *EventRequest) { r.EventType = "Gala" }, "event type"},
		{"zero attendance", func(r *EventRequest) { r.Attendance = 0 }, "attendance"},
		{"unknown venue", func(r *EventRequest) { r.VenueLocation = "Rooftop" }, "venue location"},
		{"negative cost", func(r *EventRequest) { r.TotalCost = -1 }, "total cost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			err := req.Validate(testToday)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidRequest)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestEventRequest_Validate_ComparesCalendarDates(t *testing.T) {
	// Morning in Chicago: the local date is 2026-10-18 while the event date
	// arrives as UTC midnight of the same day.
	chicago := time.FixedZone("CDT", -5*60*60)
	freezeClock(t, time.Date(2026, time.October, 18, 9, 30, 0, 0, chicago))

	req := validRequest()
	req.EventDate = time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC)
	require.NoError(t, req.Validate(Today()), "an event today is not in the past")
	assert.Len(t, ComputeTimeline(req.EventDate, ""), 1)

	req.EventDate = time.Date(2026, time.October, 17, 0, 0, 0, 0, time.UTC)
	require.ErrorIs(t, req.Validate(Today()), ErrInvalidRequest)

	// East of UTC the local date can be ahead of the UTC date.
	tokyo := time.FixedZone("JST", 9*60*60)
	late := time.Date(2026, time.October, 18, 23, 0, 0, 0, time.UTC)
	assert.True(t, BeforeDay(late, late.In(tokyo)))
	assert.False(t, BeforeDay(late.In(tokyo), late))
}

func TestTaskKey_StringRoundTrip(t *testing.T) {
	k := TaskKey{MonthsOut: 12, TaskIndex: 3}
	assert.Equal(t, "12:3", k.String())

	parsed, err := ParseTaskKey(k.String())
	require.NoError(t, err)
	assert.Equal(t, k, parsed)
}

func TestParseTaskKey_Rejects(t *testing.T) {
	for _, in := range []string{"bogus", "", "1", "1:", ":2", "1:2junk", "1:2:3", "a:2", " 1:2"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseTaskKey(in)
			assert.Error(t, err)
		})
	}
}

func TestToday(t *testing.T) {
	freezeClock(t, testToday)
	assert.Equal(t, time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC), Today())
}
