// Package domain holds the event-planning core: forecast normalization,
// weather advisories, and the backward-counting planning timeline.
//
// # Forecast Payloads
//
// Forecasts come from the Visual Crossing timeline API (or anything that
// speaks its shape). Only the first entry of the "days" list is read:
//
//	{"days": [{"temp": 72.4, "humidity": 55, "precipprob": 10, "conditions": "Clear"}],
//	 "resolvedAddress": "Austin, TX, United States"}
//
// temp and humidity are required. Optional numeric fields default to zero
// (precipprob, precip, windspeed); feelslike and windgust stay unset when
// absent and never take part in a recommendation rule. A missing description
// falls back to the conditions text.
//
// Units follow the "us" unit group: °F, inches, mph. Percentages are 0–100.
//
// # Advisory Rules
//
// Five independent threshold rules, evaluated in this order, each adding a
// fixed set of recommendations:
//
//	temp < 50        → 2 temperature (heating, warm beverages)
//	temp > 85        → 2 temperature (shade/cooling, cold beverages)
//	precipprob > 30  → 2 precipitation (indoor backup, coverage)
//	windspeed > 15   → 2 wind (secure decorations, barriers)
//	humidity > 70    → 1 humidity (fans/dehumidifiers)
//
// All comparisons are strict, so a reading sitting exactly on a threshold
// triggers nothing.
//
// # Planning Timeline
//
// A milestone exists for every calendar month from the event month back to
// today's month, capped at 13 (a year of lead time plus the event month).
// The month difference ignores the day of month: an event on March 1 planned
// on February 28 is one month out.
//
// Tasks are identified by position, (monthsOut, taskIndex), never by text.
// Five offsets (9, 7, 5, 3, 1) carry a caterer-specific task whose wording
// changes when a vendor name is supplied; positional identity keeps their
// completion state intact across that change. See [TaskStateStore].
package domain
