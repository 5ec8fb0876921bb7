package domain

import "time"

// Plan is the assembled answer for one EventRequest: the day's forecast (when
// available), its advisories, and the checklist with completion state applied.
type Plan struct {
	SessionID       string              `json:"session_id"`
	Request         EventRequest        `json:"request"`
	Weather         *WeatherObservation `json:"weather"`
	WeatherError    string              `json:"weather_error,omitempty"` // see WeatherErrorKind
	Icon            Icon                `json:"icon,omitempty"`
	Recommendations []Recommendation    `json:"recommendations"`
	Milestones      []Milestone         `json:"milestones"`
	GeneratedAt     time.Time           `json:"generated_at"`
}

// TaskCounts returns how many checklist tasks the plan has and how many are done.
func (p Plan) TaskCounts() (total, completed int) {
	for _, m := range p.Milestones {
		for _, t := range m.Tasks {
			total++
			if t.Completed {
				completed++
			}
		}
	}
	return total, completed
}
