package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/event-planner-service/internal/domain"
	"github.com/couchcryptid/event-planner-service/internal/observability"
	"github.com/jonboulle/clockwork"
)

var (
	// ErrSessionNotFound is returned when a session id is unknown and cannot be rehydrated.
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidSession is returned for session ids that are not UUIDs.
	ErrInvalidSession = errors.New("invalid session id")
	// ErrUnknownTask is returned when a task key does not name a checklist task.
	ErrUnknownTask = errors.New("unknown task")
)

// Weather outcome labels that are not error kinds.
const (
	outcomeOK         = "ok"
	outcomeDisabled   = "disabled"
	outcomeNoLocation = "no_location"
)

// TaskStateRepository persists per-session completion flags beyond process memory.
type TaskStateRepository interface {
	Load(ctx context.Context, sessionID string) (map[domain.TaskKey]bool, error)
	Save(ctx context.Context, sessionID string, key domain.TaskKey, completed bool) error
	Ping(ctx context.Context) error
}

// PlanPublisher emits generated plans to downstream consumers.
type PlanPublisher interface {
	Publish(ctx context.Context, plan domain.Plan) error
}

// Option configures optional Planner collaborators.
type Option func(*Planner)

// WithTaskStateRepository makes toggles write through to repo and lets
// sessions be rehydrated after a restart.
func WithTaskStateRepository(repo TaskStateRepository) Option {
	return func(p *Planner) { p.repo = repo }
}

// WithPublisher publishes every generated plan.
func WithPublisher(pub PlanPublisher) Option {
	return func(p *Planner) { p.publisher = pub }
}

// WithClock overrides the clock used for session expiry and plan timestamps.
func WithClock(c clockwork.Clock) Option {
	return func(p *Planner) { p.clock = c }
}

// Planner assembles plans from an EventRequest: forecast, advisories, icon and
// the checklist with per-session completion state.
type Planner struct {
	provider  domain.WeatherProvider
	repo      TaskStateRepository
	publisher PlanPublisher
	sessions  *sessionRegistry
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Planner. A nil provider disables forecast lookups.
func New(provider domain.WeatherProvider, logger *slog.Logger, metrics *observability.Metrics, sessionTTL time.Duration, opts ...Option) *Planner {
	p := &Planner{
		provider: provider,
		clock:    clockwork.NewRealClock(),
		logger:   logger,
		metrics:  metrics,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.sessions = newSessionRegistry(sessionTTL)

	if provider != nil {
		metrics.WeatherEnabled.Set(1)
	} else {
		metrics.WeatherEnabled.Set(0)
	}
	return p
}

// CheckReadiness reports the durable store's health when one is configured.
func (p *Planner) CheckReadiness(ctx context.Context) error {
	if p.repo == nil {
		return nil
	}
	if err := p.repo.Ping(ctx); err != nil {
		return fmt.Errorf("task state store unavailable: %w", err)
	}
	return nil
}

// Plan validates req and builds its plan within sessionID. An empty sessionID
// starts a new session. Weather failures never fail the plan; they are reported
// through Plan.WeatherError.
func (p *Planner) Plan(ctx context.Context, sessionID string, req domain.EventRequest) (domain.Plan, error) {
	if err := req.Validate(domain.Today()); err != nil {
		return domain.Plan{}, err
	}

	id, sess, err := p.session(ctx, sessionID, true)
	if err != nil {
		return domain.Plan{}, err
	}

	plan := domain.Plan{
		SessionID:       id,
		Request:         req,
		Recommendations: []domain.Recommendation{},
		GeneratedAt:     p.clock.Now().UTC(),
	}

	outcome := p.attachWeather(ctx, &plan)
	plan.Milestones = sess.store.Apply(domain.ComputeTimeline(req.EventDate, req.Caterer))

	p.metrics.PlansGenerated.WithLabelValues(outcome).Inc()
	p.metrics.Recommendations.Observe(float64(len(plan.Recommendations)))

	total, done := plan.TaskCounts()
	p.logger.Info("plan generated",
		"session_id", id,
		"event_type", req.EventType,
		"event_date", req.EventDate.Format(time.DateOnly),
		"weather", outcome,
		"milestones", len(plan.Milestones),
		"tasks", total,
		"completed", done,
	)

	p.publish(ctx, plan)
	return plan, nil
}

// attachWeather fills the forecast fields of plan and returns the outcome label.
func (p *Planner) attachWeather(ctx context.Context, plan *domain.Plan) string {
	req := plan.Request
	switch {
	case p.provider == nil:
		return outcomeDisabled
	case req.Location == "":
		return outcomeNoLocation
	}

	obs, err := domain.FetchObservation(ctx, p.provider, domain.ForecastQuery{
		Location: req.Location,
		Date:     req.EventDate,
	})
	if err != nil {
		kind := domain.WeatherErrorKind(err)
		p.logger.Warn("weather unavailable, continuing without forecast",
			"error", err,
			"kind", kind,
			"location", req.Location,
		)
		plan.WeatherError = kind
		return kind
	}

	plan.Weather = &obs
	plan.Icon = domain.ResolveIcon(obs.Conditions)
	plan.Recommendations = domain.GenerateRecommendations(obs)
	return outcomeOK
}

func (p *Planner) publish(ctx context.Context, plan domain.Plan) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.Publish(ctx, plan); err != nil {
		p.logger.Warn("publish plan failed", "error", err, "session_id", plan.SessionID)
		p.metrics.PlansPublished.WithLabelValues("error").Inc()
		return
	}
	p.metrics.PlansPublished.WithLabelValues("success").Inc()
}

// Toggle flips one task's completion flag in sessionID and returns the new
// value. With a repository configured the change is written through first;
// a failed write leaves the flag unchanged. Toggles within a session are
// serialized.
func (p *Planner) Toggle(ctx context.Context, sessionID string, key domain.TaskKey) (bool, error) {
	if !domain.TaskExists(key) {
		return false, fmt.Errorf("%w: %s", ErrUnknownTask, key)
	}

	id, sess, err := p.session(ctx, sessionID, false)
	if err != nil {
		return false, err
	}

	sess.toggleMu.Lock()
	defer sess.toggleMu.Unlock()

	completed := !sess.store.Get(key.MonthsOut, key.TaskIndex)
	if p.repo != nil {
		if err := p.repo.Save(ctx, id, key, completed); err != nil {
			return false, fmt.Errorf("toggle task %s: %w", key, err)
		}
	}
	sess.store.Set(key, completed)

	state := "reopened"
	if completed {
		state = "completed"
	}
	p.metrics.TaskToggles.WithLabelValues(state).Inc()
	p.logger.Debug("task toggled", "session_id", id, "task", key.String(), "completed", completed)
	return completed, nil
}

// Timeline returns the checklist for eventDate with sessionID's completion
// state applied.
func (p *Planner) Timeline(ctx context.Context, sessionID string, eventDate time.Time, vendor string) ([]domain.Milestone, error) {
	_, sess, err := p.session(ctx, sessionID, false)
	if err != nil {
		return nil, err
	}
	return sess.store.Apply(domain.ComputeTimeline(eventDate, vendor)), nil
}

// Run expires idle sessions until the context is cancelled.
func (p *Planner) Run(ctx context.Context) error {
	interval := min(p.sessions.ttl, time.Minute)
	ticker := p.clock.NewTicker(interval)
	defer ticker.Stop()

	p.logger.Info("session sweeper started", "ttl", p.sessions.ttl, "interval", interval)
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("session sweeper stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			if n := p.sweep(); n > 0 {
				p.logger.Debug("expired idle sessions", "count", n)
			}
		}
	}
}

func (p *Planner) sweep() int {
	n := p.sessions.expire(p.clock.Now())
	p.metrics.ActiveSessions.Set(float64(p.sessions.len()))
	return n
}

// session resolves sessionID to its state. Unknown ids are created when create
// is set, or rehydrated from the repository when one is configured.
func (p *Planner) session(ctx context.Context, sessionID string, create bool) (string, *session, error) {
	now := p.clock.Now()

	if sessionID == "" {
		if !create {
			return "", nil, ErrSessionNotFound
		}
		sessionID = newSessionID()
	} else if !validSessionID(sessionID) {
		return "", nil, fmt.Errorf("%w: %q", ErrInvalidSession, sessionID)
	}

	if sess, ok := p.sessions.touch(sessionID, now); ok {
		return sessionID, sess, nil
	}
	if !create && p.repo == nil {
		return "", nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	store := domain.NewTaskStateStore()
	if p.repo != nil {
		state, err := p.repo.Load(ctx, sessionID)
		if err != nil {
			if !create {
				return "", nil, fmt.Errorf("rehydrate session %s: %w", sessionID, err)
			}
			p.logger.Warn("load task state failed, starting empty", "error", err, "session_id", sessionID)
		} else {
			store.Restore(state)
		}
	}

	sess := p.sessions.add(sessionID, store, now)
	p.metrics.ActiveSessions.Set(float64(p.sessions.len()))
	return sessionID, sess, nil
}
