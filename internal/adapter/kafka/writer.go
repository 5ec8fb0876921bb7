package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/event-planner-service/internal/config"
	"github.com/couchcryptid/event-planner-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// PlanWriter publishes generated plans to a Kafka topic.
// It implements planner.PlanPublisher.
type PlanWriter struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPlanWriter creates a Kafka producer for the configured plan topic.
func NewPlanWriter(cfg *config.Config, logger *slog.Logger) *PlanWriter {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaPlanTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &PlanWriter{writer: w, logger: logger}
}

// Publish writes one plan event keyed by session id, so every revision of a
// session's plan lands on the same partition in order.
func (w *PlanWriter) Publish(ctx context.Context, plan domain.Plan) error {
	msg, err := serializeToMessage(plan)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish plan: %w", err)
	}
	w.logger.Debug("plan published", "session_id", plan.SessionID, "topic", w.writer.Topic)
	return nil
}

func (w *PlanWriter) Close() error {
	return w.writer.Close()
}

// planEvent is the wire form of a published plan.
type planEvent struct {
	SessionID       string                     `json:"session_id"`
	ClientName      string                     `json:"client_name"`
	EventType       domain.EventType           `json:"event_type"`
	EventDate       string                     `json:"event_date"`
	Attendance      int                        `json:"attendance"`
	VenueLocation   domain.VenueLocation       `json:"venue_location"`
	Caterer         string                     `json:"caterer,omitempty"`
	TotalCost       float64                    `json:"total_cost"`
	Weather         *domain.WeatherObservation `json:"weather"`
	WeatherError    string                     `json:"weather_error,omitempty"`
	Recommendations []domain.Recommendation    `json:"recommendations"`
	Milestones      int                        `json:"milestones"`
	TasksTotal      int                        `json:"tasks_total"`
	TasksCompleted  int                        `json:"tasks_completed"`
	GeneratedAt     time.Time                  `json:"generated_at"`
}

// serializeToMessage marshals a Plan into a Kafka message.
func serializeToMessage(plan domain.Plan) (kafkago.Message, error) {
	total, completed := plan.TaskCounts()
	evt := planEvent{
		SessionID:       plan.SessionID,
		ClientName:      plan.Request.ClientName,
		EventType:       plan.Request.EventType,
		EventDate:       plan.Request.EventDate.Format(time.DateOnly),
		Attendance:      plan.Request.Attendance,
		VenueLocation:   plan.Request.VenueLocation,
		Caterer:         plan.Request.Caterer,
		TotalCost:       plan.Request.TotalCost,
		Weather:         plan.Weather,
		WeatherError:    plan.WeatherError,
		Recommendations: plan.Recommendations,
		Milestones:      len(plan.Milestones),
		TasksTotal:      total,
		TasksCompleted:  completed,
		GeneratedAt:     plan.GeneratedAt,
	}

	data, err := json.Marshal(evt)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize plan: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(plan.SessionID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(plan.Request.EventType)},
			{Key: "generated_at", Value: []byte(plan.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
