package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/padmanaresh1986/fitness-app/internal/domain"
)

// KafkaPublisher writes summary events to a single topic, creating the writer
// on first use.
type KafkaPublisher struct {
	brokers []string
	topic   string

	mu     sync.Mutex
	writer *kafka.Writer
}

// NewKafkaPublisher creates a KafkaPublisher.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{brokers: brokers, topic: topic}
}

// PublishDailySummaries emits one DailySummaryRecorded event per summary row,
// keyed by user so a consumer sees each user's rollups in order.
func (p *KafkaPublisher) PublishDailySummaries(ctx context.Context, folderName string, summaries []domain.DailySummaryRow) error {
	msgs, err := buildMessages(folderName, summaries, time.Now().UTC())
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		return nil
	}

	if err := p.kafkaWriter().WriteMessages(ctx, msgs...); err != nil {
		recordPublishFailed(len(msgs))
		return err
	}
	recordPublished(len(msgs))
	return nil
}

func (p *KafkaPublisher) kafkaWriter() *kafka.Writer {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.writer == nil {
		p.writer = &kafka.Writer{
			Addr:         kafka.TCP(p.brokers...),
			Topic:        p.topic,
			RequiredAcks: kafka.RequireAll,
			Compression:  kafka.Snappy,
			Async:        false,
		}
	}
	return p.writer
}

// Close releases the underlying writer.
func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.writer == nil {
		return nil
	}
	err := p.writer.Close()
	p.writer = nil
	return err
}

func buildMessages(folderName string, summaries []domain.DailySummaryRow, now time.Time) ([]kafka.Message, error) {
	msgs := make([]kafka.Message, 0, len(summaries))
	for _, s := range summaries {
		payload := DailySummaryRecorded{
			EventID:                uuid.NewString(),
			FolderName:             folderName,
			UserID:                 s.UserID,
			TotalSteps:             s.TotalSteps,
			TotalCaloriesKcal:      s.TotalCaloriesKcal,
			TotalDistanceKm:        s.TotalDistanceKm,
			TotalActiveTimeMinutes: s.TotalActiveTimeMinutes,
			WorkoutTypes:           s.WorkoutTypes,
			TotalPoints:            s.TotalPoints,
			OccurredAt:             now,
		}
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, kafka.Message{Key: []byte(s.UserID), Value: encoded})
	}
	return msgs, nil
}

// NoopPublisher drops events; used when no brokers are configured.
type NoopPublisher struct{}

// PublishDailySummaries discards the summaries.
func (NoopPublisher) PublishDailySummaries(context.Context, string, []domain.DailySummaryRow) error {
	return nil
}

// Close is a no-op.
func (NoopPublisher) Close() error { return nil }
