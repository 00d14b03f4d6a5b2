package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/segmentio/kafka-go"
)

// LifecycleEvent is an order or dispatch status change relayed from a
// session's live connection to downstream consumers.
type LifecycleEvent struct {
	ID         uuid.UUID       `json:"id"`
	Event      string          `json:"event"`
	Room       string          `json:"room"`
	PharmacyID string          `json:"pharmacy_id"`
	UserID     string          `json:"user_id"`
	Data       json.RawMessage `json:"data"`
	ReceivedAt time.Time       `json:"received_at"`
}

type Producer struct {
	l              *slog.Logger
	w              *kafka.Writer
	lifecycleTopic string
}

func NewProducer(l *slog.Logger, brokers []string, topic string) *Producer {
	l = l.WithGroup("kafka").With("topic", topic)

	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		Async:                  true,
		Logger:                 &infoLogger{l: l},
		ErrorLogger:            &errorLogger{l: l},
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		l:              l,
		w:              w,
		lifecycleTopic: topic,
	}
}

// PublishLifecycle keys messages by room so events of one order stay ordered.
func (p *Producer) PublishLifecycle(ctx context.Context, event LifecycleEvent) {
	if event.ID == uuid.Nil {
		event.ID = uuid.Must(uuid.NewV4())
	}

	b, err := json.Marshal(event)
	if err != nil {
		p.l.ErrorContext(ctx, fmt.Sprintf("marshal event: %s", err))
		return
	}

	err = p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Room),
		Value: b,
		Topic: p.lifecycleTopic,
	})
	if err != nil {
		p.l.ErrorContext(ctx, fmt.Sprintf("write kafka message: %s", err))
		return
	}
}

func (p *Producer) Close() {
	err := p.w.Close()
	if err != nil {
		p.l.Error(fmt.Sprintf("close kafka writer: %s", err))
	}
}

type infoLogger struct {
	l *slog.Logger
}

func (l *infoLogger) Printf(format string, v ...any) {
	l.l.Info(fmt.Sprintf(format, v...))
}

type errorLogger struct {
	l *slog.Logger
}

func (l *errorLogger) Printf(format string, v ...any) {
	l.l.Error(fmt.Sprintf(format, v...))
}
