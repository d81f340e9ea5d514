package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafka "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/alexanderjulianmartinez/columnwatch/internal/suite"
	"github.com/alexanderjulianmartinez/columnwatch/pkg/types"
)

// messageWriter is the part of *kafka.Writer the sink uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OutcomeMessage is the value of each Kafka message: one outcome per message.
type OutcomeMessage struct {
	RunID   string             `json:"runId"`
	Table   string             `json:"table"`
	Check   string             `json:"check"`
	Kind    string             `json:"kind"`
	Column  string             `json:"column"`
	Outcome types.CheckOutcome `json:"outcome"`
}

type Kafka struct {
	topic  string
	writer messageWriter
	logger *zap.Logger
}

func NewKafka(brokers []string, topic string, logger *zap.Logger) *Kafka {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Kafka{
		topic: topic,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: 50 * time.Millisecond,
		},
		logger: logger,
	}
}

func (k *Kafka) Name() string { return "kafka" }

// Messages encodes the report, keyed by table/check so every outcome of a
// check lands on the same partition.
func Messages(report *suite.Report) ([]kafka.Message, error) {
	msgs := make([]kafka.Message, 0, len(report.Results))
	for _, r := range report.Results {
		value, err := json.Marshal(OutcomeMessage{
			RunID:   report.RunID,
			Table:   r.Table,
			Check:   r.Check,
			Kind:    r.Kind,
			Column:  r.Column,
			Outcome: r.Outcome,
		})
		if err != nil {
			return nil, fmt.Errorf("encode outcome %s/%s: %w", r.Table, r.Check, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(r.Table + "/" + r.Check),
			Value: value,
			Time:  r.Outcome.Timestamp,
			Headers: []kafka.Header{
				{Key: "status", Value: []byte(r.Outcome.Status)},
			},
		})
	}
	return msgs, nil
}

func (k *Kafka) Publish(ctx context.Context, report *suite.Report) error {
	msgs, err := Messages(report)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		return nil
	}
	if err := k.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish to kafka topic %s: %w", k.topic, err)
	}
	k.logger.Info("published outcomes", zap.String("topic", k.topic), zap.Int("messages", len(msgs)))
	return nil
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}
