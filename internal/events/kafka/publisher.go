// Package kafka publishes committed ledger operations to a Kafka topic so
// downstream consumers (notifications, reporting) can react to them.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/sidbank/ledger-core/internal/bank"
)

// Publisher writes operation-recorded events keyed by account id, so all
// events of one account land on one partition in order.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher constructs a publisher for the given brokers and topic.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

type operationEvent struct {
	OperationID string    `json:"operation_id"`
	AccountID   string    `json:"account_id"`
	Type        string    `json:"type"`
	AmountMinor int64     `json:"amount_minor"`
	Currency    string    `json:"currency"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
}

// OperationRecorded implements the ledger engine's Publisher interface.
func (p *Publisher) OperationRecorded(ctx context.Context, op bank.Operation) error {
	minor, _ := op.Amount.MinorUnits()
	data, err := json.Marshal(operationEvent{
		OperationID: op.ID.String(),
		AccountID:   op.AccountID,
		Type:        string(op.Type),
		AmountMinor: minor,
		Currency:    op.Amount.Curr().Code(),
		Description: op.Description,
		Date:        op.Date,
	})
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(op.AccountID),
		Value: data,
	})
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error { return p.writer.Close() }
