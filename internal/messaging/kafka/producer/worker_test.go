package producer_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"workzen/internal/messaging/kafka"
	"workzen/internal/messaging/kafka/producer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeOutboxRepository struct {
	pending []kafka.OutboxEvent
	sent    []string
	failed  map[string]string
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	return nil
}
func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return f.pending, nil
}
func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error {
	f.sent = append(f.sent, id)
	return nil
}
func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	if f.failed == nil {
		f.failed = map[string]string{}
	}
	f.failed[id] = reason
	return nil
}

type fakeWriter struct {
	messages []kafkago.Message
	failOn   string
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		if string(m.Key) == w.failOn {
			return errors.New("broker unavailable")
		}
		w.messages = append(w.messages, m)
	}
	return nil
}

func TestRelayPending(t *testing.T) {
	repo := &fakeOutboxRepository{pending: []kafka.OutboxEvent{
		{ID: "1", AggregateID: "agg-1", Topic: "t", EventType: "payroll.marked_done", Payload: []byte("{}"), RequestID: "r-1"},
		{ID: "2", AggregateID: "agg-2", Topic: "t", EventType: "payroll.marked_done", Payload: []byte("{}")},
	}}
	writer := &fakeWriter{failOn: "agg-2"}

	sent, err := producer.RelayPending(context.Background(), repo, writer, zap.NewNop())

	assert.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, []string{"1"}, repo.sent)
	assert.Equal(t, "broker unavailable", repo.failed["2"])
	assert.Len(t, writer.messages, 1)
	assert.Equal(t, "agg-1", string(writer.messages[0].Key))
	assert.Len(t, writer.messages[0].Headers, 3)
}

func TestRelayPending_Empty(t *testing.T) {
	sent, err := producer.RelayPending(context.Background(), &fakeOutboxRepository{}, &fakeWriter{}, zap.NewNop())
	assert.NoError(t, err)
	assert.Zero(t, sent)
}
