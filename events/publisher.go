package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher returns nil when no brokers are configured; a nil Publisher is
// safe to publish to and does nothing.
func NewPublisher(brokers, topic string) *Publisher {
	if brokers == "" {
		return nil
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(strings.Split(brokers, ",")...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (p *Publisher) PublishBetSettled(ctx context.Context, e BetSettled) error {
	if p == nil {
		return nil
	}
	e.TsUnixMs = time.Now().UnixMilli()
	b, _ := json.Marshal(e)
	return p.writer.WriteMessages(ctx, kafka.Message{Value: b})
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
