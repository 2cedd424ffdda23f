package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	kafka "github.com/playsafe-labs/breakgate/internal/delivery/kafka"
	"github.com/playsafe-labs/breakgate/pkg/logger"
)

type Producer interface {
	PublishBreakShow(ctx context.Context) error
	PublishCountdownStarted(ctx context.Context, event kafka.CountdownStartedEvent) error
	PublishCountdownTick(ctx context.Context, event kafka.CountdownTickEvent) error
	PublishCountdownEnded(ctx context.Context, event kafka.CountdownEndedEvent) error
	Close() error
}

type implProducer struct {
	l    logger.Logger
	prod sarama.SyncProducer
}

func NewProducer(prod sarama.SyncProducer, l logger.Logger) Producer {
	return &implProducer{
		l:    l,
		prod: prod,
	}
}

func (p *implProducer) PublishBreakShow(ctx context.Context) error {
	event := kafka.BreakShowRequestedEvent{
		RequestID:   uuid.New().String(),
		RequestedAt: time.Now(),
		Timestamp:   time.Now(),
	}
	return p.send(ctx, kafka.TopicBreakShow, event.RequestID, event)
}

func (p *implProducer) PublishCountdownStarted(ctx context.Context, event kafka.CountdownStartedEvent) error {
	event.Timestamp = time.Now()
	return p.send(ctx, kafka.TopicCountdownStarted, event.CycleID, event)
}

func (p *implProducer) PublishCountdownTick(ctx context.Context, event kafka.CountdownTickEvent) error {
	event.Timestamp = time.Now()
	return p.send(ctx, kafka.TopicCountdownTick, event.CycleID, event)
}

func (p *implProducer) PublishCountdownEnded(ctx context.Context, event kafka.CountdownEndedEvent) error {
	event.Timestamp = time.Now()
	return p.send(ctx, kafka.TopicCountdownEnded, event.CycleID, event)
}

// send marshals the event and publishes it keyed by cycle so consumers see
// one cycle's notifications in order.
func (p *implProducer) send(ctx context.Context, topic, key string, event any) error {
	val, err := json.Marshal(event)
	if err != nil {
		p.l.Errorf(ctx, "delivery.kafka.producer.send: %v", err)
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(val),
		Headers: []sarama.RecordHeader{
			{
				Key:   []byte("timestamp"),
				Value: []byte(time.Now().Format(time.RFC3339)),
			},
		},
	}

	_, _, err = p.prod.SendMessage(msg)
	return err
}

func (p *implProducer) Close() error {
	if err := p.prod.Close(); err != nil {
		return err
	}

	return nil
}
