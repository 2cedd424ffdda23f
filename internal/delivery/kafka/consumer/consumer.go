package consumer

import (
	"context"
	"sync"

	"github.com/IBM/sarama"
	"github.com/playsafe-labs/breakgate/internal/delivery/kafka"
	"github.com/playsafe-labs/breakgate/internal/scheduler"
	"github.com/playsafe-labs/breakgate/pkg/logger"
)

// BreakEventHandler receives the platform and zone notifications the break
// gate subscribes to. Satisfied by *scheduler.Scheduler.
type BreakEventHandler interface {
	OnOpened(ctx context.Context)
	OnClosed(ctx context.Context)
	OnRewardGranted(ctx context.Context, rewardID string)
	OnZoneChanged(ctx context.Context, zone scheduler.ZoneID)
}

// NaturalTimerSink mirrors the platform's timer bookkeeping after a close.
// Satisfied by *platform.Adapter.
type NaturalTimerSink interface {
	MarkClosed()
}

type Consumer struct {
	consGr  sarama.ConsumerGroup
	handler BreakEventHandler
	timer   NaturalTimerSink
	l       logger.Logger
	wg      sync.WaitGroup
}

func NewConsumer(
	consGr sarama.ConsumerGroup,
	handler BreakEventHandler,
	timer NaturalTimerSink,
	l logger.Logger,
) *Consumer {
	return &Consumer{
		consGr:  consGr,
		handler: handler,
		timer:   timer,
		l:       l,
	}
}

func (c *Consumer) processMessage(ctx context.Context, msg *sarama.ConsumerMessage) error {
	switch msg.Topic {
	case kafka.TopicBreakOpened:
		return c.HandleBreakOpened(ctx, msg)
	case kafka.TopicBreakClosed:
		return c.HandleBreakClosed(ctx, msg)
	case kafka.TopicBreakReward:
		return c.HandleBreakReward(ctx, msg)
	case kafka.TopicZoneChanged:
		return c.HandleZoneChanged(ctx, msg)
	default:
		c.l.Warnf(ctx, "unknown topic: %s", msg.Topic)
		return nil
	}
}

func (c *Consumer) Start(ctx context.Context) error {
	topics := []string{
		kafka.TopicBreakOpened,
		kafka.TopicBreakClosed,
		kafka.TopicBreakReward,
		kafka.TopicZoneChanged,
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			if err := c.consGr.Consume(ctx, topics, c); err != nil {
				c.l.Errorf(ctx, "delivery.kafka.consumer.Start: %v", err)
			}

			if ctx.Err() != nil {
				c.l.Infof(ctx, "delivery.kafka.consumer.Start: %v", ctx.Err())
				return
			}
		}
	}()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for err := range c.consGr.Errors() {
			c.l.Errorf(ctx, "delivery.kafka.consumer.Start: %v", err)
		}
	}()

	c.l.Infof(ctx, "Consumer is consuming topics: %v", topics)
	return nil
}

func (c *Consumer) Close() error {
	if err := c.consGr.Close(); err != nil {
		return err
	}

	c.wg.Wait()
	return nil
}

func (c *Consumer) Setup(sarama.ConsumerGroupSession) error {
	c.l.Debug(context.Background(), "Consumer group session started")
	return nil
}

func (c *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	c.l.Debug(context.Background(), "Consumer group session ended")
	return nil
}

func (c *Consumer) ConsumeClaim(ss sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}

			if err := c.processMessage(ss.Context(), message); err != nil {
				c.l.Errorf(ss.Context(), "delivery.kafka.consumer.ConsumeClaim: %v", err)
				continue
			}

			ss.MarkMessage(message, "")

		case <-ss.Context().Done():
			return nil
		}
	}
}
