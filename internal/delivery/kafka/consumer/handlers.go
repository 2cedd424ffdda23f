package consumer

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"github.com/playsafe-labs/breakgate/internal/delivery/kafka"
	"github.com/playsafe-labs/breakgate/internal/scheduler"
)

func (c *Consumer) HandleBreakOpened(ctx context.Context, message *sarama.ConsumerMessage) error {
	var e kafka.BreakOpenedEvent
	if err := json.Unmarshal(message.Value, &e); err != nil {
		c.l.Errorf(ctx, "delivery.kafka.consumer.HandleBreakOpened: %v", err)
		return err
	}

	c.l.Debugf(ctx, "break opened notification: break_id=%s", e.BreakID)
	c.handler.OnOpened(ctx)
	return nil
}

func (c *Consumer) HandleBreakClosed(ctx context.Context, message *sarama.ConsumerMessage) error {
	var e kafka.BreakClosedEvent
	if err := json.Unmarshal(message.Value, &e); err != nil {
		c.l.Errorf(ctx, "delivery.kafka.consumer.HandleBreakClosed: %v", err)
		return err
	}

	// Restart the local natural timer first so the scheduler's next poll sees
	// a full interval, then let the scheduler record the close.
	if c.timer != nil {
		c.timer.MarkClosed()
	}

	c.l.Debugf(ctx, "break closed notification: break_id=%s", e.BreakID)
	c.handler.OnClosed(ctx)
	return nil
}

func (c *Consumer) HandleBreakReward(ctx context.Context, message *sarama.ConsumerMessage) error {
	var e kafka.BreakRewardEvent
	if err := json.Unmarshal(message.Value, &e); err != nil {
		c.l.Errorf(ctx, "delivery.kafka.consumer.HandleBreakReward: %v", err)
		return err
	}

	c.handler.OnRewardGranted(ctx, e.RewardID)
	return nil
}

func (c *Consumer) HandleZoneChanged(ctx context.Context, message *sarama.ConsumerMessage) error {
	var e kafka.ZoneChangedEvent
	if err := json.Unmarshal(message.Value, &e); err != nil {
		c.l.Errorf(ctx, "delivery.kafka.consumer.HandleZoneChanged: %v", err)
		return err
	}

	c.handler.OnZoneChanged(ctx, scheduler.ZoneID(e.Zone))
	return nil
}
