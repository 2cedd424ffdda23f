package producer

import (
	"context"

	kafka "github.com/playsafe-labs/breakgate/internal/delivery/kafka"
	"github.com/playsafe-labs/breakgate/pkg/logger"
)

// CountdownNotifier publishes countdown lifecycle events for the external
// warning display. Publish failures are logged and swallowed: a missed
// display update must never stall the scheduler.
type CountdownNotifier struct {
	prod Producer
	l    logger.Logger
}

func NewCountdownNotifier(prod Producer, l logger.Logger) *CountdownNotifier {
	return &CountdownNotifier{
		prod: prod,
		l:    l,
	}
}

func (n *CountdownNotifier) CountdownStarted(ctx context.Context, cycleID string, remainingSeconds int) {
	if n.prod == nil {
		return
	}
	if err := n.prod.PublishCountdownStarted(ctx, kafka.CountdownStartedEvent{
		CycleID:          cycleID,
		RemainingSeconds: remainingSeconds,
	}); err != nil {
		n.l.Errorf(ctx, "delivery.kafka.producer.CountdownNotifier.CountdownStarted: %v", err)
	}
}

func (n *CountdownNotifier) CountdownTick(ctx context.Context, cycleID string, remainingSeconds int) {
	if n.prod == nil {
		return
	}
	if err := n.prod.PublishCountdownTick(ctx, kafka.CountdownTickEvent{
		CycleID:          cycleID,
		RemainingSeconds: remainingSeconds,
	}); err != nil {
		n.l.Errorf(ctx, "delivery.kafka.producer.CountdownNotifier.CountdownTick: %v", err)
	}
}

func (n *CountdownNotifier) CountdownEnded(ctx context.Context, cycleID string) {
	if n.prod == nil {
		return
	}
	if err := n.prod.PublishCountdownEnded(ctx, kafka.CountdownEndedEvent{
		CycleID: cycleID,
	}); err != nil {
		n.l.Errorf(ctx, "delivery.kafka.producer.CountdownNotifier.CountdownEnded: %v", err)
	}
}
