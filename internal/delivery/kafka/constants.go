package kafka

const (
	// Published by the break gate service.
	TopicBreakShow        = "break.show"
	TopicCountdownStarted = "countdown.started"
	TopicCountdownTick    = "countdown.tick"
	TopicCountdownEnded   = "countdown.ended"

	// Consumed from the platform and zone services.
	TopicBreakOpened = "break.opened"
	TopicBreakClosed = "break.closed"
	TopicBreakReward = "break.reward"
	TopicZoneChanged = "zone.changed"
)
