package kafka

import "time"

// Events published BY the break gate service

type BreakShowRequestedEvent struct {
	RequestID   string    `json:"request_id"`
	RequestedAt time.Time `json:"requested_at"`
	Timestamp   time.Time `json:"timestamp"`
}

type CountdownStartedEvent struct {
	CycleID          string    `json:"cycle_id"`
	RemainingSeconds int       `json:"remaining_seconds"`
	Timestamp        time.Time `json:"timestamp"`
}

type CountdownTickEvent struct {
	CycleID          string    `json:"cycle_id"`
	RemainingSeconds int       `json:"remaining_seconds"`
	Timestamp        time.Time `json:"timestamp"`
}

type CountdownEndedEvent struct {
	CycleID   string    `json:"cycle_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Events consumed BY the break gate service (from the platform and zone services)

type BreakOpenedEvent struct {
	BreakID   string    `json:"break_id"`
	OpenedAt  time.Time `json:"opened_at"`
	Timestamp time.Time `json:"timestamp"`
}

type BreakClosedEvent struct {
	BreakID   string    `json:"break_id"`
	ClosedAt  time.Time `json:"closed_at"`
	Timestamp time.Time `json:"timestamp"`
}

type BreakRewardEvent struct {
	BreakID   string    `json:"break_id"`
	RewardID  string    `json:"reward_id"`
	GrantedAt time.Time `json:"granted_at"`
	Timestamp time.Time `json:"timestamp"`
}

type ZoneChangedEvent struct {
	Zone      string    `json:"zone"`
	ChangedAt time.Time `json:"changed_at"`
	Timestamp time.Time `json:"timestamp"`
}
