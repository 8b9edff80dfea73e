// Package queue defines the takedown audit events exchanged over the
// message broker, plus the publisher and the background consumer that
// turns them into an append-only audit log.
package queue

import "context"

// takedownQueueName is the durable queue completion events flow over.
const takedownQueueName = "mission.completed"

// MissionCompletedEvent is published whenever a mission completes,
// whether a user closed it or the background monitor did (Auto). It
// carries enough to log and analyze takedowns without querying the
// primary database.
type MissionCompletedEvent struct {
	MissionID        uint64 `json:"mission_id"`
	Title            string `json:"title"`
	TargetURL        string `json:"target_url"`
	Category         string `json:"category"`
	SiteStatus       int    `json:"site_status"`
	AssignedTo       uint64 `json:"assigned_to"`
	AssignedUsername string `json:"assigned_username"`
	Auto             bool   `json:"auto"`
	CompletedAt      string `json:"completed_at"`
}

// Publisher emits completion events. Implementations are best-effort:
// callers log and ignore failures, the mission state is already
// committed by the time an event is published.
type Publisher interface {
	PublishMissionCompleted(ctx context.Context, ev MissionCompletedEvent) error
}
