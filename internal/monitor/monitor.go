// Package monitor runs the recurring site check: the background loop
// that re-probes every open mission and auto-closes the ones whose
// target has gone offline. One instance runs per process, started from
// main alongside the HTTP server; it shares the repositories with the
// request path and relies on the same conditional transitions, so the
// two never double-apply a completion.
package monitor

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/takedown-tracker/internal/service"
)

// Monitor periodically invokes the mission service's reconcile pass.
type Monitor struct {
	Missions *service.MissionService
	Interval time.Duration
}

func New(missions *service.MissionService, interval time.Duration) *Monitor {
	return &Monitor{Missions: missions, Interval: interval}
}

// Run blocks until ctx is cancelled, executing one reconcile cycle
// immediately and then one per tick. A failed cycle is logged and
// dropped; the next tick retries from scratch, so a transient store
// outage only delays convergence. A cycle has no deadline of its own;
// slow probes stretch the cycle, they never abort it.
func (m *Monitor) Run(ctx context.Context) {
	log.Printf("site monitor: checking open missions every %s", m.Interval)
	if err := m.Missions.ReconcileOpen(ctx); err != nil {
		log.Printf("site monitor: cycle aborted: %v", err)
	}
	ticker := time.NewTicker(m.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Printf("site monitor: stopped: %v", ctx.Err())
			return
		case <-ticker.C:
			if err := m.Missions.ReconcileOpen(ctx); err != nil {
				log.Printf("site monitor: cycle aborted: %v", err)
			}
		}
	}
}
