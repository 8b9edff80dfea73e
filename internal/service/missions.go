package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/iliyamo/takedown-tracker/internal/model"
	"github.com/iliyamo/takedown-tracker/internal/queue"
)

// Scoring rules. Credits are applied as atomic SQL increments and only
// after a conditional transition committed, so each mission pays out
// at most once no matter how the foreground and background paths race.
const (
	missionPoints = 100
	reportPoints  = 10
)

// missionStore is the slice of MissionRepo the service needs.
type missionStore interface {
	Create(ctx context.Context, m *model.Mission) error
	GetByID(ctx context.Context, id uint64) (model.Mission, error)
	List(ctx context.Context, status, category string) ([]model.Mission, error)
	ListOpen(ctx context.Context) ([]model.Mission, error)
	MarkInProgress(ctx context.Context, id, userID uint64, username string) (bool, error)
	MarkCompleted(ctx context.Context, id uint64, siteStatus int, at time.Time) (bool, error)
	SetSiteStatus(ctx context.Context, id uint64, siteStatus int) error
	Delete(ctx context.Context, id uint64) (bool, error)
}

// userStore is the slice of UserRepo the services need: the scoring
// ledger only.
type userStore interface {
	Credit(ctx context.Context, id uint64, missions, reports, points int) error
}

// prober abstracts probe.Checker for tests.
type prober interface {
	Check(ctx context.Context, url string) int
}

// MissionService drives the mission state machine
// (pending → in_progress → completed). Both the HTTP handlers and the
// background monitor go through it, so there is exactly one completion
// path in the codebase.
type MissionService struct {
	Missions missionStore
	Users    userStore
	Probe    prober
	Events   queue.Publisher // best-effort audit events; may be nil
	Now      func() time.Time
}

func NewMissionService(m missionStore, u userStore, p prober, ev queue.Publisher) *MissionService {
	return &MissionService{Missions: m, Users: u, Probe: p, Events: ev, Now: func() time.Time { return time.Now().UTC() }}
}

// MissionInput carries the caller-supplied fields of a new mission.
type MissionInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	TargetURL   string  `json:"target_url"`
	Category    string  `json:"category"`
	Priority    string  `json:"priority"`
	Evidence    *string `json:"evidence,omitempty"`
}

// Create opens a new pending, unassigned mission. The target is probed
// synchronously so the board shows a liveness signal immediately.
// Requires a staff role.
func (s *MissionService) Create(ctx context.Context, actor Actor, in MissionInput) (model.Mission, error) {
	if !actor.isStaff() {
		return model.Mission{}, ErrForbidden
	}
	if in.Priority == "" {
		in.Priority = "medium"
	}
	m := model.Mission{
		Title:       in.Title,
		Description: in.Description,
		TargetURL:   in.TargetURL,
		Category:    in.Category,
		Priority:    in.Priority,
		Status:      model.StatusPending,
		SiteStatus:  s.Probe.Check(ctx, in.TargetURL),
		CreatedBy:   actor.ID,
		CreatedAt:   s.Now(),
		Evidence:    in.Evidence,
	}
	if err := s.Missions.Create(ctx, &m); err != nil {
		return model.Mission{}, err
	}
	return m, nil
}

// Get returns one mission. External users cannot view missions.
func (s *MissionService) Get(ctx context.Context, actor Actor, id uint64) (model.Mission, error) {
	if actor.Role == model.RoleExternal {
		return model.Mission{}, ErrForbidden
	}
	m, err := s.Missions.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Mission{}, ErrNotFound
	}
	return m, err
}

// List returns missions filtered by status/category, newest first.
// External users cannot view missions.
func (s *MissionService) List(ctx context.Context, actor Actor, status, category string) ([]model.Mission, error) {
	if actor.Role == model.RoleExternal {
		return nil, ErrForbidden
	}
	return s.Missions.List(ctx, status, category)
}

// Accept executes pending → in_progress and assigns the mission to the
// actor. The transition is a conditional update keyed on the pending
// status: with N concurrent accepts exactly one commits, the rest get
// ErrInvalidState.
func (s *MissionService) Accept(ctx context.Context, actor Actor, id uint64) (model.Mission, error) {
	if actor.Role == model.RoleExternal {
		return model.Mission{}, ErrForbidden
	}
	m, err := s.Missions.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Mission{}, ErrNotFound
	}
	if err != nil {
		return model.Mission{}, err
	}
	if m.Status != model.StatusPending {
		return model.Mission{}, ErrInvalidState
	}
	ok, err := s.Missions.MarkInProgress(ctx, id, actor.ID, actor.Username)
	if err != nil {
		return model.Mission{}, err
	}
	if !ok {
		// Lost the race: someone else accepted between read and update.
		return model.Mission{}, ErrInvalidState
	}
	return s.Missions.GetByID(ctx, id)
}

// Complete executes in_progress → completed. Only the assignee or an
// admin may call it. The target is re-probed first: a 200 refuses
// completion and leaves the mission untouched. On the committed
// transition — and only then — the assigned user is credited, so the
// scoring side effect fires exactly once per mission even when this
// path races the background monitor.
func (s *MissionService) Complete(ctx context.Context, actor Actor, id uint64) (model.Mission, error) {
	m, err := s.Missions.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Mission{}, ErrNotFound
	}
	if err != nil {
		return model.Mission{}, err
	}
	assignee := m.AssignedTo != nil && *m.AssignedTo == actor.ID
	if !assignee && actor.Role != model.RoleAdmin {
		return model.Mission{}, ErrForbidden
	}

	code := s.Probe.Check(ctx, m.TargetURL)
	if code == http.StatusOK {
		return model.Mission{}, ErrTargetOnline
	}

	at := s.Now()
	ok, err := s.Missions.MarkCompleted(ctx, id, code, at)
	if err != nil {
		return model.Mission{}, err
	}
	if !ok {
		return model.Mission{}, ErrInvalidState
	}

	// The transition is committed; credit from the mission we already
	// hold so a flaky re-read cannot swallow the payout.
	m.Status = model.StatusCompleted
	m.SiteStatus = code
	m.CompletedAt = &at
	s.credit(ctx, m, false)

	done, err := s.Missions.GetByID(ctx, id)
	if err != nil {
		log.Printf("reload mission %d after completion: %v", id, err)
		return m, nil
	}
	return done, nil
}

// Delete hard-deletes a mission, bypassing the state machine. Command
// roles only. Scoring already granted for the mission is not reversed.
func (s *MissionService) Delete(ctx context.Context, actor Actor, id uint64) error {
	if !actor.isCommand() {
		return ErrForbidden
	}
	ok, err := s.Missions.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// ReconcileOpen is one monitor cycle: re-probe every open mission,
// record the fresh site status, and auto-complete in_progress missions
// whose target has gone dark (unreachable or 404). Pending missions
// are left pending even when their target is dead; only their
// site_status is refreshed. A store failure on one mission is logged
// and the scan continues; only the initial listing aborts the cycle.
func (s *MissionService) ReconcileOpen(ctx context.Context) error {
	open, err := s.Missions.ListOpen(ctx)
	if err != nil {
		return err
	}
	for _, m := range open {
		code := s.Probe.Check(ctx, m.TargetURL)
		dead := code == probeDead || code == http.StatusNotFound
		if dead && m.Status == model.StatusInProgress {
			ok, err := s.Missions.MarkCompleted(ctx, m.ID, code, s.Now())
			if err != nil {
				log.Printf("monitor: complete mission %d: %v", m.ID, err)
				continue
			}
			if ok {
				m.SiteStatus = code
				s.credit(ctx, m, true)
			}
			// Not ok: a foreground complete won the race; its probe
			// result already landed, nothing left to do.
			continue
		}
		if err := s.Missions.SetSiteStatus(ctx, m.ID, code); err != nil {
			log.Printf("monitor: update site status for mission %d: %v", m.ID, err)
		}
	}
	return nil
}

const probeDead = 0

// credit pays the assigned user for a committed completion and emits
// the audit event. Both effects are best-effort once the transition
// has landed: a failed credit is logged loudly, never rolled back into
// the mission state.
func (s *MissionService) credit(ctx context.Context, m model.Mission, auto bool) {
	if m.AssignedTo == nil {
		// Unreachable while the accept transition is the only way into
		// in_progress; guarded anyway so a bad row cannot panic us.
		log.Printf("mission %d completed without assignee, no credit", m.ID)
		return
	}
	if err := s.Users.Credit(ctx, *m.AssignedTo, 1, 0, missionPoints); err != nil {
		log.Printf("credit user %d for mission %d: %v", *m.AssignedTo, m.ID, err)
	}
	if s.Events != nil {
		ev := queue.MissionCompletedEvent{
			MissionID:   m.ID,
			Title:       m.Title,
			TargetURL:   m.TargetURL,
			Category:    m.Category,
			SiteStatus:  m.SiteStatus,
			AssignedTo:  *m.AssignedTo,
			Auto:        auto,
			CompletedAt: s.Now().Format(time.RFC3339),
		}
		if m.AssignedUsername != nil {
			ev.AssignedUsername = *m.AssignedUsername
		}
		if err := s.Events.PublishMissionCompleted(ctx, ev); err != nil {
			log.Printf("publish completion event for mission %d: %v", m.ID, err)
		}
	}
}
