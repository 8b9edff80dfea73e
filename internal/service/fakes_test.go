package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/iliyamo/takedown-tracker/internal/model"
	"github.com/iliyamo/takedown-tracker/internal/queue"
)

// In-memory stores with the same conditional-update semantics as the
// SQL repositories, so the services can be exercised without a
// database. All of them are safe for concurrent use.

type fakeMissionStore struct {
	mu       sync.Mutex
	nextID   uint64
	missions map[uint64]model.Mission

	failMarkCompleted map[uint64]error // per-id injected failures
	failSetSiteStatus map[uint64]error

	// When positive, GetByID fails once that many further calls have
	// succeeded. Lets a test break only the re-read of a transition.
	failGetByIDAfter int
	getCalls         int
}

func newFakeMissionStore() *fakeMissionStore {
	return &fakeMissionStore{missions: make(map[uint64]model.Mission)}
}

func (f *fakeMissionStore) Create(ctx context.Context, m *model.Mission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	m.ID = f.nextID
	f.missions[m.ID] = *m
	return nil
}

func (f *fakeMissionStore) GetByID(ctx context.Context, id uint64) (model.Mission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.failGetByIDAfter > 0 && f.getCalls > f.failGetByIDAfter {
		return model.Mission{}, errors.New("store unavailable")
	}
	m, ok := f.missions[id]
	if !ok {
		return model.Mission{}, sql.ErrNoRows
	}
	return m, nil
}

func (f *fakeMissionStore) List(ctx context.Context, status, category string) ([]model.Mission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Mission, 0, len(f.missions))
	for _, m := range f.missions {
		if status != "" && m.Status != status {
			continue
		}
		if category != "" && m.Category != category {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeMissionStore) ListOpen(ctx context.Context) ([]model.Mission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Mission, 0, len(f.missions))
	for _, m := range f.missions {
		if m.Status == model.StatusPending || m.Status == model.StatusInProgress {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMissionStore) MarkInProgress(ctx context.Context, id, userID uint64, username string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.missions[id]
	if !ok || m.Status != model.StatusPending {
		return false, nil
	}
	m.Status = model.StatusInProgress
	m.AssignedTo = &userID
	name := username
	m.AssignedUsername = &name
	f.missions[id] = m
	return true, nil
}

func (f *fakeMissionStore) MarkCompleted(ctx context.Context, id uint64, siteStatus int, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failMarkCompleted[id]; err != nil {
		return false, err
	}
	m, ok := f.missions[id]
	if !ok || m.Status != model.StatusInProgress {
		return false, nil
	}
	m.Status = model.StatusCompleted
	m.SiteStatus = siteStatus
	t := at
	m.CompletedAt = &t
	f.missions[id] = m
	return true, nil
}

func (f *fakeMissionStore) SetSiteStatus(ctx context.Context, id uint64, siteStatus int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failSetSiteStatus[id]; err != nil {
		return err
	}
	m, ok := f.missions[id]
	if !ok {
		return nil
	}
	m.SiteStatus = siteStatus
	f.missions[id] = m
	return nil
}

func (f *fakeMissionStore) Delete(ctx context.Context, id uint64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.missions[id]; !ok {
		return false, nil
	}
	delete(f.missions, id)
	return true, nil
}

// fakeUserStore records every credit applied per user.
type fakeUserStore struct {
	mu      sync.Mutex
	credits map[uint64][3]int // missions, reports, points (summed)
	calls   int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{credits: make(map[uint64][3]int)}
}

func (f *fakeUserStore) Credit(ctx context.Context, id uint64, missions, reports, points int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.credits[id]
	c[0] += missions
	c[1] += reports
	c[2] += points
	f.credits[id] = c
	f.calls++
	return nil
}

func (f *fakeUserStore) total(id uint64) (missions, reports, points int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.credits[id]
	return c[0], c[1], c[2]
}

// fakeProbe returns a fixed code per URL, defaulting to 200.
type fakeProbe struct {
	mu    sync.Mutex
	codes map[string]int
}

func newFakeProbe() *fakeProbe { return &fakeProbe{codes: make(map[string]int)} }

func (f *fakeProbe) set(url string, code int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.codes[url] = code
}

func (f *fakeProbe) Check(ctx context.Context, url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if code, ok := f.codes[url]; ok {
		return code
	}
	return 200
}

// fakeEvents collects published completion events.
type fakeEvents struct {
	mu     sync.Mutex
	events []queue.MissionCompletedEvent
}

func (f *fakeEvents) PublishMissionCompleted(ctx context.Context, ev queue.MissionCompletedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return nil
}

func (f *fakeEvents) published() []queue.MissionCompletedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]queue.MissionCompletedEvent, len(f.events))
	copy(out, f.events)
	return out
}

// fakeReportStore mirrors ReportRepo's conditional transitions,
// including the atomic accept that also creates the mission.
type fakeReportStore struct {
	mu       sync.Mutex
	nextID   uint64
	reports  map[uint64]model.Report
	missions *fakeMissionStore // accept target; may be nil
}

func newFakeReportStore(missions *fakeMissionStore) *fakeReportStore {
	return &fakeReportStore{reports: make(map[uint64]model.Report), missions: missions}
}

func (f *fakeReportStore) Create(ctx context.Context, rep *model.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	rep.ID = f.nextID
	f.reports[rep.ID] = *rep
	return nil
}

func (f *fakeReportStore) GetByID(ctx context.Context, id uint64) (model.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rep, ok := f.reports[id]
	if !ok {
		return model.Report{}, sql.ErrNoRows
	}
	return rep, nil
}

func (f *fakeReportStore) List(ctx context.Context, status string, submittedBy uint64) ([]model.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Report, 0, len(f.reports))
	for _, rep := range f.reports {
		if status != "" && rep.Status != status {
			continue
		}
		if submittedBy != 0 && rep.SubmittedBy != submittedBy {
			continue
		}
		out = append(out, rep)
	}
	return out, nil
}

func (f *fakeReportStore) Accept(ctx context.Context, id, reviewerID uint64, at time.Time, m *model.Mission) (bool, error) {
	f.mu.Lock()
	rep, ok := f.reports[id]
	if !ok || rep.Status != model.ReportPending {
		f.mu.Unlock()
		return false, nil
	}
	rep.Status = model.ReportAccepted
	rep.ReviewedBy = &reviewerID
	t := at
	rep.ReviewedAt = &t
	f.reports[id] = rep
	f.mu.Unlock()

	if f.missions == nil {
		return false, errors.New("no mission store wired")
	}
	return true, f.missions.Create(ctx, m)
}

func (f *fakeReportStore) Reject(ctx context.Context, id, reviewerID uint64, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rep, ok := f.reports[id]
	if !ok || rep.Status != model.ReportPending {
		return false, nil
	}
	rep.Status = model.ReportRejected
	rep.ReviewedBy = &reviewerID
	t := at
	rep.ReviewedAt = &t
	f.reports[id] = rep
	return true, nil
}
