package monitor

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/iliyamo/takedown-tracker/internal/model"
	"github.com/iliyamo/takedown-tracker/internal/service"
)

// stubStore counts reconcile scans; every other operation is inert.
type stubStore struct {
	scans chan struct{}
}

func (s *stubStore) Create(ctx context.Context, m *model.Mission) error { return nil }
func (s *stubStore) GetByID(ctx context.Context, id uint64) (model.Mission, error) {
	return model.Mission{}, sql.ErrNoRows
}
func (s *stubStore) List(ctx context.Context, status, category string) ([]model.Mission, error) {
	return nil, nil
}
func (s *stubStore) ListOpen(ctx context.Context) ([]model.Mission, error) {
	select {
	case s.scans <- struct{}{}:
	default:
	}
	return nil, nil
}
func (s *stubStore) MarkInProgress(ctx context.Context, id, userID uint64, username string) (bool, error) {
	return false, nil
}
func (s *stubStore) MarkCompleted(ctx context.Context, id uint64, siteStatus int, at time.Time) (bool, error) {
	return false, nil
}
func (s *stubStore) SetSiteStatus(ctx context.Context, id uint64, siteStatus int) error { return nil }
func (s *stubStore) Delete(ctx context.Context, id uint64) (bool, error)                { return false, nil }

type stubUsers struct{}

func (stubUsers) Credit(ctx context.Context, id uint64, missions, reports, points int) error {
	return nil
}

type stubProbe struct{}

func (stubProbe) Check(ctx context.Context, url string) int { return 0 }

func TestRunScansImmediatelyBeforeFirstTick(t *testing.T) {
	store := &stubStore{scans: make(chan struct{}, 1)}
	svc := service.NewMissionService(store, stubUsers{}, stubProbe{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		New(svc, time.Hour).Run(ctx)
		close(done)
	}()

	// With a one-hour interval the only way a scan arrives this fast
	// is the startup cycle.
	select {
	case <-store.scans:
	case <-time.After(2 * time.Second):
		t.Fatalf("no reconcile cycle ran at startup")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after context cancellation")
	}
}
