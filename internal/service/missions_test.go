package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/iliyamo/takedown-tracker/internal/model"
)

var (
	admin    = Actor{ID: 1, Role: model.RoleAdmin, Username: "cmd"}
	elite    = Actor{ID: 2, Role: model.RoleElite, Username: "hunter"}
	soldier  = Actor{ID: 3, Role: model.RoleSoldier, Username: "grunt"}
	external = Actor{ID: 4, Role: model.RoleExternal, Username: "tipster"}
)

func newMissionService() (*MissionService, *fakeMissionStore, *fakeUserStore, *fakeProbe, *fakeEvents) {
	missions := newFakeMissionStore()
	users := newFakeUserStore()
	probe := newFakeProbe()
	events := &fakeEvents{}
	svc := NewMissionService(missions, users, probe, events)
	svc.Now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc, missions, users, probe, events
}

func mustCreate(t *testing.T, svc *MissionService, actor Actor, url string) model.Mission {
	t.Helper()
	m, err := svc.Create(context.Background(), actor, MissionInput{
		Title: "take down " + url, TargetURL: url, Category: model.CategoryScam,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return m
}

func TestCreateSeedsProbeAndDefaults(t *testing.T) {
	svc, _, _, probe, _ := newMissionService()
	probe.set("http://scam.example", 404)

	m := mustCreate(t, svc, elite, "http://scam.example")
	if m.Status != model.StatusPending {
		t.Fatalf("status = %q, want pending", m.Status)
	}
	if m.SiteStatus != 404 {
		t.Fatalf("site_status = %d, want probed 404", m.SiteStatus)
	}
	if m.Priority != "medium" {
		t.Fatalf("priority = %q, want default medium", m.Priority)
	}
	if m.AssignedTo != nil {
		t.Fatalf("new mission must be unassigned")
	}
}

func TestCreateRequiresStaff(t *testing.T) {
	svc, _, _, _, _ := newMissionService()
	_, err := svc.Create(context.Background(), soldier, MissionInput{Title: "x", TargetURL: "http://x", Category: "scam"})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("soldier create err = %v, want ErrForbidden", err)
	}
	_, err = svc.Create(context.Background(), external, MissionInput{Title: "x", TargetURL: "http://x", Category: "scam"})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("external create err = %v, want ErrForbidden", err)
	}
}

func TestExternalCannotViewMissions(t *testing.T) {
	svc, _, _, _, _ := newMissionService()
	m := mustCreate(t, svc, admin, "http://x")

	if _, err := svc.Get(context.Background(), external, m.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("external Get err = %v, want ErrForbidden", err)
	}
	if _, err := svc.List(context.Background(), external, "", ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("external List err = %v, want ErrForbidden", err)
	}
}

func TestAcceptAssignsActor(t *testing.T) {
	svc, _, _, _, _ := newMissionService()
	m := mustCreate(t, svc, admin, "http://x")

	got, err := svc.Accept(context.Background(), soldier, m.ID)
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if got.Status != model.StatusInProgress {
		t.Fatalf("status = %q, want in_progress", got.Status)
	}
	if got.AssignedTo == nil || *got.AssignedTo != soldier.ID {
		t.Fatalf("assigned_to = %v, want %d", got.AssignedTo, soldier.ID)
	}
	if got.AssignedUsername == nil || *got.AssignedUsername != soldier.Username {
		t.Fatalf("assigned_username = %v, want %q", got.AssignedUsername, soldier.Username)
	}
}

func TestAcceptNotFoundAndInvalidState(t *testing.T) {
	svc, _, _, _, _ := newMissionService()
	if _, err := svc.Accept(context.Background(), soldier, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing mission err = %v, want ErrNotFound", err)
	}

	m := mustCreate(t, svc, admin, "http://x")
	if _, err := svc.Accept(context.Background(), soldier, m.ID); err != nil {
		t.Fatalf("first accept: %v", err)
	}
	if _, err := svc.Accept(context.Background(), elite, m.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("second accept err = %v, want ErrInvalidState", err)
	}
}

func TestConcurrentAcceptHasOneWinner(t *testing.T) {
	svc, _, _, _, _ := newMissionService()
	m := mustCreate(t, svc, admin, "http://x")

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			actor := Actor{ID: uint64(100 + i), Role: model.RoleSoldier, Username: "s"}
			_, errs[i] = svc.Accept(context.Background(), actor, m.ID)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, ErrInvalidState):
		default:
			t.Fatalf("unexpected accept error: %v", err)
		}
	}
	if winners != 1 {
		t.Fatalf("winners = %d, want exactly 1", winners)
	}
}

func TestCompleteRefusesWhileTargetOnline(t *testing.T) {
	svc, missions, users, probe, _ := newMissionService()
	probe.set("http://alive.example", 200)
	m := mustCreate(t, svc, admin, "http://alive.example")
	if _, err := svc.Accept(context.Background(), soldier, m.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	_, err := svc.Complete(context.Background(), soldier, m.ID)
	if !errors.Is(err, ErrTargetOnline) {
		t.Fatalf("complete err = %v, want ErrTargetOnline", err)
	}
	got, _ := missions.GetByID(context.Background(), m.ID)
	if got.Status != model.StatusInProgress {
		t.Fatalf("status = %q, refused completion must not change state", got.Status)
	}
	if mc, _, pts := users.total(soldier.ID); mc != 0 || pts != 0 {
		t.Fatalf("refused completion credited %d missions %d points", mc, pts)
	}
}

func TestCompleteCreditsAssignee(t *testing.T) {
	svc, _, users, probe, events := newMissionService()
	probe.set("http://dead.example", 0)
	m := mustCreate(t, svc, admin, "http://dead.example")
	if _, err := svc.Accept(context.Background(), soldier, m.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	done, err := svc.Complete(context.Background(), soldier, m.ID)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if done.Status != model.StatusCompleted {
		t.Fatalf("status = %q, want completed", done.Status)
	}
	if done.CompletedAt == nil {
		t.Fatalf("completed_at not set")
	}
	if mc, _, pts := users.total(soldier.ID); mc != 1 || pts != 100 {
		t.Fatalf("credit = %d missions / %d points, want 1 / 100", mc, pts)
	}
	evs := events.published()
	if len(evs) != 1 || evs[0].MissionID != m.ID || evs[0].Auto {
		t.Fatalf("events = %+v, want one manual completion event", evs)
	}
}

func TestAdminCompletesForAssignee(t *testing.T) {
	svc, _, users, probe, _ := newMissionService()
	probe.set("http://dead.example", 0)
	m := mustCreate(t, svc, admin, "http://dead.example")
	if _, err := svc.Accept(context.Background(), soldier, m.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	if _, err := svc.Complete(context.Background(), admin, m.ID); err != nil {
		t.Fatalf("admin complete: %v", err)
	}
	// The points go to whoever did the work, not to the caller.
	if mc, _, pts := users.total(soldier.ID); mc != 1 || pts != 100 {
		t.Fatalf("assignee credit = %d / %d, want 1 / 100", mc, pts)
	}
	if mc, _, pts := users.total(admin.ID); mc != 0 || pts != 0 {
		t.Fatalf("admin credited %d / %d, want nothing", mc, pts)
	}
}

func TestCompleteCreditsEvenWhenReloadFails(t *testing.T) {
	svc, missions, users, probe, events := newMissionService()
	probe.set("http://dead.example", 0)
	m := mustCreate(t, svc, admin, "http://dead.example")
	if _, err := svc.Accept(context.Background(), soldier, m.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	// Pre-read succeeds, the re-read after the committed transition
	// fails. The payout must still happen exactly once.
	missions.getCalls = 0
	missions.failGetByIDAfter = 1

	done, err := svc.Complete(context.Background(), soldier, m.ID)
	if err != nil {
		t.Fatalf("Complete must tolerate a failed reload, got %v", err)
	}
	if done.Status != model.StatusCompleted || done.CompletedAt == nil {
		t.Fatalf("returned mission = %+v, want a completed snapshot", done)
	}
	if mc, _, pts := users.total(soldier.ID); mc != 1 || pts != 100 {
		t.Fatalf("credit = %d missions / %d points, want 1 / 100", mc, pts)
	}
	if evs := events.published(); len(evs) != 1 {
		t.Fatalf("events = %d, want the completion event despite the reload failure", len(evs))
	}

	missions.failGetByIDAfter = 0
	got, _ := missions.GetByID(context.Background(), m.ID)
	if got.Status != model.StatusCompleted {
		t.Fatalf("stored status = %q, want completed", got.Status)
	}
}

func TestCompleteForbiddenForNonAssignee(t *testing.T) {
	svc, _, _, probe, _ := newMissionService()
	probe.set("http://dead.example", 0)
	m := mustCreate(t, svc, admin, "http://dead.example")
	if _, err := svc.Accept(context.Background(), soldier, m.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	if _, err := svc.Complete(context.Background(), elite, m.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-assignee complete err = %v, want ErrForbidden", err)
	}
}

func TestCompletePendingIsInvalidState(t *testing.T) {
	svc, _, _, probe, _ := newMissionService()
	probe.set("http://dead.example", 0)
	m := mustCreate(t, svc, admin, "http://dead.example")

	// Admin passes the ownership gate but the transition only moves
	// in_progress missions.
	if _, err := svc.Complete(context.Background(), admin, m.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("pending complete err = %v, want ErrInvalidState", err)
	}
}

func TestCompleteCreditsExactlyOnceUnderRace(t *testing.T) {
	svc, _, users, probe, _ := newMissionService()
	probe.set("http://dead.example", 0)
	m := mustCreate(t, svc, admin, "http://dead.example")
	if _, err := svc.Accept(context.Background(), soldier, m.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	const n = 8
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_, _ = svc.Complete(context.Background(), soldier, m.ID)
			} else {
				_ = svc.ReconcileOpen(context.Background())
			}
		}(i)
	}
	wg.Wait()

	if mc, _, pts := users.total(soldier.ID); mc != 1 || pts != 100 {
		t.Fatalf("credit = %d missions / %d points, want exactly 1 / 100", mc, pts)
	}
}

func TestDeleteRequiresCommandRole(t *testing.T) {
	svc, _, _, _, _ := newMissionService()
	m := mustCreate(t, svc, admin, "http://x")

	if err := svc.Delete(context.Background(), elite, m.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("elite delete err = %v, want ErrForbidden", err)
	}
	if err := svc.Delete(context.Background(), admin, m.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if err := svc.Delete(context.Background(), admin, m.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestDeleteKeepsEarnedCredit(t *testing.T) {
	svc, _, users, probe, _ := newMissionService()
	probe.set("http://dead.example", 0)
	m := mustCreate(t, svc, admin, "http://dead.example")
	if _, err := svc.Accept(context.Background(), soldier, m.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := svc.Complete(context.Background(), soldier, m.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := svc.Delete(context.Background(), admin, m.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if mc, _, pts := users.total(soldier.ID); mc != 1 || pts != 100 {
		t.Fatalf("credit after delete = %d / %d, want unchanged 1 / 100", mc, pts)
	}
}

func TestReconcileAutoCompletesDeadInProgress(t *testing.T) {
	svc, missions, users, probe, events := newMissionService()
	probe.set("http://gone.example", 404)
	m := mustCreate(t, svc, admin, "http://gone.example")
	if _, err := svc.Accept(context.Background(), soldier, m.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	if err := svc.ReconcileOpen(context.Background()); err != nil {
		t.Fatalf("ReconcileOpen: %v", err)
	}
	got, _ := missions.GetByID(context.Background(), m.ID)
	if got.Status != model.StatusCompleted {
		t.Fatalf("status = %q, want auto-completed", got.Status)
	}
	if got.SiteStatus != 404 {
		t.Fatalf("site_status = %d, want 404", got.SiteStatus)
	}
	if mc, _, pts := users.total(soldier.ID); mc != 1 || pts != 100 {
		t.Fatalf("credit = %d / %d, want 1 / 100", mc, pts)
	}
	evs := events.published()
	if len(evs) != 1 || !evs[0].Auto {
		t.Fatalf("events = %+v, want one auto completion event", evs)
	}
}

func TestReconcileLeavesDeadPendingPending(t *testing.T) {
	svc, missions, users, probe, _ := newMissionService()
	probe.set("http://gone.example", 0)
	m := mustCreate(t, svc, admin, "http://gone.example")

	if err := svc.ReconcileOpen(context.Background()); err != nil {
		t.Fatalf("ReconcileOpen: %v", err)
	}
	got, _ := missions.GetByID(context.Background(), m.ID)
	if got.Status != model.StatusPending {
		t.Fatalf("status = %q, a dead but unclaimed target must stay pending", got.Status)
	}
	if got.SiteStatus != 0 {
		t.Fatalf("site_status = %d, want refreshed 0", got.SiteStatus)
	}
	if users.calls != 0 {
		t.Fatalf("pending mission produced %d credit calls", users.calls)
	}
}

func TestReconcileRefreshesLiveSiteStatus(t *testing.T) {
	svc, missions, _, probe, _ := newMissionService()
	probe.set("http://alive.example", 200)
	m := mustCreate(t, svc, admin, "http://alive.example")
	if _, err := svc.Accept(context.Background(), soldier, m.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	probe.set("http://alive.example", 503)

	if err := svc.ReconcileOpen(context.Background()); err != nil {
		t.Fatalf("ReconcileOpen: %v", err)
	}
	got, _ := missions.GetByID(context.Background(), m.ID)
	if got.Status != model.StatusInProgress {
		t.Fatalf("status = %q, 503 is not dead, must stay in_progress", got.Status)
	}
	if got.SiteStatus != 503 {
		t.Fatalf("site_status = %d, want refreshed 503", got.SiteStatus)
	}
}

func TestReconcileContinuesPastPerMissionFailure(t *testing.T) {
	svc, missions, _, probe, _ := newMissionService()
	probe.set("http://one.example", 0)
	probe.set("http://two.example", 0)
	m1 := mustCreate(t, svc, admin, "http://one.example")
	m2 := mustCreate(t, svc, admin, "http://two.example")
	if _, err := svc.Accept(context.Background(), soldier, m1.ID); err != nil {
		t.Fatalf("accept m1: %v", err)
	}
	if _, err := svc.Accept(context.Background(), soldier, m2.ID); err != nil {
		t.Fatalf("accept m2: %v", err)
	}
	missions.failMarkCompleted = map[uint64]error{m1.ID: errors.New("store down")}

	if err := svc.ReconcileOpen(context.Background()); err != nil {
		t.Fatalf("ReconcileOpen must absorb per-mission failures, got %v", err)
	}
	got2, _ := missions.GetByID(context.Background(), m2.ID)
	if got2.Status != model.StatusCompleted {
		t.Fatalf("m2 status = %q, the scan must reach it despite m1 failing", got2.Status)
	}
}
