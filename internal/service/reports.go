package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/takedown-tracker/internal/model"
)

// reportStore is the slice of ReportRepo the service needs.
type reportStore interface {
	Create(ctx context.Context, rep *model.Report) error
	GetByID(ctx context.Context, id uint64) (model.Report, error)
	List(ctx context.Context, status string, submittedBy uint64) ([]model.Report, error)
	Accept(ctx context.Context, id, reviewerID uint64, at time.Time, m *model.Mission) (bool, error)
	Reject(ctx context.Context, id, reviewerID uint64, at time.Time) (bool, error)
}

// convertedTitlePrefix marks missions that originated as reports.
const convertedTitlePrefix = "[Report] "

// ReportService drives the report lifecycle: pending → accepted or
// rejected, both terminal. Acceptance is the one cross-entity
// transition in the system — it closes the report and opens the
// converted mission in a single repository transaction.
type ReportService struct {
	Reports reportStore
	Users   userStore
	Probe   prober
	Now     func() time.Time
}

func NewReportService(r reportStore, u userStore, p prober) *ReportService {
	return &ReportService{Reports: r, Users: u, Probe: p, Now: func() time.Time { return time.Now().UTC() }}
}

// ReportInput carries the caller-supplied fields of a new report.
type ReportInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	TargetURL   string  `json:"target_url"`
	Category    string  `json:"category"`
	Evidence    *string `json:"evidence,omitempty"`
}

// Submit files a new pending report. Any authenticated role may
// submit. The submitter is credited immediately and unconditionally —
// reports pay out at submission, not at acceptance.
func (s *ReportService) Submit(ctx context.Context, actor Actor, in ReportInput) (model.Report, error) {
	rep := model.Report{
		Title:             in.Title,
		Description:       in.Description,
		TargetURL:         in.TargetURL,
		Category:          in.Category,
		Status:            model.ReportPending,
		SubmittedBy:       actor.ID,
		SubmittedUsername: actor.Username,
		CreatedAt:         s.Now(),
		Evidence:          in.Evidence,
	}
	if err := s.Reports.Create(ctx, &rep); err != nil {
		return model.Report{}, err
	}
	if err := s.Users.Credit(ctx, actor.ID, 0, 1, reportPoints); err != nil {
		return model.Report{}, err
	}
	return rep, nil
}

// List returns reports newest first. External users see only their own
// submissions and ignore the status filter; members can filter by
// status across all reports.
func (s *ReportService) List(ctx context.Context, actor Actor, status string) ([]model.Report, error) {
	if actor.Role == model.RoleExternal {
		return s.Reports.List(ctx, "", actor.ID)
	}
	return s.Reports.List(ctx, status, 0)
}

// Accept closes a pending report and opens the converted mission:
// title prefixed to mark provenance, same target, category and
// evidence, pending and unassigned, seeded with a fresh probe. Staff
// roles only. The underlying transition is conditional on the report
// still being pending, and the report update and mission insert commit
// atomically.
func (s *ReportService) Accept(ctx context.Context, actor Actor, id uint64) (model.Mission, error) {
	if !actor.isStaff() {
		return model.Mission{}, ErrForbidden
	}
	rep, err := s.Reports.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Mission{}, ErrNotFound
	}
	if err != nil {
		return model.Mission{}, err
	}
	if rep.Status != model.ReportPending {
		return model.Mission{}, ErrInvalidState
	}

	m := model.Mission{
		Title:       convertedTitlePrefix + rep.Title,
		Description: rep.Description,
		TargetURL:   rep.TargetURL,
		Category:    rep.Category,
		Priority:    "medium",
		Status:      model.StatusPending,
		SiteStatus:  s.Probe.Check(ctx, rep.TargetURL),
		CreatedBy:   actor.ID,
		CreatedAt:   s.Now(),
		Evidence:    rep.Evidence,
	}
	ok, err := s.Reports.Accept(ctx, id, actor.ID, s.Now(), &m)
	if err != nil {
		return model.Mission{}, err
	}
	if !ok {
		return model.Mission{}, ErrInvalidState
	}
	return m, nil
}

// Reject closes a pending report with no mission and no scoring
// change. Staff roles only.
func (s *ReportService) Reject(ctx context.Context, actor Actor, id uint64) error {
	if !actor.isStaff() {
		return ErrForbidden
	}
	ok, err := s.Reports.Reject(ctx, id, actor.ID, s.Now())
	if err != nil {
		return err
	}
	if !ok {
		if _, err := s.Reports.GetByID(ctx, id); errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return ErrInvalidState
	}
	return nil
}
