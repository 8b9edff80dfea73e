package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/takedown-tracker/internal/model"
)

const reportColumns = `id,title,description,target_url,category,status,submitted_by,submitted_username,reviewed_by,created_at,reviewed_at,evidence`

// ReportRepo provides data access to the reports table. Review
// transitions are conditional on status='pending', so a report can be
// accepted or rejected at most once even under concurrent reviewers.
type ReportRepo struct{ DB *sql.DB }

func NewReportRepo(db *sql.DB) *ReportRepo { return &ReportRepo{DB: db} }

// Create inserts a new pending report and populates its ID.
func (r *ReportRepo) Create(ctx context.Context, rep *model.Report) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO reports (title, description, target_url, category, status, submitted_by, submitted_username, evidence)
         VALUES (?,?,?,?,?,?,?,?)`,
		rep.Title, rep.Description, rep.TargetURL, rep.Category, rep.Status,
		rep.SubmittedBy, rep.SubmittedUsername, rep.Evidence)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rep.ID = uint64(id)
	if rep.CreatedAt.IsZero() {
		rep.CreatedAt = time.Now().UTC()
	}
	return nil
}

func scanReport(scan func(dest ...interface{}) error) (model.Report, error) {
	var rep model.Report
	var reviewedBy sql.NullInt64
	var reviewedAt sql.NullTime
	var evidence sql.NullString
	err := scan(&rep.ID, &rep.Title, &rep.Description, &rep.TargetURL, &rep.Category,
		&rep.Status, &rep.SubmittedBy, &rep.SubmittedUsername, &reviewedBy,
		&rep.CreatedAt, &reviewedAt, &evidence)
	if err != nil {
		return rep, err
	}
	if reviewedBy.Valid {
		v := uint64(reviewedBy.Int64)
		rep.ReviewedBy = &v
	}
	if reviewedAt.Valid {
		t := reviewedAt.Time
		rep.ReviewedAt = &t
	}
	if evidence.Valid {
		e := evidence.String
		rep.Evidence = &e
	}
	return rep, nil
}

// GetByID fetches a report by id; sql.ErrNoRows when absent.
func (r *ReportRepo) GetByID(ctx context.Context, id uint64) (model.Report, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+reportColumns+" FROM reports WHERE id=? LIMIT 1", id)
	return scanReport(row.Scan)
}

// List returns reports newest first. A non-zero submittedBy restricts
// to that submitter (external users only ever see their own reports);
// status filters when non-empty.
func (r *ReportRepo) List(ctx context.Context, status string, submittedBy uint64) ([]model.Report, error) {
	q := "SELECT " + reportColumns + " FROM reports WHERE 1=1"
	args := make([]interface{}, 0, 2)
	if submittedBy != 0 {
		q += " AND submitted_by=?"
		args = append(args, submittedBy)
	}
	if status != "" {
		q += " AND status=?"
		args = append(args, status)
	}
	q += " ORDER BY created_at DESC"
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	reports := make([]model.Report, 0)
	for rows.Next() {
		rep, err := scanReport(rows.Scan)
		if err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reports, nil
}

// Accept closes a pending report and opens the converted mission in
// one transaction. Either both rows land or neither does: a report is
// never observably accepted without its mission. Returns false without
// inserting anything when the report was no longer pending.
func (r *ReportRepo) Accept(ctx context.Context, id, reviewerID uint64, at time.Time, m *model.Mission) (bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE reports SET status=?, reviewed_by=?, reviewed_at=?
         WHERE id=? AND status=?`,
		model.ReportAccepted, reviewerID, at.UTC(), id, model.ReportPending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	if err := createMission(ctx, tx, m); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

// Reject marks a pending report rejected. Returns false when the
// report was already reviewed (or absent).
func (r *ReportRepo) Reject(ctx context.Context, id, reviewerID uint64, at time.Time) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE reports SET status=?, reviewed_by=?, reviewed_at=?
         WHERE id=? AND status=?`,
		model.ReportRejected, reviewerID, at.UTC(), id, model.ReportPending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Counts returns total and pending report tallies.
func (r *ReportRepo) Counts(ctx context.Context) (total, pending int, err error) {
	err = r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(status=?),0) FROM reports",
		model.ReportPending).Scan(&total, &pending)
	return total, pending, err
}

// CategoryCounts returns the number of reports per category.
func (r *ReportRepo) CategoryCounts(ctx context.Context) (map[string]int, error) {
	return categoryCounts(ctx, r.DB, "reports")
}
