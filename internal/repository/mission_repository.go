package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/takedown-tracker/internal/model"
)

const missionColumns = `id,title,description,target_url,category,priority,status,site_status,assigned_to,assigned_username,created_by,created_at,completed_at,evidence`

// MissionRepo provides data access to the missions table. The two
// lifecycle transitions (MarkInProgress, MarkCompleted) are
// compare-and-swap updates: each one names the status it expects to
// move away from, and reports via its boolean return whether this
// caller was the one that committed the transition. Racing callers —
// two users accepting the same mission, or a foreground completion
// racing the background monitor — therefore resolve entirely inside
// the database, with exactly one winner.
type MissionRepo struct{ DB *sql.DB }

func NewMissionRepo(db *sql.DB) *MissionRepo { return &MissionRepo{DB: db} }

// Create inserts a new mission and populates its ID and CreatedAt.
func (r *MissionRepo) Create(ctx context.Context, m *model.Mission) error {
	return createMission(ctx, r.DB, m)
}

// execer is satisfied by both *sql.DB and *sql.Tx so mission inserts
// can participate in the report-acceptance transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func createMission(ctx context.Context, db execer, m *model.Mission) error {
	res, err := db.ExecContext(ctx,
		`INSERT INTO missions (title, description, target_url, category, priority, status, site_status, created_by, evidence)
         VALUES (?,?,?,?,?,?,?,?,?)`,
		m.Title, m.Description, m.TargetURL, m.Category, m.Priority, m.Status, m.SiteStatus, m.CreatedBy, m.Evidence)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	return nil
}

func scanMission(scan func(dest ...interface{}) error) (model.Mission, error) {
	var m model.Mission
	var assignedTo sql.NullInt64
	var assignedName sql.NullString
	var completedAt sql.NullTime
	var evidence sql.NullString
	err := scan(&m.ID, &m.Title, &m.Description, &m.TargetURL, &m.Category, &m.Priority,
		&m.Status, &m.SiteStatus, &assignedTo, &assignedName, &m.CreatedBy, &m.CreatedAt,
		&completedAt, &evidence)
	if err != nil {
		return m, err
	}
	if assignedTo.Valid {
		v := uint64(assignedTo.Int64)
		m.AssignedTo = &v
	}
	if assignedName.Valid {
		v := assignedName.String
		m.AssignedUsername = &v
	}
	if completedAt.Valid {
		t := completedAt.Time
		m.CompletedAt = &t
	}
	if evidence.Valid {
		e := evidence.String
		m.Evidence = &e
	}
	return m, nil
}

// GetByID fetches a mission by id; sql.ErrNoRows when absent.
func (r *MissionRepo) GetByID(ctx context.Context, id uint64) (model.Mission, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+missionColumns+" FROM missions WHERE id=? LIMIT 1", id)
	return scanMission(row.Scan)
}

// List returns missions filtered by status and/or category (empty
// string means no filter), newest first.
func (r *MissionRepo) List(ctx context.Context, status, category string) ([]model.Mission, error) {
	q := "SELECT " + missionColumns + " FROM missions WHERE 1=1"
	args := make([]interface{}, 0, 2)
	if status != "" {
		q += " AND status=?"
		args = append(args, status)
	}
	if category != "" {
		q += " AND category=?"
		args = append(args, category)
	}
	q += " ORDER BY created_at DESC"
	return r.queryMissions(ctx, q, args...)
}

// ListOpen returns every mission the background monitor must re-probe:
// all pending and in_progress missions, oldest first so long-lived
// targets are rechecked before fresh ones.
func (r *MissionRepo) ListOpen(ctx context.Context) ([]model.Mission, error) {
	return r.queryMissions(ctx,
		"SELECT "+missionColumns+" FROM missions WHERE status IN (?,?) ORDER BY created_at ASC",
		model.StatusPending, model.StatusInProgress)
}

func (r *MissionRepo) queryMissions(ctx context.Context, q string, args ...interface{}) ([]model.Mission, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	missions := make([]model.Mission, 0)
	for rows.Next() {
		m, err := scanMission(rows.Scan)
		if err != nil {
			return nil, err
		}
		missions = append(missions, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return missions, nil
}

// MarkInProgress executes the pending → in_progress transition for one
// caller only. The WHERE clause carries the expected prior status, so
// of N concurrent accepts exactly one sees true; the rest keep the row
// untouched and see false.
func (r *MissionRepo) MarkInProgress(ctx context.Context, id, userID uint64, username string) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE missions SET status=?, assigned_to=?, assigned_username=?
         WHERE id=? AND status=?`,
		model.StatusInProgress, userID, username, id, model.StatusPending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// MarkCompleted executes the in_progress → completed transition,
// recording the final probe result and completion time. The status
// predicate makes completion idempotent: whichever of the foreground
// handler and the background monitor commits first gets true, and only
// that caller may apply the scoring side effect.
func (r *MissionRepo) MarkCompleted(ctx context.Context, id uint64, siteStatus int, at time.Time) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE missions SET status=?, site_status=?, completed_at=?
         WHERE id=? AND status=?`,
		model.StatusCompleted, siteStatus, at.UTC(), id, model.StatusInProgress)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// SetSiteStatus records the latest probe observation without touching
// the lifecycle state.
func (r *MissionRepo) SetSiteStatus(ctx context.Context, id uint64, siteStatus int) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE missions SET site_status=? WHERE id=?", siteStatus, id)
	return err
}

// Delete hard-deletes a mission. Returns false when no row matched.
func (r *MissionRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM missions WHERE id=?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// StatusCounts tallies missions per lifecycle state plus the number of
// targets last observed down (unreachable or 404).
type StatusCounts struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	SitesDown  int `json:"-"`
}

// Counts aggregates the dashboard numbers in a single scan.
func (r *MissionRepo) Counts(ctx context.Context) (StatusCounts, error) {
	var c StatusCounts
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*),
                COALESCE(SUM(status=?),0),
                COALESCE(SUM(status=?),0),
                COALESCE(SUM(status=?),0),
                COALESCE(SUM(site_status IN (0,404)),0)
         FROM missions`,
		model.StatusPending, model.StatusInProgress, model.StatusCompleted,
	).Scan(&c.Total, &c.Pending, &c.InProgress, &c.Completed, &c.SitesDown)
	return c, err
}

// CategoryCounts returns the number of missions per category.
func (r *MissionRepo) CategoryCounts(ctx context.Context) (map[string]int, error) {
	return categoryCounts(ctx, r.DB, "missions")
}

func categoryCounts(ctx context.Context, db *sql.DB, table string) (map[string]int, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT category, COUNT(*) FROM "+table+" GROUP BY category")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[string]int)
	for rows.Next() {
		var cat string
		var n int
		if err := rows.Scan(&cat, &n); err != nil {
			return nil, err
		}
		counts[cat] = n
	}
	return counts, rows.Err()
}
