package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/takedown-tracker/internal/model"
)

const userColumns = `id,email,username,password_hash,role,missions_completed,reports_submitted,rank_points,created_at,updated_at`

// UserRepo provides data access to the users table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user and returns its ID. Emails are normalized to
// lower case; uniqueness violations are mapped onto the sentinel
// errors so handlers can answer 409 without string matching.
func (r *UserRepo) Create(ctx context.Context, email, username, passwordHash, role string) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, username, password_hash, role) VALUES (?,?,?,?)",
		email, username, passwordHash, role)
	if err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "1062") {
			if strings.Contains(msg, "uq_users_username") {
				return 0, ErrUsernameExists
			}
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Role,
		&u.MissionsCompleted, &u.ReportsSubmitted, &u.RankPoints, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// List returns all users, newest first.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	return r.queryUsers(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at DESC")
}

// Ranking returns the top members ordered by rank points. External
// users never appear on the scoreboard.
func (r *UserRepo) Ranking(ctx context.Context, limit int) ([]model.User, error) {
	return r.queryUsers(ctx,
		"SELECT "+userColumns+" FROM users WHERE role <> ? ORDER BY rank_points DESC LIMIT ?",
		model.RoleExternal, limit)
}

func (r *UserRepo) queryUsers(ctx context.Context, q string, args ...interface{}) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Role,
			&u.MissionsCompleted, &u.ReportsSubmitted, &u.RankPoints, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateProfile changes username and/or role. Empty strings leave the
// corresponding column untouched. Returns false when the user does not
// exist.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, username, role string) (bool, error) {
	sets := make([]string, 0, 2)
	args := make([]interface{}, 0, 3)
	if username != "" {
		sets = append(sets, "username=?")
		args = append(args, username)
	}
	if role != "" {
		sets = append(sets, "role=?")
		args = append(args, role)
	}
	if len(sets) == 0 {
		return false, nil
	}
	args = append(args, id)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(sets, ",")+" WHERE id=?", args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Delete removes a user. Returns false when no row matched.
func (r *UserRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Credit applies scoring increments atomically in the database. It is
// the only mutation path for the three counters, so concurrent credits
// from distinct missions never lose updates.
func (r *UserRepo) Credit(ctx context.Context, id uint64, missions, reports, points int) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE users SET missions_completed = missions_completed + ?,
                reports_submitted = reports_submitted + ?,
                rank_points = rank_points + ?
         WHERE id=?`,
		missions, reports, points, id)
	return err
}

// Counts returns the total number of users and how many are active
// members (any role other than external).
func (r *UserRepo) Counts(ctx context.Context) (total, members int, err error) {
	err = r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(role <> ?),0) FROM users",
		model.RoleExternal).Scan(&total, &members)
	return total, members, err
}
