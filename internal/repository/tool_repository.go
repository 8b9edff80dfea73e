package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/takedown-tracker/internal/model"
)

const toolColumns = `id,name,description,category,url,file_path,file_name,is_file,created_by,created_at`

// ToolRepo provides data access to the tools table.
type ToolRepo struct{ DB *sql.DB }

func NewToolRepo(db *sql.DB) *ToolRepo { return &ToolRepo{DB: db} }

// Create inserts a tool and populates its ID.
func (r *ToolRepo) Create(ctx context.Context, t *model.Tool) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO tools (name, description, category, url, file_path, file_name, is_file, created_by)
         VALUES (?,?,?,?,?,?,?,?)`,
		t.Name, t.Description, t.Category, t.URL, t.FilePath, t.FileName, t.IsFile, t.CreatedBy)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	return nil
}

func scanTool(scan func(dest ...interface{}) error) (model.Tool, error) {
	var t model.Tool
	var url, filePath, fileName sql.NullString
	err := scan(&t.ID, &t.Name, &t.Description, &t.Category, &url, &filePath, &fileName,
		&t.IsFile, &t.CreatedBy, &t.CreatedAt)
	if err != nil {
		return t, err
	}
	if url.Valid {
		v := url.String
		t.URL = &v
	}
	if filePath.Valid {
		v := filePath.String
		t.FilePath = &v
	}
	if fileName.Valid {
		v := fileName.String
		t.FileName = &v
	}
	return t, nil
}

// GetByID fetches a tool by id; sql.ErrNoRows when absent.
func (r *ToolRepo) GetByID(ctx context.Context, id uint64) (model.Tool, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+toolColumns+" FROM tools WHERE id=? LIMIT 1", id)
	return scanTool(row.Scan)
}

// List returns tools, optionally filtered by category.
func (r *ToolRepo) List(ctx context.Context, category string) ([]model.Tool, error) {
	q := "SELECT " + toolColumns + " FROM tools"
	args := make([]interface{}, 0, 1)
	if category != "" {
		q += " WHERE category=?"
		args = append(args, category)
	}
	q += " ORDER BY created_at DESC"
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tools := make([]model.Tool, 0)
	for rows.Next() {
		t, err := scanTool(rows.Scan)
		if err != nil {
			return nil, err
		}
		tools = append(tools, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tools, nil
}

// Delete removes a tool row. Returns false when no row matched.
func (r *ToolRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM tools WHERE id=?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
