package auditlog

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/ivprep/ivprep/internal/platform/db"
)

type repoSQLite struct{ store *db.Store }

func NewRepoSQLite(store *db.Store) Repository {
	return &repoSQLite{store: store}
}

func (r *repoSQLite) Insert(ctx context.Context, e *Entry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	var userID any
	if e.UserID != nil {
		userID = e.UserID.String()
	}
	_, err := r.store.Conn(ctx).ExecContext(ctx, `
		INSERT INTO audit_logs (id, user_id, username, action, entity_type, entity_id, details)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID.String(), userID, e.Username, e.Action, e.EntityType, e.EntityID, e.Details)
	return err
}

func filterClause(f Filter) (string, []any) {
	clause := ` WHERE 1=1`
	var args []any

	if f.UserID != nil {
		clause += ` AND user_id = ?`
		args = append(args, f.UserID.String())
	}
	if f.Action != "" {
		clause += ` AND action = ?`
		args = append(args, f.Action)
	}
	if f.EntityType != "" {
		clause += ` AND entity_type = ?`
		args = append(args, f.EntityType)
	}
	if f.From != "" {
		clause += ` AND timestamp >= ?`
		args = append(args, f.From)
	}
	if f.To != "" {
		// Inclusive day bound; rows carry a time component.
		clause += ` AND timestamp < datetime(?, '+1 day')`
		args = append(args, f.To)
	}
	return clause, args
}

func (r *repoSQLite) Query(ctx context.Context, f Filter) ([]*Entry, error) {
	clause, args := filterClause(f)
	query := `SELECT id, user_id, COALESCE(username, ''), action, entity_type,
		COALESCE(entity_id, ''), COALESCE(details, ''), timestamp
		FROM audit_logs` + clause

	limit := f.Limit
	if limit <= 0 || limit > MaxListEntries {
		limit = MaxListEntries
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	query += ` ORDER BY timestamp DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.store.Conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var (
			e      Entry
			id     string
			userID sql.NullString
		)
		if err := rows.Scan(&id, &userID, &e.Username, &e.Action, &e.EntityType,
			&e.EntityID, &e.Details, &e.Timestamp); err != nil {
			return nil, err
		}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, err
		}
		if userID.Valid {
			u, err := uuid.Parse(userID.String)
			if err != nil {
				return nil, err
			}
			e.UserID = &u
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

func (r *repoSQLite) Count(ctx context.Context, f Filter) (int, error) {
	clause, args := filterClause(f)
	var n int
	err := r.store.Conn(ctx).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM audit_logs`+clause, args...).Scan(&n)
	return n, err
}
