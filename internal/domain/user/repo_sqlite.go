package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/ivprep/ivprep/internal/platform/db"
)

type repoSQLite struct{ store *db.Store }

func NewRepoSQLite(store *db.Store) Repository {
	return &repoSQLite{store: store}
}

const userCols = `id, username, password_hash, COALESCE(display_name, ''), role,
	COALESCE(permissions, '[]'), is_active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var (
		u     User
		id    string
		perms string
	)
	err := row.Scan(&id, &u.Username, &u.PasswordHash, &u.DisplayName, &u.Role,
		&perms, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	u.Permissions = decodePermissions(perms)
	return &u, nil
}

func (r *repoSQLite) Create(ctx context.Context, u *User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	_, err := r.store.Conn(ctx).ExecContext(ctx, `
		INSERT INTO users (id, username, password_hash, display_name, role, permissions, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID.String(), u.Username, u.PasswordHash, u.DisplayName, u.Role,
		encodePermissions(u.Permissions), u.IsActive)
	return err
}

func (r *repoSQLite) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return scanUser(r.store.Conn(ctx).QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE id = ?`, id.String()))
}

func (r *repoSQLite) GetByUsername(ctx context.Context, username string) (*User, error) {
	return scanUser(r.store.Conn(ctx).QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE username = ?`, username))
}

func (r *repoSQLite) List(ctx context.Context) ([]*User, error) {
	rows, err := r.store.Conn(ctx).QueryContext(ctx,
		`SELECT `+userCols+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *repoSQLite) Update(ctx context.Context, u *User) error {
	res, err := r.store.Conn(ctx).ExecContext(ctx, `
		UPDATE users SET password_hash = ?, display_name = ?, role = ?,
			permissions = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		u.PasswordHash, u.DisplayName, u.Role,
		encodePermissions(u.Permissions), u.IsActive, u.ID.String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *repoSQLite) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	res, err := r.store.Conn(ctx).ExecContext(ctx, `
		UPDATE users SET is_active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		active, id.String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return db.ErrNotFound
	}
	return nil
}
