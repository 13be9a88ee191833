package patient

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

const patientCols = `id, hospital_id, name, dob, gender, weight, height,
	COALESCE(department, ''), COALESCE(notes, ''), entry_date, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPatient(row rowScanner) (*Patient, error) {
	var (
		p  Patient
		id string
	)
	err := row.Scan(&id, &p.HospitalID, &p.Name, &p.DOB, &p.Gender,
		&p.WeightKg, &p.HeightCm, &p.Department, &p.Notes, &p.EntryDate,
		&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repoSQLite) Create(ctx context.Context, p *Patient) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	_, err := r.store.Conn(ctx).ExecContext(ctx, `
		INSERT INTO patients (id, hospital_id, name, dob, gender, weight, height, department, notes, entry_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID.String(), p.HospitalID, p.Name, p.DOB, p.Gender,
		p.WeightKg, p.HeightCm, p.Department, p.Notes, p.EntryDate)
	return err
}

func (r *repoSQLite) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return scanPatient(r.store.Conn(ctx).QueryRowContext(ctx,
		`SELECT `+patientCols+` FROM patients WHERE id = ?`, id.String()))
}

func (r *repoSQLite) ListByEntryDate(ctx context.Context, entryDate string) ([]*Patient, error) {
	return r.list(ctx,
		`SELECT `+patientCols+` FROM patients WHERE entry_date = ? ORDER BY created_at DESC`,
		entryDate)
}

func (r *repoSQLite) ListAll(ctx context.Context) ([]*Patient, error) {
	return r.list(ctx,
		`SELECT `+patientCols+` FROM patients ORDER BY created_at DESC`)
}

func (r *repoSQLite) list(ctx context.Context, query string, args ...any) ([]*Patient, error) {
	rows, err := r.store.Conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var patients []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		patients = append(patients, p)
	}
	return patients, rows.Err()
}

func (r *repoSQLite) Update(ctx context.Context, p *Patient) error {
	res, err := r.store.Conn(ctx).ExecContext(ctx, `
		UPDATE patients SET hospital_id = ?, name = ?, dob = ?, gender = ?,
			weight = ?, height = ?, department = ?, notes = ?, entry_date = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		p.HospitalID, p.Name, p.DOB, p.Gender, p.WeightKg, p.HeightCm,
		p.Department, p.Notes, p.EntryDate, p.ID.String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *repoSQLite) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.store.Conn(ctx).ExecContext(ctx,
		`DELETE FROM patients WHERE id = ?`, id.String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return db.ErrNotFound
	}
	return nil
}
