package preparation

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

const prepCols = `id, patient_id, date, drug_id, drug_name, data_json, status, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPreparation(row rowScanner) (*Preparation, error) {
	var (
		p       Preparation
		id      string
		patient string
		drugID  sql.NullString
		payload string
	)
	err := row.Scan(&id, &patient, &p.Date, &drugID, &p.DrugName, &payload, &p.Status, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if p.ID, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if p.PatientID, err = uuid.Parse(patient); err != nil {
		return nil, err
	}
	if drugID.Valid {
		d, err := uuid.Parse(drugID.String)
		if err != nil {
			return nil, err
		}
		p.DrugID = &d
	}
	if p.Payload, err = decodePayload(payload); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repoSQLite) Create(ctx context.Context, p *Preparation) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	payload, err := encodePayload(p.Payload)
	if err != nil {
		return err
	}
	var drugID any
	if p.DrugID != nil {
		drugID = p.DrugID.String()
	}
	_, err = r.store.Conn(ctx).ExecContext(ctx, `
		INSERT INTO preparations (id, patient_id, date, drug_id, drug_name, data_json, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID.String(), p.PatientID.String(), p.Date, drugID, p.DrugName, payload, p.Status)
	return err
}

func (r *repoSQLite) GetByID(ctx context.Context, id uuid.UUID) (*Preparation, error) {
	return scanPreparation(r.store.Conn(ctx).QueryRowContext(ctx,
		`SELECT `+prepCols+` FROM preparations WHERE id = ?`, id.String()))
}

func (r *repoSQLite) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Preparation, error) {
	rows, err := r.store.Conn(ctx).QueryContext(ctx,
		`SELECT `+prepCols+` FROM preparations WHERE patient_id = ?`, patientID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var preps []*Preparation
	for rows.Next() {
		p, err := scanPreparation(rows)
		if err != nil {
			return nil, err
		}
		preps = append(preps, p)
	}
	return preps, rows.Err()
}

func (r *repoSQLite) Update(ctx context.Context, p *Preparation) error {
	payload, err := encodePayload(p.Payload)
	if err != nil {
		return err
	}
	res, err := r.store.Conn(ctx).ExecContext(ctx, `
		UPDATE preparations SET data_json = ?, status = ? WHERE id = ?`,
		payload, p.Status, p.ID.String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *repoSQLite) DeleteByPatient(ctx context.Context, patientID uuid.UUID) error {
	_, err := r.store.Conn(ctx).ExecContext(ctx,
		`DELETE FROM preparations WHERE patient_id = ?`, patientID.String())
	return err
}
