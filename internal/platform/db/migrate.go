package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrator applies idempotent schema upgrades: base tables are created with
// IF NOT EXISTS, and columns added in later releases are guarded by a
// PRAGMA table_info lookup so re-running is always safe. Upgrades are never
// destructive; nothing is dropped.
type Migrator struct {
	store *Store
}

func NewMigrator(store *Store) *Migrator {
	return &Migrator{store: store}
}

// migration is one named upgrade step.
type migration struct {
	Name string
	Run  func(ctx context.Context, tx *sql.Tx) error
}

const baseSchema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	username TEXT UNIQUE NOT NULL,
	password_hash TEXT NOT NULL,
	display_name TEXT,
	role TEXT NOT NULL DEFAULT 'pharmacist' CHECK(role IN ('admin', 'pharmacist')),
	permissions TEXT NOT NULL DEFAULT '[]',
	is_active INTEGER NOT NULL DEFAULT 1,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS patients (
	id TEXT PRIMARY KEY,
	hospital_id TEXT NOT NULL,
	name TEXT NOT NULL,
	dob TEXT NOT NULL,
	gender TEXT NOT NULL,
	weight REAL,
	height REAL,
	department TEXT,
	notes TEXT,
	entry_date TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS drugs (
	id TEXT PRIMARY KEY,
	trade_name TEXT NOT NULL,
	generic_name TEXT NOT NULL,
	arabic_name TEXT,
	form TEXT NOT NULL CHECK(form IN ('Powder', 'Solution')),
	container TEXT NOT NULL CHECK(container IN ('Vial', 'Ampoule')),
	amount_mg REAL NOT NULL,
	amount_volume_ml REAL,
	concentration_mg_ml REAL,

	reconstitution_volume_ml REAL,
	reconstitution_concentration_mg_ml REAL,
	reconstitution_diluent_ns INTEGER DEFAULT 0,
	reconstitution_diluent_d5w INTEGER DEFAULT 0,
	reconstitution_diluent_swi INTEGER DEFAULT 0,
	reconstitution_stability_room_hours REAL,
	reconstitution_stability_refrigeration_days REAL,

	initial_dilution_volume_ml REAL,
	initial_dilution_concentration_mg_ml REAL,

	fd_each_ml_up_to REAL,
	fd_concentration_mg_ml REAL,
	fdfr_each_ml_up_to REAL,
	fdfr_concentration_mg_ml REAL,
	fd_diluent_ns INTEGER DEFAULT 0,
	fd_diluent_d5w INTEGER DEFAULT 0,
	fd_stability_room_hours REAL,
	fd_stability_refrigeration_days REAL,

	infusion_time_min INTEGER,

	is_photosensitive INTEGER DEFAULT 0,
	is_biohazard INTEGER DEFAULT 0,

	min_dose_mg_kg_dose REAL,
	max_dose_mg_kg_dose REAL,
	max_dose_mg_dose REAL,
	max_dose_mg_day REAL,
	obese_patient_dosage_adjustment TEXT,

	instructions_text TEXT,
	target_volume_ml REAL,

	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS preparations (
	id TEXT PRIMARY KEY,
	patient_id TEXT NOT NULL,
	date TEXT NOT NULL,
	drug_id TEXT,
	drug_name TEXT NOT NULL,
	data_json TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'pending' CHECK(status IN ('pending', 'completed')),
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY(patient_id) REFERENCES patients(id)
);

CREATE TABLE IF NOT EXISTS audit_logs (
	id TEXT PRIMARY KEY,
	user_id TEXT,
	username TEXT,
	action TEXT NOT NULL,
	entity_type TEXT NOT NULL,
	entity_id TEXT,
	details TEXT,
	timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_patients_entry_date ON patients(entry_date);
CREATE INDEX IF NOT EXISTS idx_preparations_patient ON preparations(patient_id);
CREATE INDEX IF NOT EXISTS idx_drugs_trade_name ON drugs(trade_name);
CREATE INDEX IF NOT EXISTS idx_audit_logs_timestamp ON audit_logs(timestamp);
`

func (m *Migrator) migrations() []migration {
	return []migration{
		{Name: "base schema", Run: func(ctx context.Context, tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, baseSchema)
			return err
		}},
		// Column guards for databases created by earlier releases. Each is a
		// no-op when the column already exists.
		{Name: "patients.updated_at", Run: addColumn("patients", "updated_at", "DATETIME")},
		{Name: "users.permissions", Run: addColumn("users", "permissions", "TEXT NOT NULL DEFAULT '[]'")},
		{Name: "users.display_name", Run: addColumn("users", "display_name", "TEXT")},
		{Name: "users.is_active", Run: addColumn("users", "is_active", "INTEGER NOT NULL DEFAULT 1")},
	}
}

func addColumn(table, column, decl string) func(ctx context.Context, tx *sql.Tx) error {
	return func(ctx context.Context, tx *sql.Tx) error {
		exists, err := hasColumn(ctx, tx, table, column)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
		_, err = tx.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, decl))
		return err
	}
}

func hasColumn(ctx context.Context, tx *sql.Tx, table, column string) (bool, error) {
	rows, err := tx.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, fmt.Errorf("table_info %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return false, fmt.Errorf("scan table_info %s: %w", table, err)
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

// Up applies every upgrade step in order, each in its own transaction.
// Returns the count of steps executed.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	count := 0
	for _, mig := range m.migrations() {
		tx, err := m.store.db.BeginTx(ctx, nil)
		if err != nil {
			return count, fmt.Errorf("begin transaction: %w", err)
		}
		if err := mig.Run(ctx, tx); err != nil {
			tx.Rollback()
			return count, fmt.Errorf("apply %s: %w", mig.Name, err)
		}
		if err := tx.Commit(); err != nil {
			return count, fmt.Errorf("commit %s: %w", mig.Name, err)
		}
		count++
	}
	return count, nil
}

// Status lists upgrade step names in order. All steps are idempotent, so
// there is no applied/pending distinction to report.
func (m *Migrator) Status() []string {
	migs := m.migrations()
	names := make([]string, 0, len(migs))
	for _, mig := range migs {
		names = append(names, mig.Name)
	}
	return names
}
