package drug

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

const drugCols = `id, trade_name, generic_name, COALESCE(arabic_name, ''), form, container,
	amount_mg, amount_volume_ml, concentration_mg_ml,
	reconstitution_volume_ml, reconstitution_concentration_mg_ml,
	reconstitution_diluent_ns, reconstitution_diluent_d5w, reconstitution_diluent_swi,
	reconstitution_stability_room_hours, reconstitution_stability_refrigeration_days,
	initial_dilution_volume_ml, initial_dilution_concentration_mg_ml,
	fd_each_ml_up_to, fd_concentration_mg_ml, fdfr_each_ml_up_to, fdfr_concentration_mg_ml,
	fd_diluent_ns, fd_diluent_d5w, fd_stability_room_hours, fd_stability_refrigeration_days,
	infusion_time_min, is_photosensitive, is_biohazard,
	min_dose_mg_kg_dose, max_dose_mg_kg_dose, max_dose_mg_dose, max_dose_mg_day,
	COALESCE(obese_patient_dosage_adjustment, ''), COALESCE(instructions_text, ''),
	target_volume_ml, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDrug(row rowScanner) (*Drug, error) {
	var (
		d  Drug
		id string
	)
	err := row.Scan(&id, &d.TradeName, &d.GenericName, &d.ArabicName, &d.Form, &d.Container,
		&d.AmountMg, &d.AmountVolumeMl, &d.ConcentrationMgMl,
		&d.ReconVolumeMl, &d.ReconConcentrationMgMl,
		&d.ReconDiluentNS, &d.ReconDiluentD5W, &d.ReconDiluentSWI,
		&d.ReconStabilityRoomHours, &d.ReconStabilityFridgeDays,
		&d.InitialDilutionVolumeMl, &d.InitialDilutionConcentrationMgMl,
		&d.FDEachMlUpTo, &d.FDConcentrationMgMl, &d.FDFREachMlUpTo, &d.FDFRConcentrationMgMl,
		&d.FDDiluentNS, &d.FDDiluentD5W, &d.FDStabilityRoomHours, &d.FDStabilityFridgeDays,
		&d.InfusionTimeMin, &d.IsPhotosensitive, &d.IsBiohazard,
		&d.MinDoseMgKgDose, &d.MaxDoseMgKgDose, &d.MaxDoseMgDose, &d.MaxDoseMgDay,
		&d.ObeseDosageAdjustment, &d.InstructionsText,
		&d.TargetVolumeMl, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	d.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repoSQLite) Create(ctx context.Context, d *Drug) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	_, err := r.store.Conn(ctx).ExecContext(ctx, `
		INSERT INTO drugs (
			id, trade_name, generic_name, arabic_name, form, container,
			amount_mg, amount_volume_ml, concentration_mg_ml,
			reconstitution_volume_ml, reconstitution_concentration_mg_ml,
			reconstitution_diluent_ns, reconstitution_diluent_d5w, reconstitution_diluent_swi,
			reconstitution_stability_room_hours, reconstitution_stability_refrigeration_days,
			initial_dilution_volume_ml, initial_dilution_concentration_mg_ml,
			fd_each_ml_up_to, fd_concentration_mg_ml, fdfr_each_ml_up_to, fdfr_concentration_mg_ml,
			fd_diluent_ns, fd_diluent_d5w, fd_stability_room_hours, fd_stability_refrigeration_days,
			infusion_time_min, is_photosensitive, is_biohazard,
			min_dose_mg_kg_dose, max_dose_mg_kg_dose, max_dose_mg_dose, max_dose_mg_day,
			obese_patient_dosage_adjustment, instructions_text, target_volume_ml
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID.String(), d.TradeName, d.GenericName, d.ArabicName, d.Form, d.Container,
		d.AmountMg, d.AmountVolumeMl, d.ConcentrationMgMl,
		d.ReconVolumeMl, d.ReconConcentrationMgMl,
		d.ReconDiluentNS, d.ReconDiluentD5W, d.ReconDiluentSWI,
		d.ReconStabilityRoomHours, d.ReconStabilityFridgeDays,
		d.InitialDilutionVolumeMl, d.InitialDilutionConcentrationMgMl,
		d.FDEachMlUpTo, d.FDConcentrationMgMl, d.FDFREachMlUpTo, d.FDFRConcentrationMgMl,
		d.FDDiluentNS, d.FDDiluentD5W, d.FDStabilityRoomHours, d.FDStabilityFridgeDays,
		d.InfusionTimeMin, d.IsPhotosensitive, d.IsBiohazard,
		d.MinDoseMgKgDose, d.MaxDoseMgKgDose, d.MaxDoseMgDose, d.MaxDoseMgDay,
		d.ObeseDosageAdjustment, d.InstructionsText, d.TargetVolumeMl)
	return err
}

func (r *repoSQLite) GetByID(ctx context.Context, id uuid.UUID) (*Drug, error) {
	return scanDrug(r.store.Conn(ctx).QueryRowContext(ctx,
		`SELECT `+drugCols+` FROM drugs WHERE id = ?`, id.String()))
}

func (r *repoSQLite) List(ctx context.Context, search string) ([]*Drug, error) {
	query := `SELECT ` + drugCols + ` FROM drugs`
	var args []any
	if search != "" {
		query += ` WHERE trade_name LIKE ? COLLATE NOCASE
			OR generic_name LIKE ? COLLATE NOCASE
			OR arabic_name LIKE ? COLLATE NOCASE`
		pat := "%" + search + "%"
		args = append(args, pat, pat, pat)
	}
	query += ` ORDER BY trade_name ASC`

	rows, err := r.store.Conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drugs []*Drug
	for rows.Next() {
		d, err := scanDrug(rows)
		if err != nil {
			return nil, err
		}
		drugs = append(drugs, d)
	}
	return drugs, rows.Err()
}

func (r *repoSQLite) Update(ctx context.Context, d *Drug) error {
	res, err := r.store.Conn(ctx).ExecContext(ctx, `
		UPDATE drugs SET
			trade_name = ?, generic_name = ?, arabic_name = ?, form = ?, container = ?,
			amount_mg = ?, amount_volume_ml = ?, concentration_mg_ml = ?,
			reconstitution_volume_ml = ?, reconstitution_concentration_mg_ml = ?,
			reconstitution_diluent_ns = ?, reconstitution_diluent_d5w = ?, reconstitution_diluent_swi = ?,
			reconstitution_stability_room_hours = ?, reconstitution_stability_refrigeration_days = ?,
			initial_dilution_volume_ml = ?, initial_dilution_concentration_mg_ml = ?,
			fd_each_ml_up_to = ?, fd_concentration_mg_ml = ?, fdfr_each_ml_up_to = ?, fdfr_concentration_mg_ml = ?,
			fd_diluent_ns = ?, fd_diluent_d5w = ?, fd_stability_room_hours = ?, fd_stability_refrigeration_days = ?,
			infusion_time_min = ?, is_photosensitive = ?, is_biohazard = ?,
			min_dose_mg_kg_dose = ?, max_dose_mg_kg_dose = ?, max_dose_mg_dose = ?, max_dose_mg_day = ?,
			obese_patient_dosage_adjustment = ?, instructions_text = ?, target_volume_ml = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		d.TradeName, d.GenericName, d.ArabicName, d.Form, d.Container,
		d.AmountMg, d.AmountVolumeMl, d.ConcentrationMgMl,
		d.ReconVolumeMl, d.ReconConcentrationMgMl,
		d.ReconDiluentNS, d.ReconDiluentD5W, d.ReconDiluentSWI,
		d.ReconStabilityRoomHours, d.ReconStabilityFridgeDays,
		d.InitialDilutionVolumeMl, d.InitialDilutionConcentrationMgMl,
		d.FDEachMlUpTo, d.FDConcentrationMgMl, d.FDFREachMlUpTo, d.FDFRConcentrationMgMl,
		d.FDDiluentNS, d.FDDiluentD5W, d.FDStabilityRoomHours, d.FDStabilityFridgeDays,
		d.InfusionTimeMin, d.IsPhotosensitive, d.IsBiohazard,
		d.MinDoseMgKgDose, d.MaxDoseMgKgDose, d.MaxDoseMgDose, d.MaxDoseMgDay,
		d.ObeseDosageAdjustment, d.InstructionsText, d.TargetVolumeMl,
		d.ID.String())
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
		`DELETE FROM drugs WHERE id = ?`, id.String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *repoSQLite) Count(ctx context.Context) (int, error) {
	var n int
	err := r.store.Conn(ctx).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM drugs`).Scan(&n)
	return n, err
}
