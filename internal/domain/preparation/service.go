package preparation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ivprep/ivprep/internal/domain/drug"
	"github.com/ivprep/ivprep/internal/domain/patient"
	"github.com/ivprep/ivprep/pkg/dosing"
)

// PatientDirectory is the slice of the patient service a worksheet needs.
type PatientDirectory interface {
	Get(ctx context.Context, id uuid.UUID) (*patient.Patient, error)
}

// DrugCatalog resolves catalog entries for snapshots and dose limits.
type DrugCatalog interface {
	Get(ctx context.Context, id uuid.UUID) (*drug.Drug, error)
}

var validStatuses = map[string]bool{
	StatusPending:   true,
	StatusCompleted: true,
}

type Service struct {
	repo     Repository
	patients PatientDirectory
	catalog  DrugCatalog
}

func NewService(repo Repository, patients PatientDirectory, catalog DrugCatalog) *Service {
	return &Service{repo: repo, patients: patients, catalog: catalog}
}

type CreateInput struct {
	PatientID uuid.UUID        `json:"patient_id"`
	Date      string           `json:"date"`
	DrugID    *uuid.UUID       `json:"drug_id"`
	DrugName  string           `json:"drug_name"`
	Payload   WorksheetPayload `json:"payload"`
	Status    string           `json:"status"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Preparation, error) {
	if in.PatientID == uuid.Nil {
		return nil, fmt.Errorf("patient_id is required")
	}
	if in.DrugName == "" {
		return nil, fmt.Errorf("drug_name is required")
	}
	if in.Status == "" {
		in.Status = StatusPending
	}
	if !validStatuses[in.Status] {
		return nil, fmt.Errorf("invalid status: %q", in.Status)
	}
	if in.Date == "" {
		in.Date = time.Now().Format(patient.DateLayout)
	}

	// The patient must exist; a worksheet for a ghost row helps nobody.
	if _, err := s.patients.Get(ctx, in.PatientID); err != nil {
		return nil, fmt.Errorf("resolve patient: %w", err)
	}

	p := &Preparation{
		PatientID: in.PatientID,
		Date:      in.Date,
		DrugID:    in.DrugID,
		DrugName:  in.DrugName,
		Payload:   in.Payload,
		Status:    in.Status,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	p.Payload.SchemaVersion = PayloadSchemaVersion
	return p, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Preparation, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

type UpdateInput struct {
	Payload WorksheetPayload `json:"payload"`
	Status  string           `json:"status"`
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Preparation, error) {
	if !validStatuses[in.Status] {
		return nil, fmt.Errorf("invalid status: %q", in.Status)
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Payload = in.Payload
	p.Status = in.Status
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	p.Payload.SchemaVersion = PayloadSchemaVersion
	return p, nil
}

// DeleteByPatient lets the patient service cascade its delete through this
// package's storage.
func (s *Service) DeleteByPatient(ctx context.Context, patientID uuid.UUID) error {
	return s.repo.DeleteByPatient(ctx, patientID)
}

type PreviewInput struct {
	PatientID uuid.UUID `json:"patient_id"`
	DrugID    uuid.UUID `json:"drug_id"`
	Dose      float64   `json:"dose"`
	DoseUnit  string    `json:"dose_unit"`
	Interval  string    `json:"interval"`
}

// Preview is what the pharmacist reviews before saving; it is advisory and
// writes nothing.
type Preview struct {
	Drug           json.RawMessage `json:"drug"`
	Dose           float64         `json:"dose"`
	DoseUnit       string          `json:"dose_unit"`
	Interval       string          `json:"interval"`
	CalculatedDose *float64        `json:"calculated_dose,omitempty"`
	BSA            *float64        `json:"bsa,omitempty"`
	BMI            *float64        `json:"bmi,omitempty"`
	DiluentLabel   string          `json:"diluent_label,omitempty"`
	Warnings       []string        `json:"warnings,omitempty"`
}

// diluentLabel renders the final-dilution diluent choices, like "NS / D5W".
func diluentLabel(d *drug.Drug) string {
	var parts []string
	if d.FDDiluentNS {
		parts = append(parts, "NS")
	}
	if d.FDDiluentD5W {
		parts = append(parts, "D5W")
	}
	return strings.Join(parts, " / ")
}

// PreviewDose derives the worksheet numbers for one patient and one
// catalog entry. Range warnings never block; the pharmacist decides.
func (s *Service) PreviewDose(ctx context.Context, in PreviewInput) (*Preview, error) {
	if in.Dose <= 0 {
		return nil, fmt.Errorf("dose must be positive")
	}
	if !dosing.ValidInterval(in.Interval) {
		return nil, fmt.Errorf("invalid interval: %q", in.Interval)
	}

	pat, err := s.patients.Get(ctx, in.PatientID)
	if err != nil {
		return nil, fmt.Errorf("resolve patient: %w", err)
	}
	d, err := s.catalog.Get(ctx, in.DrugID)
	if err != nil {
		return nil, fmt.Errorf("resolve drug: %w", err)
	}
	snapshot, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("snapshot drug: %w", err)
	}

	out := &Preview{
		Drug:         snapshot,
		Dose:         in.Dose,
		DoseUnit:     in.DoseUnit,
		Interval:     in.Interval,
		DiluentLabel: diluentLabel(d),
	}

	var weight, height float64
	if pat.WeightKg != nil {
		weight = *pat.WeightKg
	}
	if pat.HeightCm != nil {
		height = *pat.HeightCm
	}

	if abs, ok := dosing.AbsoluteDose(in.Dose, in.DoseUnit, weight); ok {
		abs = dosing.Round2(abs)
		out.CalculatedDose = &abs
	} else if dosing.IsPerKilogram(in.DoseUnit) {
		out.Warnings = append(out.Warnings, "patient weight is required for a per-kilogram dose")
	}
	if bsa, ok := dosing.BSA(weight, height); ok {
		out.BSA = &bsa
	}
	if bmi, ok := dosing.BMI(weight, height); ok {
		out.BMI = &bmi
	}

	out.Warnings = append(out.Warnings, dosing.CheckRange(in.Dose, in.DoseUnit, weight, in.Interval, dosing.Limits{
		MinPerKgDose: d.MinDoseMgKgDose,
		MaxPerKgDose: d.MaxDoseMgKgDose,
		MaxPerDose:   d.MaxDoseMgDose,
		MaxPerDay:    d.MaxDoseMgDay,
	})...)

	return out, nil
}
