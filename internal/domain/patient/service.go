package patient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ivprep/ivprep/internal/platform/db"
)

// PreparationPurger deletes every preparation belonging to a patient. The
// preparation package implements it; the indirection keeps the cascade in
// one transaction without a package cycle.
type PreparationPurger interface {
	DeleteByPatient(ctx context.Context, patientID uuid.UUID) error
}

type Service struct {
	store  *db.Store
	repo   Repository
	purger PreparationPurger
}

func NewService(store *db.Store, repo Repository, purger PreparationPurger) *Service {
	return &Service{store: store, repo: repo, purger: purger}
}

type Input struct {
	HospitalID string   `json:"hospital_id"`
	Name       string   `json:"name"`
	DOB        string   `json:"dob"`
	Gender     string   `json:"gender"`
	WeightKg   *float64 `json:"weight"`
	HeightCm   *float64 `json:"height"`
	Department string   `json:"department"`
	Notes      string   `json:"notes"`
	EntryDate  string   `json:"entry_date"`
}

func (in Input) validate() error {
	if in.HospitalID == "" {
		return fmt.Errorf("hospital_id is required")
	}
	if in.Name == "" {
		return fmt.Errorf("name is required")
	}
	if in.DOB == "" {
		return fmt.Errorf("dob is required")
	}
	if in.Gender == "" {
		return fmt.Errorf("gender is required")
	}
	if in.EntryDate == "" {
		return fmt.Errorf("entry_date is required")
	}
	for _, d := range []string{in.DOB, in.EntryDate} {
		if _, err := time.Parse(DateLayout, d); err != nil {
			return fmt.Errorf("invalid date %q, expected %s", d, DateLayout)
		}
	}
	if in.WeightKg != nil && *in.WeightKg <= 0 {
		return fmt.Errorf("weight must be positive")
	}
	if in.HeightCm != nil && *in.HeightCm <= 0 {
		return fmt.Errorf("height must be positive")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, in Input) (*Patient, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p := &Patient{
		HospitalID: in.HospitalID,
		Name:       in.Name,
		DOB:        in.DOB,
		Gender:     in.Gender,
		WeightKg:   in.WeightKg,
		HeightCm:   in.HeightCm,
		Department: in.Department,
		Notes:      in.Notes,
		EntryDate:  in.EntryDate,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns the worklist for entryDate, or every patient when entryDate
// is empty. Both orderings are newest first.
func (s *Service) List(ctx context.Context, entryDate string) ([]*Patient, error) {
	if entryDate == "" {
		return s.repo.ListAll(ctx)
	}
	if _, err := time.Parse(DateLayout, entryDate); err != nil {
		return nil, fmt.Errorf("invalid date %q, expected %s", entryDate, DateLayout)
	}
	return s.repo.ListByEntryDate(ctx, entryDate)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in Input) (*Patient, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.HospitalID = in.HospitalID
	p.Name = in.Name
	p.DOB = in.DOB
	p.Gender = in.Gender
	p.WeightKg = in.WeightKg
	p.HeightCm = in.HeightCm
	p.Department = in.Department
	p.Notes = in.Notes
	p.EntryDate = in.EntryDate
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes the patient and all of its preparations in one
// transaction; either both disappear or neither does.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.WithTx(ctx, func(ctx context.Context) error {
		if err := s.purger.DeleteByPatient(ctx, id); err != nil {
			return err
		}
		return s.repo.Delete(ctx, id)
	})
}

// CopyToDate duplicates the given patients under targetDate with fresh
// identities. Ids that do not resolve are skipped, not reported as errors;
// the return value is the count actually copied. The whole batch runs in
// one transaction.
func (s *Service) CopyToDate(ctx context.Context, ids []uuid.UUID, targetDate string) (int, error) {
	if _, err := time.Parse(DateLayout, targetDate); err != nil {
		return 0, fmt.Errorf("invalid date %q, expected %s", targetDate, DateLayout)
	}

	copied := 0
	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		for _, id := range ids {
			src, err := s.repo.GetByID(ctx, id)
			if errors.Is(err, db.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			cp := *src
			cp.ID = uuid.Nil
			cp.EntryDate = targetDate
			if err := s.repo.Create(ctx, &cp); err != nil {
				return err
			}
			copied++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return copied, nil
}
