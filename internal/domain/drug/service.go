package drug

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

var validForms = map[string]bool{
	FormPowder:   true,
	FormSolution: true,
}

var validContainers = map[string]bool{
	ContainerVial:    true,
	ContainerAmpoule: true,
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func validate(d *Drug) error {
	if d.TradeName == "" {
		return fmt.Errorf("trade_name is required")
	}
	if d.GenericName == "" {
		return fmt.Errorf("generic_name is required")
	}
	if !validForms[d.Form] {
		return fmt.Errorf("invalid form: %q", d.Form)
	}
	if !validContainers[d.Container] {
		return fmt.Errorf("invalid container: %q", d.Container)
	}
	if d.AmountMg <= 0 {
		return fmt.Errorf("amount_mg must be positive")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, d *Drug) (*Drug, error) {
	if err := validate(d); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Drug, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, search string) ([]*Drug, error) {
	return s.repo.List(ctx, search)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, d *Drug) (*Drug, error) {
	if err := validate(d); err != nil {
		return nil, err
	}
	d.ID = id
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
