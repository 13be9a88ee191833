package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ivprep/ivprep/internal/platform/auth"
	"github.com/ivprep/ivprep/internal/platform/db"
)

// ErrInvalidCredentials is returned for any login failure. Unknown username,
// wrong credential and deactivated account are deliberately
// indistinguishable.
var ErrInvalidCredentials = errors.New("invalid credentials")

var validRoles = map[string]bool{
	auth.RoleAdmin:      true,
	auth.RolePharmacist: true,
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Login resolves an active user by exact username match and verifies the
// credential against the stored bcrypt hash.
func (s *Service) Login(ctx context.Context, username, password string) (*auth.Identity, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return &auth.Identity{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		Permissions: u.Permissions,
	}, nil
}

type CreateInput struct {
	Username    string   `json:"username"`
	Password    string   `json:"password"`
	DisplayName string   `json:"display_name"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*User, error) {
	if in.Username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if in.Password == "" {
		return nil, fmt.Errorf("password is required")
	}
	if in.Role == "" {
		in.Role = auth.RolePharmacist
	}
	if !validRoles[in.Role] {
		return nil, fmt.Errorf("invalid role: %s", in.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash credential: %w", err)
	}

	u := &User{
		Username:     in.Username,
		PasswordHash: string(hash),
		DisplayName:  in.DisplayName,
		Role:         in.Role,
		Permissions:  in.Permissions,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

type UpdateInput struct {
	DisplayName string   `json:"display_name"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	IsActive    bool     `json:"is_active"`
	// Password is optional; empty leaves the stored credential untouched.
	Password string `json:"password,omitempty"`
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Role == "" {
		in.Role = u.Role
	}
	if !validRoles[in.Role] {
		return nil, fmt.Errorf("invalid role: %s", in.Role)
	}

	if u.Username == BootstrapUsername {
		if !in.IsActive {
			return nil, fmt.Errorf("the bootstrap admin account cannot be deactivated")
		}
		if in.Role != auth.RoleAdmin {
			return nil, fmt.Errorf("the bootstrap admin account cannot be demoted")
		}
	}

	u.DisplayName = in.DisplayName
	u.Role = in.Role
	u.Permissions = in.Permissions
	u.IsActive = in.IsActive
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash credential: %w", err)
		}
		u.PasswordHash = string(hash)
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Deactivate is the only removal path for users; rows are never hard-deleted.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u.Username == BootstrapUsername {
		return fmt.Errorf("the bootstrap admin account cannot be deactivated")
	}
	return s.repo.SetActive(ctx, id, false)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*User, error) {
	return s.repo.List(ctx)
}

// DefaultAdminPassword is the first-run credential of the bootstrap admin.
// Operators are expected to rotate it immediately.
const DefaultAdminPassword = "admin"

// EnsureBootstrapAdmin creates the bootstrap admin on first run and repairs
// its permission set when a schema upgrade left it empty.
func (s *Service) EnsureBootstrapAdmin(ctx context.Context) (*User, error) {
	u, err := s.repo.GetByUsername(ctx, BootstrapUsername)
	if errors.Is(err, db.ErrNotFound) {
		return s.Create(ctx, CreateInput{
			Username:    BootstrapUsername,
			Password:    DefaultAdminPassword,
			DisplayName: "Administrator",
			Role:        auth.RoleAdmin,
			Permissions: auth.AllPermissions,
		})
	}
	if err != nil {
		return nil, err
	}

	if len(u.Permissions) == 0 || u.Role != auth.RoleAdmin {
		u.Role = auth.RoleAdmin
		u.Permissions = auth.AllPermissions
		if u.DisplayName == "" {
			u.DisplayName = "Administrator"
		}
		if err := s.repo.Update(ctx, u); err != nil {
			return nil, err
		}
	}
	return u, nil
}
