package user

import (
	"context"
	"errors"

	dom "example.com/localspark/app/internal/domain/user"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
}

type Service struct {
	repo   dom.Repository
	hasher PasswordHasher
}

func NewService(repo dom.Repository, hasher PasswordHasher) *Service {
	return &Service{repo: repo, hasher: hasher}
}

type UpdateLocationInput struct {
	ID        string
	Location  *string
	Latitude  *float64
	Longitude *float64
}

func (s *Service) GetUser(ctx context.Context, id string) (*dom.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateLocation(ctx context.Context, in UpdateLocationInput) (*dom.User, error) {
	u, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	if in.Location != nil {
		u.Location = *in.Location
	}
	if in.Latitude != nil {
		u.Latitude = in.Latitude
	}
	if in.Longitude != nil {
		u.Longitude = in.Longitude
	}

	return s.repo.Update(ctx, u)
}

// EnsureAdmin creates the admin account, or promotes and re-keys an existing user
// with that name, so a configured admin can always sign in.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) (*dom.User, error) {
	name, err := dom.NormalizeUsername(username)
	if err != nil {
		return nil, err
	}
	if password == "" {
		return nil, dom.ErrInvalidCredential
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.GetByUsername(ctx, name)
	switch {
	case err == nil:
		u.RoleCode = dom.RoleCodeAdmin
		u.PasswordHash = hash
		return s.repo.Update(ctx, u)
	case errors.Is(err, dom.ErrUserNotFound):
		return s.repo.Create(ctx, &dom.User{
			Username:     name,
			PasswordHash: hash,
			RoleCode:     dom.RoleCodeAdmin,
		})
	default:
		return nil, err
	}
}
