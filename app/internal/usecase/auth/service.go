package auth

import (
	"context"
	"errors"

	domuser "example.com/localspark/app/internal/domain/user"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
}

type Claims struct {
	UserID   string
	RoleCode domuser.RoleCode
	Username string
}

type TokenService interface {
	GenerateToken(u *domuser.User) (string, error)
	ParseToken(token string) (*Claims, error)
}

// GuestAdopter moves session-scoped guest data onto a user after sign in.
type GuestAdopter interface {
	AdoptGuest(ctx context.Context, guestOwnerID, userID string) error
}

type Service struct {
	userRepo domuser.Repository
	hasher   PasswordHasher
	tokens   TokenService
	adopter  GuestAdopter
}

func NewService(
	userRepo domuser.Repository,
	hasher PasswordHasher,
	tokens TokenService,
	adopter GuestAdopter,
) *Service {
	return &Service{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		adopter:  adopter,
	}
}

type RegisterInput struct {
	Username  string
	Password  string
	Location  string
	Latitude  *float64
	Longitude *float64
	// GuestOwnerID is the caller's guest owner key, if any.
	GuestOwnerID string
}

type LoginInput struct {
	Username     string
	Password     string
	GuestOwnerID string
}

type Result struct {
	Token string
	User  *domuser.User
}

const (
	minPasswordLength = 6
	// bcrypt only hashes the first 72 bytes.
	maxPasswordBytes = 72
)

func (s *Service) Register(ctx context.Context, in RegisterInput) (*Result, error) {
	username, err := domuser.NormalizeUsername(in.Username)
	if err != nil {
		return nil, err
	}
	if len(in.Password) < minPasswordLength || len(in.Password) > maxPasswordBytes {
		return nil, domuser.ErrInvalidCredential
	}

	_, err = s.userRepo.GetByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, domuser.ErrUsernameTaken
	case !errors.Is(err, domuser.ErrUserNotFound):
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	u, err := s.userRepo.Create(ctx, &domuser.User{
		Username:     username,
		PasswordHash: hash,
		Location:     in.Location,
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
		RoleCode:     domuser.RoleCodeCustomer,
	})
	if err != nil {
		return nil, err
	}

	return s.issue(ctx, u, in.GuestOwnerID)
}

func (s *Service) Login(ctx context.Context, in LoginInput) (*Result, error) {
	username, err := domuser.NormalizeUsername(in.Username)
	if err != nil || in.Password == "" {
		return nil, domuser.ErrInvalidCredential
	}

	u, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, domuser.ErrUnauthorized
	}

	if err := s.hasher.Compare(u.PasswordHash, in.Password); err != nil {
		return nil, domuser.ErrUnauthorized
	}

	return s.issue(ctx, u, in.GuestOwnerID)
}

func (s *Service) issue(ctx context.Context, u *domuser.User, guestOwnerID string) (*Result, error) {
	if guestOwnerID != "" && s.adopter != nil {
		if err := s.adopter.AdoptGuest(ctx, guestOwnerID, u.ID); err != nil {
			return nil, err
		}
	}

	token, err := s.tokens.GenerateToken(u)
	if err != nil {
		return nil, err
	}

	return &Result{
		Token: token,
		User:  u,
	}, nil
}
