package event

import (
	"context"
	"strings"
	"time"

	dom "example.com/localspark/app/internal/domain/event"
)

type Service struct {
	repo dom.Repository
	now  func() time.Time
}

func NewService(repo dom.Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type CreateInput struct {
	Title          string
	Description    string
	Category       string
	ImageURL       string
	Price          float64
	StartDate      time.Time
	EndDate        time.Time
	Location       string
	Address        string
	Latitude       *float64
	Longitude      *float64
	OrganizerName  string
	OrganizerEmail string
	MaxAttendees   *int64
}

type UpdateInput struct {
	ID             string
	Title          *string
	Description    *string
	Category       *string
	ImageURL       *string
	Price          *float64
	StartDate      *time.Time
	EndDate        *time.Time
	Location       *string
	Address        *string
	Latitude       *float64
	Longitude      *float64
	OrganizerName  *string
	OrganizerEmail *string
	MaxAttendees   *int64
	IsActive       *bool
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*dom.Event, error) {
	if strings.TrimSpace(in.Title) == "" || in.Price < 0 {
		return nil, dom.ErrInvalidEvent
	}
	if in.MaxAttendees != nil && *in.MaxAttendees <= 0 {
		return nil, dom.ErrInvalidEvent
	}
	if in.EndDate.Before(in.StartDate) {
		return nil, dom.ErrInvalidSchedule
	}
	e := &dom.Event{
		Title:          strings.TrimSpace(in.Title),
		Description:    in.Description,
		Category:       strings.TrimSpace(in.Category),
		ImageURL:       in.ImageURL,
		Price:          in.Price,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		Location:       in.Location,
		Address:        in.Address,
		Latitude:       in.Latitude,
		Longitude:      in.Longitude,
		OrganizerName:  in.OrganizerName,
		OrganizerEmail: in.OrganizerEmail,
		MaxAttendees:   in.MaxAttendees,
		IsActive:       true,
	}
	return s.repo.Create(ctx, e)
}

func (s *Service) Update(ctx context.Context, in UpdateInput) (*dom.Event, error) {
	existed, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, dom.ErrInvalidEvent
		}
		existed.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		existed.Description = *in.Description
	}
	if in.Category != nil {
		existed.Category = strings.TrimSpace(*in.Category)
	}
	if in.ImageURL != nil {
		existed.ImageURL = *in.ImageURL
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, dom.ErrInvalidEvent
		}
		existed.Price = *in.Price
	}
	if in.StartDate != nil {
		existed.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		existed.EndDate = *in.EndDate
	}
	if existed.EndDate.Before(existed.StartDate) {
		return nil, dom.ErrInvalidSchedule
	}
	if in.Location != nil {
		existed.Location = *in.Location
	}
	if in.Address != nil {
		existed.Address = *in.Address
	}
	if in.Latitude != nil {
		existed.Latitude = in.Latitude
	}
	if in.Longitude != nil {
		existed.Longitude = in.Longitude
	}
	if in.OrganizerName != nil {
		existed.OrganizerName = *in.OrganizerName
	}
	if in.OrganizerEmail != nil {
		existed.OrganizerEmail = *in.OrganizerEmail
	}
	if in.MaxAttendees != nil {
		if *in.MaxAttendees < existed.CurrentAttendees || *in.MaxAttendees <= 0 {
			return nil, dom.ErrInvalidEvent
		}
		existed.MaxAttendees = in.MaxAttendees
	}
	if in.IsActive != nil {
		existed.IsActive = *in.IsActive
	}

	return s.repo.Update(ctx, existed)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) GetByID(ctx context.Context, id string) (*dom.Event, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetActive(ctx context.Context, id string) (*dom.Event, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !e.IsActive {
		return nil, dom.ErrEventNotFound
	}
	return e, nil
}

func (s *Service) List(ctx context.Context, filter dom.ListFilter) ([]*dom.Event, int, error) {
	if filter.Now.IsZero() {
		filter.Now = s.now()
	}
	return s.repo.List(ctx, filter)
}
