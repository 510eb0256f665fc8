package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	domevent "example.com/localspark/app/internal/domain/event"
	eventuc "example.com/localspark/app/internal/usecase/event"
)

const defaultRadiusMiles = 25

var errPartialLocation = errors.New("lat and lng must be given together")

func parseEventFilter(r *http.Request) (domevent.ListFilter, page, error) {
	q := r.URL.Query()
	filter := domevent.ListFilter{
		Category: q.Get("category"),
		Search:   q.Get("search"),
	}
	if filter.Search == "" {
		filter.Search = q.Get("q")
	}

	p, err := parsePage(r)
	if err != nil {
		return filter, p, err
	}
	filter.Limit, filter.Offset = p.Limit, p.Offset

	if filter.MaxPrice, err = parseFloatQuery(r, "max_price"); err != nil {
		return filter, p, err
	}
	if v := q.Get("upcoming"); v != "" {
		if filter.Upcoming, err = strconv.ParseBool(v); err != nil {
			return filter, p, fmt.Errorf("invalid upcoming %q", v)
		}
	}

	lat, err := parseFloatQuery(r, "lat")
	if err != nil {
		return filter, p, err
	}
	lng, err := parseFloatQuery(r, "lng")
	if err != nil {
		return filter, p, err
	}
	radius, err := parseFloatQuery(r, "radius")
	if err != nil {
		return filter, p, err
	}
	switch {
	case lat != nil && lng != nil:
		miles := float64(defaultRadiusMiles)
		if radius != nil {
			if *radius <= 0 {
				return filter, p, fmt.Errorf("invalid radius %v", *radius)
			}
			miles = *radius
		}
		filter.Near = &domevent.Radius{
			Center: domevent.GeoPoint{Latitude: *lat, Longitude: *lng},
			Miles:  miles,
		}
	case lat != nil || lng != nil:
		return filter, p, errPartialLocation
	}
	return filter, p, nil
}

func (a *API) handleListEvents(w http.ResponseWriter, r *http.Request) {
	filter, p, err := parseEventFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	events, total, err := a.eventSvc.List(r.Context(), filter)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeList(w, mapEvents(events), total, p)
}

func (a *API) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	e, err := a.eventSvc.GetActive(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapEvent(e))
}

type createEventRequest struct {
	Title          string    `json:"title" validate:"required,max=255"`
	Description    string    `json:"description"`
	Category       string    `json:"category" validate:"max=100"`
	ImageURL       string    `json:"image_url" validate:"omitempty,url"`
	Price          float64   `json:"price" validate:"gte=0"`
	StartDate      time.Time `json:"start_date" validate:"required"`
	EndDate        time.Time `json:"end_date" validate:"required"`
	Location       string    `json:"location" validate:"max=255"`
	Address        string    `json:"address" validate:"max=255"`
	Latitude       *float64  `json:"latitude" validate:"omitempty,latitude"`
	Longitude      *float64  `json:"longitude" validate:"omitempty,longitude"`
	OrganizerName  string    `json:"organizer_name" validate:"max=255"`
	OrganizerEmail string    `json:"organizer_email" validate:"omitempty,email"`
	MaxAttendees   *int64    `json:"max_attendees" validate:"omitempty,gt=0"`
}

type updateEventRequest struct {
	Title          *string    `json:"title" validate:"omitempty,max=255"`
	Description    *string    `json:"description"`
	Category       *string    `json:"category" validate:"omitempty,max=100"`
	ImageURL       *string    `json:"image_url" validate:"omitempty,url"`
	Price          *float64   `json:"price" validate:"omitempty,gte=0"`
	StartDate      *time.Time `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
	Location       *string    `json:"location" validate:"omitempty,max=255"`
	Address        *string    `json:"address" validate:"omitempty,max=255"`
	Latitude       *float64   `json:"latitude" validate:"omitempty,latitude"`
	Longitude      *float64   `json:"longitude" validate:"omitempty,longitude"`
	OrganizerName  *string    `json:"organizer_name" validate:"omitempty,max=255"`
	OrganizerEmail *string    `json:"organizer_email" validate:"omitempty,email"`
	MaxAttendees   *int64     `json:"max_attendees" validate:"omitempty,gt=0"`
	IsActive       *bool      `json:"is_active"`
}

func (a *API) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	e, err := a.eventSvc.Create(r.Context(), eventuc.CreateInput{
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		ImageURL:       req.ImageURL,
		Price:          req.Price,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Location:       req.Location,
		Address:        req.Address,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		OrganizerName:  req.OrganizerName,
		OrganizerEmail: req.OrganizerEmail,
		MaxAttendees:   req.MaxAttendees,
	})
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapEvent(e))
}

func (a *API) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req updateEventRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	e, err := a.eventSvc.Update(r.Context(), eventuc.UpdateInput{
		ID:             chi.URLParam(r, "id"),
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		ImageURL:       req.ImageURL,
		Price:          req.Price,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Location:       req.Location,
		Address:        req.Address,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		OrganizerName:  req.OrganizerName,
		OrganizerEmail: req.OrganizerEmail,
		MaxAttendees:   req.MaxAttendees,
		IsActive:       req.IsActive,
	})
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapEvent(e))
}

func (a *API) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := a.eventSvc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
