package http

import (
	"net/http"

	authuc "example.com/localspark/app/internal/usecase/auth"
	useruc "example.com/localspark/app/internal/usecase/user"
)

type registerRequest struct {
	Username  string   `json:"username" validate:"required,min=3,max=32"`
	Password  string   `json:"password" validate:"required,min=6,max=72"`
	Location  string   `json:"location" validate:"max=255"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" validate:"omitempty,longitude"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updateLocationRequest struct {
	Location  *string  `json:"location" validate:"omitempty,max=255"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" validate:"omitempty,longitude"`
}

func mapAuthResult(res *authuc.Result) map[string]any {
	return map[string]any{
		"token": res.Token,
		"user":  mapUser(res.User),
	}
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	res, err := a.authSvc.Register(r.Context(), authuc.RegisterInput{
		Username:     req.Username,
		Password:     req.Password,
		Location:     req.Location,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		GuestOwnerID: guestOwnerID(r.Context()),
	})
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapAuthResult(res))
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	res, err := a.authSvc.Login(r.Context(), authuc.LoginInput{
		Username:     req.Username,
		Password:     req.Password,
		GuestOwnerID: guestOwnerID(r.Context()),
	})
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapAuthResult(res))
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())
	u, err := a.userSvc.GetUser(r.Context(), user.UserID)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapUser(u))
}

func (a *API) handleUpdateLocation(w http.ResponseWriter, r *http.Request) {
	var req updateLocationRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	user := getAuthUser(r.Context())
	u, err := a.userSvc.UpdateLocation(r.Context(), useruc.UpdateLocationInput{
		ID:        user.UserID,
		Location:  req.Location,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapUser(u))
}
