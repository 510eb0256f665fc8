package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	domregistration "example.com/localspark/app/internal/domain/registration"
	"example.com/localspark/app/internal/infra/metrics"
)

func registrationOutcome(err error) string {
	switch {
	case err == nil:
		return "registered"
	case errors.Is(err, domregistration.ErrEventFull):
		return "full"
	case errors.Is(err, domregistration.ErrAlreadyRegistered):
		return "duplicate"
	case errors.Is(err, domregistration.ErrEventEnded):
		return "ended"
	default:
		return "error"
	}
}

func (a *API) handleRegisterForEvent(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())
	reg, err := a.registrationSvc.Register(r.Context(), user.UserID, chi.URLParam(r, "id"))
	metrics.RecordRegistration(registrationOutcome(err))
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapRegistration(reg))
}

func (a *API) handleCancelRegistration(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())
	if err := a.registrationSvc.Cancel(r.Context(), user.UserID, chi.URLParam(r, "id")); err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	metrics.RecordRegistration("canceled")
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleListMyRegistrations(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())
	regs, err := a.registrationSvc.ListMine(r.Context(), user.UserID)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}

	resp := make([]map[string]any, 0, len(regs))
	for _, reg := range regs {
		item := mapRegistration(&reg.Registration)
		item["event"] = mapEvent(reg.Event)
		resp = append(resp, item)
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": resp})
}

func (a *API) handleListEventRegistrations(w http.ResponseWriter, r *http.Request) {
	regs, err := a.registrationSvc.ListForEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}

	resp := make([]map[string]any, 0, len(regs))
	for _, reg := range regs {
		resp = append(resp, mapRegistration(reg))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": resp})
}
