package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	domfavorite "example.com/localspark/app/internal/domain/favorite"
)

type addFavoriteRequest struct {
	Kind     string `json:"kind" validate:"required,oneof=product event"`
	TargetID string `json:"target_id" validate:"required"`
}

func (a *API) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r.Context())
	kind := r.URL.Query().Get("kind")

	resp := map[string]any{}
	if kind == "" || kind == string(domfavorite.KindProduct) {
		products, err := a.favoriteSvc.ListProducts(r.Context(), owner)
		if err != nil {
			a.handleDomainError(w, r, err)
			return
		}
		resp["products"] = mapProducts(products)
	}
	if kind == "" || kind == string(domfavorite.KindEvent) {
		events, err := a.favoriteSvc.ListEvents(r.Context(), owner)
		if err != nil {
			a.handleDomainError(w, r, err)
			return
		}
		resp["events"] = mapEvents(events)
	}
	if len(resp) == 0 {
		respondError(w, http.StatusBadRequest, domfavorite.ErrInvalidKind)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	var req addFavoriteRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	fav, err := a.favoriteSvc.Add(r.Context(), ownerID(r.Context()), domfavorite.Kind(req.Kind), req.TargetID)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapFavorite(fav))
}

func favoriteTarget(r *http.Request) (domfavorite.Kind, string, error) {
	kind, err := domfavorite.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		return "", "", err
	}
	return kind, chi.URLParam(r, "id"), nil
}

func (a *API) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	kind, id, err := favoriteTarget(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if err := a.favoriteSvc.Remove(r.Context(), ownerID(r.Context()), kind, id); err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleCheckFavorite(w http.ResponseWriter, r *http.Request) {
	kind, id, err := favoriteTarget(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	ok, err := a.favoriteSvc.IsFavorite(r.Context(), ownerID(r.Context()), kind, id)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"is_favorite": ok})
}

func (a *API) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	kind, id, err := favoriteTarget(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	ok, err := a.favoriteSvc.Toggle(r.Context(), ownerID(r.Context()), kind, id)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"is_favorite": ok})
}
