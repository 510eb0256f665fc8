package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func (a *API) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	items, err := a.notificationSvc.List(r.Context(), ownerID(r.Context()))
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}

	resp := make([]map[string]any, 0, len(items))
	unread := 0
	for _, n := range items {
		if !n.Read {
			unread++
		}
		resp = append(resp, mapNotification(n))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": resp, "unread": unread})
}

func (a *API) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	n, err := a.notificationSvc.MarkRead(r.Context(), ownerID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapNotification(n))
}

func (a *API) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	if a.realtime == nil {
		respondError(w, http.StatusNotFound, http.ErrNotSupported)
		return
	}
	// The upgrader has already written an error response on failure.
	if err := a.realtime.Serve(w, r, ownerID(r.Context())); err != nil {
		a.logger.Debug("websocket closed", zap.Error(err))
	}
}
