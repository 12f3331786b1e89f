package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sprintdeck/sprintdeck/pkg/domain/model"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
)

func (s *Server) listNotifications(w http.ResponseWriter, r *http.Request) {
	cursor, limit := pageParams(r)
	notifications, next, err := s.uc.Notification.List(r.Context(), cursor, limit)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, pageResponse[*model.Notification]{
		Items:      notifications,
		NextCursor: next,
	})
}

func (s *Server) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	id := types.NotificationID(chi.URLParam(r, "notificationID"))
	if err := s.uc.Notification.MarkRead(r.Context(), id); err != nil {
		respondError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
