package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/sprintdeck/sprintdeck/pkg/domain/model"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
)

func sprintID(r *http.Request) types.SprintID {
	return types.SprintID(chi.URLParam(r, "sprintID"))
}

type createSprintRequest struct {
	Name string `json:"name"`
	Goal string `json:"goal"`
}

func (s *Server) createSprint(w http.ResponseWriter, r *http.Request) {
	var req createSprintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(r.Context(), w, goerr.Wrap(types.ErrValidationFailed, "invalid request body"))
		return
	}

	sprint, err := s.uc.Sprint.Create(r.Context(), projectID(r), req.Name, req.Goal)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusCreated, sprint)
}

func (s *Server) getSprint(w http.ResponseWriter, r *http.Request) {
	sprint, err := s.uc.Sprint.Get(r.Context(), projectID(r), sprintID(r))
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, sprint)
}

func (s *Server) listSprints(w http.ResponseWriter, r *http.Request) {
	cursor, limit := pageParams(r)
	sprints, next, err := s.uc.Sprint.List(r.Context(), projectID(r), cursor, limit)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, pageResponse[*model.Sprint]{
		Items:      sprints,
		NextCursor: next,
	})
}

func (s *Server) startSprint(w http.ResponseWriter, r *http.Request) {
	sprint, err := s.uc.Sprint.Start(r.Context(), projectID(r), sprintID(r))
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, sprint)
}

func (s *Server) completeSprint(w http.ResponseWriter, r *http.Request) {
	sprint, err := s.uc.Sprint.Complete(r.Context(), projectID(r), sprintID(r))
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, sprint)
}

func (s *Server) deleteSprint(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.Sprint.Delete(r.Context(), projectID(r), sprintID(r)); err != nil {
		respondError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
