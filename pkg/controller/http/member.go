package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/sprintdeck/sprintdeck/pkg/domain/model"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
)

type inviteMemberRequest struct {
	UserID types.UserID `json:"user_id"`
	Role   types.Role   `json:"role"`
}

func (s *Server) inviteMember(w http.ResponseWriter, r *http.Request) {
	var req inviteMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(r.Context(), w, goerr.Wrap(types.ErrValidationFailed, "invalid request body"))
		return
	}

	membership, err := s.uc.Member.Invite(r.Context(), projectID(r), req.UserID, req.Role)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusCreated, membership)
}

type changeRoleRequest struct {
	Role types.Role `json:"role"`
}

func (s *Server) changeMemberRole(w http.ResponseWriter, r *http.Request) {
	var req changeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(r.Context(), w, goerr.Wrap(types.ErrValidationFailed, "invalid request body"))
		return
	}

	userID := types.UserID(chi.URLParam(r, "userID"))
	membership, err := s.uc.Member.ChangeRole(r.Context(), projectID(r), userID, req.Role)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, membership)
}

func (s *Server) removeMember(w http.ResponseWriter, r *http.Request) {
	userID := types.UserID(chi.URLParam(r, "userID"))
	if err := s.uc.Member.Remove(r.Context(), projectID(r), userID); err != nil {
		respondError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) leaveProject(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.Member.Leave(r.Context(), projectID(r)); err != nil {
		respondError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listMembers(w http.ResponseWriter, r *http.Request) {
	cursor, limit := pageParams(r)
	members, next, err := s.uc.Member.List(r.Context(), projectID(r), cursor, limit)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, pageResponse[*model.Membership]{
		Items:      members,
		NextCursor: next,
	})
}
