package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/sprintdeck/sprintdeck/pkg/domain/model"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
)

func commentID(r *http.Request) types.CommentID {
	return types.CommentID(chi.URLParam(r, "commentID"))
}

type addCommentRequest struct {
	ParentID types.CommentID `json:"parent_id"`
	Body     string          `json:"body"`
}

func (s *Server) addComment(w http.ResponseWriter, r *http.Request) {
	var req addCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(r.Context(), w, goerr.Wrap(types.ErrValidationFailed, "invalid request body"))
		return
	}

	comment, err := s.uc.Comment.Add(r.Context(), projectID(r), ticketID(r), req.ParentID, req.Body)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusCreated, comment)
}

type editCommentRequest struct {
	Body string `json:"body"`
}

func (s *Server) editComment(w http.ResponseWriter, r *http.Request) {
	var req editCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(r.Context(), w, goerr.Wrap(types.ErrValidationFailed, "invalid request body"))
		return
	}

	comment, err := s.uc.Comment.Edit(r.Context(), projectID(r), commentID(r), req.Body)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, comment)
}

func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.Comment.Delete(r.Context(), projectID(r), commentID(r)); err != nil {
		respondError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listComments(w http.ResponseWriter, r *http.Request) {
	cursor, limit := pageParams(r)
	comments, next, err := s.uc.Comment.ListByTicket(r.Context(), projectID(r), ticketID(r), cursor, limit)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, pageResponse[*model.Comment]{
		Items:      comments,
		NextCursor: next,
	})
}
