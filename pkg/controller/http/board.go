package http

import (
	"net/http"
)

func (s *Server) getBoard(w http.ResponseWriter, r *http.Request) {
	board, err := s.uc.Board.Board(r.Context(), projectID(r))
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, board)
}

type rebalanceResponse struct {
	Changed int `json:"changed"`
}

func (s *Server) rebalanceBoard(w http.ResponseWriter, r *http.Request) {
	changed, err := s.uc.Board.Rebalance(r.Context(), projectID(r))
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, rebalanceResponse{Changed: changed})
}
