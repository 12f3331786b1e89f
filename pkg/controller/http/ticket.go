package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/sprintdeck/sprintdeck/pkg/domain/model"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
	"github.com/sprintdeck/sprintdeck/pkg/usecase"
)

func ticketID(r *http.Request) types.TicketID {
	return types.TicketID(chi.URLParam(r, "ticketID"))
}

type createTicketRequest struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Status      types.TicketStatus `json:"status"`
	AssigneeID  types.UserID       `json:"assignee_id"`
	SprintID    types.SprintID     `json:"sprint_id"`
}

func (s *Server) createTicket(w http.ResponseWriter, r *http.Request) {
	var req createTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(r.Context(), w, goerr.Wrap(types.ErrValidationFailed, "invalid request body"))
		return
	}

	ticket, err := s.uc.Ticket.Create(r.Context(), projectID(r), usecase.CreateTicketInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		AssigneeID:  req.AssigneeID,
		SprintID:    req.SprintID,
	})
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusCreated, ticket)
}

func (s *Server) getTicket(w http.ResponseWriter, r *http.Request) {
	ticket, err := s.uc.Ticket.Get(r.Context(), projectID(r), ticketID(r))
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, ticket)
}

func (s *Server) listTickets(w http.ResponseWriter, r *http.Request) {
	cursor, limit := pageParams(r)
	tickets, next, err := s.uc.Ticket.List(r.Context(), projectID(r), cursor, limit)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, pageResponse[*model.Ticket]{
		Items:      tickets,
		NextCursor: next,
	})
}

type updateTicketRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	LastSeen    *time.Time `json:"last_seen"`
}

func (s *Server) updateTicket(w http.ResponseWriter, r *http.Request) {
	var req updateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(r.Context(), w, goerr.Wrap(types.ErrValidationFailed, "invalid request body"))
		return
	}

	ticket, err := s.uc.Ticket.Update(r.Context(), projectID(r), ticketID(r), usecase.UpdateTicketInput{
		Title:       req.Title,
		Description: req.Description,
		LastSeen:    req.LastSeen,
	})
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, ticket)
}

type moveTicketRequest struct {
	Status  types.TicketStatus `json:"status"`
	AfterID types.TicketID     `json:"after_id"`
}

func (s *Server) moveTicket(w http.ResponseWriter, r *http.Request) {
	var req moveTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(r.Context(), w, goerr.Wrap(types.ErrValidationFailed, "invalid request body"))
		return
	}

	ticket, err := s.uc.Ticket.Move(r.Context(), projectID(r), ticketID(r), req.Status, req.AfterID)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, ticket)
}

type assignTicketRequest struct {
	AssigneeID types.UserID `json:"assignee_id"`
}

func (s *Server) assignTicket(w http.ResponseWriter, r *http.Request) {
	var req assignTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(r.Context(), w, goerr.Wrap(types.ErrValidationFailed, "invalid request body"))
		return
	}

	ticket, err := s.uc.Ticket.Assign(r.Context(), projectID(r), ticketID(r), req.AssigneeID)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, ticket)
}

func (s *Server) deleteTicket(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.Ticket.Delete(r.Context(), projectID(r), ticketID(r)); err != nil {
		respondError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
