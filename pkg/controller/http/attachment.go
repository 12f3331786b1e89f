package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/sprintdeck/sprintdeck/pkg/domain/model"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
	"github.com/sprintdeck/sprintdeck/pkg/utils/safe"
)

// maxUploadSize limits attachment uploads to 32 MiB
const maxUploadSize = 32 << 20

func attachmentID(r *http.Request) types.AttachmentID {
	return types.AttachmentID(chi.URLParam(r, "attachmentID"))
}

func (s *Server) uploadAttachment(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(r.Context(), w, goerr.Wrap(types.ErrValidationFailed, "missing file field"))
		return
	}
	defer safe.Close(r.Context(), file)

	attachment, err := s.uc.Attachment.Upload(r.Context(), projectID(r), ticketID(r), header.Filename, header.Size, file)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusCreated, attachment)
}

func (s *Server) downloadAttachment(w http.ResponseWriter, r *http.Request) {
	attachment, blob, err := s.uc.Attachment.Open(r.Context(), projectID(r), attachmentID(r))
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	defer safe.Close(r.Context(), blob)

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="`+attachment.Filename+`"`)
	safe.Copy(r.Context(), w, blob)
}

func (s *Server) deleteAttachment(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.Attachment.Delete(r.Context(), projectID(r), attachmentID(r)); err != nil {
		respondError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listAttachments(w http.ResponseWriter, r *http.Request) {
	cursor, limit := pageParams(r)
	attachments, next, err := s.uc.Attachment.ListByTicket(r.Context(), projectID(r), ticketID(r), cursor, limit)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, pageResponse[*model.Attachment]{
		Items:      attachments,
		NextCursor: next,
	})
}
