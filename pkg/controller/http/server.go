package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
	"github.com/sprintdeck/sprintdeck/pkg/usecase"
	"github.com/sprintdeck/sprintdeck/pkg/utils/logging"
)

// Server exposes the tracker API over HTTP
type Server struct {
	router     *chi.Mux
	uc         *usecase.UseCases
	noAuthUser types.UserID
}

type Options func(*Server)

// WithNoAuth disables token authentication and attributes every request to
// the given user. Dev mode only.
func WithNoAuth(userID types.UserID) Options {
	return func(s *Server) {
		s.noAuthUser = userID
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK")) //nolint:errcheck
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.authMiddleware())

		r.Route("/projects", func(r chi.Router) {
			r.Post("/", s.createProject)

			r.Route("/{projectID}", func(r chi.Router) {
				r.Get("/", s.getProject)
				r.Patch("/", s.updateProject)
				r.Delete("/", s.deleteProject)
				r.Get("/activity", s.listActivity)

				r.Route("/members", func(r chi.Router) {
					r.Get("/", s.listMembers)
					r.Post("/", s.inviteMember)
					r.Patch("/{userID}", s.changeMemberRole)
					r.Delete("/{userID}", s.removeMember)
				})
				r.Post("/leave", s.leaveProject)

				r.Route("/tickets", func(r chi.Router) {
					r.Get("/", s.listTickets)
					r.Post("/", s.createTicket)

					r.Route("/{ticketID}", func(r chi.Router) {
						r.Get("/", s.getTicket)
						r.Patch("/", s.updateTicket)
						r.Delete("/", s.deleteTicket)
						r.Post("/move", s.moveTicket)
						r.Post("/assign", s.assignTicket)

						r.Route("/comments", func(r chi.Router) {
							r.Get("/", s.listComments)
							r.Post("/", s.addComment)
						})

						r.Route("/attachments", func(r chi.Router) {
							r.Get("/", s.listAttachments)
							r.Post("/", s.uploadAttachment)
						})
					})
				})

				r.Route("/comments/{commentID}", func(r chi.Router) {
					r.Patch("/", s.editComment)
					r.Delete("/", s.deleteComment)
				})

				r.Route("/attachments/{attachmentID}", func(r chi.Router) {
					r.Get("/", s.downloadAttachment)
					r.Delete("/", s.deleteAttachment)
				})

				r.Route("/sprints", func(r chi.Router) {
					r.Get("/", s.listSprints)
					r.Post("/", s.createSprint)

					r.Route("/{sprintID}", func(r chi.Router) {
						r.Get("/", s.getSprint)
						r.Delete("/", s.deleteSprint)
						r.Post("/start", s.startSprint)
						r.Post("/complete", s.completeSprint)
					})
				})

				r.Route("/board", func(r chi.Router) {
					r.Get("/", s.getBoard)
					r.Post("/rebalance", s.rebalanceBoard)
				})
			})
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", s.listNotifications)
			r.Post("/{notificationID}/read", s.markNotificationRead)
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
