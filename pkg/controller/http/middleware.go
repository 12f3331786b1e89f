package http

import (
	"net/http"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/sprintdeck/sprintdeck/pkg/domain/model/auth"
	"github.com/sprintdeck/sprintdeck/pkg/domain/types"
)

// authMiddleware resolves the acting user from the Authorization header and
// puts it on the request context. In no-auth mode every request runs as the
// configured user.
func (s *Server) authMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if s.noAuthUser != "" {
				ctx := auth.ContextWithUser(r.Context(), s.noAuthUser)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			header := r.Header.Get("Authorization")
			credential, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || credential == "" {
				respondError(r.Context(), w, goerr.Wrap(types.ErrUnauthenticated, "missing bearer token"))
				return
			}

			ctx, err := s.uc.Auth.Authenticate(r.Context(), credential)
			if err != nil {
				respondError(r.Context(), w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
