package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/rpupo63/blog-admin-console/console"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const workspaceCookie = "console_workspace"

// workspaceStore keeps one console workspace per browser. Entries slide
// forward on every request and are closed when they expire.
type workspaceStore struct {
	cache    *cache.Cache
	services console.Services
	ttl      time.Duration
	secure   bool
	logger   zerolog.Logger
}

func newWorkspaceStore(services console.Services, ttl time.Duration, secure bool) *workspaceStore {
	c := cache.New(ttl, ttl/4+time.Minute)
	s := &workspaceStore{
		cache:    c,
		services: services,
		ttl:      ttl,
		secure:   secure,
		logger:   log.With().Str("handlerName", "workspaceStore").Logger(),
	}
	c.OnEvicted(func(id string, value any) {
		if ws, ok := value.(*console.Workspace); ok {
			ws.Close()
		}
		s.logger.Debug().Str("workspaceID", id).Msg("workspace evicted")
	})
	return s
}

// resolve returns the request's workspace, creating one and setting the
// cookie when the browser has none or its workspace expired.
func (s *workspaceStore) resolve(w http.ResponseWriter, r *http.Request) *console.Workspace {
	if cookie, err := r.Cookie(workspaceCookie); err == nil {
		if value, found := s.cache.Get(cookie.Value); found {
			ws := value.(*console.Workspace)
			s.cache.Set(ws.ID, ws, cache.DefaultExpiration)
			return ws
		}
	}

	ws := console.NewWorkspace(uuid.NewString(), s.services)
	s.cache.Set(ws.ID, ws, cache.DefaultExpiration)
	http.SetCookie(w, &http.Cookie{
		Name:     workspaceCookie,
		Value:    ws.ID,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	s.logger.Debug().Str("workspaceID", ws.ID).Msg("workspace created")
	return ws
}

func (s *workspaceStore) count() int {
	return s.cache.ItemCount()
}

// middleware attaches the workspace to the request context
func (s *workspaceStore) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws := s.resolve(w, r)
		next.ServeHTTP(w, r.WithContext(ctxWithWorkspace(r.Context(), ws)))
	})
}
