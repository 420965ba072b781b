package console

import (
	"sync"

	"github.com/rpupo63/blog-admin-console/models"
)

// LoadingPlaceholder is rendered in place of protected content while the
// visitor is sent to the login page.
const LoadingPlaceholder = "Loading..."

// AuthGate decides whether protected views may render. It follows the
// session store and sends the visitor to the login route as soon as the
// session disappears.
type AuthGate struct {
	mu          sync.Mutex
	present     bool
	sessions    *SessionStore
	nav         Navigator
	unsubscribe func()
}

func NewAuthGate(sessions *SessionStore, nav Navigator) *AuthGate {
	g := &AuthGate{sessions: sessions, nav: nav}
	g.unsubscribe = sessions.Subscribe(g.onSessionChange)
	g.present = sessions.Current() != nil
	return g
}

// Allow reports whether protected content may be shown. When it may not,
// navigation to the login route has been requested.
func (g *AuthGate) Allow() bool {
	present := g.sessions.Current() != nil

	g.mu.Lock()
	g.present = present
	g.mu.Unlock()

	if !present {
		g.nav.Navigate(RouteLogin)
	}
	return present
}

func (g *AuthGate) onSessionChange(session *models.Session) {
	g.mu.Lock()
	wasPresent := g.present
	g.present = session != nil
	g.mu.Unlock()

	if wasPresent && session == nil {
		g.nav.Navigate(RouteLogin)
	}
}

func (g *AuthGate) Close() {
	g.unsubscribe()
}
