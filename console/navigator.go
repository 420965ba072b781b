package console

import "sync"

type Route string

const (
	RouteDashboard Route = "/"
	RouteLogin     Route = "/login"
	RouteSignup    Route = "/signup"
	RouteEditor    Route = "/blogs"
)

type Navigator interface {
	Navigate(to Route)
}

// PendingNavigation remembers the last requested route until a handler takes it
type PendingNavigation struct {
	mu    sync.Mutex
	route Route
	set   bool
}

func (p *PendingNavigation) Navigate(to Route) {
	p.mu.Lock()
	p.route, p.set = to, true
	p.mu.Unlock()
}

func (p *PendingNavigation) Take() (Route, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	route, ok := p.route, p.set
	p.route, p.set = "", false
	return route, ok
}
