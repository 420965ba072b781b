package console

import (
	"context"
	"slices"
	"sync"

	"github.com/rpupo63/blog-admin-console/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Dashboard is the read-only landing page shown after sign-in
type Dashboard struct {
	mu     sync.Mutex
	posts  []models.BlogPost
	email  string
	loaded bool

	store       PostStore
	notifier    Notifier
	metrics     *Metrics
	logger      zerolog.Logger
	unsubscribe func()
}

type DashboardState struct {
	Email  string
	Posts  []models.BlogPost
	Loaded bool
}

func NewDashboard(store PostStore, notifier Notifier, metrics *Metrics, sessions *SessionStore) *Dashboard {
	d := &Dashboard{
		store:    store,
		notifier: notifier,
		metrics:  metrics,
		logger:   log.With().Str("component", "dashboard").Logger(),
	}
	d.unsubscribe = sessions.Subscribe(func(s *models.Session) {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.email = ""
		if s != nil {
			d.email = s.Email
		}
	})
	if s := sessions.Current(); s != nil {
		d.email = s.Email
	}
	return d
}

// Visit reloads the post list. A failed load keeps the last list.
func (d *Dashboard) Visit(ctx context.Context) (err error) {
	defer func() { d.metrics.observe("dashboard_list", err) }()

	posts, err := d.store.FindAll(ctx)
	if err != nil {
		d.logger.Error().Err(err).Msg("failed to load blog posts")
		d.notifier.Notify(failure("Error loading blog posts", err))
		return err
	}

	d.mu.Lock()
	d.posts = posts
	d.loaded = true
	d.mu.Unlock()
	return nil
}

func (d *Dashboard) State() DashboardState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return DashboardState{Email: d.email, Posts: slices.Clone(d.posts), Loaded: d.loaded}
}

func (d *Dashboard) Close() {
	d.unsubscribe()
}
