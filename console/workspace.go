package console

// Services are the external adapters shared by every workspace
type Services struct {
	Auth      Authenticator
	Posts     PostStore
	Uploader  ImageUploader
	Suggester KeywordSuggester
	Metrics   *Metrics
}

// Workspace is the per-browser console state. The gate and the dashboard
// subscribe to the session store on their own; the editor reads it when it
// writes.
type Workspace struct {
	ID        string
	Sessions  *SessionStore
	Inbox     *Inbox
	Nav       *PendingNavigation
	Gate      *AuthGate
	Account   *Account
	Editor    *Editor
	Dashboard *Dashboard
}

func NewWorkspace(id string, svc Services) *Workspace {
	sessions := NewSessionStore()
	inbox := &Inbox{}
	nav := &PendingNavigation{}

	return &Workspace{
		ID:       id,
		Sessions: sessions,
		Inbox:    inbox,
		Nav:      nav,
		Gate:     NewAuthGate(sessions, nav),
		Account:  NewAccount(svc.Auth, sessions, inbox, nav, svc.Metrics),
		Editor: NewEditor(EditorDeps{
			Store:     svc.Posts,
			Uploader:  svc.Uploader,
			Suggester: svc.Suggester,
			Notifier:  inbox,
			Metrics:   svc.Metrics,
		}, sessions),
		Dashboard: NewDashboard(svc.Posts, inbox, svc.Metrics, sessions),
	}
}

// Close detaches every component from the session store
func (w *Workspace) Close() {
	w.Gate.Close()
	w.Dashboard.Close()
}
