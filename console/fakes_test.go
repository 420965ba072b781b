package console

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/blog-admin-console/errs"
	"github.com/rpupo63/blog-admin-console/models"
)

// memoryStore keeps posts in insertion order and counts every call
type memoryStore struct {
	mu      sync.Mutex
	posts   []models.BlogPost
	clock   time.Time
	calls   int
	failAll error
	failAdd error
	failUpd error
	failDel error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{clock: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (s *memoryStore) FindAll(ctx context.Context) ([]models.BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failAll != nil {
		return nil, s.failAll
	}
	out := make([]models.BlogPost, 0, len(s.posts))
	for i := len(s.posts) - 1; i >= 0; i-- {
		out = append(out, s.posts[i])
	}
	return out, nil
}

func (s *memoryStore) Add(ctx context.Context, post *models.BlogPost) (*models.BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failAdd != nil {
		return nil, s.failAdd
	}
	s.clock = s.clock.Add(time.Minute)
	row := *post
	row.ID = uuid.New()
	row.CreatedAt = s.clock
	s.posts = append(s.posts, row)
	return &row, nil
}

func (s *memoryStore) Update(ctx context.Context, post *models.BlogPost) (*models.BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failUpd != nil {
		return nil, s.failUpd
	}
	for i := range s.posts {
		if s.posts[i].ID == post.ID {
			s.posts[i].Image = post.Image
			s.posts[i].Title = post.Title
			s.posts[i].Content = post.Content
			row := s.posts[i]
			return &row, nil
		}
	}
	return nil, errs.NewNotFound("blog post")
}

func (s *memoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failDel != nil {
		return s.failDel
	}
	for i := range s.posts {
		if s.posts[i].ID == id {
			s.posts = append(s.posts[:i], s.posts[i+1:]...)
			break
		}
	}
	return nil
}

func (s *memoryStore) seed(userID string, titles ...string) {
	for _, title := range titles {
		_, _ = s.Add(context.Background(), &models.BlogPost{
			Image: "https://img/" + title, Title: title, Content: title + " body", UserID: userID,
		})
	}
	s.calls = 0
}

func (s *memoryStore) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type fakeUploader struct {
	key         string
	contentType string
	body        string
	err         error
	calls       int
}

func (u *fakeUploader) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	u.calls++
	if u.err != nil {
		return "", u.err
	}
	data, _ := io.ReadAll(body)
	u.key, u.contentType, u.body = key, contentType, string(data)
	return key, nil
}

func (u *fakeUploader) PublicURL(path string) string {
	return "https://cdn.example.com/blog-images/" + path
}

type fakeSuggester struct {
	input    string
	keywords []string
	err      error
}

func (s *fakeSuggester) Suggest(ctx context.Context, blogContent string) ([]string, error) {
	s.input = blogContent
	return s.keywords, s.err
}

type fakeAuth struct {
	session    *models.Session
	signInErr  error
	signUpErr  error
	signOutErr error
	signedOut  []string
	calls      int
}

func (a *fakeAuth) SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error) {
	a.calls++
	if a.signInErr != nil {
		return nil, a.signInErr
	}
	return a.session, nil
}

func (a *fakeAuth) SignUp(ctx context.Context, email, password string) error {
	a.calls++
	return a.signUpErr
}

func (a *fakeAuth) SignOut(ctx context.Context, accessToken string) error {
	a.calls++
	a.signedOut = append(a.signedOut, accessToken)
	return a.signOutErr
}

func activeSession(userID string) *models.Session {
	return &models.Session{
		AccessToken: "token-" + userID,
		UserID:      userID,
		Email:       userID + "@example.com",
		ExpiresAt:   time.Now().Add(time.Hour),
	}
}

type editorFixture struct {
	store     *memoryStore
	uploader  *fakeUploader
	suggester *fakeSuggester
	inbox     *Inbox
	sessions  *SessionStore
	editor    *Editor
}

func newEditorFixture(userID string) *editorFixture {
	f := &editorFixture{
		store:     newMemoryStore(),
		uploader:  &fakeUploader{},
		suggester: &fakeSuggester{},
		inbox:     &Inbox{},
		sessions:  NewSessionStore(),
	}
	if userID != "" {
		f.sessions.Set(activeSession(userID))
	}
	f.editor = NewEditor(EditorDeps{
		Store:     f.store,
		Uploader:  f.uploader,
		Suggester: f.suggester,
		Notifier:  f.inbox,
	}, f.sessions)
	return f
}
