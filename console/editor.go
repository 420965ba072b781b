package console

import (
	"context"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rpupo63/blog-admin-console/errs"
	"github.com/rpupo63/blog-admin-console/models"
	"github.com/rpupo63/blog-admin-console/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// PostStore persists blog posts
type PostStore interface {
	FindAll(ctx context.Context) ([]models.BlogPost, error)
	Add(ctx context.Context, post *models.BlogPost) (*models.BlogPost, error)
	Update(ctx context.Context, post *models.BlogPost) (*models.BlogPost, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ImageUploader stores images and resolves their public address
type ImageUploader interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	PublicURL(path string) string
}

type KeywordSuggester interface {
	Suggest(ctx context.Context, blogContent string) ([]string, error)
}

// ImageFile is a file picked for upload
type ImageFile struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// EditorState is a point-in-time copy of the editor for rendering
type EditorState struct {
	Posts     []models.BlogPost
	Draft     Draft
	EditDraft Draft
	EditingID *uuid.UUID
	Keywords  []string
	Loaded    bool
}

func (s EditorState) Editing() bool {
	return s.EditingID != nil
}

// Editor is the post editor and list. It is idle or editing one post.
// The lock is never held across calls to the store, the uploader or the
// suggester, so overlapping operations resolve last-response-wins.
type Editor struct {
	mu        sync.Mutex
	posts     []models.BlogPost
	draft     Draft
	editDraft Draft
	editingID *uuid.UUID
	keywords  []string
	loaded    bool

	sessions  *SessionStore
	store     PostStore
	uploader  ImageUploader
	suggester KeywordSuggester
	notifier  Notifier
	metrics   *Metrics
	logger    zerolog.Logger
}

type EditorDeps struct {
	Store     PostStore
	Uploader  ImageUploader
	Suggester KeywordSuggester
	Notifier  Notifier
	Metrics   *Metrics
}

func NewEditor(deps EditorDeps, sessions *SessionStore) *Editor {
	return &Editor{
		sessions:  sessions,
		store:     deps.Store,
		uploader:  deps.Uploader,
		suggester: deps.Suggester,
		notifier:  deps.Notifier,
		metrics:   deps.Metrics,
		keywords:  []string{},
		logger:    log.With().Str("component", "editor").Logger(),
	}
}

// currentUserID reads the owner for a write from the store itself, so a
// sign-out is honoured even while its notifications are still in flight.
func (e *Editor) currentUserID() string {
	if session := e.sessions.Current(); session != nil {
		return session.UserID
	}
	return ""
}

func (e *Editor) State() EditorState {
	e.mu.Lock()
	defer e.mu.Unlock()

	state := EditorState{
		Posts:     slices.Clone(e.posts),
		Draft:     e.draft,
		EditDraft: e.editDraft,
		Keywords:  slices.Clone(e.keywords),
		Loaded:    e.loaded,
	}
	if e.editingID != nil {
		id := *e.editingID
		state.EditingID = &id
	}
	return state
}

// Mount loads the list the first time the editor is shown
func (e *Editor) Mount(ctx context.Context) {
	e.mu.Lock()
	loaded := e.loaded
	e.mu.Unlock()

	if !loaded {
		_ = e.Load(ctx)
	}
}

// Load replaces the list with all posts, newest first. On failure the
// previous list stays.
func (e *Editor) Load(ctx context.Context) (err error) {
	defer func() { e.metrics.observe("list", err) }()

	posts, err := e.store.FindAll(ctx)
	if err != nil {
		e.logger.Error().Err(err).Msg("failed to load blog posts")
		e.notifier.Notify(failure("Error loading blog posts", err))
		return err
	}
	if posts == nil {
		posts = []models.BlogPost{}
	}

	e.mu.Lock()
	e.posts = posts
	e.loaded = true
	e.mu.Unlock()
	return nil
}

// SetDraft replaces the new-post draft
func (e *Editor) SetDraft(d Draft) {
	e.mu.Lock()
	e.draft = d
	e.mu.Unlock()
}

// SetEditDraft replaces the edit draft. It is ignored while idle.
func (e *Editor) SetEditDraft(d Draft) {
	e.mu.Lock()
	if e.editingID != nil {
		e.editDraft = d
	}
	e.mu.Unlock()
}

// SetActiveDraft writes to the edit draft while editing and to the new-post
// draft otherwise.
func (e *Editor) SetActiveDraft(d Draft) {
	e.mu.Lock()
	if e.editingID != nil {
		e.editDraft = d
	} else {
		e.draft = d
	}
	e.mu.Unlock()
}

func (e *Editor) Create(ctx context.Context) (err error) {
	defer func() { e.metrics.observe("create", err) }()

	e.mu.Lock()
	draft := e.draft
	e.mu.Unlock()

	if err := validateDraft(draft); err != nil {
		e.notifier.Notify(failure("Error creating blog post", err))
		return err
	}
	userID := e.currentUserID()
	if userID == "" {
		err := errs.NewNotAuthenticatedError("create a blog post")
		e.notifier.Notify(failure("Error creating blog post", err))
		return err
	}

	created, err := e.store.Add(ctx, &models.BlogPost{
		Image:   draft.Image,
		Title:   draft.Title,
		Content: draft.Content,
		UserID:  userID,
	})
	if err != nil {
		e.logger.Error().Err(err).Msg("failed to create blog post")
		e.notifier.Notify(failure("Error creating blog post", err))
		return err
	}
	e.logger.Info().Str("postID", created.ID.String()).Msg("blog post created")

	e.mu.Lock()
	e.draft = Draft{}
	e.mu.Unlock()

	_ = e.Load(ctx)
	return nil
}

// Edit enters edit mode for a listed post. Unknown ids are ignored and a
// second Edit replaces the first.
func (e *Editor) Edit(id uuid.UUID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := slices.IndexFunc(e.posts, func(p models.BlogPost) bool { return p.ID == id })
	if i < 0 {
		return false
	}
	post := e.posts[i]
	e.editingID = &id
	e.editDraft = Draft{Image: post.Image, Title: post.Title, Content: post.Content}
	return true
}

// Cancel leaves edit mode without touching the store
func (e *Editor) Cancel() {
	e.mu.Lock()
	e.editingID = nil
	e.editDraft = Draft{}
	e.mu.Unlock()
}

func (e *Editor) Update(ctx context.Context) (err error) {
	defer func() { e.metrics.observe("update", err) }()

	e.mu.Lock()
	draft := e.editDraft
	var editingID *uuid.UUID
	if e.editingID != nil {
		id := *e.editingID
		editingID = &id
	}
	e.mu.Unlock()

	if editingID == nil {
		err := errs.NewNoEditingTargetError()
		e.notifier.Notify(failure("Error updating blog post", err))
		return err
	}
	if err := validateDraft(draft); err != nil {
		e.notifier.Notify(failure("Error updating blog post", err))
		return err
	}
	userID := e.currentUserID()
	if userID == "" {
		err := errs.NewNotAuthenticatedError("update a blog post")
		e.notifier.Notify(failure("Error updating blog post", err))
		return err
	}

	_, err = e.store.Update(ctx, &models.BlogPost{
		ID:      *editingID,
		Image:   draft.Image,
		Title:   draft.Title,
		Content: draft.Content,
		UserID:  userID,
	})
	if err != nil {
		e.logger.Error().Err(err).Str("postID", editingID.String()).Msg("failed to update blog post")
		e.notifier.Notify(failure("Error updating blog post", err))
		return err
	}

	e.Cancel()
	_ = e.Load(ctx)
	return nil
}

// Delete removes a post without confirmation
func (e *Editor) Delete(ctx context.Context, id uuid.UUID) (err error) {
	defer func() { e.metrics.observe("delete", err) }()

	if err := e.store.Delete(ctx, id); err != nil {
		e.logger.Error().Err(err).Str("postID", id.String()).Msg("failed to delete blog post")
		e.notifier.Notify(failure("Error deleting blog post", err))
		return err
	}

	_ = e.Load(ctx)
	return nil
}

// UploadImage stores file under "{title}-{filename}" and sets its public URL
// as the image of the active draft.
func (e *Editor) UploadImage(ctx context.Context, file *ImageFile) (err error) {
	defer func() { e.metrics.observe("upload_image", err) }()

	if file == nil || file.Body == nil || file.Name == "" {
		err := errs.NewNoFileSelectedError()
		e.notifier.Notify(failure("No file selected", err))
		return err
	}

	e.mu.Lock()
	editing := e.editingID != nil
	title := e.draft.Title
	if editing {
		title = e.editDraft.Title
	}
	e.mu.Unlock()

	path, err := e.uploader.Upload(ctx, services.BuildObjectKey(title, file.Name), file.Body, file.ContentType)
	if err != nil {
		e.logger.Error().Err(err).Str("file", file.Name).Msg("failed to upload image")
		e.notifier.Notify(failure("Error uploading image", err))
		return err
	}
	publicURL := e.uploader.PublicURL(path)

	e.mu.Lock()
	if editing && e.editingID != nil {
		e.editDraft.Image = publicURL
	} else if !editing {
		e.draft.Image = publicURL
	}
	e.mu.Unlock()

	e.notifier.Notify(success("Image uploaded", ""))
	return nil
}

// SuggestKeywords replaces the keyword list with suggestions for the active
// draft's title and content.
func (e *Editor) SuggestKeywords(ctx context.Context) (err error) {
	defer func() { e.metrics.observe("suggest_keywords", err) }()

	e.mu.Lock()
	draft := e.draft
	if e.editingID != nil {
		draft = e.editDraft
	}
	e.mu.Unlock()

	keywords, err := e.suggester.Suggest(ctx, strings.Join([]string{draft.Title, draft.Content}, " "))
	if err != nil {
		e.logger.Error().Err(err).Msg("failed to suggest keywords")
		e.notifier.Notify(failure("Error suggesting keywords", err))
		return err
	}

	e.mu.Lock()
	e.keywords = slices.Clone(keywords)
	e.mu.Unlock()

	e.notifier.Notify(success("Keywords suggested!", "Check the keywords section below."))
	return nil
}
