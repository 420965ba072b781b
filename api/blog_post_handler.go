package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/blog-admin-console/console"
	"github.com/rpupo63/blog-admin-console/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// multipart parts up to this size stay in memory
const multipartMemory = 1 << 20

type blogPostHandler struct {
	responder      Responder
	logger         zerolog.Logger
	posts          console.PostStore
	maxUploadBytes int64
}

func newBlogPostHandler(posts console.PostStore, maxUploadBytes int64) blogPostHandler {
	logger := log.With().Str("handlerName", "blogPostHandler").Logger()

	return blogPostHandler{
		responder:      NewResponder(logger),
		logger:         logger,
		posts:          posts,
		maxUploadBytes: maxUploadBytes,
	}
}

// editorPage renders the editor, loading the list on the first visit
func (h blogPostHandler) editorPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws := mustWorkspace(r)
		ws.Editor.Mount(r.Context())

		h.responder.Render(w, http.StatusOK, "editor", ws, pageData{
			Title:  "Blog Management",
			Editor: ws.Editor.State(),
		})
	}
}

// getAllBlogPosts returns every blog post as JSON, newest first
func (h blogPostHandler) getAllBlogPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blogPosts, err := h.posts.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, BlogPostCollection{
			BlogPosts: blogPosts,
			Total:     len(blogPosts),
		})
	}
}

func (h blogPostHandler) createBlogPost() http.HandlerFunc {
	return h.action(func(r *http.Request, ws *console.Workspace) {
		_ = ws.Editor.Create(r.Context())
	})
}

func (h blogPostHandler) editBlogPost() http.HandlerFunc {
	return h.action(func(r *http.Request, ws *console.Workspace) {
		id, err := uuid.Parse(chi.URLParam(r, "postID"))
		if err != nil {
			h.logger.Debug().Str("postID", chi.URLParam(r, "postID")).Msg("edit with invalid id ignored")
			return
		}
		ws.Editor.Edit(id)
	})
}

func (h blogPostHandler) updateBlogPost() http.HandlerFunc {
	return h.action(func(r *http.Request, ws *console.Workspace) {
		_ = ws.Editor.Update(r.Context())
	})
}

func (h blogPostHandler) cancelEdit() http.HandlerFunc {
	return h.action(func(r *http.Request, ws *console.Workspace) {
		ws.Editor.Cancel()
	})
}

func (h blogPostHandler) deleteBlogPost() http.HandlerFunc {
	return h.action(func(r *http.Request, ws *console.Workspace) {
		id, err := uuid.Parse(chi.URLParam(r, "postID"))
		if err != nil {
			ws.Inbox.Notify(console.Notification{
				Title:       "Error deleting blog post",
				Description: errs.NewBadRequestError("invalid postID").Error(),
				Variant:     console.VariantDestructive,
			})
			return
		}
		_ = ws.Editor.Delete(r.Context(), id)
	})
}

func (h blogPostHandler) suggestKeywords() http.HandlerFunc {
	return h.action(func(r *http.Request, ws *console.Workspace) {
		_ = ws.Editor.SuggestKeywords(r.Context())
	})
}

// uploadImage accepts a single image/* file up to the configured size
func (h blogPostHandler) uploadImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws := mustWorkspace(r)
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartMemory)

		if err := h.parseForm(r, ws); err != nil {
			h.notifyUploadError(ws, err)
			h.responder.FinishAction(w, r, ws, console.RouteEditor)
			return
		}

		file, header, err := r.FormFile("file")
		switch {
		case errors.Is(err, http.ErrMissingFile):
			_ = ws.Editor.UploadImage(r.Context(), nil)
		case err != nil:
			h.notifyUploadError(ws, errs.NewBadRequestError(err.Error()))
		default:
			defer file.Close()
			contentType := header.Header.Get("Content-Type")
			switch {
			case header.Filename == "" || header.Size == 0:
				_ = ws.Editor.UploadImage(r.Context(), nil)
			case header.Size > h.maxUploadBytes:
				h.notifyUploadError(ws, errs.NewMaxBodySizeExceededError(h.maxUploadBytes))
			case !strings.HasPrefix(contentType, "image/"):
				h.notifyUploadError(ws, errs.NewUnsupportedMediaTypeError(contentType, []string{"image/*"}))
			default:
				_ = ws.Editor.UploadImage(r.Context(), &console.ImageFile{
					Name:        header.Filename,
					ContentType: contentType,
					Body:        file,
				})
			}
		}

		h.responder.FinishAction(w, r, ws, console.RouteEditor)
	}
}

// action wraps an editor operation in the post/redirect/get flow. Submitted
// draft fields are copied into the active draft before the operation runs.
func (h blogPostHandler) action(run func(r *http.Request, ws *console.Workspace)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws := mustWorkspace(r)
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartMemory)

		if err := h.parseForm(r, ws); err != nil {
			h.logger.Warn().Err(err).Str("path", r.URL.Path).Msg("could not parse form")
			ws.Inbox.Notify(console.Notification{Title: "Invalid form", Description: err.Error(), Variant: console.VariantDestructive})
			h.responder.FinishAction(w, r, ws, console.RouteEditor)
			return
		}

		run(r, ws)
		h.responder.FinishAction(w, r, ws, console.RouteEditor)
	}
}

func (h blogPostHandler) parseForm(r *http.Request, ws *console.Workspace) error {
	err := r.ParseMultipartForm(multipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return errs.NewMaxBodySizeExceededError(h.maxUploadBytes)
		}
		return errs.NewBadRequestError(err.Error())
	}

	if _, submitted := r.PostForm["title"]; submitted {
		ws.Editor.SetActiveDraft(console.Draft{
			Image:   strings.TrimSpace(r.PostForm.Get("image")),
			Title:   strings.TrimSpace(r.PostForm.Get("title")),
			Content: r.PostForm.Get("content"),
		})
	}
	return nil
}

func (h blogPostHandler) notifyUploadError(ws *console.Workspace, err error) {
	h.logger.Warn().Err(err).Msg("upload rejected")
	ws.Inbox.Notify(console.Notification{
		Title:       "Error uploading image",
		Description: errs.Message(err),
		Variant:     console.VariantDestructive,
	})
}
