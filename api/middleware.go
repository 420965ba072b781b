package api

import (
	"net/http"
	"os"
	"runtime/debug"
	"time"

	"github.com/rpupo63/blog-admin-console/console"
	"github.com/rpupo63/blog-admin-console/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// gateMiddleware lets a request through only when the workspace's auth gate allows it
type gateMiddleware struct {
	responder Responder
}

func newGateMiddleware() gateMiddleware {
	logger := log.With().Str("handlerName", "gateMiddleware").Logger()
	return gateMiddleware{
		responder: NewResponder(logger),
	}
}

// pages renders the loading placeholder and redirects to the login route
func (m gateMiddleware) pages(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, ok := ctxGetWorkspace(r.Context())
		if !ok {
			m.responder.WriteError(w, errs.NewInternalError("workspace missing from request"))
			return
		}

		if !ws.Gate.Allow() {
			to, navigated := ws.Nav.Take()
			if !navigated {
				to = console.RouteLogin
			}
			m.responder.RenderLoading(w, to)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// api answers 401 with a JSON error instead of redirecting
func (m gateMiddleware) api(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, ok := ctxGetWorkspace(r.Context())
		if !ok || !ws.Gate.Allow() {
			if ok {
				_, _ = ws.Nav.Take()
			}
			m.responder.WriteError(w, errs.Unauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusResponseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusResponseWriter) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		w.status = statusCode
		w.wroteHeader = true
		w.ResponseWriter.WriteHeader(statusCode)
	}
}

func (w *statusResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func LogInternalServerErrors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srw := &statusResponseWriter{ResponseWriter: w, status: 200}

		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Interface("panic", err).
					Str("stack", string(debug.Stack())).
					Msg("Recovered from panic")

				if !srw.wroteHeader {
					srw.WriteHeader(http.StatusInternalServerError)
				}
			}
		}()

		next.ServeHTTP(srw, r)

		if srw.status == http.StatusInternalServerError {
			log.Error().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("500 error response")
		}
	})
}

// ColoredHTTPLoggingMiddleware logs HTTP requests with colored output based on status codes
func ColoredHTTPLoggingMiddleware(next http.Handler) http.Handler {
	colorLogger := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		srw := &statusResponseWriter{ResponseWriter: w, status: 200}

		next.ServeHTTP(srw, r)

		var logEvent *zerolog.Event
		switch {
		case srw.status >= 500:
			logEvent = colorLogger.Error()
		case srw.status >= 400:
			logEvent = colorLogger.Warn()
		default:
			logEvent = colorLogger.Info()
		}

		logEvent.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", srw.status).
			Dur("duration", time.Since(start)).
			Str("remote_addr", r.RemoteAddr).
			Msg("HTTP Request")
	})
}
