// Package server exposes documents over a JSON HTTP API.
//
// Every open document is a session holding its own editor, so edits made
// through the API have the same undo history and merge behavior as the
// interactive editor. Requests on one document are serialized; different
// documents are edited concurrently. Changes stay in memory until the
// document is saved.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/knotedit/pkg/buildinfo"
	"github.com/matzehuels/knotedit/pkg/cache"
	"github.com/matzehuels/knotedit/pkg/config"
	"github.com/matzehuels/knotedit/pkg/editor"
	kerrors "github.com/matzehuels/knotedit/pkg/errors"
	kio "github.com/matzehuels/knotedit/pkg/io"
	"github.com/matzehuels/knotedit/pkg/observability"
	"github.com/matzehuels/knotedit/pkg/store"
)

// Server serves the document API.
type Server struct {
	store  store.Store
	cfg    *config.Config
	logger *log.Logger
	cache  cache.Cache
	router chi.Router

	mu       sync.Mutex
	sessions map[string]*session
	// deletes counts document deletions, so a load that raced one is
	// not registered.
	deletes uint64
}

// session is an open document.
type session struct {
	mu     sync.Mutex
	id     string
	name   string
	ed     *editor.Editor
	closed bool
}

// Option configures a [Server].
type Option func(*Server)

// WithLogger sets the logger. The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRenderCache caches rendered pictures. By default nothing is cached.
func WithRenderCache(c cache.Cache) Option {
	return func(s *Server) {
		if c != nil {
			s.cache = c
		}
	}
}

// New creates a server storing documents in st. A nil cfg uses
// [config.Default].
func New(st store.Store, cfg *config.Config, opts ...Option) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Server{
		store:    st,
		cfg:      cfg,
		logger:   log.Default(),
		cache:    cache.NewNullCache(),
		sessions: make(map[string]*session),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
	})

	r.Route("/documents", func(r chi.Router) {
		r.Get("/", s.handle(s.listDocuments))
		r.Post("/", s.handle(s.createDocument))

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.withSession(s.getDocument))
			r.Delete("/", s.handle(s.deleteDocument))

			r.Post("/nodes", s.withSession(s.addNode))
			r.Patch("/nodes/{node}", s.withSession(s.moveNode))
			r.Delete("/nodes/{node}", s.withSession(s.removeNode))

			r.Post("/edges", s.withSession(s.addEdge))
			r.Put("/edges/{edge}/type", s.withSession(s.setEdgeType))
			r.Delete("/edges/{edge}", s.withSession(s.removeEdge))

			r.Put("/style/{param}", s.withSession(s.setStyle))

			r.Post("/undo", s.withSession(s.undo))
			r.Post("/redo", s.withSession(s.redo))
			r.Get("/history", s.withSession(s.history))
			r.Post("/save", s.withSession(s.save))

			r.Get("/render.svg", s.withSession(s.renderSVG))
		})
	})
	return r
}

// logRequests logs every request and reports it to the HTTP hooks.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		observability.HTTP().OnRequest(r.Context(), r.Method, route)
		observability.HTTP().OnResponse(r.Context(), r.Method, route, status, time.Since(start))
		s.logger.Info("request", "method", r.Method, "route", route, "status", status,
			"took", time.Since(start).Round(time.Microsecond), "id", middleware.GetReqID(r.Context()))
	})
}

// handlerFunc is an HTTP handler that reports failures as errors.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// sessionFunc is a handler working on an open document. It runs with the
// session locked.
type sessionFunc func(w http.ResponseWriter, r *http.Request, sess *session) error

func (s *Server) handle(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			s.writeError(w, r, err)
		}
	}
}

func (s *Server) withSession(fn sessionFunc) http.HandlerFunc {
	return s.handle(func(w http.ResponseWriter, r *http.Request) error {
		sess, err := s.session(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			return err
		}
		if err := sess.lock(); err != nil {
			return err
		}
		defer sess.mu.Unlock()
		return fn(w, r, sess)
	})
}

// session returns the open session of a document, loading it from the
// store on first use. The store is read without holding the server lock.
func (s *Server) session(ctx context.Context, id string) (*session, error) {
	if err := kerrors.ValidateDocumentID(id); err != nil {
		return nil, err
	}

	for {
		s.mu.Lock()
		sess, ok := s.sessions[id]
		deletes := s.deletes
		s.mu.Unlock()
		if ok {
			return sess, nil
		}

		loaded, err := s.load(ctx, id)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		if sess, ok := s.sessions[id]; ok {
			s.mu.Unlock()
			loaded.ed.Close()
			return sess, nil
		}
		if s.deletes == deletes {
			s.sessions[id] = loaded
			s.mu.Unlock()
			return loaded, nil
		}
		s.mu.Unlock()
		loaded.ed.Close()
	}
}

// load reads a document from the store into a new session.
func (s *Server) load(ctx context.Context, id string) (*session, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, kerrors.Wrap(kerrors.ErrCodeStorage, err, "load document %s", id)
	}
	if rec == nil {
		return nil, notFound(id)
	}
	doc, err := kio.Unmarshal(rec.Data)
	if err != nil {
		return nil, kerrors.Wrap(kerrors.ErrCodeInvalidFormat, err, "decode document %s", id)
	}
	return s.open(rec.ID, rec.Name, doc)
}

func notFound(id string) error {
	return kerrors.New(kerrors.ErrCodeDocumentNotFound, "document %s not found", id)
}

// lock locks an open session. A session closed while the caller waited
// reports its document as not found.
func (sess *session) lock() error {
	sess.mu.Lock()
	if sess.closed {
		sess.mu.Unlock()
		return notFound(sess.id)
	}
	return nil
}

// open creates a session editing doc with a fresh, clean history.
func (s *Server) open(id, name string, doc *kio.Document) (*session, error) {
	ed := editor.New(s.cfg.NewGraph(),
		editor.WithLogger(s.logger.With("document", id)),
		editor.WithUndoLimit(s.cfg.History.UndoLimit))
	if err := ed.Load(doc); err != nil {
		return nil, err
	}
	if err := ed.ClearHistory(); err != nil {
		return nil, err
	}
	return &session{id: id, name: name, ed: ed}, nil
}

// remove closes the session of a document and deletes it from the store.
// The server lock is held throughout, so no request can load the document
// again between the two steps; requests already waiting on the session
// find it closed.
func (s *Server) remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++
	if sess, ok := s.sessions[id]; ok {
		sess.mu.Lock()
		sess.closed = true
		sess.ed.Close()
		sess.mu.Unlock()
		delete(s.sessions, id)
	}
	return s.store.Delete(ctx, id)
}

// Close closes every open session. Unsaved changes are discarded.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		sess.mu.Lock()
		if sess.ed.Modified() {
			s.logger.Warn("discarding unsaved changes", "document", id)
		}
		sess.closed = true
		sess.ed.Close()
		sess.mu.Unlock()
	}
	clear(s.sessions)
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := kerrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorResponse{Error: kerrors.UserMessage(err), Code: string(kerrors.GetCode(err))})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Server", buildinfo.UserAgent())
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 8<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return kerrors.Wrap(kerrors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}
