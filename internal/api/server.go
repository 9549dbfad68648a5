// Package api serves family trees over HTTP.
//
// Every tree is addressed by name. The server keeps one family.Editor per
// tree in memory, so undo and redo work across requests, and writes the tree
// to the configured storage.Store after every successful mutation. Requests
// on the same tree are serialized; different trees proceed in parallel.
//
// Errors are returned as JSON:
//
//	{"code": "INVALID_RELATIONSHIP", "message": "...", "ids": ["a", "b"]}
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/kintree/pkg/family"
	"github.com/matzehuels/kintree/pkg/layout"
	"github.com/matzehuels/kintree/pkg/pipeline"
	"github.com/matzehuels/kintree/pkg/storage"
	"github.com/matzehuels/kintree/pkg/suggest"
)

// Config holds the server's collaborators.
type Config struct {
	Store  storage.Store
	Runner *pipeline.Runner // nil derives without a cache
	Logger *log.Logger

	// Settings and Suggest are the derivation defaults. Layout requests may
	// override orientation and direction.
	Settings layout.Settings
	Suggest  suggest.Options

	// HistoryLimit is the undo depth kept per tree.
	HistoryLimit int
}

// Server is the HTTP API.
type Server struct {
	store    storage.Store
	runner   *pipeline.Runner
	logger   *log.Logger
	settings layout.Settings
	suggest  suggest.Options
	limit    int

	mu    sync.Mutex
	trees map[string]*session
}

// session is the in-memory state of one tree.
type session struct {
	mu   sync.Mutex
	ed   *family.Editor // nil until loaded or saved
	gone bool           // no longer in Server.trees; look the name up again
}

// New creates a server.
func New(cfg Config) *Server {
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Server{
		store:    cfg.Store,
		runner:   cfg.Runner,
		logger:   cfg.Logger,
		settings: cfg.Settings.WithDefaults(),
		suggest:  cfg.Suggest.WithDefaults(),
		limit:    cfg.HistoryLimit,
		trees:    make(map[string]*session),
	}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		hooks,
	)

	r.Get("/healthz", s.handleHealth)
	r.Route("/trees", func(r chi.Router) {
		r.Get("/", s.handleListTrees)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", s.handleGetTree)
			r.Put("/", s.handlePutTree)
			r.Delete("/", s.handleDeleteTree)

			r.Post("/people", s.handleAddPerson)
			r.Put("/people/{id}", s.handleUpdatePerson)
			r.Delete("/people/{id}", s.handleRemovePerson)

			r.Post("/relationships", s.handleRelate)
			r.Delete("/relationships", s.handleUnrelate)

			r.Post("/undo", s.handleUndo)
			r.Post("/redo", s.handleRedo)

			r.Get("/layout", s.handleLayout)
			r.Get("/suggestions", s.handleSuggestions)
		})
	})
	return r
}

// ServeOptions configures Serve.
type ServeOptions struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Serve listens on opts.Addr and blocks until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Serve(ctx context.Context, opts ServeOptions) error {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           s.Handler(),
		ReadTimeout:       opts.ReadTimeout,
		WriteTimeout:      opts.WriteTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return egctx
		},
	}

	eg.Go(func() error {
		s.logger.Info("listening", "addr", opts.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.ShutdownTimeout)
		defer cancel()

		s.logger.Debug("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// acquire returns the tree's session with its lock held. A name seen for the
// first time gets a fresh session, inserted already locked, which load fills
// from the store outside s.mu: a slow load only holds up requests for the
// same tree. Without load the session may come back empty for the caller to
// fill.
func (s *Server) acquire(ctx context.Context, name string, load bool) (*session, error) {
	if err := storage.ValidateName(name); err != nil {
		return nil, err
	}
	for {
		s.mu.Lock()
		ss, ok := s.trees[name]
		if !ok {
			ss = &session{}
			ss.mu.Lock()
			s.trees[name] = ss
		}
		s.mu.Unlock()

		if ok {
			ss.mu.Lock()
			if ss.gone {
				ss.mu.Unlock()
				continue
			}
		}
		if ss.ed != nil || !load {
			return ss, nil
		}
		t, err := s.store.Load(ctx, name)
		if err != nil {
			s.drop(name, ss)
			ss.mu.Unlock()
			return nil, err
		}
		ss.ed = family.NewEditor(t, s.limit)
		s.logger.Debug("tree loaded", "tree", name, "people", t.Len())
		return ss, nil
	}
}

// drop retires ss. Callers hold ss.mu.
func (s *Server) drop(name string, ss *session) {
	ss.gone = true
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.trees[name] == ss {
		delete(s.trees, name)
	}
}

// replace stores t under name and makes it the tree's state with an empty
// history. The session stays locked across the write, so a mutation queued
// behind it applies to t rather than saving the tree it replaced.
func (s *Server) replace(ctx context.Context, name string, t *family.Tree) error {
	ss, err := s.acquire(ctx, name, false)
	if err != nil {
		return err
	}
	defer ss.mu.Unlock()

	if err := s.store.Save(ctx, name, t); err != nil {
		if ss.ed == nil {
			s.drop(name, ss)
		}
		return err
	}
	ss.ed = family.NewEditor(t, s.limit)
	return nil
}

// remove deletes the stored tree. The session is retired either way; the
// next request loads whatever the store holds.
func (s *Server) remove(ctx context.Context, name string) error {
	ss, err := s.acquire(ctx, name, false)
	if err != nil {
		return err
	}
	defer ss.mu.Unlock()
	s.drop(name, ss)
	return s.store.Delete(ctx, name)
}

// mutate runs fn on the tree's editor and persists the result. When the
// store rejects the write, revert takes the step back so memory and storage
// agree. A nil revert undoes the step.
func (s *Server) mutate(ctx context.Context, name string, fn, revert func(ed *family.Editor) error) (*family.Tree, error) {
	ss, err := s.acquire(ctx, name, true)
	if err != nil {
		return nil, err
	}
	defer ss.mu.Unlock()

	before := ss.ed.Tree().Version()
	if err := fn(ss.ed); err != nil {
		return nil, err
	}
	if ss.ed.Tree().Version() == before {
		return ss.ed.Tree(), nil
	}
	if err := s.store.Save(ctx, name, ss.ed.Tree()); err != nil {
		if revert == nil {
			revert = (*family.Editor).Undo
		}
		_ = revert(ss.ed)
		return nil, fmt.Errorf("save tree %s: %w", name, err)
	}
	return ss.ed.Tree(), nil
}

// read runs fn with the tree locked.
func (s *Server) read(ctx context.Context, name string, fn func(t *family.Tree) error) error {
	ss, err := s.acquire(ctx, name, true)
	if err != nil {
		return err
	}
	defer ss.mu.Unlock()
	return fn(ss.ed.Tree())
}
