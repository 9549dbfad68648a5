package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/kintree/pkg/buildinfo"
	"github.com/matzehuels/kintree/pkg/cache"
	kerrors "github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/family"
	"github.com/matzehuels/kintree/pkg/graph"
	"github.com/matzehuels/kintree/pkg/layout"
	"github.com/matzehuels/kintree/pkg/pipeline"
	"github.com/matzehuels/kintree/pkg/storage"
	"github.com/matzehuels/kintree/pkg/suggest"
)

// =============================================================================
// Trees
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *Server) handleListTrees(w http.ResponseWriter, r *http.Request) {
	infos, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	if infos == nil {
		infos = []storage.Info{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"trees": infos})
}

func (s *Server) handleGetTree(w http.ResponseWriter, r *http.Request) {
	var doc graph.Document
	err := s.read(r.Context(), chi.URLParam(r, "name"), func(t *family.Tree) error {
		doc = graph.FromTree(t)
		return nil
	})
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// handlePutTree creates or replaces a tree. The undo history starts over.
func (s *Server) handlePutTree(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := storage.ValidateName(name); err != nil {
		writeError(w, s.logger, err)
		return
	}
	var doc graph.Document
	if err := decode(w, r, &doc); err != nil {
		writeError(w, s.logger, err)
		return
	}
	t, err := graph.ToTree(doc)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	// t belongs to the session once installed.
	out := graph.FromTree(t)
	if err := s.replace(r.Context(), name, t); err != nil {
		writeError(w, s.logger, err)
		return
	}
	s.logger.Info("tree saved", "tree", name, "people", len(out.People), "edges", len(out.Edges))
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteTree(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.remove(r.Context(), name); err != nil {
		writeError(w, s.logger, err)
		return
	}
	s.logger.Info("tree deleted", "tree", name)
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// People
// =============================================================================

func (s *Server) handleAddPerson(w http.ResponseWriter, r *http.Request) {
	var p family.Person
	if err := decode(w, r, &p); err != nil {
		writeError(w, s.logger, err)
		return
	}
	var id string
	t, err := s.mutate(r.Context(), chi.URLParam(r, "name"), func(ed *family.Editor) error {
		var err error
		id, err = ed.AddPerson(p)
		return err
	}, nil)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	added, _ := t.Person(id)
	writeJSON(w, http.StatusCreated, added)
}

func (s *Server) handleUpdatePerson(w http.ResponseWriter, r *http.Request) {
	var p family.Person
	if err := decode(w, r, &p); err != nil {
		writeError(w, s.logger, err)
		return
	}
	id := chi.URLParam(r, "id")
	if p.ID != "" && p.ID != id {
		writeError(w, s.logger, kerrors.New(kerrors.ErrCodeInvalidInput, "body id %q does not match path", p.ID).WithIDs(id))
		return
	}
	p.ID = id
	t, err := s.mutate(r.Context(), chi.URLParam(r, "name"), func(ed *family.Editor) error {
		return ed.UpdatePerson(p)
	}, nil)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	updated, _ := t.Person(id)
	writeJSON(w, http.StatusOK, updated)
}

type removeResponse struct {
	Edges    []family.Edge `json:"edges"`
	Orphaned []string      `json:"orphaned"`
}

func (s *Server) handleRemovePerson(w http.ResponseWriter, r *http.Request) {
	cascade := false
	if v := r.URL.Query().Get("cascade"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, s.logger, kerrors.New(kerrors.ErrCodeInvalidInput, "invalid cascade value %q", v))
			return
		}
		cascade = b
	}
	var res family.RemoveResult
	_, err := s.mutate(r.Context(), chi.URLParam(r, "name"), func(ed *family.Editor) error {
		var err error
		res, err = ed.RemovePerson(chi.URLParam(r, "id"), family.RemoveOptions{Cascade: cascade})
		return err
	}, nil)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	out := removeResponse{Edges: res.Edges, Orphaned: res.Orphaned}
	if out.Edges == nil {
		out.Edges = []family.Edge{}
	}
	if out.Orphaned == nil {
		out.Orphaned = []string{}
	}
	writeJSON(w, http.StatusOK, out)
}

// =============================================================================
// Relationships
// =============================================================================

type relationshipRequest struct {
	From string         `json:"fromId"`
	To   string         `json:"toId"`
	Type family.RelType `json:"type"`
}

func (s *Server) handleRelate(w http.ResponseWriter, r *http.Request) {
	var req relationshipRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	_, err := s.mutate(r.Context(), chi.URLParam(r, "name"), func(ed *family.Editor) error {
		return ed.AddRelationship(req.From, req.To, req.Type)
	}, nil)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, family.Edge{From: req.From, To: req.To, Type: req.Type, Bidirectional: req.Type.Undirected()})
}

// handleUnrelate removes a relationship. Removing one that does not exist
// succeeds without recording an undo step.
func (s *Server) handleUnrelate(w http.ResponseWriter, r *http.Request) {
	var req relationshipRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	if !req.Type.Valid() {
		writeError(w, s.logger, kerrors.New(kerrors.ErrCodeInvalidRelationship, "unknown relationship type %q", req.Type).WithIDs(req.From, req.To))
		return
	}
	_, err := s.mutate(r.Context(), chi.URLParam(r, "name"), func(ed *family.Editor) error {
		ed.RemoveRelationship(req.From, req.To, req.Type)
		return nil
	}, nil)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// History
// =============================================================================

type historyResponse struct {
	Version uint64 `json:"version"`
	People  int    `json:"people"`
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	s.history(w, r, (*family.Editor).Undo, (*family.Editor).Redo)
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	s.history(w, r, (*family.Editor).Redo, (*family.Editor).Undo)
}

func (s *Server) history(w http.ResponseWriter, r *http.Request, step, revert func(*family.Editor) error) {
	t, err := s.mutate(r.Context(), chi.URLParam(r, "name"), step, revert)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{Version: t.Version(), People: t.Len()})
}

// =============================================================================
// Derived views
// =============================================================================

// handleLayout derives the positioned view. Query parameters: root, focus,
// orientation, direction and refresh.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	q := r.URL.Query()

	opts := pipeline.Options{
		Settings: s.settings,
		Suggest:  s.suggest,
		RootID:   q.Get("root"),
		FocusID:  q.Get("focus"),
	}
	if o := q.Get("orientation"); o != "" {
		opts.Settings.Orientation = layout.Orientation(o)
		opts.Settings.Direction = ""
	}
	if d := q.Get("direction"); d != "" {
		opts.Settings.Direction = layout.Direction(d)
	}
	if v := q.Get("refresh"); v != "" {
		refresh, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, s.logger, kerrors.New(kerrors.ErrCodeInvalidInput, "invalid refresh value %q", v))
			return
		}
		opts.Refresh = refresh
	}

	runner := &pipeline.Runner{
		Cache:  s.runner.Cache,
		Keyer:  cache.NewScopedKeyer(s.runner.Keyer, "tree:"+name+":"),
		Logger: s.runner.Logger,
		TTL:    s.runner.TTL,
	}
	var res *pipeline.Result
	err := s.read(r.Context(), name, func(t *family.Tree) error {
		var err error
		res, err = runner.Derive(r.Context(), t, opts)
		return err
	})
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	if res.CacheHit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	writeJSON(w, http.StatusOK, res.Layout)
}

// handleSuggestions lists the review suggestions, optionally only those
// concerning ?person=.
func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	var out []suggest.Suggestion
	err := s.read(r.Context(), chi.URLParam(r, "name"), func(t *family.Tree) error {
		out = suggest.Compute(t, s.suggest)
		return nil
	})
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	if id := r.URL.Query().Get("person"); id != "" {
		out = suggest.ForPerson(out, id)
	}
	if out == nil {
		out = []suggest.Suggestion{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"suggestions": out})
}
