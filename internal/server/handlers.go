package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/knotedit/pkg/cache"
	kerrors "github.com/matzehuels/knotedit/pkg/errors"
	"github.com/matzehuels/knotedit/pkg/graph"
	kio "github.com/matzehuels/knotedit/pkg/io"
	"github.com/matzehuels/knotedit/pkg/render"
	"github.com/matzehuels/knotedit/pkg/store"
	"github.com/matzehuels/knotedit/pkg/style"
)

type documentInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
}

// state is returned by every edit so clients can update their undo UI.
type state struct {
	Index    int    `json:"index"`
	Count    int    `json:"count"`
	Modified bool   `json:"modified"`
	UndoText string `json:"undo_text,omitempty"`
	RedoText string `json:"redo_text,omitempty"`
}

func stateOf(sess *session) state {
	h := sess.ed.History()
	return state{
		Index:    h.Index(),
		Count:    h.Count(),
		Modified: sess.ed.Modified(),
		UndoText: h.UndoText(),
		RedoText: h.RedoText(),
	}
}

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) error {
	recs, err := s.store.List(r.Context())
	if err != nil {
		return kerrors.Wrap(kerrors.ErrCodeStorage, err, "list documents")
	}
	out := make([]documentInfo, len(recs))
	for i, rec := range recs {
		out[i] = documentInfo{ID: rec.ID, Name: rec.Name, UpdatedAt: rec.UpdatedAt}
	}
	writeJSON(w, http.StatusOK, out)
	return nil
}

type createRequest struct {
	Name string `json:"name"`
	// Document is an optional initial document in the JSON file format.
	Document json.RawMessage `json:"document,omitempty"`
}

func (s *Server) createDocument(w http.ResponseWriter, r *http.Request) error {
	var req createRequest
	if err := decodeBody(w, r, &req); err != nil {
		return err
	}
	if err := kerrors.ValidateDocumentName(req.Name); err != nil {
		return err
	}
	doc := kio.FromGraph(s.cfg.NewGraph())
	if len(req.Document) > 0 {
		var err error
		if doc, err = kio.Unmarshal(req.Document); err != nil {
			return kerrors.Wrap(kerrors.ErrCodeInvalidFormat, err, "invalid document")
		}
	}

	rec := store.NewRecord(req.Name)
	sess, err := s.open(rec.ID, rec.Name, doc)
	if err != nil {
		return err
	}
	if err := s.persist(r, sess, rec); err != nil {
		return err
	}

	s.mu.Lock()
	s.sessions[rec.ID] = sess
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, documentInfo{ID: rec.ID, Name: rec.Name, UpdatedAt: rec.UpdatedAt})
	return nil
}

func (s *Server) deleteDocument(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "id")
	if err := kerrors.ValidateDocumentID(id); err != nil {
		return err
	}
	if err := s.remove(r.Context(), id); err != nil {
		return kerrors.Wrap(kerrors.ErrCodeStorage, err, "delete document %s", id)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request, sess *session) error {
	writeJSON(w, http.StatusOK, sess.ed.Document())
	return nil
}

type pointRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type created struct {
	ID uint64 `json:"id"`
	state
}

func (s *Server) addNode(w http.ResponseWriter, r *http.Request, sess *session) error {
	var req pointRequest
	if err := decodeBody(w, r, &req); err != nil {
		return err
	}
	n := sess.ed.AddNode(style.Point{X: req.X, Y: req.Y})
	writeJSON(w, http.StatusCreated, created{ID: uint64(n.ID()), state: stateOf(sess)})
	return nil
}

func (s *Server) moveNode(w http.ResponseWriter, r *http.Request, sess *session) error {
	n, err := nodeParam(r, sess.ed.Graph(), "node")
	if err != nil {
		return err
	}
	var req pointRequest
	if err := decodeBody(w, r, &req); err != nil {
		return err
	}
	if err := sess.ed.MoveNode(n, style.Point{X: req.X, Y: req.Y}); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, stateOf(sess))
	return nil
}

func (s *Server) removeNode(w http.ResponseWriter, r *http.Request, sess *session) error {
	n, err := nodeParam(r, sess.ed.Graph(), "node")
	if err != nil {
		return err
	}
	if err := sess.ed.RemoveNode(n); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, stateOf(sess))
	return nil
}

type edgeRequest struct {
	From uint64 `json:"from"`
	To   uint64 `json:"to"`
}

func (s *Server) addEdge(w http.ResponseWriter, r *http.Request, sess *session) error {
	var req edgeRequest
	if err := decodeBody(w, r, &req); err != nil {
		return err
	}
	g := sess.ed.Graph()
	a, b := g.Node(graph.NodeID(req.From)), g.Node(graph.NodeID(req.To))
	if a == nil || b == nil {
		return kerrors.New(kerrors.ErrCodeNodeNotFound, "edge endpoints %d and %d must exist", req.From, req.To)
	}
	e, err := sess.ed.AddEdge(a, b)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, created{ID: uint64(e.ID()), state: stateOf(sess)})
	return nil
}

type edgeTypeRequest struct {
	Type style.EdgeType `json:"type"`
}

func (s *Server) setEdgeType(w http.ResponseWriter, r *http.Request, sess *session) error {
	e, err := edgeParam(r, sess.ed.Graph())
	if err != nil {
		return err
	}
	var req edgeTypeRequest
	if err := decodeBody(w, r, &req); err != nil {
		return err
	}
	if err := sess.ed.SetEdgeType([]*graph.Edge{e}, req.Type); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, stateOf(sess))
	return nil
}

func (s *Server) removeEdge(w http.ResponseWriter, r *http.Request, sess *session) error {
	e, err := edgeParam(r, sess.ed.Graph())
	if err != nil {
		return err
	}
	if err := sess.ed.RemoveEdge(e); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, stateOf(sess))
	return nil
}

// styleRequest sets a parameter on the listed nodes, the listed edges, or
// the diagram default when both lists are empty.
type styleRequest struct {
	Value float64  `json:"value"`
	Nodes []uint64 `json:"nodes,omitempty"`
	Edges []uint64 `json:"edges,omitempty"`
}

func (s *Server) setStyle(w http.ResponseWriter, r *http.Request, sess *session) error {
	p, err := style.ParseParam(chi.URLParam(r, "param"))
	if err != nil {
		return kerrors.Wrap(kerrors.ErrCodeInvalidStyle, err, "set style")
	}
	var req styleRequest
	if err := decodeBody(w, r, &req); err != nil {
		return err
	}

	g := sess.ed.Graph()
	switch {
	case len(req.Nodes) > 0:
		nodes := make([]*graph.Node, len(req.Nodes))
		for i, id := range req.Nodes {
			nodes[i] = g.Node(graph.NodeID(id))
		}
		err = sess.ed.SetNodeParam(nodes, p, req.Value)
	case len(req.Edges) > 0:
		edges := make([]*graph.Edge, len(req.Edges))
		for i, id := range req.Edges {
			edges[i] = g.Edge(graph.EdgeID(id))
		}
		err = sess.ed.SetEdgeParam(edges, p, req.Value)
	default:
		sess.ed.SetKnotParam(p, req.Value)
	}
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, stateOf(sess))
	return nil
}

func (s *Server) undo(w http.ResponseWriter, r *http.Request, sess *session) error {
	if err := sess.ed.Undo(); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, stateOf(sess))
	return nil
}

func (s *Server) redo(w http.ResponseWriter, r *http.Request, sess *session) error {
	if err := sess.ed.Redo(); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, stateOf(sess))
	return nil
}

type historyResponse struct {
	state
	Clean   int      `json:"clean"`
	Entries []string `json:"entries"`
}

func (s *Server) history(w http.ResponseWriter, r *http.Request, sess *session) error {
	h := sess.ed.History()
	writeJSON(w, http.StatusOK, historyResponse{state: stateOf(sess), Clean: h.CleanIndex(), Entries: h.Texts()})
	return nil
}

func (s *Server) save(w http.ResponseWriter, r *http.Request, sess *session) error {
	rec := &store.Record{ID: sess.id, Name: sess.name}
	if err := s.persist(r, sess, rec); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, stateOf(sess))
	return nil
}

// persist writes the session's document to rec and the store, then marks
// the session saved.
func (s *Server) persist(r *http.Request, sess *session, rec *store.Record) error {
	data, err := kio.Marshal(sess.ed.Document())
	if err != nil {
		return kerrors.Wrap(kerrors.ErrCodeInternal, err, "encode document")
	}
	rec.Data = data
	rec.UpdatedAt = time.Now().UTC()
	if err := s.store.Put(r.Context(), rec); err != nil {
		return kerrors.Wrap(kerrors.ErrCodeStorage, err, "save document %s", rec.ID)
	}
	sess.ed.MarkSaved()
	return nil
}

// renderTTL bounds how long unused pictures stay in the cache.
const renderTTL = 24 * time.Hour

func (s *Server) renderSVG(w http.ResponseWriter, r *http.Request, sess *session) error {
	ctx := r.Context()
	dot := render.ToDOT(sess.ed.Graph(), render.Options{Detailed: r.URL.Query().Has("detailed")})
	key := cache.RenderKey(dot, string(render.FormatSVG))

	svg, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("read render cache", "err", err)
	}
	if !hit {
		if svg, err = render.RenderSVG(ctx, dot); err != nil {
			return kerrors.Wrap(kerrors.ErrCodeInternal, err, "render")
		}
		if err := s.cache.Set(ctx, key, svg, renderTTL); err != nil {
			s.logger.Warn("write render cache", "err", err)
		}
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
	return nil
}

func nodeParam(r *http.Request, g *graph.Graph, key string) (*graph.Node, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, key), 10, 64)
	if err != nil {
		return nil, kerrors.Wrap(kerrors.ErrCodeInvalidInput, err, "invalid node ID")
	}
	n := g.Node(graph.NodeID(id))
	if n == nil {
		return nil, kerrors.New(kerrors.ErrCodeNodeNotFound, "node %d not found", id)
	}
	return n, nil
}

func edgeParam(r *http.Request, g *graph.Graph) (*graph.Edge, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "edge"), 10, 64)
	if err != nil {
		return nil, kerrors.Wrap(kerrors.ErrCodeInvalidInput, err, "invalid edge ID")
	}
	e := g.Edge(graph.EdgeID(id))
	if e == nil {
		return nil, kerrors.New(kerrors.ErrCodeEdgeNotFound, "edge %d not found", id)
	}
	return e, nil
}
