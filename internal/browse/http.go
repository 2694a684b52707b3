package browse

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"Streamflix/internal/catalog"
	"Streamflix/internal/query"
	"Streamflix/internal/session"
	"Streamflix/pkg/kit"
)

const defaultWaitTimeout = 2 * time.Second

type Server struct {
	Store    *catalog.Store
	Engine   *query.Engine
	Sessions *session.Manager
	Log      *zap.Logger

	// Limiter guards query updates; nil disables limiting.
	Limiter     *kit.IPRateLimiter
	WaitTimeout time.Duration
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.readyz)

	r.Get("/items", s.listItems)
	r.Get("/items/{id}", s.getItem)
	r.Get("/featured", s.featured)
	r.Get("/categories", s.listCategories)
	r.Get("/categories/{name}", s.categoryPage)
	r.Get("/search", s.search)

	r.Post("/sessions", s.createSession)
	r.Route("/sessions/{sid}", func(sr chi.Router) {
		sr.Delete("/", s.deleteSession)
		sr.Get("/home", s.home)
		sr.Get("/rows/{name}", s.row)
		sr.Post("/rows/{name}/more", s.loadMore)
		sr.Get("/search", s.sessionSearch)
		if s.Limiter != nil {
			sr.With(s.Limiter.Middleware).Put("/query", s.setQuery)
		} else {
			sr.Put("/query", s.setQuery)
		}
	})

	return r
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
	defer cancel()

	if err := s.Store.Ping(ctx); err != nil {
		s.logger().Warn("readyz failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) listItems(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Store.Items())
}

func (s *Server) getItem(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad id", map[string]any{"id": raw})
		return
	}

	it, ok := s.Store.Item(id)
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, it)
}

func (s *Server) featured(w http.ResponseWriter, r *http.Request) {
	it, ok := s.Store.Featured()
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "catalog is empty", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, it)
}

type categoriesResp struct {
	Categories []string      `json:"categories"`
	Rows       []catalog.Row `json:"rows"`
}

func (s *Server) listCategories(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, categoriesResp{
		Categories: s.Store.Categories(),
		Rows:       s.Store.Rows(),
	})
}

func (s *Server) categoryPage(w http.ResponseWriter, r *http.Request) {
	page, err := intParam(r, "page", 1)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}
	size, err := intParam(r, "size", catalog.DefaultPageSize)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, s.Store.Page(chi.URLParam(r, "name"), page, size))
}

type searchResp struct {
	Query string         `json:"query"`
	Items []catalog.Item `json:"items"`
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	kit.WriteJSON(w, http.StatusOK, searchResp{Query: q, Items: s.Engine.Search(q)})
}

type createSessionResp struct {
	ID string `json:"id"`
}

func (s *Server) createSession(w http.ResponseWriter, _ *http.Request) {
	sess := s.Sessions.Create()
	kit.WriteJSON(w, http.StatusCreated, createSessionResp{ID: sess.ID})
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sid")
	if !s.Sessions.Delete(id) {
		kit.WriteError(w, r, http.StatusNotFound, "session not found", map[string]any{"id": id})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type homeRow struct {
	catalog.Row
	Cursor int          `json:"cursor"`
	Page   catalog.Page `json:"page"`
}

type homeResp struct {
	Featured *catalog.Item `json:"featured,omitempty"`
	Rows     []homeRow     `json:"rows"`
}

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var resp homeResp
	if it, ok := s.Store.Featured(); ok {
		resp.Featured = &it
	}
	rows := s.Store.Rows()
	resp.Rows = make([]homeRow, 0, len(rows))
	for _, row := range rows {
		resp.Rows = append(resp.Rows, homeRow{
			Row:    row,
			Cursor: sess.Cursor(row.Key),
			Page:   sess.Row(row.Key),
		})
	}
	kit.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) row(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	kit.WriteJSON(w, http.StatusOK, sess.Row(chi.URLParam(r, "name")))
}

type loadMoreResp struct {
	Cursor int          `json:"cursor"`
	Page   catalog.Page `json:"page"`
}

func (s *Server) loadMore(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	name := chi.URLParam(r, "name")
	cursor := sess.LoadMore(name)
	kit.WriteJSON(w, http.StatusOK, loadMoreResp{Cursor: cursor, Page: sess.Row(name)})
}

type setQueryReq struct {
	Query string `json:"query"`
}

func (s *Server) setQuery(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req setQueryReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	kit.WriteJSON(w, http.StatusAccepted, sess.SetQuery(req.Query))
}

// sessionSearch returns the stream snapshot; with wait=1 it first blocks
// until the pending scan settles or the wait timeout passes.
func (s *Server) sessionSearch(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	if r.URL.Query().Get("wait") == "" {
		kit.WriteJSON(w, http.StatusOK, sess.Search())
		return
	}

	timeout := s.WaitTimeout
	if timeout <= 0 {
		timeout = defaultWaitTimeout
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	res, err := sess.WaitSearch(ctx)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		s.logger().Debug("search wait aborted", zap.Error(err), zap.String("session", sess.ID))
	}
	kit.WriteJSON(w, http.StatusOK, res)
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "sid")
	sess, ok := s.Sessions.Get(id)
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "session not found", map[string]any{"id": id})
		return nil, false
	}
	return sess, true
}

func (s *Server) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

var errBadParam = errors.New("must be a positive integer")

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, &paramError{name: name}
	}
	return v, nil
}

type paramError struct{ name string }

func (e *paramError) Error() string { return e.name + " " + errBadParam.Error() }
func (e *paramError) Unwrap() error { return errBadParam }
