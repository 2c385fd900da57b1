// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/gogpu/photomark"
	"github.com/gogpu/photomark/internal/logging"
	"github.com/gogpu/photomark/notify"
	"github.com/gogpu/photomark/scene"
	"github.com/gogpu/photomark/search"
	"github.com/gogpu/photomark/session"
	"github.com/gogpu/photomark/surface"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: msg})
}

type searchResponse struct {
	Query   string          `json:"query"`
	Results []search.Result `json:"results"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	results, err := s.editor.Searcher().Search(r.Context(), q)
	switch {
	case errors.Is(err, search.ErrStale):
		writeError(w, r, http.StatusConflict, "superseded by a newer search")
		return
	case errors.Is(err, context.Canceled):
		// Client went away.
		return
	case err != nil:
		writeError(w, r, http.StatusBadGateway, search.MsgSearchFailed)
		return
	}
	if results == nil {
		results = []search.Result{}
	}
	render.JSON(w, r, searchResponse{Query: search.NormalizeQuery(q), Results: results})
}

type queryRequest struct {
	Query string `json:"query"`
}

func (s *Server) handleSetQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	s.editor.Searcher().SetQuery(req.Query)
	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, s.editor.Searcher().Snapshot())
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	snap := s.editor.Searcher().Snapshot()
	if snap.Results == nil {
		snap.Results = []search.Result{}
	}
	render.JSON(w, r, snap)
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	items := s.notes.Recent()
	if items == nil {
		items = []notify.Notification{}
	}
	render.JSON(w, r, items)
}

type selectRequest struct {
	URL      string `json:"url"`
	ResultID int64  `json:"resultId"`
}

type sessionResponse struct {
	State   session.State `json:"state"`
	URL     string        `json:"url"`
	Objects []scene.Info  `json:"objects"`
	Error   string        `json:"error,omitempty"`
}

func describeSession(sess *session.Session) sessionResponse {
	resp := sessionResponse{
		State:   sess.State(),
		URL:     sess.URL(),
		Objects: []scene.Info{},
	}
	for info := range sess.Inspect() {
		resp.Objects = append(resp.Objects, info)
	}
	if err := sess.Err(); err != nil {
		resp.Error = session.MsgLoadFailed
	}
	return resp
}

// handleSelect starts a session. With ?wait=true it responds once the image
// has loaded.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	url := req.URL
	if url == "" && req.ResultID != 0 {
		res, ok := s.editor.Searcher().Lookup(req.ResultID)
		if !ok {
			writeError(w, r, http.StatusNotFound, "unknown result "+strconv.FormatInt(req.ResultID, 10))
			return
		}
		url = s.editor.Searcher().Select(res)
	}
	if url == "" {
		writeError(w, r, http.StatusBadRequest, "url or resultId is required")
		return
	}

	// The load outlives the request.
	sess, err := s.editor.Select(context.WithoutCancel(r.Context()), url)
	if err != nil {
		logging.With("server").Warn("select failed", "url", url, "error", err)
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	if wait, _ := strconv.ParseBool(r.URL.Query().Get("wait")); wait {
		_ = sess.Wait(r.Context())
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, describeSession(sess))
}

// current returns the session or writes 404.
func (s *Server) current(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, ok := s.editor.Session()
	if !ok {
		writeError(w, r, http.StatusNotFound, "no image selected")
	}
	return sess, ok
}

// ready returns a Ready session or writes 404/409.
func (s *Server) ready(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, ok := s.current(w, r)
	if !ok {
		return nil, false
	}
	if st := sess.State(); st != session.Ready {
		writeError(w, r, http.StatusConflict, "session is "+st.String())
		return nil, false
	}
	return sess, true
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.current(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, describeSession(sess))
}

func (s *Server) handleDiscard(w http.ResponseWriter, r *http.Request) {
	if err := s.editor.Discard(); err != nil {
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type objectResponse struct {
	ID scene.ID `json:"id"`
}

func (s *Server) handleAddText(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.ready(w, r)
	if !ok {
		return
	}
	id, ok := sess.AddText()
	if !ok {
		writeError(w, r, http.StatusConflict, "session is "+sess.State().String())
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, objectResponse{ID: id})
}

type shapeRequest struct {
	Kind scene.ShapeKind `json:"kind"`
}

func (s *Server) handleAddShape(w http.ResponseWriter, r *http.Request) {
	var req shapeRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	sess, ok := s.ready(w, r)
	if !ok {
		return
	}
	id, ok := sess.AddShape(req.Kind)
	if !ok {
		if sess.State() == session.Ready {
			writeError(w, r, http.StatusBadRequest, "unknown shape kind "+strconv.Quote(string(req.Kind)))
		} else {
			writeError(w, r, http.StatusConflict, "session is "+sess.State().String())
		}
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, objectResponse{ID: id})
}

type editTextRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleEditText(w http.ResponseWriter, r *http.Request) {
	var req editTextRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	sess, ok := s.ready(w, r)
	if !ok {
		return
	}
	id := scene.ID(chi.URLParam(r, "id"))
	if !sess.EditText(id, req.Content) {
		writeError(w, r, http.StatusNotFound, "no text object "+string(id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func exportStatus(err error) int {
	switch {
	case errors.Is(err, session.ErrNotReady), errors.Is(err, session.ErrDisposed):
		return http.StatusConflict
	case errors.Is(err, photomark.ErrNoSession):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := surface.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeError(w, r, http.StatusNotFound, err.Error())
		return
	}
	sess, ok := s.current(w, r)
	if !ok {
		return
	}
	data, err := sess.Export(format)
	if err != nil {
		writeError(w, r, exportStatus(err), err.Error())
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+photomark.Filename(format)+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

type saveRequest struct {
	Format string `json:"format"`
}

type saveResponse struct {
	Location string `json:"location"`
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if r.ContentLength != 0 {
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	format := surface.FormatPNG
	if req.Format != "" {
		f, err := surface.ParseFormat(req.Format)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		format = f
	}
	loc, err := s.editor.Save(r.Context(), format)
	if err != nil {
		writeError(w, r, exportStatus(err), err.Error())
		return
	}
	render.JSON(w, r, saveResponse{Location: loc})
}
