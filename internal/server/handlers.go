package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/graph"
	"github.com/matzehuels/lineage/pkg/person"
	"github.com/matzehuels/lineage/pkg/pipeline"
)

// contentTypes maps artifact formats to response content types.
var contentTypes = map[string]string{
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
}

// =============================================================================
// Response Types
// =============================================================================

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

type healthResponse struct {
	Status string `json:"status"`
	People int    `json:"people"`
	Source string `json:"source,omitempty"`
	Hash   string `json:"hash,omitempty"`
}

type peopleResponse struct {
	People []*person.Person `json:"people"`
	Count  int              `json:"count"`
	Total  int              `json:"total"`
}

type personRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type personResponse struct {
	person.Person
	BirthYear       string      `json:"birth_year,omitempty"`
	DeathYear       string      `json:"death_year,omitempty"`
	Born            string      `json:"born"`
	Died            string      `json:"died,omitempty"`
	Age             *int        `json:"age,omitempty"`
	BirthOrderLabel string      `json:"birth_order_label,omitempty"`
	Father          *personRef  `json:"father,omitempty"`
	Mother          *personRef  `json:"mother,omitempty"`
	Children        []personRef `json:"children"`
}

type treeResponse struct {
	graph.Layout
	CacheHit bool `json:"cache_hit"`
}

type imagesResponse struct {
	ID      string   `json:"id"`
	Image   string   `json:"image,omitempty"`
	Gallery []string `json:"gallery"`
}

type refreshResponse struct {
	People int    `json:"people"`
	Source string `json:"source"`
	Hash   string `json:"hash"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	data := s.view.Data()
	writeJSON(w, http.StatusOK, healthResponse{
		Status: "ok",
		People: data.Repo.Len(),
		Source: data.Snapshot.Source,
		Hash:   data.Hash,
	})
}

// handleListPeople handles GET /api/people?q=&limit=
func (s *Server) handleListPeople(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "limit must be a non-negative integer, got %q", v))
			return
		}
		limit = n
	}

	repo := s.view.Data().Repo
	people := repo.Search(r.URL.Query().Get("q"), limit)
	if people == nil {
		people = []*person.Person{}
	}
	writeJSON(w, http.StatusOK, peopleResponse{People: people, Count: len(people), Total: repo.Len()})
}

// handleGetPerson handles GET /api/people/{id}
func (s *Server) handleGetPerson(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidatePersonID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	repo := s.view.Data().Repo
	p, ok := repo.ByID(id)
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodePersonNotFound, "person %s not found", id))
		return
	}
	writeJSON(w, http.StatusOK, describe(p, repo, time.Now()))
}

// describe adds the derived display fields to p.
func describe(p *person.Person, repo *person.Repository, now time.Time) personResponse {
	resp := personResponse{
		Person:          *p,
		BirthYear:       p.BirthYear(),
		DeathYear:       p.DeathYear(),
		Born:            person.FormatDate(p.BirthDate),
		BirthOrderLabel: person.FormatBirthOrder(p.BirthOrder),
		Children:        []personRef{},
	}
	if p.DeathDate != "" {
		resp.Died = person.FormatDate(p.DeathDate)
	}
	if age, ok := person.Age(p.BirthDate, p.DeathDate, now); ok {
		resp.Age = &age
	}
	if f, ok := repo.Father(p.ID); ok {
		resp.Father = &personRef{ID: f.ID, Name: f.DisplayName()}
	}
	if m, ok := repo.Mother(p.ID); ok {
		resp.Mother = &personRef{ID: m.ID, Name: m.DisplayName()}
	}
	for _, c := range repo.ChildrenOf(p.ID) {
		resp.Children = append(resp.Children, personRef{ID: c.ID, Name: c.DisplayName()})
	}
	return resp
}

// handleTree handles GET /api/tree/{id}
func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	opts, format, err := s.treeOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.Render(r.Context(), s.view.Data(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if format == pipeline.FormatJSON || res.Empty() {
		writeJSON(w, http.StatusOK, treeResponse{Layout: res.Layout, CacheHit: res.CacheHit})
		return
	}

	artifacts, err := pipeline.Artifacts(res.Layout, []string{format}, r.URL.Query().Get("detailed") == "true")
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format))
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	w.Write(artifacts[format])
}

// treeOptions reads tree options from the request over the server defaults.
func (s *Server) treeOptions(r *http.Request) (pipeline.Options, string, error) {
	q := r.URL.Query()
	opts := s.defaults
	opts.Root = chi.URLParam(r, "id")

	if v := q.Get("direction"); v != "" {
		opts.Direction = v
	}
	if v := q.Get("depth"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, "", errors.New(errors.ErrCodeInvalidDepth, "depth must be an integer, got %q", v)
		}
		if err := errors.ValidateDepth(n); err != nil {
			return opts, "", err
		}
		opts.MaxDepth = pipeline.Depth(n)
	}
	if v := q.Get("both"); v != "" {
		both, err := strconv.ParseBool(v)
		if err != nil {
			return opts, "", errors.New(errors.ErrCodeInvalidInput, "both must be a boolean, got %q", v)
		}
		opts.FatherOnly = !both
	}
	if v := q.Get("orientation"); v != "" {
		opts.Orientation = v
	}
	if v := q.Get("width"); v != "" {
		width, err := strconv.ParseFloat(v, 64)
		if err != nil || width <= 0 {
			return opts, "", errors.New(errors.ErrCodeInvalidInput, "width must be a positive number, got %q", v)
		}
		opts.ViewportWidth = width
	}
	if v := q.Get("images"); v != "" {
		images, err := strconv.ParseBool(v)
		if err != nil {
			return opts, "", errors.New(errors.ErrCodeInvalidInput, "images must be a boolean, got %q", v)
		}
		opts.SkipImages = !images
	}

	format := strings.ToLower(q.Get("format"))
	if format == "" {
		format = pipeline.FormatJSON
	}
	if _, ok := contentTypes[format]; !ok {
		return opts, "", errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, "", err
	}
	return opts, format, nil
}

// handleImages handles GET /api/images/{id}
func (s *Server) handleImages(w http.ResponseWriter, r *http.Request) {
	if s.gallery == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "image lookup is not configured"))
		return
	}
	id := chi.URLParam(r, "id")
	if err := errors.ValidatePersonID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	if !s.view.Data().Repo.Has(id) {
		s.writeError(w, r, errors.New(errors.ErrCodePersonNotFound, "person %s not found", id))
		return
	}

	refs, err := s.gallery.Gallery(r.Context(), id)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeNetwork, err, "look up images of %s", id))
		return
	}
	resp := imagesResponse{ID: id, Gallery: []string{}}
	if len(refs) > 0 {
		resp.Image = refs[0]
		resp.Gallery = refs
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleRefresh handles POST /api/refresh
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	data, err := s.view.Load(r.Context(), true)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, refreshResponse{
		People: data.Repo.Len(),
		Source: data.Snapshot.Source,
		Hash:   data.Hash,
	})
}

// =============================================================================
// Helpers
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps err to its status code and writes the error body.
// Uncoded errors are reported as internal errors.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		switch {
		case stderrors.Is(err, context.DeadlineExceeded):
			code = errors.ErrCodeTimeout
		default:
			code = errors.ErrCodeInternal
		}
	}
	status := errors.HTTPStatus(code)

	reqID := getRequestID(r.Context())
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "code", code, "error", err, "request", reqID)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "code", code, "error", err, "request", reqID)
	}

	msg := errors.UserMessage(err)
	if code == errors.ErrCodeInternal {
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg, RequestID: reqID}})
}
