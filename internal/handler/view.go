package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/fleet-dashboard/internal/domain"
	"github.com/pkordes/fleet-dashboard/internal/listview"
)

// ViewResponse is a view's id plus its current snapshot.
type ViewResponse struct {
	ID uuid.UUID `json:"id"`
	listview.Snapshot
}

// CreateViewRequest is the optional body of POST /views.
type CreateViewRequest struct {
	Mode   string            `json:"mode"`
	Filter domain.FilterSpec `json:"filter"`
}

// SetPageRequest is the body of PUT /views/{viewID}/page.
type SetPageRequest struct {
	Page int `json:"page"`
}

// SetModeRequest is the body of PUT /views/{viewID}/mode.
type SetModeRequest struct {
	Mode string `json:"mode"`
}

// ToggleSortRequest is the body of POST /views/{viewID}/sort.
type ToggleSortRequest struct {
	Key string `json:"key"`
}

// CreateView handles POST /views.
// A failed first fetch still creates the view; the failure shows in the
// snapshot's error banner. An expired session is the exception: the view is
// discarded and 401 returned so the browser can sign in again.
func (s *Server) CreateView(w http.ResponseWriter, r *http.Request) {
	var req CreateViewRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	mode, err := listview.ParseMode(req.Mode)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	id, v, err := s.views.Create(r.Context(), mode, req.Filter)
	if errors.Is(err, domain.ErrUnauthorized) {
		_ = s.views.Close(r.Context(), id)
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, ViewResponse{ID: id, Snapshot: v.Snapshot()})
}

// GetView handles GET /views/{viewID}. With ?refresh=true the current page
// is fetched again first.
func (s *Server) GetView(w http.ResponseWriter, r *http.Request) {
	id, v, ok := s.lookupView(w, r)
	if !ok {
		return
	}

	var refresh *bool
	if err := bindQuery(r, "refresh", &refresh); err != nil {
		s.writeError(w, r, err)
		return
	}
	if refresh != nil && *refresh {
		if err := v.Refresh(r.Context()); !s.refreshOK(w, r, err) {
			return
		}
	}
	s.writeView(w, id, v)
}

// CloseView handles DELETE /views/{viewID}.
func (s *Server) CloseView(w http.ResponseWriter, r *http.Request) {
	id, ok := s.viewID(w, r)
	if !ok {
		return
	}
	if err := s.views.Close(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetFilter handles PUT /views/{viewID}/filter.
func (s *Server) SetFilter(w http.ResponseWriter, r *http.Request) {
	id, v, ok := s.lookupView(w, r)
	if !ok {
		return
	}

	var f domain.FilterSpec
	if err := decodeBody(r, &f); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := v.SetFilter(r.Context(), f); !s.refreshOK(w, r, err) {
		return
	}
	s.writeView(w, id, v)
}

// SetPage handles PUT /views/{viewID}/page.
func (s *Server) SetPage(w http.ResponseWriter, r *http.Request) {
	id, v, ok := s.lookupView(w, r)
	if !ok {
		return
	}

	var req SetPageRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := v.SetPage(r.Context(), req.Page); !s.refreshOK(w, r, err) {
		return
	}
	s.writeView(w, id, v)
}

// SetMode handles PUT /views/{viewID}/mode.
func (s *Server) SetMode(w http.ResponseWriter, r *http.Request) {
	id, v, ok := s.lookupView(w, r)
	if !ok {
		return
	}

	var req SetModeRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	mode, err := listview.ParseMode(req.Mode)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := v.SetMode(mode); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeView(w, id, v)
}

// ToggleSort handles POST /views/{viewID}/sort.
// Sorting is local; no backend request is made.
func (s *Server) ToggleSort(w http.ResponseWriter, r *http.Request) {
	id, v, ok := s.lookupView(w, r)
	if !ok {
		return
	}

	var req ToggleSortRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	key, err := domain.ParseSortKey(req.Key)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := v.ToggleSort(key); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeView(w, id, v)
}

// ToggleGroup handles POST /views/{viewID}/groups/{parentID}/toggle.
func (s *Server) ToggleGroup(w http.ResponseWriter, r *http.Request) {
	id, v, ok := s.lookupView(w, r)
	if !ok {
		return
	}

	var parentID int64
	if err := bindPath(chi.URLParam(r, "parentID"), "parentID", &parentID); err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := v.ToggleExpanded(parentID); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeView(w, id, v)
}

// DeleteTrip handles DELETE /views/{viewID}/trips/{tripID}.
// A failed delete is an HTTP error; a failed refetch after a successful
// delete only shows in the banner.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, v, ok := s.lookupView(w, r)
	if !ok {
		return
	}

	var tripID int64
	if err := bindPath(chi.URLParam(r, "tripID"), "tripID", &tripID); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := v.DeleteTrip(r.Context(), tripID); !s.refreshOK(w, r, err) {
		return
	}
	s.writeView(w, id, v)
}

// DismissError handles DELETE /views/{viewID}/error.
func (s *Server) DismissError(w http.ResponseWriter, r *http.Request) {
	id, v, ok := s.lookupView(w, r)
	if !ok {
		return
	}
	v.DismissError()
	s.writeView(w, id, v)
}

// ---- helpers ---------------------------------------------------------------

func (s *Server) viewID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "viewID"))
	if err != nil {
		writeErrorBody(w, http.StatusNotFound, codeNotFound, msgViewNotFound)
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) lookupView(w http.ResponseWriter, r *http.Request) (uuid.UUID, *listview.ListView, bool) {
	id, ok := s.viewID(w, r)
	if !ok {
		return uuid.Nil, nil, false
	}
	v, err := s.views.Get(r.Context(), id)
	if err != nil {
		writeErrorBody(w, http.StatusNotFound, codeNotFound, msgViewNotFound)
		return uuid.Nil, nil, false
	}
	return id, v, true
}

// refreshOK reports whether a view operation may still be answered with the
// snapshot. A failed fetch is already on the banner and is not an HTTP error
// unless the session expired; any other error is written and false returned.
func (s *Server) refreshOK(w http.ResponseWriter, r *http.Request, err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, listview.ErrFetch) && !errors.Is(err, domain.ErrUnauthorized) {
		return true
	}
	s.writeError(w, r, err)
	return false
}

func (s *Server) writeView(w http.ResponseWriter, id uuid.UUID, v *listview.ListView) {
	writeJSON(w, http.StatusOK, ViewResponse{ID: id, Snapshot: v.Snapshot()})
}
