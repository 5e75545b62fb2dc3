// Package service contains the business logic for the fleet dashboard.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No HTTP lives here. Services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/pkordes/fleet-dashboard/internal/auth"
	"github.com/pkordes/fleet-dashboard/internal/domain"
	"github.com/pkordes/fleet-dashboard/internal/listview"
	"github.com/pkordes/fleet-dashboard/internal/repo"
	"github.com/pkordes/fleet-dashboard/internal/triplist"
)

// DefaultMaxViews bounds the registry when ViewOptions.MaxViews is zero.
const DefaultMaxViews = 1000

// ViewOptions configures a ViewService.
type ViewOptions struct {
	PageLimit int
	MaxViews  int
	Sorter    *triplist.Sorter
	Logger    *slog.Logger
}

// ViewService is the in-memory registry of open list views.
// Each view is addressed by a random UUID and belongs to the caller that
// created it (auth.Owner of the creating request). A view is never shared:
// lookups from any other caller report domain.ErrNotFound.
type ViewService struct {
	trips repo.TripRepo
	opts  ViewOptions

	mu    sync.RWMutex
	views map[uuid.UUID]ownedView
	order []uuid.UUID // creation order, oldest first
}

type ownedView struct {
	view  *listview.ListView
	owner string
}

// NewViewService constructs a ViewService whose views fetch through trips.
func NewViewService(trips repo.TripRepo, opts ViewOptions) *ViewService {
	if opts.MaxViews <= 0 {
		opts.MaxViews = DefaultMaxViews
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &ViewService{
		trips: trips,
		opts:  opts,
		views: make(map[uuid.UUID]ownedView),
	}
}

// Create opens a view owned by the caller behind ctx and loads its first
// page. The view is registered even when the first fetch fails; the failure
// is returned alongside it and is visible in the view's banner. When the
// registry is full the oldest view is closed to make room.
func (s *ViewService) Create(ctx context.Context, mode listview.Mode, filter domain.FilterSpec) (uuid.UUID, *listview.ListView, error) {
	v := listview.New(s.trips, listview.Options{
		Mode:   mode,
		Limit:  s.opts.PageLimit,
		Filter: filter,
		Sorter: s.opts.Sorter,
		Logger: s.opts.Logger,
	})
	id := uuid.New()

	s.mu.Lock()
	for len(s.order) >= s.opts.MaxViews {
		oldest := s.order[0]
		s.order = s.order[1:]
		if old, ok := s.views[oldest]; ok {
			old.view.Close()
			delete(s.views, oldest)
			s.opts.Logger.InfoContext(ctx, "evicted list view", "view_id", oldest)
		}
	}
	s.views[id] = ownedView{view: v, owner: auth.Owner(ctx)}
	s.order = append(s.order, id)
	s.mu.Unlock()

	if err := v.Refresh(ctx); err != nil {
		return id, v, fmt.Errorf("service.ViewService.Create: %w", err)
	}
	return id, v, nil
}

// Get returns the view registered under id for the caller behind ctx.
// Returns domain.ErrNotFound if there is none or it belongs to someone else.
func (s *ViewService) Get(ctx context.Context, id uuid.UUID) (*listview.ListView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ov, ok := s.views[id]
	if !ok || ov.owner != auth.Owner(ctx) {
		return nil, fmt.Errorf("service.ViewService.Get: %w: view %s", domain.ErrNotFound, id)
	}
	return ov.view, nil
}

// Close closes and forgets the caller's view. Other views are unaffected.
// Returns domain.ErrNotFound if there is none or it belongs to someone else.
func (s *ViewService) Close(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	ov, ok := s.views[id]
	ok = ok && ov.owner == auth.Owner(ctx)
	if ok {
		delete(s.views, id)
		s.order = slices.DeleteFunc(s.order, func(x uuid.UUID) bool { return x == id })
	}
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("service.ViewService.Close: %w: view %s", domain.ErrNotFound, id)
	}
	ov.view.Close()
	return nil
}

// CloseAll closes every view. Used on shutdown.
func (s *ViewService) CloseAll() {
	s.mu.Lock()
	views := s.views
	s.views = make(map[uuid.UUID]ownedView)
	s.order = nil
	s.mu.Unlock()

	for _, ov := range views {
		ov.view.Close()
	}
}

// Len returns the number of open views.
func (s *ViewService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.views)
}
