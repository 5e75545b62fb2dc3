// Package listview holds the state of one trip list on the dashboard: the
// active filter, sort and page, the last successfully fetched page, the
// expanded parent trips and the error banner.
//
// Every change that needs new data goes through Refresh, which cancels the
// fetch it supersedes and drops any response that is no longer the latest.
package listview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/text/language"

	"github.com/pkordes/fleet-dashboard/internal/domain"
	"github.com/pkordes/fleet-dashboard/internal/repo"
	"github.com/pkordes/fleet-dashboard/internal/triplist"
)

// ErrClosed is returned by operations on a view after Close.
var ErrClosed = errors.New("listview: view closed")

// ErrFetch wraps every failed page fetch. The view keeps its previous page
// and the failure is already on the banner.
var ErrFetch = errors.New("listview: fetch failed")

// Mode selects how rows are built.
type Mode string

const (
	// ModeList shows one line per group; parent trips expand into containers.
	ModeList Mode = "list"
	// ModeTable shows one line per record.
	ModeTable Mode = "table"
)

// ParseMode returns ModeList for an empty string.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.TrimSpace(s)) {
	case "", ModeList:
		return ModeList, nil
	case ModeTable:
		return ModeTable, nil
	}
	return "", fmt.Errorf("%w: unknown view mode %q", domain.ErrValidation, s)
}

// Options configures a new ListView. Zero values select the defaults.
type Options struct {
	Mode   Mode
	Limit  int
	Filter domain.FilterSpec
	Sorter *triplist.Sorter
	Logger *slog.Logger
}

// ListView is safe for concurrent use.
type ListView struct {
	trips  repo.TripRepo
	sorter *triplist.Sorter
	log    *slog.Logger
	limit  int

	mu       sync.Mutex
	mode     Mode
	filter   domain.FilterSpec
	sort     domain.SortSpec
	page     int
	records  []domain.TripRecord
	groups   []domain.TripGroup
	pages    int
	total    int64
	banner   string
	loading  bool
	expanded map[int64]bool
	seq      uint64
	cancel   context.CancelFunc
	closed   bool
}

// New returns a view on page 1 with no data. Call Refresh to load it.
func New(trips repo.TripRepo, opts Options) *ListView {
	p := domain.NewPaginationParams(nil, &opts.Limit)
	if opts.Mode == "" {
		opts.Mode = ModeList
	}
	if opts.Sorter == nil {
		opts.Sorter = triplist.NewSorter(language.Und)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &ListView{
		trips:    trips,
		sorter:   opts.Sorter,
		log:      opts.Logger,
		limit:    p.Limit,
		mode:     opts.Mode,
		filter:   normalizeFilter(opts.Filter),
		page:     1,
		records:  []domain.TripRecord{},
		groups:   []domain.TripGroup{},
		expanded: make(map[int64]bool),
	}
}

// Refresh fetches the current page with the current filter.
//
// A failure keeps the previously displayed page, sets the banner to one
// message and is returned. A response for a fetch that has since been
// superseded, or that arrives after Close, is discarded and Refresh
// returns nil.
func (v *ListView) Refresh(ctx context.Context) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrClosed
	}
	if v.cancel != nil {
		v.cancel()
	}
	v.seq++
	token := v.seq
	fetchCtx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	v.loading = true
	q := domain.TripQuery{
		Filter:           v.filter,
		PaginationParams: domain.PaginationParams{Page: v.page, Limit: v.limit},
	}
	v.mu.Unlock()

	page, err := v.trips.List(fetchCtx, q)
	cancel()

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || token != v.seq {
		v.log.DebugContext(ctx, "dropping stale trip page",
			"token", token, "latest", v.seq, "closed", v.closed)
		return nil
	}
	v.cancel = nil
	v.loading = false

	if err != nil {
		// A caller that gave up gets the error but leaves the banner alone.
		if ctx.Err() == nil {
			v.banner = repo.UserMessage(err)
		}
		return fmt.Errorf("listview.ListView.Refresh: %w: %w", ErrFetch, err)
	}

	v.records = page.Records
	v.groups = triplist.Group(page.Records)
	v.pages = page.Pages
	v.total = page.Total
	v.banner = ""
	v.pruneExpanded()
	return nil
}

// SetFilter replaces the filter, returns to page 1 and refetches.
func (v *ListView) SetFilter(ctx context.Context, f domain.FilterSpec) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrClosed
	}
	v.filter = normalizeFilter(f)
	v.page = 1
	v.mu.Unlock()

	return v.Refresh(ctx)
}

// SetPage moves to page (1-based) and refetches. Pages past the last known
// page are rejected once a page count is known.
func (v *ListView) SetPage(ctx context.Context, page int) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrClosed
	}
	if page < 1 || (v.pages > 0 && page > v.pages) {
		pages := v.pages
		v.mu.Unlock()
		return fmt.Errorf("listview.ListView.SetPage: %w: page %d outside 1..%d", domain.ErrValidation, page, pages)
	}
	v.page = page
	v.mu.Unlock()

	return v.Refresh(ctx)
}

// ToggleSort applies SortSpec.Toggle for key and re-sorts locally.
func (v *ListView) ToggleSort(key domain.SortKey) (domain.SortSpec, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return domain.SortSpec{}, ErrClosed
	}
	v.sort = v.sort.Toggle(key)
	return v.sort, nil
}

// SetMode switches between list and table rows.
func (v *ListView) SetMode(m Mode) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return ErrClosed
	}
	v.mode = m
	return nil
}

// ToggleExpanded flips the expansion of a parent trip on the current page
// and returns the new state.
func (v *ListView) ToggleExpanded(parentID int64) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return false, ErrClosed
	}
	if !v.hasParent(parentID) {
		return false, fmt.Errorf("listview.ListView.ToggleExpanded: %w: parent trip %d not on this page", domain.ErrNotFound, parentID)
	}
	if v.expanded[parentID] {
		delete(v.expanded, parentID)
		return false, nil
	}
	v.expanded[parentID] = true
	return true, nil
}

// DeleteTrip deletes one record on the backend and then refetches the current
// page. When that leaves the page empty and it is not the first, the view
// steps back one page.
func (v *ListView) DeleteTrip(ctx context.Context, id int64) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrClosed
	}
	v.mu.Unlock()

	if err := v.trips.Delete(ctx, id); err != nil {
		v.mu.Lock()
		v.banner = repo.UserMessage(err)
		v.mu.Unlock()
		return fmt.Errorf("listview.ListView.DeleteTrip: %w", err)
	}

	if err := v.Refresh(ctx); err != nil {
		return err
	}

	v.mu.Lock()
	back := len(v.records) == 0 && v.page > 1 && !v.closed
	if back {
		v.page--
	}
	v.mu.Unlock()
	if back {
		return v.Refresh(ctx)
	}
	return nil
}

// DismissError clears the banner.
func (v *ListView) DismissError() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.banner = ""
}

// Close cancels any in-flight fetch. Responses arriving afterwards are
// ignored and further operations return ErrClosed. Close is idempotent.
func (v *ListView) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.closed = true
	v.loading = false
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}

// Snapshot is an immutable copy of a view's presentable state.
type Snapshot struct {
	Mode    Mode              `json:"mode"`
	Rows    []domain.Row      `json:"rows"`
	Filter  domain.FilterSpec `json:"filter"`
	Sort    domain.SortSpec   `json:"sort"`
	Page    int               `json:"page"`
	Pages   int               `json:"pages"`
	Limit   int               `json:"limit"`
	Total   int64             `json:"total"`
	Error   string            `json:"error,omitempty"`
	Loading bool              `json:"loading"`
}

// Snapshot builds rows for the current mode. In list mode groups are sorted
// and parent rows are followed by their containers when expanded; in table
// mode every record is sorted on its own.
func (v *ListView) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	var rows []domain.Row
	switch v.mode {
	case ModeTable:
		rows = triplist.TableRows(v.sorter.Records(v.records, v.sort))
	default:
		rows = triplist.ListRows(v.sorter.Groups(v.groups, v.sort), v.expanded)
	}

	return Snapshot{
		Mode:    v.mode,
		Rows:    rows,
		Filter:  v.filter,
		Sort:    v.sort,
		Page:    v.page,
		Pages:   v.pages,
		Limit:   v.limit,
		Total:   v.total,
		Error:   v.banner,
		Loading: v.loading,
	}
}

// ExportRecords returns the current page's records in display order with
// every group flattened.
func (v *ListView) ExportRecords() []domain.TripRecord {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.mode == ModeTable {
		return v.sorter.Records(v.records, v.sort)
	}
	return triplist.Flatten(v.sorter.Groups(v.groups, v.sort))
}

// Filter returns the active filter.
func (v *ListView) Filter() domain.FilterSpec {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filter
}

func (v *ListView) hasParent(id int64) bool {
	for _, g := range v.groups {
		if g.Kind == domain.GroupParent && g.ParentID == id {
			return true
		}
	}
	return false
}

// pruneExpanded forgets parents that are no longer on the page.
func (v *ListView) pruneExpanded() {
	for id := range v.expanded {
		if !v.hasParent(id) {
			delete(v.expanded, id)
		}
	}
}

func normalizeFilter(f domain.FilterSpec) domain.FilterSpec {
	return domain.FilterSpec{
		Company:   strings.TrimSpace(f.Company),
		StartDate: strings.TrimSpace(f.StartDate),
		EndDate:   strings.TrimSpace(f.EndDate),
		Search:    strings.TrimSpace(f.Search),
	}
}
