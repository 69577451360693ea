package listview

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var DefaultPageSizes = []int{10, 25, 50}

// AllFilter is the conventional "no filtering" value of a categorical filter.
const AllFilter = "all"

type EmptyKind int

const (
	EmptyNone EmptyKind = iota
	// EmptyNoRecords means the fetched collection itself is empty.
	EmptyNoRecords
	// EmptyNoMatches means records exist but the query or filters exclude all of them.
	EmptyNoMatches
)

func (k EmptyKind) String() string {
	switch k {
	case EmptyNoRecords:
		return "no-records"
	case EmptyNoMatches:
		return "no-matches"
	default:
		return "none"
	}
}

// Field extracts one searchable string from a record. An empty result never
// matches a query.
type Field[T any] func(T) string

// Predicate reports whether record passes a categorical filter set to value.
type Predicate[T any] func(record T, value string) bool

type filter[T any] struct {
	name  string
	match Predicate[T]
	all   string
	value string
}

// Loader fetches the full collection backing a controller.
type Loader[T any] func(ctx context.Context) ([]T, error)

type View[T any] struct {
	Items      []T
	Total      int
	Filtered   int
	Page       int
	PageSize   int
	TotalPages int
	// From and To are 1-based positions of the first and last visible item,
	// both zero when nothing is visible.
	From  int
	To    int
	Empty EmptyKind
}

// Controller derives a filtered, searched and paginated view from an
// in-memory record set. It is safe for concurrent use.
type Controller[T any] struct {
	mu        sync.RWMutex
	records   []T
	fields    []Field[T]
	filters   []*filter[T]
	query     string
	page      int
	pageSize  int
	pageSizes []int
}

type Option[T any] func(*Controller[T])

func WithSearch[T any](fields ...Field[T]) Option[T] {
	return func(c *Controller[T]) { c.fields = append(c.fields, fields...) }
}

// WithFilter declares a categorical filter. Empty values and the all value
// disable it.
func WithFilter[T any](name string, match Predicate[T], all string) Option[T] {
	return func(c *Controller[T]) {
		c.filters = append(c.filters, &filter[T]{name: name, match: match, all: all, value: all})
	}
}

func WithPageSizes[T any](sizes ...int) Option[T] {
	return func(c *Controller[T]) {
		if len(sizes) > 0 {
			c.pageSizes = append([]int(nil), sizes...)
		}
	}
}

func WithPageSize[T any](size int) Option[T] {
	return func(c *Controller[T]) { c.pageSize = size }
}

func New[T any](opts ...Option[T]) *Controller[T] {
	c := &Controller[T]{
		page:      1,
		pageSizes: append([]int(nil), DefaultPageSizes...),
	}
	for _, opt := range opts {
		opt(c)
	}
	if !c.allowedSize(c.pageSize) {
		c.pageSize = c.pageSizes[0]
	}
	return c
}

func (c *Controller[T]) allowedSize(size int) bool {
	for _, s := range c.pageSizes {
		if s == size {
			return true
		}
	}
	return false
}

// SetRecords replaces the record set wholesale.
func (c *Controller[T]) SetRecords(records []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append([]T(nil), records...)
	c.clampLocked()
}

func (c *Controller[T]) Records() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]T(nil), c.records...)
}

func (c *Controller[T]) SetQuery(q string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = q
	c.clampLocked()
}

func (c *Controller[T]) Query() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.query
}

func (c *Controller[T]) SetFilter(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, f := range c.filters {
		if f.name == name {
			f.value = value
			c.clampLocked()
			return nil
		}
	}
	return fmt.Errorf("listview: unknown filter %q", name)
}

func (c *Controller[T]) Filter(name string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, f := range c.filters {
		if f.name == name {
			return f.value, true
		}
	}
	return "", false
}

// SetPage moves to page, clamped into [1, TotalPages].
func (c *Controller[T]) SetPage(page int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page = page
	c.clampLocked()
}

func (c *Controller[T]) NextPage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page++
	c.clampLocked()
}

func (c *Controller[T]) PrevPage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page--
	c.clampLocked()
}

func (c *Controller[T]) SetPageSize(size int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.allowedSize(size) {
		return fmt.Errorf("listview: page size %d not in %v", size, c.pageSizes)
	}
	c.pageSize = size
	c.clampLocked()
	return nil
}

func (c *Controller[T]) PageSizes() []int {
	return append([]int(nil), c.pageSizes...)
}

// Reset clears the query and filters and returns to page 1.
func (c *Controller[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = ""
	for _, f := range c.filters {
		f.value = f.all
	}
	c.page = 1
}

// Reload invalidates the records and replaces them with what load returns.
// A failed load leaves an empty collection and returns the error.
func (c *Controller[T]) Reload(ctx context.Context, load Loader[T], resetPage bool) error {
	records, err := load(ctx)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.records = nil
		c.page = 1
		return err
	}
	c.records = append([]T(nil), records...)
	if resetPage {
		c.page = 1
	}
	c.clampLocked()
	return nil
}

// Matching returns every record passing the current filters and query,
// ignoring pagination.
func (c *Controller[T]) Matching() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filteredLocked()
}

func (c *Controller[T]) View() View[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	filtered := c.filteredLocked()
	totalPages := TotalPages(len(filtered), c.pageSize)
	page := Clamp(c.page, totalPages)
	start, end := Bounds(page, c.pageSize, len(filtered))

	v := View[T]{
		Items:      append([]T(nil), filtered[start:end]...),
		Total:      len(c.records),
		Filtered:   len(filtered),
		Page:       page,
		PageSize:   c.pageSize,
		TotalPages: totalPages,
	}
	if end > start {
		v.From = start + 1
		v.To = end
	}
	switch {
	case len(c.records) == 0:
		v.Empty = EmptyNoRecords
	case len(filtered) == 0:
		v.Empty = EmptyNoMatches
	}
	return v
}

func (c *Controller[T]) clampLocked() {
	c.page = Clamp(c.page, TotalPages(len(c.filteredLocked()), c.pageSize))
}

func (c *Controller[T]) filteredLocked() []T {
	out := make([]T, 0, len(c.records))
	// Casers keep state, so each derivation gets its own.
	fold := cases.Lower(language.Und)
	q := fold.String(strings.TrimSpace(c.query))
	for _, r := range c.records {
		if !c.passesFilters(r) {
			continue
		}
		if q != "" && !c.matchesQuery(fold, r, q) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (c *Controller[T]) passesFilters(r T) bool {
	for _, f := range c.filters {
		v := strings.TrimSpace(f.value)
		if v == "" || v == f.all {
			continue
		}
		if !f.match(r, v) {
			return false
		}
	}
	return true
}

func (c *Controller[T]) matchesQuery(fold cases.Caser, r T, q string) bool {
	for _, field := range c.fields {
		v := field(r)
		if v == "" {
			continue
		}
		if strings.Contains(fold.String(v), q) {
			return true
		}
	}
	return false
}

// ContainsFold reports whether s contains sub ignoring case, using the same
// folding as the controller's search.
func ContainsFold(s, sub string) bool {
	fold := cases.Lower(language.Und)
	return strings.Contains(fold.String(s), fold.String(sub))
}
