package catalog

import (
	"context"
	"sort"
)

const DefaultPageSize = 20

// Page is a window over one category.
type Page struct {
	Category string `json:"category"`
	Page     int    `json:"page"`
	Size     int    `json:"size"`
	Items    []Item `json:"items"`
	Dropped  int    `json:"dropped"`
	HasMore  bool   `json:"has_more"`
}

// Store is the read-only catalog. It is built once and never mutated,
// so it is safe for concurrent readers without locking.
type Store struct {
	items      []Item
	byID       map[int]int
	categories map[string][]int
	report     Report
}

// NewStore validates ds and freezes a private copy of it.
func NewStore(ds Dataset) (*Store, error) {
	report, err := Validate(ds)
	if err != nil {
		return nil, err
	}

	s := &Store{
		items:      make([]Item, len(ds.Items)),
		byID:       make(map[int]int, len(ds.Items)),
		categories: make(map[string][]int, len(ds.Categories)),
		report:     report,
	}
	for i, it := range ds.Items {
		s.items[i] = it.clone()
		s.byID[it.ID] = i
	}
	for name, ids := range ds.Categories {
		cp := make([]int, len(ids))
		copy(cp, ids)
		s.categories[name] = cp
	}
	return s, nil
}

func (s *Store) Ping(ctx context.Context) error { return nil }

// Report returns what validation found when the store was built.
func (s *Store) Report() Report { return s.report }

func (s *Store) Len() int { return len(s.items) }

// Items returns every item in catalog order.
func (s *Store) Items() []Item {
	out := make([]Item, len(s.items))
	for i, it := range s.items {
		out[i] = it.clone()
	}
	return out
}

// Each calls fn for every item in catalog order without copying.
// fn must not retain or modify the item's slices.
func (s *Store) Each(fn func(Item) bool) {
	for _, it := range s.items {
		if !fn(it) {
			return
		}
	}
}

func (s *Store) Item(id int) (Item, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Item{}, false
	}
	return s.items[i].clone(), true
}

// Categories returns category names sorted.
func (s *Store) Categories() []string {
	out := make([]string, 0, len(s.categories))
	for name := range s.categories {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (s *Store) Category(name string) ([]int, bool) {
	ids, ok := s.categories[name]
	if !ok {
		return nil, false
	}
	out := make([]int, len(ids))
	copy(out, ids)
	return out, true
}

// CategoryPage returns up to pageSize items of category starting at page.
// Unknown categories and pages past the end yield an empty slice.
func (s *Store) CategoryPage(category string, page, pageSize int) []Item {
	return s.Page(category, page, pageSize).Items
}

// Page is CategoryPage plus the bookkeeping the caller may want:
// how many dangling ids were skipped and whether further pages exist.
func (s *Store) Page(category string, page, pageSize int) Page {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	p := Page{Category: category, Page: page, Size: pageSize, Items: []Item{}}

	ids := s.categories[category]
	// Compare page numbers before multiplying so huge pages cannot overflow.
	if len(ids) == 0 || page-1 > (len(ids)-1)/pageSize {
		return p
	}
	start := (page - 1) * pageSize
	end := len(ids)
	if pageSize < len(ids)-start {
		end = start + pageSize
	}

	for _, id := range ids[start:end] {
		i, ok := s.byID[id]
		if !ok {
			p.Dropped++
			continue
		}
		p.Items = append(p.Items, s.items[i].clone())
	}
	p.HasMore = end < len(ids)
	return p
}

// Featured is the first item of the featured category. A missing category
// or a dangling first id means there is no featured item.
func (s *Store) Featured() (Item, bool) {
	ids := s.categories[FeaturedCategory]
	if len(ids) == 0 {
		return Item{}, false
	}
	i, ok := s.byID[ids[0]]
	if !ok {
		return Item{}, false
	}
	return s.items[i].clone(), true
}

// Rows returns the home-page layout restricted to categories that exist.
func (s *Store) Rows() []Row {
	out := make([]Row, 0, len(defaultRows))
	for _, r := range defaultRows {
		if _, ok := s.categories[r.Key]; ok {
			out = append(out, r)
		}
	}
	return out
}
