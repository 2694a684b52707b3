// Package query implements substring search over the catalog and the
// debounced search stream that sits in front of it.
package query

import (
	"strconv"
	"strings"
	"time"

	"Streamflix/internal/catalog"
)

// Match reports whether it contains q in any searchable field.
// q must already be lowercased.
func Match(it catalog.Item, q string) bool {
	if strings.Contains(strings.ToLower(it.Title), q) ||
		strings.Contains(strings.ToLower(it.Description), q) ||
		strings.Contains(strings.ToLower(it.Director), q) {
		return true
	}
	for _, g := range it.Genre {
		if strings.Contains(strings.ToLower(g), q) {
			return true
		}
	}
	for _, c := range it.Cast {
		if strings.Contains(strings.ToLower(c), q) {
			return true
		}
	}
	return strings.Contains(strconv.Itoa(it.Year), q)
}

// Normalize returns the lowercased query and whether a scan is needed.
func Normalize(query string) (string, bool) {
	if strings.TrimSpace(query) == "" {
		return "", false
	}
	return strings.ToLower(query), true
}

// Search filters items in order. A blank query matches nothing.
func Search(items []catalog.Item, query string) []catalog.Item {
	q, ok := Normalize(query)
	if !ok {
		return []catalog.Item{}
	}

	out := []catalog.Item{}
	for _, it := range items {
		if Match(it, q) {
			out = append(out, it)
		}
	}
	return out
}

// Engine runs searches against a store.
type Engine struct {
	store *catalog.Store
	rec   Recorder
}

func NewEngine(store *catalog.Store, rec Recorder) *Engine {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Engine{store: store, rec: rec}
}

// Search performs one full scan of the store. Blank queries return
// an empty result without scanning.
func (e *Engine) Search(query string) []catalog.Item {
	q, ok := Normalize(query)
	if !ok {
		return []catalog.Item{}
	}

	start := time.Now()
	var ids []int
	e.store.Each(func(it catalog.Item) bool {
		if Match(it, q) {
			ids = append(ids, it.ID)
		}
		return true
	})

	out := make([]catalog.Item, 0, len(ids))
	for _, id := range ids {
		if it, ok := e.store.Item(id); ok {
			out = append(out, it)
		}
	}

	e.rec.ScanCompleted(len(out), time.Since(start))
	return out
}
