package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrInvalidDataset = errors.New("invalid dataset")

// Report summarizes a validated dataset.
type Report struct {
	Items       int            `json:"items"`
	Categories  int            `json:"categories"`
	DanglingIDs map[string]int `json:"dangling_ids,omitempty"`
}

// Dangling is the total number of category references with no item.
func (r Report) Dangling() int {
	n := 0
	for _, c := range r.DanglingIDs {
		n += c
	}
	return n
}

// Validate rejects datasets with missing ids, blank titles or duplicate ids.
// Category references to unknown ids are only counted.
func Validate(ds Dataset) (Report, error) {
	seen := make(map[int]struct{}, len(ds.Items))
	var problems []string

	for i, it := range ds.Items {
		if it.ID == 0 {
			problems = append(problems, fmt.Sprintf("item[%d]: missing id", i))
			continue
		}
		if strings.TrimSpace(it.Title) == "" {
			problems = append(problems, fmt.Sprintf("item %d: missing title", it.ID))
		}
		if _, dup := seen[it.ID]; dup {
			problems = append(problems, fmt.Sprintf("item %d: duplicate id", it.ID))
		}
		seen[it.ID] = struct{}{}
	}

	if len(problems) > 0 {
		return Report{}, fmt.Errorf("%w: %s", ErrInvalidDataset, strings.Join(problems, "; "))
	}

	r := Report{Items: len(ds.Items), Categories: len(ds.Categories)}
	names := make([]string, 0, len(ds.Categories))
	for name := range ds.Categories {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, id := range ds.Categories[name] {
			if _, ok := seen[id]; ok {
				continue
			}
			if r.DanglingIDs == nil {
				r.DanglingIDs = map[string]int{}
			}
			r.DanglingIDs[name]++
		}
	}
	return r, nil
}
