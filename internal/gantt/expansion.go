package gantt

import (
	"sort"

	"github.com/alexanderramin/ganttline/internal/domain"
)

// ExpansionSet holds the ids of tasks whose children are shown. Treat it
// as immutable: Toggle and With return modified copies.
type ExpansionSet map[string]struct{}

// NewExpansionSet builds a set from ids.
func NewExpansionSet(ids ...string) ExpansionSet {
	s := make(ExpansionSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s ExpansionSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s ExpansionSet) Clone() ExpansionSet {
	out := make(ExpansionSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Toggle returns a copy with id's membership flipped.
func (s ExpansionSet) Toggle(id string) ExpansionSet {
	out := s.Clone()
	if out.Has(id) {
		delete(out, id)
	} else {
		out[id] = struct{}{}
	}
	return out
}

// IDs returns the members sorted, for stable hashing and display.
func (s ExpansionSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ParentIndex records which task ids have at least one child in the list.
type ParentIndex map[string]int

// IndexParents counts the children of every referenced parent id.
func IndexParents(tasks []*domain.Task) ParentIndex {
	idx := make(ParentIndex)
	for _, t := range tasks {
		if t == nil || t.ParentID == nil {
			continue
		}
		idx[*t.ParentID]++
	}
	return idx
}

// HasChildren reports whether id is the parent of any task.
func (p ParentIndex) HasChildren(id string) bool {
	return p[id] > 0
}

// DefaultExpansion expands every task that has at least one child.
func DefaultExpansion(tasks []*domain.Task) ExpansionSet {
	known := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if t != nil {
			known[t.ID] = true
		}
	}
	s := make(ExpansionSet)
	for id := range IndexParents(tasks) {
		if known[id] {
			s[id] = struct{}{}
		}
	}
	return s
}
