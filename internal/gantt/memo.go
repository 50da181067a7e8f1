package gantt

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mitchellh/hashstructure/v2"
)

// DefaultMemoSize bounds the number of cached layouts.
const DefaultMemoSize = 32

// Memo caches Compute results keyed on a structural hash of the Input.
// Cached layouts are shared; callers must not mutate them.
type Memo struct {
	cache *lru.Cache[uint64, *Layout]

	mu     sync.Mutex
	hits   int
	misses int
}

// NewMemo creates a layout cache holding at most size entries.
func NewMemo(size int) *Memo {
	if size <= 0 {
		size = DefaultMemoSize
	}
	cache, err := lru.New[uint64, *Layout](size)
	if err != nil {
		// lru.New only fails on a non-positive size.
		panic(err)
	}
	return &Memo{cache: cache}
}

// Compute returns the cached layout for in, computing it on a miss. Inputs
// that cannot be hashed bypass the cache.
func (m *Memo) Compute(in Input) *Layout {
	key, err := hashInput(in)
	if err != nil {
		return Compute(in)
	}
	if l, ok := m.cache.Get(key); ok {
		m.count(true)
		return l
	}
	m.count(false)
	l := Compute(in)
	m.cache.Add(key, l)
	return l
}

// Stats reports cache hits and misses since creation.
func (m *Memo) Stats() (hits, misses int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits, m.misses
}

// Purge drops every cached layout.
func (m *Memo) Purge() {
	m.cache.Purge()
}

func (m *Memo) count(hit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hit {
		m.hits++
	} else {
		m.misses++
	}
}

// memoKey flattens Input into hashable primitives. time.Time fields are
// unexported, so dates are encoded by hand: window bounds and today by the
// calendar day they truncate to, task dates by instant and zone.
type memoKey struct {
	TaskCount        int
	Tasks            []taskKey
	MinDate          dayKey
	MaxDate          dayKey
	Critical         []string
	Today            dayKey
	Zoom             string
	Expanded         []string
	FilterStatuses   []string
	FilterText       string
	ShowCriticalPath bool
	ShowDependencies bool
	Metrics          RowMetrics
}

type dayKey struct {
	Set bool
	Day int64
}

type instantKey struct {
	Set    bool
	Nanos  int64
	Zone   string
	Offset int
}

type taskKey struct {
	Nil         bool
	ID          string
	ProjectID   string
	Title       string
	Status      string
	Priority    string
	Start       instantKey
	End         instantKey
	Milestone   bool
	Progress    int
	Parent      string
	HasParent   bool
	Depth       int
	OrderIndex  int
	Assignee    string
	HasAssignee bool
	Deps        []string
	DepTypes    []string
	DepLagDays  []int
}

func hashInput(in Input) (uint64, error) {
	k := memoKey{
		TaskCount:        len(in.Tasks),
		MinDate:          dayOf(in.MinDate),
		MaxDate:          dayOf(in.MaxDate),
		Critical:         in.CriticalPath,
		Zoom:             string(in.Zoom),
		Expanded:         in.Expanded.IDs(),
		FilterText:       in.Filter.Text,
		ShowCriticalPath: in.ShowCriticalPath,
		ShowDependencies: in.ShowDependencies,
		Metrics:          in.Metrics,
	}
	if !in.Today.IsZero() {
		k.Today = dayOf(&in.Today)
	}
	for _, s := range in.Filter.Statuses {
		k.FilterStatuses = append(k.FilterStatuses, string(s))
	}
	for _, t := range in.Tasks {
		if t == nil {
			k.Tasks = append(k.Tasks, taskKey{Nil: true})
			continue
		}
		tk := taskKey{
			ID:         t.ID,
			ProjectID:  t.ProjectID,
			Title:      t.Title,
			Status:     string(t.Status),
			Priority:   string(t.Priority),
			Start:      instantOf(t.StartDate),
			End:        instantOf(t.EndDate),
			Milestone:  t.IsMilestone,
			Progress:   t.Progress,
			Depth:      t.Depth,
			OrderIndex: t.OrderIndex,
		}
		if t.ParentID != nil {
			tk.Parent, tk.HasParent = *t.ParentID, true
		}
		if t.AssigneeName != nil {
			tk.Assignee, tk.HasAssignee = *t.AssigneeName, true
		}
		for _, d := range t.Dependencies {
			tk.Deps = append(tk.Deps, d.PredecessorID)
			tk.DepTypes = append(tk.DepTypes, string(d.Type))
			tk.DepLagDays = append(tk.DepLagDays, d.LagDays)
		}
		k.Tasks = append(k.Tasks, tk)
	}
	return hashstructure.Hash(k, hashstructure.FormatV2, nil)
}

func dayOf(t *time.Time) dayKey {
	if t == nil {
		return dayKey{}
	}
	return dayKey{Set: true, Day: truncateDay(*t).Unix()}
}

func instantOf(t *time.Time) instantKey {
	if t == nil {
		return instantKey{}
	}
	zone, offset := t.Zone()
	return instantKey{Set: true, Nanos: t.UnixNano(), Zone: zone, Offset: offset}
}
