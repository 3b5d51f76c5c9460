package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/okian/abcboard/internal/domain/model"
)

// snapshot is immutable once published. Indices hold positions into employees.
type snapshot struct {
	employees []model.ClassifiedEmployee
	ranks     []int
	byID      map[string]int
	byCode    map[string]int
	byEmail   map[string]int
	byDept    map[string][]int
	depts     []string
	version   uint64
	loadedAt  time.Time
}

// SnapshotStore is an in-memory Store. Writes rebuild every index and swap
// the snapshot pointer; reads are lock-free.
type SnapshotStore struct {
	current atomic.Pointer[snapshot]
	now     func() time.Time
}

// NewSnapshotStore creates an empty store.
func NewSnapshotStore(opts ...Option) *SnapshotStore {
	s := &SnapshotStore{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.current.Store(&snapshot{
		byID:    map[string]int{},
		byCode:  map[string]int{},
		byEmail: map[string]int{},
		byDept:  map[string][]int{},
	})
	return s
}

func normalizeKey(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Replace implements Store.
func (s *SnapshotStore) Replace(ctx context.Context, employees []model.ClassifiedEmployee) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	next := &snapshot{
		employees: append([]model.ClassifiedEmployee(nil), employees...),
		byID:      make(map[string]int, len(employees)),
		byCode:    make(map[string]int, len(employees)),
		byEmail:   make(map[string]int, len(employees)),
		byDept:    make(map[string][]int),
		loadedAt:  s.now(),
	}
	for i, e := range next.employees {
		if _, dup := next.byID[e.Employee.ID]; dup {
			return fmt.Errorf("duplicate employee id %q", e.Employee.ID)
		}
		next.byID[e.Employee.ID] = i
		if c := normalizeKey(e.Employee.EmployeeCode); c != "" {
			next.byCode[c] = i
		}
		if m := normalizeKey(e.Employee.Email); m != "" {
			if _, taken := next.byEmail[m]; !taken {
				next.byEmail[m] = i
			}
		}
		d := e.Employee.Department
		if _, seen := next.byDept[d]; !seen {
			next.depts = append(next.depts, d)
		}
		next.byDept[d] = append(next.byDept[d], i)
	}
	sort.Strings(next.depts)
	next.ranks = rankPositions(next.employees)

	// Version is monotonic across concurrent writers.
	for {
		prev := s.current.Load()
		next.version = prev.version + 1
		if s.current.CompareAndSwap(prev, next) {
			return nil
		}
	}
}

// rankPositions assigns competition ranks (1, 2, 2, 4) by TotalScore desc.
func rankPositions(employees []model.ClassifiedEmployee) []int {
	order := make([]int, len(employees))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return employees[order[a]].TotalScore > employees[order[b]].TotalScore
	})
	ranks := make([]int, len(employees))
	for pos, idx := range order {
		if pos > 0 && employees[order[pos-1]].TotalScore == employees[idx].TotalScore {
			ranks[idx] = ranks[order[pos-1]]
			continue
		}
		ranks[idx] = pos + 1
	}
	return ranks
}

// Get implements Store.
func (s *SnapshotStore) Get(_ context.Context, key string) (Entry, error) {
	snap := s.current.Load()
	if i, ok := snap.byID[strings.TrimSpace(key)]; ok {
		return snap.entry(i), nil
	}
	k := normalizeKey(key)
	if i, ok := snap.byCode[k]; ok {
		return snap.entry(i), nil
	}
	if i, ok := snap.byEmail[k]; ok {
		return snap.entry(i), nil
	}
	return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, key)
}

func (snap *snapshot) entry(i int) Entry {
	return Entry{Employee: snap.employees[i], Rank: snap.ranks[i]}
}

// All implements Store.
func (s *SnapshotStore) All(_ context.Context) []model.ClassifiedEmployee {
	snap := s.current.Load()
	return append([]model.ClassifiedEmployee{}, snap.employees...)
}

// Find implements Store.
func (s *SnapshotStore) Find(_ context.Context, f Filter) ([]model.ClassifiedEmployee, int, error) {
	if f.Limit < 0 {
		return nil, 0, fmt.Errorf("%w: %d", ErrInvalidLimit, f.Limit)
	}
	if f.MinScore != nil && f.MaxScore != nil && *f.MinScore > *f.MaxScore {
		return nil, 0, fmt.Errorf("%w: min %g above max %g", ErrInvalidRange, *f.MinScore, *f.MaxScore)
	}
	snap := s.current.Load()

	candidates := snap.employees
	if f.Department != "" {
		idx := snap.byDept[f.Department]
		candidates = make([]model.ClassifiedEmployee, len(idx))
		for i, p := range idx {
			candidates[i] = snap.employees[p]
		}
	}

	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := []model.ClassifiedEmployee{}
	total := 0
	for _, e := range candidates {
		if !f.matches(e, q) {
			continue
		}
		total++
		if f.Limit == 0 || len(out) < f.Limit {
			out = append(out, e)
		}
	}
	return out, total, nil
}

func (f Filter) matches(e model.ClassifiedEmployee, q string) bool {
	if f.Category != "" && (e.Category == nil || e.Category.Key != f.Category) {
		return false
	}
	if f.Position != "" && !strings.EqualFold(e.Employee.Position, f.Position) {
		return false
	}
	if f.MinScore != nil && e.TotalScore < *f.MinScore {
		return false
	}
	if f.MaxScore != nil && e.TotalScore > *f.MaxScore {
		return false
	}
	if q == "" {
		return true
	}
	for _, field := range []string{
		e.Employee.Name, e.Employee.Email, e.Employee.Department,
		e.Employee.Position, e.Employee.EmployeeCode,
	} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// Departments implements Store.
func (s *SnapshotStore) Departments(_ context.Context) []string {
	return append([]string{}, s.current.Load().depts...)
}

// Count implements Store.
func (s *SnapshotStore) Count(_ context.Context) int {
	return len(s.current.Load().employees)
}

// Version implements Store.
func (s *SnapshotStore) Version(_ context.Context) uint64 {
	return s.current.Load().version
}

// LoadedAt implements Store.
func (s *SnapshotStore) LoadedAt(_ context.Context) time.Time {
	return s.current.Load().loadedAt
}
