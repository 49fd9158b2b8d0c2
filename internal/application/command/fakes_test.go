package command

import (
	"context"
	"sort"
	"sync"

	"github.com/azkar-hub/azkar-hub/internal/domain/azkar"
	"github.com/azkar-hub/azkar-hub/internal/domain/progress"
	"github.com/azkar-hub/azkar-hub/internal/domain/shared"
)

type recordKey struct {
	user shared.UserID
	zikr shared.ZikrID
}

type dailyKey struct {
	user shared.UserID
	date string
}

// memStore is a transactional in-memory store: Do serializes callers and
// restores a snapshot when fn fails.
type memStore struct {
	mu sync.Mutex

	catalog map[shared.ZikrID]*azkar.Zikr
	records map[recordKey]progress.Record
	daily   map[dailyKey]progress.DailySummary

	// failDaily makes every daily write fail.
	failDaily error
	txCount   int

	// ops logs lock and read calls in order.
	ops []string
}

func newMemStore(items ...*azkar.Zikr) *memStore {
	s := &memStore{
		catalog: make(map[shared.ZikrID]*azkar.Zikr),
		records: make(map[recordKey]progress.Record),
		daily:   make(map[dailyKey]progress.DailySummary),
	}
	for _, z := range items {
		s.catalog[z.ID] = z
	}
	return s
}

func (s *memStore) Do(ctx context.Context, fn func(ctx context.Context, repos progress.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txCount++

	records := make(map[recordKey]progress.Record, len(s.records))
	for k, v := range s.records {
		records[k] = v
	}
	daily := make(map[dailyKey]progress.DailySummary, len(s.daily))
	for k, v := range s.daily {
		daily[k] = v
	}

	repos := progress.Repos{
		Progress: memProgress{s},
		Daily:    memDaily{s},
		Azkar:    memAzkar{s},
	}
	if err := fn(ctx, repos); err != nil {
		s.records = records
		s.daily = daily
		return err
	}
	return nil
}

func (s *memStore) record(user shared.UserID, zikr shared.ZikrID) (progress.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[recordKey{user, zikr}]
	return r, ok
}

func (s *memStore) summary(user shared.UserID, date string) (progress.DailySummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.daily[dailyKey{user, date}]
	return d, ok
}

func (s *memStore) recordCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

type memProgress struct{ s *memStore }

func (m memProgress) LockUser(_ context.Context, user shared.UserID) error {
	m.s.ops = append(m.s.ops, "lock "+string(user))
	return nil
}

func (m memProgress) GetForUpdate(ctx context.Context, user shared.UserID, zikr shared.ZikrID) (*progress.Record, error) {
	m.s.ops = append(m.s.ops, "get "+string(zikr))
	return m.Get(ctx, user, zikr)
}

func (m memProgress) Get(_ context.Context, user shared.UserID, zikr shared.ZikrID) (*progress.Record, error) {
	r, ok := m.s.records[recordKey{user, zikr}]
	if !ok {
		return nil, shared.ErrProgressNotFound
	}
	return &r, nil
}

func (m memProgress) ListByUser(_ context.Context, user shared.UserID) ([]*progress.Record, error) {
	m.s.ops = append(m.s.ops, "list "+string(user))
	var out []*progress.Record
	for k, v := range m.s.records {
		if k.user == user {
			r := v
			out = append(out, &r)
		}
	}
	return out, nil
}

func (m memProgress) Create(_ context.Context, r *progress.Record) error {
	k := recordKey{r.UserID, r.ZikrID}
	if _, ok := m.s.records[k]; ok {
		return shared.ErrProgressExists
	}
	if _, ok := m.s.catalog[r.ZikrID]; !ok {
		return shared.ErrZikrNotFound
	}
	m.s.records[k] = *r
	return nil
}

func (m memProgress) Update(_ context.Context, r *progress.Record) error {
	k := recordKey{r.UserID, r.ZikrID}
	if _, ok := m.s.records[k]; !ok {
		return shared.ErrProgressNotFound
	}
	m.s.records[k] = *r
	return nil
}

type memDaily struct{ s *memStore }

func (m memDaily) Get(_ context.Context, user shared.UserID, date string) (*progress.DailySummary, error) {
	d, ok := m.s.daily[dailyKey{user, date}]
	if !ok {
		return nil, shared.ErrDailySummaryNotFound
	}
	return &d, nil
}

func (m memDaily) Create(_ context.Context, d *progress.DailySummary) error {
	if m.s.failDaily != nil {
		return m.s.failDaily
	}
	k := dailyKey{d.UserID, d.Date}
	if cur, ok := m.s.daily[k]; ok {
		cur.MorningCompleted = d.MorningCompleted
		cur.EveningCompleted = d.EveningCompleted
		cur.TotalAzkarCompleted = d.TotalAzkarCompleted
		cur.UpdatedAt = d.UpdatedAt
		m.s.daily[k] = cur
		*d = cur
		return nil
	}
	m.s.daily[k] = *d
	return nil
}

func (m memDaily) UpdateTotals(_ context.Context, d *progress.DailySummary) error {
	if m.s.failDaily != nil {
		return m.s.failDaily
	}
	k := dailyKey{d.UserID, d.Date}
	cur, ok := m.s.daily[k]
	if !ok {
		return shared.ErrDailySummaryNotFound
	}
	cur.MorningCompleted = d.MorningCompleted
	cur.EveningCompleted = d.EveningCompleted
	cur.TotalAzkarCompleted = d.TotalAzkarCompleted
	cur.UpdatedAt = d.UpdatedAt
	m.s.daily[k] = cur
	return nil
}

func (m memDaily) ListByUser(_ context.Context, user shared.UserID, r shared.DateRange, limit int) ([]*progress.DailySummary, error) {
	var out []*progress.DailySummary
	for k, v := range m.s.daily {
		if k.user == user && r.Contains(k.date) {
			d := v
			out = append(out, &d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memAzkar struct{ s *memStore }

func (m memAzkar) GetByID(_ context.Context, id shared.ZikrID) (*azkar.Zikr, error) {
	z, ok := m.s.catalog[id]
	if !ok {
		return nil, shared.ErrZikrNotFound
	}
	return z, nil
}

func (m memAzkar) ListByCategory(_ context.Context, c azkar.Category) ([]*azkar.Zikr, error) {
	var out []*azkar.Zikr
	for _, z := range m.s.catalog {
		if z.Category == c {
			out = append(out, z)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (m memAzkar) Search(context.Context, azkar.SearchQuery) ([]*azkar.Zikr, error) {
	return nil, nil
}
